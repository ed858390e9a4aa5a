package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Checker reports whether a token counts as a known word. The dictionary
// updater flags everything the checker rejects.
type Checker interface {
	Known(word string) bool
}

// WordList is a Checker backed by a newline-delimited dictionary file,
// extended with the campaign's wack words and common contractions so
// legitimate campaign vocabulary is never flagged.
type WordList struct {
	words map[string]struct{}
}

// Contractions and possessive forms the base word list typically lacks.
var contractions = []string{
	"i'll", "i've", "he's", "she's", "it's", "we're", "they're", "i'm", "you're",
	"aren't", "can't", "couldn't", "didn't", "doesn't", "don't", "hadn't",
	"hasn't", "haven't", "isn't", "mustn't", "shan't", "shouldn't", "wasn't",
	"weren't", "won't", "wouldn't", "he'll", "she'll", "it'll", "we'll",
	"they'll", "i'd", "you'd", "he'd", "she'd", "we'd", "they'd", "that's",
	"what's", "who's", "where's", "when's", "why's", "how's", "here's", "there's",
}

// LoadWordList builds a WordList from the dictionary file at path plus any
// extra word slices (wack words, for instance). Lookups are case-insensitive.
func LoadWordList(path string, extra ...[]string) (*WordList, error) {
	wl := &WordList{words: make(map[string]struct{})}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		wl.words[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list %s: %w", path, err)
	}

	for _, word := range contractions {
		wl.words[word] = struct{}{}
	}
	for _, words := range extra {
		for _, word := range words {
			wl.words[strings.ToLower(word)] = struct{}{}
		}
	}

	return wl, nil
}

// Known reports whether word is in the list. Tokens containing digits are
// always known; timestamps and dice notation are not vocabulary.
func (w *WordList) Known(word string) bool {
	if word == "" {
		return true
	}
	for _, r := range word {
		if unicode.IsDigit(r) {
			return true
		}
	}
	_, ok := w.words[strings.ToLower(word)]
	return ok
}
