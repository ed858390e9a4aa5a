package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadWackWords reads the curated non-standard vocabulary list: one token per
// line, '#' comments and blank lines ignored. The list is user-maintained and
// never modified by automation; a missing file is treated as an empty list.
func LoadWackWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open wack word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wack word list: %w", err)
	}
	return words, nil
}
