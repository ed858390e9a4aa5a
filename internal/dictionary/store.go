// Package dictionary maintains a campaign's non-standard vocabulary: the
// corrections store of misheard tokens, the curated wack-word list, and the
// matching that fills unresolved corrections automatically.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
)

// Entry is one corrections-store record. Correction is empty while the token
// is flagged but unresolved.
type Entry struct {
	Token      string
	Correction string
}

// Store is the persistent mapping of misheard tokens to their approved
// corrections. Keys are unique case-insensitively. Automation only ever adds
// tokens or fills empty corrections; resolved entries belong to the user and
// are never overwritten.
type Store struct {
	byKey map[string]Entry // keyed by lowercased token
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]Entry)}
}

// LoadStore reads a corrections file. A missing file yields an empty store.
// Blank lines and '#' comments are ignored; lines without the arrow
// separator are skipped and reported in malformed.
func LoadStore(path string) (store *Store, malformed []string, err error) {
	store = NewStore()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil, nil
		}
		return nil, nil, fmt.Errorf("open corrections file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, ok := parseLine(line)
		if !ok {
			malformed = append(malformed, line)
			continue
		}
		store.byKey[strings.ToLower(entry.Token)] = entry
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read corrections file: %w", err)
	}

	return store, malformed, nil
}

// parseLine splits "incorrect -> correction"; the correction may be blank.
func parseLine(line string) (Entry, bool) {
	idx := strings.Index(line, "->")
	if idx < 0 {
		return Entry{}, false
	}
	token := strings.TrimSpace(line[:idx])
	if token == "" {
		return Entry{}, false
	}
	return Entry{
		Token:      token,
		Correction: strings.TrimSpace(line[idx+len("->"):]),
	}, true
}

// Save persists every entry sorted case-insensitively for stable diffs. The
// file is written to a temporary sibling and renamed into place so a crash
// mid-write never corrupts the previous store.
func (s *Store) Save(path string) error {
	entries := s.Entries()

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s -> %s\n", e.Token, e.Correction)
	}

	return fsutil.WriteFileAtomic(path, []byte(sb.String()))
}

// Add inserts a token with an empty correction when no entry exists for it.
// Reports whether a new entry was created.
func (s *Store) Add(token string) bool {
	key := strings.ToLower(token)
	if _, exists := s.byKey[key]; exists {
		return false
	}
	s.byKey[key] = Entry{Token: token}
	return true
}

// Fill sets the correction for a token only while it is still unresolved.
// Reports whether the correction was applied.
func (s *Store) Fill(token, correction string) bool {
	key := strings.ToLower(token)
	entry, exists := s.byKey[key]
	if !exists || entry.Correction != "" || correction == "" {
		return false
	}
	entry.Correction = correction
	s.byKey[key] = entry
	return true
}

// Has reports whether the token has an entry, resolved or not.
func (s *Store) Has(token string) bool {
	_, exists := s.byKey[strings.ToLower(token)]
	return exists
}

// Correction returns the correction for a token and whether it is resolved.
func (s *Store) Correction(token string) (string, bool) {
	entry, exists := s.byKey[strings.ToLower(token)]
	if !exists || entry.Correction == "" {
		return "", false
	}
	return entry.Correction, true
}

// Unresolved returns the tokens still awaiting a correction, sorted
// case-insensitively.
func (s *Store) Unresolved() []string {
	var tokens []string
	for _, e := range s.byKey {
		if e.Correction == "" {
			tokens = append(tokens, e.Token)
		}
	}
	sort.Slice(tokens, func(i, j int) bool {
		return strings.ToLower(tokens[i]) < strings.ToLower(tokens[j])
	})
	return tokens
}

// Resolved returns the token -> correction pairs with non-empty corrections.
func (s *Store) Resolved() map[string]string {
	resolved := make(map[string]string)
	for _, e := range s.byKey {
		if e.Correction != "" {
			resolved[e.Token] = e.Correction
		}
	}
	return resolved
}

// Entries returns all entries sorted case-insensitively by token.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.byKey))
	for _, e := range s.byKey {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Token) < strings.ToLower(entries[j].Token)
	})
	return entries
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.byKey)
}
