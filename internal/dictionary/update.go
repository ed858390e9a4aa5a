package dictionary

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

var wordPattern = regexp.MustCompile(`\w+`)

// Updater scans transcripts for tokens a standard spelling dictionary does
// not recognize and flags them in the corrections store for review. It only
// ever adds entries; existing keys and their corrections are left alone, so
// running it repeatedly on the same text is a no-op after the first pass.
type Updater struct {
	checker Checker
	log     logger.Logger
}

// NewUpdater creates an Updater backed by the given spelling checker.
func NewUpdater(checker Checker, log logger.Logger) *Updater {
	return &Updater{checker: checker, log: log}
}

// Update tokenizes the transcript at transcriptPath, adds every unknown token
// to the store at storePath with an empty correction, and saves the store
// sorted case-insensitively. Returns the number of newly flagged tokens.
func (u *Updater) Update(ctx context.Context, transcriptPath, storePath string) (int, error) {
	text, err := os.ReadFile(transcriptPath)
	if err != nil {
		return 0, fmt.Errorf("read transcript: %w", err)
	}

	store, malformed, err := LoadStore(storePath)
	if err != nil {
		return 0, err
	}
	for _, line := range malformed {
		u.log.Warn(ctx, "Skipping malformed corrections line in %s: %q", storePath, line)
	}

	added := 0
	for _, token := range extractTokens(string(text)) {
		if u.checker.Known(token) {
			continue
		}
		if store.Add(token) {
			added++
		}
	}

	if added == 0 {
		u.log.Debug(ctx, "No new unknown tokens in %s", transcriptPath)
		return 0, nil
	}

	if err := store.Save(storePath); err != nil {
		return 0, err
	}

	u.log.Info(ctx, "Flagged %d new token(s) from %s for correction", added, transcriptPath)
	return added, nil
}

// extractTokens returns the deduplicated, lowercased word tokens of text,
// sorted for deterministic processing.
func extractTokens(text string) []string {
	seen := make(map[string]struct{})
	for _, token := range wordPattern.FindAllString(text, -1) {
		seen[strings.ToLower(token)] = struct{}{}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}
