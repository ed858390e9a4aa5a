// Package revise turns raw time-coded transcripts into corrected, readable
// session transcripts and applies corrections-store rewrites to existing
// transcript files.
package revise

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
)

// Rewriter applies the resolved corrections of a store as whole-word
// substitutions. All keys are compiled into a single alternation and applied
// in one pass over the original text, so the output of one substitution is
// never rescanned and corrections cannot chain into each other.
//
// Matching is case-insensitive on word boundaries; the matched span is
// replaced with the correction's stored casing. Possessive and plural
// suffixes outside the matched word are left alone, so with the entry
// "bigbee -> Bigby" both "Bigbee" and the "bigbee" in "bigbee's" are
// corrected.
type Rewriter struct {
	pattern      *regexp.Regexp
	replacements map[string]string // lowercased token -> correction
}

// NewRewriter compiles the store's resolved entries. A store with no
// resolved entries produces a Rewriter whose Apply is the identity.
func NewRewriter(store *dictionary.Store) *Rewriter {
	resolved := store.Resolved()
	if len(resolved) == 0 {
		return &Rewriter{}
	}

	replacements := make(map[string]string, len(resolved))
	keys := make([]string, 0, len(resolved))
	for token, correction := range resolved {
		replacements[strings.ToLower(token)] = correction
		keys = append(keys, regexp.QuoteMeta(token))
	}

	// Longest key first: Go's alternation is leftmost-first, so shorter
	// keys must not shadow longer ones sharing a prefix.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pattern := regexp.MustCompile(`(?i)\b(?:` + strings.Join(keys, "|") + `)\b`)
	return &Rewriter{pattern: pattern, replacements: replacements}
}

// Apply substitutes every whole-word occurrence of a corrections key in text.
func (r *Rewriter) Apply(text string) string {
	if r.pattern == nil {
		return text
	}
	return r.pattern.ReplaceAllStringFunc(text, func(match string) string {
		if correction, ok := r.replacements[strings.ToLower(match)]; ok {
			return correction
		}
		return match
	})
}

// RewriteFile applies the corrections to the transcript at inPath and writes
// the result to outPath, leaving the source recoverable. The write is atomic.
func (r *Rewriter) RewriteFile(inPath, outPath string) error {
	text, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read transcript %s: %w", inPath, err)
	}
	if err := fsutil.WriteFileAtomic(outPath, []byte(r.Apply(string(text)))); err != nil {
		return fmt.Errorf("write revised transcript: %w", err)
	}
	return nil
}
