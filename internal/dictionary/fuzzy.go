package dictionary

import (
	"context"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

const phoneticWeight = 0.15

// Matcher proposes corrections for unresolved store entries by ranking the
// wack-word list with Jaro-Winkler similarity, corroborated by Double
// Metaphone phonetic codes. A proposal is accepted only when its blended
// score reaches the configured threshold; false corrections silently corrupt
// transcripts, so precision wins over recall and everything below the
// threshold stays unresolved for manual review.
type Matcher struct {
	threshold float64 // 0-100
	log       logger.Logger
}

// NewMatcher creates a Matcher with the given acceptance threshold on the
// 0-100 score scale.
func NewMatcher(threshold float64, log logger.Logger) *Matcher {
	return &Matcher{threshold: threshold, log: log}
}

// Score blends string similarity and phonetic agreement into one 0-100 value:
// 100 * (0.85*JaroWinkler + 0.15*codeOverlap). Phonetic agreement alone never
// produces a correction; it can only lift a near-miss over the threshold.
func (m *Matcher) Score(token, candidate string) float64 {
	jw := matchr.JaroWinkler(strings.ToLower(token), strings.ToLower(candidate), false)

	phonetic := 0.0
	if codesOverlap(metaphoneCodes(token), metaphoneCodes(candidate)) {
		phonetic = 1.0
	}

	return 100 * ((1-phoneticWeight)*jw + phoneticWeight*phonetic)
}

// BestMatch returns the highest-scoring wack word for token and its score.
// ok is false when the list is empty.
func (m *Matcher) BestMatch(token string, wackWords []string) (best string, score float64, ok bool) {
	for _, candidate := range wackWords {
		if candidate == "" {
			continue
		}
		if s := m.Score(token, candidate); !ok || s > score {
			best, score, ok = candidate, s, true
		}
	}
	return best, score, ok
}

// Fill resolves store entries with empty corrections whose best wack-word
// match scores at or above the threshold. Resolved entries are never touched.
// Returns the number of corrections filled in.
func (m *Matcher) Fill(ctx context.Context, store *Store, wackWords []string) int {
	filled := 0
	for _, token := range store.Unresolved() {
		best, score, ok := m.BestMatch(token, wackWords)
		if !ok || score < m.threshold {
			continue
		}
		if store.Fill(token, best) {
			m.log.Info(ctx, "Correcting %s -> %s (%.0f%% score)", token, best, score)
			filled++
		}
	}
	return filled
}

// metaphoneCodes returns the non-empty Double Metaphone codes for a word.
func metaphoneCodes(word string) []string {
	primary, secondary := matchr.DoubleMetaphone(strings.ToLower(word))
	var codes []string
	if primary != "" {
		codes = append(codes, primary)
	}
	if secondary != "" {
		codes = append(codes, secondary)
	}
	return codes
}

func codesOverlap(a, b []string) bool {
	for _, ca := range a {
		for _, cb := range b {
			if ca == cb {
				return true
			}
		}
	}
	return false
}
