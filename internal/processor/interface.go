package processor

import (
	"context"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
)

// Processor runs the session pipeline stages for one campaign.
type Processor interface {
	// Normalize loudness-normalizes a raw session recording into a tagged
	// m4a in the campaign's audio folder. Returns the normalized path.
	Normalize(ctx context.Context, camp *campaign.Campaign, audioPath string) (string, error)

	// Transcribe runs whisper over a normalized recording and writes the
	// time-coded TSV into the campaign's transcriptions folder. Returns
	// the transcript path.
	Transcribe(ctx context.Context, camp *campaign.Campaign, normalizedPath string) (string, error)

	// UpdateDictionary flags a transcript's unknown tokens in the
	// campaign's corrections store and auto-fills entries that clear the
	// fuzzy threshold. Returns the updated store.
	UpdateDictionary(ctx context.Context, camp *campaign.Campaign, tsvPath string) (*dictionary.Store, error)

	// Process runs the full pipeline for one raw recording: normalize,
	// transcribe, dictionary update, fuzzy fill, revise, combine,
	// summarize.
	Process(ctx context.Context, camp *campaign.Campaign, audioPath string) error
}
