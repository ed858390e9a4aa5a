package summarizer

import (
	"context"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
)

// Summarizer produces LLM-generated session synopses and chapter markers from
// revised transcripts, and collates them into campaign-level documents.
type Summarizer interface {
	// Summarize generates the synopsis and chapter files for one revised
	// transcript, written next to it.
	Summarize(ctx context.Context, revisedPath string) error

	// Collate gathers every session summary in the campaign into a single
	// markdown document and a styled docx. Returns both output paths.
	Collate(ctx context.Context, camp *campaign.Campaign) (string, string, error)
}
