// Package processor orchestrates the session pipeline: normalize audio,
// transcribe, update the corrections dictionary, apply fuzzy fills, revise
// the transcript, recombine the campaign document, and summarize.
package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
	"github.com/snekpodcasts/sessionscribe/internal/revise"
)

// Process runs the full pipeline for one raw recording. The Gemini summary
// step is best-effort: a quota failure there never invalidates the revised
// transcript already on disk.
func (p *implProcessor) Process(ctx context.Context, camp *campaign.Campaign, audioPath string) error {
	startTime := time.Now()
	p.logger.Info(ctx, "Processing %s in campaign %s", filepath.Base(audioPath), camp.Name)

	normalizedPath, err := p.Normalize(ctx, camp, audioPath)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}

	tsvPath, err := p.Transcribe(ctx, camp, normalizedPath)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}

	store, err := p.UpdateDictionary(ctx, camp, tsvPath)
	if err != nil {
		return fmt.Errorf("update dictionary: %w", err)
	}

	revisedPath, err := p.formatter.Revise(ctx, camp, tsvPath, revise.NewRewriter(store))
	if err != nil {
		return fmt.Errorf("revise: %w", err)
	}

	if _, _, err := p.combiner.Combine(ctx, camp); err != nil {
		return fmt.Errorf("combine: %w", err)
	}

	if err := p.summarizer.Summarize(ctx, revisedPath); err != nil {
		p.logger.Warn(ctx, "Summarization incomplete for %s: %v", filepath.Base(revisedPath), err)
	}

	p.logger.Info(ctx, "Pipeline finished for %s in %s", filepath.Base(audioPath), time.Since(startTime).Round(time.Second))
	return nil
}

// UpdateDictionary flags the transcript's unknown tokens in the campaign's
// corrections store, then fills unresolved entries whose fuzzy match against
// the curated vocabulary clears the configured threshold. Returns the loaded
// store so the caller can build a rewriter without re-reading it.
func (p *implProcessor) UpdateDictionary(ctx context.Context, camp *campaign.Campaign, tsvPath string) (*dictionary.Store, error) {
	wackWords, err := dictionary.LoadWackWords(camp.WackWordsFile())
	if err != nil {
		return nil, err
	}

	wordList, err := dictionary.LoadWordList(p.cfg.Dictionaries.WordListFile, wackWords)
	if err != nil {
		return nil, err
	}

	updater := dictionary.NewUpdater(wordList, p.logger)
	added, err := updater.Update(ctx, tsvPath, camp.CorrectionsFile())
	if err != nil {
		return nil, err
	}
	if added > 0 {
		p.logger.Info(ctx, "Flagged %d new tokens for correction", added)
	}

	store, malformed, err := dictionary.LoadStore(camp.CorrectionsFile())
	if err != nil {
		return nil, err
	}
	for _, line := range malformed {
		p.logger.Warn(ctx, "Ignoring malformed corrections line: %s", line)
	}

	matcher := dictionary.NewMatcher(p.cfg.Dictionaries.CorrectionThreshold, p.logger)
	if filled := matcher.Fill(ctx, store, wackWords); filled > 0 {
		p.logger.Info(ctx, "Auto-filled %d corrections", filled)
		if err := store.Save(camp.CorrectionsFile()); err != nil {
			return nil, err
		}
	}

	return store, nil
}
