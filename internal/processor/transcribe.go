package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
)

// Transcribe runs whisper.cpp over a normalized recording and writes the
// time-coded TSV into the campaign's transcriptions folder. The campaign's
// curated vocabulary is passed as the whisper prompt so proper nouns survive
// transcription more often.
func (p *implProcessor) Transcribe(ctx context.Context, camp *campaign.Campaign, normalizedPath string) (string, error) {
	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		return "", err
	}

	base := campaign.SessionBaseOf(normalizedPath)
	tsvPath := filepath.Join(transcriptsDir, campaign.TranscriptName(base))
	outputPrefix := strings.TrimSuffix(tsvPath, ".tsv")

	wackWords, err := dictionary.LoadWackWords(camp.WackWordsFile())
	if err != nil {
		return "", err
	}

	p.logger.Info(ctx, "Transcribing %s with %d threads", filepath.Base(normalizedPath), p.cfg.Whisper.Threads)

	args := []string{
		"-m", p.cfg.Whisper.ModelPath,
		"-f", normalizedPath,
		"-otsv",
		"-l", p.cfg.Whisper.Language,
		"-t", strconv.Itoa(p.cfg.Whisper.Threads),
		"-bo", strconv.Itoa(p.cfg.Whisper.BeamSize),
	}
	if len(wackWords) > 0 {
		args = append(args, "--prompt", strings.Join(wackWords, " "))
	}
	args = append(args, "--output-file", outputPrefix)

	if _, err := p.executor.Execute(ctx, p.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	p.logger.Info(ctx, "Transcript written to %s", tsvPath)
	return tsvPath, nil
}
