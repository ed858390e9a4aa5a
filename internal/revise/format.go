package revise

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
	"github.com/snekpodcasts/sessionscribe/internal/media"
	"github.com/snekpodcasts/sessionscribe/pkg/executor"
)

// Formatter reformats raw tab-separated (start, end, text) transcripts into
// revised session transcripts: a parsable header derived from the sibling
// audio file's embedded metadata, then one "HH:MM:SS   |   caption" line per
// row with corrections applied.
type Formatter struct {
	probePath string
	exec      executor.Executor
	log       logger.Logger
}

// NewFormatter creates a Formatter.
func NewFormatter(cfg *config.Config, exec executor.Executor, log logger.Logger) *Formatter {
	return &Formatter{
		probePath: cfg.FFmpeg.ProbePath,
		exec:      exec,
		log:       log,
	}
}

// Revise converts the raw transcript at tsvPath into the session's revised
// transcript inside the campaign's transcriptions folder, applying rw to
// every caption. The source file is left untouched. Returns the revised path.
func (f *Formatter) Revise(ctx context.Context, camp *campaign.Campaign, tsvPath string, rw *Rewriter) (string, error) {
	date, fallbackTitle, err := campaign.ParseSessionFilename(tsvPath)
	if err != nil {
		return "", fmt.Errorf("derive session from transcript name: %w", err)
	}
	base := campaign.SessionBaseOf(tsvPath)

	title, track := f.sessionMetadata(ctx, camp, base, fallbackTitle)
	header := fmt.Sprintf("%s - #%d - %s", title, track, date.Format(campaign.DateLayout))

	rows, err := readTranscriptRows(tsvPath)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(header + "\n\n")
	for _, row := range rows {
		if len(row) < 3 {
			f.log.Warn(ctx, "Skipping malformed row in %s: %v", tsvPath, row)
			continue
		}
		timestamp, err := formatTimestamp(row[0])
		if err != nil {
			f.log.Warn(ctx, "Skipping row with bad timestamp in %s: %v", tsvPath, row)
			continue
		}
		caption := rw.Apply(strings.TrimSpace(row[2]))
		if caption == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s   |   %s\n", timestamp, caption)
	}

	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		return "", err
	}
	outPath := filepath.Join(transcriptsDir, campaign.RevisedName(base))
	if err := fsutil.WriteFileAtomic(outPath, []byte(sb.String())); err != nil {
		return "", fmt.Errorf("write revised transcript: %w", err)
	}

	return outPath, nil
}

// sessionMetadata reads title and track from the sibling normalized audio
// file. When the audio file or its tags are missing, the session continues
// with the filename-derived title and track 0 so one broken session never
// blocks a batch.
func (f *Formatter) sessionMetadata(ctx context.Context, camp *campaign.Campaign, base, fallbackTitle string) (string, int) {
	audioDir, err := camp.AudioFolder()
	if err != nil {
		f.log.Warn(ctx, "No audio folder for %s: %v", camp.Name, err)
		return fallbackTitle, 0
	}

	audioPath := filepath.Join(audioDir, campaign.NormalizedAudioName(base))
	if _, err := os.Stat(audioPath); err != nil {
		f.log.Warn(ctx, "Could not find matching audio file %s; using filename metadata", audioPath)
		return fallbackTitle, 0
	}

	meta, err := media.Probe(ctx, f.exec, f.probePath, audioPath)
	if err != nil {
		f.log.Warn(ctx, "Could not read metadata from %s: %v", audioPath, err)
		return fallbackTitle, 0
	}

	title := meta.Title
	if title == "" {
		title = fallbackTitle
	}
	return title, meta.Track
}

func readTranscriptRows(tsvPath string) ([][]string, error) {
	fh, err := os.Open(tsvPath)
	if err != nil {
		return nil, fmt.Errorf("open transcript %s: %w", tsvPath, err)
	}
	defer fh.Close()

	reader := csv.NewReader(fh)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", tsvPath, err)
	}

	// Drop the "start end text" header row when present.
	if len(rows) > 0 && len(rows[0]) > 0 && strings.EqualFold(rows[0][0], "start") {
		rows = rows[1:]
	}
	return rows, nil
}

// formatTimestamp renders a transcript start time as HH:MM:SS. Values with a
// decimal point are seconds (faster-whisper style); bare integers are
// milliseconds (whisper.cpp TSV style).
func formatTimestamp(value string) (string, error) {
	value = strings.TrimSpace(value)
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", value, err)
	}

	seconds := f
	if !strings.Contains(value, ".") {
		seconds = f / 1000
	}
	if seconds < 0 {
		seconds = 0
	}

	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60), nil
}
