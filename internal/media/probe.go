// Package media reads embedded metadata from audio files through ffprobe.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/snekpodcasts/sessionscribe/pkg/executor"
)

// Metadata is the subset of embedded audio metadata the pipeline uses.
type Metadata struct {
	Title    string
	Track    int
	Duration float64 // seconds
}

type probeOutput struct {
	Format struct {
		Duration string            `json:"duration"`
		Tags     map[string]string `json:"tags"`
	} `json:"format"`
}

// Probe runs ffprobe against the audio file and extracts title, track number,
// and duration. Missing tags yield zero values rather than errors; a track
// tag of the form "3/10" is read as 3.
func Probe(ctx context.Context, exec executor.Executor, probePath, audioPath string) (Metadata, error) {
	out, err := exec.Execute(ctx, probePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		audioPath,
	)
	if err != nil {
		return Metadata{}, fmt.Errorf("ffprobe %s: %w", audioPath, err)
	}

	var parsed probeOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		return Metadata{}, fmt.Errorf("parse ffprobe output for %s: %w", audioPath, err)
	}

	meta := Metadata{}
	if parsed.Format.Duration != "" {
		if d, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
			meta.Duration = d
		}
	}

	for key, value := range parsed.Format.Tags {
		switch strings.ToLower(key) {
		case "title":
			meta.Title = value
		case "track":
			track := value
			if idx := strings.Index(track, "/"); idx >= 0 {
				track = track[:idx]
			}
			if n, err := strconv.Atoi(strings.TrimSpace(track)); err == nil {
				meta.Track = n
			}
		}
	}

	return meta, nil
}
