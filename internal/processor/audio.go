package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/media"
)

// Normalize converts a raw session recording to a loudness-normalized mono
// m4a next to the original, tagged with title, track number, artist, genre,
// year, and album. The bitrate is derived from the configured target file
// size and the recording's duration, floored at the configured minimum.
func (p *implProcessor) Normalize(ctx context.Context, camp *campaign.Campaign, audioPath string) (string, error) {
	date, title, err := campaign.ParseSessionFilename(audioPath)
	if err != nil {
		return "", err
	}

	meta, err := media.Probe(ctx, p.executor, p.cfg.FFmpeg.ProbePath, audioPath)
	if err != nil {
		return "", err
	}
	if meta.Duration <= 0 {
		return "", fmt.Errorf("recording %s has no duration", audioPath)
	}

	bitrate := p.targetBitrate(meta.Duration)
	base := campaign.SessionBase(date, title)
	dir := filepath.Dir(audioPath)
	outputPath := filepath.Join(dir, campaign.NormalizedAudioName(base))

	track, err := nextTrackNumber(dir)
	if err != nil {
		return "", err
	}

	p.logger.Info(ctx, "Normalizing %s -> %s at %d kbps (track %d)",
		filepath.Base(audioPath), filepath.Base(outputPath), bitrate, track)

	args := []string{
		"-i", audioPath,
		"-af", "loudnorm",
		"-ac", strconv.Itoa(p.cfg.FFmpeg.AudioChannels),
		"-ar", strconv.Itoa(p.cfg.FFmpeg.SamplingRate),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", bitrate),
		"-metadata", "title=" + title,
		"-metadata", "track=" + strconv.Itoa(track),
		"-metadata", "artist=" + p.cfg.FFmpeg.ArtistName,
		"-metadata", "genre=" + p.cfg.FFmpeg.Genre,
		"-metadata", "date=" + strconv.Itoa(date.Year()),
		"-metadata", "album=" + camp.Name,
		"-y",
		outputPath,
	}

	if _, err := p.executor.Execute(ctx, p.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg normalize: %w", err)
	}

	p.logger.Info(ctx, "Normalized audio written to %s", outputPath)
	return outputPath, nil
}

// targetBitrate converts the configured target file size into a kbps bitrate
// for the given duration in seconds.
func (p *implProcessor) targetBitrate(duration float64) int {
	targetBytes := p.cfg.FFmpeg.TargetSizeMB * 1024 * 1024
	bitrate := int(float64(targetBytes) * 8 / (duration * 1024))
	if bitrate < p.cfg.FFmpeg.MinBitrateKbps {
		bitrate = p.cfg.FFmpeg.MinBitrateKbps
	}
	return bitrate
}

// nextTrackNumber counts the normalized recordings already in the folder.
// Track numbers follow processing order, not session date.
func nextTrackNumber(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read audio folder: %w", err)
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, "_norm") && strings.HasSuffix(name, ".m4a") {
			count++
		}
	}
	return count + 1, nil
}
