// Package combine aggregates a campaign's revised transcripts into one
// searchable document.
package combine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

// headerPattern matches the first line of a revised transcript:
// "<Title> - #<Track> - <YYYY_MM_DD>".
var headerPattern = regexp.MustCompile(`^(.*) - #(\d+) - (\d{4}_\d{2}_\d{2})$`)

// session is one revised transcript admitted to the combined document.
type session struct {
	path    string
	title   string
	track   int
	dateInt int // YYYYMMDD
	header  string
	body    string
}

// Combiner builds the combined campaign document.
type Combiner struct {
	log logger.Logger
}

// New creates a Combiner.
func New(log logger.Logger) *Combiner {
	return &Combiner{log: log}
}

// Combine discovers every revised transcript under the campaign's
// transcriptions folder, orders sessions by track number then date (both
// descending), and writes the aggregate document to the campaign root.
// Transcripts whose first line does not match the header pattern are skipped
// with a warning so one malformed session never blocks the rest. Returns the
// output path and the number of sessions combined.
func (c *Combiner) Combine(ctx context.Context, camp *campaign.Campaign) (string, int, error) {
	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		return "", 0, err
	}

	paths, err := discoverRevised(transcriptsDir)
	if err != nil {
		return "", 0, err
	}

	var sessions []session
	for _, path := range paths {
		s, err := readSession(path)
		if err != nil {
			c.log.Warn(ctx, "Skipping %s: %v", path, err)
			continue
		}
		sessions = append(sessions, s)
	}

	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].track != sessions[j].track {
			return sessions[i].track > sessions[j].track
		}
		return sessions[i].dateInt > sessions[j].dateInt
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", camp.Name)
	fmt.Fprintf(&sb, "Sessions: %d\n\n", len(sessions))
	for _, s := range sessions {
		sb.WriteString(s.header + "\n\n")
		if s.body != "" {
			sb.WriteString(s.body + "\n")
		}
		sb.WriteString("\n")
	}

	outPath := camp.CombinedFile()
	if err := fsutil.WriteFileAtomic(outPath, []byte(sb.String())); err != nil {
		return "", 0, fmt.Errorf("write combined document: %w", err)
	}

	return outPath, len(sessions), nil
}

// discoverRevised walks the transcriptions folder recursively for revised
// transcript files.
func discoverRevised(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), "_revised.txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover revised transcripts: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// readSession parses a revised transcript into its header fields and body.
func readSession(path string) (session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session{}, fmt.Errorf("read transcript: %w", err)
	}

	content := strings.TrimRight(string(data), "\n")
	header, body, _ := strings.Cut(content, "\n")
	header = strings.TrimSpace(header)

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return session{}, fmt.Errorf("first line %q does not match the session header pattern", header)
	}

	track, err := strconv.Atoi(m[2])
	if err != nil {
		return session{}, fmt.Errorf("parse track number %q: %w", m[2], err)
	}
	dateInt, err := strconv.Atoi(strings.ReplaceAll(m[3], "_", ""))
	if err != nil {
		return session{}, fmt.Errorf("parse date %q: %w", m[3], err)
	}

	return session{
		path:    path,
		title:   m[1],
		track:   track,
		dateInt: dateInt,
		header:  header,
		body:    strings.TrimLeft(body, "\n"),
	}, nil
}
