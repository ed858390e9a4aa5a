package summarizer

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
)

// collatedSession pairs one session's header with its generated summary.
type collatedSession struct {
	date    time.Time
	header  string
	summary string
}

// Collate gathers every session summary under the campaign's transcriptions
// folder into "<campaign> - Summaries.md" and a styled docx, ordered by
// session date. Sessions without a generated summary still appear so gaps are
// visible.
func (s *implSummarizer) Collate(ctx context.Context, camp *campaign.Campaign) (string, string, error) {
	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		return "", "", err
	}

	var sessions []collatedSession
	err = filepath.WalkDir(transcriptsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), "_revised.txt") {
			return nil
		}

		date, _, err := campaign.ParseSessionFilename(d.Name())
		if err != nil {
			s.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return nil
		}

		header, err := firstLine(path)
		if err != nil {
			s.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return nil
		}

		base := campaign.SessionBaseOf(path)
		summary := ""
		summaryPath := filepath.Join(filepath.Dir(path), campaign.SummaryName(base))
		if data, err := os.ReadFile(summaryPath); err == nil {
			summary = sanitizeSummary(string(data))
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("read summary %s: %w", summaryPath, err)
		}

		sessions = append(sessions, collatedSession{date: date, header: header, summary: summary})
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("collect session summaries: %w", err)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].date.Before(sessions[j].date)
	})

	title := camp.Name + " - Summaries"
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	for _, sess := range sessions {
		fmt.Fprintf(&sb, "## %s\n\n", sess.header)
		if sess.summary != "" {
			sb.WriteString(sess.summary + "\n\n")
		} else {
			sb.WriteString("_No summary generated._\n\n")
		}
	}

	mdPath := camp.SummariesBase() + ".md"
	if err := fsutil.WriteFileAtomic(mdPath, []byte(sb.String())); err != nil {
		return "", "", fmt.Errorf("write collated markdown: %w", err)
	}

	docxPath := camp.SummariesBase() + ".docx"
	if err := markdownToDocx(sb.String(), docxPath); err != nil {
		return "", "", fmt.Errorf("write collated docx: %w", err)
	}

	s.logger.Info(ctx, "Collated %d session summaries into %s", len(sessions), mdPath)
	return mdPath, docxPath, nil
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("file is empty")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
