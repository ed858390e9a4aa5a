package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/fsutil"
)

const summaryPrompt = `Generate a short 200-word summary of this Dungeons and Dragons session transcript. Write as a synopsis of the events, assuming the reader understands the context of the campaign.

Transcript:
---
%s
---`

const chaptersPrompt = `Generate timestamps for the main chapters/topics in a Dungeons and Dragons podcast session transcript.
Given text segments with their time, generate timestamps for the main topics discussed in the session. Format timestamps as hh:mm:ss and provide clear and concise topic titles, with a short one sentence description.

IMPORTANT:
1. Ensure that the chapters are an accurate representation of the entire session, and that they are distributed evenly. The session is often 6 hours long, so they should be well distributed.
2. There should be 5 chapters TOTAL for the whole transcript.

List only topic titles and timestamps, and a short description.
Example output:
[hh:mm:ss] Topic Title One - Topic 1 brief description
[hh:mm:ss] Topic Title Two - Topic 2 brief description
- and so on

Transcript is provided below, in the format of hh:mm:ss   |   text:
---
%s
---`

// captionRow matches one line of a revised transcript body.
var captionRow = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})   \|   (.*)$`)

// Summarize generates the synopsis and chapter markers for one revised
// transcript. The synopsis is generated from timestamp-free caption text with
// the opening minutes dropped, since pre-session chatter pollutes it; the
// chapters request keeps the timestamps the model needs to place markers.
// Each artifact fails independently so a blocked synopsis never costs the
// chapters.
func (s *implSummarizer) Summarize(ctx context.Context, revisedPath string) error {
	data, err := os.ReadFile(revisedPath)
	if err != nil {
		return fmt.Errorf("read revised transcript: %w", err)
	}
	content := string(data)
	base := campaign.SessionBaseOf(revisedPath)
	dir := filepath.Dir(revisedPath)

	var errs []error

	plain := captionsAfter(content, s.skip)
	if strings.TrimSpace(plain) == "" {
		return fmt.Errorf("transcript %s has no caption rows after the skipped opening", revisedPath)
	}

	summary, err := s.callGemini(ctx, fmt.Sprintf(summaryPrompt, plain))
	if err != nil {
		s.logger.Error(ctx, "Summary generation failed for %s: %v", base, err)
		errs = append(errs, fmt.Errorf("summary: %w", err))
	} else {
		path := filepath.Join(dir, campaign.SummaryName(base))
		if err := fsutil.WriteFileAtomic(path, []byte(sanitizeSummary(summary)+"\n")); err != nil {
			errs = append(errs, fmt.Errorf("write summary: %w", err))
		} else {
			s.logger.Info(ctx, "Summary saved to %s", path)
		}
	}

	chapters, err := s.callGemini(ctx, fmt.Sprintf(chaptersPrompt, content))
	if err != nil {
		s.logger.Error(ctx, "Chapter generation failed for %s: %v", base, err)
		errs = append(errs, fmt.Errorf("chapters: %w", err))
	} else {
		path := filepath.Join(dir, campaign.ChaptersName(base))
		if err := fsutil.WriteFileAtomic(path, []byte(sanitizeChapters(chapters)+"\n")); err != nil {
			errs = append(errs, fmt.Errorf("write chapters: %w", err))
		} else {
			s.logger.Info(ctx, "Chapters saved to %s", path)
		}
	}

	return errors.Join(errs...)
}

// callGemini sends a prompt to Gemini and returns the response text.
// Rotates API keys on rate-limit errors and retries up to maxAttempts.
func (s *implSummarizer) callGemini(ctx context.Context, prompt string) (string, error) {
	if len(s.apiKeys) == 0 {
		return "", fmt.Errorf("no Gemini API keys configured")
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		key := s.apiKeys[s.currentKey]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			s.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = err
			if isRateLimited(err) {
				s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
				s.rotateKey()
				continue
			}
			s.logger.Warn(ctx, "Attempt %d/%d failed: %v", attempt, s.maxAttempts, err)
			continue
		}

		if text := responseText(result); text != "" {
			return text, nil
		}
		lastErr = fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all %d attempts failed: %w", s.maxAttempts, lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func responseText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return ""
	}
	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text
}

// captionsAfter strips timestamps from a revised transcript and drops every
// caption spoken before the skip offset. Non-caption lines, including the
// session header, are dropped too.
func captionsAfter(content string, skip time.Duration) string {
	var sb strings.Builder
	for _, line := range strings.Split(content, "\n") {
		m := captionRow.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		sec, _ := strconv.Atoi(m[3])
		at := time.Duration(h)*time.Hour + time.Duration(min)*time.Minute + time.Duration(sec)*time.Second
		if at < skip {
			continue
		}
		sb.WriteString(m[4])
		sb.WriteString("\n")
	}
	return sb.String()
}

var blankRuns = regexp.MustCompile(`\n\s*\n`)

// sanitizeSummary collapses runs of blank lines in the model output.
func sanitizeSummary(summary string) string {
	return strings.TrimSpace(blankRuns.ReplaceAllString(summary, "\n"))
}

// sanitizeChapters trims the model's preamble and trailing chatter, keeping
// only the span from the first to the last "[hh:mm:ss]" line.
func sanitizeChapters(chapters string) string {
	lines := strings.Split(chapters, "\n")
	start, end := -1, -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "[") {
			if start == -1 {
				start = i
			}
			end = i
		}
	}
	if start == -1 {
		return strings.TrimSpace(chapters)
	}
	return strings.Join(lines[start:end+1], "\n")
}
