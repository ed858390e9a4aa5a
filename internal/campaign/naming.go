package campaign

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// DateLayout is the date prefix of every session filename.
const DateLayout = "2006_01_02"

// datePrefixLen covers "YYYY_MM_DD"; the descriptive name starts one
// separator later.
const datePrefixLen = 10

// SessionBase builds the shared filename stem for a session recorded on the
// given date: "YYYY_MM_DD_<name>" with spaces collapsed to underscores.
func SessionBase(date time.Time, name string) string {
	cleaned := strings.Join(strings.Fields(strings.TrimSpace(name)), "_")
	return date.Format(DateLayout) + "_" + cleaned
}

// ParseSessionFilename recovers the session date and descriptive name from a
// filename following the "YYYY_MM_DD_<name>.<ext>" convention. The extension
// and a trailing "_norm" marker are stripped from the name.
func ParseSessionFilename(filename string) (time.Time, string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if len(base) < datePrefixLen {
		return time.Time{}, "", fmt.Errorf("filename %q is shorter than the date prefix", filename)
	}

	date, err := time.Parse(DateLayout, base[:datePrefixLen])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("filename %q has no %s date prefix: %w", filename, DateLayout, err)
	}

	name := ""
	if len(base) > datePrefixLen+1 {
		name = base[datePrefixLen+1:]
	}
	name = strings.TrimSuffix(name, "_norm")
	name = strings.ReplaceAll(name, "_", " ")
	return date, strings.TrimSpace(name), nil
}

// NormalizedAudioName is the loudness-normalized audio filename for a session.
func NormalizedAudioName(base string) string {
	return base + "_norm.m4a"
}

// TranscriptName is the raw time-coded transcript filename for a session.
func TranscriptName(base string) string {
	return base + "_norm.tsv"
}

// RevisedName is the corrected transcript filename for a session.
func RevisedName(base string) string {
	return base + "_norm_revised.txt"
}

// SummaryName is the generated summary filename for a session.
func SummaryName(base string) string {
	return base + "_norm_summary.txt"
}

// ChaptersName is the generated chapter-markers filename for a session.
func ChaptersName(base string) string {
	return base + "_norm_chapters.txt"
}

// SessionBaseOf strips the extension and pipeline suffixes from any session
// file path, returning the shared "YYYY_MM_DD_<name>" stem.
func SessionBaseOf(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, suffix := range []string{"_norm_revised", "_norm_summary", "_norm_chapters", "_norm"} {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}
