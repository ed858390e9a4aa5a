// Package campaign defines the on-disk layout of a campaign folder and the
// filename convention that links audio, transcript, and metadata files. All
// naming is centralized here; other packages never slice filenames directly.
package campaign

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Campaign is a single campaign folder under the working directory.
type Campaign struct {
	Name string
	Root string
}

// New opens an existing campaign folder.
func New(root string) (*Campaign, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("open campaign folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("campaign path %s is not a directory", root)
	}
	return &Campaign{
		Name: filepath.Base(root),
		Root: root,
	}, nil
}

// Scaffold creates a new campaign folder with its audio and transcriptions
// subfolders and returns the opened campaign.
func Scaffold(workingDir, name, abbreviation string) (*Campaign, error) {
	root := filepath.Join(workingDir, name)
	dirs := []string{
		root,
		filepath.Join(root, abbreviation+" Audio Files"),
		filepath.Join(root, abbreviation+" Transcriptions"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create campaign directory %s: %w", dir, err)
		}
	}
	return New(root)
}

// List returns the campaign folder names under the working directory.
// Hidden folders and folders parked with an "x " prefix are skipped.
func List(workingDir string) ([]string, error) {
	entries, err := os.ReadDir(workingDir)
	if err != nil {
		return nil, fmt.Errorf("read working directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") || strings.HasPrefix(e.Name(), "x ") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// AudioFolder finds the child folder whose name contains "Audio Files".
func (c *Campaign) AudioFolder() (string, error) {
	return c.findChildFolder("Audio Files")
}

// TranscriptsFolder finds the child folder whose name contains "Transcriptions".
func (c *Campaign) TranscriptsFolder() (string, error) {
	return c.findChildFolder("Transcriptions")
}

func (c *Campaign) findChildFolder(marker string) (string, error) {
	entries, err := os.ReadDir(c.Root)
	if err != nil {
		return "", fmt.Errorf("read campaign folder: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && strings.Contains(e.Name(), marker) {
			return filepath.Join(c.Root, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no folder containing %q in %s", marker, c.Root)
}

// CorrectionsFile is the campaign's corrections store path.
func (c *Campaign) CorrectionsFile() string {
	return filepath.Join(c.Root, "corrections.txt")
}

// WackWordsFile is the campaign's curated non-standard vocabulary path.
func (c *Campaign) WackWordsFile() string {
	return filepath.Join(c.Root, "wack_dictionary.txt")
}

// CombinedFile is the aggregate transcript document path.
func (c *Campaign) CombinedFile() string {
	return filepath.Join(c.Root, c.Name+" - Transcriptions.txt")
}

// SummariesBase is the collated summaries path without extension; the
// summarizer writes both a .md and a .docx next to it.
func (c *Campaign) SummariesBase() string {
	return filepath.Join(c.Root, c.Name+" - Summaries")
}
