package summarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

func testSummarizer() Summarizer {
	cfg := &config.Config{}
	cfg.Gemini.MaxAttempts = 1
	return New(cfg, logger.New("error"))
}

func TestCollateOrdersByDate(t *testing.T) {
	t.Parallel()

	camp, err := campaign.Scaffold(t.TempDir(), "Amber Throne", "AT")
	if err != nil {
		t.Fatal(err)
	}
	dir, err := camp.TranscriptsFolder()
	if err != nil {
		t.Fatal(err)
	}

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("2024_06_01_Late_norm_revised.txt", "Late - #2 - 2024_06_01\n\n00:00:01   |   hi\n")
	write("2024_06_01_Late_norm_summary.txt", "The later session summary.\n")
	write("2024_05_01_Early_norm_revised.txt", "Early - #1 - 2024_05_01\n\n00:00:01   |   hi\n")
	write("2024_05_01_Early_norm_summary.txt", "The earlier session summary.\n")

	mdPath, docxPath, err := testSummarizer().Collate(context.Background(), camp)
	if err != nil {
		t.Fatalf("Collate() error = %v", err)
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if !strings.HasPrefix(got, "# Amber Throne - Summaries\n") {
		t.Errorf("collated document title wrong:\n%s", got)
	}
	early := strings.Index(got, "## Early - #1 - 2024_05_01")
	late := strings.Index(got, "## Late - #2 - 2024_06_01")
	if early == -1 || late == -1 {
		t.Fatalf("missing session headings:\n%s", got)
	}
	if early > late {
		t.Errorf("sessions not in date order:\n%s", got)
	}
	if !strings.Contains(got, "The earlier session summary.") {
		t.Errorf("missing summary body:\n%s", got)
	}

	if _, err := os.Stat(docxPath); err != nil {
		t.Errorf("docx not written: %v", err)
	}
}

func TestCollateMarksMissingSummaries(t *testing.T) {
	t.Parallel()

	camp, err := campaign.Scaffold(t.TempDir(), "Gaps", "G")
	if err != nil {
		t.Fatal(err)
	}
	dir, err := camp.TranscriptsFolder()
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "2024_05_01_Solo_norm_revised.txt"),
		[]byte("Solo - #1 - 2024_05_01\n\n00:00:01   |   hi\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	mdPath, _, err := testSummarizer().Collate(context.Background(), camp)
	if err != nil {
		t.Fatalf("Collate() error = %v", err)
	}

	data, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "_No summary generated._") {
		t.Errorf("missing-summary placeholder absent:\n%s", data)
	}
}
