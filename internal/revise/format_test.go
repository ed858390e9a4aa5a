package revise

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

type fakeExecutor struct {
	output string
	err    error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return f.output, f.err
}

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{"83.50", "00:01:23", false},   // float seconds
		{"83500", "00:01:23", false},   // integer milliseconds
		{"0.00", "00:00:00", false},
		{"3799.99", "01:03:19", false},
		{"-4.0", "00:00:00", false},
		{"start", "", true},
	}

	for _, tt := range tests {
		got, err := formatTimestamp(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("formatTimestamp(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("formatTimestamp(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestRevise(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	camp, err := campaign.Scaffold(t.TempDir(), "Sunken Keep", "SK")
	if err != nil {
		t.Fatal(err)
	}
	audioDir, _ := camp.AudioFolder()
	transcriptsDir, _ := camp.TranscriptsFolder()

	// Sibling normalized audio file whose metadata supplies title and track.
	audioPath := filepath.Join(audioDir, "2024_05_01_The_Keep_norm.m4a")
	if err := os.WriteFile(audioPath, []byte("not real audio"), 0644); err != nil {
		t.Fatal(err)
	}

	tsvPath := filepath.Join(transcriptsDir, "2024_05_01_The_Keep_norm.tsv")
	tsv := "start\tend\ttext\n" +
		"0.00\t4.20\tBigbee nods slowly.\n" +
		"83.50\t90.00\tThe party rests.\n" +
		"brokenrow\n"
	if err := os.WriteFile(tsvPath, []byte(tsv), 0644); err != nil {
		t.Fatal(err)
	}

	store := dictionary.NewStore()
	store.Add("bigbee")
	store.Fill("bigbee", "Bigby")

	cfg := &config.Config{}
	cfg.FFmpeg.ProbePath = "ffprobe"

	exec := &fakeExecutor{output: `{"format":{"duration":"90.0","tags":{"title":"The Sunken Keep","track":"3"}}}`}
	f := NewFormatter(cfg, exec, logger.New("error"))

	outPath, err := f.Revise(ctx, camp, tsvPath, NewRewriter(store))
	if err != nil {
		t.Fatalf("Revise() error = %v", err)
	}
	if filepath.Base(outPath) != "2024_05_01_The_Keep_norm_revised.txt" {
		t.Errorf("Revise() output = %q", outPath)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "The Sunken Keep - #3 - 2024_05_01\n\n" +
		"00:00:00   |   Bigby nods slowly.\n" +
		"00:01:23   |   The party rests.\n"
	if string(got) != want {
		t.Errorf("Revise() wrote:\n%q\nwant:\n%q", got, want)
	}

	// Source transcript must remain untouched.
	src, err := os.ReadFile(tsvPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(src) != tsv {
		t.Error("Revise() modified the source transcript")
	}
}

func TestReviseMissingAudioFallsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	camp, err := campaign.Scaffold(t.TempDir(), "Sunken Keep", "SK")
	if err != nil {
		t.Fatal(err)
	}
	transcriptsDir, _ := camp.TranscriptsFolder()

	tsvPath := filepath.Join(transcriptsDir, "2024_05_01_The_Keep_norm.tsv")
	if err := os.WriteFile(tsvPath, []byte("start\tend\ttext\n1.0\t2.0\thello there\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{}
	cfg.FFmpeg.ProbePath = "ffprobe"

	f := NewFormatter(cfg, &fakeExecutor{}, logger.New("error"))
	outPath, err := f.Revise(ctx, camp, tsvPath, NewRewriter(dictionary.NewStore()))
	if err != nil {
		t.Fatalf("Revise() error = %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "The Keep - #0 - 2024_05_01\n\n00:00:01   |   hello there\n"
	if string(got) != want {
		t.Errorf("Revise() wrote %q, want %q", got, want)
	}
}
