package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

// fakeExecutor returns a canned response per binary name and records every
// invocation.
type fakeExecutor struct {
	responses map[string]string
	calls     []recordedCall
}

type recordedCall struct {
	name string
	args []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, recordedCall{name: name, args: args})
	out, ok := f.responses[name]
	if !ok {
		return "", fmt.Errorf("unexpected binary %s", name)
	}
	return out, nil
}

func (f *fakeExecutor) lastCall(name string) (recordedCall, bool) {
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].name == name {
			return f.calls[i], true
		}
	}
	return recordedCall{}, false
}

func argValue(args []string, flag string) (string, bool) {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

func testConfig() *config.Config {
	return &config.Config{
		FFmpeg: config.FFmpegConfig{
			BinaryPath:     "ffmpeg",
			ProbePath:      "ffprobe",
			TargetSizeMB:   50,
			MinBitrateKbps: 64,
			AudioChannels:  1,
			SamplingRate:   44100,
			ArtistName:     "Snek Podcasts",
			Genre:          "Podcast",
		},
		Whisper: config.WhisperConfig{
			BinaryPath: "whisper",
			ModelPath:  "/models/ggml-large.bin",
			Language:   "en",
			Threads:    4,
			BeamSize:   5,
		},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	camp, err := campaign.Scaffold(t.TempDir(), "Waterdeep", "WD")
	if err != nil {
		t.Fatal(err)
	}
	audioDir, err := camp.AudioFolder()
	if err != nil {
		t.Fatal(err)
	}

	rawPath := filepath.Join(audioDir, "2024_05_01_The_Keep.wav")
	if err := os.WriteFile(rawPath, []byte("raw"), 0644); err != nil {
		t.Fatal(err)
	}
	// A previously normalized session bumps the track number.
	if err := os.WriteFile(filepath.Join(audioDir, "2023_11_12_Old_norm.m4a"), []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	exec := &fakeExecutor{responses: map[string]string{
		"ffprobe": `{"format": {"duration": "3600.0", "tags": {}}}`,
		"ffmpeg":  "",
	}}
	p := New(testConfig(), exec, logger.New("error"))

	got, err := p.Normalize(context.Background(), camp, rawPath)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	want := filepath.Join(audioDir, "2024_05_01_The_Keep_norm.m4a")
	if got != want {
		t.Errorf("Normalize() path = %q, want %q", got, want)
	}

	call, ok := exec.lastCall("ffmpeg")
	if !ok {
		t.Fatal("ffmpeg was never invoked")
	}
	// 50 MB over one hour floors to 113 kbps.
	if v, _ := argValue(call.args, "-b:a"); v != "113k" {
		t.Errorf("bitrate = %q, want %q", v, "113k")
	}
	if v, _ := argValue(call.args, "-af"); v != "loudnorm" {
		t.Errorf("filter = %q, want loudnorm", v)
	}
	for _, meta := range []string{"title=The Keep", "track=2", "artist=Snek Podcasts", "date=2024", "album=Waterdeep"} {
		if !slices.Contains(call.args, meta) {
			t.Errorf("ffmpeg args missing metadata %q: %v", meta, call.args)
		}
	}
}

func TestTargetBitrateClampedToMinimum(t *testing.T) {
	t.Parallel()

	p := &implProcessor{cfg: testConfig()}
	// 20 hours would compute ~5 kbps.
	if got := p.targetBitrate(72000); got != 64 {
		t.Errorf("targetBitrate(72000) = %d, want 64", got)
	}
	if got := p.targetBitrate(3600); got != 113 {
		t.Errorf("targetBitrate(3600) = %d, want 113", got)
	}
}

func TestTranscribe(t *testing.T) {
	t.Parallel()

	camp, err := campaign.Scaffold(t.TempDir(), "Waterdeep", "WD")
	if err != nil {
		t.Fatal(err)
	}
	audioDir, err := camp.AudioFolder()
	if err != nil {
		t.Fatal(err)
	}
	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(camp.WackWordsFile(), []byte("Bigby\nZephyr\n"), 0644); err != nil {
		t.Fatal(err)
	}

	normalizedPath := filepath.Join(audioDir, "2024_05_01_The_Keep_norm.m4a")
	exec := &fakeExecutor{responses: map[string]string{"whisper": ""}}
	p := New(testConfig(), exec, logger.New("error"))

	got, err := p.Transcribe(context.Background(), camp, normalizedPath)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	want := filepath.Join(transcriptsDir, "2024_05_01_The_Keep_norm.tsv")
	if got != want {
		t.Errorf("Transcribe() path = %q, want %q", got, want)
	}

	call, ok := exec.lastCall("whisper")
	if !ok {
		t.Fatal("whisper was never invoked")
	}
	if !slices.Contains(call.args, "-otsv") {
		t.Errorf("whisper args missing -otsv: %v", call.args)
	}
	if v, _ := argValue(call.args, "--prompt"); v != "Bigby Zephyr" {
		t.Errorf("prompt = %q, want %q", v, "Bigby Zephyr")
	}
	if v, _ := argValue(call.args, "--output-file"); v != strings.TrimSuffix(want, ".tsv") {
		t.Errorf("output prefix = %q, want %q", v, strings.TrimSuffix(want, ".tsv"))
	}
	if v, _ := argValue(call.args, "-bo"); v != "5" {
		t.Errorf("beam size = %q, want 5", v)
	}
}

func TestUpdateDictionary(t *testing.T) {
	t.Parallel()

	camp, err := campaign.Scaffold(t.TempDir(), "Waterdeep", "WD")
	if err != nil {
		t.Fatal(err)
	}
	transcriptsDir, err := camp.TranscriptsFolder()
	if err != nil {
		t.Fatal(err)
	}

	wordListPath := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(wordListPath, []byte("start\nend\ntext\nthe\nparty\nmeets\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(camp.WackWordsFile(), []byte("Bigby\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tsvPath := filepath.Join(transcriptsDir, "2024_05_01_The_Keep_norm.tsv")
	tsv := "start\tend\ttext\n0\t2000\tthe party meets bigbee\n"
	if err := os.WriteFile(tsvPath, []byte(tsv), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Dictionaries.WordListFile = wordListPath
	cfg.Dictionaries.CorrectionThreshold = 85

	p := New(cfg, &fakeExecutor{}, logger.New("error"))
	store, err := p.UpdateDictionary(context.Background(), camp, tsvPath)
	if err != nil {
		t.Fatalf("UpdateDictionary() error = %v", err)
	}

	// "bigbee" is unknown, and close enough to the wack word to auto-fill.
	correction, ok := store.Correction("bigbee")
	if !ok {
		t.Fatal("bigbee was not flagged")
	}
	if correction != "Bigby" {
		t.Errorf("correction = %q, want %q", correction, "Bigby")
	}

	data, err := os.ReadFile(camp.CorrectionsFile())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "bigbee -> Bigby") {
		t.Errorf("corrections file missing auto-filled entry:\n%s", data)
	}
}
