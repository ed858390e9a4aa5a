package dictionary

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWordListKnown(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(path, []byte("# base dictionary\ntavern\nsword\n"), 0644); err != nil {
		t.Fatal(err)
	}

	wl, err := LoadWordList(path, []string{"Bigby", "Strahd"})
	if err != nil {
		t.Fatalf("LoadWordList() error = %v", err)
	}

	tests := []struct {
		word string
		want bool
	}{
		{"tavern", true},
		{"Tavern", true},
		{"sword", true},
		{"bigby", true},   // wack word, case-insensitive
		{"don't", true},   // built-in contraction
		{"00", true},      // digit tokens are never vocabulary
		{"d20", true},     // dice notation
		{"", true},        // empty token is not flaggable
		{"valdemor", false},
	}

	for _, tt := range tests {
		if got := wl.Known(tt.word); got != tt.want {
			t.Errorf("Known(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestLoadWordListMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadWordList(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("LoadWordList() on missing file should error")
	}
}

func TestLoadWackWords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "wack_dictionary.txt")
	content := "# campaign vocabulary\nBigby\n\nStrahd\nMordenkainen\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	words, err := LoadWackWords(path)
	if err != nil {
		t.Fatalf("LoadWackWords() error = %v", err)
	}
	want := []string{"Bigby", "Strahd", "Mordenkainen"}
	if len(words) != len(want) {
		t.Fatalf("LoadWackWords() = %v, want %v", words, want)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("words[%d] = %q, want %q", i, words[i], want[i])
		}
	}
}

func TestLoadWackWordsMissingFile(t *testing.T) {
	t.Parallel()

	words, err := LoadWackWords(filepath.Join(t.TempDir(), "nope.txt"))
	if err != nil {
		t.Fatalf("LoadWackWords() error = %v, want nil for missing list", err)
	}
	if words != nil {
		t.Errorf("LoadWackWords() = %v, want nil", words)
	}
}
