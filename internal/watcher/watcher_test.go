package watcher

import "testing"

func TestIsSessionRecording(t *testing.T) {
	t.Parallel()

	w := &implWatcher{}
	tests := []struct {
		path string
		want bool
	}{
		{"/c/WD Audio Files/2024_05_01_The_Keep.wav", true},
		{"/c/WD Audio Files/2024_05_01_The_Keep.m4a", true},
		{"/c/WD Audio Files/2024_05_01_The_Keep.FLAC", true},
		{"/c/WD Audio Files/2024_05_01_The_Keep.mp3", true},
		{"/c/WD Audio Files/2024_05_01_The_Keep_norm.m4a", false},
		{"/c/WD Audio Files/.2024_05_01_The_Keep.wav.part", false},
		{"/c/WD Audio Files/notes.txt", false},
		{"/c/WD Audio Files/session.mp4", false},
	}
	for _, tt := range tests {
		if got := w.isSessionRecording(tt.path); got != tt.want {
			t.Errorf("isSessionRecording(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
