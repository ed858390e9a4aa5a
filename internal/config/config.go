package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the explicit configuration object handed to every component.
// It is constructed once per invocation and never mutated afterwards.
type Config struct {
	Paths        PathsConfig        `yaml:"paths"`
	FFmpeg       FFmpegConfig       `yaml:"ffmpeg"`
	Whisper      WhisperConfig      `yaml:"whisper"`
	Gemini       GeminiConfig       `yaml:"gemini"`
	Dictionaries DictionariesConfig `yaml:"dictionaries"`
	Logging      LoggingConfig      `yaml:"logging"`
}

type PathsConfig struct {
	WorkingDirectory string `yaml:"working_directory"`
}

type FFmpegConfig struct {
	BinaryPath     string `yaml:"binary_path"`
	ProbePath      string `yaml:"probe_path"`
	TargetSizeMB   int    `yaml:"target_size_mb"`
	MinBitrateKbps int    `yaml:"min_bitrate_kbps"`
	AudioChannels  int    `yaml:"audio_channels"`
	SamplingRate   int    `yaml:"sampling_rate"`
	ArtistName     string `yaml:"artist_name"`
	Genre          string `yaml:"genre"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelPath  string `yaml:"model_path"`
	Language   string `yaml:"language"`
	Threads    int    `yaml:"threads"`
	BeamSize   int    `yaml:"beam_size"`
}

type GeminiConfig struct {
	APIKeys            []string `yaml:"api_keys"`
	Model              string   `yaml:"model"`
	SummarySkipMinutes int      `yaml:"summary_skip_minutes"`
	MaxAttempts        int      `yaml:"max_attempts"`
}

type DictionariesConfig struct {
	// CorrectionThreshold is the 0-100 similarity score an automatic
	// correction must reach before it is accepted without review.
	CorrectionThreshold float64 `yaml:"correction_threshold"`
	WordListFile        string  `yaml:"word_list_file"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates the configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Paths.WorkingDirectory == "" {
		return fmt.Errorf("paths.working_directory is required")
	}

	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.TargetSizeMB == 0 {
		c.FFmpeg.TargetSizeMB = 50
	}
	if c.FFmpeg.MinBitrateKbps == 0 {
		c.FFmpeg.MinBitrateKbps = 64
	}
	if c.FFmpeg.AudioChannels == 0 {
		c.FFmpeg.AudioChannels = 1
	}
	if c.FFmpeg.SamplingRate == 0 {
		c.FFmpeg.SamplingRate = 44100
	}
	if c.FFmpeg.Genre == "" {
		c.FFmpeg.Genre = "Podcast"
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}

	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.MaxAttempts == 0 {
		c.Gemini.MaxAttempts = 3
	}

	if c.Dictionaries.CorrectionThreshold == 0 {
		c.Dictionaries.CorrectionThreshold = 90
	}
	if c.Dictionaries.CorrectionThreshold < 0 || c.Dictionaries.CorrectionThreshold > 100 {
		return fmt.Errorf("dictionaries.correction_threshold must be between 0 and 100")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	return nil
}
