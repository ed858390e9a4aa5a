package summarizer

import (
	"time"

	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

type implSummarizer struct {
	apiKeys     []string
	currentKey  int
	model       string
	skip        time.Duration
	maxAttempts int
	logger      logger.Logger
}

// New creates a Summarizer that rotates through the configured Gemini API keys.
func New(cfg *config.Config, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys:     cfg.Gemini.APIKeys,
		model:       cfg.Gemini.Model,
		skip:        time.Duration(cfg.Gemini.SummarySkipMinutes) * time.Minute,
		maxAttempts: cfg.Gemini.MaxAttempts,
		logger:      log,
	}
}
