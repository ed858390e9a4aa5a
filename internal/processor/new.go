package processor

import (
	"github.com/snekpodcasts/sessionscribe/internal/combine"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
	"github.com/snekpodcasts/sessionscribe/internal/revise"
	"github.com/snekpodcasts/sessionscribe/internal/summarizer"
	"github.com/snekpodcasts/sessionscribe/pkg/executor"
)

type implProcessor struct {
	cfg        *config.Config
	executor   executor.Executor
	logger     logger.Logger
	formatter  *revise.Formatter
	combiner   *combine.Combiner
	summarizer summarizer.Summarizer
}

// New creates a new Processor instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Processor {
	return &implProcessor{
		cfg:        cfg,
		executor:   exec,
		logger:     log,
		formatter:  revise.NewFormatter(cfg, exec, log),
		combiner:   combine.New(log),
		summarizer: summarizer.New(cfg, log),
	}
}
