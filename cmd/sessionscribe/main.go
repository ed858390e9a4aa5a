// Command sessionscribe manages TTRPG session recordings for a campaign:
// loudness normalization, transcription, dictionary-driven correction,
// combined transcripts, and LLM summaries. Every pipeline stage is exposed
// as its own subcommand; pipeline and watch run them end to end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/snekpodcasts/sessionscribe/internal/campaign"
	"github.com/snekpodcasts/sessionscribe/internal/combine"
	"github.com/snekpodcasts/sessionscribe/internal/config"
	"github.com/snekpodcasts/sessionscribe/internal/dictionary"
	"github.com/snekpodcasts/sessionscribe/internal/logger"
	"github.com/snekpodcasts/sessionscribe/internal/processor"
	"github.com/snekpodcasts/sessionscribe/internal/revise"
	"github.com/snekpodcasts/sessionscribe/internal/summarizer"
	"github.com/snekpodcasts/sessionscribe/internal/watcher"
	"github.com/snekpodcasts/sessionscribe/pkg/executor"
)

const usageText = `Usage: sessionscribe <command> [flags] [args]

Commands:
  scaffold     create a new campaign folder structure
  campaigns    list campaign folders in the working directory
  normalize    loudness-normalize a raw recording       <audio file>
  transcribe   transcribe a normalized recording        <normalized m4a>
  update-dict  flag a transcript's unknown words        <tsv file>
  fuzzy-fix    auto-fill corrections from wack words
  revise       apply corrections and format a transcript <tsv file>
  combine      rebuild the combined campaign document
  summarize    generate summary and chapters            <revised txt>
  collate      collate session summaries into md + docx
  pipeline     run all stages for a raw recording       <audio file>
  watch        process new recordings as they appear

Common flags (after the command):
  -config string     config file path (default "config.yaml")
  -campaign string   campaign folder name
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "sessionscribe: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wiring every subcommand needs.
type app struct {
	cfg  *config.Config
	log  logger.Logger
	exec executor.Executor
	proc processor.Processor
}

func run(command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "config file path")
	campaignName := fs.String("campaign", "", "campaign folder name")
	name := fs.String("name", "", "campaign name (scaffold)")
	abbrev := fs.String("abbrev", "", "campaign abbreviation (scaffold)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level)
	exec := executor.New()
	a := &app{
		cfg:  cfg,
		log:  log,
		exec: exec,
		proc: processor.New(cfg, exec, log),
	}

	ctx := context.Background()

	switch command {
	case "scaffold":
		if *name == "" || *abbrev == "" {
			return errors.New("scaffold requires -name and -abbrev")
		}
		camp, err := campaign.Scaffold(cfg.Paths.WorkingDirectory, *name, *abbrev)
		if err != nil {
			return err
		}
		log.Info(ctx, "Created campaign at %s", camp.Root)
		return nil

	case "campaigns":
		names, err := campaign.List(cfg.Paths.WorkingDirectory)
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	}

	camp, err := a.openCampaign(*campaignName)
	if err != nil {
		return err
	}

	switch command {
	case "normalize":
		path, err := positional(fs, "audio file")
		if err != nil {
			return err
		}
		_, err = a.proc.Normalize(ctx, camp, path)
		return err

	case "transcribe":
		path, err := positional(fs, "normalized audio file")
		if err != nil {
			return err
		}
		_, err = a.proc.Transcribe(ctx, camp, path)
		return err

	case "update-dict":
		path, err := positional(fs, "transcript tsv")
		if err != nil {
			return err
		}
		_, err = a.proc.UpdateDictionary(ctx, camp, path)
		return err

	case "fuzzy-fix":
		return a.fuzzyFix(ctx, camp)

	case "revise":
		path, err := positional(fs, "transcript tsv")
		if err != nil {
			return err
		}
		return a.revise(ctx, camp, path)

	case "combine":
		_, n, err := combine.New(a.log).Combine(ctx, camp)
		if err != nil {
			return err
		}
		a.log.Info(ctx, "Combined %d sessions", n)
		return nil

	case "summarize":
		path, err := positional(fs, "revised transcript")
		if err != nil {
			return err
		}
		return summarizer.New(a.cfg, a.log).Summarize(ctx, path)

	case "collate":
		mdPath, docxPath, err := summarizer.New(a.cfg, a.log).Collate(ctx, camp)
		if err != nil {
			return err
		}
		a.log.Info(ctx, "Collated summaries: %s, %s", mdPath, docxPath)
		return nil

	case "pipeline":
		path, err := positional(fs, "audio file")
		if err != nil {
			return err
		}
		return a.proc.Process(ctx, camp, path)

	case "watch":
		return a.watch(ctx, camp)

	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) openCampaign(name string) (*campaign.Campaign, error) {
	if name == "" {
		return nil, errors.New("-campaign is required")
	}
	return campaign.New(filepath.Join(a.cfg.Paths.WorkingDirectory, name))
}

func positional(fs *flag.FlagSet, what string) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one %s argument", what)
	}
	return fs.Arg(0), nil
}

// fuzzyFix auto-fills unresolved corrections from the wack word list without
// running any other pipeline stage.
func (a *app) fuzzyFix(ctx context.Context, camp *campaign.Campaign) error {
	store, malformed, err := dictionary.LoadStore(camp.CorrectionsFile())
	if err != nil {
		return err
	}
	for _, line := range malformed {
		a.log.Warn(ctx, "Ignoring malformed corrections line: %s", line)
	}

	wackWords, err := dictionary.LoadWackWords(camp.WackWordsFile())
	if err != nil {
		return err
	}

	matcher := dictionary.NewMatcher(a.cfg.Dictionaries.CorrectionThreshold, a.log)
	filled := matcher.Fill(ctx, store, wackWords)
	if filled == 0 {
		a.log.Info(ctx, "No corrections cleared the %.0f%% threshold", a.cfg.Dictionaries.CorrectionThreshold)
		return nil
	}

	if err := store.Save(camp.CorrectionsFile()); err != nil {
		return err
	}
	a.log.Info(ctx, "Auto-filled %d corrections", filled)
	return nil
}

// revise applies the corrections store to one transcript and writes the
// formatted revised text.
func (a *app) revise(ctx context.Context, camp *campaign.Campaign, tsvPath string) error {
	store, malformed, err := dictionary.LoadStore(camp.CorrectionsFile())
	if err != nil {
		return err
	}
	for _, line := range malformed {
		a.log.Warn(ctx, "Ignoring malformed corrections line: %s", line)
	}

	formatter := revise.NewFormatter(a.cfg, a.exec, a.log)
	outPath, err := formatter.Revise(ctx, camp, tsvPath, revise.NewRewriter(store))
	if err != nil {
		return err
	}
	a.log.Info(ctx, "Revised transcript written to %s", outPath)
	return nil
}

// watch processes new recordings in the campaign's audio folder until
// interrupted.
func (a *app) watch(ctx context.Context, camp *campaign.Campaign) error {
	audioDir, err := camp.AudioFolder()
	if err != nil {
		return err
	}

	handler := func(ctx context.Context, path string) error {
		return a.proc.Process(ctx, camp, path)
	}

	w, err := watcher.New(audioDir, handler, a.log)
	if err != nil {
		return err
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		a.log.Info(ctx, "Received %v, shutting down", sig)
		cancel()
		return nil
	case err := <-errChan:
		return err
	}
}
