// Package pipeline sequences the fetch, validate, generate and build
// stages of a publishing run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"menugen/config"
	"menugen/menu"
	"menugen/sheet"
	"menugen/site"
)

// Stage names, logged as the run advances.
const (
	StageFetched   = "fetched"
	StageValidated = "validated"
	StageBuilt     = "built"
)

// fetchTimeout bounds the sheet export request.
const fetchTimeout = 30 * time.Second

// Runner executes the pipeline stages in order. The stage functions are
// fields so tests can substitute them.
type Runner struct {
	Logger *slog.Logger

	Fetch    func(ctx context.Context) error
	Load     func() ([]menu.Item, error)
	Generate func(items []menu.Item) error
	Build    func(ctx context.Context) error
}

// NewRunner wires a Runner from configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	fetcher := sheet.NewFetcher(fetchTimeout)
	generator := &site.Generator{
		ContentDir: cfg.Site.ContentPath(),
		ImagesDir:  cfg.Data.WebImagesDir(),
		Logger:     logger,
	}
	builder := &site.Builder{
		SiteDir: cfg.Site.Dir,
		Command: cfg.Site.BuildCommand,
		Args:    cfg.Site.BuildArgs,
		Logger:  logger,
	}

	return &Runner{
		Logger: logger,
		Fetch: func(ctx context.Context) error {
			return fetcher.FetchCSV(ctx, cfg.Sheet.SpreadsheetID, cfg.Sheet.Tab, cfg.Data.CSVPath())
		},
		Load: func() ([]menu.Item, error) {
			return menu.LoadFile(cfg.Data.CSVPath(), menu.LoadOptions{
				ImagesDir:     cfg.Data.WebImagesDir(),
				MaxImageBytes: cfg.Images.MaxBytes,
			})
		},
		Generate: generator.Generate,
		Build:    builder.Build,
	}
}

// Run drives the fetch, validate, build sequence. Unchanged source data
// short-circuits before validation; an empty menu writes the (empty)
// content tree but skips the build. Any stage error aborts the run before
// later stages touch published output.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	if err := r.Fetch(ctx); err != nil {
		if errors.Is(err, sheet.ErrUnchanged) {
			logger.Info("nothing changed, skipping validate and build")
			return nil
		}
		return fmt.Errorf("fetch stage: %w", err)
	}
	logger.Info("stage complete", slog.String("stage", StageFetched))

	items, err := r.Load()
	if err != nil {
		return fmt.Errorf("validate stage: %w", err)
	}
	logger.Info("stage complete",
		slog.String("stage", StageValidated), slog.Int("items", len(items)))

	if err := r.Generate(items); err != nil {
		return fmt.Errorf("generate content: %w", err)
	}

	if len(items) == 0 {
		logger.Info("no published items, skipping build")
		return nil
	}

	if err := r.Build(ctx); err != nil {
		return fmt.Errorf("build stage: %w", err)
	}
	logger.Info("stage complete", slog.String("stage", StageBuilt))
	return nil
}
