package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"menugen/menu"
	"menugen/pipeline"
	"menugen/site"
)

// NewWatchCommand regenerates the content tree whenever the local data
// changes. Useful while editing the snapshot or images by hand.
func NewWatchCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Regenerate content when the local data changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}

			generator := &site.Generator{
				ContentDir: cfg.Site.ContentPath(),
				ImagesDir:  cfg.Data.WebImagesDir(),
				Logger:     logger,
			}
			regenerate := func() error {
				items, err := menu.LoadFile(cfg.Data.CSVPath(), menu.LoadOptions{
					ImagesDir:     cfg.Data.WebImagesDir(),
					MaxImageBytes: cfg.Images.MaxBytes,
				})
				if err != nil {
					return err
				}
				if err := generator.Generate(items); err != nil {
					return err
				}
				logger.Info("content regenerated", slog.Int("items", len(items)))
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = pipeline.Watch(ctx, cfg.Data.Dir, pipeline.DefaultDebounce, logger, regenerate)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
