package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"menugen/menu"
	"menugen/site"
)

// NewGenerateCommand validates the snapshot and writes the content tree.
func NewGenerateCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Validate menu rows and write Hugo page bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}

			items, err := menu.LoadFile(cfg.Data.CSVPath(), menu.LoadOptions{
				ImagesDir:     cfg.Data.WebImagesDir(),
				MaxImageBytes: cfg.Images.MaxBytes,
			})
			if err != nil {
				return err
			}

			generator := &site.Generator{
				ContentDir: cfg.Site.ContentPath(),
				ImagesDir:  cfg.Data.WebImagesDir(),
				Logger:     logger,
			}
			if err := generator.Generate(items); err != nil {
				return err
			}

			logger.Info("content generated",
				slog.Int("items", len(items)), slog.String("dir", cfg.Site.ContentPath()))
			return nil
		},
	}
}
