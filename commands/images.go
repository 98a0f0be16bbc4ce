package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"menugen/assets"
	"menugen/drive"
	"menugen/menu"
)

const driveTimeout = 60 * time.Second

// NewImagesCommand syncs Drive images referenced by the menu snapshot.
func NewImagesCommand(opts *GlobalOptions) *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "images",
		Short: "Sync Drive images referenced by the menu snapshot",
		Long: `Download the Drive images referenced by menu rows, store the raw bytes
and derive the web JPEGs served by the site. Unchanged images (same bytes
behind the same file id) are skipped via the sync manifest.

With --resolve, blank file_id cells are filled first by matching the image
display name against the configured Drive folder listing, and the snapshot
is rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}
			if cfg.Drive.FolderID == "" && resolve {
				return fmt.Errorf("drive.folder_id is not configured (set DRIVE_FOLDER_ID)")
			}

			rows, err := menu.ReadRowsFile(cfg.Data.CSVPath())
			if err != nil {
				return err
			}

			client := drive.NewClient(cfg.Drive.APIKey, driveTimeout)

			if resolve {
				files, err := client.ListFolder(cmd.Context(), cfg.Drive.FolderID)
				if err != nil {
					return err
				}
				updated := assets.ResolveFileIDs(rows, files)
				if updated > 0 {
					if err := menu.WriteRowsFile(cfg.Data.CSVPath(), rows); err != nil {
						return err
					}
				}
				logger.Info("file ids resolved", slog.Int("updated", updated))
			}

			syncer := &assets.Syncer{
				Drive:        client,
				RawDir:       cfg.Data.RawImagesDir(),
				WebDir:       cfg.Data.WebImagesDir(),
				ManifestPath: cfg.Data.ManifestPath(),
				MaxWebBytes:  cfg.Images.MaxBytes,
				MaxDimension: cfg.Images.MaxDimension,
				Logger:       logger,
			}
			return syncer.Sync(cmd.Context(), rows)
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve blank file_id cells from the Drive folder listing before syncing")
	return cmd
}
