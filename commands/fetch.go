package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"menugen/sheet"
)

const fetchTimeout = 30 * time.Second

// NewFetchCommand fetches the menu sheet into the local CSV snapshot.
func NewFetchCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the menu sheet into the local CSV snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}
			if cfg.Sheet.SpreadsheetID == "" {
				return fmt.Errorf("sheet.spreadsheet_id is not configured (set SPREADSHEET_ID)")
			}

			fetcher := sheet.NewFetcher(fetchTimeout)
			err = fetcher.FetchCSV(cmd.Context(), cfg.Sheet.SpreadsheetID, cfg.Sheet.Tab, cfg.Data.CSVPath())
			if errors.Is(err, sheet.ErrUnchanged) {
				logger.Info("sheet data unchanged", slog.String("path", cfg.Data.CSVPath()))
				return nil
			}
			if err != nil {
				return err
			}

			logger.Info("sheet fetched",
				slog.String("tab", cfg.Sheet.Tab), slog.String("path", cfg.Data.CSVPath()))
			return nil
		},
	}
}
