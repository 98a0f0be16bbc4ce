package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"menugen/pipeline"
)

// NewRunCommand executes the full pipeline: fetch, validate, generate,
// build.
func NewRunCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full publishing pipeline",
		Long: `Run the pipeline end to end: fetch the sheet, validate the rows, write
the content tree and invoke the site build.

Unchanged sheet data short-circuits the run successfully; a fetch or
validation failure aborts it with a non-zero exit before anything is
published.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}
			if cfg.Sheet.SpreadsheetID == "" {
				return fmt.Errorf("sheet.spreadsheet_id is not configured (set SPREADSHEET_ID)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := pipeline.NewRunner(cfg, logger)
			return runner.Run(ctx)
		},
	}
}
