package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"menugen/helpdoc"
)

const helpdocTimeout = 30 * time.Second

// NewHelpDocCommand shows the remote operator help document as markdown.
func NewHelpDocCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "helpdoc",
		Short: "Show the operator help document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}
			if cfg.Help.DocURL == "" {
				return fmt.Errorf("help.doc_url is not configured (set HELP_DOC_URL)")
			}

			viewer := helpdoc.NewViewer(helpdocTimeout)
			body, err := viewer.Fetch(cmd.Context(), cfg.Help.DocURL)
			if err != nil {
				return err
			}

			out, err := helpdoc.Render(body, cfg.Help.DocURL)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
