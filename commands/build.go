package commands

import (
	"github.com/spf13/cobra"

	"menugen/site"
)

// NewBuildCommand invokes the external site build.
func NewBuildCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the external site build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.Logger()
			cfg, err := opts.LoadConfig(logger)
			if err != nil {
				return err
			}

			builder := &site.Builder{
				SiteDir: cfg.Site.Dir,
				Command: cfg.Site.BuildCommand,
				Args:    cfg.Site.BuildArgs,
				Logger:  logger,
			}
			return builder.Build(cmd.Context())
		},
	}
}
