// Package commands implements the menugen subcommands.
package commands

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"menugen/config"
)

// GlobalOptions carries the persistent flags shared by every subcommand.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
}

// Logger builds the process logger from the --log-level flag.
func (o *GlobalOptions) Logger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(o.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// LoadConfig loads layered configuration, honoring --config.
func (o *GlobalOptions) LoadConfig(logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)
	if o.ConfigPath != "" {
		return loader.LoadFile(o.ConfigPath)
	}
	return loader.Load()
}

// Register attaches every subcommand to the root command.
func Register(root *cobra.Command, opts *GlobalOptions) {
	root.AddCommand(
		NewFetchCommand(opts),
		NewImagesCommand(opts),
		NewGenerateCommand(opts),
		NewBuildCommand(opts),
		NewRunCommand(opts),
		NewWatchCommand(opts),
		NewHelpDocCommand(opts),
	)
}
