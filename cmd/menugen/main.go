// Package main provides the menugen binary entry point.
// Menugen publishes a bakery menu: it pulls rows from a Google Sheet and
// images from a Drive folder, validates them, writes Hugo page bundles and
// invokes the site build.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"menugen/commands"
)

const (
	Version = "0.1.0"
	appName = "menugen"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &commands.GlobalOptions{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Bakery menu publishing pipeline",
		Long: `Menugen pulls bakery-menu rows from a Google Sheet and the linked images
from a Drive folder, validates them against the category and image rules,
writes Hugo page bundles, and invokes the site build.

The pipeline is a linear sequence: fetch, validate, generate, build.
A failed fetch or validation aborts the run before anything is published;
unchanged sheet data short-circuits the run successfully.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to menugen.yaml (default: search current and parent directories)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	commands.Register(cmd, opts)
	return cmd
}
