package site

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// Builder invokes the external static-site build and propagates its exit
// status as the pipeline's. No transformation logic lives here.
type Builder struct {
	// SiteDir is the directory the build command runs in.
	SiteDir string
	// Command is the builder binary (default "hugo").
	Command string
	// Args are extra arguments for the build command.
	Args   []string
	Logger *slog.Logger
}

// Build runs the site build, streaming its output to the terminal.
func (b *Builder) Build(ctx context.Context) error {
	command := b.Command
	if command == "" {
		command = "hugo"
	}

	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("running site build",
		slog.String("command", command), slog.String("dir", b.SiteDir))

	cmd := exec.CommandContext(ctx, command, b.Args...)
	cmd.Dir = b.SiteDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("site build failed: %w", err)
	}
	return nil
}
