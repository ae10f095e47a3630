package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/morozRed/railsnav/internal/config"
	"github.com/morozRed/railsnav/internal/nav"
	"github.com/spf13/cobra"
)

// document is the editor state a navigation command works from.
type document struct {
	cfg       *config.Config
	path      string
	workspace string
	text      string
	offset    int
}

func openDocument(cmd *cobra.Command, file string) (*document, error) {
	if file == "" {
		return nil, nav.NewError(nav.ErrEnvironment, nil, "no active document")
	}
	path, err := filepath.Abs(file)
	if err != nil {
		return nil, nav.NewError(nav.ErrEnvironment, err, "could not resolve %s", file)
	}

	cfg, err := loadConfig(cmd, filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	workspace, err := resolveWorkspace(cmd, cfg, path)
	if err != nil {
		return nil, err
	}

	text, err := readDocument(cmd, path)
	if err != nil {
		return nil, err
	}

	offset, err := cursorOffset(cmd, text)
	if err != nil {
		return nil, err
	}

	return &document{cfg: cfg, path: path, workspace: workspace, text: text, offset: offset}, nil
}

// loadConfig reads --config or discovers .railsnav.yml from dir, then
// installs the process logger.
func loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	configPath, err := OptionalStringFlag(cmd, "config")
	if err != nil {
		return nil, err
	}
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Discover(dir)
	}
	if err != nil {
		return nil, err
	}

	levelName, err := OptionalStringFlag(cmd, "log-level")
	if err != nil {
		return nil, err
	}
	if levelName == "" {
		levelName = cfg.LogLevel
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	if cfg.Path != "" {
		slog.Debug("loaded config", slog.String("path", cfg.Path))
	}
	return cfg, nil
}

func resolveWorkspace(cmd *cobra.Command, cfg *config.Config, path string) (string, error) {
	workspace, err := OptionalStringFlag(cmd, "workspace")
	if err != nil {
		return "", err
	}
	if workspace == "" {
		return nav.FindWorkspace(path, cfg.WorkspaceMarkers)
	}
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return "", nav.NewError(nav.ErrEnvironment, err, "could not resolve workspace %s", workspace)
	}
	return abs, nil
}

func readDocument(cmd *cobra.Command, path string) (string, error) {
	fromStdin, err := OptionalBoolFlag(cmd, "stdin", false)
	if err != nil {
		return "", err
	}
	var content []byte
	if fromStdin {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return "", nav.NewError(nav.ErrEnvironment, err, "no active document")
	}
	return string(content), nil
}

// cursorOffset prefers --offset, then --line/--column, then the document
// start.
func cursorOffset(cmd *cobra.Command, text string) (int, error) {
	offset, err := OptionalIntFlag(cmd, "offset", -1)
	if err != nil {
		return 0, err
	}
	if offset >= 0 {
		if offset > len(text) {
			return 0, fmt.Errorf("--offset %d is past the end of the document (%d bytes)", offset, len(text))
		}
		return offset, nil
	}

	line, err := OptionalIntFlag(cmd, "line", 0)
	if err != nil {
		return 0, err
	}
	if line <= 0 {
		return 0, nil
	}
	column, err := OptionalIntFlag(cmd, "column", 1)
	if err != nil {
		return 0, err
	}
	return nav.OffsetAt(text, nav.Position{Line: line, Column: column})
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// reportedError marks an error whose message was already written to the
// user, e.g. as a JSON payload.
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var reported reportedError
	return errors.As(err, &reported)
}
