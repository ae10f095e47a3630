// Package audit maps every controller action in a workspace to its view and
// reports actions that have none.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/method"
	"github.com/morozRed/railsnav/internal/nav"
	"github.com/morozRed/railsnav/internal/resolve"
)

var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"tmp":          {},
	"log":          {},
	"coverage":     {},
	"public":       {},
}

type Settings struct {
	Ignore         []string
	IncludePrivate bool
	Prober         resolve.Prober
}

type Action struct {
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Visibility string `json:"visibility"`
	View       string `json:"view,omitempty"`
}

type Controller struct {
	Path     string   `json:"path"`
	Identity string   `json:"identity"`
	Actions  []Action `json:"actions"`
}

// Issue is a non-fatal problem hit while scanning one file.
type Issue struct {
	File     string `json:"file"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type Report struct {
	Workspace   string       `json:"workspace"`
	Controllers []Controller `json:"controllers"`
	Missing     []string     `json:"missing"`
	Issues      []Issue      `json:"issues,omitempty"`
}

// Run scans workspace for controllers and resolves a view for each action.
func Run(ctx context.Context, opts convention.Options, workspace string, settings Settings) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	patterns := nav.CompilePatterns(opts)
	files, err := controllerFiles(workspace, patterns, settings.Ignore)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Workspace:   workspace,
		Controllers: make([]Controller, 0, len(files)),
		Missing:     make([]string, 0),
	}
	extractor := method.NewExtractor()
	for _, file := range files {
		rel, _ := filepath.Rel(workspace, file)
		identity, err := patterns.ControllerIdentity(file)
		if err != nil {
			report.Issues = append(report.Issues, Issue{File: rel, Severity: "warning", Message: err.Error()})
			continue
		}
		content, err := os.ReadFile(file)
		if err != nil {
			report.Issues = append(report.Issues, Issue{File: rel, Severity: "error", Message: err.Error()})
			continue
		}
		actions, err := extractor.Actions(ctx, content)
		if err != nil {
			report.Issues = append(report.Issues, Issue{File: rel, Severity: "error", Message: err.Error()})
			continue
		}

		controller := Controller{Path: rel, Identity: identity, Actions: make([]Action, 0, len(actions))}
		roots := resolve.Roots(opts, workspace, identity)
		for _, action := range actions {
			if !action.Public() && !settings.IncludePrivate {
				continue
			}
			entry := Action{Name: action.Name, Line: action.Line, Visibility: action.Visibility}
			candidates := resolve.ViewCandidates(opts, roots, identity, action.Name)
			if view, ok := resolve.FindFirstExisting(ctx, settings.Prober, candidates); ok {
				entry.View, _ = filepath.Rel(workspace, view.Path)
			} else if action.Public() {
				report.Missing = append(report.Missing, identity+"#"+action.Name)
			}
			controller.Actions = append(controller.Actions, entry)
		}
		report.Controllers = append(report.Controllers, controller)
		slog.Debug("audited controller",
			slog.String("file", rel),
			slog.Int("actions", len(controller.Actions)),
		)
	}

	sort.Strings(report.Missing)
	return report, nil
}

func controllerFiles(workspace string, patterns *nav.Patterns, extraIgnore []string) ([]string, error) {
	gi := loadIgnore(workspace, extraIgnore)

	var files []string
	err := filepath.WalkDir(workspace, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == workspace {
				return err
			}
			return nil
		}
		rel, relErr := filepath.Rel(workspace, path)
		if relErr != nil {
			return nil
		}

		if d.IsDir() {
			if path == workspace {
				return nil
			}
			if _, skip := skipDirs[d.Name()]; skip || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if patterns.Classify(path) == nav.KindController {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", workspace, err)
	}
	sort.Strings(files)
	return files, nil
}

func loadIgnore(workspace string, extra []string) *ignore.GitIgnore {
	path := filepath.Join(workspace, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		gi, err := ignore.CompileIgnoreFileAndLines(path, extra...)
		if err == nil {
			return gi
		}
		slog.Warn("ignoring unreadable .gitignore", slog.String("error", err.Error()))
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not inspect .gitignore", slog.String("error", err.Error()))
	}
	if len(extra) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(extra...)
}
