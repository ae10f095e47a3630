// Package nav toggles between a Rails controller action and its view:
// classification of the current file, identity extraction and the
// resolver-backed lookup in each direction.
package nav

import (
	"context"
	"log/slog"
	"os"

	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/method"
	"github.com/morozRed/railsnav/internal/resolve"
)

// Request is the editor state one navigation works from.
type Request struct {
	Path      string
	Text      string
	Offset    int
	Workspace string
}

type Status string

const (
	// StatusOpened: the counterpart was found and, for controllers, the
	// action definition was located.
	StatusOpened Status = "opened"
	// StatusPartial: the controller was found but the action was not.
	StatusPartial Status = "partial"
)

// Result describes where the editor should go next.
type Result struct {
	Status   Status   `json:"status"`
	From     string   `json:"from"`
	Target   string   `json:"target"`
	Identity string   `json:"identity"`
	Action   string   `json:"action"`
	Offset   int      `json:"offset"`
	Position Position `json:"position"`
	Message  string   `json:"message"`
}

// Navigator flips between a controller action and its view.
type Navigator struct {
	opts     convention.Options
	patterns *Patterns
	prober   resolve.Prober
	readFile func(string) ([]byte, error)
	logger   *slog.Logger
}

type Option func(*Navigator)

func WithProber(p resolve.Prober) Option {
	return func(n *Navigator) { n.prober = p }
}

func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(n *Navigator) { n.readFile = fn }
}

// New returns a Navigator for opts, which must pass Options.Validate.
func New(opts convention.Options, options ...Option) (*Navigator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	n := &Navigator{
		opts:     opts,
		patterns: CompilePatterns(opts),
		prober:   resolve.StatProber{},
		readFile: os.ReadFile,
		logger:   slog.Default(),
	}
	for _, opt := range options {
		opt(n)
	}
	return n, nil
}

// Toggle navigates from a controller to the view of the action under the
// cursor, or from a view to its controller action. Every failure is a
// *Error; a controller opened without its action is a StatusPartial result.
func (n *Navigator) Toggle(ctx context.Context, req Request) (*Result, error) {
	if req.Path == "" {
		return nil, NewError(ErrEnvironment, nil, "no active document")
	}
	if req.Workspace == "" || !InWorkspace(req.Workspace, req.Path) {
		return nil, NewError(ErrEnvironment, nil, "file is not in a workspace: %s", req.Path)
	}

	kind := n.patterns.Classify(req.Path)
	n.logger.Debug("classified file",
		slog.String("path", req.Path),
		slog.String("kind", kind.String()),
	)
	switch kind {
	case KindController:
		return n.toView(ctx, req)
	case KindView:
		return n.toController(ctx, req)
	default:
		return nil, NewError(ErrClassification, nil, "not in a Rails controller or view file: %s", req.Path)
	}
}

func (n *Navigator) toView(ctx context.Context, req Request) (*Result, error) {
	identity, err := n.patterns.ControllerIdentity(req.Path)
	if err != nil {
		return nil, err
	}
	action, ok := method.FindEnclosing(req.Text, req.Offset)
	if !ok {
		return nil, NewError(ErrHeuristicMiss, nil, "could not find action method; place the cursor inside an action method")
	}

	roots := resolve.Roots(n.opts, req.Workspace, identity)
	candidates := resolve.ViewCandidates(n.opts, roots, identity, action)
	n.logger.Debug("resolving view",
		slog.String("identity", identity),
		slog.String("action", action),
		slog.Int("candidates", len(candidates)),
	)
	view, ok := resolve.FindFirstExisting(ctx, n.prober, candidates)
	if !ok {
		return nil, NewError(ErrNotFound, nil, "no view found for %s#%s", identity, action)
	}

	return &Result{
		Status:   StatusOpened,
		From:     KindController.String(),
		Target:   view.Path,
		Identity: identity,
		Action:   action,
		Position: Position{Line: 1, Column: 1},
		Message:  "Opened view: " + action,
	}, nil
}

func (n *Navigator) toController(ctx context.Context, req Request) (*Result, error) {
	identity, action, err := n.patterns.ViewIdentity(req.Path)
	if err != nil {
		return nil, err
	}

	roots := resolve.Roots(n.opts, req.Workspace, identity)
	candidates := resolve.ControllerCandidates(n.opts, roots, identity)
	n.logger.Debug("resolving controller",
		slog.String("identity", identity),
		slog.String("action", action),
		slog.Int("candidates", len(candidates)),
	)
	controller, ok := resolve.FindFirstExisting(ctx, n.prober, candidates)
	if !ok {
		return nil, NewError(ErrNotFound, nil, "no controller found for %s", identity)
	}

	content, err := n.readFile(controller.Path)
	if err != nil {
		return nil, NewError(ErrEnvironment, err, "could not open %s", controller.Path)
	}
	text := string(content)

	result := &Result{
		From:     KindView.String(),
		Target:   controller.Path,
		Identity: identity,
		Action:   action,
		Position: Position{Line: 1, Column: 1},
	}
	offset, found := method.FindDefinition(text, action)
	if !found {
		result.Status = StatusPartial
		result.Message = "Opened controller (action " + action + " not found)"
		return result, nil
	}
	result.Status = StatusOpened
	result.Offset = offset
	result.Position = PositionAt(text, offset)
	result.Message = "Jumped to action: " + action
	return result, nil
}
