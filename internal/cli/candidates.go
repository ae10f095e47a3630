package cli

import (
	"fmt"

	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/fileutil"
	"github.com/morozRed/railsnav/internal/method"
	"github.com/morozRed/railsnav/internal/nav"
	"github.com/morozRed/railsnav/internal/resolve"
	"github.com/spf13/cobra"
)

type CandidatesOutput struct {
	File       string          `json:"file"`
	Kind       string          `json:"kind"`
	Identity   string          `json:"identity"`
	Action     string          `json:"action,omitempty"`
	Roots      []string        `json:"roots"`
	Candidates []resolve.Probe `json:"candidates"`
	Selected   string          `json:"selected,omitempty"`
}

// RunCandidates shows the resolver's full search for a file: roots,
// candidates in precedence order and the state of each probe.
func RunCandidates(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	actionOverride, err := OptionalStringFlag(cmd, "action")
	if err != nil {
		return err
	}
	doc, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}

	opts := convention.Default()
	patterns := nav.CompilePatterns(opts)
	out := CandidatesOutput{File: doc.path, Kind: patterns.Classify(doc.path).String()}

	var candidates []resolve.Candidate
	switch patterns.Classify(doc.path) {
	case nav.KindController:
		if out.Identity, err = patterns.ControllerIdentity(doc.path); err != nil {
			return err
		}
		out.Action = actionOverride
		if out.Action == "" {
			action, ok := method.FindEnclosing(doc.text, doc.offset)
			if !ok {
				return nav.NewError(nav.ErrHeuristicMiss, nil, "could not find action method; place the cursor inside an action method or pass --action")
			}
			out.Action = action
		}
		out.Roots = resolve.Roots(opts, doc.workspace, out.Identity)
		candidates = resolve.ViewCandidates(opts, out.Roots, out.Identity, out.Action)
	case nav.KindView:
		if out.Identity, out.Action, err = patterns.ViewIdentity(doc.path); err != nil {
			return err
		}
		out.Roots = resolve.Roots(opts, doc.workspace, out.Identity)
		candidates = resolve.ControllerCandidates(opts, out.Roots, out.Identity)
	default:
		return nav.NewError(nav.ErrClassification, nil, "not in a Rails controller or view file: %s", doc.path)
	}

	out.Candidates = resolve.Report(commandContext(cmd), resolve.StatProber{}, candidates)
	for _, probe := range out.Candidates {
		if probe.State == resolve.Exists.String() {
			out.Selected = probe.Path
			break
		}
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s", out.Kind, out.Identity)
	if out.Action != "" {
		fmt.Fprintf(w, "#%s", out.Action)
	}
	fmt.Fprintf(w, " roots=%d candidates=%d\n", len(out.Roots), len(out.Candidates))
	for i, probe := range out.Candidates {
		marker := " "
		if probe.Path == out.Selected {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %2d. [%s] %s", marker, i+1, probe.State, probe.Path)
		if probe.Error != "" {
			fmt.Fprintf(w, " (%s)", probe.Error)
		}
		fmt.Fprintln(w)
	}
	if out.Selected == "" {
		fmt.Fprintln(w, "no candidate exists")
	}
	return nil
}
