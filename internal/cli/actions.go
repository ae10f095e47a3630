package cli

import (
	"fmt"
	"path/filepath"

	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/fileutil"
	"github.com/morozRed/railsnav/internal/method"
	"github.com/morozRed/railsnav/internal/nav"
	"github.com/morozRed/railsnav/internal/resolve"
	"github.com/spf13/cobra"
)

type ActionRecord struct {
	method.Action
	View string `json:"view,omitempty"`
}

type ActionsOutput struct {
	Controller string         `json:"controller"`
	Identity   string         `json:"identity"`
	Actions    []ActionRecord `json:"actions"`
}

func RunActions(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	includeAll, err := OptionalBoolFlag(cmd, "all", false)
	if err != nil {
		return err
	}
	doc, err := openDocument(cmd, args[0])
	if err != nil {
		return err
	}

	opts := convention.Default()
	patterns := nav.CompilePatterns(opts)
	if patterns.Classify(doc.path) != nav.KindController {
		return nav.NewError(nav.ErrClassification, nil, "not a Rails controller file: %s", doc.path)
	}
	identity, err := patterns.ControllerIdentity(doc.path)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	actions, err := method.NewExtractor().Actions(ctx, []byte(doc.text))
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", doc.path, err)
	}

	roots := resolve.Roots(opts, doc.workspace, identity)
	out := ActionsOutput{Controller: doc.path, Identity: identity, Actions: make([]ActionRecord, 0, len(actions))}
	for _, action := range actions {
		if !includeAll && !action.Public() {
			continue
		}
		record := ActionRecord{Action: action}
		if view, ok := resolve.FindFirstExisting(ctx, resolve.StatProber{}, resolve.ViewCandidates(opts, roots, identity, action.Name)); ok {
			record.View = view.Path
		}
		out.Actions = append(out.Actions, record)
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "actions for %s (%d)\n", identity, len(out.Actions))
	for _, record := range out.Actions {
		fmt.Fprintf(w, "- %s [%s] line %d", record.Name, record.Visibility, record.Line)
		if record.View != "" {
			rel, relErr := filepath.Rel(doc.workspace, record.View)
			if relErr != nil {
				rel = record.View
			}
			fmt.Fprintf(w, " -> %s", rel)
		} else {
			fmt.Fprint(w, " -> no view")
		}
		fmt.Fprintln(w)
	}
	return nil
}
