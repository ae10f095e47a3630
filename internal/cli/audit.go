package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/morozRed/railsnav/internal/audit"
	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/fileutil"
	"github.com/spf13/cobra"
)

func RunAudit(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}
	asJSONL, err := OptionalBoolFlag(cmd, "jsonl", false)
	if err != nil {
		return err
	}
	strict, err := OptionalBoolFlag(cmd, "strict", false)
	if err != nil {
		return err
	}

	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	workspace, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	if info, err := os.Stat(workspace); err != nil {
		return fmt.Errorf("workspace path: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", workspace)
	}

	cfg, err := loadConfig(cmd, workspace)
	if err != nil {
		return err
	}

	report, err := audit.Run(commandContext(cmd), convention.Default(), workspace, audit.Settings{
		Ignore:         cfg.Audit.Ignore,
		IncludePrivate: cfg.Audit.IncludePrivate,
	})
	if err != nil {
		return err
	}

	switch {
	case asJSONL:
		err = fileutil.WriteJSONL(cmd.OutOrStdout(), report.Controllers)
	case asJSON:
		err = fileutil.PrintJSON(cmd.OutOrStdout(), report)
	default:
		printAuditReport(cmd, report)
	}
	if err != nil {
		return err
	}

	if strict && len(report.Missing) > 0 {
		return reportedError{err: fmt.Errorf("%d action(s) without a view", len(report.Missing))}
	}
	return nil
}

func printAuditReport(cmd *cobra.Command, report *audit.Report) {
	w := cmd.OutOrStdout()
	actions := 0
	for _, controller := range report.Controllers {
		actions += len(controller.Actions)
	}
	fmt.Fprintf(w, "audit %s: controllers=%d actions=%d missing=%d\n",
		report.Workspace, len(report.Controllers), actions, len(report.Missing))
	for _, missing := range report.Missing {
		fmt.Fprintf(w, "- missing view: %s\n", missing)
	}
	for _, issue := range report.Issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s: %s\n", issue.Severity, issue.File, issue.Message)
	}
}
