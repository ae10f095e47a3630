package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "railsnav",
		Short: "Jump between Rails controller actions and their views",
		Long: `railsnav flips between a Rails controller action and the view it renders.

Given the file open in your editor and the cursor position, it finds the
action under the cursor and the first matching template, or goes from a
template back to the action that renders it. Namespaced controllers are
also looked up under domains/<namespace> and apps/<namespace>.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a .railsnav.yml config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error (default from config)")

	// Navigate Commands
	toggleCmd := &cobra.Command{
		Use:   "toggle <file>",
		Short: "Go from a controller action to its view, or from a view to its action",
		Args:  cobra.ExactArgs(1),
		RunE:  RunToggle,
	}
	addCursorFlags(toggleCmd)
	toggleCmd.Flags().Bool("json", false, "Print machine-readable navigation result")

	// Inspect Commands
	candidatesCmd := &cobra.Command{
		Use:   "candidates <file>",
		Short: "List every path toggle would try, in precedence order",
		Args:  cobra.ExactArgs(1),
		RunE:  RunCandidates,
	}
	addCursorFlags(candidatesCmd)
	candidatesCmd.Flags().String("action", "", "Action to resolve views for instead of the one under the cursor")
	candidatesCmd.Flags().Bool("json", false, "Print machine-readable candidate list")

	actionsCmd := &cobra.Command{
		Use:   "actions <controller>",
		Short: "List the actions of a controller and the view each one resolves to",
		Args:  cobra.ExactArgs(1),
		RunE:  RunActions,
	}
	actionsCmd.Flags().String("workspace", "", "Workspace root (default: detected from workspace markers)")
	actionsCmd.Flags().Bool("all", false, "Include private and protected methods")
	actionsCmd.Flags().Bool("json", false, "Print machine-readable action list")

	auditCmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Report public controller actions that have no view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunAudit,
	}
	auditCmd.Flags().Bool("json", false, "Print machine-readable audit report")
	auditCmd.Flags().Bool("jsonl", false, "Print one JSON record per controller")
	auditCmd.Flags().Bool("strict", false, "Exit non-zero when any action is missing a view")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "railsnav %s\n", version)
		},
	}

	rootCmd.AddCommand(
		toggleCmd,
		candidatesCmd,
		actionsCmd,
		auditCmd,
		versionCmd,
	)

	return rootCmd
}

func addCursorFlags(cmd *cobra.Command) {
	cmd.Flags().Int("offset", -1, "Cursor byte offset in the document")
	cmd.Flags().Int("line", 0, "Cursor line (1-based)")
	cmd.Flags().Int("column", 1, "Cursor column in characters (1-based)")
	cmd.Flags().Bool("stdin", false, "Read the document text from stdin (unsaved buffer)")
	cmd.Flags().String("workspace", "", "Workspace root (default: detected from workspace markers)")
}
