package cli

import (
	"fmt"

	"github.com/morozRed/railsnav/internal/convention"
	"github.com/morozRed/railsnav/internal/fileutil"
	"github.com/morozRed/railsnav/internal/nav"
	"github.com/spf13/cobra"
)

// ToggleOutput is the JSON payload of the toggle command.
type ToggleOutput struct {
	OK      bool        `json:"ok"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Result  *nav.Result `json:"result,omitempty"`
}

// RunToggle prints the target location on stdout and exactly one message:
// on stderr in text mode, inside the payload with --json.
func RunToggle(cmd *cobra.Command, args []string) error {
	asJSON, err := OptionalBoolFlag(cmd, "json", false)
	if err != nil {
		return err
	}

	result, err := toggle(cmd, args[0])
	if err != nil {
		if !asJSON {
			return err
		}
		if printErr := fileutil.PrintJSON(cmd.OutOrStdout(), ToggleOutput{
			Kind:    nav.KindName(err),
			Message: err.Error(),
		}); printErr != nil {
			return printErr
		}
		return reportedError{err: err}
	}

	if asJSON {
		return fileutil.PrintJSON(cmd.OutOrStdout(), ToggleOutput{
			OK:      true,
			Message: result.Message,
			Result:  result,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d\n", result.Target, result.Position.Line, result.Position.Column)
	fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
	return nil
}

func toggle(cmd *cobra.Command, file string) (*nav.Result, error) {
	doc, err := openDocument(cmd, file)
	if err != nil {
		return nil, err
	}
	navigator, err := nav.New(convention.Default())
	if err != nil {
		return nil, err
	}
	return navigator.Toggle(commandContext(cmd), nav.Request{
		Path:      doc.path,
		Text:      doc.text,
		Offset:    doc.offset,
		Workspace: doc.workspace,
	})
}
