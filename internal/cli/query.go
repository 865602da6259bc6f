package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/engine"
	"unify/internal/query"
)

// queryResult is the JSON payload of the query command.
type queryResult struct {
	Status  engine.Status       `json:"status"`
	Columns []string            `json:"columns"`
	Rows    [][]string          `json:"rows"`
	Sources []engine.Diagnostic `json:"sources"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <text>...",
		Short: "Answer a free-text query across all sources",
		Long: `Parse free-text into a filter, run it against the SQL, API, and file
sources concurrently, and print the merged table.

Example:
  unify query show users in region EU signed up last month
  unify query --format json "id 36 or email bob@example.com"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, strings.Join(args, " "), cmd)
		},
	}
	return cmd
}

func runQuery(opts *RootOptions, text string, cmd *cobra.Command) error {
	asm, err := assemble(opts)
	if err != nil {
		return err
	}
	defer asm.Close()

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	answer, err := asm.engine.Answer(cmd.Context(), text)
	if err != nil {
		if perr, ok := query.AsParseError(err); ok {
			out.Error(string(perr.Kind), perr.Error(), nil)
			return WrapExitError(ExitQueryError, "query rejected", err)
		}
		return WrapExitError(ExitCommandError, "query failed", err)
	}

	if opts.Format == "json" {
		return out.Success(queryResult{
			Status:  answer.Status,
			Columns: answer.Table.Columns,
			Rows:    answer.Table.Rows,
			Sources: answer.Sources,
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer.Table.Render())
	if answer.Status == engine.StatusDegraded {
		for _, d := range answer.Sources {
			if d.Status != engine.StatusOk {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: source %s %s", d.Source, d.Status)
				if d.Reason != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), " (%s)", d.Reason)
				}
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		}
	}
	return nil
}
