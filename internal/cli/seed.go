package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"unify/internal/source/flatfile"
	"unify/internal/source/sqlite"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write demo data into every configured source",
		Long: `Populate the SQLite database and write the configured CSV/XLSX
exports with overlapping demo users, so that queries demonstrate
multi-source merging out of the box.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(rootOpts, cmd)
		},
	}
	return cmd
}

func runSeed(opts *RootOptions, cmd *cobra.Command) error {
	asm, err := assemble(opts)
	if err != nil {
		return err
	}
	defer asm.Close()

	if err := asm.store.Seed(cmd.Context(), sqlite.DemoUsers); err != nil {
		return WrapExitError(ExitCommandError, "seed database", err)
	}

	var written []string
	written = append(written, asm.cfg.Database)

	for _, path := range asm.cfg.Files {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			err = flatfile.WriteDemoCSV(path)
		case ".xlsx":
			err = flatfile.WriteDemoXLSX(path)
		default:
			continue
		}
		if err != nil {
			return WrapExitError(ExitCommandError, "seed export", err)
		}
		written = append(written, path)
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		return out.Success(map[string]any{"seeded": written})
	}
	return out.Success(fmt.Sprintf("seeded %s", strings.Join(written, ", ")))
}
