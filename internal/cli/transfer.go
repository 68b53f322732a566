package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/backup"
	"github.com/AndreAle94/moneywallet-sub005/internal/snapshot"
)

// SnapshotResult reports one export or import.
type SnapshotResult struct {
	Path  string       `json:"path" yaml:"path"`
	Stats backup.Stats `json:"stats" yaml:"stats"`
}

func (r SnapshotResult) text(verb string, verbose bool) func(io.Writer) error {
	return func(w io.Writer) error {
		if _, err := fmt.Fprintf(w, "%s %d records (format version %d) %s\n", verb, r.Stats.Total(), r.Stats.Version, r.Path); err != nil {
			return err
		}
		if !verbose {
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, sec := range r.Stats.Sections {
			fmt.Fprintf(tw, "  %s\t%d\t%d skipped\n", sec.Name, sec.Records, sec.Skipped)
		}
		return tw.Flush()
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var version int
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the whole store to a snapshot file",
		Long: `Write every row of the store to a portable JSON snapshot.
Use "-" to write to standard output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			path := args[0]
			var w io.Writer
			if path == "-" {
				// the document is the output; no result is printed after it.
				// Export closes closers, so stdout is hidden behind a plain writer.
				w = struct{ io.Writer }{cmd.OutOrStdout()}
			} else {
				f, err := os.Create(path)
				if err != nil {
					return fail("create snapshot", err)
				}
				w = f
			}
			stats, err := backup.Export(cmd.Context(), s.engine, w, backup.WithVersion(version), backup.WithLogger(s.log))
			if err != nil {
				if path != "-" {
					_ = os.Remove(path)
				}
				return fail("export", err)
			}
			if path == "-" {
				return nil
			}
			res := SnapshotResult{Path: path, Stats: stats}
			return formatter(cmd, rootOpts).Success(res, res.text("exported", rootOpts.Verbose))
		},
	}
	cmd.Flags().IntVar(&version, "version", snapshot.Version, "snapshot format version to write")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var replace bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a snapshot file into the store",
		Long: `Restore a portable JSON snapshot. The whole file is applied in one unit
of work: if any record is rejected, nothing is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.backups().Restore(cmd.Context(), args[0], replace)
			if err != nil {
				return fail("import", err)
			}
			res := SnapshotResult{Path: args[0], Stats: stats}
			return formatter(cmd, rootOpts).Success(res, res.text("imported", rootOpts.Verbose))
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "wipe the user data before restoring")
	return cmd
}
