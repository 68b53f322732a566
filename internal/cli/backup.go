package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/service"
)

// NewBackupCommand creates the backup command and its list subcommand.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot into the backup directory",
		Long: `Write a snapshot named after the current time into backup.dir, then
remove the oldest files so that at most backup.keep remain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := s.backups().Create(cmd.Context())
			if err != nil {
				return fail("backup", err)
			}
			res := SnapshotResult{Path: f.Path, Stats: f.Stats}
			return formatter(cmd, rootOpts).Success(f, res.text("backed up", rootOpts.Verbose))
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the files in the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			files, err := (&service.BackupService{Dir: cfg.Backup.Dir}).List()
			if err != nil {
				return fail("list backups", err)
			}
			return formatter(cmd, rootOpts).Success(files, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, f := range files {
					fmt.Fprintf(tw, "%s\t%s\t%d bytes\n", f.Created.Local().Format(time.DateTime), f.Path, f.Size)
				}
				return tw.Flush()
			})
		},
	})
	return cmd
}
