package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/database"
)

// MigrateResult reports the schema state after migrate.
type MigrateResult struct {
	Path    string `json:"path" yaml:"path"`
	Version uint   `json:"version" yaml:"version"`
	Dirty   bool   `json:"dirty" yaml:"dirty"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			version, dirty, err := database.SchemaVersion(s.cfg.Database.Path)
			if err != nil {
				return fail("schema version", err)
			}
			res := MigrateResult{Path: s.cfg.Database.Path, Version: version, Dirty: dirty}
			return formatter(cmd, rootOpts).Success(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s at schema version %d\n", res.Path, res.Version)
				return err
			})
		},
	}
}
