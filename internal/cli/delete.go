package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
	"github.com/AndreAle94/moneywallet-sub005/internal/service"
)

// DeleteResult reports a delete.
type DeleteResult struct {
	Kind    string `json:"kind" yaml:"kind"`
	ID      int64  `json:"id" yaml:"id"`
	Deleted int64  `json:"deleted" yaml:"deleted"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete one row, applying the delete rules",
		Long: `Delete one row. Dependent rows are deleted, cleared or detached as the
schema declares; the delete is refused while restricting rows exist.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := schema.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "delete", err)
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "bad id", err)
			}

			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.engine.Delete(cmd.Context(), k, id)
			if err != nil {
				return fail("delete", err)
			}
			res := DeleteResult{Kind: k.String(), ID: id, Deleted: n}
			return formatter(cmd, rootOpts).Success(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "deleted %s %d\n", res.Kind, res.ID)
				return err
			})
		},
	}
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all user data",
		Long:  "Delete every row except currencies and system categories.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return NewExitError(ExitCommandError, "reset deletes all user data; pass --yes to confirm")
			}
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := (&service.MaintenanceService{Engine: s.engine}).Reset(cmd.Context()); err != nil {
				return fail("reset", err)
			}
			return formatter(cmd, rootOpts).Success(map[string]bool{"reset": true}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "store reset")
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
