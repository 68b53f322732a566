package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/database/repository"
)

// WalletsResult lists wallets with balances and per-currency totals.
type WalletsResult struct {
	Wallets []repository.Wallet `json:"wallets" yaml:"wallets"`
	Totals  map[string]string   `json:"totals" yaml:"totals"`
}

// NewWalletsCommand creates the wallets command.
func NewWalletsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "wallets",
		Short: "List wallets with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			ws, err := repository.NewWalletRepo(s.db).List(cmd.Context())
			if err != nil {
				return fail("list wallets", err)
			}
			res := WalletsResult{Wallets: ws, Totals: map[string]string{}}
			for iso, total := range repository.Totals(ws) {
				res.Totals[iso] = total.String()
			}
			return formatter(cmd, rootOpts).Success(res, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
				for _, wl := range ws {
					mark := ""
					if wl.Archived {
						mark = " (archived)"
					}
					fmt.Fprintf(tw, "%d\t%s%s\t%s\t\n", wl.ID, wl.Name, mark, wl.FormattedBalance())
				}
				isos := make([]string, 0, len(res.Totals))
				for iso := range res.Totals {
					isos = append(isos, iso)
				}
				sort.Strings(isos)
				for _, iso := range isos {
					fmt.Fprintf(tw, "\ttotal %s\t%s\t\n", iso, res.Totals[iso])
				}
				return tw.Flush()
			})
		},
	}
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			tree, err := repository.NewCategoryRepo(s.db).Tree(cmd.Context())
			if err != nil {
				return fail("list categories", err)
			}
			return formatter(cmd, rootOpts).Success(tree, func(w io.Writer) error {
				for _, c := range tree {
					if _, err := fmt.Fprintf(w, "%d %s\n", c.ID, c.Name); err != nil {
						return err
					}
					for _, child := range c.Children {
						if _, err := fmt.Fprintf(w, "  %d %s\n", child.ID, child.Name); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
	}
}
