package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AndreAle94/moneywallet-sub005/internal/currency"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/money"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		fields []string
		where  []string
		order  []string
		limit  int
		iso    string
	)
	cmd := &cobra.Command{
		Use:   "query <kind>",
		Short: "List rows of one entity",
		Long: `List rows of one entity, for example:

  moneywallet query transactions --where wallet=1 --order -date --limit 20
  moneywallet query categories --field id --field name --where parent=null
  moneywallet query transactions --where money=12.50 --currency EUR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := schema.ParseKind(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "query", err)
			}
			q := integrity.Query{Fields: fields, OrderBy: order, Limit: limit}
			decimals := 0
			if iso != "" {
				info, err := currency.Lookup(iso)
				if err != nil {
					return WrapExitError(ExitCommandError, "query", err)
				}
				decimals = info.Decimals
			}
			if len(where) > 0 {
				q.Where = map[string]any{}
				for _, w := range where {
					col, raw, ok := strings.Cut(w, "=")
					if !ok {
						return NewExitError(ExitCommandError, fmt.Sprintf("bad filter %q: want column=value", w))
					}
					v, err := filterValue(k, col, raw, decimals)
					if err != nil {
						return WrapExitError(ExitCommandError, "bad filter "+w, err)
					}
					q.Where[col] = v
				}
			}

			s, err := openStore(cmd, rootOpts)
			if err != nil {
				return err
			}
			defer s.Close()

			rows, err := s.engine.Query(cmd.Context(), k, q)
			if err != nil {
				return fail("query", err)
			}
			cols := fields
			if len(cols) == 0 {
				cols = schema.MustLookup(k).Columns()
			}
			return formatter(cmd, rootOpts).Success(rows, func(w io.Writer) error {
				return writeRows(w, cols, rows)
			})
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "column to show (repeatable)")
	cmd.Flags().StringArrayVar(&where, "where", nil, "equality filter column=value; null matches missing values (repeatable)")
	cmd.Flags().StringSliceVar(&order, "order", nil, "column to sort by, prefix with - for descending (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows")
	cmd.Flags().StringVar(&iso, "currency", "", "read money filters as amounts of this currency instead of minor units")
	return cmd
}

// filterValue converts the text of a --where flag to the type of column.
// Money values are amounts with up to decimals fraction digits.
func filterValue(k schema.Kind, col, raw string, decimals int) (any, error) {
	if raw == "null" {
		return nil, nil
	}
	typ := schema.TypeText
	switch col {
	case schema.ColID, schema.ColLastEdit:
		typ = schema.TypeInteger
	case schema.ColDeleted:
		typ = schema.TypeFlag
	case schema.ColUUID:
	default:
		f, ok := schema.MustLookup(k).Field(col)
		if !ok {
			return nil, fmt.Errorf("%s has no column %q", k, col)
		}
		typ = f.Type
		if f.Type == schema.TypeRef && f.Ref == schema.KindCurrency {
			typ = schema.TypeText
		}
	}
	switch typ {
	case schema.TypeMoney:
		return money.Parse(raw, decimals)
	case schema.TypeInteger, schema.TypeEnum, schema.TypeRef:
		return strconv.ParseInt(raw, 10, 64)
	case schema.TypeReal:
		return strconv.ParseFloat(raw, 64)
	case schema.TypeFlag:
		return strconv.ParseBool(raw)
	}
	return raw, nil
}

func writeRows(w io.Writer, cols []string, rows []integrity.Row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, r := range rows {
		vals := make([]string, len(cols))
		for i, c := range cols {
			if v := r[c]; v != nil {
				vals[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	return tw.Flush()
}
