package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/AndreAle94/moneywallet-sub005/internal/money"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// WalletRepo reads wallets.
type WalletRepo struct {
	db *sql.DB
}

func NewWalletRepo(db *sql.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// List returns every wallet with its balance: start money plus confirmed
// incomes minus confirmed expenses.
func (r *WalletRepo) List(ctx context.Context) ([]Wallet, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT w.id, w.uuid, w.name, w.icon, w.currency,
	       COALESCE(c.symbol, w.currency), COALESCE(c.decimals, 2),
	       w.start_money,
	       w.start_money + COALESCE((
	         SELECT SUM(CASE t.direction WHEN ? THEN t.money ELSE -t.money END)
	         FROM transactions t WHERE t.wallet = w.id AND t.confirmed = 1), 0),
	       w.count_in_total, w.archived, w.position
	FROM wallets w
	LEFT JOIN currencies c ON c.iso = w.currency
	ORDER BY w.position, w.name, w.id`, schema.DirectionIncome)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Wallet
	for rows.Next() {
		var w Wallet
		if err := rows.Scan(&w.ID, &w.UUID, &w.Name, &w.Icon, &w.Currency, &w.Symbol, &w.Decimals,
			&w.StartMoney, &w.Balance, &w.CountInTotal, &w.Archived, &w.Position); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// FormattedBalance renders the balance with the currency symbol.
func (w Wallet) FormattedBalance() string {
	return money.FormatWithSymbol(w.Balance, w.Decimals, w.Symbol)
}

// Totals sums the balances of the wallets counted in the total, per
// currency. Archived wallets are left out.
func Totals(ws []Wallet) map[string]decimal.Decimal {
	balances := map[string][]int64{}
	decimals := map[string]int{}
	for _, w := range ws {
		if !w.CountInTotal || w.Archived {
			continue
		}
		balances[w.Currency] = append(balances[w.Currency], w.Balance)
		decimals[w.Currency] = w.Decimals
	}
	out := make(map[string]decimal.Decimal, len(balances))
	for iso, b := range balances {
		out[iso] = money.Sum(decimals[iso], b...)
	}
	return out
}
