package integrity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// systemCategory returns the id of the seeded category tagged tag.
func (tx *Tx) systemCategory(ctx context.Context, tag string) (int64, error) {
	var id int64
	err := tx.tx.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE tag = ? AND type = ? ORDER BY id LIMIT 1",
		tag, schema.CategorySystem).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("system category %s is missing; seed the store first", tag)
	}
	return id, err
}

// insertTransfer stores a transfer. Outside restore mode the legs are
// created from the virtual wallet and money fields first.
func (tx *Tx) insertTransfer(ctx context.Context, rec record) (int64, error) {
	if !tx.restoring {
		if err := tx.writeLegs(ctx, rec); err != nil {
			return 0, err
		}
	}
	return tx.insertRow(ctx, schema.MustLookup(schema.KindTransfer), rec)
}

// writeLegs creates or rewrites the transactions carrying the money of a
// transfer and stores their ids in rec. The source leg is an expense on
// wallet_from, the destination leg an income on wallet_to and the tax leg,
// present only while money_tax is positive, another expense on wallet_from.
func (tx *Tx) writeLegs(ctx context.Context, rec record) error {
	transfer, err := tx.systemCategory(ctx, schema.SystemTransfer)
	if err != nil {
		return err
	}
	if err := tx.putLeg(ctx, rec, "transaction_from",
		legRecord(rec, "wallet_from", "money_from", schema.DirectionExpense, transfer)); err != nil {
		return err
	}
	if err := tx.putLeg(ctx, rec, "transaction_to",
		legRecord(rec, "wallet_to", "money_to", schema.DirectionIncome, transfer)); err != nil {
		return err
	}

	if tax, _ := rec.int("money_tax"); tax > 0 {
		taxCat, err := tx.systemCategory(ctx, schema.SystemTax)
		if err != nil {
			return err
		}
		return tx.putLeg(ctx, rec, "transaction_tax",
			legRecord(rec, "wallet_from", "money_tax", schema.DirectionExpense, taxCat))
	}
	if id, ok := rec.int("transaction_tax"); ok {
		if _, err := tx.tx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
			return fmt.Errorf("drop tax leg %d: %w", id, err)
		}
		rec["transaction_tax"] = nil
	}
	return nil
}

func legRecord(rec record, wallet, money string, direction, category int64) record {
	return record{
		"money":          rec[money],
		"date":           rec["date"],
		"description":    rec["description"],
		"category":       category,
		"direction":      direction,
		"type":           schema.TransactionTransfer,
		"wallet":         rec[wallet],
		"confirmed":      rec["confirmed"],
		"count_in_total": rec["count_in_total"],
	}
}

func (tx *Tx) putLeg(ctx context.Context, rec record, field string, leg record) error {
	ent := schema.MustLookup(schema.KindTransaction)
	if id, ok := rec.int(field); ok {
		leg[schema.ColLastEdit] = tx.now()
		_, err := tx.setColumns(ctx, ent, id, leg)
		return err
	}
	id, err := tx.insertRow(ctx, ent, leg)
	if err != nil {
		return err
	}
	rec[field] = id
	return nil
}

// loadLegs fills the virtual wallet and money fields of a stored transfer
// from its legs.
func (tx *Tx) loadLegs(ctx context.Context, rec record) error {
	legs := []struct{ field, wallet, money string }{
		{"transaction_from", "wallet_from", "money_from"},
		{"transaction_to", "wallet_to", "money_to"},
		{"transaction_tax", "", "money_tax"},
	}
	rec["money_tax"] = int64(0)
	for _, l := range legs {
		id, ok := rec.int(l.field)
		if !ok {
			continue
		}
		leg, err := tx.Get(ctx, schema.KindTransaction, id)
		if err != nil {
			return fmt.Errorf("transfer leg %s: %w", l.field, err)
		}
		if l.wallet != "" {
			rec[l.wallet] = leg["wallet"]
		}
		rec[l.money] = leg["money"]
	}
	return nil
}

// insertDebt stores a debt and, when insert_transaction is set, the
// transaction that moved its money: an income for a debt owed by me, an
// expense for one owed to me.
func (tx *Tx) insertDebt(ctx context.Context, rec record) (int64, error) {
	id, err := tx.insertRow(ctx, schema.MustLookup(schema.KindDebt), rec)
	if err != nil {
		return 0, err
	}
	if settle, _ := rec.int("insert_transaction"); settle == 0 || tx.restoring {
		return id, nil
	}
	direction, tag := schema.DirectionIncome, schema.SystemDebt
	if typ, _ := rec.int("type"); typ == schema.DebtOwedToMe {
		direction, tag = schema.DirectionExpense, schema.SystemCredit
	}
	category, err := tx.systemCategory(ctx, tag)
	if err != nil {
		return 0, err
	}
	date, _ := rec.str("date")
	if _, err := tx.Insert(ctx, schema.KindTransaction, Fields{
		"money":       rec["money"],
		"date":        date + " 00:00:00",
		"description": rec["description"],
		"category":    category,
		"direction":   direction,
		"wallet":      rec["wallet"],
		"place":       rec["place"],
		"debt":        id,
	}); err != nil {
		return 0, fmt.Errorf("debt transaction: %w", err)
	}
	return id, nil
}
