package integrity

import (
	"context"
	"fmt"
	"strings"

	"github.com/AndreAle94/moneywallet-sub005/internal/currency"
	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// validate checks rec, the full row about to be written. cur is the stored
// row on update and nil on insert.
func (tx *Tx) validate(ctx context.Context, ent *schema.Entity, rec, cur record) error {
	for _, f := range ent.Fields {
		if f.Required && !f.Virtual && rec[f.Name] == nil {
			return invalid(ent.Kind, f.Name, "required")
		}
	}
	if err := tx.checkRefs(ctx, ent, rec); err != nil {
		return err
	}
	switch ent.Kind {
	case schema.KindCurrency:
		return tx.validateCurrency(ctx, rec, cur)
	case schema.KindCategory:
		return tx.validateCategory(ctx, rec, cur)
	case schema.KindEvent:
		return checkRange(ent.Kind, rec, "start_date", "end_date")
	case schema.KindDebt:
		return checkRange(ent.Kind, rec, "date", "expiration_date")
	case schema.KindBudget:
		if err := checkRange(ent.Kind, rec, "start_date", "end_date"); err != nil {
			return err
		}
		return tx.validateBudget(ctx, rec)
	case schema.KindTransaction:
		return tx.validateTransaction(rec, cur)
	case schema.KindTransfer:
		return tx.validateTransfer(ctx, rec)
	case schema.KindTransferModel, schema.KindRecurrentTransfer:
		if rec["wallet_from"] == rec["wallet_to"] {
			return invalid(ent.Kind, "wallet_to", "must differ from wallet_from")
		}
	}
	return nil
}

func (tx *Tx) checkRefs(ctx context.Context, ent *schema.Entity, rec record) error {
	for _, f := range ent.Fields {
		if !f.IsRef() || rec[f.Name] == nil {
			continue
		}
		if f.Type == schema.TypeRef {
			found, err := tx.exists(ctx, f.Ref, rec[f.Name])
			if err != nil {
				return err
			}
			if !found {
				return invalid(ent.Kind, f.Name, "references missing %s %v", f.Ref, rec[f.Name])
			}
			continue
		}
		s, _ := rec.str(f.Name)
		ids, err := refs.Decode(s)
		if err != nil {
			return &ValidationError{Kind: ent.Kind, Field: f.Name, Reason: "bad reference list", Err: err}
		}
		for _, id := range ids {
			found, err := tx.exists(ctx, f.Ref, id)
			if err != nil {
				return err
			}
			if !found {
				return invalid(ent.Kind, f.Name, "references missing %s %d", f.Ref, id)
			}
		}
	}
	return nil
}

func checkRange(k schema.Kind, rec record, from, to string) error {
	start, ok1 := rec.str(from)
	end, ok2 := rec.str(to)
	if ok1 && ok2 && end < start {
		return invalid(k, to, "is before %s", from)
	}
	return nil
}

func (tx *Tx) validateCurrency(ctx context.Context, rec, cur record) error {
	raw, _ := rec.str("iso")
	info, err := currency.Lookup(raw)
	if err != nil {
		return &ValidationError{Kind: schema.KindCurrency, Field: "iso", Reason: "not an ISO 4217 code", Err: err}
	}
	rec["iso"] = info.ISO
	if d, _ := rec.int("decimals"); d < 0 || d > 8 {
		return invalid(schema.KindCurrency, "decimals", "out of range 0..8")
	}
	if cur != nil {
		if old, _ := cur.str("iso"); !strings.EqualFold(old, info.ISO) {
			return invalid(schema.KindCurrency, "iso", "cannot change once created")
		}
		return nil
	}
	found, err := tx.exists(ctx, schema.KindCurrency, info.ISO)
	if err != nil {
		return err
	}
	if found {
		return invalid(schema.KindCurrency, "iso", "%s already exists", info.ISO)
	}
	return nil
}

func (tx *Tx) validateCategory(ctx context.Context, rec, cur record) error {
	const k = schema.KindCategory
	typ, _ := rec.int("type")
	var id int64
	if cur != nil {
		id, _ = cur.int(schema.ColID)
	}
	if typ == schema.CategorySystem && !tx.restoring {
		if old, _ := cur.int("type"); cur == nil || old != schema.CategorySystem {
			return invalid(k, "type", "system categories are created by the store")
		}
	}
	if parent, ok := rec.int("parent"); ok {
		if parent == id {
			return invalid(k, "parent", "a category cannot be its own parent")
		}
		p, err := tx.Get(ctx, k, parent)
		if err != nil {
			return err
		}
		if p["parent"] != nil {
			return invalid(k, "parent", "category %d is already a child", parent)
		}
		if pt, _ := p.Int("type"); pt != typ {
			return invalid(k, "parent", "category %d has a different type", parent)
		}
		if id != 0 {
			n, err := tx.count(ctx, "SELECT COUNT(*) FROM categories WHERE parent = ?", id)
			if err != nil {
				return err
			}
			if n > 0 {
				return invalid(k, "parent", "a category with children cannot become a child")
			}
		}
	}
	if id != 0 {
		n, err := tx.count(ctx, "SELECT COUNT(*) FROM categories WHERE parent = ? AND type != ?", id, typ)
		if err != nil {
			return err
		}
		if n > 0 {
			return invalid(k, "type", "children have a different type")
		}
	}
	return nil
}

// validateBudget fills the budget currency from its wallets when unset.
func (tx *Tx) validateBudget(ctx context.Context, rec record) error {
	const k = schema.KindBudget
	typ, _ := rec.int("type")
	cat, hasCat := rec.int("category")
	switch {
	case typ == schema.BudgetCategory && !hasCat:
		return invalid(k, "category", "required for category budgets")
	case typ == schema.BudgetCategory:
		c, err := tx.Get(ctx, schema.KindCategory, cat)
		if err != nil {
			return err
		}
		if ct, _ := c.Int("type"); ct == schema.CategorySystem {
			return invalid(k, "category", "system categories cannot be budgeted")
		}
	case hasCat:
		return invalid(k, "category", "only category budgets have a category")
	}

	wallets := rec.ids("wallets")
	if len(wallets) == 0 {
		// Deleting the last wallet of a budget detaches it and keeps the
		// budget, so a restored store may hold budgets without wallets.
		if tx.restoring {
			return nil
		}
		return invalid(k, "wallets", "at least one wallet is required")
	}
	args := make([]any, len(wallets))
	for i, w := range wallets {
		args[i] = w
	}
	rows, err := tx.tx.QueryContext(ctx,
		fmt.Sprintf("SELECT DISTINCT currency FROM wallets WHERE id IN (%s)", placeholders(len(args))), args...)
	if err != nil {
		return err
	}
	var isos []string
	for rows.Next() {
		var iso string
		if err := rows.Scan(&iso); err != nil {
			rows.Close()
			return err
		}
		isos = append(isos, iso)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(isos) != 1 {
		return invalid(k, "wallets", "wallets must share one currency, found %d", len(isos))
	}
	iso, ok := rec.str("currency")
	if !ok {
		rec["currency"] = isos[0]
		return nil
	}
	if iso != isos[0] {
		return invalid(k, "currency", "%s differs from the wallets currency %s", iso, isos[0])
	}
	return nil
}

// validateTransaction derives the type from the debt and saving references.
func (tx *Tx) validateTransaction(rec, cur record) error {
	const k = schema.KindTransaction
	typ, _ := rec.int("type")
	_, hasDebt := rec.int("debt")
	_, hasSaving := rec.int("saving")
	if hasDebt && hasSaving {
		return invalid(k, "saving", "a transaction cannot belong to both a debt and a saving")
	}
	if typ == schema.TransactionTransfer {
		if old, _ := cur.int("type"); !tx.restoring && (cur == nil || old != schema.TransactionTransfer) {
			return invalid(k, "type", "transfer legs are created by their transfer")
		}
		if hasDebt || hasSaving {
			return invalid(k, "type", "transfer legs cannot belong to a debt or a saving")
		}
		return nil
	}
	switch {
	case hasDebt:
		rec["type"] = schema.TransactionDebt
	case hasSaving:
		rec["type"] = schema.TransactionSaving
	default:
		rec["type"] = schema.TransactionStandard
	}
	return nil
}

func (tx *Tx) validateTransfer(ctx context.Context, rec record) error {
	const k = schema.KindTransfer
	if tx.restoring {
		return tx.validateLegs(ctx, rec)
	}
	for _, name := range []string{"wallet_from", "wallet_to", "money_from", "money_to"} {
		if rec[name] == nil {
			return invalid(k, name, "required")
		}
	}
	if rec["wallet_from"] == rec["wallet_to"] {
		return invalid(k, "wallet_to", "must differ from wallet_from")
	}
	for _, name := range []string{"money_from", "money_to", "money_tax"} {
		if v, ok := rec.int(name); ok && v < 0 {
			return invalid(k, name, "must not be negative")
		}
	}
	if rec["money_tax"] == nil {
		rec["money_tax"] = int64(0)
	}
	return nil
}

// validateLegs checks the explicit legs of a restored transfer.
func (tx *Tx) validateLegs(ctx context.Context, rec record) error {
	const k = schema.KindTransfer
	var legs []any
	for _, name := range []string{"transaction_from", "transaction_to", "transaction_tax"} {
		id, ok := rec.int(name)
		if !ok {
			if name == "transaction_tax" {
				continue
			}
			return invalid(k, name, "required")
		}
		for _, l := range legs {
			if l == id {
				return invalid(k, name, "transaction %d is already a leg of this transfer", id)
			}
		}
		leg, err := tx.Get(ctx, schema.KindTransaction, id)
		if err != nil {
			return err
		}
		if t, _ := leg.Int("type"); t != schema.TransactionTransfer {
			return invalid(k, name, "transaction %d is not a transfer leg", id)
		}
		legs = append(legs, id)
	}
	self, _ := rec.int(schema.ColID)
	in := placeholders(len(legs))
	args := []any{self}
	for i := 0; i < 3; i++ {
		args = append(args, legs...)
	}
	n, err := tx.count(ctx, fmt.Sprintf(`
	SELECT COUNT(*) FROM transfers WHERE id != ?
	AND (transaction_from IN (%[1]s) OR transaction_to IN (%[1]s) OR transaction_tax IN (%[1]s))`, in), args...)
	if err != nil {
		return err
	}
	if n > 0 {
		return invalid(k, "transaction_from", "legs already belong to another transfer")
	}
	return nil
}
