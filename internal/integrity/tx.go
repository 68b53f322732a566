package integrity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/AndreAle94/moneywallet-sub005/internal/database"
	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

var errReadOnly = errors.New("integrity: write attempted in a read-only view")

// Tx is one unit of work opened by Atomic, View or Restore.
type Tx struct {
	e         *Engine
	tx        *sql.Tx
	restoring bool
	readOnly  bool
}

func (tx *Tx) writable() error {
	if tx.readOnly {
		return errReadOnly
	}
	return nil
}

func (tx *Tx) now() int64 { return tx.e.now().UnixMilli() }

// Insert validates f and adds one row of k.
func (tx *Tx) Insert(ctx context.Context, k schema.Kind, f Fields) (int64, error) {
	if err := tx.writable(); err != nil {
		return 0, err
	}
	ent, err := entity(k)
	if err != nil {
		return 0, err
	}
	rec, err := tx.normalize(ent, f)
	if err != nil {
		return 0, err
	}
	applyDefaults(ent, rec)
	if err := tx.validate(ctx, ent, rec, nil); err != nil {
		return 0, err
	}
	switch k {
	case schema.KindTransfer:
		return tx.insertTransfer(ctx, rec)
	case schema.KindDebt:
		return tx.insertDebt(ctx, rec)
	}
	return tx.insertRow(ctx, ent, rec)
}

// Update merges f into the stored row, validates the result and writes it.
func (tx *Tx) Update(ctx context.Context, k schema.Kind, id int64, f Fields) (int64, error) {
	if err := tx.writable(); err != nil {
		return 0, err
	}
	ent, err := entity(k)
	if err != nil {
		return 0, err
	}
	row, err := tx.Get(ctx, k, id)
	if err != nil {
		return 0, err
	}
	cur := recordFromRow(row)
	if err := tx.guard(k, id, cur); err != nil {
		return 0, err
	}
	rec, err := tx.normalize(ent, f)
	if err != nil {
		return 0, err
	}
	if _, ok := rec["insert_transaction"]; ok && k == schema.KindDebt {
		return 0, invalid(k, "insert_transaction", "only accepted on insert")
	}
	if k == schema.KindTransfer && !tx.restoring {
		if err := tx.loadLegs(ctx, cur); err != nil {
			return 0, err
		}
	}

	merged := cur.clone()
	for name, v := range rec {
		merged[name] = v
	}
	applyDefaults(ent, merged)
	if err := tx.validate(ctx, ent, merged, cur); err != nil {
		return 0, err
	}
	if k == schema.KindTransfer && !tx.restoring {
		if err := tx.writeLegs(ctx, merged); err != nil {
			return 0, err
		}
	}
	if _, ok := rec[schema.ColLastEdit]; !ok {
		merged[schema.ColLastEdit] = tx.now()
	}
	return tx.writeRow(ctx, ent, id, merged)
}

// Delete removes one row of k and applies its delete rules.
func (tx *Tx) Delete(ctx context.Context, k schema.Kind, id int64) (int64, error) {
	if err := tx.writable(); err != nil {
		return 0, err
	}
	ent, err := entity(k)
	if err != nil {
		return 0, err
	}
	row, err := tx.Get(ctx, k, id)
	if err != nil {
		return 0, err
	}
	cur := recordFromRow(row)
	if err := tx.guard(k, id, cur); err != nil {
		return 0, err
	}
	if err := tx.deleteRow(ctx, ent, cur); err != nil {
		return 0, err
	}
	return 1, nil
}

// guard protects rows that only the store itself may change.
func (tx *Tx) guard(k schema.Kind, id int64, cur record) error {
	if tx.restoring {
		return nil
	}
	typ, _ := cur.int("type")
	switch {
	case k == schema.KindCategory && typ == schema.CategorySystem:
		return protected(k, id, "system categories are read-only")
	case k == schema.KindTransaction && typ == schema.TransactionTransfer:
		return protected(k, id, "transfer legs change through their transfer")
	}
	return nil
}

func isLeg(name string) bool {
	switch name {
	case "transaction_from", "transaction_to", "transaction_tax":
		return true
	}
	return false
}

func (tx *Tx) normalize(ent *schema.Entity, f Fields) (record, error) {
	rec := make(record, len(f))
	for name, v := range f {
		switch name {
		case schema.ColID:
			return nil, invalid(ent.Kind, name, "assigned by the store")
		case schema.ColUUID, schema.ColLastEdit, schema.ColDeleted:
			if !tx.restoring {
				return nil, invalid(ent.Kind, name, "managed by the store")
			}
			val, err := managedValue(name, v)
			if err != nil {
				return nil, &ValidationError{Kind: ent.Kind, Field: name, Reason: "bad value", Err: err}
			}
			rec[name] = val
			continue
		}
		fld, ok := ent.Field(name)
		if !ok {
			return nil, invalid(ent.Kind, name, "unknown field")
		}
		if ent.Kind == schema.KindTransfer && isLeg(name) && !tx.restoring {
			return nil, invalid(ent.Kind, name, "legs are managed by the transfer")
		}
		val, err := normalizeValue(fld, v)
		if err != nil {
			return nil, &ValidationError{Kind: ent.Kind, Field: name, Reason: "bad value", Err: err}
		}
		rec[name] = val
	}
	return rec, nil
}

func managedValue(name string, v any) (any, error) {
	switch name {
	case schema.ColUUID:
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, fmt.Errorf("want non-empty text, got %v", v)
		}
		return s, nil
	case schema.ColLastEdit:
		return toInt64(v)
	}
	return normalizeValue(schema.Field{Name: name, Type: schema.TypeFlag}, v)
}

func applyDefaults(ent *schema.Entity, rec record) {
	for _, f := range ent.Fields {
		if f.Default == nil {
			continue
		}
		if v, ok := rec[f.Name]; ok && v != nil {
			continue
		}
		if v, err := normalizeValue(f, f.Default); err == nil {
			rec[f.Name] = v
		}
	}
}

func (tx *Tx) insertRow(ctx context.Context, ent *schema.Entity, rec record) (int64, error) {
	id, _ := rec.str(schema.ColUUID)
	switch {
	case id == "" && ent.Kind == schema.KindCurrency:
		iso, _ := rec.str("iso")
		id = database.CurrencyUUID(iso)
	case id == "":
		id = tx.e.newUUID()
	default:
		_, found, err := tx.FindByUUID(ctx, ent.Kind, id)
		if err != nil {
			return 0, err
		}
		if found {
			return 0, invalid(ent.Kind, schema.ColUUID, "uuid %s already present", id)
		}
	}
	edit, ok := rec.int(schema.ColLastEdit)
	if !ok {
		edit = tx.now()
	}
	deleted, _ := rec.int(schema.ColDeleted)

	cols := []string{quote(schema.ColUUID), quote(schema.ColLastEdit), quote(schema.ColDeleted)}
	args := []any{id, edit, deleted}
	for _, f := range ent.Stored() {
		cols = append(cols, quote(f.Name))
		args = append(args, rec[f.Name])
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		ent.Name(), strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := tx.tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", ent.Kind, err)
	}
	return res.LastInsertId()
}

// writeRow rewrites every stored column of one row from rec.
func (tx *Tx) writeRow(ctx context.Context, ent *schema.Entity, id int64, rec record) (int64, error) {
	vals := record{
		schema.ColUUID:     rec[schema.ColUUID],
		schema.ColLastEdit: rec[schema.ColLastEdit],
	}
	for _, f := range ent.Stored() {
		vals[f.Name] = rec[f.Name]
	}
	return tx.setColumns(ctx, ent, id, vals)
}

func (tx *Tx) setColumns(ctx context.Context, ent *schema.Entity, id int64, vals record) (int64, error) {
	names := make([]string, 0, len(vals))
	for n := range vals {
		names = append(names, n)
	}
	sort.Strings(names)
	sets := make([]string, len(names))
	args := make([]any, 0, len(names)+1)
	for i, n := range names {
		sets[i] = quote(n) + " = ?"
		args = append(args, vals[n])
	}
	args = append(args, id)
	res, err := tx.tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", ent.Name(), strings.Join(sets, ", ")), args...)
	if err != nil {
		return 0, fmt.Errorf("update %s %d: %w", ent.Kind, id, err)
	}
	return res.RowsAffected()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Link appends member to the multi-valued reference field of one row,
// leaving the list unchanged when member is already present.
func (tx *Tx) Link(ctx context.Context, k schema.Kind, id int64, field string, member int64) error {
	if err := tx.writable(); err != nil {
		return err
	}
	ent, err := entity(k)
	if err != nil {
		return err
	}
	f, ok := ent.Field(field)
	if !ok || f.Type != schema.TypeMultiRef {
		return invalid(k, field, "not a reference list")
	}
	row, err := tx.Get(ctx, k, id)
	if err != nil {
		return err
	}
	found, err := tx.exists(ctx, f.Ref, member)
	if err != nil {
		return err
	}
	if !found {
		return invalid(k, field, "references missing %s %d", f.Ref, member)
	}
	cur := recordFromRow(row)
	if err := tx.guard(k, id, cur); err != nil {
		return err
	}
	merged := cur.clone()
	merged[field] = *refs.Encode(refs.Append(cur.ids(field), member))

	vals := record{field: merged[field]}
	if k == schema.KindBudget {
		if err := tx.validateBudget(ctx, merged); err != nil {
			return err
		}
		vals["currency"] = merged["currency"]
	}
	if !tx.restoring {
		vals[schema.ColLastEdit] = tx.now()
	}
	_, err = tx.setColumns(ctx, ent, id, vals)
	return err
}

// Check revalidates a stored row. Restore uses it once the links a row
// depends on have been written.
func (tx *Tx) Check(ctx context.Context, k schema.Kind, id int64) error {
	ent, err := entity(k)
	if err != nil {
		return err
	}
	row, err := tx.Get(ctx, k, id)
	if err != nil {
		return err
	}
	rec := recordFromRow(row)
	if k == schema.KindTransfer && !tx.restoring {
		if err := tx.loadLegs(ctx, rec); err != nil {
			return err
		}
	}
	if err := tx.validate(ctx, ent, rec, rec.clone()); err != nil {
		return err
	}
	if k == schema.KindBudget && row["currency"] == nil && rec["currency"] != nil && !tx.readOnly {
		_, err := tx.setColumns(ctx, ent, id, record{"currency": rec["currency"]})
		return err
	}
	return nil
}

// OrphanLegs lists transfer-typed transactions no transfer owns.
func (tx *Tx) OrphanLegs(ctx context.Context) ([]int64, error) {
	return tx.ids(ctx, `
	SELECT t.id FROM transactions t
	WHERE t.type = ?
	  AND NOT EXISTS (
	    SELECT 1 FROM transfers r
	    WHERE r.transaction_from = t.id OR r.transaction_to = t.id OR r.transaction_tax = t.id)
	ORDER BY t.id`, schema.TransactionTransfer)
}

// Reset deletes every user row. Currencies and system categories stay.
func (tx *Tx) Reset(ctx context.Context) error {
	if err := tx.writable(); err != nil {
		return err
	}
	for _, k := range schema.Kinds() {
		var err error
		switch k {
		case schema.KindCurrency:
			continue
		case schema.KindCategory:
			_, err = tx.tx.ExecContext(ctx, "DELETE FROM categories WHERE type != ?", schema.CategorySystem)
		default:
			_, err = tx.tx.ExecContext(ctx, "DELETE FROM "+k.String())
		}
		if err != nil {
			return fmt.Errorf("reset %s: %w", k, err)
		}
	}
	tx.e.log.Info("store reset")
	return nil
}

// Balance is the wallet start money plus confirmed incomes minus confirmed
// expenses.
func (tx *Tx) Balance(ctx context.Context, wallet int64) (int64, error) {
	w, err := tx.Get(ctx, schema.KindWallet, wallet)
	if err != nil {
		return 0, err
	}
	start, _ := w.Int("start_money")
	var sum int64
	err = tx.tx.QueryRowContext(ctx, `
	SELECT COALESCE(SUM(CASE direction WHEN ? THEN money ELSE -money END), 0)
	FROM transactions WHERE wallet = ? AND confirmed = 1`, schema.DirectionIncome, wallet).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("balance of wallet %d: %w", wallet, err)
	}
	return start + sum, nil
}
