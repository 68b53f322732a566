package integrity

import (
	"context"
	"fmt"

	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// deleteRow removes cur and walks the delete rules of its kind. Restrict
// rules are evaluated before anything is written.
func (tx *Tx) deleteRow(ctx context.Context, ent *schema.Entity, cur record) error {
	id, _ := cur.int(schema.ColID)
	key := cur[ent.Key]
	rules := schema.DeleteRules(ent.Kind)

	for _, r := range rules {
		if r.Action != schema.Restrict {
			continue
		}
		dep := schema.MustLookup(r.Dependent)
		stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", dep.Name(), quote(r.Field))
		args := []any{key}
		if r.When != nil {
			stmt += fmt.Sprintf(" AND %s = ?", quote(r.When.Field))
			args = append(args, r.When.Value)
		}
		n, err := tx.count(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("check %s.%s: %w", r.Dependent, r.Field, err)
		}
		if n > 0 {
			return &ConstraintError{Kind: ent.Kind, ID: id, Dependent: r.Dependent, Field: r.Field, Count: n}
		}
	}

	if _, err := tx.tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", ent.Name()), id); err != nil {
		return fmt.Errorf("delete %s %d: %w", ent.Kind, id, err)
	}

	for _, r := range rules {
		dep := schema.MustLookup(r.Dependent)
		var (
			n   int
			err error
		)
		switch r.Action {
		case schema.Cascade:
			n, err = tx.cascade(ctx, dep, r.Field, key)
		case schema.Nullify:
			n, err = tx.nullify(ctx, dep, r.Field, key)
		case schema.Detach:
			n, err = tx.detach(ctx, dep, r.Field, id)
		case schema.CascadeOwned:
			if owned, ok := cur.int(r.Field); ok {
				n, err = tx.cascadeOne(ctx, dep, owned)
			}
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%s %s.%s after deleting %s %d: %w", r.Action, r.Dependent, r.Field, ent.Kind, id, err)
		}
		if n > 0 {
			tx.e.log.Debug("delete rule applied",
				"kind", ent.Kind.String(), "id", id,
				"dependent", r.Dependent.String(), "field", r.Field,
				"action", r.Action.String(), "rows", n)
		}
	}
	return nil
}

func (tx *Tx) cascade(ctx context.Context, dep *schema.Entity, field string, key any) (int, error) {
	ids, err := tx.ids(ctx, fmt.Sprintf("SELECT id FROM %s WHERE %s = ? ORDER BY id", dep.Name(), quote(field)), key)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		// An earlier cascade in the same delete may already have removed it.
		m, err := tx.cascadeOne(ctx, dep, id)
		if err != nil {
			return n, err
		}
		n += m
	}
	return n, nil
}

func (tx *Tx) cascadeOne(ctx context.Context, dep *schema.Entity, id int64) (int, error) {
	row, err := tx.Get(ctx, dep.Kind, id)
	if IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := tx.deleteRow(ctx, dep, recordFromRow(row)); err != nil {
		return 0, err
	}
	return 1, nil
}

func (tx *Tx) nullify(ctx context.Context, dep *schema.Entity, field string, key any) (int, error) {
	res, err := tx.tx.ExecContext(ctx,
		fmt.Sprintf("UPDATE %[1]s SET %[2]s = NULL, last_edit = ? WHERE %[2]s = ?", dep.Name(), quote(field)),
		tx.now(), key)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// detach removes id from the reference list column field of every row of
// dep. A list left empty is stored as NULL.
func (tx *Tx) detach(ctx context.Context, dep *schema.Entity, field string, id int64) (int, error) {
	type hit struct {
		id   int64
		list string
	}
	rows, err := tx.tx.QueryContext(ctx,
		fmt.Sprintf("SELECT id, %[2]s FROM %[1]s WHERE instr(%[2]s, ?) > 0", dep.Name(), quote(field)), refs.Token(id))
	if err != nil {
		return 0, err
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.list); err != nil {
			rows.Close()
			return 0, err
		}
		hits = append(hits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, h := range hits {
		ids, err := refs.Decode(h.list)
		if err != nil {
			return 0, fmt.Errorf("%s %d: %w", dep.Kind, h.id, err)
		}
		if _, err := tx.setColumns(ctx, dep, h.id, record{
			field:              refs.Encode(refs.Remove(ids, id)),
			schema.ColLastEdit: tx.now(),
		}); err != nil {
			return 0, err
		}
	}
	return len(hits), nil
}
