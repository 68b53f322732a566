package backup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AndreAle94/moneywallet-sub005/internal/currency"
	"github.com/AndreAle94/moneywallet-sub005/internal/identity"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
	"github.com/AndreAle94/moneywallet-sub005/internal/snapshot"
)

// errSkip marks a record left out of the store because it, or a row it
// cannot live without, was deleted in the snapshot.
var errSkip = errors.New("record skipped")

// Import restores a document read from r. The whole document is applied in
// one restore unit: any error, cancellation included, leaves the store as
// it was. When r is an io.Closer it is closed before Import returns.
func Import(ctx context.Context, e *integrity.Engine, r io.Reader, opts ...Option) (Stats, error) {
	o := buildOptions(opts)
	m := newMachine(r)
	var stats Stats
	err := e.Restore(ctx, func(tx *integrity.Tx) error {
		imp := &importer{tx: tx, ids: identity.New(), opts: o}
		var err error
		stats, err = imp.run(ctx, snapshot.NewReader(r), m)
		return err
	})
	if cerr := m.close(); err == nil && cerr != nil {
		err = &snapshot.IOError{Op: "close", Err: cerr}
	}
	return stats, err
}

type importer struct {
	tx      *integrity.Tx
	ids     *identity.Mapper
	opts    options
	version int
}

func (imp *importer) run(ctx context.Context, sr *snapshot.Reader, m *machine) (Stats, error) {
	var stats Stats
	if imp.opts.replace {
		if err := imp.tx.Reset(ctx); err != nil {
			return stats, err
		}
	}
	if err := sr.BeginDocument(); err != nil {
		return stats, err
	}
	name, err := sr.NextName()
	if err != nil {
		return stats, err
	}
	if name != snapshot.HeaderName {
		return stats, &snapshot.FormatError{Reason: fmt.Sprintf("expected %q, found %q", snapshot.HeaderName, name)}
	}
	h, err := sr.ReadHeader()
	if err != nil {
		return stats, err
	}
	if err := snapshot.CheckVersion(h.Version); err != nil {
		return stats, err
	}
	imp.version = h.Version
	stats.Version = h.Version

	for _, sec := range sections {
		if _, err := m.advance(); err != nil {
			return stats, err
		}
		if imp.version < sec.MinVersion {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("import %s: %w", sec.Name, err)
		}
		name, err := sr.NextName()
		if err != nil {
			return stats, err
		}
		if name != sec.Name {
			return stats, &snapshot.FormatError{Section: sec.Name, Reason: fmt.Sprintf("expected array %q, found %q", sec.Name, name)}
		}
		st, err := imp.section(ctx, sr, sec)
		if err != nil {
			return stats, err
		}
		stats.Sections = append(stats.Sections, st)
		imp.opts.log.Info("snapshot section imported", "section", sec.Name, "records", st.Records, "skipped", st.Skipped)

		if sec.Link != nil && sec.Link.Owner == schema.KindBudget {
			if err := imp.checkBudgets(ctx); err != nil {
				return stats, err
			}
		}
	}
	if err := sr.EndDocument(); err != nil {
		return stats, err
	}
	imp.opts.log.Debug("snapshot identities mapped", "count", imp.ids.Len())

	orphans, err := imp.tx.OrphanLegs(ctx)
	if err != nil {
		return stats, err
	}
	if len(orphans) > 0 {
		return stats, &snapshot.FormatError{
			Section: schema.KindTransaction.String(),
			Reason:  fmt.Sprintf("%d transfer legs belong to no transfer", len(orphans)),
		}
	}
	return stats, nil
}

func (imp *importer) section(ctx context.Context, sr *snapshot.Reader, sec Section) (SectionStats, error) {
	st := SectionStats{Name: sec.Name}
	if err := sr.BeginArray(); err != nil {
		return st, err
	}
	for i := 1; sr.More(); i++ {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("import %s: %w", sec.Name, err)
		}
		rec, err := sr.ReadRecord()
		if err != nil {
			return st, err
		}
		if sec.Link != nil {
			err = imp.link(ctx, *sec.Link, rec)
		} else {
			err = imp.record(ctx, sec.Kind, rec)
		}
		switch {
		case errors.Is(err, errSkip):
			st.Skipped++
		case err != nil:
			var fe *snapshot.FormatError
			if errors.As(err, &fe) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return st, err
			}
			return st, &snapshot.FormatError{Section: sec.Name, Record: i, Reason: "record rejected", Err: err}
		default:
			st.Records++
		}
	}
	return st, sr.EndArray()
}

func (imp *importer) formatErr(k schema.Kind, format string, args ...any) error {
	return &snapshot.FormatError{Section: k.String(), Reason: fmt.Sprintf(format, args...)}
}

// record restores one entity row.
func (imp *importer) record(ctx context.Context, k schema.Kind, rec snapshot.Record) error {
	ent := schema.MustLookup(k)
	if k == schema.KindCurrency {
		return imp.currency(ctx, rec)
	}
	uuid, ok := rec.Str(schema.ColID)
	if !ok || uuid == "" {
		return imp.formatErr(k, "record without id")
	}
	if deleted, _ := rec.Bool(schema.ColDeleted); deleted {
		imp.ids.Tombstone(k, uuid)
		return errSkip
	}

	f := integrity.Fields{schema.ColUUID: uuid}
	if edit, ok, err := rec.Int(schema.ColLastEdit); err != nil {
		return imp.formatErr(k, "%s: %v", uuid, err)
	} else if ok {
		f[schema.ColLastEdit] = edit
	}
	for _, fld := range ent.Stored() {
		v, present := rec[fld.SnapshotName()]
		if !present || fld.Type == schema.TypeMultiRef {
			continue
		}
		if fld.Type != schema.TypeRef || fld.Ref == schema.KindCurrency {
			f[fld.Name] = v
			continue
		}
		target, ok := v.(string)
		if !ok {
			return imp.formatErr(k, "%s: %s is not an identifier", uuid, fld.Name)
		}
		id, ok := imp.ids.Local(fld.Ref, target)
		switch {
		case ok:
			f[fld.Name] = id
		case imp.ids.Tombstoned(fld.Ref, target) && fld.Required:
			imp.ids.Tombstone(k, uuid)
			return errSkip
		case imp.ids.Tombstoned(fld.Ref, target):
		default:
			return imp.formatErr(k, "%s: %s references unknown %s %s", uuid, fld.Name, fld.Ref, target)
		}
	}

	switch k {
	case schema.KindCategory:
		if matched, err := imp.systemCategory(ctx, rec, uuid, f); matched || err != nil {
			return err
		}
	case schema.KindWallet:
		if err := imp.walletCurrency(ctx, f); err != nil {
			return err
		}
	}

	id, err := imp.tx.Insert(ctx, k, f)
	if err != nil {
		return err
	}
	imp.ids.PutLocal(k, uuid, id)
	return nil
}

// currency upserts a currency by ISO code.
func (imp *importer) currency(ctx context.Context, rec snapshot.Record) error {
	const k = schema.KindCurrency
	iso, ok := rec.Str("iso")
	if !ok || iso == "" {
		return imp.formatErr(k, "record without iso")
	}
	if deleted, _ := rec.Bool(schema.ColDeleted); deleted {
		return errSkip
	}
	f := integrity.Fields{"iso": iso}
	for _, name := range []string{"name", "symbol", "decimals", "favourite", schema.ColLastEdit} {
		if v, ok := rec[name]; ok {
			f[name] = v
		}
	}
	id, found, err := imp.tx.FindBy(ctx, k, "iso", iso)
	if err != nil {
		return err
	}
	if found {
		_, err = imp.tx.Update(ctx, k, id, f)
		return err
	}
	_, err = imp.tx.Insert(ctx, k, f)
	return err
}

// walletCurrency creates the currency of a wallet restored from a document
// that predates the currencies array.
func (imp *importer) walletCurrency(ctx context.Context, f integrity.Fields) error {
	iso, _ := f["currency"].(string)
	if iso == "" || imp.version >= 2 {
		return nil
	}
	info, err := currency.Lookup(iso)
	if err != nil {
		return imp.formatErr(schema.KindWallet, "currency %q: %v", iso, err)
	}
	if _, found, err := imp.tx.FindBy(ctx, schema.KindCurrency, "iso", info.ISO); err != nil || found {
		return err
	}
	_, err = imp.tx.Insert(ctx, schema.KindCurrency, integrity.Fields{
		"iso": info.ISO, "name": info.Name, "symbol": info.Symbol, "decimals": info.Decimals,
	})
	return err
}

// systemCategory maps a system category of the document onto the one
// seeded in the store, matching by uuid and then by tag. matched is false
// when the record is an ordinary category or no seeded one exists.
func (imp *importer) systemCategory(ctx context.Context, rec snapshot.Record, uuid string, f integrity.Fields) (matched bool, err error) {
	if typ, _, _ := rec.Int("type"); typ != schema.CategorySystem {
		return false, nil
	}
	id, found, err := imp.tx.FindByUUID(ctx, schema.KindCategory, uuid)
	if err != nil {
		return false, err
	}
	if !found {
		tag, _ := f["tag"].(string)
		rows, err := imp.tx.Query(ctx, schema.KindCategory, integrity.Query{
			Fields: []string{schema.ColID},
			Where:  map[string]any{"tag": tag, "type": schema.CategorySystem},
			Limit:  1,
		})
		if err != nil || len(rows) == 0 {
			return false, err
		}
		id = rows[0].ID()
	}
	upd := integrity.Fields{}
	for _, name := range []string{"name", "icon", "show_report", "position", schema.ColLastEdit} {
		if v, ok := f[name]; ok {
			upd[name] = v
		}
	}
	if _, err := imp.tx.Update(ctx, schema.KindCategory, id, upd); err != nil {
		return false, err
	}
	imp.ids.PutLocal(schema.KindCategory, uuid, id)
	return true, nil
}

// link adds one member to the owner's reference list.
func (imp *importer) link(ctx context.Context, l schema.Link, rec snapshot.Record) error {
	if deleted, _ := rec.Bool(schema.ColDeleted); deleted {
		return errSkip
	}
	ownerUUID, ok1 := rec.Str(l.OwnerKey)
	memberUUID, ok2 := rec.Str(l.MemberKey)
	if !ok1 || !ok2 {
		return &snapshot.FormatError{Section: l.Name, Reason: fmt.Sprintf("record without %s or %s", l.OwnerKey, l.MemberKey)}
	}
	owner, ok := imp.ids.Local(l.Owner, ownerUUID)
	if !ok {
		if imp.ids.Tombstoned(l.Owner, ownerUUID) {
			return errSkip
		}
		return &snapshot.FormatError{Section: l.Name, Reason: fmt.Sprintf("unknown %s %s", l.Owner, ownerUUID)}
	}
	member, ok := imp.ids.Local(l.Member, memberUUID)
	if !ok {
		if imp.ids.Tombstoned(l.Member, memberUUID) {
			return errSkip
		}
		return &snapshot.FormatError{Section: l.Name, Reason: fmt.Sprintf("unknown %s %s", l.Member, memberUUID)}
	}
	return imp.tx.Link(ctx, l.Owner, owner, l.Field, member)
}

// checkBudgets validates the restored budgets once their wallets are linked.
func (imp *importer) checkBudgets(ctx context.Context) error {
	for _, id := range imp.ids.Locals(schema.KindBudget) {
		if err := imp.tx.Check(ctx, schema.KindBudget, id); err != nil {
			return &snapshot.FormatError{Section: "budget_wallets", Reason: "budget left invalid", Err: err}
		}
	}
	return nil
}
