package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/AndreAle94/moneywallet-sub005/internal/identity"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
	"github.com/AndreAle94/moneywallet-sub005/internal/snapshot"
)

// Export writes the whole store to w inside one read view. When w is an
// io.Closer it is closed before Export returns.
func Export(ctx context.Context, e *integrity.Engine, w io.Writer, opts ...Option) (Stats, error) {
	o := buildOptions(opts)
	m := newMachine(w)
	stats := Stats{Version: o.version}
	if err := snapshot.CheckVersion(o.version); err != nil {
		_ = m.close()
		return stats, err
	}

	sw := snapshot.NewWriter(w)
	ids := identity.New()
	err := e.View(ctx, func(tx *integrity.Tx) error {
		if err := sw.BeginDocument(); err != nil {
			return err
		}
		if err := sw.WriteName(snapshot.HeaderName); err != nil {
			return err
		}
		if err := sw.WriteHeader(snapshot.Header{Version: o.version}); err != nil {
			return err
		}
		for _, sec := range sections {
			if _, err := m.advance(); err != nil {
				return err
			}
			if o.version < sec.MinVersion {
				continue
			}
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("export %s: %w", sec.Name, err)
			}
			if err := sw.WriteName(sec.Name); err != nil {
				return err
			}
			if err := sw.BeginArray(); err != nil {
				return err
			}
			n, err := exportSection(ctx, tx, sw, ids, sec)
			if err != nil {
				return fmt.Errorf("export %s: %w", sec.Name, err)
			}
			if err := sw.EndArray(); err != nil {
				return err
			}
			stats.Sections = append(stats.Sections, SectionStats{Name: sec.Name, Records: n})
			o.log.Info("snapshot section exported", "section", sec.Name, "records", n)
		}
		o.log.Debug("snapshot identities mapped", "count", ids.Len())
		return sw.EndDocument()
	})
	if cerr := m.close(); err == nil && cerr != nil {
		err = &snapshot.IOError{Op: "close", Err: cerr}
	}
	return stats, err
}

func exportSection(ctx context.Context, tx *integrity.Tx, sw *snapshot.Writer, ids *identity.Mapper, sec Section) (int, error) {
	if sec.Link != nil {
		return exportLinks(ctx, tx, sw, ids, *sec.Link)
	}
	ent := schema.MustLookup(sec.Kind)
	q := integrity.Query{}
	if sec.Kind == schema.KindCategory {
		// Roots (NULL parent) sort first, so a parent always precedes its
		// children.
		q.OrderBy = []string{"parent", schema.ColID}
	}
	n := 0
	err := tx.Each(ctx, sec.Kind, q, func(row integrity.Row) error {
		rec, err := exportRecord(ent, row, ids)
		if err != nil {
			return err
		}
		ids.PutUUID(sec.Kind, row.ID(), row.UUID())
		n++
		return sw.WriteRecord(rec)
	})
	return n, err
}

func exportRecord(ent *schema.Entity, row integrity.Row, ids *identity.Mapper) (snapshot.Record, error) {
	rec := snapshot.Record{
		schema.ColLastEdit: row[schema.ColLastEdit],
		schema.ColDeleted:  row[schema.ColDeleted],
	}
	if ent.Key == schema.ColID {
		rec[schema.ColID] = row.UUID()
	}
	for _, f := range ent.Stored() {
		v := row[f.Name]
		if v == nil || f.Type == schema.TypeMultiRef {
			continue
		}
		if f.Type == schema.TypeRef && f.Ref != schema.KindCurrency {
			id, _ := v.(int64)
			u, ok := ids.UUID(f.Ref, id)
			if !ok {
				return nil, fmt.Errorf("%s %d: %s points at %s %d which was not exported", ent.Kind, row.ID(), f.Name, f.Ref, id)
			}
			v = u
		}
		rec[f.SnapshotName()] = v
	}
	return rec, nil
}

// exportLinks writes one record per member of the owner's reference list.
func exportLinks(ctx context.Context, tx *integrity.Tx, sw *snapshot.Writer, ids *identity.Mapper, l schema.Link) (int, error) {
	n := 0
	q := integrity.Query{Fields: []string{schema.ColID, schema.ColLastEdit, l.Field}}
	err := tx.Each(ctx, l.Owner, q, func(row integrity.Row) error {
		list := row.String(l.Field)
		if list == "" {
			return nil
		}
		members, err := refs.Decode(list)
		if err != nil {
			return fmt.Errorf("%s %d: %w", l.Owner, row.ID(), err)
		}
		owner, ok := ids.UUID(l.Owner, row.ID())
		if !ok {
			return fmt.Errorf("%s %d was not exported", l.Owner, row.ID())
		}
		for _, id := range members {
			member, ok := ids.UUID(l.Member, id)
			if !ok {
				return fmt.Errorf("%s %d: member %s %d was not exported", l.Owner, row.ID(), l.Member, id)
			}
			if err := sw.WriteRecord(snapshot.Record{
				schema.ColID:       l.LinkID(owner, member),
				l.OwnerKey:         owner,
				l.MemberKey:        member,
				schema.ColLastEdit: row[schema.ColLastEdit],
				schema.ColDeleted:  false,
			}); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
