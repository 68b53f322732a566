package repository

import (
	"context"
	"database/sql"
)

// CategoryRepo reads categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, uuid, parent, name, icon, type, tag, show_report, position
	FROM categories ORDER BY position, name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UUID, &c.ParentID, &c.Name, &c.Icon, &c.Type, &c.Tag, &c.ShowReport, &c.Position); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Tree returns the root categories with their children attached. The store
// allows a single level of nesting.
func (r *CategoryRepo) Tree(ctx context.Context) ([]Category, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	children := map[int64][]Category{}
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}
	var roots []Category
	for _, c := range all {
		if c.ParentID == nil {
			c.Children = children[c.ID]
			roots = append(roots, c)
		}
	}
	return roots, nil
}
