package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/AndreAle94/moneywallet-sub005/internal/currency"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// SeedDefaults ensures the currency catalog and the system categories exist.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		now := Now().UnixMilli()
		for _, c := range currency.Catalog() {
			id := CurrencyUUID(c.ISO)
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO currencies(uuid, last_edit, iso, name, symbol, decimals, favourite)
			VALUES (?, ?, ?, ?, ?, ?, 0)
			ON CONFLICT(iso) DO NOTHING;
			`, id, now, c.ISO, c.Name, c.Symbol, c.Decimals); err != nil {
				return fmt.Errorf("seed currency %s: %w", c.ISO, err)
			}
		}
		for idx, c := range schema.SystemCategories() {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories(uuid, last_edit, name, icon, type, show_report, tag, position)
			VALUES (?, ?, ?, ?, ?, 0, ?, ?)
			ON CONFLICT(uuid) DO NOTHING;
			`, c.UUID(), now, c.Name, c.Icon, schema.CategorySystem, c.Tag, idx); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Tag, err)
			}
		}
		return nil
	})
}

// CurrencyUUID is the portable identifier given to a seeded or imported
// currency row.
func CurrencyUUID(iso string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("currency:"+iso)).String()
}
