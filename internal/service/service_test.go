package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AndreAle94/moneywallet-sub005/internal/database"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
	"github.com/AndreAle94/moneywallet-sub005/internal/testdata"
)

func openEngine(t *testing.T, ctx context.Context) *integrity.Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))
	return integrity.New(db)
}

func countRows(t *testing.T, ctx context.Context, e *integrity.Engine, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestBackupCreateAndPrune(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e := openEngine(t, ctx)
	_, err := testdata.Seed(ctx, e, 1)
	require.NoError(t, err)

	clock := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	svc := &BackupService{
		Engine: e,
		Dir:    filepath.Join(t.TempDir(), "backups"),
		Keep:   2,
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	}
	var created []BackupFile
	for i := 0; i < 3; i++ {
		f, err := svc.Create(ctx)
		require.NoError(t, err)
		require.Positive(t, f.Size)
		require.Positive(t, f.Stats.Total())
		created = append(created, f)
	}
	t.Log("backups written")

	files, err := svc.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, created[1].Path, files[0].Path)
	require.Equal(t, created[2].Path, files[1].Path)
	require.Equal(t, "moneywallet-20240701-120300.000.json", filepath.Base(files[1].Path))

	_, err = os.Stat(created[0].Path)
	require.True(t, os.IsNotExist(err))

	leftovers, err := filepath.Glob(filepath.Join(svc.Dir, "*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestBackupRestore(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	src := openEngine(t, ctx)
	_, err := testdata.Seed(ctx, src, 2)
	require.NoError(t, err)
	dir := t.TempDir()
	f, err := (&BackupService{Engine: src, Dir: dir}).Create(ctx)
	require.NoError(t, err)

	dst := openEngine(t, ctx)
	_, err = dst.Insert(ctx, schema.KindPerson, integrity.Fields{"name": "Stray"})
	require.NoError(t, err)
	svc := &BackupService{Engine: dst, Dir: dir}

	stats, err := svc.Restore(ctx, f.Path, true)
	require.NoError(t, err)
	require.Equal(t, f.Stats.Total(), stats.Total())
	for _, table := range []string{"wallets", "transactions", "transfers", "people", "budgets"} {
		require.Equal(t, countRows(t, ctx, src, table), countRows(t, ctx, dst, table), table)
	}

	_, err = svc.Restore(ctx, filepath.Join(dir, "missing.json"), false)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e := openEngine(t, ctx)
	_, err := testdata.Seed(ctx, e, 3)
	require.NoError(t, err)
	currencies := countRows(t, ctx, e, "currencies")

	require.NoError(t, (&MaintenanceService{Engine: e}).Reset(ctx))
	require.Zero(t, countRows(t, ctx, e, "wallets"))
	require.Zero(t, countRows(t, ctx, e, "transactions"))
	require.Equal(t, currencies, countRows(t, ctx, e, "currencies"))
	require.Equal(t, len(schema.SystemCategories()), countRows(t, ctx, e, "categories"))

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
