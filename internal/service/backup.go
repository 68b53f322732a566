package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AndreAle94/moneywallet-sub005/internal/backup"
	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
)

const (
	backupPrefix = "moneywallet-"
	backupExt    = ".json"
	// millisecond precision keeps names unique and sortable by age
	backupStamp = "20060102-150405.000"
)

// BackupService writes snapshot files into a directory and restores them.
type BackupService struct {
	Engine *integrity.Engine
	Dir    string
	// Keep is the number of files left after a new backup. Zero keeps all.
	Keep int
	Log  *slog.Logger
	Now  func() time.Time
}

// BackupFile describes one file in the backup directory.
type BackupFile struct {
	Path    string       `json:"path" yaml:"path"`
	Size    int64        `json:"size" yaml:"size"`
	Created time.Time    `json:"created" yaml:"created"`
	Stats   backup.Stats `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func (s *BackupService) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *BackupService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create exports the store into a new file. The document is written to a
// temporary file first and renamed into place once complete, so a failed
// backup never leaves a truncated file behind.
func (s *BackupService) Create(ctx context.Context) (BackupFile, error) {
	if s.Engine == nil {
		return BackupFile{}, fmt.Errorf("backup: engine not configured")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return BackupFile{}, fmt.Errorf("mkdir backup dir: %w", err)
	}
	created := s.now()
	path := filepath.Join(s.Dir, backupPrefix+created.Format(backupStamp)+backupExt)

	tmp, err := os.CreateTemp(s.Dir, ".moneywallet-*.tmp")
	if err != nil {
		return BackupFile{}, fmt.Errorf("create temp backup: %w", err)
	}
	stats, err := backup.Export(ctx, s.Engine, tmp, backup.WithLogger(s.log()))
	if err != nil {
		_ = os.Remove(tmp.Name())
		return BackupFile{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return BackupFile{}, fmt.Errorf("rename backup: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return BackupFile{}, err
	}
	s.log().Info("backup created", "path", path, "records", stats.Total())

	if err := s.prune(); err != nil {
		return BackupFile{}, err
	}
	return BackupFile{Path: path, Size: info.Size(), Created: created, Stats: stats}, nil
}

// List returns the backup files, oldest first.
func (s *BackupService) List() ([]BackupFile, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}
	var out []BackupFile
	for _, ent := range entries {
		name := ent.Name()
		if ent.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExt) {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			return nil, err
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupExt)
		created, err := time.Parse(backupStamp, stamp)
		if err != nil {
			continue
		}
		out = append(out, BackupFile{Path: filepath.Join(s.Dir, name), Size: info.Size(), Created: created})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Created.Before(out[j].Created) })
	return out, nil
}

func (s *BackupService) prune() error {
	if s.Keep <= 0 {
		return nil
	}
	files, err := s.List()
	if err != nil {
		return err
	}
	for len(files) > s.Keep {
		if err := os.Remove(files[0].Path); err != nil {
			return fmt.Errorf("prune backup: %w", err)
		}
		s.log().Debug("backup pruned", "path", files[0].Path)
		files = files[1:]
	}
	return nil
}

// Restore imports the file at path. With replace the current user data is
// wiped inside the same unit of work.
func (s *BackupService) Restore(ctx context.Context, path string, replace bool) (backup.Stats, error) {
	if s.Engine == nil {
		return backup.Stats{}, fmt.Errorf("backup: engine not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return backup.Stats{}, fmt.Errorf("open backup: %w", err)
	}
	opts := []backup.Option{backup.WithLogger(s.log())}
	if replace {
		opts = append(opts, backup.WithReplace())
	}
	stats, err := backup.Import(ctx, s.Engine, f, opts...)
	if err != nil {
		return stats, err
	}
	s.log().Info("backup restored", "path", path, "records", stats.Total(), "replace", replace)
	return stats, nil
}
