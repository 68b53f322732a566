package backup

import (
	"log/slog"

	"github.com/AndreAle94/moneywallet-sub005/internal/snapshot"
)

type options struct {
	replace bool
	version int
	log     *slog.Logger
}

// Option configures Export and Import.
type Option func(*options)

// WithReplace makes Import wipe the user data of the store first, inside
// the same unit of work.
func WithReplace() Option {
	return func(o *options) { o.replace = true }
}

// WithVersion makes Export write an older format version.
func WithVersion(v int) Option {
	return func(o *options) { o.version = v }
}

// WithLogger sets the logger that receives per-section progress.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		version: snapshot.Version,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SectionStats counts the records of one array.
type SectionStats struct {
	Name    string `json:"name" yaml:"name"`
	Records int    `json:"records" yaml:"records"`
	// Skipped counts tombstoned records and records that only pointed at
	// tombstoned rows.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Stats summarizes one import or export.
type Stats struct {
	Version  int            `json:"version" yaml:"version"`
	Sections []SectionStats `json:"sections" yaml:"sections"`
}

// Records returns the number of records written or restored for section.
func (s Stats) Records(section string) int {
	for _, sec := range s.Sections {
		if sec.Name == section {
			return sec.Records
		}
	}
	return 0
}

// Total sums the records of every section.
func (s Stats) Total() int {
	n := 0
	for _, sec := range s.Sections {
		n += sec.Records
	}
	return n
}
