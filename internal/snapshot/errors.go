package snapshot

import (
	"errors"
	"fmt"
)

// FormatError reports a document that does not follow the snapshot layout:
// bad syntax, an unexpected array name, a nested value or a record the
// store refuses.
type FormatError struct {
	Section string
	// Record is the 1-based position of the offending record, 0 when the
	// error is not about a record.
	Record int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := "snapshot format"
	if e.Section != "" {
		msg += ": " + e.Section
	}
	if e.Record > 0 {
		msg += fmt.Sprintf(" record %d", e.Record)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// VersionError reports a header version outside [VersionMin, VersionMax].
type VersionError struct {
	Version int
}

// TooNew reports whether the document comes from a newer release.
func (e *VersionError) TooNew() bool { return e.Version > VersionMax }

func (e *VersionError) Error() string {
	if e.TooNew() {
		return fmt.Sprintf("snapshot version %d is too new (max %d)", e.Version, VersionMax)
	}
	return fmt.Sprintf("snapshot version %d is too old and no longer restorable (min %d)", e.Version, VersionMin)
}

// IOError wraps a failure of the underlying stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return "snapshot " + e.Op + ": " + e.Err.Error() }

func (e *IOError) Unwrap() error { return e.Err }

// IsFormat reports whether err is, or wraps, a FormatError.
func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsVersion reports whether err is, or wraps, a VersionError.
func IsVersion(err error) bool {
	var ve *VersionError
	return errors.As(err, &ve)
}

// IsIO reports whether err is, or wraps, an IOError.
func IsIO(err error) bool {
	var ie *IOError
	return errors.As(err, &ie)
}

// CheckVersion returns a VersionError when v cannot be restored.
func CheckVersion(v int) error {
	if v < VersionMin || v > VersionMax {
		return &VersionError{Version: v}
	}
	return nil
}
