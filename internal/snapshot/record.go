// Package snapshot reads and writes the portable backup document: one JSON
// object holding a header and one named array of flat records per entity
// kind or link table. Both directions stream, holding a single record in
// memory at a time.
package snapshot

import (
	"encoding/json"
	"fmt"
)

// Format versions. Currencies are part of the document from version 2.
const (
	VersionMin = 1
	VersionMax = 2
	Version    = VersionMax
)

// HeaderName is the name of the first member of every document.
const HeaderName = "header"

// Header is the first member of the document.
type Header struct {
	Version int
}

// Record is one flat object of an array. Values read from a document are
// string, json.Number or bool; absent and null members are not present.
type Record map[string]any

// Str returns a text member.
func (r Record) Str(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// Bool returns a boolean member. Numbers 0 and 1 are accepted as well.
func (r Record) Bool(key string) (bool, bool) {
	switch v := r[key].(type) {
	case bool:
		return v, true
	case json.Number:
		switch v.String() {
		case "0":
			return false, true
		case "1":
			return true, true
		}
	}
	return false, false
}

// Int returns an integer member. ok is false when the member is absent;
// err is set when it is present but not an integer.
func (r Record) Int(key string) (n int64, ok bool, err error) {
	v, present := r[key]
	if !present {
		return 0, false, nil
	}
	switch x := v.(type) {
	case json.Number:
		n, err = x.Int64()
	case int64:
		n = x
	case int:
		n = int64(x)
	default:
		err = fmt.Errorf("member %q: want integer, got %T", key, v)
	}
	return n, err == nil, err
}
