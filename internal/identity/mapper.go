// Package identity maps portable UUIDs to store-local row ids for the
// duration of one snapshot import or export.
package identity

import "github.com/AndreAle94/moneywallet-sub005/internal/schema"

// Mapper holds the caches of a single import or export run. It is not safe
// for concurrent use; each run creates its own.
type Mapper struct {
	local      map[schema.Kind]map[string]int64
	portable   map[schema.Kind]map[int64]string
	tombstones map[schema.Kind]map[string]struct{}
}

// New returns an empty mapper.
func New() *Mapper {
	return &Mapper{
		local:      make(map[schema.Kind]map[string]int64),
		portable:   make(map[schema.Kind]map[int64]string),
		tombstones: make(map[schema.Kind]map[string]struct{}),
	}
}

// PutLocal records the local id assigned to an imported row.
func (m *Mapper) PutLocal(k schema.Kind, uuid string, id int64) {
	byUUID, ok := m.local[k]
	if !ok {
		byUUID = make(map[string]int64)
		m.local[k] = byUUID
	}
	byUUID[uuid] = id
}

// Local resolves an imported UUID. ok is false when the row has not been
// seen yet in this run.
func (m *Mapper) Local(k schema.Kind, uuid string) (id int64, ok bool) {
	id, ok = m.local[k][uuid]
	return id, ok
}

// Locals returns the ids imported for k, in no particular order.
func (m *Mapper) Locals(k schema.Kind) []int64 {
	out := make([]int64, 0, len(m.local[k]))
	for _, id := range m.local[k] {
		out = append(out, id)
	}
	return out
}

// PutUUID records the portable id of an exported row.
func (m *Mapper) PutUUID(k schema.Kind, id int64, uuid string) {
	byID, ok := m.portable[k]
	if !ok {
		byID = make(map[int64]string)
		m.portable[k] = byID
	}
	byID[id] = uuid
}

// UUID resolves an exported row id. ok is false when the row has not been
// written yet in this run.
func (m *Mapper) UUID(k schema.Kind, id int64) (uuid string, ok bool) {
	uuid, ok = m.portable[k][id]
	return uuid, ok
}

// Tombstone marks a UUID whose record was flagged deleted in the snapshot.
// References to it are dropped instead of failing.
func (m *Mapper) Tombstone(k schema.Kind, uuid string) {
	set, ok := m.tombstones[k]
	if !ok {
		set = make(map[string]struct{})
		m.tombstones[k] = set
	}
	set[uuid] = struct{}{}
}

// Tombstoned reports whether uuid was marked with Tombstone.
func (m *Mapper) Tombstoned(k schema.Kind, uuid string) bool {
	_, ok := m.tombstones[k][uuid]
	return ok
}

// Len returns the number of rows cached in both directions.
func (m *Mapper) Len() int {
	n := 0
	for _, byUUID := range m.local {
		n += len(byUUID)
	}
	for _, byID := range m.portable {
		n += len(byID)
	}
	return n
}
