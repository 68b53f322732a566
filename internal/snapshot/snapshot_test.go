package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleArrays() []struct {
	name    string
	records []Record
} {
	return []struct {
		name    string
		records []Record
	}{
		{"currencies", []Record{
			{"iso": "EUR", "name": "Euro", "symbol": "€", "decimals": int64(2), "favourite": true, "last_edit": int64(1700000000000), "deleted": false},
			{"iso": "JPY", "name": "Yen", "symbol": "¥", "decimals": int64(0), "favourite": false, "last_edit": int64(1700000000001), "deleted": false},
		}},
		{"wallets", []Record{
			{"id": "w-1", "name": "Cash <home> & co", "currency": "EUR", "start_money": int64(2000), "count_in_total": true, "index": int64(0), "last_edit": int64(1700000000002)},
		}},
		{"people", nil},
	}
}

func writeSample(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.BeginDocument())
	require.NoError(t, w.WriteName(HeaderName))
	require.NoError(t, w.WriteHeader(Header{Version: Version}))
	for _, a := range sampleArrays() {
		require.NoError(t, w.WriteName(a.name))
		require.NoError(t, w.BeginArray())
		for _, rec := range a.records {
			require.NoError(t, w.WriteRecord(rec))
		}
		require.NoError(t, w.EndArray())
	}
	require.NoError(t, w.EndDocument())
	return buf.Bytes()
}

func TestWriterLayout(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "document", writeSample(t))
}

func TestReaderWalksDocument(t *testing.T) {
	r := NewReader(bytes.NewReader(writeSample(t)))
	require.NoError(t, r.BeginDocument())
	name, err := r.NextName()
	require.NoError(t, err)
	require.Equal(t, HeaderName, name)
	h, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, Version, h.Version)

	for _, a := range sampleArrays() {
		name, err := r.NextName()
		require.NoError(t, err)
		require.Equal(t, a.name, name)
		require.NoError(t, r.BeginArray())
		var got []Record
		for r.More() {
			rec, err := r.ReadRecord()
			require.NoError(t, err)
			got = append(got, rec)
		}
		require.NoError(t, r.EndArray())
		require.Len(t, got, len(a.records))
	}
	require.NoError(t, r.EndDocument())
}

func TestReadRecordValues(t *testing.T) {
	r := NewReader(strings.NewReader(`{"name":"Cash","start_money":2000,"archived":false,"note":null,"latitude":45.5}`))
	rec, err := r.ReadRecord()
	require.NoError(t, err)

	s, ok := rec.Str("name")
	assert.True(t, ok)
	assert.Equal(t, "Cash", s)
	n, ok, err := rec.Int("start_money")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(2000), n)
	b, ok := rec.Bool("archived")
	assert.True(t, ok)
	assert.False(t, b)
	assert.NotContains(t, rec, "note")
	assert.Equal(t, json.Number("45.5"), rec["latitude"])

	_, _, err = rec.Int("name")
	assert.Error(t, err)
	_, ok, err = rec.Int("missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestReaderRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"nested object": `{"header":{"version_code":2},"wallets":[{"id":"a","meta":{"x":1}}]}`,
		"nested array":  `{"header":{"version_code":2},"wallets":[{"id":"a","tags":[1]}]}`,
		"not an array":  `{"header":{"version_code":2},"wallets":{"id":"a"}}`,
		"truncated":     `{"header":{"version_code":2},"wallets":[{"id":"a"`,
		"bad syntax":    `{"header":{"version_code":2},"wallets":[{"id" "a"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			err := walk(NewReader(strings.NewReader(doc)))
			require.Error(t, err)
			assert.True(t, IsFormat(err), "got %v", err)
		})
	}
}

func TestReaderHeader(t *testing.T) {
	r := NewReader(strings.NewReader(`{"header":{"version":2}}`))
	require.NoError(t, r.BeginDocument())
	_, err := r.NextName()
	require.NoError(t, err)
	_, err = r.ReadHeader()
	assert.True(t, IsFormat(err))

	r = NewReader(strings.NewReader(`{"header":{"version_code":2}} {}`))
	require.NoError(t, r.BeginDocument())
	_, err = r.NextName()
	require.NoError(t, err)
	_, err = r.ReadHeader()
	require.NoError(t, err)
	assert.True(t, IsFormat(r.EndDocument()), "trailing data")
}

// walk reads every array of a document.
func walk(r *Reader) error {
	if err := r.BeginDocument(); err != nil {
		return err
	}
	if _, err := r.NextName(); err != nil {
		return err
	}
	if _, err := r.ReadHeader(); err != nil {
		return err
	}
	for r.More() {
		if _, err := r.NextName(); err != nil {
			return err
		}
		if err := r.BeginArray(); err != nil {
			return err
		}
		for r.More() {
			if _, err := r.ReadRecord(); err != nil {
				return err
			}
		}
		if err := r.EndArray(); err != nil {
			return err
		}
	}
	return r.EndDocument()
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterIOErrorIsSticky(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.NoError(t, w.BeginDocument())
	err := w.Flush()
	require.Error(t, err)
	assert.True(t, IsIO(err))
	assert.ErrorIs(t, w.WriteName("wallets"), err)
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, CheckVersion(VersionMin))
	assert.NoError(t, CheckVersion(VersionMax))

	var ve *VersionError
	require.True(t, errors.As(CheckVersion(VersionMax+1), &ve))
	assert.True(t, ve.TooNew())
	require.True(t, errors.As(CheckVersion(VersionMin-1), &ve))
	assert.False(t, ve.TooNew())
	assert.Contains(t, ve.Error(), "no longer restorable")
}
