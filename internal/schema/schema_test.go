package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryKindDeclared(t *testing.T) {
	for _, k := range Kinds() {
		e, ok := Lookup(k)
		require.True(t, ok, "kind %s has no declaration", k)
		assert.Equal(t, k, e.Kind)
		assert.NotEmpty(t, e.Fields)
		assert.True(t, e.HasColumn(e.Key), "%s key %q is not a column", k, e.Key)
	}
	_, ok := Lookup(Kind(0))
	assert.False(t, ok)
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"wallets":            KindWallet,
		"wallet":             KindWallet,
		"people":             KindPerson,
		"person":             KindPerson,
		"Categories":         KindCategory,
		"currency":           KindCurrency,
		"transfer_models":    KindTransferModel,
		"recurrent_transfer": KindRecurrentTransfer,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("ledgers")
	assert.Error(t, err)
}

func TestRefFieldsPointAtKnownKinds(t *testing.T) {
	for _, k := range Kinds() {
		e := MustLookup(k)
		for _, f := range e.Fields {
			if !f.IsRef() {
				continue
			}
			assert.True(t, f.Ref.Valid(), "%s.%s references an unknown kind", k, f.Name)
		}
	}
}

func TestDeleteRulesNameRealColumns(t *testing.T) {
	for _, k := range Kinds() {
		seenSideEffect := false
		for _, r := range DeleteRules(k) {
			if r.Action == CascadeOwned {
				f, ok := MustLookup(k).Field(r.Field)
				require.True(t, ok, "%s has no owned field %s", k, r.Field)
				assert.Equal(t, r.Dependent, f.Ref)
				continue
			}
			dep := MustLookup(r.Dependent)
			f, ok := dep.Field(r.Field)
			require.True(t, ok, "%s has no field %s", r.Dependent, r.Field)
			assert.False(t, f.Virtual)
			assert.Equal(t, k, f.Ref, "%s.%s does not reference %s", r.Dependent, r.Field, k)
			if r.Action == Detach {
				assert.Equal(t, TypeMultiRef, f.Type)
			}
			if r.When != nil {
				assert.True(t, dep.HasColumn(r.When.Field))
			}
			if r.Action == Restrict {
				assert.False(t, seenSideEffect, "%s: restrict rule after a side effect", k)
			} else {
				seenSideEffect = true
			}
		}
	}
}

func TestEveryReferenceHasADeleteRule(t *testing.T) {
	covered := map[Kind]map[string]bool{}
	for _, k := range Kinds() {
		for _, r := range DeleteRules(k) {
			if r.Action == CascadeOwned {
				continue
			}
			if covered[r.Dependent] == nil {
				covered[r.Dependent] = map[string]bool{}
			}
			covered[r.Dependent][r.Field] = true
		}
	}
	for _, k := range Kinds() {
		for _, f := range MustLookup(k).Stored() {
			if !f.IsRef() || f.Ref == KindTransaction {
				continue
			}
			assert.True(t, covered[k][f.Name], "%s.%s has no delete rule", k, f.Name)
		}
	}
}

func TestLinksMatchMultiValuedColumns(t *testing.T) {
	for _, l := range Links() {
		f, ok := MustLookup(l.Owner).Field(l.Field)
		require.True(t, ok, l.Name)
		assert.Equal(t, TypeMultiRef, f.Type, l.Name)
		assert.Equal(t, l.Member, f.Ref, l.Name)
		got, ok := LinkByName(l.Name)
		require.True(t, ok)
		assert.Equal(t, l, got)
	}
	l, _ := LinkByName("debt_people")
	assert.Equal(t, l.LinkID("a", "b"), l.LinkID("a", "b"))
	assert.NotEqual(t, l.LinkID("a", "b"), l.LinkID("b", "a"))
}

func TestSystemCategoryUUIDsAreStable(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range SystemCategories() {
		id := c.UUID()
		assert.Equal(t, id, c.UUID())
		assert.False(t, seen[id], "duplicate uuid for %s", c.Tag)
		seen[id] = true
	}
}
