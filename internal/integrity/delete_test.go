package integrity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreAle94/moneywallet-sub005/internal/refs"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

func TestTransferCreatesAndRemovesLegs(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")

	tr := insert(t, e, ctx, schema.KindTransfer, Fields{
		"date": "2024-01-10 09:30:00", "description": "move",
		"wallet_from": w1, "wallet_to": w2,
		"money_from": 1000, "money_to": 1000, "money_tax": 0,
	})

	legs, err := e.Query(ctx, schema.KindTransaction, Query{})
	require.NoError(t, err)
	require.Len(t, legs, 2)
	transferCat := systemCategoryID(t, e, ctx, schema.SystemTransfer)
	for _, l := range legs {
		typ, _ := l.Int("type")
		assert.Equal(t, schema.TransactionTransfer, typ)
		cat, _ := l.Int("category")
		assert.Equal(t, transferCat, cat)
		assert.Equal(t, "move", l.String("description"))
	}

	row, err := e.Get(ctx, schema.KindTransfer, tr)
	require.NoError(t, err)
	from, _ := row.Int("transaction_from")
	to, _ := row.Int("transaction_to")
	assert.Equal(t, legs[0].ID(), from)
	assert.Equal(t, legs[1].ID(), to)
	assert.Nil(t, row["transaction_tax"])

	b1, err := e.Balance(ctx, w1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), b1)
	b2, err := e.Balance(ctx, w2)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b2)

	n, err := e.Delete(ctx, schema.KindTransfer, tr)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Zero(t, countRows(t, e, ctx, schema.KindTransaction, nil))
}

func TestTransferTaxLeg(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")

	tr := insert(t, e, ctx, schema.KindTransfer, Fields{
		"date": "2024-01-10 09:30:00", "wallet_from": w1, "wallet_to": w2,
		"money_from": 1000, "money_to": 1000, "money_tax": 50,
	})
	assert.Equal(t, 3, countRows(t, e, ctx, schema.KindTransaction, nil))
	taxCat := systemCategoryID(t, e, ctx, schema.SystemTax)
	assert.Equal(t, 1, countRows(t, e, ctx, schema.KindTransaction, map[string]any{"category": taxCat}))
	b1, err := e.Balance(ctx, w1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1050), b1)

	_, err = e.Update(ctx, schema.KindTransfer, tr, Fields{"money_tax": 0, "money_from": 700, "money_to": 700})
	require.NoError(t, err)
	assert.Equal(t, 2, countRows(t, e, ctx, schema.KindTransaction, nil))
	row, err := e.Get(ctx, schema.KindTransfer, tr)
	require.NoError(t, err)
	assert.Nil(t, row["transaction_tax"])
	b1, err = e.Balance(ctx, w1)
	require.NoError(t, err)
	assert.Equal(t, int64(-700), b1)

	_, err = e.Update(ctx, schema.KindTransfer, tr, Fields{"money_tax": 20})
	require.NoError(t, err)
	assert.Equal(t, 3, countRows(t, e, ctx, schema.KindTransaction, nil))

	_, err = e.Delete(ctx, schema.KindTransfer, tr)
	require.NoError(t, err)
	assert.Zero(t, countRows(t, e, ctx, schema.KindTransaction, nil))
}

func TestTransferRejectsBadInput(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")
	base := func() Fields {
		return Fields{"date": "2024-01-10 09:30:00", "wallet_from": w1, "wallet_to": w2, "money_from": 10, "money_to": 10}
	}

	f := base()
	f["wallet_to"] = w1
	_, err := e.Insert(ctx, schema.KindTransfer, f)
	assert.True(t, IsValidation(err), "same wallet: %v", err)

	f = base()
	delete(f, "money_to")
	_, err = e.Insert(ctx, schema.KindTransfer, f)
	assert.True(t, IsValidation(err), "missing money: %v", err)

	f = base()
	f["transaction_from"] = 1
	_, err = e.Insert(ctx, schema.KindTransfer, f)
	assert.True(t, IsValidation(err), "explicit leg: %v", err)

	assert.Zero(t, countRows(t, e, ctx, schema.KindTransaction, nil))
}

func TestTransferLegsAreProtected(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")
	insert(t, e, ctx, schema.KindTransfer, Fields{
		"date": "2024-01-10 09:30:00", "wallet_from": w1, "wallet_to": w2, "money_from": 10, "money_to": 10,
	})
	legs, err := e.Query(ctx, schema.KindTransaction, Query{})
	require.NoError(t, err)
	leg := legs[0].ID()

	_, err = e.Update(ctx, schema.KindTransaction, leg, Fields{"money": 5})
	assert.True(t, IsConstraint(err), "update leg: %v", err)
	_, err = e.Delete(ctx, schema.KindTransaction, leg)
	assert.True(t, IsConstraint(err), "delete leg: %v", err)
	p := insert(t, e, ctx, schema.KindPerson, Fields{"name": "Ann"})
	err = e.Atomic(ctx, func(tx *Tx) error {
		return tx.Link(ctx, schema.KindTransaction, leg, "people", p)
	})
	assert.True(t, IsConstraint(err), "link leg: %v", err)
	row, err := e.Get(ctx, schema.KindTransaction, leg)
	require.NoError(t, err)
	assert.Nil(t, row["people"])

	_, err = e.Delete(ctx, schema.KindWallet, w1)
	var ce *ConstraintError
	require.True(t, errors.As(err, &ce), "delete wallet: %v", err)
	assert.Equal(t, schema.KindTransaction, ce.Dependent)
	assert.Equal(t, "wallet", ce.Field)
	assert.Equal(t, 2, countRows(t, e, ctx, schema.KindWallet, nil))
}

func TestWalletDeleteCascades(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")
	keep := newWallet(t, e, ctx, "Bank", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)

	newTransaction(t, e, ctx, w, food, 100, schema.DirectionExpense)
	kept := newTransaction(t, e, ctx, keep, food, 100, schema.DirectionExpense)
	insert(t, e, ctx, schema.KindDebt, Fields{
		"type": schema.DebtOwedByMe, "description": "loan", "date": "2024-02-01",
		"wallet": w, "money": 5000, "insert_transaction": true,
	})
	insert(t, e, ctx, schema.KindSaving, Fields{"description": "car", "end_money": 100000, "wallet": w})
	insert(t, e, ctx, schema.KindTransactionModel, Fields{"money": 5, "category": food, "direction": schema.DirectionExpense, "wallet": w})
	insert(t, e, ctx, schema.KindTransferModel, Fields{"wallet_from": keep, "wallet_to": w, "money_from": 5, "money_to": 5})
	insert(t, e, ctx, schema.KindRecurrentTransaction, Fields{
		"money": 5, "category": food, "direction": schema.DirectionExpense, "wallet": w,
		"rule": "FREQ=MONTHLY", "start_date": "2024-01-01",
	})
	budget := insert(t, e, ctx, schema.KindBudget, Fields{
		"type": schema.BudgetExpenses, "start_date": "2024-01-01", "end_date": "2024-12-31",
		"money": 1000, "wallets": []int64{w, keep},
	})

	n, err := e.Delete(ctx, schema.KindWallet, w)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	txs, err := e.Query(ctx, schema.KindTransaction, Query{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, kept, txs[0].ID())
	for _, k := range []schema.Kind{
		schema.KindDebt, schema.KindSaving, schema.KindTransactionModel,
		schema.KindTransferModel, schema.KindRecurrentTransaction,
	} {
		assert.Zero(t, countRows(t, e, ctx, k, nil), k.String())
	}

	row, err := e.Get(ctx, schema.KindBudget, budget)
	require.NoError(t, err)
	assert.Equal(t, refs.Token(keep), row.String("wallets"))

	_, err = e.Delete(ctx, schema.KindWallet, keep)
	require.NoError(t, err)
	row, err = e.Get(ctx, schema.KindBudget, budget)
	require.NoError(t, err)
	assert.Nil(t, row["wallets"])
}

func TestCategoryDeleteRestricts(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	snacks := insert(t, e, ctx, schema.KindCategory, Fields{"name": "Snacks", "type": schema.CategoryExpense, "parent": food})
	tx := newTransaction(t, e, ctx, w, snacks, 100, schema.DirectionExpense)

	_, err := e.Delete(ctx, schema.KindCategory, food)
	var ce *ConstraintError
	require.True(t, errors.As(err, &ce), "parent: %v", err)
	assert.Equal(t, schema.KindCategory, ce.Dependent)
	assert.Equal(t, "parent", ce.Field)
	assert.Equal(t, 1, ce.Count)

	_, err = e.Delete(ctx, schema.KindCategory, snacks)
	require.True(t, errors.As(err, &ce), "used by transaction: %v", err)
	assert.Equal(t, schema.KindTransaction, ce.Dependent)

	_, err = e.Delete(ctx, schema.KindTransaction, tx)
	require.NoError(t, err)
	_, err = e.Delete(ctx, schema.KindCategory, snacks)
	require.NoError(t, err)
	_, err = e.Delete(ctx, schema.KindCategory, food)
	require.NoError(t, err)

	sys := systemCategoryID(t, e, ctx, schema.SystemTransfer)
	_, err = e.Delete(ctx, schema.KindCategory, sys)
	assert.True(t, IsConstraint(err))
	_, err = e.Update(ctx, schema.KindCategory, sys, Fields{"name": "Moves"})
	assert.True(t, IsConstraint(err))
}

func TestCurrencyDelete(t *testing.T) {
	e, ctx := newEngine(t)
	newWallet(t, e, ctx, "Cash", "EUR")

	var eur, jpy int64
	rows, err := e.Query(ctx, schema.KindCurrency, Query{Fields: []string{"id", "iso"}})
	require.NoError(t, err)
	for _, r := range rows {
		switch r.String("iso") {
		case "EUR":
			eur = r.ID()
		case "JPY":
			jpy = r.ID()
		}
	}
	require.NotZero(t, eur)
	require.NotZero(t, jpy)

	_, err = e.Delete(ctx, schema.KindCurrency, eur)
	var ce *ConstraintError
	require.True(t, errors.As(err, &ce), "in use: %v", err)
	assert.Equal(t, schema.KindWallet, ce.Dependent)

	n, err := e.Delete(ctx, schema.KindCurrency, jpy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNullifyAndDetach(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	ann := insert(t, e, ctx, schema.KindPerson, Fields{"name": "Ann"})
	bob := insert(t, e, ctx, schema.KindPerson, Fields{"name": "Bob"})
	place := insert(t, e, ctx, schema.KindPlace, Fields{"name": "Market"})
	event := insert(t, e, ctx, schema.KindEvent, Fields{
		"name": "Trip", "start_date": "2024-05-01", "end_date": "2024-05-10", "people": []int64{ann},
	})
	att := insert(t, e, ctx, schema.KindAttachment, Fields{"file": "r.jpg", "name": "receipt"})
	tx := insert(t, e, ctx, schema.KindTransaction, Fields{
		"money": 100, "date": "2024-05-02 12:00:00", "category": food, "direction": schema.DirectionExpense,
		"wallet": w, "place": place, "event": event, "people": []int64{ann, bob}, "attachments": []int64{att},
	})

	_, err := e.Delete(ctx, schema.KindPerson, ann)
	require.NoError(t, err)
	row, err := e.Get(ctx, schema.KindTransaction, tx)
	require.NoError(t, err)
	assert.Equal(t, refs.Token(bob), row.String("people"))
	ev, err := e.Get(ctx, schema.KindEvent, event)
	require.NoError(t, err)
	assert.Nil(t, ev["people"])

	_, err = e.Delete(ctx, schema.KindPlace, place)
	require.NoError(t, err)
	_, err = e.Delete(ctx, schema.KindEvent, event)
	require.NoError(t, err)
	_, err = e.Delete(ctx, schema.KindAttachment, att)
	require.NoError(t, err)

	row, err = e.Get(ctx, schema.KindTransaction, tx)
	require.NoError(t, err)
	assert.Nil(t, row["place"])
	assert.Nil(t, row["event"])
	assert.Nil(t, row["attachments"])
	assert.Equal(t, int64(100), row["money"])
}

func TestDebtSettlement(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")

	owed := insert(t, e, ctx, schema.KindDebt, Fields{
		"type": schema.DebtOwedByMe, "description": "loan", "date": "2024-02-01",
		"wallet": w, "money": 5000, "insert_transaction": true,
	})
	lent := insert(t, e, ctx, schema.KindDebt, Fields{
		"type": schema.DebtOwedToMe, "description": "lent", "date": "2024-02-02",
		"wallet": w, "money": 2000, "insert_transaction": true,
	})
	insert(t, e, ctx, schema.KindDebt, Fields{
		"type": schema.DebtOwedToMe, "description": "no money moved", "date": "2024-02-03",
		"wallet": w, "money": 1,
	})

	txs, err := e.Query(ctx, schema.KindTransaction, Query{Where: map[string]any{"debt": owed}})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	typ, _ := txs[0].Int("type")
	assert.Equal(t, schema.TransactionDebt, typ)
	dir, _ := txs[0].Int("direction")
	assert.Equal(t, schema.DirectionIncome, dir)
	cat, _ := txs[0].Int("category")
	assert.Equal(t, systemCategoryID(t, e, ctx, schema.SystemDebt), cat)
	assert.Equal(t, "2024-02-01 00:00:00", txs[0].String("date"))

	txs, err = e.Query(ctx, schema.KindTransaction, Query{Where: map[string]any{"debt": lent}})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	cat, _ = txs[0].Int("category")
	assert.Equal(t, systemCategoryID(t, e, ctx, schema.SystemCredit), cat)

	b, err := e.Balance(ctx, w)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), b)

	_, err = e.Update(ctx, schema.KindDebt, owed, Fields{"insert_transaction": true})
	assert.True(t, IsValidation(err))

	_, err = e.Delete(ctx, schema.KindDebt, owed)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, e, ctx, schema.KindTransaction, nil))
}

func TestTransactionTypeIsDerived(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	saving := insert(t, e, ctx, schema.KindSaving, Fields{"description": "car", "end_money": 1000, "wallet": w})

	id := insert(t, e, ctx, schema.KindTransaction, Fields{
		"money": 100, "date": "2024-03-01 10:00:00", "category": food,
		"direction": schema.DirectionExpense, "wallet": w, "saving": saving,
	})
	row, err := e.Get(ctx, schema.KindTransaction, id)
	require.NoError(t, err)
	typ, _ := row.Int("type")
	assert.Equal(t, schema.TransactionSaving, typ)

	_, err = e.Update(ctx, schema.KindTransaction, id, Fields{"saving": nil})
	require.NoError(t, err)
	row, err = e.Get(ctx, schema.KindTransaction, id)
	require.NoError(t, err)
	typ, _ = row.Int("type")
	assert.Equal(t, schema.TransactionStandard, typ)

	_, err = e.Update(ctx, schema.KindTransaction, id, Fields{"type": schema.TransactionTransfer})
	assert.True(t, IsValidation(err))

	_, err = e.Delete(ctx, schema.KindSaving, saving)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, e, ctx, schema.KindTransaction, nil))
}

func TestSavingDeleteCascadesTransactions(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	saving := insert(t, e, ctx, schema.KindSaving, Fields{"description": "car", "end_money": 1000, "wallet": w})
	for _, money := range []int64{100, 250} {
		insert(t, e, ctx, schema.KindTransaction, Fields{
			"money": money, "date": "2024-03-01 10:00:00", "category": food,
			"direction": schema.DirectionExpense, "wallet": w, "saving": saving,
		})
	}
	other := newTransaction(t, e, ctx, w, food, 40, schema.DirectionExpense)
	require.Equal(t, 2, countRows(t, e, ctx, schema.KindTransaction, map[string]any{"saving": saving}))

	_, err := e.Delete(ctx, schema.KindSaving, saving)
	require.NoError(t, err)

	txs, err := e.Query(ctx, schema.KindTransaction, Query{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, other, txs[0].ID())
}

func TestTransferDeleteRemovesOnlyItsLegs(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	unrelated := newTransaction(t, e, ctx, w1, food, 75, schema.DirectionExpense)

	taxed := insert(t, e, ctx, schema.KindTransfer, Fields{
		"date": "2024-01-10 09:30:00", "wallet_from": w1, "wallet_to": w2,
		"money_from": 1000, "money_to": 1000, "money_tax": 20,
	})
	kept := insert(t, e, ctx, schema.KindTransfer, Fields{
		"date": "2024-01-11 09:30:00", "wallet_from": w2, "wallet_to": w1, "money_from": 300, "money_to": 300,
	})
	require.Equal(t, 6, countRows(t, e, ctx, schema.KindTransaction, nil))

	keptRow, err := e.Get(ctx, schema.KindTransfer, kept)
	require.NoError(t, err)
	from, _ := keptRow.Int("transaction_from")
	to, _ := keptRow.Int("transaction_to")

	_, err = e.Delete(ctx, schema.KindTransfer, taxed)
	require.NoError(t, err)

	txs, err := e.Query(ctx, schema.KindTransaction, Query{OrderBy: []string{"id"}})
	require.NoError(t, err)
	var ids []int64
	for _, r := range txs {
		ids = append(ids, r.ID())
	}
	assert.ElementsMatch(t, []int64{unrelated, from, to}, ids)
	assert.Equal(t, 1, countRows(t, e, ctx, schema.KindTransfer, nil))
}

func TestEventAndPlaceDeleteNullifies(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	place := insert(t, e, ctx, schema.KindPlace, Fields{"name": "Market"})
	event := insert(t, e, ctx, schema.KindEvent, Fields{"name": "Trip", "start_date": "2024-05-01", "end_date": "2024-05-10"})

	cases := []struct {
		kind     schema.Kind
		fields   Fields
		hasEvent bool
	}{
		{schema.KindTransaction, Fields{
			"money": 10, "date": "2024-05-02 12:00:00", "category": food,
			"direction": schema.DirectionExpense, "wallet": w1,
		}, true},
		{schema.KindTransactionModel, Fields{
			"money": 10, "category": food, "direction": schema.DirectionExpense, "wallet": w1,
		}, true},
		{schema.KindTransfer, Fields{
			"date": "2024-05-03 12:00:00", "wallet_from": w1, "wallet_to": w2, "money_from": 10, "money_to": 10,
		}, true},
		{schema.KindTransferModel, Fields{
			"wallet_from": w1, "wallet_to": w2, "money_from": 10, "money_to": 10,
		}, true},
		{schema.KindRecurrentTransaction, Fields{
			"money": 10, "category": food, "direction": schema.DirectionExpense, "wallet": w1,
			"rule": "FREQ=MONTHLY", "start_date": "2024-01-01",
		}, true},
		{schema.KindRecurrentTransfer, Fields{
			"wallet_from": w1, "wallet_to": w2, "money_from": 10, "money_to": 10,
			"rule": "FREQ=WEEKLY", "start_date": "2024-01-01",
		}, true},
		{schema.KindDebt, Fields{
			"type": schema.DebtOwedByMe, "description": "loan", "date": "2024-02-01", "wallet": w1, "money": 10,
		}, false},
	}
	ids := make([]int64, len(cases))
	for i, c := range cases {
		c.fields["place"] = place
		if c.hasEvent {
			c.fields["event"] = event
		}
		ids[i] = insert(t, e, ctx, c.kind, c.fields)
	}

	_, err := e.Delete(ctx, schema.KindPlace, place)
	require.NoError(t, err)
	_, err = e.Delete(ctx, schema.KindEvent, event)
	require.NoError(t, err)

	for i, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			row, err := e.Get(ctx, c.kind, ids[i])
			require.NoError(t, err, "row kept")
			assert.Nil(t, row["place"])
			if c.hasEvent {
				assert.Nil(t, row["event"])
			}
		})
	}
}

func TestPersonDeleteDetaches(t *testing.T) {
	e, ctx := newEngine(t)
	w1 := newWallet(t, e, ctx, "W1", "EUR")
	w2 := newWallet(t, e, ctx, "W2", "EUR")
	food := newCategory(t, e, ctx, "Food", schema.CategoryExpense)
	ann := insert(t, e, ctx, schema.KindPerson, Fields{"name": "Ann"})
	bob := insert(t, e, ctx, schema.KindPerson, Fields{"name": "Bob"})
	people := func() []int64 { return []int64{ann, bob} }

	cases := []struct {
		kind   schema.Kind
		fields Fields
	}{
		{schema.KindTransaction, Fields{
			"money": 10, "date": "2024-05-02 12:00:00", "category": food,
			"direction": schema.DirectionExpense, "wallet": w1, "people": people(),
		}},
		{schema.KindTransfer, Fields{
			"date": "2024-05-03 12:00:00", "wallet_from": w1, "wallet_to": w2,
			"money_from": 10, "money_to": 10, "people": people(),
		}},
		{schema.KindDebt, Fields{
			"type": schema.DebtOwedToMe, "description": "lent", "date": "2024-02-01",
			"wallet": w1, "money": 10, "people": people(),
		}},
		{schema.KindEvent, Fields{
			"name": "Trip", "start_date": "2024-05-01", "end_date": "2024-05-10", "people": people(),
		}},
	}
	ids := make([]int64, len(cases))
	for i, c := range cases {
		ids[i] = insert(t, e, ctx, c.kind, c.fields)
	}

	_, err := e.Delete(ctx, schema.KindPerson, ann)
	require.NoError(t, err)

	for i, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			row, err := e.Get(ctx, c.kind, ids[i])
			require.NoError(t, err)
			assert.Equal(t, refs.Token(bob), row.String("people"))
		})
	}
}

func TestCategoryDeleteRestrictsTemplatesAndBudgets(t *testing.T) {
	e, ctx := newEngine(t)
	w := newWallet(t, e, ctx, "Cash", "EUR")

	cases := []struct {
		kind   schema.Kind
		fields func(category int64) Fields
	}{
		{schema.KindTransactionModel, func(c int64) Fields {
			return Fields{"money": 10, "category": c, "direction": schema.DirectionExpense, "wallet": w}
		}},
		{schema.KindRecurrentTransaction, func(c int64) Fields {
			return Fields{
				"money": 10, "category": c, "direction": schema.DirectionExpense, "wallet": w,
				"rule": "FREQ=MONTHLY", "start_date": "2024-01-01",
			}
		}},
		{schema.KindBudget, func(c int64) Fields {
			return Fields{
				"type": schema.BudgetCategory, "category": c, "start_date": "2024-01-01",
				"end_date": "2024-01-31", "money": 1000, "wallets": []int64{w},
			}
		}},
	}
	for _, c := range cases {
		t.Run(c.kind.String(), func(t *testing.T) {
			cat := newCategory(t, e, ctx, "Used by "+c.kind.String(), schema.CategoryExpense)
			dep := insert(t, e, ctx, c.kind, c.fields(cat))

			_, err := e.Delete(ctx, schema.KindCategory, cat)
			var ce *ConstraintError
			require.True(t, errors.As(err, &ce), "restricted: %v", err)
			assert.Equal(t, c.kind, ce.Dependent)
			assert.Equal(t, "category", ce.Field)
			assert.Equal(t, 1, ce.Count)

			_, err = e.Get(ctx, schema.KindCategory, cat)
			require.NoError(t, err)

			_, err = e.Delete(ctx, c.kind, dep)
			require.NoError(t, err)
			_, err = e.Delete(ctx, schema.KindCategory, cat)
			require.NoError(t, err)
		})
	}
}
