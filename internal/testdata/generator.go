package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/AndreAle94/moneywallet-sub005/internal/integrity"
	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// Sample holds the ids of the rows Seed created.
type Sample struct {
	Wallets      map[string]int64
	Categories   map[string]int64
	People       map[string]int64
	Event        int64
	Place        int64
	Debt         int64
	Budget       int64
	Saving       int64
	Transfer     int64
	Attachment   int64
	Transactions []int64
}

// Seed fills a migrated, seeded store with one row of every kind and a
// handful of transactions. The same seed always produces the same data.
func Seed(ctx context.Context, e *integrity.Engine, seed int64) (Sample, error) {
	rng := rand.New(rand.NewSource(seed))
	s := Sample{
		Wallets:    map[string]int64{},
		Categories: map[string]int64{},
		People:     map[string]int64{},
	}
	err := e.Atomic(ctx, func(tx *integrity.Tx) error {
		b := builder{ctx: ctx, tx: tx}

		s.Wallets["Checking"] = b.insert(schema.KindWallet, integrity.Fields{"name": "Checking", "currency": "EUR", "start_money": 200000, "icon": "bank"})
		s.Wallets["Cash"] = b.insert(schema.KindWallet, integrity.Fields{"name": "Cash", "currency": "EUR", "start_money": 5000, "position": 1})
		s.Wallets["Travel"] = b.insert(schema.KindWallet, integrity.Fields{"name": "Travel", "currency": "USD", "count_in_total": false, "position": 2})

		if err := seedCategories(&b, s.Categories); err != nil {
			return err
		}

		for _, name := range []string{"Alice", "Bob", "Carol"} {
			s.People[name] = b.insert(schema.KindPerson, integrity.Fields{"name": name})
		}
		s.Place = b.insert(schema.KindPlace, integrity.Fields{"name": "Central Market", "address": "Main St 1", "latitude": 45.4642, "longitude": 9.19})
		s.Event = b.insert(schema.KindEvent, integrity.Fields{
			"name": "Summer trip", "start_date": "2024-07-01", "end_date": "2024-07-15",
			"people": []int64{s.People["Alice"], s.People["Bob"]},
		})
		s.Attachment = b.insert(schema.KindAttachment, integrity.Fields{"file": "receipt-001.jpg", "name": "Receipt", "type": "image/jpeg", "size": 48213})

		s.Debt = b.insert(schema.KindDebt, integrity.Fields{
			"type": schema.DebtOwedToMe, "description": "Concert tickets", "date": "2024-06-20",
			"expiration_date": "2024-08-01", "wallet": s.Wallets["Cash"], "money": 8000,
			"place": s.Place, "people": []int64{s.People["Carol"]}, "insert_transaction": true,
		})
		s.Budget = b.insert(schema.KindBudget, integrity.Fields{
			"type": schema.BudgetCategory, "category": s.Categories["Food"],
			"start_date": "2024-07-01", "end_date": "2024-07-31", "money": 40000,
			"wallets": []int64{s.Wallets["Checking"], s.Wallets["Cash"]},
		})
		s.Saving = b.insert(schema.KindSaving, integrity.Fields{
			"description": "New bike", "start_money": 0, "end_money": 90000,
			"wallet": s.Wallets["Checking"], "end_date": "2024-12-31",
		})
		rent := b.insert(schema.KindRecurrentTransaction, integrity.Fields{
			"money": 85000, "description": "Rent", "category": s.Categories["Rent"],
			"direction": schema.DirectionExpense, "wallet": s.Wallets["Checking"],
			"rule": "FREQ=MONTHLY;BYMONTHDAY=1", "start_date": "2024-01-01", "next_occurrence": "2024-08-01",
		})
		topUp := b.insert(schema.KindRecurrentTransfer, integrity.Fields{
			"description": "Cash top-up", "wallet_from": s.Wallets["Checking"], "wallet_to": s.Wallets["Cash"],
			"money_from": 10000, "money_to": 10000, "rule": "FREQ=WEEKLY", "start_date": "2024-01-01",
		})

		day := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
		s.Transactions = append(s.Transactions, b.insert(schema.KindTransaction, integrity.Fields{
			"money": 250000, "date": day.Format(schema.DateTimeLayout), "description": "Salary ACME",
			"category": s.Categories["Salary"], "direction": schema.DirectionIncome, "wallet": s.Wallets["Checking"],
		}))
		s.Transactions = append(s.Transactions, b.insert(schema.KindTransaction, integrity.Fields{
			"money": 85000, "date": day.Format(schema.DateTimeLayout), "description": "Rent",
			"category": s.Categories["Rent"], "direction": schema.DirectionExpense,
			"wallet": s.Wallets["Checking"], "recurrence": rent,
		}))
		s.Transactions = append(s.Transactions, b.insert(schema.KindTransaction, integrity.Fields{
			"money": 15000, "date": day.Format(schema.DateTimeLayout), "description": "Bike fund",
			"category": s.Categories["Savings"], "direction": schema.DirectionExpense,
			"wallet": s.Wallets["Checking"], "saving": s.Saving,
		}))
		shops := []string{"WOOLWORTHS", "FARMERS MARKET", "CORNER BAKERY", "SUSHI BAR"}
		for i := 0; i < 8; i++ {
			desc := shops[rng.Intn(len(shops))]
			cat := s.Categories["Groceries"]
			if desc == "SUSHI BAR" {
				cat = s.Categories["Restaurants"]
			}
			f := integrity.Fields{
				"money":       int64(rng.Intn(9000) + 500),
				"date":        day.AddDate(0, 0, i).Add(time.Duration(rng.Intn(600)) * time.Minute).Format(schema.DateTimeLayout),
				"description": desc,
				"category":    cat,
				"direction":   schema.DirectionExpense,
				"wallet":      s.Wallets["Cash"],
				"confirmed":   i%5 != 4,
			}
			if i == 0 {
				f["place"] = s.Place
				f["event"] = s.Event
				f["people"] = []int64{s.People["Alice"], s.People["Bob"]}
				f["attachments"] = []int64{s.Attachment}
				f["note"] = "split with friends"
			}
			s.Transactions = append(s.Transactions, b.insert(schema.KindTransaction, f))
		}

		b.insert(schema.KindTransactionModel, integrity.Fields{
			"money": 350, "description": "Coffee", "category": s.Categories["Restaurants"],
			"direction": schema.DirectionExpense, "wallet": s.Wallets["Cash"], "place": s.Place,
		})
		s.Transfer = b.insert(schema.KindTransfer, integrity.Fields{
			"date": day.AddDate(0, 0, 2).Format(schema.DateTimeLayout), "description": "ATM withdrawal",
			"wallet_from": s.Wallets["Checking"], "wallet_to": s.Wallets["Cash"],
			"money_from": 20000, "money_to": 20000, "money_tax": 250,
			"recurrence": topUp, "event": s.Event,
			"people": []int64{s.People["Bob"]}, "attachments": []int64{s.Attachment},
		})
		b.insert(schema.KindTransferModel, integrity.Fields{
			"description": "Savings sweep", "wallet_from": s.Wallets["Cash"], "wallet_to": s.Wallets["Checking"],
			"money_from": 5000, "money_to": 5000,
		})
		return b.err
	})
	return s, err
}

type builder struct {
	ctx context.Context
	tx  *integrity.Tx
	err error
}

// insert records the first failure and turns later calls into no-ops, so
// Seed reads as a flat list of rows.
func (b *builder) insert(k schema.Kind, f integrity.Fields) int64 {
	if b.err != nil {
		return 0
	}
	id, err := b.tx.Insert(b.ctx, k, f)
	if err != nil {
		b.err = fmt.Errorf("seed %s: %w", k, err)
	}
	return id
}

func seedCategories(b *builder, ids map[string]int64) error {
	type cat struct {
		Name     string
		Parent   string
		Type     int64
		Position int
	}
	cats := []cat{
		{Name: "Food", Type: schema.CategoryExpense, Position: 10},
		{Name: "Groceries", Parent: "Food", Type: schema.CategoryExpense, Position: 11},
		{Name: "Restaurants", Parent: "Food", Type: schema.CategoryExpense, Position: 12},
		{Name: "Fixed Costs", Type: schema.CategoryExpense, Position: 20},
		{Name: "Rent", Parent: "Fixed Costs", Type: schema.CategoryExpense, Position: 21},
		{Name: "Savings", Type: schema.CategoryExpense, Position: 30},
		{Name: "Income", Type: schema.CategoryIncome, Position: 40},
		{Name: "Salary", Parent: "Income", Type: schema.CategoryIncome, Position: 41},
	}
	for _, c := range cats {
		f := integrity.Fields{"name": c.Name, "type": c.Type, "position": c.Position}
		if c.Parent != "" {
			f["parent"] = ids[c.Parent]
		}
		ids[c.Name] = b.insert(schema.KindCategory, f)
	}
	return b.err
}
