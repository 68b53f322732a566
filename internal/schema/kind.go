// Package schema declares the entities held by the store: their fields, the
// semantic type of each field and the delete-time rules that tie them together.
// It is pure data; the integrity engine, the snapshot orchestrator and the
// query surface all read from it.
package schema

import (
	"fmt"
	"strings"
)

// Kind identifies one entity of the store.
type Kind int

const (
	KindCurrency Kind = iota + 1
	KindWallet
	KindCategory
	KindEvent
	KindPlace
	KindPerson
	KindDebt
	KindBudget
	KindSaving
	KindRecurrentTransaction
	KindRecurrentTransfer
	KindTransaction
	KindTransactionModel
	KindTransfer
	KindTransferModel
	KindAttachment
)

var kinds = []Kind{
	KindCurrency,
	KindWallet,
	KindCategory,
	KindEvent,
	KindPlace,
	KindPerson,
	KindDebt,
	KindBudget,
	KindSaving,
	KindRecurrentTransaction,
	KindRecurrentTransfer,
	KindTransaction,
	KindTransactionModel,
	KindTransfer,
	KindTransferModel,
	KindAttachment,
}

// Kinds returns every entity kind in dependency order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// String returns the table name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCurrency:
		return "currencies"
	case KindWallet:
		return "wallets"
	case KindCategory:
		return "categories"
	case KindEvent:
		return "events"
	case KindPlace:
		return "places"
	case KindPerson:
		return "people"
	case KindDebt:
		return "debts"
	case KindBudget:
		return "budgets"
	case KindSaving:
		return "savings"
	case KindRecurrentTransaction:
		return "recurrent_transactions"
	case KindRecurrentTransfer:
		return "recurrent_transfers"
	case KindTransaction:
		return "transactions"
	case KindTransactionModel:
		return "transaction_models"
	case KindTransfer:
		return "transfers"
	case KindTransferModel:
		return "transfer_models"
	case KindAttachment:
		return "attachments"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindCurrency && k <= KindAttachment
}

// ParseKind resolves a table name (or its singular form) to a Kind.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		plural := k.String()
		if n == plural || n == singular(plural) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown entity %q", name)
}

func singular(plural string) string {
	switch {
	case plural == "people":
		return "person"
	case plural == "currencies":
		return "currency"
	case plural == "categories":
		return "category"
	}
	return strings.TrimSuffix(plural, "s")
}
