package schema

// Action is what happens to a dependent row when the row it references is
// deleted.
type Action int

const (
	// Restrict blocks the delete while any dependent row exists.
	Restrict Action = iota + 1
	// Cascade deletes the dependent rows.
	Cascade
	// Nullify clears the reference and keeps the dependent row.
	Nullify
	// Detach removes the id from a multi-valued reference column.
	Detach
	// CascadeOwned deletes the rows the deleted row itself references
	// through Field (Transfer legs).
	CascadeOwned
)

func (a Action) String() string {
	switch a {
	case Restrict:
		return "restrict"
	case Cascade:
		return "cascade"
	case Nullify:
		return "nullify"
	case Detach:
		return "detach"
	case CascadeOwned:
		return "cascade-owned"
	}
	return "unknown"
}

// Match narrows a rule to dependent rows whose Field equals Value.
type Match struct {
	Field string
	Value int64
}

// Rule is one edge of the delete graph.
type Rule struct {
	Dependent Kind
	Field     string
	Action    Action
	When      *Match
}

// Restrict rules come first in every list so that a blocked delete is
// detected before any side effect is applied.
var deleteRules = map[Kind][]Rule{
	KindCurrency: {
		{Dependent: KindWallet, Field: "currency", Action: Restrict},
		{Dependent: KindBudget, Field: "currency", Action: Restrict},
	},
	KindWallet: {
		{Dependent: KindTransaction, Field: "wallet", Action: Restrict,
			When: &Match{Field: "type", Value: TransactionTransfer}},
		{Dependent: KindTransaction, Field: "wallet", Action: Cascade},
		{Dependent: KindTransactionModel, Field: "wallet", Action: Cascade},
		{Dependent: KindTransferModel, Field: "wallet_from", Action: Cascade},
		{Dependent: KindTransferModel, Field: "wallet_to", Action: Cascade},
		{Dependent: KindSaving, Field: "wallet", Action: Cascade},
		{Dependent: KindDebt, Field: "wallet", Action: Cascade},
		{Dependent: KindRecurrentTransaction, Field: "wallet", Action: Cascade},
		{Dependent: KindRecurrentTransfer, Field: "wallet_from", Action: Cascade},
		{Dependent: KindRecurrentTransfer, Field: "wallet_to", Action: Cascade},
		{Dependent: KindBudget, Field: "wallets", Action: Detach},
	},
	KindCategory: {
		{Dependent: KindCategory, Field: "parent", Action: Restrict},
		{Dependent: KindTransaction, Field: "category", Action: Restrict},
		{Dependent: KindTransactionModel, Field: "category", Action: Restrict},
		{Dependent: KindRecurrentTransaction, Field: "category", Action: Restrict},
		{Dependent: KindBudget, Field: "category", Action: Restrict},
	},
	KindEvent: {
		{Dependent: KindTransaction, Field: "event", Action: Nullify},
		{Dependent: KindTransactionModel, Field: "event", Action: Nullify},
		{Dependent: KindTransfer, Field: "event", Action: Nullify},
		{Dependent: KindTransferModel, Field: "event", Action: Nullify},
		{Dependent: KindRecurrentTransaction, Field: "event", Action: Nullify},
		{Dependent: KindRecurrentTransfer, Field: "event", Action: Nullify},
	},
	KindPlace: {
		{Dependent: KindTransaction, Field: "place", Action: Nullify},
		{Dependent: KindTransactionModel, Field: "place", Action: Nullify},
		{Dependent: KindTransfer, Field: "place", Action: Nullify},
		{Dependent: KindTransferModel, Field: "place", Action: Nullify},
		{Dependent: KindRecurrentTransaction, Field: "place", Action: Nullify},
		{Dependent: KindRecurrentTransfer, Field: "place", Action: Nullify},
		{Dependent: KindDebt, Field: "place", Action: Nullify},
	},
	KindPerson: {
		{Dependent: KindDebt, Field: "people", Action: Detach},
		{Dependent: KindTransaction, Field: "people", Action: Detach},
		{Dependent: KindTransfer, Field: "people", Action: Detach},
		{Dependent: KindEvent, Field: "people", Action: Detach},
	},
	KindDebt: {
		{Dependent: KindTransaction, Field: "debt", Action: Cascade},
	},
	KindSaving: {
		{Dependent: KindTransaction, Field: "saving", Action: Cascade},
	},
	KindTransfer: {
		{Dependent: KindTransaction, Field: "transaction_from", Action: CascadeOwned},
		{Dependent: KindTransaction, Field: "transaction_to", Action: CascadeOwned},
		{Dependent: KindTransaction, Field: "transaction_tax", Action: CascadeOwned},
	},
	KindRecurrentTransaction: {
		{Dependent: KindTransaction, Field: "recurrence", Action: Nullify},
	},
	KindRecurrentTransfer: {
		{Dependent: KindTransfer, Field: "recurrence", Action: Nullify},
	},
	KindAttachment: {
		{Dependent: KindTransaction, Field: "attachments", Action: Detach},
		{Dependent: KindTransfer, Field: "attachments", Action: Detach},
	},
}

// DeleteRules returns the rules consulted when a row of k is deleted.
func DeleteRules(k Kind) []Rule {
	return deleteRules[k]
}
