package schema

import "github.com/google/uuid"

// Tags of the system categories the store creates for itself.
const (
	SystemTransfer       = "system::transfer"
	SystemTax            = "system::tax"
	SystemDebt           = "system::debt"
	SystemCredit         = "system::credit"
	SystemPaidDebt       = "system::paid_debt"
	SystemPaidCredit     = "system::paid_credit"
	SystemSavingDeposit  = "system::saving_deposit"
	SystemSavingWithdraw = "system::saving_withdraw"
)

// SystemCategory is a protected category seeded into every store.
type SystemCategory struct {
	Tag  string
	Name string
	Icon string
}

var systemCategories = []SystemCategory{
	{Tag: SystemTransfer, Name: "Transfer", Icon: "transfer"},
	{Tag: SystemTax, Name: "Tax", Icon: "tax"},
	{Tag: SystemDebt, Name: "Debt", Icon: "debt"},
	{Tag: SystemCredit, Name: "Credit", Icon: "credit"},
	{Tag: SystemPaidDebt, Name: "Paid debt", Icon: "paid_debt"},
	{Tag: SystemPaidCredit, Name: "Paid credit", Icon: "paid_credit"},
	{Tag: SystemSavingDeposit, Name: "Saving deposit", Icon: "saving_deposit"},
	{Tag: SystemSavingWithdraw, Name: "Saving withdraw", Icon: "saving_withdraw"},
}

// SystemCategories returns the protected categories.
func SystemCategories() []SystemCategory {
	out := make([]SystemCategory, len(systemCategories))
	copy(out, systemCategories)
	return out
}

// UUID is the portable identifier of the category. It is derived from the
// tag so every installation agrees on it.
func (c SystemCategory) UUID() string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("category:"+c.Tag)).String()
}
