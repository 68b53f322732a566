package schema

import "github.com/google/uuid"

// Link is an association that the live store flattens into a multi-valued
// column of the owner and the snapshot writes as standalone records.
type Link struct {
	Name   string
	Owner  Kind
	Field  string
	Member Kind
	// OwnerKey and MemberKey are the record keys of the two endpoints.
	OwnerKey  string
	MemberKey string
}

var links = []Link{
	{Name: "event_people", Owner: KindEvent, Field: "people", Member: KindPerson, OwnerKey: "event", MemberKey: "person"},
	{Name: "debt_people", Owner: KindDebt, Field: "people", Member: KindPerson, OwnerKey: "debt", MemberKey: "person"},
	{Name: "budget_wallets", Owner: KindBudget, Field: "wallets", Member: KindWallet, OwnerKey: "budget", MemberKey: "wallet"},
	{Name: "transaction_people", Owner: KindTransaction, Field: "people", Member: KindPerson, OwnerKey: "transaction", MemberKey: "person"},
	{Name: "transfer_people", Owner: KindTransfer, Field: "people", Member: KindPerson, OwnerKey: "transfer", MemberKey: "person"},
	{Name: "transaction_attachments", Owner: KindTransaction, Field: "attachments", Member: KindAttachment, OwnerKey: "transaction", MemberKey: "attachment"},
	{Name: "transfer_attachments", Owner: KindTransfer, Field: "attachments", Member: KindAttachment, OwnerKey: "transfer", MemberKey: "attachment"},
}

// Links returns every link table.
func Links() []Link {
	out := make([]Link, len(links))
	copy(out, links)
	return out
}

// LinkByName returns the link table called name.
func LinkByName(name string) (Link, bool) {
	for _, l := range links {
		if l.Name == name {
			return l, true
		}
	}
	return Link{}, false
}

// LinkID derives the portable identifier of one link record from its two
// endpoints, so the same association keeps the same id across snapshots.
func (l Link) LinkID(ownerUUID, memberUUID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(l.Name+":"+ownerUUID+":"+memberUUID)).String()
}
