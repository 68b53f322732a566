// Package backup moves the whole store to and from a snapshot document,
// walking entities and link tables in dependency order.
package backup

import (
	"fmt"
	"io"

	"github.com/AndreAle94/moneywallet-sub005/internal/schema"
)

// Section is one array of the document: either the rows of an entity kind
// or the records of a link table.
type Section struct {
	Name string
	Kind schema.Kind
	Link *schema.Link
	// MinVersion is the first format version that carries the section.
	MinVersion int
}

func entitySection(k schema.Kind) Section {
	return Section{Name: k.String(), Kind: k, MinVersion: 1}
}

func linkSection(name string) Section {
	l, ok := schema.LinkByName(name)
	if !ok {
		panic("backup: unknown link table " + name)
	}
	return Section{Name: l.Name, Kind: l.Owner, Link: &l, MinVersion: 1}
}

var sections = []Section{
	{Name: schema.KindCurrency.String(), Kind: schema.KindCurrency, MinVersion: 2},
	entitySection(schema.KindWallet),
	entitySection(schema.KindCategory),
	entitySection(schema.KindEvent),
	entitySection(schema.KindPlace),
	entitySection(schema.KindPerson),
	linkSection("event_people"),
	entitySection(schema.KindDebt),
	linkSection("debt_people"),
	entitySection(schema.KindBudget),
	linkSection("budget_wallets"),
	entitySection(schema.KindSaving),
	entitySection(schema.KindRecurrentTransaction),
	entitySection(schema.KindRecurrentTransfer),
	entitySection(schema.KindTransaction),
	linkSection("transaction_people"),
	entitySection(schema.KindTransactionModel),
	entitySection(schema.KindTransfer),
	linkSection("transfer_people"),
	entitySection(schema.KindTransferModel),
	entitySection(schema.KindAttachment),
	linkSection("transaction_attachments"),
	linkSection("transfer_attachments"),
}

// Sections returns the arrays of a document in the order they appear.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// State is the position of an import or export in the document. The
// states are Header, one per section in order, then Closed.
type State int

const (
	StateHeader State = 0
)

// StateClosed is the terminal state.
var StateClosed = State(len(sections) + 1)

func (s State) String() string {
	switch {
	case s == StateHeader:
		return "header"
	case s == StateClosed:
		return "closed"
	case s > StateHeader && s < StateClosed:
		return sections[s-1].Name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// machine enforces the walk: every state is entered exactly once, in order,
// and the stream is released on entering Closed.
type machine struct {
	state  State
	stream any
}

func newMachine(stream any) *machine {
	return &machine{state: StateHeader, stream: stream}
}

func (m *machine) advance() (State, error) {
	if m.state >= StateClosed-1 {
		return m.state, fmt.Errorf("backup: no section after %s", m.state)
	}
	m.state++
	return m.state, nil
}

// close moves to Closed from wherever the walk stopped and releases the
// stream. It is safe to call more than once.
func (m *machine) close() error {
	if m.state == StateClosed {
		return nil
	}
	m.state = StateClosed
	if c, ok := m.stream.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
