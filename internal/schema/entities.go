package schema

// Category types.
const (
	CategoryIncome  int64 = 0
	CategoryExpense int64 = 1
	CategorySystem  int64 = 2
)

// Transaction directions.
const (
	DirectionIncome  int64 = 0
	DirectionExpense int64 = 1
)

// Transaction types.
const (
	TransactionStandard int64 = 0
	TransactionTransfer int64 = 1
	TransactionDebt     int64 = 2
	TransactionSaving   int64 = 3
)

// Debt types.
const (
	DebtOwedByMe int64 = 0
	DebtOwedToMe int64 = 1
)

// Budget types.
const (
	BudgetCategory int64 = 0
	BudgetIncomes  int64 = 1
	BudgetExpenses int64 = 2
)

func text(name string) Field        { return Field{Name: name, Type: TypeText} }
func required(f Field) Field        { f.Required = true; return f }
func ref(name string, k Kind) Field { return Field{Name: name, Type: TypeRef, Ref: k} }
func multi(name string, k Kind) Field {
	return Field{Name: name, Type: TypeMultiRef, Ref: k}
}
func money(name string) Field { return Field{Name: name, Type: TypeMoney} }
func flag(name string, def bool) Field {
	return Field{Name: name, Type: TypeFlag, Default: def}
}
func enum(name string, max int64) Field {
	return Field{Name: name, Type: TypeEnum, Max: max, Required: true}
}
func date(name string) Field     { return Field{Name: name, Type: TypeDate} }
func datetime(name string) Field { return Field{Name: name, Type: TypeDateTime} }
func position() Field {
	return Field{Name: "position", Type: TypeInteger, Default: int64(0), Snapshot: "index"}
}
func virtual(f Field) Field { f.Virtual = true; return f }

var entities = map[Kind]*Entity{
	KindCurrency: {
		Kind: KindCurrency,
		Key:  "iso",
		Fields: []Field{
			required(text("iso")),
			required(text("name")),
			text("symbol"),
			{Name: "decimals", Type: TypeInteger, Default: int64(2)},
			flag("favourite", false),
		},
	},
	KindWallet: {
		Kind: KindWallet,
		Key:  ColID,
		Fields: []Field{
			required(text("name")),
			text("icon"),
			required(ref("currency", KindCurrency)),
			text("note"),
			flag("count_in_total", true),
			{Name: "start_money", Type: TypeMoney, Default: int64(0)},
			flag("archived", false),
			text("tag"),
			position(),
		},
	},
	KindCategory: {
		Kind: KindCategory,
		Key:  ColID,
		Fields: []Field{
			required(text("name")),
			text("icon"),
			enum("type", CategorySystem),
			ref("parent", KindCategory),
			flag("show_report", true),
			text("tag"),
			position(),
		},
	},
	KindEvent: {
		Kind: KindEvent,
		Key:  ColID,
		Fields: []Field{
			required(text("name")),
			text("icon"),
			text("note"),
			required(date("start_date")),
			required(date("end_date")),
			multi("people", KindPerson),
			text("tag"),
		},
	},
	KindPlace: {
		Kind: KindPlace,
		Key:  ColID,
		Fields: []Field{
			required(text("name")),
			text("icon"),
			text("address"),
			{Name: "latitude", Type: TypeReal},
			{Name: "longitude", Type: TypeReal},
			text("tag"),
		},
	},
	KindPerson: {
		Kind: KindPerson,
		Key:  ColID,
		Fields: []Field{
			required(text("name")),
			text("icon"),
			text("note"),
			text("tag"),
		},
	},
	KindDebt: {
		Kind: KindDebt,
		Key:  ColID,
		Fields: []Field{
			enum("type", DebtOwedToMe),
			text("icon"),
			required(text("description")),
			required(date("date")),
			date("expiration_date"),
			required(ref("wallet", KindWallet)),
			text("note"),
			ref("place", KindPlace),
			required(money("money")),
			flag("archived", false),
			multi("people", KindPerson),
			text("tag"),
			virtual(flag("insert_transaction", false)),
		},
	},
	KindBudget: {
		Kind: KindBudget,
		Key:  ColID,
		Fields: []Field{
			enum("type", BudgetExpenses),
			ref("category", KindCategory),
			required(date("start_date")),
			required(date("end_date")),
			required(money("money")),
			ref("currency", KindCurrency),
			multi("wallets", KindWallet),
			text("tag"),
		},
	},
	KindSaving: {
		Kind: KindSaving,
		Key:  ColID,
		Fields: []Field{
			required(text("description")),
			text("icon"),
			{Name: "start_money", Type: TypeMoney, Default: int64(0)},
			required(money("end_money")),
			required(ref("wallet", KindWallet)),
			date("end_date"),
			flag("complete", false),
			text("note"),
			text("tag"),
		},
	},
	KindRecurrentTransaction: {
		Kind: KindRecurrentTransaction,
		Key:  ColID,
		Fields: []Field{
			required(money("money")),
			text("description"),
			required(ref("category", KindCategory)),
			enum("direction", DirectionExpense),
			required(ref("wallet", KindWallet)),
			ref("place", KindPlace),
			ref("event", KindEvent),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			required(text("rule")),
			required(date("start_date")),
			date("last_occurrence"),
			date("next_occurrence"),
			text("tag"),
		},
	},
	KindRecurrentTransfer: {
		Kind: KindRecurrentTransfer,
		Key:  ColID,
		Fields: []Field{
			text("description"),
			required(ref("wallet_from", KindWallet)),
			required(ref("wallet_to", KindWallet)),
			required(money("money_from")),
			required(money("money_to")),
			{Name: "money_tax", Type: TypeMoney, Default: int64(0)},
			ref("place", KindPlace),
			ref("event", KindEvent),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			required(text("rule")),
			required(date("start_date")),
			date("last_occurrence"),
			date("next_occurrence"),
			text("tag"),
		},
	},
	KindTransaction: {
		Kind: KindTransaction,
		Key:  ColID,
		Fields: []Field{
			required(money("money")),
			required(datetime("date")),
			text("description"),
			required(ref("category", KindCategory)),
			enum("direction", DirectionExpense),
			{Name: "type", Type: TypeEnum, Max: TransactionSaving, Default: TransactionStandard},
			required(ref("wallet", KindWallet)),
			ref("place", KindPlace),
			ref("event", KindEvent),
			ref("saving", KindSaving),
			ref("debt", KindDebt),
			ref("recurrence", KindRecurrentTransaction),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			multi("people", KindPerson),
			multi("attachments", KindAttachment),
			text("tag"),
		},
	},
	KindTransactionModel: {
		Kind: KindTransactionModel,
		Key:  ColID,
		Fields: []Field{
			required(money("money")),
			text("description"),
			required(ref("category", KindCategory)),
			enum("direction", DirectionExpense),
			required(ref("wallet", KindWallet)),
			ref("place", KindPlace),
			ref("event", KindEvent),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			text("tag"),
		},
	},
	KindTransfer: {
		Kind: KindTransfer,
		Key:  ColID,
		Fields: []Field{
			text("description"),
			required(datetime("date")),
			ref("transaction_from", KindTransaction),
			ref("transaction_to", KindTransaction),
			ref("transaction_tax", KindTransaction),
			ref("place", KindPlace),
			ref("event", KindEvent),
			ref("recurrence", KindRecurrentTransfer),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			multi("people", KindPerson),
			multi("attachments", KindAttachment),
			text("tag"),
			virtual(ref("wallet_from", KindWallet)),
			virtual(ref("wallet_to", KindWallet)),
			virtual(money("money_from")),
			virtual(money("money_to")),
			virtual(money("money_tax")),
		},
	},
	KindTransferModel: {
		Kind: KindTransferModel,
		Key:  ColID,
		Fields: []Field{
			text("description"),
			required(ref("wallet_from", KindWallet)),
			required(ref("wallet_to", KindWallet)),
			required(money("money_from")),
			required(money("money_to")),
			{Name: "money_tax", Type: TypeMoney, Default: int64(0)},
			ref("place", KindPlace),
			ref("event", KindEvent),
			text("note"),
			flag("confirmed", true),
			flag("count_in_total", true),
			text("tag"),
		},
	},
	KindAttachment: {
		Kind: KindAttachment,
		Key:  ColID,
		Fields: []Field{
			required(text("file")),
			required(text("name")),
			text("type"),
			{Name: "size", Type: TypeInteger, Default: int64(0)},
			text("tag"),
		},
	},
}
