package repository

// Wallet represents a wallet row with its computed balance.
type Wallet struct {
	ID           int64   `json:"id" yaml:"id"`
	UUID         string  `json:"uuid" yaml:"uuid"`
	Name         string  `json:"name" yaml:"name"`
	Icon         *string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Currency     string  `json:"currency" yaml:"currency"`
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Decimals     int     `json:"decimals" yaml:"decimals"`
	StartMoney   int64   `json:"start_money" yaml:"start_money"`
	Balance      int64   `json:"balance" yaml:"balance"`
	CountInTotal bool    `json:"count_in_total" yaml:"count_in_total"`
	Archived     bool    `json:"archived" yaml:"archived"`
	Position     int     `json:"position" yaml:"position"`
}

// Category represents a category row. Children is filled by Tree only.
type Category struct {
	ID         int64      `json:"id" yaml:"id"`
	UUID       string     `json:"uuid" yaml:"uuid"`
	ParentID   *int64     `json:"parent,omitempty" yaml:"parent,omitempty"`
	Name       string     `json:"name" yaml:"name"`
	Icon       *string    `json:"icon,omitempty" yaml:"icon,omitempty"`
	Type       int64      `json:"type" yaml:"type"`
	Tag        *string    `json:"tag,omitempty" yaml:"tag,omitempty"`
	ShowReport bool       `json:"show_report" yaml:"show_report"`
	Position   int        `json:"position" yaml:"position"`
	Children   []Category `json:"children,omitempty" yaml:"children,omitempty"`
}
