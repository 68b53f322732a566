// Package currency is the ISO-4217 catalog the store seeds and validates
// currency rows against.
package currency

import (
	"fmt"
	"strings"

	xcurrency "golang.org/x/text/currency"
)

// Info describes one currency row.
type Info struct {
	ISO      string
	Name     string
	Symbol   string
	Decimals int
}

var known = []Info{
	{ISO: "EUR", Name: "Euro", Symbol: "€"},
	{ISO: "USD", Name: "US Dollar", Symbol: "$"},
	{ISO: "GBP", Name: "British Pound", Symbol: "£"},
	{ISO: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
	{ISO: "JPY", Name: "Japanese Yen", Symbol: "¥"},
	{ISO: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	{ISO: "AUD", Name: "Australian Dollar", Symbol: "A$"},
	{ISO: "CAD", Name: "Canadian Dollar", Symbol: "C$"},
	{ISO: "SEK", Name: "Swedish Krona", Symbol: "kr"},
	{ISO: "NOK", Name: "Norwegian Krone", Symbol: "kr"},
	{ISO: "PLN", Name: "Polish Zloty", Symbol: "zł"},
	{ISO: "INR", Name: "Indian Rupee", Symbol: "₹"},
	{ISO: "BRL", Name: "Brazilian Real", Symbol: "R$"},
	{ISO: "KWD", Name: "Kuwaiti Dinar", Symbol: "KD"},
}

// Catalog returns the currencies seeded into a new store.
func Catalog() []Info {
	out := make([]Info, 0, len(known))
	for _, c := range known {
		info, err := Lookup(c.ISO)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out
}

// Lookup validates iso and returns its description. Codes missing from the
// seed catalog still resolve, named after their code.
func Lookup(iso string) (Info, error) {
	code := strings.ToUpper(strings.TrimSpace(iso))
	unit, err := xcurrency.ParseISO(code)
	if err != nil {
		return Info{}, fmt.Errorf("currency %q: %w", iso, err)
	}
	scale, _ := xcurrency.Standard.Rounding(unit)
	info := Info{ISO: unit.String(), Name: unit.String(), Symbol: unit.String(), Decimals: scale}
	for _, c := range known {
		if c.ISO == info.ISO {
			info.Name = c.Name
			info.Symbol = c.Symbol
			break
		}
	}
	return info, nil
}

// Valid reports whether iso is a recognised ISO-4217 code.
func Valid(iso string) bool {
	_, err := Lookup(iso)
	return err == nil
}
