package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brlPrinter = message.NewPrinter(language.BrazilianPortuguese)

// BRL renders an amount as a Brazilian Real price string with locale
// separators, e.g. 1234.5 -> "R$ 1.234,50".
func BRL(amount float64) string {
	return brlPrinter.Sprintf("R$ %.2f", amount)
}
