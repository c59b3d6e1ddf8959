package format

import (
	"errors"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrUnsupportedCurrency = errors.New("unsupported_currency")

// symbols maps the supported ISO 4217 codes to their display symbol.
var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// supportedOrder is the display order of SupportedCurrencies.
var supportedOrder = []string{"INR", "USD", "EUR", "GBP"}

// printers holds the grouping locale of each supported currency.
var printers = map[string]*message.Printer{
	"INR": message.NewPrinter(language.MustParse("en-IN")),
	"USD": message.NewPrinter(language.AmericanEnglish),
	"EUR": message.NewPrinter(language.English),
	"GBP": message.NewPrinter(language.BritishEnglish),
}

// SupportedCurrencies returns the selectable currency codes.
func SupportedCurrencies() []string {
	out := make([]string, len(supportedOrder))
	copy(out, supportedOrder)
	return out
}

// NormalizeCurrency upper-cases and validates a currency code.
func NormalizeCurrency(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := symbols[normalized]; !ok {
		return "", ErrUnsupportedCurrency
	}
	if _, err := currency.ParseISO(normalized); err != nil {
		return "", ErrUnsupportedCurrency
	}
	return normalized, nil
}

// SymbolFor returns the display symbol of a supported currency.
func SymbolFor(code string) (string, error) {
	normalized, err := NormalizeCurrency(code)
	if err != nil {
		return "", err
	}
	return symbols[normalized], nil
}

// FormatAmount renders amount with the currency symbol, the digit grouping of
// the currency's locale and exactly two decimals. INR groups in lakhs
// (12,34,567.89). Rounding happens only here.
func FormatAmount(amount float64, code string) (string, error) {
	normalized, err := NormalizeCurrency(code)
	if err != nil {
		return "", err
	}
	symbol := symbols[normalized]

	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := printers[normalized].Sprintf("%.2f", amount)
	if digits == "0.00" {
		sign = ""
	}
	return sign + symbol + digits, nil
}
