package domain

import "strings"

const (
	DefaultCurrency       = "INR"
	DefaultPrimaryColor   = "#4F46E5"
	DefaultSecondaryColor = "#1E40AF"
	DefaultAccentColor    = "#EF4444"
	DefaultFontFamily     = "Inter"
)

// FontFamilies lists the selectable font choices in display order.
var FontFamilies = []string{
	"Inter",
	"Arial",
	"Helvetica",
	"Times New Roman",
	"Georgia",
	"Roboto",
}

// SuggestedNotes is the built-in pool used when notes are refreshed.
var SuggestedNotes = []string{
	"Thank you for choosing us! We hope your experience was pleasant and seamless.",
	"Your purchase supports our community! Thank you for being a part of our journey.",
	"We value your feedback! Help us improve by sharing your thoughts.",
	"Save more with our loyalty program! Ask about it on your next visit.",
	"Need assistance? We're here to help! Reach out to our customer support.",
	"Keep this receipt for returns or exchanges within 30 days.",
	"Every purchase makes a difference! Thank you for supporting sustainability.",
	"Have a great day! Thank you for your business.",
	"Thank you for shopping with us. We look forward to serving you again!",
	"Your satisfaction is our top priority. Don't hesitate to contact us.",
}

// Defaults holds the creation-time values that may be overridden by configuration.
type Defaults struct {
	Currency string
	Branding Branding
	Notes    []string
}

// BuiltinDefaults returns the defaults used when no configuration overrides them.
func BuiltinDefaults() Defaults {
	notes := make([]string, len(SuggestedNotes))
	copy(notes, SuggestedNotes)
	return Defaults{
		Currency: DefaultCurrency,
		Branding: DefaultBranding(),
		Notes:    notes,
	}
}

// DefaultBranding returns the built-in branding.
func DefaultBranding() Branding {
	return Branding{
		PrimaryColor:   DefaultPrimaryColor,
		SecondaryColor: DefaultSecondaryColor,
		AccentColor:    DefaultAccentColor,
		FontFamily:     DefaultFontFamily,
		LogoPosition:   LogoLeft,
		ShowLogo:       true,
	}
}

// EmptyItem is the line added by AddItem and used to seed new documents.
func EmptyItem() Item {
	return Item{}
}

// NewDocument builds a fresh document with the given invoice number.
func NewDocument(defaults Defaults, number string) Document {
	return Document{
		Invoice:          InvoiceMeta{Number: number},
		Items:            []Item{EmptyItem()},
		SelectedCurrency: defaults.Currency,
		Branding:         defaults.Branding,
	}
}

// IsFontFamily reports whether name is one of FontFamilies.
func IsFontFamily(name string) bool {
	for _, f := range FontFamilies {
		if f == name {
			return true
		}
	}
	return false
}

// IsHexColor reports whether value is a #RRGGBB color.
func IsHexColor(value string) bool {
	if len(value) != 7 || value[0] != '#' {
		return false
	}
	return strings.IndexFunc(value[1:], func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F')
	}) < 0
}
