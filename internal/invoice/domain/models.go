// Package domain contains the invoice document model and its creation defaults.
package domain

// Party is a bill-to or ship-to recipient.
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// InvoiceMeta holds the invoice identifier and its calendar dates (YYYY-MM-DD).
type InvoiceMeta struct {
	Number      string `json:"number"`
	Date        string `json:"date"`
	PaymentDate string `json:"paymentDate"`
}

// Company is the issuing business. Logo is empty or a base64 image data URI.
type Company struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}

// Item is one billable line. Total is derived from Quantity and Amount.
type Item struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Amount      float64 `json:"amount"`
	Total       float64 `json:"total"`
}

// LogoPosition places the logo inside the header.
type LogoPosition string

const (
	LogoLeft   LogoPosition = "left"
	LogoCenter LogoPosition = "center"
	LogoRight  LogoPosition = "right"
)

// Valid reports whether p is one of the supported positions.
func (p LogoPosition) Valid() bool {
	switch p {
	case LogoLeft, LogoCenter, LogoRight:
		return true
	default:
		return false
	}
}

// Branding carries the visual choices applied by templates.
type Branding struct {
	PrimaryColor   string       `json:"primaryColor"`
	SecondaryColor string       `json:"secondaryColor"`
	AccentColor    string       `json:"accentColor"`
	FontFamily     string       `json:"fontFamily"`
	LogoPosition   LogoPosition `json:"logoPosition"`
	ShowLogo       bool         `json:"showLogo"`
}

// Document is the full business record of one invoice.
//
// SubTotal, TaxAmount and GrandTotal are recomputed by the owning service and
// persisted for readers of the stored record; they are never trusted on load.
type Document struct {
	BillTo           Party       `json:"billTo"`
	ShipTo           Party       `json:"shipTo"`
	Invoice          InvoiceMeta `json:"invoice"`
	YourCompany      Company     `json:"yourCompany"`
	Items            []Item      `json:"items"`
	TaxPercentage    float64     `json:"taxPercentage"`
	TaxAmount        float64     `json:"taxAmount"`
	SubTotal         float64     `json:"subTotal"`
	GrandTotal       float64     `json:"grandTotal"`
	Notes            string      `json:"notes"`
	SelectedCurrency string      `json:"selectedCurrency"`
	Branding         Branding    `json:"branding"`
}

// Clone returns a deep copy safe to hand to readers.
func (d Document) Clone() Document {
	out := d
	if d.Items != nil {
		out.Items = make([]Item, len(d.Items))
		copy(out.Items, d.Items)
	}
	return out
}
