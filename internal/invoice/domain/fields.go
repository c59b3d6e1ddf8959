package domain

// PartyField names a settable field of a Party.
type PartyField string

const (
	PartyName    PartyField = "name"
	PartyAddress PartyField = "address"
	PartyPhone   PartyField = "phone"
)

// Apply writes value into the named field of p.
func (f PartyField) Apply(p *Party, value string) error {
	switch f {
	case PartyName:
		p.Name = value
	case PartyAddress:
		p.Address = value
	case PartyPhone:
		p.Phone = value
	default:
		return ErrInvalidField
	}
	return nil
}

// CompanyField names a settable text field of the Company. The logo has its own setter.
type CompanyField string

const (
	CompanyName    CompanyField = "name"
	CompanyAddress CompanyField = "address"
	CompanyPhone   CompanyField = "phone"
	CompanyEmail   CompanyField = "email"
	CompanyWebsite CompanyField = "website"
)

// Apply writes value into the named field of c.
func (f CompanyField) Apply(c *Company, value string) error {
	switch f {
	case CompanyName:
		c.Name = value
	case CompanyAddress:
		c.Address = value
	case CompanyPhone:
		c.Phone = value
	case CompanyEmail:
		c.Email = value
	case CompanyWebsite:
		c.Website = value
	default:
		return ErrInvalidField
	}
	return nil
}

// InvoiceField names a settable field of InvoiceMeta.
type InvoiceField string

const (
	InvoiceNumber      InvoiceField = "number"
	InvoiceDate        InvoiceField = "date"
	InvoicePaymentDate InvoiceField = "paymentDate"
)

// Apply writes value into the named field of m.
func (f InvoiceField) Apply(m *InvoiceMeta, value string) error {
	switch f {
	case InvoiceNumber:
		m.Number = value
	case InvoiceDate:
		m.Date = value
	case InvoicePaymentDate:
		m.PaymentDate = value
	default:
		return ErrInvalidField
	}
	return nil
}

// ItemField names a text field of an Item. Quantity and amount have numeric setters.
type ItemField string

const (
	ItemName        ItemField = "name"
	ItemDescription ItemField = "description"
)

// Apply writes value into the named field of it.
func (f ItemField) Apply(it *Item, value string) error {
	switch f {
	case ItemName:
		it.Name = value
	case ItemDescription:
		it.Description = value
	default:
		return ErrInvalidField
	}
	return nil
}

// BrandingField names a branding attribute.
type BrandingField string

const (
	BrandingPrimaryColor   BrandingField = "primaryColor"
	BrandingSecondaryColor BrandingField = "secondaryColor"
	BrandingAccentColor    BrandingField = "accentColor"
	BrandingFontFamily     BrandingField = "fontFamily"
	BrandingLogoPosition   BrandingField = "logoPosition"
	BrandingShowLogo       BrandingField = "showLogo"
)

// Apply validates and writes a string-valued branding attribute into b.
// ShowLogo is boolean and set through its own setter.
func (f BrandingField) Apply(b *Branding, value string) error {
	switch f {
	case BrandingPrimaryColor, BrandingSecondaryColor, BrandingAccentColor:
		if !IsHexColor(value) {
			return ErrInvalidColor
		}
		switch f {
		case BrandingPrimaryColor:
			b.PrimaryColor = value
		case BrandingSecondaryColor:
			b.SecondaryColor = value
		default:
			b.AccentColor = value
		}
	case BrandingFontFamily:
		if !IsFontFamily(value) {
			return ErrUnsupportedFont
		}
		b.FontFamily = value
	case BrandingLogoPosition:
		pos := LogoPosition(value)
		if !pos.Valid() {
			return ErrInvalidLogoPosition
		}
		b.LogoPosition = pos
	default:
		return ErrInvalidField
	}
	return nil
}
