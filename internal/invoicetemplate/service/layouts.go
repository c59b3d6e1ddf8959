package service

import (
	invoicedomain "github.com/smallbiznis/billium/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
)

// layout is the per-kind arrangement applied by Resolve.
type layout struct {
	name       string
	heading    string
	secondary  bool
	accent     bool
	headerFill bool
	order      []templatedomain.SectionKind
	columns    []templatedomain.Column
	billTo     string
	shipTo     string
	totalLabel string
}

var (
	standardOrder = []templatedomain.SectionKind{
		templatedomain.SectionHeader,
		templatedomain.SectionBilling,
		templatedomain.SectionItems,
		templatedomain.SectionTotals,
		templatedomain.SectionNotes,
	}
	notesBesideTotals = []templatedomain.SectionKind{
		templatedomain.SectionHeader,
		templatedomain.SectionBilling,
		templatedomain.SectionItems,
		templatedomain.SectionNotes,
		templatedomain.SectionTotals,
	}

	fullColumns = []templatedomain.Column{
		{Key: templatedomain.ColumnIndex, Label: "#"},
		{Key: templatedomain.ColumnItem, Label: "Item"},
		{Key: templatedomain.ColumnQuantity, Label: "Quantity"},
		{Key: templatedomain.ColumnRate, Label: "Rate"},
		{Key: templatedomain.ColumnTotal, Label: "Amount"},
	}
	compactColumns = []templatedomain.Column{
		{Key: templatedomain.ColumnIndex, Label: "#"},
		{Key: templatedomain.ColumnItem, Label: "Item"},
		{Key: templatedomain.ColumnQuantity, Label: "Qty."},
		{Key: templatedomain.ColumnTotal, Label: "Amount"},
	}
)

// layouts is indexed by template kind. Registration order is the kind order.
var layouts = map[templatedomain.Kind]layout{
	templatedomain.KindClassic: {
		name: "Classic", heading: "INVOICE", order: standardOrder, columns: fullColumns,
		billTo: "Bill To", shipTo: "Ship To", totalLabel: "Total",
	},
	templatedomain.KindCorporate: {
		name: "Corporate", heading: "INVOICE", secondary: true, headerFill: true,
		order: standardOrder, columns: fullColumns,
		billTo: "Billed To", shipTo: "Shipped To", totalLabel: "Grand Total",
	},
	templatedomain.KindVivid: {
		name: "Vivid", heading: "INVOICE", headerFill: true, order: notesBesideTotals,
		columns: compactColumns, billTo: "BILLED TO", shipTo: "SHIP TO", totalLabel: "Total",
	},
	templatedomain.KindMinimal: {
		name: "Minimal", heading: "Invoice", order: standardOrder, columns: fullColumns,
		billTo: "Bill To", shipTo: "Ship To", totalLabel: "Total",
	},
	templatedomain.KindCompact: {
		name: "Compact", heading: "INVOICE", secondary: true, accent: true,
		order: notesBesideTotals, columns: compactColumns,
		billTo: "Bill To", shipTo: "Ship To", totalLabel: "Total Due",
	},
	templatedomain.KindElegant: {
		name: "Elegant", heading: "Invoice", secondary: true, accent: true, headerFill: true,
		order: standardOrder, columns: fullColumns,
		billTo: "Billed To", shipTo: "Delivered To", totalLabel: "Total",
	},
	templatedomain.KindProfessional: {
		name: "Professional", heading: "TAX INVOICE", secondary: true,
		order: standardOrder, columns: fullColumns,
		billTo: "Bill To", shipTo: "Ship To", totalLabel: "Amount Due",
	},
	templatedomain.KindReceipt: {
		name: "Receipt", heading: "RECEIPT", accent: true, order: notesBesideTotals,
		columns: compactColumns, billTo: "Customer", shipTo: "Deliver To", totalLabel: "Total Paid",
	},
	templatedomain.KindLedger: {
		name: "Ledger", heading: "INVOICE", secondary: true, accent: true, headerFill: true,
		order: standardOrder, columns: fullColumns,
		billTo: "Bill To", shipTo: "Ship To", totalLabel: "Balance Due",
	},
}

var registrationOrder = []templatedomain.Kind{
	templatedomain.KindClassic,
	templatedomain.KindCorporate,
	templatedomain.KindVivid,
	templatedomain.KindMinimal,
	templatedomain.KindCompact,
	templatedomain.KindElegant,
	templatedomain.KindProfessional,
	templatedomain.KindReceipt,
	templatedomain.KindLedger,
}

// honored lists the branding fields a layout applies.
func (l layout) honored() []invoicedomain.BrandingField {
	fields := []invoicedomain.BrandingField{
		invoicedomain.BrandingPrimaryColor,
		invoicedomain.BrandingFontFamily,
		invoicedomain.BrandingShowLogo,
		invoicedomain.BrandingLogoPosition,
	}
	if l.secondary {
		fields = append(fields, invoicedomain.BrandingSecondaryColor)
	}
	if l.accent {
		fields = append(fields, invoicedomain.BrandingAccentColor)
	}
	return fields
}
