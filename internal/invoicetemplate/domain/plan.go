package domain

import invoicedomain "github.com/smallbiznis/billium/internal/invoice/domain"

const (
	SurfaceWidth  = 794
	SurfaceHeight = 1123
)

// Size is a logical surface size in CSS pixels.
type Size struct {
	Width  int
	Height int
}

// SectionKind names a logical block of an invoice layout.
type SectionKind string

const (
	SectionHeader  SectionKind = "header"
	SectionBilling SectionKind = "billing"
	SectionItems   SectionKind = "items"
	SectionTotals  SectionKind = "totals"
	SectionNotes   SectionKind = "notes"
)

// Palette holds the branding colors a template honors. Colors a template does
// not use are left empty.
type Palette struct {
	Primary   string
	Secondary string
	Accent    string
}

// LogoSlot describes a logo that must be drawn.
type LogoSlot struct {
	DataURI  string
	Position invoicedomain.LogoPosition
	Alt      string
}

// Field binds a labelled value to a document path.
type Field struct {
	Label   string
	Value   string
	Binding string
}

// ColumnKey identifies the item attribute shown in a table column.
type ColumnKey string

const (
	ColumnIndex    ColumnKey = "index"
	ColumnItem     ColumnKey = "item"
	ColumnQuantity ColumnKey = "quantity"
	ColumnRate     ColumnKey = "rate"
	ColumnTotal    ColumnKey = "total"
)

// Column is one header cell of the items table.
type Column struct {
	Key   ColumnKey
	Label string
}

// ItemRow is one formatted line of the items table.
type ItemRow struct {
	Index       string
	Name        string
	Description string
	Quantity    string
	Rate        string
	Total       string
}

// Cell returns the formatted value shown under the column key.
func (r ItemRow) Cell(key ColumnKey) string {
	switch key {
	case ColumnIndex:
		return r.Index
	case ColumnItem:
		return r.Name
	case ColumnQuantity:
		return r.Quantity
	case ColumnRate:
		return r.Rate
	case ColumnTotal:
		return r.Total
	default:
		return ""
	}
}

// Section is one block of the layout, in drawing order.
type Section struct {
	Kind SectionKind
	// Title is the heading shown above the block; empty means none.
	Title string
	// Fill is the background color of the block; empty means the page background.
	Fill    string
	Fields  []Field
	Columns []Column
	Rows    []ItemRow
}

// RenderPlan is the resolved layout of a document under one template.
type RenderPlan struct {
	Template   TemplateDescriptor
	Surface    Size
	Palette    Palette
	FontFamily string
	Honored    []invoicedomain.BrandingField
	Logo       *LogoSlot
	Currency   string
	Sections   []Section
}

// Section returns the first section of the given kind.
func (p RenderPlan) Section(kind SectionKind) (Section, bool) {
	for _, s := range p.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Honors reports whether the plan applies the branding field.
func (p RenderPlan) Honors(field invoicedomain.BrandingField) bool {
	for _, f := range p.Honored {
		if f == field {
			return true
		}
	}
	return false
}
