package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/smallbiznis/billium/internal/invoice/totals"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const companyPlaceholder = "Your Company Name"

type Params struct {
	fx.In

	Log *zap.Logger
}

// Service is the fixed template registry and the selector that resolves a
// template id against a document.
type Service struct {
	log         *zap.Logger
	descriptors []templatedomain.TemplateDescriptor
}

func NewService(p Params) *Service {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	descriptors := make([]templatedomain.TemplateDescriptor, 0, len(registrationOrder))
	for i, kind := range registrationOrder {
		id := i + 1
		descriptors = append(descriptors, templatedomain.TemplateDescriptor{
			ID:           id,
			Name:         layouts[kind].name,
			Kind:         kind,
			PreviewAsset: templatedomain.PreviewAssetPath(id),
		})
	}
	return &Service{
		log:         log.Named("invoicetemplate.service"),
		descriptors: descriptors,
	}
}

// List returns the registered templates in id order.
func (s *Service) List() []templatedomain.TemplateDescriptor {
	out := make([]templatedomain.TemplateDescriptor, len(s.descriptors))
	copy(out, s.descriptors)
	return out
}

// Get returns the template registered under id.
func (s *Service) Get(id int) (templatedomain.TemplateDescriptor, error) {
	if id < 1 || id > len(s.descriptors) {
		return templatedomain.TemplateDescriptor{}, fmt.Errorf("template %d: %w", id, templatedomain.ErrUnknownTemplate)
	}
	return s.descriptors[id-1], nil
}

// Resolve lays doc out with the template registered under id. The document is
// read only.
func (s *Service) Resolve(id int, doc domain.Document) (templatedomain.RenderPlan, error) {
	desc, err := s.Get(id)
	if err != nil {
		return templatedomain.RenderPlan{}, err
	}
	rule := layouts[desc.Kind]

	currency, err := format.NormalizeCurrency(doc.SelectedCurrency)
	if err != nil {
		return templatedomain.RenderPlan{}, err
	}
	money := func(v float64) string {
		out, _ := format.FormatAmount(v, currency)
		return out
	}

	palette := templatedomain.Palette{Primary: doc.Branding.PrimaryColor}
	if rule.secondary {
		palette.Secondary = doc.Branding.SecondaryColor
	}
	if rule.accent {
		palette.Accent = doc.Branding.AccentColor
	}

	sums := totals.Compute(doc.Items, doc.TaxPercentage)

	plan := templatedomain.RenderPlan{
		Template:   desc,
		Surface:    templatedomain.Size{Width: templatedomain.SurfaceWidth, Height: templatedomain.SurfaceHeight},
		Palette:    palette,
		FontFamily: doc.Branding.FontFamily,
		Honored:    rule.honored(),
		Logo:       logoSlot(doc),
		Currency:   currency,
	}

	for _, kind := range rule.order {
		switch kind {
		case templatedomain.SectionHeader:
			plan.Sections = append(plan.Sections, headerSection(rule, palette, doc))
		case templatedomain.SectionBilling:
			plan.Sections = append(plan.Sections, billingSection(rule, palette, doc, money(sums.GrandTotal)))
		case templatedomain.SectionItems:
			plan.Sections = append(plan.Sections, itemsSection(rule, palette, doc, money))
		case templatedomain.SectionTotals:
			plan.Sections = append(plan.Sections, totalsSection(rule, palette, doc, sums, money))
		case templatedomain.SectionNotes:
			plan.Sections = append(plan.Sections, templatedomain.Section{
				Kind:   templatedomain.SectionNotes,
				Title:  "Notes",
				Fields: []templatedomain.Field{{Label: "Notes", Value: doc.Notes, Binding: "notes"}},
			})
		}
	}

	s.log.Debug("template resolved",
		zap.Int("template_id", desc.ID),
		zap.String("kind", desc.Kind.String()),
		zap.Bool("logo", plan.Logo != nil),
	)
	return plan, nil
}

// logoSlot returns nil when the logo must not be drawn at all.
func logoSlot(doc domain.Document) *templatedomain.LogoSlot {
	if !doc.Branding.ShowLogo || strings.TrimSpace(doc.YourCompany.Logo) == "" {
		return nil
	}
	position := doc.Branding.LogoPosition
	if !position.Valid() {
		position = domain.LogoLeft
	}
	alt := doc.YourCompany.Name
	if alt == "" {
		alt = "Company Logo"
	}
	return &templatedomain.LogoSlot{
		DataURI:  doc.YourCompany.Logo,
		Position: position,
		Alt:      alt,
	}
}

func headerSection(rule layout, palette templatedomain.Palette, doc domain.Document) templatedomain.Section {
	company := doc.YourCompany
	name := company.Name
	if name == "" {
		name = companyPlaceholder
	}
	fields := []templatedomain.Field{
		{Label: "Company", Value: name, Binding: "yourCompany.name"},
		{Label: "Address", Value: company.Address, Binding: "yourCompany.address"},
		{Label: "Phone", Value: company.Phone, Binding: "yourCompany.phone"},
	}
	if company.Email != "" {
		fields = append(fields, templatedomain.Field{Label: "Email", Value: company.Email, Binding: "yourCompany.email"})
	}
	if company.Website != "" {
		fields = append(fields, templatedomain.Field{Label: "Website", Value: company.Website, Binding: "yourCompany.website"})
	}

	section := templatedomain.Section{
		Kind:   templatedomain.SectionHeader,
		Title:  rule.heading,
		Fields: fields,
	}
	if rule.headerFill {
		section.Fill = palette.Primary
	}
	return section
}

func billingSection(rule layout, palette templatedomain.Palette, doc domain.Document, due string) templatedomain.Section {
	return templatedomain.Section{
		Kind: templatedomain.SectionBilling,
		Fill: palette.Secondary,
		Fields: []templatedomain.Field{
			{Label: rule.billTo, Value: doc.BillTo.Name, Binding: "billTo.name"},
			{Label: rule.billTo + " Address", Value: doc.BillTo.Address, Binding: "billTo.address"},
			{Label: rule.billTo + " Phone", Value: doc.BillTo.Phone, Binding: "billTo.phone"},
			{Label: rule.shipTo, Value: doc.ShipTo.Name, Binding: "shipTo.name"},
			{Label: rule.shipTo + " Address", Value: doc.ShipTo.Address, Binding: "shipTo.address"},
			{Label: rule.shipTo + " Phone", Value: doc.ShipTo.Phone, Binding: "shipTo.phone"},
			{Label: "Invoice #", Value: doc.Invoice.Number, Binding: "invoice.number"},
			{Label: "Invoice Date", Value: doc.Invoice.Date, Binding: "invoice.date"},
			{Label: "Due Date", Value: doc.Invoice.PaymentDate, Binding: "invoice.paymentDate"},
			{Label: "Due Amount", Value: due, Binding: "grandTotal"},
		},
	}
}

func itemsSection(rule layout, palette templatedomain.Palette, doc domain.Document, money func(float64) string) templatedomain.Section {
	rows := make([]templatedomain.ItemRow, 0, len(doc.Items))
	for i, item := range doc.Items {
		rows = append(rows, templatedomain.ItemRow{
			Index:       fmt.Sprintf("%02d", i+1),
			Name:        item.Name,
			Description: item.Description,
			Quantity:    formatQuantity(item.Quantity),
			Rate:        money(item.Amount),
			Total:       money(totals.LineTotal(item)),
		})
	}
	return templatedomain.Section{
		Kind:    templatedomain.SectionItems,
		Fill:    palette.Primary,
		Columns: append([]templatedomain.Column(nil), rule.columns...),
		Rows:    rows,
	}
}

func totalsSection(rule layout, palette templatedomain.Palette, doc domain.Document, sums totals.Totals, money func(float64) string) templatedomain.Section {
	fields := []templatedomain.Field{
		{Label: "Sub Total", Value: money(sums.SubTotal), Binding: "subTotal"},
	}
	if doc.TaxPercentage > 0 {
		fields = append(fields, templatedomain.Field{
			Label:   "Tax (" + strconv.FormatFloat(doc.TaxPercentage, 'f', -1, 64) + "%)",
			Value:   money(sums.TaxAmount),
			Binding: "taxAmount",
		})
	}
	fields = append(fields, templatedomain.Field{Label: rule.totalLabel, Value: money(sums.GrandTotal), Binding: "grandTotal"})

	fill := palette.Primary
	if palette.Accent != "" {
		fill = palette.Accent
	}
	return templatedomain.Section{
		Kind:   templatedomain.SectionTotals,
		Fill:   fill,
		Fields: fields,
	}
}

func formatQuantity(value float64) string {
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(value, 'f', 2, 64), "0"), ".")
}
