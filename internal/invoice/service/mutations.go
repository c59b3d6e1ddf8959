package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"go.uber.org/zap"
)

func (s *Service) SetBillTo(ctx context.Context, field domain.PartyField, value string) error {
	return s.mutate(ctx, "set_bill_to", func(doc *domain.Document) error {
		return field.Apply(&doc.BillTo, value)
	})
}

func (s *Service) SetShipTo(ctx context.Context, field domain.PartyField, value string) error {
	return s.mutate(ctx, "set_ship_to", func(doc *domain.Document) error {
		return field.Apply(&doc.ShipTo, value)
	})
}

// CopyBillToShip copies the bill-to party into ship-to. Later edits to either
// party do not affect the other.
func (s *Service) CopyBillToShip(ctx context.Context) {
	_ = s.mutate(ctx, "copy_bill_to_ship", func(doc *domain.Document) error {
		doc.ShipTo = doc.BillTo
		return nil
	})
}

func (s *Service) SetCompany(ctx context.Context, field domain.CompanyField, value string) error {
	return s.mutate(ctx, "set_company", func(doc *domain.Document) error {
		return field.Apply(&doc.YourCompany, value)
	})
}

func (s *Service) SetInvoice(ctx context.Context, field domain.InvoiceField, value string) error {
	return s.mutate(ctx, "set_invoice", func(doc *domain.Document) error {
		return field.Apply(&doc.Invoice, value)
	})
}

// RegenerateNumber replaces the invoice number and returns the new one.
func (s *Service) RegenerateNumber(ctx context.Context) string {
	number := s.numbers.Generate()
	_ = s.mutate(ctx, "regenerate_number", func(doc *domain.Document) error {
		doc.Invoice.Number = number
		return nil
	})
	return number
}

func itemAt(doc *domain.Document, index int) (*domain.Item, error) {
	if index < 0 || index >= len(doc.Items) {
		return nil, domain.ErrItemIndex
	}
	return &doc.Items[index], nil
}

func (s *Service) SetItem(ctx context.Context, index int, field domain.ItemField, value string) error {
	return s.mutate(ctx, "set_item", func(doc *domain.Document) error {
		item, err := itemAt(doc, index)
		if err != nil {
			return err
		}
		return field.Apply(item, value)
	})
}

// finite rejects NaN and infinities, which the record codec cannot encode.
func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidField, field)
	}
	return nil
}

// SetItemQuantity sets the quantity of one item. Negative values are accepted.
func (s *Service) SetItemQuantity(ctx context.Context, index int, quantity float64) error {
	return s.mutate(ctx, "set_item_quantity", func(doc *domain.Document) error {
		item, err := itemAt(doc, index)
		if err != nil {
			return err
		}
		if err := finite("quantity", quantity); err != nil {
			return err
		}
		if quantity < 0 {
			s.log.Debug("negative quantity accepted", zap.Int("index", index), zap.Float64("quantity", quantity))
		}
		item.Quantity = quantity
		return nil
	})
}

// SetItemAmount sets the unit rate of one item. Negative values are accepted.
func (s *Service) SetItemAmount(ctx context.Context, index int, amount float64) error {
	return s.mutate(ctx, "set_item_amount", func(doc *domain.Document) error {
		item, err := itemAt(doc, index)
		if err != nil {
			return err
		}
		if err := finite("amount", amount); err != nil {
			return err
		}
		if amount < 0 {
			s.log.Debug("negative amount accepted", zap.Int("index", index), zap.Float64("amount", amount))
		}
		item.Amount = amount
		return nil
	})
}

// AddItem appends an empty item and returns its index.
func (s *Service) AddItem(ctx context.Context) int {
	var index int
	_ = s.mutate(ctx, "add_item", func(doc *domain.Document) error {
		doc.Items = append(doc.Items, domain.EmptyItem())
		index = len(doc.Items) - 1
		return nil
	})
	return index
}

// RemoveItem removes the item at index. The last remaining item cannot be removed.
func (s *Service) RemoveItem(ctx context.Context, index int) error {
	return s.mutate(ctx, "remove_item", func(doc *domain.Document) error {
		if _, err := itemAt(doc, index); err != nil {
			return err
		}
		if len(doc.Items) == 1 {
			return domain.ErrLastItem
		}
		doc.Items = append(doc.Items[:index], doc.Items[index+1:]...)
		return nil
	})
}

// SetTaxPercentage sets the tax rate. Values outside 0..100 are accepted.
func (s *Service) SetTaxPercentage(ctx context.Context, percentage float64) error {
	return s.mutate(ctx, "set_tax_percentage", func(doc *domain.Document) error {
		if err := finite("taxPercentage", percentage); err != nil {
			return err
		}
		if percentage < 0 || percentage > 100 {
			s.log.Debug("tax percentage outside 0..100 accepted", zap.Float64("tax_percentage", percentage))
		}
		doc.TaxPercentage = percentage
		return nil
	})
}

func (s *Service) SetCurrency(ctx context.Context, code string) error {
	normalized, err := format.NormalizeCurrency(code)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "set_currency", func(doc *domain.Document) error {
		doc.SelectedCurrency = normalized
		return nil
	})
}

func (s *Service) SetBranding(ctx context.Context, field domain.BrandingField, value string) error {
	return s.mutate(ctx, "set_branding", func(doc *domain.Document) error {
		return field.Apply(&doc.Branding, value)
	})
}

func (s *Service) SetShowLogo(ctx context.Context, show bool) {
	_ = s.mutate(ctx, "set_show_logo", func(doc *domain.Document) error {
		doc.Branding.ShowLogo = show
		return nil
	})
}

func (s *Service) SetNotes(ctx context.Context, notes string) {
	_ = s.mutate(ctx, "set_notes", func(doc *domain.Document) error {
		doc.Notes = notes
		return nil
	})
}

// RefreshNotes replaces the notes with a random entry of the suggested pool
// and returns it.
func (s *Service) RefreshNotes(ctx context.Context) string {
	pool := s.defaults.Get().Notes
	if len(pool) == 0 {
		pool = domain.SuggestedNotes
	}
	note := pool[s.pick(len(pool))]
	s.SetNotes(ctx, note)
	return note
}

// FillSample replaces parties, company, invoice, items, tax and notes with
// demonstration data. Currency and branding are kept.
func (s *Service) FillSample(ctx context.Context) {
	now := s.today()
	number := s.numbers.Generate()
	_ = s.mutate(ctx, "fill_sample", func(doc *domain.Document) error {
		doc.YourCompany = domain.Company{
			Name:    "Acme Corp",
			Address: "789 Oak St, Businessville, USA",
			Phone:   "(555) 555-5555",
			Email:   "hello@acmecorp.com",
			Website: "www.acmecorp.com",
		}
		doc.BillTo = domain.Party{Name: "John Doe", Address: "123 Main St, Anytown, USA", Phone: "(555) 123-4567"}
		doc.ShipTo = domain.Party{Name: "Jane Smith", Address: "456 Elm St, Othertown, USA", Phone: "(555) 987-6543"}
		doc.Invoice = domain.InvoiceMeta{
			Number:      number,
			Date:        now.Format(time.DateOnly),
			PaymentDate: now.Add(30 * 24 * time.Hour).Format(time.DateOnly),
		}
		doc.Items = []domain.Item{
			{Name: "Product A", Description: "High-quality item", Quantity: 2, Amount: 50},
			{Name: "Service B", Description: "Professional service", Quantity: 1, Amount: 200},
			{Name: "Product C", Description: "Another great product", Quantity: 3, Amount: 30},
		}
		doc.TaxPercentage = 10
		doc.Notes = sampleNote
		return nil
	})
}

// Clear resets the document and deletes the stored record. Currency and
// branding are kept; the cleared document is not saved.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.newDocument()
	next.SelectedCurrency = s.doc.SelectedCurrency
	next.Branding = s.doc.Branding
	s.doc = next
	s.metrics.RecordMutation("clear")

	if err := s.repo.Clear(ctx); err != nil {
		s.reportPersistError("clear", err)
	}
}
