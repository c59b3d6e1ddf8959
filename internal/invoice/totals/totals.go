// Package totals derives invoice totals from line items.
package totals

import "github.com/smallbiznis/billium/internal/invoice/domain"

// Totals are the derived amounts of a document.
type Totals struct {
	SubTotal   float64
	TaxAmount  float64
	GrandTotal float64
}

// Compute sums quantity*amount over items and applies taxPercentage on top.
// No rounding happens here; negative inputs propagate.
func Compute(items []domain.Item, taxPercentage float64) Totals {
	var sub float64
	for _, item := range items {
		sub += LineTotal(item)
	}
	tax := sub * taxPercentage / 100
	return Totals{
		SubTotal:   sub,
		TaxAmount:  tax,
		GrandTotal: sub + tax,
	}
}

// LineTotal is the derived total of one item.
func LineTotal(item domain.Item) float64 {
	return item.Quantity * item.Amount
}

// Apply recomputes every item total and the document totals in place.
func Apply(doc *domain.Document) Totals {
	for i := range doc.Items {
		doc.Items[i].Total = LineTotal(doc.Items[i])
	}
	t := Compute(doc.Items, doc.TaxPercentage)
	doc.SubTotal = t.SubTotal
	doc.TaxAmount = t.TaxAmount
	doc.GrandTotal = t.GrandTotal
	return t
}
