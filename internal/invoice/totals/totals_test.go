package totals

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompute_SampleInvoice(t *testing.T) {
	items := []domain.Item{
		{Quantity: 2, Amount: 50},
		{Quantity: 1, Amount: 200},
		{Quantity: 3, Amount: 30},
	}

	got := Compute(items, 10)

	assert.InDelta(t, 390, got.SubTotal, 1e-9)
	assert.InDelta(t, 39, got.TaxAmount, 1e-9)
	assert.InDelta(t, 429, got.GrandTotal, 1e-9)
}

func TestCompute_IgnoresStaleTotals(t *testing.T) {
	items := []domain.Item{{Quantity: 4, Amount: 2.5, Total: 999}}

	got := Compute(items, 0)

	assert.Equal(t, 10.0, got.SubTotal)
	assert.Equal(t, 10.0, got.GrandTotal)
}

func TestCompute_NegativeValuesPropagate(t *testing.T) {
	items := []domain.Item{{Quantity: -2, Amount: 10}, {Quantity: 1, Amount: 5}}

	got := Compute(items, 150)

	assert.InDelta(t, -15, got.SubTotal, 1e-9)
	assert.InDelta(t, -22.5, got.TaxAmount, 1e-9)
	assert.InDelta(t, -37.5, got.GrandTotal, 1e-9)
}

func TestCompute_RandomizedProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for n := 0; n < 200; n++ {
		items := make([]domain.Item, 1+r.IntN(8))
		var want float64
		for i := range items {
			items[i] = domain.Item{
				Quantity: math.Round(r.Float64()*100) / 4,
				Amount:   math.Round(r.Float64()*10000) / 100,
			}
			want += items[i].Quantity * items[i].Amount
		}
		tax := r.Float64() * 100

		got := Compute(items, tax)

		assert.InDelta(t, want, got.SubTotal, 1e-9)
		assert.InDelta(t, got.SubTotal*tax/100, got.TaxAmount, 1e-9)
		assert.InDelta(t, got.SubTotal+got.TaxAmount, got.GrandTotal, 1e-9)
	}
}

func TestApply_RecomputesItemsAndDocument(t *testing.T) {
	doc := domain.Document{
		Items:         []domain.Item{{Quantity: 3, Amount: 7, Total: 1}},
		TaxPercentage: 50,
	}

	Apply(&doc)

	assert.Equal(t, 21.0, doc.Items[0].Total)
	assert.Equal(t, 21.0, doc.SubTotal)
	assert.Equal(t, 10.5, doc.TaxAmount)
	assert.Equal(t, 31.5, doc.GrandTotal)
}
