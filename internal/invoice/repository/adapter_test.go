package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func newTestAdapter(store domain.Store, profile string) *Adapter {
	return NewAdapter(AdapterParams{
		Store:    store,
		Cfg:      config.Config{Storage: config.StorageConfig{Profile: profile}},
		Defaults: config.NewStaticDefaultsHolder(domain.BuiltinDefaults()),
		Numbers:  format.NewNumberGenerator(rand.NewPCG(7, 11)),
		Log:      zap.NewNop(),
	})
}

func sampleDocument() domain.Document {
	doc := domain.NewDocument(domain.BuiltinDefaults(), "INV-1001")
	doc.BillTo = domain.Party{Name: "John Doe", Address: "123 Main St", Phone: "555-0100"}
	doc.ShipTo = domain.Party{Name: "Jane Smith", Address: "9 Side Rd", Phone: "555-0101"}
	doc.Invoice.Date = "2026-10-14"
	doc.Invoice.PaymentDate = "2026-11-13"
	doc.YourCompany = domain.Company{Name: "Acme Corp", Email: "billing@acme.test"}
	doc.Items = []domain.Item{
		{Name: "Widget", Quantity: 2, Amount: 150, Total: 300},
		{Name: "Gadget", Description: "Blue", Quantity: 1, Amount: 90, Total: 90},
	}
	doc.TaxPercentage = 10
	doc.TaxAmount = 39
	doc.SubTotal = 390
	doc.GrandTotal = 429
	doc.Notes = "Have a great day! Thank you for your business."
	doc.SelectedCurrency = "USD"
	doc.Branding.FontFamily = "Georgia"
	doc.Branding.LogoPosition = domain.LogoRight
	return doc
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, compress := range []bool{false, true} {
		adapter := newTestAdapter(NewMemoryStore(compress), "")
		doc := sampleDocument()

		require.NoError(t, adapter.Save(ctx, doc))

		loaded, ok := adapter.Load(ctx)
		require.True(t, ok)
		assert.Equal(t, doc, *loaded)
	}
}

func TestAdapterRoundTripGorm(t *testing.T) {
	ctx := context.Background()
	store, err := NewGormStore(newTestDB(t), true)
	require.NoError(t, err)
	adapter := newTestAdapter(store, "Shop Front")
	doc := sampleDocument()

	require.NoError(t, adapter.Save(ctx, doc))

	loaded, ok := adapter.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, doc, *loaded)
	assert.Equal(t, "formData:shop-front", adapter.Key())
}

func TestAdapterLoadMissing(t *testing.T) {
	adapter := newTestAdapter(NewMemoryStore(false), "")

	doc, ok := adapter.Load(context.Background())
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestAdapterLoadCorruptRecord(t *testing.T) {
	ctx := context.Background()

	for _, raw := range []string{`{"billTo":`, `null`, `[]`, `"text"`} {
		store := NewMemoryStore(false)
		require.NoError(t, store.Set(ctx, DefaultRecordKey, []byte(raw)))

		doc, ok := newTestAdapter(store, "").Load(ctx)
		assert.False(t, ok, raw)
		assert.Nil(t, doc, raw)
	}
}

func TestAdapterBackfillsPartialRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(false)
	raw := `{
		"billTo": {"name": "Only Name"},
		"items": [{"name": "Consulting", "quantity": "3", "amount": 50, "total": 1}],
		"taxPercentage": 5,
		"selectedCurrency": "XYZ",
		"branding": {"primaryColor": "#000000", "fontFamily": "Comic Sans", "logoPosition": "top"},
		"grandTotal": 99999
	}`
	require.NoError(t, store.Set(ctx, DefaultRecordKey, []byte(raw)))

	doc, ok := newTestAdapter(store, "").Load(ctx)
	require.True(t, ok)

	assert.Equal(t, domain.Party{Name: "Only Name"}, doc.BillTo)
	assert.Equal(t, domain.Party{}, doc.ShipTo)
	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{0,3}[0-9]*$`), doc.Invoice.Number)
	assert.NotEmpty(t, doc.Invoice.Number)
	assert.Equal(t, domain.DefaultCurrency, doc.SelectedCurrency)

	require.Len(t, doc.Items, 1)
	assert.Equal(t, 150.0, doc.Items[0].Total)
	assert.Equal(t, 150.0, doc.SubTotal)
	assert.InDelta(t, 7.5, doc.TaxAmount, 1e-9)
	assert.InDelta(t, 157.5, doc.GrandTotal, 1e-9)

	assert.Equal(t, "#000000", doc.Branding.PrimaryColor)
	assert.Equal(t, domain.DefaultSecondaryColor, doc.Branding.SecondaryColor)
	assert.Equal(t, domain.DefaultFontFamily, doc.Branding.FontFamily)
	assert.Equal(t, domain.LogoLeft, doc.Branding.LogoPosition)
	assert.True(t, doc.Branding.ShowLogo)
}

func TestAdapterBackfillsMalformedFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(false)
	raw := `{"billTo": 5, "items": "nope", "invoice": {"number": "KEEP1"}, "notes": ["x"], "branding": false}`
	require.NoError(t, store.Set(ctx, DefaultRecordKey, []byte(raw)))

	doc, ok := newTestAdapter(store, "").Load(ctx)
	require.True(t, ok)

	assert.Equal(t, domain.Party{}, doc.BillTo)
	assert.Equal(t, []domain.Item{domain.EmptyItem()}, doc.Items)
	assert.Equal(t, "KEEP1", doc.Invoice.Number)
	assert.Empty(t, doc.Notes)
	assert.Equal(t, domain.DefaultBranding(), doc.Branding)
}

func TestAdapterSaveWritesJSONDocument(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	adapter := newTestAdapter(store, "")
	doc := sampleDocument()

	store.On("Set", ctx, DefaultRecordKey, mock.MatchedBy(func(value []byte) bool {
		var fields map[string]json.RawMessage
		if json.Unmarshal(value, &fields) != nil {
			return false
		}
		for _, key := range []string{"billTo", "shipTo", "invoice", "yourCompany", "items", "taxPercentage",
			"taxAmount", "subTotal", "grandTotal", "notes", "selectedCurrency", "branding"} {
			if _, ok := fields[key]; !ok {
				return false
			}
		}
		return true
	})).Return(nil).Once()

	require.NoError(t, adapter.Save(ctx, doc))
	store.AssertExpectations(t)
}

func TestAdapterWrapsStoreFailures(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	adapter := newTestAdapter(store, "")
	boom := errors.New("disk full")

	store.On("Set", ctx, DefaultRecordKey, mock.Anything).Return(boom).Once()
	store.On("Delete", ctx, DefaultRecordKey).Return(boom).Once()
	store.On("Get", ctx, DefaultRecordKey).Return(nil, boom).Once()

	err := adapter.Save(ctx, sampleDocument())
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, boom)

	err = adapter.Clear(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	doc, ok := adapter.Load(ctx)
	assert.False(t, ok)
	assert.Nil(t, doc)

	store.AssertExpectations(t)
}

func TestAdapterClearDeletesRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(false)
	adapter := newTestAdapter(store, "")

	require.NoError(t, adapter.Save(ctx, sampleDocument()))
	require.NoError(t, adapter.Clear(ctx))

	_, ok := store.Raw(DefaultRecordKey)
	assert.False(t, ok)
}
