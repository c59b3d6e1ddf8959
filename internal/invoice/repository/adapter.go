package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/smallbiznis/billium/internal/invoice/totals"
	"github.com/smallbiznis/billium/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type AdapterParams struct {
	fx.In

	Store    domain.Store
	Cfg      config.Config
	Defaults *config.DefaultsHolder
	Numbers  *format.NumberGenerator `optional:"true"`
	Metrics  *metrics.Metrics        `optional:"true"`
	Log      *zap.Logger
}

// Adapter loads and saves the single persisted document through a Store.
type Adapter struct {
	store    domain.Store
	key      string
	defaults *config.DefaultsHolder
	numbers  *format.NumberGenerator
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewAdapter(p AdapterParams) *Adapter {
	numbers := p.Numbers
	if numbers == nil {
		numbers = format.NewNumberGenerator(nil)
	}
	defaults := p.Defaults
	if defaults == nil {
		defaults = config.NewStaticDefaultsHolder(domain.BuiltinDefaults())
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{
		store:    p.Store,
		key:      RecordKey(p.Cfg.Storage.Profile),
		defaults: defaults,
		numbers:  numbers,
		metrics:  p.Metrics,
		log:      log.Named("invoice.repository"),
	}
}

// Key returns the record key this adapter reads and writes.
func (a *Adapter) Key() string {
	return a.key
}

// Load returns the stored document with every missing or malformed field
// replaced by its creation default. Unreadable records are reported as absent.
func (a *Adapter) Load(ctx context.Context) (*domain.Document, bool) {
	raw, err := a.store.Get(ctx, a.key)
	a.metrics.RecordStorage(metrics.StorageLoad, err)
	if err != nil {
		a.log.Warn("failed to read document", zap.String("key", a.key), zap.Error(err))
		return nil, false
	}
	if raw == nil {
		return nil, false
	}

	doc, err := a.decode(raw)
	if err != nil {
		a.metrics.RecordStorage(metrics.StorageDecode, err)
		a.log.Warn("discarding unreadable document", zap.String("key", a.key), zap.Error(err))
		return nil, false
	}
	return doc, true
}

// Save overwrites the stored record with doc.
func (a *Adapter) Save(ctx context.Context, doc domain.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	err = a.store.Set(ctx, a.key, payload)
	a.metrics.RecordStorage(metrics.StorageSave, err)
	if err != nil {
		return fmt.Errorf("save %s: %w: %w", a.key, domain.ErrPersistence, err)
	}
	return nil
}

// Clear removes the stored record.
func (a *Adapter) Clear(ctx context.Context) error {
	err := a.store.Delete(ctx, a.key)
	a.metrics.RecordStorage(metrics.StorageClear, err)
	if err != nil {
		return fmt.Errorf("clear %s: %w: %w", a.key, domain.ErrPersistence, err)
	}
	return nil
}

func (a *Adapter) decode(raw []byte) (*domain.Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("record is not an object")
	}

	defaults := a.defaults.Get()
	doc := domain.NewDocument(defaults, "")

	doc.BillTo = decodeField(fields, "billTo", doc.BillTo)
	doc.ShipTo = decodeField(fields, "shipTo", doc.ShipTo)
	doc.YourCompany = decodeField(fields, "yourCompany", doc.YourCompany)
	doc.Notes = decodeField(fields, "notes", doc.Notes)
	doc.TaxPercentage = decodeNumber(fields["taxPercentage"], doc.TaxPercentage)

	if invoice, ok := decodePresent(fields, "invoice", doc.Invoice); ok {
		doc.Invoice = invoice
	} else {
		doc.Invoice.Number = a.numbers.Generate()
	}

	doc.Items = decodeItems(fields["items"])

	if code, err := format.NormalizeCurrency(decodeField(fields, "selectedCurrency", "")); err == nil {
		doc.SelectedCurrency = code
	}

	doc.Branding = decodeBranding(fields["branding"], defaults.Branding)

	totals.Apply(&doc)
	return &doc, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodePresent decodes fields[key] over def. It reports false when the key is
// missing or malformed.
func decodePresent[T any](fields map[string]json.RawMessage, key string, def T) (T, bool) {
	raw, ok := fields[key]
	if !ok || isNull(raw) {
		return def, false
	}
	v := def
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, false
	}
	return v, true
}

func decodeField[T any](fields map[string]json.RawMessage, key string, def T) T {
	v, _ := decodePresent(fields, key, def)
	return v
}

// decodeNumber accepts JSON numbers and numeric strings.
func decodeNumber(raw json.RawMessage, def float64) float64 {
	if isNull(raw) {
		return def
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return def
}

func decodeItems(raw json.RawMessage) []domain.Item {
	var entries []map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &entries) != nil || len(entries) == 0 {
		return []domain.Item{domain.EmptyItem()}
	}

	items := make([]domain.Item, 0, len(entries))
	for _, entry := range entries {
		item := domain.EmptyItem()
		item.Name = decodeField(entry, "name", item.Name)
		item.Description = decodeField(entry, "description", item.Description)
		item.Quantity = decodeNumber(entry["quantity"], item.Quantity)
		item.Amount = decodeNumber(entry["amount"], item.Amount)
		items = append(items, item)
	}
	return items
}

func decodeBranding(raw json.RawMessage, def domain.Branding) domain.Branding {
	var fields map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &fields) != nil {
		return def
	}

	out := def
	for _, field := range []domain.BrandingField{
		domain.BrandingPrimaryColor,
		domain.BrandingSecondaryColor,
		domain.BrandingAccentColor,
		domain.BrandingFontFamily,
		domain.BrandingLogoPosition,
	} {
		value, ok := decodePresent(fields, string(field), "")
		if !ok {
			continue
		}
		// Apply leaves out untouched on invalid values.
		_ = field.Apply(&out, value)
	}
	out.ShowLogo = decodeField(fields, string(domain.BrandingShowLogo), def.ShowLogo)
	return out
}
