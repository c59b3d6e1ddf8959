package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/smallbiznis/billium/internal/clock"
	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/smallbiznis/billium/internal/invoice/totals"
	"github.com/smallbiznis/billium/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sampleNote = "Thank you for your business! Payment is due within 30 days."

type ServiceParam struct {
	fx.In

	Repo     domain.Repository
	Defaults *config.DefaultsHolder
	Clock    clock.Clock
	Log      *zap.Logger
	Numbers  *format.NumberGenerator `optional:"true"`
	Metrics  *metrics.Metrics        `optional:"true"`
}

// PersistErrorFunc receives save and clear failures. They never fail the
// mutation that caused them.
type PersistErrorFunc func(operation string, err error)

// Service owns the working document. Mutations are serialized and every
// mutation is persisted as a full overwrite.
type Service struct {
	mu  sync.Mutex
	doc domain.Document

	repo     domain.Repository
	defaults *config.DefaultsHolder
	clock    clock.Clock
	numbers  *format.NumberGenerator
	metrics  *metrics.Metrics
	log      *zap.Logger

	pick           func(n int) int
	onPersistError PersistErrorFunc
}

func NewService(p ServiceParam) *Service {
	numbers := p.Numbers
	if numbers == nil {
		numbers = format.NewNumberGenerator(nil)
	}
	c := p.Clock
	if c == nil {
		c = clock.System{}
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	defaults := p.Defaults
	if defaults == nil {
		defaults = config.NewStaticDefaultsHolder(domain.BuiltinDefaults())
	}

	s := &Service{
		repo:     p.Repo,
		defaults: defaults,
		clock:    c,
		numbers:  numbers,
		metrics:  p.Metrics,
		log:      log.Named("invoice.service"),
		pick:     rand.IntN,
	}
	s.doc = s.newDocument()
	return s
}

// OnPersistError registers fn to be told about persistence failures.
func (s *Service) OnPersistError(fn PersistErrorFunc) {
	s.mu.Lock()
	s.onPersistError = fn
	s.mu.Unlock()
}

// Open restores the persisted document, if any. It reports whether a saved
// document was found.
func (s *Service) Open(ctx context.Context) bool {
	doc, ok := s.repo.Load(ctx)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = *doc
	totals.Apply(&s.doc)
	return true
}

// Snapshot returns a deep copy of the working document.
func (s *Service) Snapshot() domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Totals returns the derived totals of the working document.
func (s *Service) Totals() totals.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totals.Totals{
		SubTotal:   s.doc.SubTotal,
		TaxAmount:  s.doc.TaxAmount,
		GrandTotal: s.doc.GrandTotal,
	}
}

func (s *Service) newDocument() domain.Document {
	doc := domain.NewDocument(s.defaults.Get(), s.numbers.Generate())
	totals.Apply(&doc)
	return doc
}

// mutate applies fn to a copy of the document, recomputes totals, swaps the
// copy in and saves it. A failing fn leaves the document untouched.
func (s *Service) mutate(ctx context.Context, operation string, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	totals.Apply(&next)
	s.doc = next
	s.metrics.RecordMutation(operation)

	if err := s.repo.Save(ctx, s.doc.Clone()); err != nil {
		s.reportPersistError(operation, err)
	}
	return nil
}

func (s *Service) reportPersistError(operation string, err error) {
	s.log.Warn("failed to persist document",
		zap.String("operation", operation),
		zap.Error(err),
	)
	if s.onPersistError != nil {
		s.onPersistError(operation, err)
	}
}

func (s *Service) today() time.Time {
	return s.clock.Now().UTC()
}
