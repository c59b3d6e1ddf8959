package pdf

import (
	"context"

	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	"go.uber.org/zap"
)

// Provider turns rendered invoices into PDF bytes.
type Provider interface {
	// EncodePage places a rasterized surface on a single A4 page, full bleed.
	EncodePage(ctx context.Context, png []byte) ([]byte, error)
	// GenerateDocument lays plan out as vector text, paginating as needed.
	GenerateDocument(ctx context.Context, plan templatedomain.RenderPlan) ([]byte, error)
}

type PDFProvider struct {
	log *zap.Logger
}

func New(log *zap.Logger) Provider {
	return &PDFProvider{log: log.Named("providers.pdf")}
}
