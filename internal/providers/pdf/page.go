package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0

	surfaceImage = "surface"
)

var ErrEmptyPage = errors.New("empty_page_image")

func (p *PDFProvider) EncodePage(ctx context.Context, png []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(png) == 0 {
		return nil, ErrEmptyPage
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCreator("billium", true)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(surfaceImage, opt, bytes.NewReader(png))
	doc.ImageOptions(surfaceImage, 0, 0, pageWidthMM, pageHeightMM, false, opt, 0, "")
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("place surface: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	p.log.Debug("page encoded", zap.Int("image_bytes", len(png)), zap.Int("pdf_bytes", buf.Len()))
	return buf.Bytes(), nil
}
