package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	invoicedomain "github.com/smallbiznis/billium/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
)

// Density is the pixel ratio of rasterized surfaces.
const Density = 2

const (
	pageMargin    = 40.0
	headerHeight  = 132.0
	logoMaxHeight = 64.0
	logoMaxWidth  = 180.0
	rowHeight     = 28.0
	totalsWidth   = 280.0
	sectionGap    = 28.0

	textColor  = "#1f2937"
	mutedColor = "#6b7280"
	ruleColor  = "#e5e7eb"
	pageColor  = "#ffffff"
)

var ErrInvalidSurface = errors.New("invalid_surface")

// Rasterizer draws a RenderPlan onto a bitmap at Density pixels per point.
type Rasterizer struct {
	log     *zap.Logger
	regular *text.FontSource
	bold    *text.FontSource
}

func NewRasterizer(log *zap.Logger) (*Rasterizer, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	return &Rasterizer{
		log:     log.Named("invoice.rasterizer"),
		regular: regular,
		bold:    bold,
	}, nil
}

// Rasterize renders plan and returns PNG bytes of Surface*Density pixels.
func (r *Rasterizer) Rasterize(ctx context.Context, plan templatedomain.RenderPlan) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	size := plan.Surface
	if size.Width == 0 && size.Height == 0 {
		size = templatedomain.Size{Width: templatedomain.SurfaceWidth, Height: templatedomain.SurfaceHeight}
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSurface, size.Width, size.Height)
	}

	dc := gg.NewContext(size.Width*Density, size.Height*Density)
	defer dc.Close()
	dc.ClearWithColor(gg.Hex(pageColor))

	p := &painter{
		dc:     dc,
		r:      r,
		plan:   sanitizePlan(plan),
		logo:   plan.Logo,
		width:  float64(size.Width),
		height: float64(size.Height),
	}

	for _, section := range p.plan.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.cursorY >= p.height {
			r.log.Debug("surface full, remaining sections clipped",
				zap.String("section", string(section.Kind)),
				zap.Int("template_id", plan.Template.ID),
			)
			break
		}
		if err := p.section(section); err != nil {
			return nil, fmt.Errorf("draw %s: %w", section.Kind, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// painter works in logical points and scales every coordinate by Density.
type painter struct {
	dc      *gg.Context
	r       *Rasterizer
	plan    templatedomain.RenderPlan
	logo    *templatedomain.LogoSlot
	width   float64
	height  float64
	cursorY float64
}

func (p *painter) section(s templatedomain.Section) error {
	switch s.Kind {
	case templatedomain.SectionHeader:
		return p.header(s)
	case templatedomain.SectionBilling:
		return p.billing(s)
	case templatedomain.SectionItems:
		return p.items(s)
	case templatedomain.SectionTotals:
		return p.totals(s)
	case templatedomain.SectionNotes:
		return p.notes(s)
	default:
		return nil
	}
}

func (p *painter) header(s templatedomain.Section) error {
	top := p.cursorY
	ink := p.plan.Palette.Primary
	body := textColor
	if s.Fill != "" {
		if err := p.rect(0, top, p.width, headerHeight, s.Fill); err != nil {
			return err
		}
		ink, body = pageColor, pageColor
	}

	textX := pageMargin
	anchor := 0.0
	if p.logo != nil {
		if img := p.r.decodeLogo(p.logo.DataURI); img != nil {
			lw, lh := img.Bounds().Dx(), img.Bounds().Dy()
			x := pageMargin
			switch p.logo.Position {
			case invoicedomain.LogoCenter:
				x = (p.width - float64(lw)/Density) / 2
			case invoicedomain.LogoRight:
				x = p.width - pageMargin - float64(lw)/Density
			}
			y := top + (headerHeight-float64(lh)/Density)/2
			if s.Fill == "" {
				y = top + pageMargin/2
			}
			p.dc.DrawImage(gg.ImageBufFromImage(img), x*Density, y*Density)

			switch p.logo.Position {
			case invoicedomain.LogoRight:
				textX, anchor = p.width-pageMargin-float64(lw)/Density-24, 1
			case invoicedomain.LogoCenter:
				textX, anchor = pageMargin, 0
			default:
				textX = pageMargin + float64(lw)/Density + 24
			}
		}
	}

	y := top + 48
	p.text(s.Title, textX, y, 28, true, ink, anchor)
	y += 22
	for _, f := range s.Fields {
		if f.Value == "" {
			continue
		}
		for _, line := range strings.Split(f.Value, "\n") {
			p.text(line, textX, y, 12, false, body, anchor)
			y += 16
		}
	}

	p.cursorY = max(top+headerHeight, y) + sectionGap
	return nil
}

func (p *painter) billing(s templatedomain.Section) error {
	top := p.cursorY
	colWidth := (p.width - 2*pageMargin - 32) / 2
	bottom := top

	if s.Fill != "" {
		rows := (len(s.Fields) + 1) / 2
		if err := p.rect(pageMargin, top, 4, float64(rows)*88, s.Fill); err != nil {
			return err
		}
	}

	for i, f := range s.Fields {
		x := pageMargin + 16
		if i%2 == 1 {
			x += colWidth + 32
		}
		y := top + float64(i/2)*88 + 12
		p.text(strings.ToUpper(f.Label), x, y, 10, false, mutedColor, 0)
		y += 18
		for _, line := range strings.Split(f.Value, "\n") {
			p.text(line, x, y, 13, false, textColor, 0)
			y += 18
		}
		bottom = max(bottom, y)
	}

	p.cursorY = bottom + sectionGap
	return nil
}

func (p *painter) items(s templatedomain.Section) error {
	if len(s.Columns) == 0 {
		return nil
	}
	top := p.cursorY
	fill := s.Fill
	if fill == "" {
		fill = p.plan.Palette.Primary
	}
	inner := p.width - 2*pageMargin
	if err := p.rect(pageMargin, top, inner, rowHeight, fill); err != nil {
		return err
	}

	xs := columnOffsets(s.Columns, inner)
	for i, c := range s.Columns {
		x, anchor := p.cellX(s.Columns, xs, i)
		p.text(c.Label, x, top+19, 12, true, pageColor, anchor)
	}

	y := top + rowHeight
	for _, row := range s.Rows {
		if y >= p.height {
			break
		}
		rowTop := y
		for i, c := range s.Columns {
			x, anchor := p.cellX(s.Columns, xs, i)
			p.text(row.Cell(c.Key), x, rowTop+19, 13, false, textColor, anchor)
		}
		height := rowHeight
		if row.Description != "" {
			for i, c := range s.Columns {
				if c.Key == templatedomain.ColumnItem {
					x, _ := p.cellX(s.Columns, xs, i)
					p.text(row.Description, x, rowTop+35, 11, false, mutedColor, 0)
				}
			}
			height += 14
		}
		y += height
		if err := p.rule(pageMargin, y, p.width-pageMargin); err != nil {
			return err
		}
	}

	p.cursorY = y + sectionGap
	return nil
}

func (p *painter) totals(s templatedomain.Section) error {
	left := p.width - pageMargin - totalsWidth
	right := p.width - pageMargin
	y := p.cursorY
	for i, f := range s.Fields {
		last := i == len(s.Fields)-1
		ink := textColor
		if last {
			fill := s.Fill
			if fill == "" {
				fill = p.plan.Palette.Primary
			}
			if err := p.rect(left, y, totalsWidth, rowHeight, fill); err != nil {
				return err
			}
			ink = pageColor
		}
		p.text(f.Label, left+8, y+19, 13, last, ink, 0)
		p.text(f.Value, right-8, y+19, 13, last, ink, 1)
		y += rowHeight
	}
	p.cursorY = y + sectionGap
	return nil
}

func (p *painter) notes(s templatedomain.Section) error {
	y := p.cursorY
	for _, f := range s.Fields {
		if f.Value == "" {
			continue
		}
		p.text("NOTES", pageMargin, y+12, 10, false, mutedColor, 0)
		y += 30
		p.dc.SetFont(p.face(13, false))
		for _, line := range p.wrap(f.Value, p.width-2*pageMargin) {
			p.text(line, pageMargin, y, 13, false, textColor, 0)
			y += 18
		}
	}
	p.cursorY = y + sectionGap
	return nil
}

// cellX returns the text origin of column i and its horizontal anchor.
func (p *painter) cellX(cols []templatedomain.Column, xs []float64, i int) (float64, float64) {
	if numericColumn(cols[i].Key) {
		end := p.width - pageMargin
		if i+1 < len(xs) {
			end = pageMargin + xs[i+1]
		}
		return end - 8, 1
	}
	return pageMargin + xs[i] + 8, 0
}

func (p *painter) rect(x, y, w, h float64, hex string) error {
	p.dc.SetHexColor(hex)
	p.dc.DrawRectangle(x*Density, y*Density, w*Density, h*Density)
	return p.dc.Fill()
}

func (p *painter) rule(x1, y, x2 float64) error {
	p.dc.SetHexColor(ruleColor)
	p.dc.SetLineWidth(Density)
	p.dc.DrawLine(x1*Density, y*Density, x2*Density, y*Density)
	return p.dc.Stroke()
}

func (p *painter) text(s string, x, y, size float64, bold bool, hex string, anchor float64) {
	if s == "" {
		return
	}
	p.dc.SetFont(p.face(size, bold))
	p.dc.SetHexColor(hex)
	p.dc.DrawStringAnchored(s, x*Density, y*Density, anchor, 0)
}

func (p *painter) face(size float64, bold bool) text.Face {
	if bold {
		return p.r.bold.Face(size * Density)
	}
	return p.r.regular.Face(size * Density)
}

// wrap splits value into lines no wider than width points using the current font.
func (p *painter) wrap(value string, width float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(value, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if cw, _ := p.dc.MeasureString(candidate); cw/Density > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// decodeLogo returns the logo scaled to fit the header slot at Density, or nil.
func (r *Rasterizer) decodeLogo(dataURI string) image.Image {
	if !logoURIPattern.MatchString(dataURI) {
		return nil
	}
	raw := dataURI[strings.Index(dataURI, ",")+1:]
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		r.log.Warn("logo not decodable, skipped", zap.Error(err))
		return nil
	}
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		r.log.Warn("logo image not decodable, skipped", zap.Error(err))
		return nil
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	scale := min(logoMaxWidth/float64(b.Dx()), logoMaxHeight/float64(b.Dy()))
	w := int(float64(b.Dx()) * scale * Density)
	h := int(float64(b.Dy()) * scale * Density)
	if w < 1 || h < 1 {
		return nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	r.log.Debug("logo decoded", zap.String("format", format), zap.Int("width", w), zap.Int("height", h))
	return dst
}

// columnOffsets places columns left to right; the item column takes the slack.
func columnOffsets(cols []templatedomain.Column, inner float64) []float64 {
	widths := make([]float64, len(cols))
	fixed := 0.0
	flex := -1
	for i, c := range cols {
		switch c.Key {
		case templatedomain.ColumnIndex:
			widths[i] = 40
		case templatedomain.ColumnItem:
			flex = i
			continue
		default:
			widths[i] = 100
		}
		fixed += widths[i]
	}
	if flex >= 0 {
		widths[flex] = max(inner-fixed, 80)
	}

	xs := make([]float64, len(cols))
	x := 0.0
	for i := range cols {
		xs[i] = x
		x += widths[i]
	}
	return xs
}

func numericColumn(key templatedomain.ColumnKey) bool {
	return key == templatedomain.ColumnQuantity || key == templatedomain.ColumnRate || key == templatedomain.ColumnTotal
}
