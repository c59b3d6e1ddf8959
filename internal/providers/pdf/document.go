package pdf

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/billium/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
)

// Core PDF fonts are Latin-1 only.
var glyphFallback = strings.NewReplacer("₹", "INR ")

const notesLineChars = 110

var white = &props.Color{Red: 255, Green: 255, Blue: 255}

func (p *PDFProvider) GenerateDocument(ctx context.Context, plan templatedomain.RenderPlan) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		WithDefaultFont(&props.Font{Family: fontFamily(plan.FontFamily), Size: 9}).
		Build()

	m := maroto.New(cfg)
	primary := hexColor(plan.Palette.Primary)

	for _, section := range plan.Sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch section.Kind {
		case templatedomain.SectionHeader:
			p.addHeader(m, plan, section, primary)
		case templatedomain.SectionBilling:
			addBilling(m, section)
		case templatedomain.SectionItems:
			addItems(m, section, primary)
		case templatedomain.SectionTotals:
			addTotals(m, section, primary)
		case templatedomain.SectionNotes:
			addNotes(m, section)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	p.log.Debug("document generated",
		zap.Int("template_id", plan.Template.ID),
		zap.Int("sections", len(plan.Sections)),
	)
	return doc.GetBytes(), nil
}

func (p *PDFProvider) addHeader(m core.Maroto, plan templatedomain.RenderPlan, s templatedomain.Section, primary *props.Color) {
	titleColor := primary
	var cellStyle *props.Cell
	if s.Fill != "" {
		titleColor = white
		cellStyle = &props.Cell{BackgroundColor: hexColor(s.Fill)}
	}

	var cols []core.Col
	logo := p.logoCol(plan.Logo)
	title := text.NewCol(9, clean(s.Title), props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Top:   6,
		Align: align.Left,
		Color: titleColor,
	})
	switch {
	case logo == nil:
		cols = []core.Col{title, col.New(3)}
	case plan.Logo.Position == invoicedomain.LogoRight:
		cols = []core.Col{title, logo}
	default:
		cols = []core.Col{logo, title}
	}
	applyStyle(m.AddRow(24, cols...), cellStyle)

	for _, f := range s.Fields {
		if f.Value == "" {
			continue
		}
		var textColor *props.Color
		if s.Fill != "" {
			textColor = white
		}
		applyStyle(m.AddRow(5, text.NewCol(12, clean(flatten(f.Value)), props.Text{Color: textColor})), cellStyle)
	}
	m.AddRow(6, col.New(12))
}

func addBilling(m core.Maroto, s templatedomain.Section) {
	for i := 0; i < len(s.Fields); i += 2 {
		cols := []core.Col{fieldCol(s.Fields[i])}
		if i+1 < len(s.Fields) {
			cols = append(cols, fieldCol(s.Fields[i+1]))
		} else {
			cols = append(cols, col.New(6))
		}
		m.AddRow(12, cols...)
	}
	m.AddRow(4, col.New(12))
}

func fieldCol(f templatedomain.Field) core.Col {
	return col.New(6).Add(
		text.New(clean(f.Label), props.Text{Style: fontstyle.Bold, Size: 8}),
		text.New(clean(flatten(f.Value)), props.Text{Top: 4}),
	)
}

func addItems(m core.Maroto, s templatedomain.Section, primary *props.Color) {
	if len(s.Columns) == 0 {
		return
	}
	fill := primary
	if s.Fill != "" {
		fill = hexColor(s.Fill)
	}
	sizes := columnSizes(s.Columns)

	header := make([]core.Col, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = text.NewCol(sizes[i], c.Label, props.Text{
			Style: fontstyle.Bold,
			Top:   2,
			Left:  1,
			Right: 1,
			Align: columnAlign(c.Key),
			Color: white,
		})
	}
	m.AddRow(8, header...).WithStyle(&props.Cell{BackgroundColor: fill})

	for _, row := range s.Rows {
		cells := make([]core.Col, len(s.Columns))
		for i, c := range s.Columns {
			value := clean(row.Cell(c.Key))
			if c.Key == templatedomain.ColumnItem && row.Description != "" {
				cells[i] = col.New(sizes[i]).Add(
					text.New(value, props.Text{Top: 2, Left: 1}),
					text.New(clean(row.Description), props.Text{Top: 6, Left: 1, Size: 7}),
				)
				continue
			}
			cells[i] = text.NewCol(sizes[i], value, props.Text{Top: 2, Left: 1, Right: 1, Align: columnAlign(c.Key)})
		}
		height := 8.0
		if row.Description != "" {
			height = 11
		}
		m.AddRow(height, cells...)
		m.AddRow(1, line.NewCol(12))
	}
	m.AddRow(4, col.New(12))
}

func addTotals(m core.Maroto, s templatedomain.Section, primary *props.Color) {
	fill := primary
	if s.Fill != "" {
		fill = hexColor(s.Fill)
	}
	for i, f := range s.Fields {
		last := i == len(s.Fields)-1
		style := props.Text{Top: 2, Right: 1}
		valueStyle := props.Text{Top: 2, Right: 1, Align: align.Right}
		if last {
			style.Style, valueStyle.Style = fontstyle.Bold, fontstyle.Bold
			style.Color, valueStyle.Color = white, white
		}
		row := m.AddRow(8,
			col.New(6),
			text.NewCol(3, clean(f.Label), style),
			text.NewCol(3, clean(f.Value), valueStyle),
		)
		if last {
			row.WithStyle(&props.Cell{BackgroundColor: fill})
		}
	}
	m.AddRow(6, col.New(12))
}

func addNotes(m core.Maroto, s templatedomain.Section) {
	for _, f := range s.Fields {
		if f.Value == "" {
			continue
		}
		m.AddRow(6, text.NewCol(12, "Notes", props.Text{Style: fontstyle.Bold}))
		height := 0.0
		for _, paragraph := range strings.Split(f.Value, "\n") {
			height += 5 * float64(len(paragraph)/notesLineChars+1)
		}
		m.AddRow(height, text.NewCol(12, clean(strings.ReplaceAll(f.Value, "\n", " "))))
	}
}

// logoCol decodes the data URI of slot; undecodable logos are left out.
func (p *PDFProvider) logoCol(slot *templatedomain.LogoSlot) core.Col {
	if slot == nil {
		return nil
	}
	head, payload, ok := strings.Cut(slot.DataURI, ",")
	if !ok || !strings.HasSuffix(head, ";base64") {
		return nil
	}
	var ext extension.Type
	switch strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64") {
	case "image/png":
		ext = extension.Png
	case "image/jpeg", "image/jpg":
		ext = extension.Jpg
	default:
		p.log.Debug("logo format not embeddable, skipped", zap.String("header", head))
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		p.log.Warn("logo not decodable, skipped", zap.Error(err))
		return nil
	}
	return image.NewFromBytesCol(3, data, ext, props.Rect{Center: true, Percent: 80})
}

// columnSizes spreads the 12 grid units; the item column takes the remainder.
func columnSizes(cols []templatedomain.Column) []int {
	sizes := make([]int, len(cols))
	used := 0
	flex := -1
	for i, c := range cols {
		switch c.Key {
		case templatedomain.ColumnIndex:
			sizes[i] = 1
		case templatedomain.ColumnItem:
			flex = i
			continue
		default:
			sizes[i] = 2
		}
		used += sizes[i]
	}
	if flex >= 0 {
		sizes[flex] = max(12-used, 1)
	}
	return sizes
}

func columnAlign(key templatedomain.ColumnKey) align.Type {
	switch key {
	case templatedomain.ColumnQuantity, templatedomain.ColumnRate, templatedomain.ColumnTotal:
		return align.Right
	default:
		return align.Left
	}
}

func fontFamily(name string) string {
	if strings.EqualFold(name, "Helvetica") {
		return fontfamily.Helvetica
	}
	return fontfamily.Arial
}

// hexColor parses #RRGGBB, falling back to near-black.
func hexColor(hex string) *props.Color {
	if !invoicedomain.IsHexColor(hex) {
		return &props.Color{Red: 17, Green: 24, Blue: 39}
	}
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}

func applyStyle(row core.Row, style *props.Cell) {
	if style != nil {
		row.WithStyle(style)
	}
}

func flatten(value string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(value, "\n", ", ")), " ")
}

func clean(value string) string {
	return glyphFallback.Replace(value)
}
