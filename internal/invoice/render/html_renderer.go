package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
)

const planHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Template.Name}} invoice</title>
  <style>
    :root {
      --primary: {{.Palette.Primary}};
      --secondary: {{.Palette.Secondary}};
      --accent: {{.Palette.Accent}};
      --font: "{{.FontFamily}}", -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
    }
    * { box-sizing: border-box; }
    body { margin: 0; background: #f3f4f6; font-family: var(--font); color: #1f2937; }
    .surface {
      width: {{.Surface.Width}}px;
      min-height: {{.Surface.Height}}px;
      margin: 0 auto;
      background: #ffffff;
      padding: 40px;
    }
    section { margin-bottom: 28px; }
    .filled { color: #ffffff; padding: 20px; border-radius: 4px; }
    .header { display: flex; align-items: center; gap: 24px; }
    .header.logo-center { flex-direction: column; text-align: center; }
    .header.logo-right { flex-direction: row-reverse; text-align: right; }
    .header img { max-height: 64px; max-width: 180px; }
    .header h1 { margin: 0 0 8px; font-size: 28px; color: var(--primary); }
    .filled h1 { color: #ffffff; }
    .grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 8px 32px; }
    .label { font-size: 11px; text-transform: uppercase; letter-spacing: 0.3px; color: #6b7280; }
    .filled .label { color: rgba(255,255,255,0.8); }
    .value { font-size: 14px; line-height: 1.5; white-space: pre-line; }
    table { width: 100%; border-collapse: collapse; }
    th { text-align: left; font-size: 12px; padding: 8px; color: #ffffff; }
    td { padding: 8px; border-bottom: 1px solid #e5e7eb; font-size: 14px; vertical-align: top; }
    .num { text-align: right; }
    .item-sub { font-size: 12px; color: #6b7280; }
    .totals { margin-left: auto; width: 280px; }
    .total-row { display: flex; justify-content: space-between; padding: 6px 8px; font-size: 14px; }
    .total-final { color: #ffffff; font-weight: 700; border-radius: 4px; }
  </style>
</head>
<body>
  <div class="surface">
  {{- range .Sections}}
    {{- if eq .Kind "header"}}
    <section class="header logo-{{$.LogoPosition}}{{if .Fill}} filled{{end}}"{{if .Fill}} style="background: {{.Fill}};"{{end}}>
      {{- if $.LogoSrc}}
      <img src="{{$.LogoSrc}}" alt="{{$.Logo.Alt}}">
      {{- end}}
      <div>
        <h1>{{.Title}}</h1>
        {{- range .Fields}}{{if .Value}}
        <div class="value" data-binding="{{.Binding}}">{{.Value}}</div>
        {{- end}}{{end}}
      </div>
    </section>
    {{- else if eq .Kind "billing"}}
    <section class="grid"{{if .Fill}} style="border-left: 4px solid {{.Fill}}; padding-left: 16px;"{{end}}>
      {{- range .Fields}}
      <div>
        <div class="label">{{.Label}}</div>
        <div class="value" data-binding="{{.Binding}}">{{.Value}}</div>
      </div>
      {{- end}}
    </section>
    {{- else if eq .Kind "items"}}
    <section>
      <table>
        <thead>
          <tr style="background: {{.Fill}};">
            {{- range .Columns}}
            <th{{if numeric .Key}} class="num"{{end}}>{{.Label}}</th>
            {{- end}}
          </tr>
        </thead>
        <tbody>
          {{- $columns := .Columns}}
          {{- range .Rows}}
          {{- $row := .}}
          <tr>
            {{- range $columns}}
            <td{{if numeric .Key}} class="num"{{end}}>
              {{- cell $row .Key}}
              {{- if and (eq .Key "item") $row.Description}}<div class="item-sub">{{$row.Description}}</div>{{end -}}
            </td>
            {{- end}}
          </tr>
          {{- end}}
        </tbody>
      </table>
    </section>
    {{- else if eq .Kind "totals"}}
    <section class="totals">
      {{- $fill := .Fill}}
      {{- $last := lastIndex .Fields}}
      {{- range $i, $f := .Fields}}
      <div class="total-row{{if eq $i $last}} total-final{{end}}"{{if eq $i $last}} style="background: {{$fill}};"{{end}}>
        <span>{{$f.Label}}</span>
        <span data-binding="{{$f.Binding}}">{{$f.Value}}</span>
      </div>
      {{- end}}
    </section>
    {{- else if eq .Kind "notes"}}
    {{- range .Fields}}{{if .Value}}
    <section>
      <div class="label">Notes</div>
      <div class="value" data-binding="{{.Binding}}">{{.Value}}</div>
    </section>
    {{- end}}{{end}}
    {{- end}}
  {{- end}}
  </div>
</body>
</html>
`

var (
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	fontFamilyFilter = regexp.MustCompile(`^[A-Za-z0-9 \-]+$`)
	logoURIPattern   = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/=]*$`)
)

const (
	fallbackColor = "#111827"
	fallbackFont  = "Inter"
)

type htmlView struct {
	templatedomain.RenderPlan
	LogoPosition string
	LogoSrc      template.URL
}

// HTMLRenderer produces a standalone HTML preview of a RenderPlan.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"cell": func(row templatedomain.ItemRow, key templatedomain.ColumnKey) string {
			return row.Cell(key)
		},
		"numeric": numericColumn,
		"lastIndex": func(fields []templatedomain.Field) int {
			return len(fields) - 1
		},
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("plan").Funcs(funcs).Parse(planHTMLTemplate)),
	}
}

// RenderHTML renders plan. Colors and the font family are sanitized before
// they reach the stylesheet.
func (r *HTMLRenderer) RenderHTML(plan templatedomain.RenderPlan) (string, error) {
	view := htmlView{RenderPlan: sanitizePlan(plan), LogoPosition: "left"}
	if plan.Logo != nil && logoURIPattern.MatchString(plan.Logo.DataURI) {
		// Only base64 image data URIs reach the src attribute.
		view.LogoSrc = template.URL(plan.Logo.DataURI)
		if plan.Logo.Position.Valid() {
			view.LogoPosition = string(plan.Logo.Position)
		}
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func sanitizePlan(plan templatedomain.RenderPlan) templatedomain.RenderPlan {
	out := plan
	out.Palette.Primary = sanitizeColor(plan.Palette.Primary, fallbackColor)
	out.Palette.Secondary = sanitizeColor(plan.Palette.Secondary, out.Palette.Primary)
	out.Palette.Accent = sanitizeColor(plan.Palette.Accent, out.Palette.Primary)
	out.FontFamily = sanitizeFont(plan.FontFamily)

	out.Sections = make([]templatedomain.Section, len(plan.Sections))
	for i, s := range plan.Sections {
		if s.Fill != "" {
			s.Fill = sanitizeColor(s.Fill, out.Palette.Primary)
		}
		out.Sections[i] = s
	}
	return out
}

func sanitizeColor(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return fallback
}

func sanitizeFont(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed != "" && fontFamilyFilter.MatchString(trimmed) {
		return trimmed
	}
	return fallbackFont
}
