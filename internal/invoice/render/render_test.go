package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	templatedomain "github.com/smallbiznis/billium/internal/invoicetemplate/domain"
	templateservice "github.com/smallbiznis/billium/internal/invoicetemplate/service"
)

func sampleDocument() domain.Document {
	doc := domain.NewDocument(domain.BuiltinDefaults(), "INV-0001")
	doc.YourCompany = domain.Company{Name: "Acme Corp", Address: "1 Road", Phone: "555", Email: "hi@acme.test"}
	doc.BillTo = domain.Party{Name: "John Doe", Address: "2 Street\nCity", Phone: "111"}
	doc.Items = []domain.Item{
		{Name: "Product A", Description: "Blue", Quantity: 2, Amount: 50},
		{Name: "Service B", Quantity: 1, Amount: 200},
	}
	doc.TaxPercentage = 10
	doc.Notes = "Thanks <b>friend</b>"
	doc.SelectedCurrency = "USD"
	return doc
}

func resolve(t *testing.T, id int, doc domain.Document) templatedomain.RenderPlan {
	t.Helper()
	svc := templateservice.NewService(templateservice.Params{Log: zap.NewNop()})
	plan, err := svc.Resolve(id, doc)
	require.NoError(t, err)
	return plan
}

func pngDataURI(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRenderHTML_ContainsBindings(t *testing.T) {
	plan := resolve(t, 1, sampleDocument())
	out, err := NewHTMLRenderer().RenderHTML(plan)
	require.NoError(t, err)

	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, `data-binding="billTo.name"`)
	assert.Contains(t, out, "$330.00")
	assert.Contains(t, out, "Tax (10%)")
	assert.Contains(t, out, "Thanks &lt;b&gt;friend&lt;/b&gt;")
	assert.NotContains(t, out, "<img")
}

func TestRenderHTML_Logo(t *testing.T) {
	doc := sampleDocument()
	doc.YourCompany.Logo = pngDataURI(t, color.Black)
	doc.Branding.LogoPosition = domain.LogoRight

	out, err := NewHTMLRenderer().RenderHTML(resolve(t, 1, doc))
	require.NoError(t, err)
	assert.Contains(t, out, `<img src="data:image/png;base64,`)
	assert.Contains(t, out, "logo-right")
}

func TestRenderHTML_RejectsUnsafeValues(t *testing.T) {
	plan := resolve(t, 2, sampleDocument())
	plan.Palette.Primary = "red;} body{display:none"
	plan.FontFamily = `"; background: url(x)`
	plan.Logo = &templatedomain.LogoSlot{DataURI: "javascript:alert(1)", Position: domain.LogoLeft}

	out, err := NewHTMLRenderer().RenderHTML(plan)
	require.NoError(t, err)
	assert.Contains(t, out, "--primary: "+fallbackColor)
	assert.Contains(t, out, `"`+fallbackFont+`"`)
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<img")
}

func TestSanitizeColor(t *testing.T) {
	assert.Equal(t, "#AABBCC", sanitizeColor(" #AABBCC ", "#000000"))
	assert.Equal(t, "#000000", sanitizeColor("#ABC", "#000000"))
	assert.Equal(t, "#000000", sanitizeColor("", "#000000"))
}

func newRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer(zap.NewNop())
	require.NoError(t, err)
	return r
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRasterize_SurfaceSize(t *testing.T) {
	out, err := newRasterizer(t).Rasterize(context.Background(), resolve(t, 1, sampleDocument()))
	require.NoError(t, err)

	img := decodePNG(t, out)
	assert.Equal(t, templatedomain.SurfaceWidth*Density, img.Bounds().Dx())
	assert.Equal(t, templatedomain.SurfaceHeight*Density, img.Bounds().Dy())
}

func TestRasterize_HeaderFill(t *testing.T) {
	doc := sampleDocument()
	doc.Branding.PrimaryColor = "#FF0000"

	filled := decodePNG(t, mustRasterize(t, resolve(t, 2, doc)))
	r, g, b, _ := filled.At(4, 4).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Less(t, g>>8, uint32(15))
	assert.Less(t, b>>8, uint32(15))

	plain := decodePNG(t, mustRasterize(t, resolve(t, 1, doc)))
	r, g, b, _ = plain.At(4, 4).RGBA()
	assert.Equal(t, []uint32{255, 255, 255}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestRasterize_WithLogo(t *testing.T) {
	doc := sampleDocument()
	doc.YourCompany.Logo = pngDataURI(t, color.RGBA{0, 0, 255, 255})
	for _, pos := range []domain.LogoPosition{domain.LogoLeft, domain.LogoCenter, domain.LogoRight} {
		doc.Branding.LogoPosition = pos
		out := mustRasterize(t, resolve(t, 1, doc))
		assert.True(t, bytes.HasPrefix(out, []byte("\x89PNG")), string(pos))
	}
}

func TestRasterize_BrokenLogoSkipped(t *testing.T) {
	plan := resolve(t, 1, sampleDocument())
	plan.Logo = &templatedomain.LogoSlot{DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("nope"))}
	_, err := newRasterizer(t).Rasterize(context.Background(), plan)
	require.NoError(t, err)
}

func TestRasterize_LongNotesAndManyItems(t *testing.T) {
	doc := sampleDocument()
	doc.Notes = strings.Repeat("lorem ipsum dolor sit amet ", 80)
	for i := 0; i < 60; i++ {
		doc.Items = append(doc.Items, domain.Item{Name: "Filler", Quantity: 1, Amount: 1})
	}
	_, err := newRasterizer(t).Rasterize(context.Background(), resolve(t, 5, doc))
	require.NoError(t, err)
}

func TestRasterize_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRasterizer(t).Rasterize(ctx, resolve(t, 1, sampleDocument()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRasterize_InvalidSurface(t *testing.T) {
	plan := resolve(t, 1, sampleDocument())
	plan.Surface = templatedomain.Size{Width: -1, Height: 10}
	_, err := newRasterizer(t).Rasterize(context.Background(), plan)
	require.ErrorIs(t, err, ErrInvalidSurface)
}

func mustRasterize(t *testing.T, plan templatedomain.RenderPlan) []byte {
	t.Helper()
	out, err := newRasterizer(t).Rasterize(context.Background(), plan)
	require.NoError(t, err)
	return out
}
