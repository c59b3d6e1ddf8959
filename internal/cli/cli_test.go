package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/smallbiznis/billium/internal/config"
	"github.com/smallbiznis/billium/internal/invoice/domain"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_DRIVER", config.StorageSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "billium.db"))
	t.Setenv("BILLIUM_CONFIG_DIR", dir)
	t.Setenv("EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("OTEL_ENABLED", "false")
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCommand("test", fx.Decorate(func(prometheus.Registerer) prometheus.Registerer {
		return prometheus.NewRegistry()
	}))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRootOptionsApply(t *testing.T) {
	opts := &rootOptions{profile: " work ", exportMode: "document", exportDir: "/tmp/out", logLevel: "DEBUG"}
	cfg := opts.apply(config.Config{ExportMode: config.ExportModeRaster, ExportDir: ".", LogLevel: "info"})

	assert.Equal(t, "work", cfg.Storage.Profile)
	assert.Equal(t, config.ExportModeDocument, cfg.ExportMode)
	assert.Equal(t, "/tmp/out", cfg.ExportDir)
	assert.Equal(t, "debug", cfg.LogLevel)

	unchanged := (&rootOptions{}).apply(config.Config{ExportDir: "."})
	assert.Equal(t, ".", unchanged.ExportDir)
	assert.Empty(t, unchanged.Storage.Profile)
}

func TestParsePosition(t *testing.T) {
	idx, err := parsePosition("2")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	for _, in := range []string{"0", "-1", "x", ""} {
		_, err := parsePosition(in)
		assert.ErrorIs(t, err, domain.ErrItemIndex, in)
	}
}

func TestParseNumber(t *testing.T) {
	n, err := parseNumber(" 12.5 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, n)

	for _, in := range []string{"ten", "NaN", "Inf", "-Inf", "+Infinity"} {
		_, err = parseNumber(in)
		assert.ErrorIs(t, err, errInvalidNumber, in)
	}
}

func TestSetArgsValidation(t *testing.T) {
	_, _, err := execute(t, "set", "billTo.name")
	assert.Error(t, err)

	_, _, err = execute(t, "set", "--copy-bill-to", "--new-number")
	assert.Error(t, err)
}

func TestCurrencyList(t *testing.T) {
	out, _, err := execute(t, "currency", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "INR")
	assert.Contains(t, out, "USD  $")
}

func TestDocumentPersistsAcrossCommands(t *testing.T) {
	setupEnv(t)

	_, _, err := execute(t, "sample")
	require.NoError(t, err)
	_, _, err = execute(t, "currency", "USD")
	require.NoError(t, err)
	_, _, err = execute(t, "set", "billTo.name", "Ada Lovelace")
	require.NoError(t, err)
	_, _, err = execute(t, "set", "--copy-bill-to")
	require.NoError(t, err)

	out, _, err := execute(t, "show", "--totals")
	require.NoError(t, err)
	assert.Contains(t, out, "$390.00")
	assert.Contains(t, out, "Tax (10%)")
	assert.Contains(t, out, "$429.00")

	out, _, err = execute(t, "show")
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Ada Lovelace", doc.ShipTo.Name)
	assert.Equal(t, "USD", doc.SelectedCurrency)
	assert.Len(t, doc.Items, 3)
}

func TestItemCommands(t *testing.T) {
	setupEnv(t)

	_, _, err := execute(t, "item", "set", "1", "quantity", "4")
	require.NoError(t, err)
	_, _, err = execute(t, "item", "set", "1", "amount", "25")
	require.NoError(t, err)

	_, _, err = execute(t, "item", "remove", "1")
	assert.ErrorIs(t, err, domain.ErrLastItem)

	_, _, err = execute(t, "item", "add")
	require.NoError(t, err)
	_, _, err = execute(t, "item", "remove", "1")
	require.NoError(t, err)

	out, _, err := execute(t, "show")
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Items, 1)
	assert.Zero(t, doc.SubTotal)
}

func TestSetRejectsUnknownPath(t *testing.T) {
	setupEnv(t)

	_, _, err := execute(t, "set", "payment.terms", "30")
	assert.ErrorIs(t, err, domain.ErrInvalidField)

	_, _, err = execute(t, "branding", "primaryColor", "red")
	assert.ErrorIs(t, err, domain.ErrInvalidColor)
}

func TestPreviewWritesHTML(t *testing.T) {
	dir := setupEnv(t)
	_, _, err := execute(t, "sample")
	require.NoError(t, err)

	out, _, err := execute(t, "preview", "-t", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Acme Corp")

	path := filepath.Join(dir, "preview.html")
	_, _, err = execute(t, "preview", "-t", "4", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme Corp")
}

func TestExportWritesPDF(t *testing.T) {
	dir := setupEnv(t)
	_, _, err := execute(t, "sample")
	require.NoError(t, err)

	out, _, err := execute(t, "export", "-t", "3")
	require.NoError(t, err)
	want := filepath.Join(dir, "exports", "Acme Corp.pdf")
	assert.Contains(t, out, want)

	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	docDir := filepath.Join(dir, "vector")
	_, _, err = execute(t, "export", "-t", "1", "--mode", "document", "--dir", docDir)
	require.NoError(t, err)
	entries, err := os.ReadDir(docDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ".pdf", filepath.Ext(entries[0].Name()))
}

func TestClearStartsNextCommandFromDefaults(t *testing.T) {
	setupEnv(t)

	_, _, err := execute(t, "sample")
	require.NoError(t, err)
	_, _, err = execute(t, "currency", "USD")
	require.NoError(t, err)
	_, _, err = execute(t, "clear")
	require.NoError(t, err)

	out, _, err := execute(t, "show")
	require.NoError(t, err)
	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, domain.DefaultCurrency, doc.SelectedCurrency)
	assert.Empty(t, doc.YourCompany.Name)
	assert.Len(t, doc.Items, 1)
}
