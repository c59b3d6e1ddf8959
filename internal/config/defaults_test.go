package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "billium.yml"), []byte(body), 0o644))
	return dir
}

func TestDefaultsHolderMissingFile(t *testing.T) {
	holder, err := NewDefaultsHolder(Config{ConfigDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, domain.BuiltinDefaults(), holder.Get())
}

func TestDefaultsHolderOverrides(t *testing.T) {
	dir := writeConfig(t, `
defaults:
  currency: usd
  notes:
    - "Paid with thanks."
    - "   "
  branding:
    primaryColor: "#112233"
    fontFamily: Georgia
    logoPosition: center
    showLogo: false
`)

	holder, err := NewDefaultsHolder(Config{ConfigDir: dir}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, []string{"Paid with thanks."}, got.Notes)
	assert.Equal(t, "#112233", got.Branding.PrimaryColor)
	assert.Equal(t, domain.DefaultSecondaryColor, got.Branding.SecondaryColor)
	assert.Equal(t, "Georgia", got.Branding.FontFamily)
	assert.Equal(t, domain.LogoCenter, got.Branding.LogoPosition)
	assert.False(t, got.Branding.ShowLogo)
}

func TestDefaultsHolderRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
	}{
		{name: "currency", body: "defaults:\n  currency: XYZ\n", err: format.ErrUnsupportedCurrency},
		{name: "color", body: "defaults:\n  branding:\n    accentColor: red\n", err: domain.ErrInvalidColor},
		{name: "font", body: "defaults:\n  branding:\n    fontFamily: Comic Sans\n", err: domain.ErrUnsupportedFont},
		{name: "position", body: "defaults:\n  branding:\n    logoPosition: top\n", err: domain.ErrInvalidLogoPosition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDefaultsHolder(Config{ConfigDir: writeConfig(t, tc.body)}, zap.NewNop())
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestDefaultsHolderGetCopiesNotes(t *testing.T) {
	holder := NewStaticDefaultsHolder(domain.BuiltinDefaults())

	got := holder.Get()
	got.Notes[0] = "changed"

	assert.Equal(t, domain.SuggestedNotes[0], holder.Get().Notes[0])
}
