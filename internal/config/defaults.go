package config

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type fileBranding struct {
	PrimaryColor   string `mapstructure:"primaryColor"`
	SecondaryColor string `mapstructure:"secondaryColor"`
	AccentColor    string `mapstructure:"accentColor"`
	FontFamily     string `mapstructure:"fontFamily"`
	LogoPosition   string `mapstructure:"logoPosition"`
	ShowLogo       *bool  `mapstructure:"showLogo"`
}

type fileDefaults struct {
	Currency string       `mapstructure:"currency"`
	Notes    []string     `mapstructure:"notes"`
	Branding fileBranding `mapstructure:"branding"`
}

// DefaultsHolder serves the creation defaults for new documents, reloaded when
// billium.yml changes.
type DefaultsHolder struct {
	current atomic.Value // holds domain.Defaults
}

func NewDefaultsHolder(cfg Config, log *zap.Logger) (*DefaultsHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("config.defaults")

	v := viper.New()
	v.SetConfigName("billium")
	v.SetConfigType("yml")
	if cfg.ConfigDir != "" {
		v.AddConfigPath(cfg.ConfigDir)
	} else {
		v.AddConfigPath("/etc/billium")
		v.AddConfigPath(".")
	}

	holder := &DefaultsHolder{}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		holder.current.Store(domain.BuiltinDefaults())
		return holder, nil
	}

	defaults, err := decodeDefaults(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(defaults)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeDefaults(v)
		if err != nil {
			log.Warn("invalid defaults ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("defaults reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticDefaultsHolder returns a holder that never reloads.
func NewStaticDefaultsHolder(defaults domain.Defaults) *DefaultsHolder {
	holder := &DefaultsHolder{}
	holder.current.Store(defaults)
	return holder
}

func (h *DefaultsHolder) Get() domain.Defaults {
	d := h.current.Load().(domain.Defaults)
	notes := make([]string, len(d.Notes))
	copy(notes, d.Notes)
	d.Notes = notes
	return d
}

func decodeDefaults(v *viper.Viper) (domain.Defaults, error) {
	var raw fileDefaults
	if err := v.UnmarshalKey("defaults", &raw); err != nil {
		return domain.Defaults{}, err
	}
	return mergeDefaults(raw)
}

// mergeDefaults overlays the values set in the file on the built-in defaults.
func mergeDefaults(raw fileDefaults) (domain.Defaults, error) {
	out := domain.BuiltinDefaults()

	if raw.Currency != "" {
		code, err := format.NormalizeCurrency(raw.Currency)
		if err != nil {
			return domain.Defaults{}, fmt.Errorf("defaults.currency: %w", err)
		}
		out.Currency = code
	}

	notes := make([]string, 0, len(raw.Notes))
	for _, n := range raw.Notes {
		if n = strings.TrimSpace(n); n != "" {
			notes = append(notes, n)
		}
	}
	if len(notes) > 0 {
		out.Notes = notes
	}

	b := raw.Branding
	overrides := []struct {
		field domain.BrandingField
		value string
	}{
		{domain.BrandingPrimaryColor, b.PrimaryColor},
		{domain.BrandingSecondaryColor, b.SecondaryColor},
		{domain.BrandingAccentColor, b.AccentColor},
		{domain.BrandingFontFamily, b.FontFamily},
		{domain.BrandingLogoPosition, b.LogoPosition},
	}
	for _, o := range overrides {
		if o.value == "" {
			continue
		}
		if err := o.field.Apply(&out.Branding, o.value); err != nil {
			return domain.Defaults{}, fmt.Errorf("defaults.branding.%s: %w", o.field, err)
		}
	}
	if b.ShowLogo != nil {
		out.Branding.ShowLogo = *b.ShowLogo
	}

	return out, nil
}
