package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/smallbiznis/billium/internal/config"
)

type rootOptions struct {
	profile    string
	exportMode string
	exportDir  string
	logLevel   string

	extra []fx.Option
}

// apply overrides the loaded configuration with flags given on the command line.
func (o *rootOptions) apply(cfg config.Config) config.Config {
	if p := strings.TrimSpace(o.profile); p != "" {
		cfg.Storage.Profile = p
	}
	if m := strings.TrimSpace(o.exportMode); m != "" {
		cfg.ExportMode = m
	}
	if d := strings.TrimSpace(o.exportDir); d != "" {
		cfg.ExportDir = d
	}
	if l := strings.TrimSpace(o.logLevel); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}
	return cfg
}

// NewRootCommand builds the billium command tree.
func NewRootCommand(version string) *cobra.Command {
	return newRootCommand(version)
}

func newRootCommand(version string, extra ...fx.Option) *cobra.Command {
	opts := &rootOptions{extra: extra}
	root := &cobra.Command{
		Use:   "billium",
		Short: "Build, preview and export invoices from the command line",
		Long: `billium keeps one working invoice document, persisted after every change,
and renders it with one of nine templates into an HTML preview or an A4 PDF.

Storage is selected with STORAGE_DRIVER (sqlite, postgres, mysql, redis, memory).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.profile, "profile", "", "storage profile holding a separate document")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newShowCommand(opts),
		newSetCommand(opts),
		newItemCommand(opts),
		newTaxCommand(opts),
		newCurrencyCommand(opts),
		newBrandingCommand(opts),
		newLogoCommand(opts),
		newNotesCommand(opts),
		newSampleCommand(opts),
		newClearCommand(opts),
		newTemplatesCommand(opts),
		newPreviewCommand(opts),
		newExportCommand(opts),
	)
	return root
}
