package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTemplatesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available invoice templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tPREVIEW")
				for _, t := range d.Templates.List() {
					fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.PreviewAsset)
				}
				return w.Flush()
			})
		},
	}
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	var (
		templateID int
		out        string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the document as standalone HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				plan, err := d.Templates.Resolve(templateID, d.Invoices.Snapshot())
				if err != nil {
					return err
				}
				html, err := d.HTML.RenderHTML(plan)
				if err != nil {
					return err
				}
				if out == "" || out == "-" {
					_, err = fmt.Fprint(cmd.OutOrStdout(), html)
					return err
				}
				if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
					return err
				}
				d.Log.Info("preview written", zap.String("path", out), zap.Int("template_id", templateID))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&templateID, "template", "t", 1, "template id (1-9)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var templateID int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the document as an A4 PDF",
		Long: `Export the document as an A4 PDF named after the template's filename rule.

The raster mode draws the page at 2x density and embeds it full bleed; the
document mode writes selectable vector text across as many pages as needed.`,
		Example: `  billium export -t 3
  billium export -t 5 --mode document --dir ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				plan, err := d.Templates.Resolve(templateID, d.Invoices.Snapshot())
				if err != nil {
					return err
				}
				res, err := d.Exports.Export(ctx, plan, d.Invoices, templateID)
				if err != nil {
					return err
				}
				if res.Skipped {
					_, err = fmt.Fprintln(cmd.ErrOrStderr(), "an export is already running")
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Location)
				return err
			})
		},
	}
	cmd.Flags().IntVarP(&templateID, "template", "t", 1, "template id (1-9)")
	cmd.Flags().StringVar(&opts.exportMode, "mode", "", "raster or document (default from EXPORT_MODE)")
	cmd.Flags().StringVar(&opts.exportDir, "dir", "", "target directory (default from EXPORT_DIR)")
	return cmd
}
