package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smallbiznis/billium/internal/invoice/domain"
	"github.com/smallbiznis/billium/internal/invoice/format"
	invoiceservice "github.com/smallbiznis/billium/internal/invoice/service"
)

func newShowCommand(opts *rootOptions) *cobra.Command {
	var totalsOnly bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the working document as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				doc := d.Invoices.Snapshot()
				if totalsOnly {
					return printTotals(cmd.OutOrStdout(), doc)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			})
		},
	}
	cmd.Flags().BoolVar(&totalsOnly, "totals", false, "print formatted totals only")
	return cmd
}

func printTotals(w io.Writer, doc domain.Document) error {
	rows := []struct {
		label string
		value float64
	}{
		{"Sub Total", doc.SubTotal},
		{"Tax (" + strconv.FormatFloat(doc.TaxPercentage, 'f', -1, 64) + "%)", doc.TaxAmount},
		{"Grand Total", doc.GrandTotal},
	}
	for _, r := range rows {
		amount, err := format.FormatAmount(r.value, doc.SelectedCurrency)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%-12s %s\n", r.label, amount); err != nil {
			return err
		}
	}
	return nil
}

func newSetCommand(opts *rootOptions) *cobra.Command {
	var copyBillTo, newNumber bool
	cmd := &cobra.Command{
		Use:   "set <path> <value>",
		Short: "Set a document field",
		Long: `Set one field of the working document.

Paths:
  billTo.{name,address,phone}      shipTo.{name,address,phone}
  yourCompany.{name,address,phone,email,website}
  invoice.{number,date,paymentDate}  dates are YYYY-MM-DD
  notes, taxPercentage, selectedCurrency
  branding.{primaryColor,secondaryColor,accentColor,fontFamily,logoPosition,showLogo}`,
		Example: `  billium set billTo.name "John Doe"
  billium set invoice.date 2026-10-14
  billium set --copy-bill-to
  billium set --new-number`,
		Args: func(cmd *cobra.Command, args []string) error {
			if copyBillTo || newNumber {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				switch {
				case copyBillTo:
					d.Invoices.CopyBillToShip(ctx)
					return nil
				case newNumber:
					_, err := fmt.Fprintln(cmd.OutOrStdout(), d.Invoices.RegenerateNumber(ctx))
					return err
				default:
					return setField(ctx, d.Invoices, args[0], args[1])
				}
			})
		},
	}
	cmd.Flags().BoolVar(&copyBillTo, "copy-bill-to", false, "copy the bill-to party into ship-to")
	cmd.Flags().BoolVar(&newNumber, "new-number", false, "generate a new random invoice number")
	cmd.MarkFlagsMutuallyExclusive("copy-bill-to", "new-number")
	return cmd
}

func setField(ctx context.Context, svc *invoiceservice.Service, path, value string) error {
	group, field, _ := strings.Cut(strings.TrimSpace(path), ".")
	switch group {
	case "billTo":
		return svc.SetBillTo(ctx, domain.PartyField(field), value)
	case "shipTo":
		return svc.SetShipTo(ctx, domain.PartyField(field), value)
	case "yourCompany":
		if field == "logo" {
			return svc.SetLogo(ctx, value)
		}
		return svc.SetCompany(ctx, domain.CompanyField(field), value)
	case "invoice":
		return svc.SetInvoice(ctx, domain.InvoiceField(field), value)
	case "branding":
		return setBranding(ctx, svc, field, value)
	case "notes":
		svc.SetNotes(ctx, value)
		return nil
	case "taxPercentage":
		pct, err := parseNumber(value)
		if err != nil {
			return err
		}
		return svc.SetTaxPercentage(ctx, pct)
	case "selectedCurrency":
		return svc.SetCurrency(ctx, value)
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidField, path)
	}
}

func setBranding(ctx context.Context, svc *invoiceservice.Service, field, value string) error {
	if domain.BrandingField(field) == domain.BrandingShowLogo {
		show, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: showLogo must be true or false", domain.ErrInvalidField)
		}
		svc.SetShowLogo(ctx, show)
		return nil
	}
	return svc.SetBranding(ctx, domain.BrandingField(field), value)
}

func newItemCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit or remove line items (positions start at 1)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Append an empty line item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), d.Invoices.AddItem(ctx)+1)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <position>",
		Short: "Remove a line item; the last one cannot be removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				return d.Invoices.RemoveItem(ctx, index)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set <position> <field> <value>",
		Short:   "Set name, description, quantity or amount of a line item",
		Example: `  billium item set 1 name "Product A"
  billium item set 1 quantity 2
  billium item set 1 amount 49.90`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				return setItem(ctx, d.Invoices, index, args[1], args[2])
			})
		},
	})
	return cmd
}

func setItem(ctx context.Context, svc *invoiceservice.Service, index int, field, value string) error {
	switch field {
	case "quantity":
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		return svc.SetItemQuantity(ctx, index, n)
	case "amount":
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		return svc.SetItemAmount(ctx, index, n)
	default:
		return svc.SetItem(ctx, index, domain.ItemField(field), value)
	}
}

func newTaxCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tax <percentage>",
		Short: "Set the tax percentage applied on top of the subtotal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := parseNumber(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				if err := d.Invoices.SetTaxPercentage(ctx, pct); err != nil {
					return err
				}
				return printTotals(cmd.OutOrStdout(), d.Invoices.Snapshot())
			})
		},
	}
}

func newCurrencyCommand(opts *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "currency [code]",
		Short: "Show or select the display currency",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if list {
				for _, code := range format.SupportedCurrencies() {
					symbol, _ := format.SymbolFor(code)
					fmt.Fprintf(out, "%s  %s\n", code, symbol)
				}
				return nil
			}
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				if len(args) == 0 {
					_, err := fmt.Fprintln(out, d.Invoices.Snapshot().SelectedCurrency)
					return err
				}
				return d.Invoices.SetCurrency(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list supported currencies")
	return cmd
}

func newBrandingCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "branding <field> <value>",
		Short: "Set a branding attribute",
		Long: `Fields: primaryColor, secondaryColor, accentColor (#RRGGBB),
fontFamily (` + strings.Join(domain.FontFamilies, ", ") + `),
logoPosition (left, center, right), showLogo (true, false).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				return setBranding(ctx, d.Invoices, args[0], args[1])
			})
		},
	}
}

func newLogoCommand(opts *rootOptions) *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "logo <image-file>",
		Short: "Embed an image file as the company logo",
		Args: func(cmd *cobra.Command, args []string) error {
			if remove {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				if remove {
					return d.Invoices.SetLogo(ctx, "")
				}
				return d.Invoices.LoadLogoFile(ctx, args[0])
			})
		},
	}
	cmd.Flags().BoolVar(&remove, "clear", false, "remove the logo")
	return cmd
}

func newNotesCommand(opts *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "notes [text]",
		Short: "Set the notes, or pick a suggested note with --refresh",
		Args: func(cmd *cobra.Command, args []string) error {
			if refresh {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				if refresh {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), d.Invoices.RefreshNotes(ctx))
					return err
				}
				d.Invoices.SetNotes(ctx, args[0])
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "replace the notes with a random suggestion")
	return cmd
}

func newSampleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sample",
		Short: "Fill the document with demonstration data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				d.Invoices.FillSample(ctx)
				return printTotals(cmd.OutOrStdout(), d.Invoices.Snapshot())
			})
		},
	}
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset the document and delete the stored record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, func(ctx context.Context, d Deps) error {
				d.Invoices.Clear(ctx)
				return nil
			})
		},
	}
}

var errInvalidNumber = errors.New("invalid_number")

func parseNumber(value string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", errInvalidNumber, value)
	}
	return n, nil
}

func parsePosition(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: position %q", domain.ErrItemIndex, value)
	}
	return n - 1, nil
}
