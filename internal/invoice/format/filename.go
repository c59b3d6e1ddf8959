package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/billium/internal/invoice/domain"
)

const pdfExt = ".pdf"

// FileName derives the export filename for a document rendered with templateID.
//
// This function is PURE:
// - No side effects
// - Only now varies between calls, and only template 6 reads it
func FileName(doc domain.Document, templateID int, now time.Time) string {
	number := doc.Invoice.Number
	date := doc.Invoice.Date
	company := doc.YourCompany.Name
	client := doc.BillTo.Name

	var base string
	switch templateID {
	case 1:
		base = orDefault(number, "invoice")
	case 2:
		base = orDefault(company, "company") + "_" + orDefault(number, "invoice")
	case 3:
		base = orDefault(company, "company")
	case 4:
		base = orDefault(date, "invoice")
	case 5:
		base = orDefault(number, "inv") + "-" + orDefault(date, "invoice")
	case 6:
		base = "invoice_" + strconv.FormatInt(now.UnixMilli(), 10)
	case 7:
		base = "Invoice_" + orDefault(number, "invoice")
	case 8:
		base = "Invoice_" + orDefault(client, "client")
	case 9:
		base = "IN-" + orDefault(date, "invoice")
	default:
		base = "invoice_template_" + strconv.Itoa(templateID)
	}
	return base + pdfExt
}

// orDefault sanitizes value for use inside a filename and falls back to def
// when nothing is left.
func orDefault(value, def string) string {
	cleaned := sanitizeFilePart(value)
	if cleaned == "" {
		return def
	}
	return cleaned
}

func sanitizeFilePart(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(value))
}
