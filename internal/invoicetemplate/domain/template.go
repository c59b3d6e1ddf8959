// Package domain defines invoice templates and the render plans they produce.
package domain

import (
	"errors"
	"fmt"

	invoicedomain "github.com/smallbiznis/billium/internal/invoice/domain"
)

var ErrUnknownTemplate = errors.New("unknown_template")

// Kind is the closed set of template layouts.
type Kind int

const (
	KindClassic Kind = iota + 1
	KindCorporate
	KindVivid
	KindMinimal
	KindCompact
	KindElegant
	KindProfessional
	KindReceipt
	KindLedger
)

func (k Kind) String() string {
	switch k {
	case KindClassic:
		return "classic"
	case KindCorporate:
		return "corporate"
	case KindVivid:
		return "vivid"
	case KindMinimal:
		return "minimal"
	case KindCompact:
		return "compact"
	case KindElegant:
		return "elegant"
	case KindProfessional:
		return "professional"
	case KindReceipt:
		return "receipt"
	case KindLedger:
		return "ledger"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TemplateDescriptor identifies one registered template.
type TemplateDescriptor struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	PreviewAsset string `json:"preview_asset"`
}

// PreviewAssetPath returns the preview image path for a 1-based template id.
func PreviewAssetPath(id int) string {
	return fmt.Sprintf("/assets/template%d-preview.png", id)
}

// Registry enumerates templates and resolves them against documents.
type Registry interface {
	List() []TemplateDescriptor
	Get(id int) (TemplateDescriptor, error)
	Resolve(id int, doc invoicedomain.Document) (RenderPlan, error)
}
