package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/smallbiznis/billium/internal/invoice/domain"
)

var logoPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// SetLogo sets the company logo. dataURI must be empty or a base64 image data URI.
func (s *Service) SetLogo(ctx context.Context, dataURI string) error {
	dataURI = strings.TrimSpace(dataURI)
	if err := validateLogo(dataURI); err != nil {
		return err
	}
	return s.mutate(ctx, "set_logo", func(doc *domain.Document) error {
		doc.YourCompany.Logo = dataURI
		return nil
	})
}

// LoadLogoFile reads an image file and stores it as the company logo.
func (s *Service) LoadLogoFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	uri, err := EncodeLogo(data)
	if err != nil {
		return err
	}
	return s.SetLogo(ctx, uri)
}

// EncodeLogo wraps image bytes into a data URI using the sniffed content type.
func EncodeLogo(data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("content type %q: %w", contentType, domain.ErrInvalidLogo)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func validateLogo(dataURI string) error {
	if dataURI == "" {
		return nil
	}
	prefix := logoPrefix.FindString(dataURI)
	if prefix == "" {
		return domain.ErrInvalidLogo
	}
	if _, err := base64.StdEncoding.DecodeString(dataURI[len(prefix):]); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidLogo, err)
	}
	return nil
}
