package repository

import (
	"strings"

	"github.com/gosimple/slug"
)

// DefaultRecordKey names the single persisted document.
const DefaultRecordKey = "formData"

// RecordKey returns the store key for a named profile. An empty profile uses
// the default record.
func RecordKey(profile string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		return DefaultRecordKey
	}
	s := slug.Make(profile)
	if s == "" {
		return DefaultRecordKey
	}
	return DefaultRecordKey + ":" + s
}
