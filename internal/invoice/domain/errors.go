package domain

import "errors"

var (
	ErrItemIndex           = errors.New("item_index_out_of_range")
	ErrLastItem            = errors.New("last_item_not_removable")
	ErrInvalidField        = errors.New("invalid_field")
	ErrInvalidColor        = errors.New("invalid_color")
	ErrUnsupportedFont     = errors.New("unsupported_font")
	ErrInvalidLogoPosition = errors.New("invalid_logo_position")
	ErrInvalidLogo         = errors.New("invalid_logo")
	ErrPersistence         = errors.New("persistence_failure")
)
