package shapefile

import "errors"

var (
	ErrEmptyName      = errors.New("name is required")
	ErrUnknownKind    = errors.New("unknown type kind")
	ErrMissingElem    = errors.New("element type is required")
	ErrNoMembers      = errors.New("enum has no members")
	ErrDuplicateField = errors.New("duplicate field name")
	ErrDuplicateValue = errors.New("duplicate enum member")
)
