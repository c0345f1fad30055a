package fontname

import "errors"

var (
	// ErrNotFont is returned when the data does not start with an sfnt or
	// collection header.
	ErrNotFont = errors.New("not an sfnt font or collection")
	// ErrFaceIndex is returned when the requested face does not exist.
	ErrFaceIndex = errors.New("face index out of range")
	// ErrMalformed is returned for structurally broken font data.
	ErrMalformed = errors.New("malformed font data")
	// ErrMissingTable is returned when a required table is absent.
	ErrMissingTable = errors.New("missing table")
)

// ParseError reports why a font's bytes could not be turned into names.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return "fontname: " + e.Op + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
