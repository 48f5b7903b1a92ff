// internal/app/system/contactcsv/errors.go
package contactcsv

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an import was rejected as a whole.
type ErrorKind int

const (
	// Unreadable means the upload could not be read (IO failure or too large).
	Unreadable ErrorKind = iota + 1
	// MissingHeader means the file is empty or its first line is blank.
	MissingHeader
	// MissingEmailColumn means the header has no email / e-mail column.
	MissingEmailColumn
)

func (k ErrorKind) String() string {
	switch k {
	case Unreadable:
		return "unreadable file"
	case MissingHeader:
		return "missing header"
	case MissingEmailColumn:
		return "missing email column"
	}
	return "unknown"
}

// ErrMalformedHeader is matched by both header failure kinds.
var ErrMalformedHeader = errors.New("malformed header")

// ImportError rejects an import before or while reading it. Per-row
// problems never produce an ImportError; those rows are skipped.
type ImportError struct {
	Kind ErrorKind
	Err  error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("csv import: %s: %v", e.Kind, e.Err)
	}
	return "csv import: " + e.Kind.String()
}

func (e *ImportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrMalformedHeader) match header rejections.
func (e *ImportError) Is(target error) bool {
	if target == ErrMalformedHeader {
		return e.Kind == MissingHeader || e.Kind == MissingEmailColumn
	}
	return false
}

// Message is the user-facing text for the import page.
func (e *ImportError) Message() string {
	switch e.Kind {
	case Unreadable:
		return "The uploaded file could not be read."
	case MissingHeader:
		return "The CSV file has no header line."
	case MissingEmailColumn:
		return "The CSV header must contain an email column (email or e-mail)."
	}
	return "The CSV file could not be imported."
}
