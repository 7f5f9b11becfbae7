package pipeline

import (
	"errors"
	"fmt"
)

// Kinds of source failures. A *SourceError matches exactly one of them with errors.Is.
var (
	ErrSourceNotFound   = errors.New("source file not found")
	ErrSourceEmpty      = errors.New("source file is empty")
	ErrSourceMalformed  = errors.New("source file is malformed")
	ErrSourceUnexpected = errors.New("unexpected error reading source file")
)

// SourceError reports why a batch source could not be loaded. The batch stops
// at this point; no records are returned alongside it.
type SourceError struct {
	Path string
	Kind error // one of the ErrSource* sentinels
	Line int   // offending line for malformed input, 0 otherwise
	Err  error // underlying cause, may be nil
}

func (e *SourceError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Path, e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName is a short machine-friendly name of the failure class.
func (e *SourceError) KindName() string {
	switch e.Kind {
	case ErrSourceNotFound:
		return "not_found"
	case ErrSourceEmpty:
		return "empty"
	case ErrSourceMalformed:
		return "malformed"
	default:
		return "unexpected"
	}
}

func sourceErr(path string, kind error, line int, cause error) *SourceError {
	return &SourceError{Path: path, Kind: kind, Line: line, Err: cause}
}
