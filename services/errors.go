package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure
type ErrorKind string

const (
	KindUnsupportedFormat    ErrorKind = "unsupported_format"
	KindCorruptDocument      ErrorKind = "corrupt_document"
	KindExtractionError      ErrorKind = "extraction_error"
	KindInvalidConfiguration ErrorKind = "invalid_configuration"
)

// IsClientError reports whether the failure was caused by caller input
// rather than by the document contents.
func (k ErrorKind) IsClientError() bool {
	return k == KindUnsupportedFormat || k == KindInvalidConfiguration
}

// Sentinels for errors.Is. They match any ProcessingError of the same kind.
var (
	ErrUnsupportedFormat    = &ProcessingError{Kind: KindUnsupportedFormat}
	ErrCorruptDocument      = &ProcessingError{Kind: KindCorruptDocument}
	ErrExtraction           = &ProcessingError{Kind: KindExtractionError}
	ErrInvalidConfiguration = &ProcessingError{Kind: KindInvalidConfiguration}
)

// ProcessingError is the single error type returned by the pipeline.
// Page is set (1-based) when a PDF page failed.
type ProcessingError struct {
	Kind     ErrorKind
	Filename string
	Page     int
	Err      error
}

func (e *ProcessingError) Error() string {
	msg := string(e.Kind)
	if e.Filename != "" {
		msg += fmt.Sprintf(" (%s)", e.Filename)
	}
	if e.Page > 0 {
		msg += fmt.Sprintf(" page %d", e.Page)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind so callers can write
// errors.Is(err, ErrCorruptDocument).
func (e *ProcessingError) Is(target error) bool {
	t, ok := target.(*ProcessingError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Err == nil && t.Filename == "" && t.Page == 0
}

// KindOf returns the kind of a pipeline error, or "" if err is not one.
func KindOf(err error) ErrorKind {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

func newProcessingError(kind ErrorKind, err error) *ProcessingError {
	return &ProcessingError{Kind: kind, Err: err}
}

// withFilename returns a copy of err annotated with the document name.
func withFilename(err error, filename string) error {
	var pe *ProcessingError
	if !errors.As(err, &pe) {
		return err
	}
	annotated := *pe
	annotated.Filename = filename
	return &annotated
}
