package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrAnnotationFailed    = errors.New("annotation failed")
	ErrMalformedAnnotation = errors.New("malformed annotation")
	ErrDocumentUnreadable  = errors.New("document unreadable")
)
