package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrOpenFailed means the document itself is unreadable. Fatal to the
	// viewing session; there is no retry.
	ErrOpenFailed = errors.New("document open failed")

	// ErrRasterizationFailed is page-scoped: the page gets a placeholder
	// and navigation continues.
	ErrRasterizationFailed = errors.New("page rasterization failed")

	// ErrNoExtractableText is page-scoped and not an error condition: the
	// page simply has no text operations (scanned image, chart).
	ErrNoExtractableText = errors.New("no extractable text")
)
