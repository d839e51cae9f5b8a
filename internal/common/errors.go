// Package common defines shared constants and sentinel errors used across
// the media pipeline. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Validation-time errors. They block ingestion of the offending item
	// only; sibling items in the same batch proceed.
	ErrInvalidFileType = errors.New("invalid file type")
	ErrEmptyFile       = errors.New("empty file")
	ErrLimitExceeded   = errors.New("image limit exceeded")

	// Optimization-time errors. The orchestrator falls back to uploading
	// the unoptimized payload when one of these occurs.
	ErrDecode            = errors.New("image decode failed")
	ErrEncode            = errors.New("image encode produced no output")
	ErrEncodeUnsupported = errors.New("no encoder for image format")

	// Preview errors.
	ErrRead = errors.New("unreadable input")

	// Network-time errors, surfaced as a per-item failed state. Delete
	// failures never block local state changes.
	ErrUploadFailed      = errors.New("upload failed")
	ErrDeleteFailed      = errors.New("remote delete failed")
	ErrUploadUnsupported = errors.New("format not accepted by the upload endpoint")

	// Lookup errors.
	ErrNotFound = errors.New("not found")
)
