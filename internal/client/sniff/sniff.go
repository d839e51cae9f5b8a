// Package sniff validates a candidate file's declared MIME type and corrects
// it from the file-name extension when the two disagree. The product rule is
// best-effort auto-fix over hard rejection: a wrong or generic declared type
// is repaired whenever the name maps unambiguously into the supported set.
package sniff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/common"
)

// extToMIME maps file-name extensions to the supported MIME types. The table
// is authoritative when the declared type is missing, generic, or
// inconsistent with the extension.
var extToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".svg":  "image/svg+xml",
}

// Result is the sniffing outcome. Corrected reports whether the returned
// payload differs from the input; callers that kept the original can compare
// the two values directly, since the input is never mutated.
type Result struct {
	Payload   models.Payload
	Corrected bool
}

// Sniff checks p against the supported set and returns a payload with a
// corrected MIME type when needed.
//
// Errors: common.ErrEmptyFile for zero-byte payloads, common.ErrInvalidFileType
// when neither the declared type, the extension, nor the content identifies a
// supported image. Size is never a reason for rejection here; oversized valid
// files flow through and are optimized later.
func Sniff(p models.Payload) (Result, error) {
	if p.Size() == 0 {
		return Result{}, fmt.Errorf("%s: %w", p.Name, common.ErrEmptyFile)
	}

	declared := strings.ToLower(strings.TrimSpace(p.MIME))
	ext := strings.ToLower(filepath.Ext(p.Name))
	fromExt := extToMIME[ext]

	if common.SupportedImageTypes[declared] {
		if fromExt == "" || fromExt == declared {
			return Result{Payload: p}, nil
		}
		// Declared type and extension disagree; the extension wins.
		return corrected(p, fromExt), nil
	}

	// Declared type is missing, generic or unsupported.
	if fromExt != "" {
		return corrected(p, fromExt), nil
	}

	// Last chance: identify the content itself. Covers files with no usable
	// name, e.g. camera captures named "upload" declared octet-stream.
	if mt := mimetype.Detect(p.Data); common.SupportedImageTypes[mt.String()] {
		return corrected(p, mt.String()), nil
	}

	return Result{}, fmt.Errorf("%s (%s): %w", p.Name, p.MIME, common.ErrInvalidFileType)
}

func corrected(p models.Payload, mime string) Result {
	fixed := p
	fixed.MIME = mime
	return Result{Payload: fixed, Corrected: true}
}
