package common

// DefaultOptimizeThreshold is the payload size, in bytes, above which the
// orchestrator runs the bitmap optimizer before uploading. This is the single
// source of the 10 MB rule; there is no separate max-size rejection path.
const DefaultOptimizeThreshold = 10 << 20

// SupportedImageTypes is the set of MIME types the pipeline accepts.
var SupportedImageTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/webp":    true,
	"image/gif":     true,
	"image/bmp":     true,
	"image/tiff":    true,
	"image/svg+xml": true,
}

// UploadableImageTypes is the narrower set the upload endpoint accepts.
// SVG, BMP and TIFF can be previewed locally but are never transmitted.
var UploadableImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}
