// Package optimize re-encodes oversized bitmaps on the client: decode,
// downscale to a bounding box preserving aspect ratio, re-encode at a target
// quality in the same MIME type as the input.
package optimize

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	_ "golang.org/x/image/webp"

	"github.com/eventhive/mediakit/internal/client/models"
	"github.com/eventhive/mediakit/internal/common"
)

// Options bound the output resolution and set the re-encode quality.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int // JPEG quality, 1–100
}

// DefaultOptions matches the product defaults for uploaded event photos.
func DefaultOptions() Options {
	return Options{MaxWidth: 1920, MaxHeight: 1080, Quality: 80}
}

// Optimize decodes p, scales it down so that width ≤ MaxWidth and height ≤
// MaxHeight (never up), and re-encodes at opts.Quality using the same MIME
// type. Re-encoding happens even when no resampling is needed. The returned
// payload keeps the original file name and carries a fresh ModTime.
//
// Size reduction is expected but not guaranteed for already-minimal inputs;
// only the dimension bound is contractual.
//
// Errors: common.ErrDecode when p is not a decodable image,
// common.ErrEncodeUnsupported when no encoder exists for p.MIME (WebP, SVG),
// common.ErrEncode when encoding yields no bytes.
func Optimize(p models.Payload, opts Options) (models.Payload, error) {
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return models.Payload{}, fmt.Errorf("%s: %w: %v", p.Name, common.ErrDecode, err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	s := scaleFactor(w, h, opts.MaxWidth, opts.MaxHeight)
	if s < 1 {
		nw := max(1, int(math.Round(float64(w)*s)))
		nh := max(1, int(math.Round(float64(h)*s)))
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
		img = dst
	}

	data, err := encode(img, p.MIME, opts.Quality)
	if err != nil {
		return models.Payload{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	if len(data) == 0 {
		return models.Payload{}, fmt.Errorf("%s: %w", p.Name, common.ErrEncode)
	}

	out := p
	out.Data = data
	out.ModTime = time.Now()
	return out, nil
}

// scaleFactor returns min(1, maxW/w, maxH/h), so aspect ratio is preserved
// exactly and images already inside the box are left at their size.
func scaleFactor(w, h, maxW, maxH int) float64 {
	s := 1.0
	if maxW > 0 && w > maxW {
		s = math.Min(s, float64(maxW)/float64(w))
	}
	if maxH > 0 && h > maxH {
		s = math.Min(s, float64(maxH)/float64(h))
	}
	return s
}

func encode(img image.Image, mime string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	switch mime {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrEncode, err)
		}
	case "image/png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrEncode, err)
		}
	case "image/gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrEncode, err)
		}
	case "image/bmp":
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrEncode, err)
		}
	case "image/tiff":
		if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrEncode, err)
		}
	default:
		// WebP and SVG decode (or preview) fine but have no Go encoder.
		// Callers fall back to the original payload.
		return nil, fmt.Errorf("%w: %s", common.ErrEncodeUnsupported, mime)
	}
	return buf.Bytes(), nil
}
