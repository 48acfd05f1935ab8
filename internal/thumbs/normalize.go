package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format
)

// Normalize decodes raw image bytes and flattens any transparency onto
// an opaque white background. The result is always an opaque RGBA
// raster, so the JPEG encoder downstream never produces black or
// undefined regions where transparent pixels used to be.
func Normalize(data []byte) (*image.RGBA, error) {
	// Cheap header sniff before handing the bytes to the decoders.
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: content is not a known raster format", ErrDecode)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return flattenOntoWhite(src), nil
}

// flattenOntoWhite blends src over solid white (255,255,255). Fully
// transparent pixels become pure white, fully opaque pixels are copied
// unchanged. Grayscale and paletted images come out as plain opaque RGBA
// through the same draw path.
func flattenOntoWhite(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}
