package thumbs

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
)

// JpegQuality trades a little visual quality for materially smaller
// thumbnails.
const JpegQuality = 85

// ResizeAndEncode resamples img to targetWidth preserving its aspect
// ratio and encodes the result as JPEG.
func ResizeAndEncode(img *image.RGBA, targetWidth int) ([]byte, error) {
	resized := Resize(img, targetWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: JpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

// Resize resamples img to targetWidth using Catmull-Rom interpolation,
// a bicubic kernel that avoids the aliasing of nearest-neighbor and the
// blur of plain bilinear on downscales.
func Resize(img *image.RGBA, targetWidth int) *image.RGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	targetHeight := TargetHeight(srcW, srcH, targetWidth)

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// TargetHeight computes round(targetWidth * srcH / srcW), keeping the
// original aspect ratio to the nearest pixel and never dropping below
// one pixel.
func TargetHeight(srcW, srcH, targetWidth int) int {
	h := int(math.Round(float64(targetWidth) * float64(srcH) / float64(srcW)))
	if h < 1 {
		h = 1
	}
	return h
}
