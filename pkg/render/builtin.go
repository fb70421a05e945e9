package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/pngicons/pkg/errors"
)

const (
	// measureScale is the number of pixels per user unit used to find bounds.
	measureScale = 4.0

	// maxMeasurePixels caps the measuring canvas for very large documents.
	maxMeasurePixels = 1 << 26

	// alphaThreshold is the lowest alpha counted as visible, so rounding noise
	// at shape edges does not grow the bounds by a pixel.
	alphaThreshold = 16
)

// Builtin renders elements in-process with oksvg and rasterx.
//
// Bounds are found by rasterizing the element and taking the bounding box of
// its visible pixels, so sizes are in user units of the root viewBox and
// accurate to 1/measureScale of a unit. oksvg supports a subset of SVG
// (no text, filters or masks).
type Builtin struct {
	logger *log.Logger
}

// NewBuiltin returns an in-process renderer.
func NewBuiltin(logger *log.Logger) *Builtin {
	if logger == nil {
		logger = log.Default()
	}
	return &Builtin{logger: logger}
}

// bounds is an element's visible area in user units.
type bounds struct {
	X, Y, W, H float64
}

// Measure rasterizes element id and returns the size of its visible area.
func (b *Builtin) Measure(ctx context.Context, src, id string) (Size, error) {
	if err := ctx.Err(); err != nil {
		return Size{}, err
	}
	frag, err := loadFragment(src, id)
	if err != nil {
		return Size{}, err
	}
	box, err := b.bounds(frag, id)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: box.W, Height: box.H}, nil
}

// Export rasterizes element id so its visible area fills a
// ceil(width) x ceil(height) PNG and writes it to dst.
// The file is written to a temporary name first and renamed into place.
func (b *Builtin) Export(ctx context.Context, src, id string, width, height float64, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	frag, err := loadFragment(src, id)
	if err != nil {
		return err
	}
	box, err := b.bounds(frag, id)
	if err != nil {
		return err
	}

	pw, ph := int(math.Ceil(width)), int(math.Ceil(height))
	if pw <= 0 || ph <= 0 {
		return errors.New(errors.ErrCodeRenderFailed, "invalid export size %sx%s", formatFloat(width), formatFloat(height))
	}
	sx, sy := width/box.W, height/box.H
	img, err := rasterize(frag,
		(frag.box.X-box.X)*sx, (frag.box.Y-box.Y)*sy,
		frag.box.W*sx, frag.box.H*sy,
		pw, ph)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.logger.Debug("writing png", "id", id, "width", pw, "height", ph, "path", dst)
	return writePNG(img, dst)
}

// bounds measures the visible area of frag.
func (b *Builtin) bounds(frag *fragment, id string) (bounds, error) {
	scale := measureScale
	if area := frag.box.W * frag.box.H * scale * scale; area > maxMeasurePixels {
		scale = math.Sqrt(maxMeasurePixels / (frag.box.W * frag.box.H))
	}
	w, h := int(math.Ceil(frag.box.W*scale)), int(math.Ceil(frag.box.H*scale))

	img, err := rasterize(frag, 0, 0, frag.box.W*scale, frag.box.H*scale, w, h)
	if err != nil {
		return bounds{}, err
	}
	r, ok := alphaBounds(img)
	if !ok {
		return bounds{}, errors.New(errors.ErrCodeRenderFailed, "element %q has no visible content", id)
	}

	box := bounds{
		X: frag.box.X + float64(r.Min.X)/scale,
		Y: frag.box.Y + float64(r.Min.Y)/scale,
		W: float64(r.Dx()) / scale,
		H: float64(r.Dy()) / scale,
	}
	b.logger.Debug("measured element", "id", id, "x", box.X, "y", box.Y, "width", box.W, "height", box.H)
	return box, nil
}

func loadFragment(src, id string) (*fragment, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "read %s: %v", src, err)
	}
	frag, err := extractElement(bytes.NewReader(data), id)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "%v", err)
	}
	return frag, nil
}

// rasterize draws the fragment with its viewBox mapped onto the rectangle
// (x, y, w, h) of a width x height canvas.
func rasterize(frag *fragment, x, y, w, h float64, width, height int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(frag.doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, errors.New(errors.ErrCodeRenderFailed, "rasterize: %v", err)
	}
	icon.SetTarget(x, y, w, h)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

// alphaBounds returns the smallest rectangle holding every pixel with an
// alpha of at least alphaThreshold.
func alphaBounds(img *image.RGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY, maxX, maxY := b.Max.X, b.Max.Y, b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := b.Min.X; x < b.Max.X; x++ {
			if row[(x-b.Min.X)*4+3] < alphaThreshold {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func writePNG(img image.Image, dst string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".pngicons-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("rename to %s: %w", dst, err)
	}
	return nil
}
