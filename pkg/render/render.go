// Package render measures and exports individual elements of an SVG document.
//
// A [Renderer] offers two operations addressed by element id:
//   - Measure returns the element's natural width and height.
//   - Export writes a PNG of the element, cropped to its bounds and scaled to
//     the requested pixel size.
//
// Two implementations are provided:
//   - [Inkscape] shells out to the inkscape executable.
//   - [Builtin] rasterizes in-process with oksvg and rasterx.
package render

import (
	"context"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pngicons/pkg/errors"
)

// Renderer kinds accepted by [New].
const (
	KindInkscape = "inkscape"
	KindBuiltin  = "builtin"
)

// Size is the natural size of an element in document units.
type Size struct {
	Width  float64
	Height float64
}

// Renderer measures and exports elements of an SVG file by id.
// Calls block until the work is done; cancelling ctx aborts it.
type Renderer interface {
	Measure(ctx context.Context, src, id string) (Size, error)
	Export(ctx context.Context, src, id string, width, height float64, dst string) error
}

// Options configures [New].
type Options struct {
	// InkscapeBin is the inkscape executable name or path (default "inkscape").
	InkscapeBin string
	Logger      *log.Logger
}

// New returns the renderer registered under kind.
// An unknown kind is an INVALID_INPUT error; a missing inkscape executable is
// a RENDERER_NOT_FOUND error.
func New(kind string, opts Options) (Renderer, error) {
	switch kind {
	case "", KindInkscape:
		return NewInkscape(opts.InkscapeBin, opts.Logger)
	case KindBuiltin:
		return NewBuiltin(opts.Logger), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown renderer %q (want %s or %s)", kind, KindInkscape, KindBuiltin)
	}
}

// formatFloat renders v in its shortest decimal form ("80", "26.5").
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
