package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pngicons/pkg/errors"
)

// DefaultInkscape is the executable looked up on PATH when none is configured.
const DefaultInkscape = "inkscape"

// Inkscape renders elements by running the inkscape command line.
// Every Measure costs two subprocess calls and every Export one.
type Inkscape struct {
	bin    string // name as configured, used in messages
	path   string // resolved executable
	logger *log.Logger
}

// NewInkscape resolves bin on PATH (an explicit path is used as-is).
// Install with: brew install --cask inkscape (macOS), apt install inkscape (Linux).
func NewInkscape(bin string, logger *log.Logger) (*Inkscape, error) {
	if bin == "" {
		bin = DefaultInkscape
	}
	if logger == nil {
		logger = log.Default()
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererNotFound, err, "%s is required to render icons", bin)
	}
	return &Inkscape{bin: bin, path: path, logger: logger}, nil
}

// Path returns the resolved executable path.
func (i *Inkscape) Path() string { return i.path }

// Measure queries the width, then the height, of element id.
func (i *Inkscape) Measure(ctx context.Context, src, id string) (Size, error) {
	w, err := i.queryDimension(ctx, src, id, "width")
	if err != nil {
		return Size{}, err
	}
	h, err := i.queryDimension(ctx, src, id, "height")
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w, Height: h}, nil
}

// Export writes element id of src to dst as a width x height pixel PNG,
// cropped to the element's own bounding box.
func (i *Inkscape) Export(ctx context.Context, src, id string, width, height float64, dst string) error {
	_, err := i.run(ctx, exportArgs(src, id, width, height, dst)...)
	return err
}

func (i *Inkscape) queryDimension(ctx context.Context, src, id, dimension string) (float64, error) {
	out, err := i.run(ctx, queryArgs(src, id, dimension)...)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidOutput, err, "could not convert string to float: '%s'", out)
	}
	return v, nil
}

func queryArgs(src, id, dimension string) []string {
	return []string{
		src,
		"--query-id=" + id,
		"--query-" + dimension,
	}
}

func exportArgs(src, id string, width, height float64, dst string) []string {
	return []string{
		src,
		"--export-id=" + id,
		"--export-id-only",
		"--export-area-snap",
		"--export-width=" + formatFloat(width) + "px",
		"--export-height=" + formatFloat(height) + "px",
		"--export-filename=" + dst,
	}
}

// run executes inkscape and returns its trimmed stdout.
// A non-zero exit becomes a RENDER_FAILED error carrying inkscape's stderr.
func (i *Inkscape) run(ctx context.Context, args ...string) (string, error) {
	i.logger.Debug("running inkscape", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, i.path, args...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(errBuf.String())
		if msg == "" {
			msg = "Command failed: " + strings.Join(append([]string{i.bin}, args...), " ")
		}
		return "", errors.Wrap(errors.ErrCodeRenderFailed, err, "%s", msg)
	}
	return strings.TrimSpace(out.String()), nil
}
