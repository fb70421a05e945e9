package icons

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pngicons/pkg/errors"
	"github.com/matzehuels/pngicons/pkg/render"
)

// Options configures a single export run.
type Options struct {
	Source    string // SVG document
	OutputDir string // defaults to OutputDir(Source)
	Size      int    // pixel length of the longer side
	Renew     bool   // re-export icons whose PNG already exists
}

// OutputDir returns the default output directory for src: the parent of the
// directory holding it.
func OutputDir(src string) string {
	return filepath.Dir(filepath.Dir(src))
}

// Reporter receives per-icon progress, in document order.
type Reporter interface {
	// Skipped is called when the PNG exists and the run is not renewing.
	Skipped(d Descriptor, path string)
	// Started is called before the renderer is first invoked for d.
	Started(d Descriptor)
	// Created is called after d was exported to path.
	Created(d Descriptor, path string)
	// Failed is called when measuring or exporting d failed.
	Failed(d Descriptor, err error)
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Skipped(Descriptor, string) {}
func (NopReporter) Started(Descriptor)         {}
func (NopReporter) Created(Descriptor, string) {}
func (NopReporter) Failed(Descriptor, error)   {}

// Result counts what a run did.
type Result struct {
	Discovered int
	Created    int
	Skipped    int
	Failed     int
}

// Exporter drives a renderer over the icons of a document.
type Exporter struct {
	renderer render.Renderer
	reporter Reporter
	logger   *log.Logger
}

// NewExporter creates an exporter. A nil reporter discards progress and a nil
// logger uses log.Default().
func NewExporter(r render.Renderer, rep Reporter, logger *log.Logger) *Exporter {
	if rep == nil {
		rep = NopReporter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{renderer: r, reporter: rep, logger: logger}
}

// Run exports every icon of opts.Source.
//
// It returns an error only when the run cannot proceed: invalid options, a
// missing source document, a malformed document, or ctx being cancelled.
// Failures of individual icons are passed to the Reporter and counted in
// Result.Failed. Icons sharing a name share an output file; the last one wins.
func (e *Exporter) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	if opts.Size <= 0 {
		return res, errors.New(errors.ErrCodeInvalidInput, "size must be positive, got %d", opts.Size)
	}
	info, err := os.Stat(opts.Source)
	if err != nil || !info.Mode().IsRegular() {
		return res, errors.Wrap(errors.ErrCodeFileNotFound, err, "icons.svg not found: %s", opts.Source)
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = OutputDir(opts.Source)
	}

	// The whole document is parsed before the first export, so a malformed
	// file leaves the output directory untouched.
	var found []Descriptor
	for d, err := range DiscoverFile(opts.Source) {
		if err != nil {
			return res, err
		}
		found = append(found, d)
	}
	res.Discovered = len(found)

	for _, d := range found {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		dst := filepath.Join(outDir, d.Filename())
		if _, err := os.Stat(dst); err == nil && !opts.Renew {
			res.Skipped++
			e.reporter.Skipped(d, dst)
			continue
		}

		e.reporter.Started(d)
		if err := e.exportOne(ctx, &d, opts.Source, dst, float64(opts.Size)); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			res.Failed++
			e.reporter.Failed(d, err)
			continue
		}
		res.Created++
		e.reporter.Created(d, dst)
	}
	return res, nil
}

// exportOne measures d, fits it into size and exports it to dst.
func (e *Exporter) exportOne(ctx context.Context, d *Descriptor, src, dst string, size float64) error {
	natural, err := e.renderer.Measure(ctx, src, d.ElementID)
	if err != nil {
		return fmt.Errorf("measure %s: %w", d.ElementID, err)
	}
	d.Width, d.Height = natural.Width, natural.Height

	w, h, err := Fit(d.Width, d.Height, size)
	if err != nil {
		return err
	}
	e.logger.Debug("exporting icon", "name", d.Name, "id", d.ElementID,
		"natural", fmt.Sprintf("%vx%v", d.Width, d.Height),
		"export", fmt.Sprintf("%vx%v", w, h))

	if err := e.renderer.Export(ctx, src, d.ElementID, w, h, dst); err != nil {
		return fmt.Errorf("export %s: %w", d.ElementID, err)
	}
	return nil
}
