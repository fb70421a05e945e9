package cli

import (
	"context"
	"fmt"

	"github.com/matzehuels/pngicons/pkg/errors"
	"github.com/matzehuels/pngicons/pkg/icons"
	"github.com/matzehuels/pngicons/pkg/render"
)

// runExport checks the preconditions in order (flags, renderer, source
// document) and then exports every icon. Only those checks, a malformed
// document or cancellation make it return an error.
func (c *CLI) runExport(ctx context.Context, opts exportOpts) error {
	logger := loggerFromContext(ctx)

	if opts.size <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--size must be positive, got %d", opts.size)
	}

	r, err := render.New(opts.renderer, render.Options{
		InkscapeBin: opts.inkscape,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	if ink, ok := r.(*render.Inkscape); ok {
		logger.Debug("using inkscape", "path", ink.Path())
	}

	prog := newProgress(logger)
	exp := icons.NewExporter(r, c.newStatusReporter(ctx), logger)
	res, err := exp.Run(ctx, icons.Options{
		Source:    opts.svg,
		OutputDir: opts.output,
		Size:      opts.size,
		Renew:     opts.renew,
	})
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Exported %d of %d icons (%d skipped, %d failed)",
		res.Created, res.Discovered, res.Skipped, res.Failed))
	return nil
}
