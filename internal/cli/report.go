package cli

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pngicons/pkg/errors"
	"github.com/matzehuels/pngicons/pkg/icons"
)

// statusReporter prints one block per icon:
//
//	Created gear
//	<blank>
//
// or "Skipping gear", or a blank line, "Error with the file gear.png!", the
// error text and two blank lines. While an icon renders, a spinner runs on
// stderr if it is a terminal.
type statusReporter struct {
	ctx     context.Context
	c       *CLI
	logger  *log.Logger
	spinner *Spinner
}

var _ icons.Reporter = (*statusReporter)(nil)

func (c *CLI) newStatusReporter(ctx context.Context) *statusReporter {
	return &statusReporter{ctx: ctx, c: c, logger: loggerFromContext(ctx)}
}

func (r *statusReporter) Skipped(d icons.Descriptor, path string) {
	r.logger.Debug("output exists", "path", path)
	r.c.out.printWarning("Skipping %s", d.Name)
	r.c.out.printNewline()
}

func (r *statusReporter) Started(d icons.Descriptor) {
	if !r.c.interactive {
		return
	}
	r.spinner = newSpinner(r.ctx, r.c.errOut, r.c.out.spinner, "Rendering "+d.Name)
	r.spinner.Start()
}

func (r *statusReporter) Created(d icons.Descriptor, path string) {
	r.stopSpinner()
	r.logger.Debug("wrote icon", "path", path, "natural_width", d.Width, "natural_height", d.Height)
	r.c.out.printSuccess("Created %s", d.Name)
	r.c.out.printNewline()
}

func (r *statusReporter) Failed(d icons.Descriptor, err error) {
	r.stopSpinner()
	r.logger.Debug("icon failed", "name", d.Name, "id", d.ElementID, "err", err)
	r.c.out.printNewline()
	r.c.out.printError("Error with the file %s!", d.Filename())
	r.c.out.printDetail(errors.UserMessage(err))
	r.c.out.printNewline()
	r.c.out.printNewline()
}

func (r *statusReporter) stopSpinner() {
	if r.spinner != nil {
		r.spinner.Stop()
		r.spinner = nil
	}
}
