package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pngicons/pkg/errors"
	"github.com/matzehuels/pngicons/pkg/icons"
)

// listCommand prints the icons a run would export, without rendering anything.
func (c *CLI) listCommand(opts *exportOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the icons found in the SVG document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(*opts)
		},
	}
}

func (c *CLI) runList(opts exportOpts) error {
	info, err := os.Stat(opts.svg)
	if err != nil || !info.Mode().IsRegular() {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "icons.svg not found: %s", opts.svg)
	}
	outDir := opts.output
	if outDir == "" {
		outDir = icons.OutputDir(opts.svg)
	}

	n := 0
	for d, err := range icons.DiscoverFile(opts.svg) {
		if err != nil {
			return err
		}
		n++
		dst := filepath.Join(outDir, d.Filename())
		note := "#" + d.ElementID
		if _, err := os.Stat(dst); err == nil {
			note += ", exists"
		}
		c.out.printFile(d.Name, dst, note)
	}
	if n == 0 {
		c.out.printWarning("No titled elements in %s", opts.svg)
	}
	return nil
}
