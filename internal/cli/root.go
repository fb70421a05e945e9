package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pngicons/pkg/buildinfo"
	"github.com/matzehuels/pngicons/pkg/icons"
	"github.com/matzehuels/pngicons/pkg/render"
)

// exportOpts holds the flags shared by the root command and list.
type exportOpts struct {
	svg      string // source document
	output   string // output directory, empty for the default
	size     int    // pixel length of the longer side
	renew    bool   // re-export existing files
	renderer string // renderer kind
	inkscape string // inkscape executable
	config   string // TOML config file
	verbose  bool
}

func defaultExportOpts() exportOpts {
	return exportOpts{
		svg:      "icons.svg",
		size:     icons.DefaultSize,
		renderer: render.KindInkscape,
		inkscape: render.DefaultInkscape,
	}
}

// RootCommand creates the root cobra command. Running it exports the icons.
func (c *CLI) RootCommand() *cobra.Command {
	opts := defaultExportOpts()

	root := &cobra.Command{
		Use:   appName,
		Short: "Export the titled elements of an SVG document as PNG icons",
		Long: `pngicons renders every element of an SVG document that has a <title> child
to <title>.png, scaled so its longer side is --size pixels.

By default the PNG files are written to the parent of the directory holding
the SVG (graphics/source/icons.svg writes to graphics/), and icons whose file
already exists are skipped unless --renew is given.

Examples:
  pngicons                                   # ./icons.svg, 80px icons
  pngicons --svg graphics/source/icons.svg -r
  pngicons --size 128 --renderer builtin     # no inkscape needed`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			c.Logger.Debug("starting", "build", buildinfo.String())
			if opts.config != "" {
				return loadConfig(opts.config, cmd.Flags(), &opts)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&opts.svg, "svg", opts.svg, "path to the source SVG document")
	pf.StringVarP(&opts.output, "output", "o", "", "output directory (default: parent of the SVG's directory)")
	pf.StringVar(&opts.config, "config", "", "TOML config file with flag defaults")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	f := root.Flags()
	f.BoolVarP(&opts.renew, "renew", "r", false, "replace icons that already exist")
	f.IntVar(&opts.size, "size", opts.size, "maximum size of an icon's longer side in pixels")
	f.StringVar(&opts.renderer, "renderer", opts.renderer, "renderer: inkscape or builtin")
	f.StringVar(&opts.inkscape, "inkscape", opts.inkscape, "inkscape executable")

	root.AddCommand(c.listCommand(&opts))
	root.AddCommand(c.completionCommand())

	return root
}
