package cli

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/matzehuels/pngicons/pkg/errors"
)

// fileConfig mirrors the root command flags in a TOML file:
//
//	svg      = "graphics/source/icons.svg"
//	output   = "graphics"
//	size     = 64
//	renew    = false
//	renderer = "inkscape"
//	inkscape = "/Applications/Inkscape.app/Contents/MacOS/inkscape"
type fileConfig struct {
	SVG      string `toml:"svg"`
	Output   string `toml:"output"`
	Size     int    `toml:"size"`
	Renew    bool   `toml:"renew"`
	Renderer string `toml:"renderer"`
	Inkscape string `toml:"inkscape"`
}

// loadConfig reads path into opts for every key the file sets and the
// command line did not. Unknown keys are rejected.
func loadConfig(path string, flags *pflag.FlagSet, opts *exportOpts) error {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "read config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return errors.New(errors.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	apply := func(key, flag string, set func()) {
		if md.IsDefined(key) && !flags.Changed(flag) {
			set()
		}
	}
	apply("svg", "svg", func() { opts.svg = cfg.SVG })
	apply("output", "output", func() { opts.output = cfg.Output })
	apply("size", "size", func() { opts.size = cfg.Size })
	apply("renew", "renew", func() { opts.renew = cfg.Renew })
	apply("renderer", "renderer", func() { opts.renderer = cfg.Renderer })
	apply("inkscape", "inkscape", func() { opts.inkscape = cfg.Inkscape })
	return nil
}
