package cli

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/matzehuels/pngicons/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pngicons.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
svg = "art/icons.svg"
size = 64
renew = true
renderer = "builtin"
inkscape = "/opt/inkscape/bin/inkscape"
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("size", 80, "")
	if err := flags.Parse([]string{"--size", "32"}); err != nil {
		t.Fatal(err)
	}

	opts := defaultExportOpts()
	if err := loadConfig(path, flags, &opts); err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if opts.svg != "art/icons.svg" {
		t.Errorf("svg = %q", opts.svg)
	}
	// The flag is not bound to opts here; the file must only leave it alone.
	if opts.size != 80 {
		t.Errorf("size = %d, want the command line to win", opts.size)
	}
	if !opts.renew || opts.renderer != "builtin" || opts.inkscape != "/opt/inkscape/bin/inkscape" {
		t.Errorf("opts = %+v", opts)
	}
	if opts.output != "" {
		t.Errorf("output = %q, want unset key to keep default", opts.output)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "sise = 64\n"},
		{"wrong type", "size = \"big\"\n"},
		{"syntax error", "size = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultExportOpts()
			err := loadConfig(writeConfig(t, tt.content), pflag.NewFlagSet("test", pflag.ContinueOnError), &opts)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("loadConfig() error = %v, want INVALID_INPUT", err)
			}
		})
	}

	opts := defaultExportOpts()
	err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), pflag.NewFlagSet("test", pflag.ContinueOnError), &opts)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("missing file error = %v, want INVALID_INPUT", err)
	}
}

func TestConfigFlagEndToEnd(t *testing.T) {
	src, outDir := project(t, gearSVG)
	cfg := writeConfig(t, "renderer = \"builtin\"\nsize = 40\nsvg = \""+filepath.ToSlash(src)+"\"\n")

	pngSize := func() (int, int) {
		t.Helper()
		f, err := os.Open(filepath.Join(outDir, "gear.png"))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()
		c, err := png.DecodeConfig(f)
		if err != nil {
			t.Fatal(err)
		}
		return c.Width, c.Height
	}

	if _, _, err := run(t, "--config", cfg); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if w, h := pngSize(); w != 40 || h != 20 {
		t.Errorf("png size = %dx%d, want 40x20 from config", w, h)
	}

	if _, _, err := run(t, "--config", cfg, "--size", "20", "-r"); err != nil {
		t.Fatalf("run error = %v", err)
	}
	if w, h := pngSize(); w != 20 || h != 10 {
		t.Errorf("png size = %dx%d, want 20x10 from flag", w, h)
	}
}
