package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/pngicons/pkg/errors"
)

const gearSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 200">
  <g id="g-gear"><title>gear</title><rect x="10" y="20" width="100" height="50"/></g>
</svg>`

// project lays out <root>/graphics/source/icons.svg and returns the SVG path
// and the default output directory.
func project(t *testing.T, svg string) (string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "graphics", "source", "icons.svg")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte(svg), 0o644); err != nil {
		t.Fatal(err)
	}
	return src, filepath.Join(root, "graphics")
}

// fakeInkscape writes a shell script standing in for inkscape. It logs its
// arguments, answers width/height queries and writes a stub PNG on export.
func fakeInkscape(t *testing.T, width, height string) (string, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake inkscape is a shell script")
	}
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	script := `#!/bin/sh
echo "$@" >> "` + logPath + `"
for arg in "$@"; do
  case "$arg" in
    --query-width) echo "` + width + `"; exit 0 ;;
    --query-height) echo "` + height + `"; exit 0 ;;
    --export-filename=*) printf png > "${arg#--export-filename=}"; exit 0 ;;
  esac
done
exit 2
`
	bin := filepath.Join(dir, "inkscape")
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return bin, logPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := New(&out, &errOut, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func calls(t *testing.T, logPath string) string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestExportCreatesIcon(t *testing.T) {
	src, outDir := project(t, gearSVG)
	bin, logPath := fakeInkscape(t, "100", "50")

	stdout, stderr, err := run(t, "--svg", src, "--inkscape", bin)
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if stdout != "Created gear\n\n" {
		t.Errorf("stdout = %q, want %q", stdout, "Created gear\n\n")
	}
	if !strings.Contains(stderr, "Exported 1 of 1 icons (0 skipped, 0 failed)") {
		t.Errorf("stderr = %q, want summary", stderr)
	}

	log := calls(t, logPath)
	for _, want := range []string{
		src + " --query-id=g-gear --query-width",
		src + " --query-id=g-gear --query-height",
		"--export-width=80px --export-height=40px --export-filename=" + filepath.Join(outDir, "gear.png"),
	} {
		if !strings.Contains(log, want) {
			t.Errorf("inkscape calls missing %q:\n%s", want, log)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "gear.png")); err != nil {
		t.Errorf("gear.png missing: %v", err)
	}
}

func TestExportSkipsExisting(t *testing.T) {
	src, outDir := project(t, gearSVG)
	bin, logPath := fakeInkscape(t, "100", "50")
	if err := os.WriteFile(filepath.Join(outDir, "gear.png"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := run(t, "--svg", src, "--inkscape", bin)
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "Skipping gear\n\n" {
		t.Errorf("stdout = %q, want %q", stdout, "Skipping gear\n\n")
	}
	if log := calls(t, logPath); log != "" {
		t.Errorf("inkscape should not run, got calls:\n%s", log)
	}

	stdout, _, err = run(t, "--svg", src, "--inkscape", bin, "-r")
	if err != nil {
		t.Fatal(err)
	}
	if stdout != "Created gear\n\n" {
		t.Errorf("with --renew stdout = %q, want %q", stdout, "Created gear\n\n")
	}
}

func TestExportReportsItemFailure(t *testing.T) {
	src, _ := project(t, gearSVG)
	bin, _ := fakeInkscape(t, "abc", "50")

	stdout, _, err := run(t, "--svg", src, "--inkscape", bin)
	if err != nil {
		t.Fatalf("per-icon failure must not fail the run: %v", err)
	}
	want := "\nError with the file gear.png!\ncould not convert string to float: 'abc'\n\n\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestExportFatalErrors(t *testing.T) {
	src, _ := project(t, gearSVG)
	bin, logPath := fakeInkscape(t, "100", "50")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing renderer", []string{"--svg", src, "--inkscape", "pngicons-no-such-inkscape"}, errors.ErrCodeRendererNotFound},
		{"missing svg", []string{"--svg", filepath.Join(t.TempDir(), "icons.svg"), "--inkscape", bin}, errors.ErrCodeFileNotFound},
		{"renderer checked first", []string{"--svg", "nope.svg", "--inkscape", "pngicons-no-such-inkscape"}, errors.ErrCodeRendererNotFound},
		{"zero size", []string{"--svg", src, "--inkscape", bin, "--size", "0"}, errors.ErrCodeInvalidInput},
		{"unknown renderer", []string{"--svg", src, "--renderer", "cairo"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}
			if stdout != "" {
				t.Errorf("no icon should be reported, stdout = %q", stdout)
			}
		})
	}

	if log := calls(t, logPath); log != "" {
		t.Errorf("inkscape should not run, got calls:\n%s", log)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantStderr string
	}{
		{"success", nil, 0, ""},
		{"interrupted", fmt.Errorf("export gear: %w", context.Canceled), 130, ""},
		{
			"fatal prints message only",
			errors.Wrap(errors.ErrCodeRendererNotFound, stderrors.New(`exec: "inkscape": executable file not found in $PATH`), "inkscape is required to render icons"),
			1,
			"inkscape is required to render icons\n",
		},
		{"other error", stderrors.New(`unknown flag: --bogus`), 1, "unknown flag: --bogus\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			c := New(&out, &errOut, LogInfo)
			if got := c.ExitCode(tt.err); got != tt.wantCode {
				t.Errorf("ExitCode() = %d, want %d", got, tt.wantCode)
			}
			if errOut.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", errOut.String(), tt.wantStderr)
			}
		})
	}
}

func TestExitCodeForMissingRenderer(t *testing.T) {
	src, _ := project(t, gearSVG)

	var out, errOut bytes.Buffer
	c := New(&out, &errOut, LogInfo)
	root := c.RootCommand()
	root.SetArgs([]string{"--svg", src, "--inkscape", "pngicons-no-such-inkscape"})
	code := c.ExitCode(root.ExecuteContext(context.Background()))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if got, want := errOut.String(), "pngicons-no-such-inkscape is required to render icons\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestExportRejectsArgs(t *testing.T) {
	if _, _, err := run(t, "icons.svg"); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestExportBuiltinRenderer(t *testing.T) {
	src, outDir := project(t, gearSVG)

	stdout, _, err := run(t, "--svg", src, "--renderer", "builtin", "--size", "40")
	if err != nil {
		t.Fatalf("run error = %v", err)
	}
	if stdout != "Created gear\n\n" {
		t.Errorf("stdout = %q", stdout)
	}

	f, err := os.Open(filepath.Join(outDir, "gear.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("png size = %dx%d, want 40x20", cfg.Width, cfg.Height)
	}
}

func TestExportOutputOverride(t *testing.T) {
	src, _ := project(t, gearSVG)
	out := t.TempDir()

	if _, _, err := run(t, "--svg", src, "--renderer", "builtin", "-o", out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(out, "gear.png")); err != nil {
		t.Errorf("gear.png not in --output dir: %v", err)
	}
}

func TestVerboseLogsRendererCalls(t *testing.T) {
	src, _ := project(t, gearSVG)
	bin, _ := fakeInkscape(t, "100", "50")

	_, stderr, err := run(t, "--svg", src, "--inkscape", bin, "-v")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "running inkscape") {
		t.Errorf("verbose stderr should log renderer calls:\n%s", stderr)
	}
	if !strings.Contains(stderr, "pngicons dev") {
		t.Errorf("verbose stderr should log build info:\n%s", stderr)
	}
}

func TestListCommand(t *testing.T) {
	src, outDir := project(t, gearSVG)

	stdout, _, err := run(t, "list", "--svg", src)
	if err != nil {
		t.Fatal(err)
	}
	want := "gear → " + filepath.Join(outDir, "gear.png") + " #g-gear\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}

	if err := os.WriteFile(filepath.Join(outDir, "gear.png"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = run(t, "list", "--svg", src)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(stdout, "#g-gear, exists\n") {
		t.Errorf("stdout = %q, want existing file noted", stdout)
	}
}

func TestListCommandErrors(t *testing.T) {
	_, _, err := run(t, "list", "--svg", filepath.Join(t.TempDir(), "icons.svg"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}

	src, _ := project(t, `<svg xmlns="http://www.w3.org/2000/svg"><g>`)
	_, _, err = run(t, "list", "--svg", src)
	if !errors.Is(err, errors.ErrCodeInvalidSVG) {
		t.Errorf("error = %v, want INVALID_SVG", err)
	}

	empty, _ := project(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`)
	stdout, _, err := run(t, "list", "--svg", empty)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "No titled elements") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "pngicons version ") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "pngicons") {
		t.Error("bash completion should mention the command name")
	}

	if _, _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("unsupported shell should be rejected")
	}
}
