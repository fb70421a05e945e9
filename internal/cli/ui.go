package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

const iconArrow = "→"

// =============================================================================
// Printer
// =============================================================================

// printer writes styled status lines. Styles come from a renderer bound to
// the destination, so output to a pipe or file carries no escape codes and
// the text is byte-for-byte what the caller formatted.
type printer struct {
	w io.Writer

	success   lipgloss.Style
	warning   lipgloss.Style
	errorLine lipgloss.Style
	highlight lipgloss.Style
	value     lipgloss.Style
	dim       lipgloss.Style
	spinner   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:         w,
		success:   r.NewStyle().Foreground(colorGreen),
		warning:   r.NewStyle().Foreground(colorYellow),
		errorLine: r.NewStyle().Foreground(colorRed),
		highlight: r.NewStyle().Foreground(colorCyan),
		value:     r.NewStyle().Foreground(colorWhite),
		dim:       r.NewStyle().Foreground(colorDim),
		spinner:   r.NewStyle().Foreground(colorCyan),
	}
}

// printSuccess prints a success message.
func (p *printer) printSuccess(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Render(fmt.Sprintf(format, args...)))
}

// printWarning prints a warning message.
func (p *printer) printWarning(format string, args ...any) {
	fmt.Fprintln(p.w, p.warning.Render(fmt.Sprintf(format, args...)))
}

// printError prints an error headline.
func (p *printer) printError(format string, args ...any) {
	fmt.Fprintln(p.w, p.errorLine.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an unstyled detail line.
func (p *printer) printDetail(msg string) {
	fmt.Fprintln(p.w, msg)
}

// printFile prints a name followed by the file it maps to.
func (p *printer) printFile(name, path, note string) {
	line := p.highlight.Render(name) + " " + p.dim.Render(iconArrow) + " " + p.value.Render(path)
	if note != "" {
		line += " " + p.dim.Render(note)
	}
	fmt.Fprintln(p.w, line)
}

// printNewline prints an empty line.
func (p *printer) printNewline() {
	fmt.Fprintln(p.w)
}
