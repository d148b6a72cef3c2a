// Package display renders check results and warnings for terminal output.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/modcheck/internal/contract"
)

// Renderer writes human-readable check output to a writer.
// Color is enabled only when the writer is a terminal.
type Renderer struct {
	out         io.Writer
	colorOutput bool
}

// NewRenderer creates a Renderer for the given writer, detecting terminal
// support for color output.
func NewRenderer(out io.Writer) *Renderer {
	colorOutput := false
	if f, ok := out.(*os.File); ok {
		colorOutput = isatty.IsTerminal(f.Fd())
	}
	return &Renderer{out: out, colorOutput: colorOutput}
}

// NewPlainRenderer creates a Renderer with color output disabled, regardless
// of the writer. Used by tests and when output is piped.
func NewPlainRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Target prints the header line naming what is being checked.
func (r *Renderer) Target(name string) {
	fmt.Fprintf(r.out, "Checking %s\n", name)
}

// Results prints one line per check result under the current target.
func (r *Renderer) Results(results []contract.Result) {
	for _, res := range results {
		r.result(res)
	}
}

func (r *Renderer) result(res contract.Result) {
	mark := "PASS"
	if !res.Passed() {
		mark = "FAIL"
	}
	if r.colorOutput {
		if res.Passed() {
			mark = color.New(color.FgGreen).Sprint(mark)
		} else {
			mark = color.New(color.FgRed).Sprint(mark)
		}
	}

	module := res.Module
	if module == "" {
		module = "(unknown module)"
	}

	if res.Passed() {
		fmt.Fprintf(r.out, "  %s  %-12s %s %s\n", mark, res.Check, module, res.Version)
	} else {
		fmt.Fprintf(r.out, "  %s  %-12s %s: %v\n", mark, res.Check, module, res.Err)
	}
}

// Summary prints the final pass/fail tally.
func (r *Renderer) Summary(passed, failed int) {
	fmt.Fprintln(r.out, strings.Repeat("-", 48))
	if failed == 0 {
		line := fmt.Sprintf("%d checks passed", passed)
		if r.colorOutput {
			line = color.New(color.FgGreen).Sprint(line)
		}
		fmt.Fprintln(r.out, line)
		return
	}

	line := fmt.Sprintf("%d checks passed, %d failed", passed, failed)
	if r.colorOutput {
		line = color.New(color.FgRed).Sprint(line)
	}
	fmt.Fprintln(r.out, line)
}

// Warning represents a structured warning message
type Warning struct {
	Title      string // Main warning title
	Message    string // Detailed explanation (optional)
	Suggestion string // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	text := b.String()
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		text = color.New(color.FgYellow).Sprint(text)
	}
	fmt.Fprint(out, text)
}
