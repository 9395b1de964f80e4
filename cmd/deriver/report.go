package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"deriver/internal/diagnostic"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	posStyle     = lipgloss.NewStyle().Faint(true)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	hintStyle    = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("10"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

func severityStyle(s diagnostic.DiagnosticSeverity) lipgloss.Style {
	switch s {
	case diagnostic.DiagnosticError:
		return errorStyle
	case diagnostic.DiagnosticWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// printDiagnostics writes one block per diagnostic followed by a summary line.
// Infos are only printed when verbose is set.
func printDiagnostics(w io.Writer, d diagnostic.Diagnostics, verbose bool) {
	for _, diag := range d.All() {
		if diag.Severity == diagnostic.DiagnosticInfo && !verbose {
			continue
		}

		fmt.Fprintln(w, formatDiagnostic(diag))
	}

	fmt.Fprintln(w, summary(d))
}

func formatDiagnostic(d diagnostic.Diagnostic) string {
	var b strings.Builder

	if d.Pos.IsValid() {
		b.WriteString(posStyle.Render(d.Pos.String()))
		b.WriteString(": ")
	}

	b.WriteString(severityStyle(d.Severity).Render(d.Severity.String()))

	if d.Code != "" {
		b.WriteString(" " + codeStyle.Render("["+d.Code+"]"))
	}

	var subject []string
	if d.TypeName != "" {
		subject = append(subject, d.TypeName)
	}

	if d.Capability != "" {
		subject = append(subject, d.Capability)
	}

	if len(subject) > 0 {
		b.WriteString(" " + strings.Join(subject, " "))
	}

	b.WriteString(": " + d.Message)

	for _, s := range d.Suggestions {
		b.WriteString("\n    " + hintStyle.Render("did you mean "+s+"?"))
	}

	return b.String()
}

func summary(d diagnostic.Diagnostics) string {
	if !d.HasErrors() && len(d.Warnings) == 0 {
		return okStyle.Render("ok")
	}

	text := fmt.Sprintf("%d error(s), %d warning(s)", len(d.Errors), len(d.Warnings))
	if d.HasErrors() {
		return errorStyle.Render(text)
	}

	return warningStyle.Render(text)
}
