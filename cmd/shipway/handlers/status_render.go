package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/shipway-dev/shipway/internal/k8s"
	"github.com/shipway-dev/shipway/internal/pipeline"
)

var (
	statusColorGreen = lipgloss.Color("#22c55e")
	statusColorRed   = lipgloss.Color("#ef4444")
	statusColorBlue  = lipgloss.Color("#3b82f6")
	statusColorDim   = lipgloss.Color("#6b7280")
	statusColorWhite = lipgloss.Color("#f9fafb")
)

var (
	statusTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorWhite)

	statusSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(statusColorBlue)

	statusDimStyle = lipgloss.NewStyle().
			Foreground(statusColorDim)

	statusGreenStyle = lipgloss.NewStyle().
				Foreground(statusColorGreen)

	statusRedStyle = lipgloss.NewStyle().
			Foreground(statusColorRed)
)

// styledOutput reports whether stdout is a terminal. Plain output goes
// to pipes and CI logs.
var styledOutput = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderStatus produces the status report. Styling is dropped when
// stdout is not a terminal.
func renderStatus(appName string, latest *pipeline.Run, report *k8s.DeploymentReport) string {
	styled := styledOutput()
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(style(statusTitleStyle, fmt.Sprintf("  shipway status: %s", appName)))
	b.WriteString("\n")
	b.WriteString(style(statusDimStyle, "  "+strings.Repeat("═", 30)))
	b.WriteString("\n")

	if latest != nil {
		b.WriteString("\n")
		b.WriteString(style(statusSectionStyle, "  Latest Run"))
		b.WriteString("\n")
		b.WriteString(style(statusDimStyle, "  "+strings.Repeat("─", 35)))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("    %s\n", describeRun(latest)))
		if latest.Image != "" {
			b.WriteString(fmt.Sprintf("    Image: %s\n", latest.Image))
		}
		if latest.URL != "" {
			b.WriteString(fmt.Sprintf("    URL:   %s\n", latest.URL))
		}
		for _, stage := range latest.Stages {
			marker := style(statusGreenStyle, "ok")
			switch stage.Status {
			case pipeline.StatusFailed:
				marker = style(statusRedStyle, "failed")
			case pipeline.StatusSkipped:
				marker = style(statusDimStyle, "skipped")
			}
			b.WriteString(fmt.Sprintf("    %-10s %s\n", stage.Name, marker))
		}
	}

	if report != nil {
		b.WriteString("\n")
		b.WriteString(style(statusSectionStyle, "  Replicas"))
		b.WriteString("\n")
		b.WriteString(style(statusDimStyle, "  "+strings.Repeat("─", 35)))
		b.WriteString("\n")

		readiness := fmt.Sprintf("%d/%d ready", report.Ready, report.Desired)
		if report.Available() {
			readiness = style(statusGreenStyle, readiness)
		} else {
			readiness = style(statusRedStyle, readiness)
		}
		b.WriteString(fmt.Sprintf("    %s/%s: %s\n", report.Namespace, report.Name, readiness))
		b.WriteString(fmt.Sprintf("    Image: %s\n", report.Image))

		for _, pod := range report.Pods {
			marker := style(statusGreenStyle, "ready")
			if !pod.Ready {
				marker = style(statusRedStyle, "not ready")
			}
			b.WriteString(fmt.Sprintf("    %-40s %-10s %s\n", pod.Name, pod.Phase, marker))
		}
	}

	b.WriteString("\n")
	return b.String()
}
