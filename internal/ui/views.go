package ui

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderProcessingView renders the main processing view
func renderProcessingView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// File queue
	b.WriteString(renderFileQueue(m))
	b.WriteString("\n\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#005F87")).
		Render("Sweepcheck 📈 - Perceptual Distance Monotonicity Probe")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Validating %d recording(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status
func renderFileQueue(m Model) string {
	var b strings.Builder

	for _, file := range m.Files {
		b.WriteString(renderFileEntry(file))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusComplete:
		// ✓ completed file with its coefficient
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %s\n   %s/%s: ρ = %s", icon, fileName,
			file.Transform, file.Variable, formatCoefficient(file.Coefficient))

	case StatusSampling, StatusRendering, StatusValidating:
		// ⚙ active file with detailed progress
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n%s", icon, fileName, renderFileDetails(file))

	case StatusError:
		// ✗ failed file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Error)

	default:
		// ○ queued file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderFileDetails renders detailed progress for the active file
func renderFileDetails(file FileProgress) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#005F87")).
		Padding(0, 1).
		Width(60)

	var content strings.Builder

	switch file.Status {
	case StatusSampling:
		content.WriteString("Sampling transform parameters...\n")
	case StatusRendering:
		content.WriteString(fmt.Sprintf("Rendering sweep: %s, variable %s\n", file.Transform, file.Variable))
		if file.Total > 0 {
			content.WriteString(renderProgressBar(float64(file.Rendered)/float64(file.Total), 40))
			content.WriteString(fmt.Sprintf("  %d/%d", file.Rendered, file.Total))
		}
		content.WriteString("\n")
	case StatusValidating:
		content.WriteString(fmt.Sprintf("Measuring distances to anchor: %s, variable %s\n", file.Transform, file.Variable))
	}

	content.WriteString(fmt.Sprintf("⏱  Elapsed: %.1fs", file.ElapsedTime.Seconds()))

	return box.Render(content.String())
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	// Show current file being processed
	var content string
	if m.CurrentIndex >= 0 && m.CurrentIndex < len(m.Files) {
		currentFile := m.CurrentIndex + 1 // 1-indexed for display
		content = fmt.Sprintf("Validating file %d of %d (%d complete, %d failed)",
			currentFile, m.TotalFiles, m.CompletedFiles, m.FailedFiles)
	} else {
		content = fmt.Sprintf("Overall Progress: %d/%d complete", m.CompletedFiles, m.TotalFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	// Completion header
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Validation Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	// One coefficient per file, in iteration order; failures shown
	// distinctly so "no monotonic signal" and "could not measure" stay
	// apart.
	for _, file := range m.Files {
		switch file.Status {
		case StatusComplete:
			b.WriteString(renderCompletedFile(file))
		case StatusError:
			icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
			b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, filepath.Base(file.InputPath), file.Error))
		}
	}

	// Overall summary
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d validated, %d failed\n", m.CompletedFiles, m.FailedFiles))
	if m.HasSummary {
		b.WriteString(fmt.Sprintf("Mean ρ: %s | Median ρ: %s\n",
			formatCoefficient(m.Mean), formatCoefficient(m.Median)))
	}

	return b.String()
}

// renderCompletedFile renders a summary line for a completed file
func renderCompletedFile(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")

	return fmt.Sprintf(" %s %s\n   %s/%s: ρ = %s %s\n",
		icon, fileName, file.Transform, file.Variable,
		formatCoefficient(file.Coefficient), describeCoefficient(file.Coefficient))
}

// formatCoefficient renders a correlation coefficient, with NaN shown
// as an explicit "undefined" rather than a number
func formatCoefficient(rho float64) string {
	if math.IsNaN(rho) {
		return "undefined"
	}
	return fmt.Sprintf("%+.4f", rho)
}

// describeCoefficient gives a one-word reading of the coefficient
func describeCoefficient(rho float64) string {
	switch {
	case math.IsNaN(rho):
		return "(degenerate distances)"
	case rho > 0.8:
		return "(strongly monotonic)"
	case rho > 0.4:
		return "(weakly monotonic)"
	case rho < -0.4:
		return "(inverse)"
	default:
		return "(no rank signal)"
	}
}
