package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	equalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
)

// RenderOps walks a tagged op sequence and emits each token styled per its
// tag, joined by single spaces. Shares the alignment with CountOps so one
// pass feeds both the counter and the renderer.
func RenderOps(ops []Op) string {
	if len(ops) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		switch op.Kind {
		case OpDelete:
			parts = append(parts, deletedStyle.Render(op.Token))
		case OpInsert:
			parts = append(parts, addedStyle.Render(op.Token))
		default:
			parts = append(parts, equalStyle.Render(op.Token))
		}
	}
	return strings.Join(parts, " ")
}

// Render produces a highlighted diff for an edit pair. Empty strings
// produce no fragments.
func Render(original, edited string) string {
	return RenderOps(Align(original, edited))
}
