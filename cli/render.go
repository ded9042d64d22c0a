// server/cli/render.go
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vinizap/shelf/server/board"
	"github.com/vinizap/shelf/server/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	folderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	iconStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Render draws the folder list followed by the ungrouped items. Closed
// folders show their item count instead of their items.
func Render(s board.State) string {
	var lines []string
	lines = append(lines, headerStyle.Render("Folders"))
	folders := board.SortedFolders(s)
	if len(folders) == 0 {
		lines = append(lines, mutedStyle.Render("  (none)"))
	}
	for _, f := range folders {
		items := board.Group(s, f.ID)
		marker := "▾"
		if !f.IsOpen {
			marker = "▸"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			marker,
			folderStyle.Render(f.Name),
			mutedStyle.Render(fmt.Sprintf("(%d) %s", len(items), f.ID))))
		if !f.IsOpen {
			continue
		}
		for _, it := range items {
			lines = append(lines, "    "+renderItem(it))
		}
	}

	lines = append(lines, "", headerStyle.Render("Items"))
	ungrouped := board.Group(s, "")
	if len(ungrouped) == 0 {
		lines = append(lines, mutedStyle.Render("  (none)"))
	}
	for _, it := range ungrouped {
		lines = append(lines, "  "+renderItem(it))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func renderItem(it domain.Item) string {
	return fmt.Sprintf("%d. %s %s %s",
		it.Order,
		iconStyle.Render("["+string(it.Icon)+"]"),
		it.Title,
		mutedStyle.Render(it.ID))
}
