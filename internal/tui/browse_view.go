package tui

import (
	"fmt"
	"strings"

	"github.com/echozyr2001/BrewDeck/internal/deck"
	"github.com/echozyr2001/BrewDeck/internal/format"
)

// View renders the current state.
func (m *BrowseModel) View() string {
	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n  %s loading %s packages…\n", m.spin.View(), m.kind)
	case stateError:
		return m.errorView()
	case stateDetail:
		return m.detailView()
	default:
		return m.listView()
	}
}

func (m *BrowseModel) listView() string {
	var b strings.Builder

	title := fmt.Sprintf("BrewDeck — %d %s packages", len(m.list.items), m.kind)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
	} else {
		b.WriteString(dimStyle.Render("press / to filter"))
	}
	b.WriteString("\n\n")

	window, from := m.list.window()
	if len(window) == 0 {
		b.WriteString(dimStyle.Render("  no packages match"))
		b.WriteString("\n")
	}
	for i, pkg := range window {
		b.WriteString(m.renderRow(pkg, from+i == m.list.selected))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move · enter details · / filter · q quit"))
	return b.String()
}

func (m *BrowseModel) renderRow(pkg deck.Package, selected bool) string {
	marker := "  "
	switch {
	case pkg.Outdated:
		marker = outdatedStyle.Render("↑ ")
	case pkg.Installed:
		marker = installedStyle.Render("✓ ")
	}

	downloads := ""
	if pkg.Analytics.Downloads365d > 0 {
		downloads = dimStyle.Render(" (" + format.Downloads(pkg.Analytics.Downloads365d) + ")")
	}

	line := fmt.Sprintf("%s%-30s %-12s%s", marker, truncate(pkg.Name, 30), pkg.Version, downloads)
	if selected {
		return selectedStyle.Render("> " + line)
	}
	return "  " + line
}

func (m *BrowseModel) detailView() string {
	pkg := m.detail

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(pkg.Name), pkg.Version)
	fmt.Fprintf(&b, "%s\n", pkg.Description)
	if pkg.Homepage != "" {
		fmt.Fprintf(&b, "%s\n", dimStyle.Render(pkg.Homepage))
	}
	if pkg.Installed {
		b.WriteString(installedStyle.Render("installed"))
		if pkg.Outdated {
			b.WriteString(" " + outdatedStyle.Render("(update available)"))
		}
		b.WriteString("\n")
	}
	if pkg.Analytics.Downloads365d > 0 {
		fmt.Fprintf(&b, "installs (365d): %s\n", format.Count(pkg.Analytics.Downloads365d))
	}
	if len(pkg.Dependencies) > 0 {
		fmt.Fprintf(&b, "dependencies: %s\n", strings.Join(pkg.Dependencies, ", "))
	}
	for _, warning := range pkg.Warnings {
		fmt.Fprintf(&b, "%s\n", warningStyle.Render(fmt.Sprintf("! %s", warning.Message)))
	}
	if pkg.Caveats != "" {
		fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(pkg.Caveats))
	}

	body := detailBoxStyle.Width(min(m.width-4, 76)).Render(b.String())
	return body + "\n" + helpStyle.Render("esc/q back")
}

func (m *BrowseModel) errorView() string {
	return fmt.Sprintf("\n  %s\n\n%s\n",
		warningStyle.Render("error: "+m.err.Error()),
		helpStyle.Render("r retry · q quit"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
