package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rackfish/rackfish/internal/bootorder"
	"github.com/rackfish/rackfish/internal/redfish"
)

var (
	orderColorBlue  = lipgloss.Color("#3b82f6")
	orderColorDim   = lipgloss.Color("#6b7280")
	orderColorWhite = lipgloss.Color("#f9fafb")
)

var (
	orderTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(orderColorWhite)

	orderPositionStyle = lipgloss.NewStyle().
				Foreground(orderColorBlue)

	orderDimStyle = lipgloss.NewStyle().
			Foreground(orderColorDim)
)

// supportsStyling reports whether stdout is a terminal worth styling.
func supportsStyling() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderBootOrder produces the human-readable boot sequence report: devices
// sorted by boot index with 1-based display positions.
func renderBootOrder(title string, devices []redfish.BootDevice) string {
	styled := supportsStyling()
	ordered := bootorder.SortedByIndex(devices)

	var b strings.Builder
	if styled {
		b.WriteString(orderTitleStyle.Render("  " + title))
		b.WriteString("\n")
		b.WriteString(orderDimStyle.Render("  " + strings.Repeat("─", len(title))))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "%s:\n", title)
	}

	for _, device := range ordered {
		position := fmt.Sprintf("%d", device.Index+1)
		if styled {
			fmt.Fprintf(&b, "  %s: %s\n", orderPositionStyle.Render(position), device.Name)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", position, device.Name)
		}
	}
	return b.String()
}
