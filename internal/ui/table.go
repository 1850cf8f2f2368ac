package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

const headerFooterReserve = 8

func deviceColumns() []table.Column {
	return []table.Column{
		{Title: " ", Width: 2},
		{Title: "#", Width: 5},
		{Title: "Device", Width: 28},
		{Title: "OS", Width: 14},
		{Title: "Platform", Width: 9},
		{Title: "Status", Width: 24},
	}
}

func (m *Model) buildTable() table.Model {
	t := table.New(
		table.WithColumns(deviceColumns()),
		table.WithFocused(true),
		table.WithHeight(m.tableHeight()),
	)
	t.SetStyles(m.tableStyles())
	return t
}

func (m *Model) rebuildTableStyles() table.Model {
	m.table.SetStyles(m.tableStyles())
	return m.table
}

func (m *Model) tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(m.theme.Border)).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(m.theme.Accent))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(m.theme.SelectionText)).
		Background(lipgloss.Color(m.theme.SelectionBg)).
		Bold(false)
	s.Cell = s.Cell.Foreground(lipgloss.Color(m.theme.Text))
	return s
}

// refreshRows rebuilds the table rows from the current snapshot, keeping the
// cursor in place where possible.
func (m *Model) refreshRows() {
	rows := make([]table.Row, 0, len(m.snapshot.Devices))
	for _, d := range m.snapshot.Devices {
		rows = append(rows, deviceRow(d, m.snapshot.IsSelected(d.ID)))
	}

	cursor := m.table.Cursor()
	m.table.SetRows(rows)
	if cursor >= len(rows) {
		cursor = len(rows) - 1
	}
	if cursor >= 0 {
		m.table.SetCursor(cursor)
	}
}

func deviceRow(d kiosk.DeviceRecord, selected bool) table.Row {
	marker := " "
	if selected {
		marker = "●"
	}

	name := d.ProductName
	if d.ModelName != "" {
		name = fmt.Sprintf("%s (%s)", d.ProductName, d.ModelName)
	}
	if d.IsRootedOrJailbroken {
		name += " ⚠"
	}

	statusCell := "available"
	if d.Rented() {
		statusCell = fmt.Sprintf("rented · %s", d.CurrentRenter)
		if at := kiosk.FormatTime(d.RentedAt); at != "-" {
			statusCell = fmt.Sprintf("%s · %s", statusCell, at)
		}
	}

	return table.Row{
		marker,
		d.DeviceNumber,
		name,
		d.OSVersion,
		string(d.Platform),
		statusCell,
	}
}

func (m *Model) tableHeight() int {
	reserve := headerFooterReserve
	if m.help.ShowAll {
		reserve += 4
	}
	h := m.height - reserve
	if h < 3 {
		h = 3
	}
	return h
}
