package ui

import (
	"fmt"
	"strings"

	"github.com/seojin-dev/loaner/internal/kiosk"
	"github.com/seojin-dev/loaner/internal/status"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.hasMaint && m.maint.IsTestMode {
		b.WriteString(m.renderMaintenanceBanner())
		b.WriteString("\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	switch m.mode {
	case modeRent:
		b.WriteString(m.renderForm(fmt.Sprintf("Rent %d device(s) to:", len(m.snapshot.Selected))))
	case modeReturn:
		b.WriteString(m.renderForm("Return all devices rented by:"))
	default:
		b.WriteString(m.renderNotice())
	}
	b.WriteString("\n")

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Accent.Render("LOANER")

	conn := m.renderConnState()

	counts := m.snapshot.Counts()
	inventory := m.styles.Muted.Render(fmt.Sprintf("Devices: %d  Available: %d  Rented: %d",
		counts.Total, counts.Available, counts.Rented))

	selected := ""
	if n := len(m.snapshot.Selected); n > 0 {
		selected = m.styles.Success.Render(fmt.Sprintf("Selected: %d", n))
	}

	updated := ""
	if !m.snapshot.LastUpdated.IsZero() {
		updated = m.styles.Muted.Render(m.snapshot.LastUpdated.Format("15:04:05"))
	}

	parts := []string{title, conn, inventory}
	if selected != "" {
		parts = append(parts, selected)
	}
	if updated != "" {
		parts = append(parts, updated)
	}
	if m.snapshot.IsOffline() {
		parts = append(parts, m.styles.Danger.Render("INVENTORY STALE"))
	} else if m.snapshot.LastError != nil {
		parts = append(parts, m.styles.Warning.Render("last refresh failed"))
	}

	return strings.Join(parts, "  ")
}

func (m Model) renderConnState() string {
	switch m.connState {
	case status.Connected:
		return m.styles.Success.Render("● live")
	case status.Connecting:
		return m.styles.Warning.Render("● connecting")
	case status.Polling:
		return m.styles.Warning.Render("● polling")
	case status.Offline:
		return m.styles.Danger.Render("● offline")
	default:
		return m.styles.Muted.Render("● disconnected")
	}
}

func (m Model) renderMaintenanceBanner() string {
	lines := []string{"Rental service is under maintenance"}
	if m.maint.TestType != "" {
		lines[0] = fmt.Sprintf("%s maintenance in progress; rentals are suspended", m.maint.TestType)
	}
	if m.maint.TestMessage != "" {
		lines = append(lines, m.maint.TestMessage)
	}
	if m.maint.TestStartDate != "" || m.maint.TestEndDate != "" {
		lines = append(lines, fmt.Sprintf("Window: %s ~ %s",
			kiosk.FormatTime(m.maint.TestStartDate), kiosk.FormatTime(m.maint.TestEndDate)))
	}
	return m.styles.Banner.Render(strings.Join(lines, "\n"))
}

func (m Model) renderForm(prompt string) string {
	return fmt.Sprintf("%s %s  %s",
		m.styles.Accent.Render(prompt),
		m.input.View(),
		m.styles.Muted.Render("enter to confirm · esc to cancel"))
}

func (m Model) renderNotice() string {
	if m.busy {
		return m.styles.Muted.Render("Working...")
	}
	if m.notice == "" {
		return ""
	}
	switch m.noticeLevel {
	case noticeSuccess:
		return m.styles.Success.Render(m.notice)
	case noticeWarning:
		return m.styles.Warning.Render(m.notice)
	case noticeError:
		return m.styles.Danger.Render(m.notice)
	default:
		return m.styles.Text.Render(m.notice)
	}
}
