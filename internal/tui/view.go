package tui

import (
	"fmt"
	"strings"
	"time"

	"devtimesheet/internal/entry"
	"devtimesheet/internal/report"
	"devtimesheet/internal/timer"

	"github.com/charmbracelet/lipgloss"
)

// View renders the UI based on the model state
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Header with title and session state
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// View mode tabs
	b.WriteString(m.renderViewTabs())
	b.WriteString("\n")

	// Modals replace the main content area
	switch {
	case m.form != nil:
		b.WriteString(m.form.View(m.styles))
	case m.confirm != confirmNone:
		b.WriteString(m.renderConfirm())
	default:
		switch m.viewMode {
		case ViewTimer:
			b.WriteString(m.renderTimer())
		case ViewEntries:
			b.WriteString(m.renderEntryHeaders())
			b.WriteString("\n")
			b.WriteString(m.entryList.View())
		case ViewProjects:
			b.WriteString(m.renderProjectHeaders())
			b.WriteString("\n")
			b.WriteString(m.projectList.View())
		case ViewCharts:
			b.WriteString(m.renderCharts())
		case ViewExport:
			b.WriteString(m.renderExport())
		}
	}

	// Footer: reminder banner, transient status, help
	b.WriteString("\n")
	if m.reminderDue {
		b.WriteString(m.styles.Badge.Render("Weekly report due"))
		b.WriteString(" ")
	}
	if m.status != "" {
		style := m.styles.Success
		if m.statusErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

// renderHeader renders the top header bar
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Dev Timesheet")

	var state string
	switch m.session.Status() {
	case timer.Running:
		state = m.styles.Running.Render("● " + timer.FormatElapsed(m.session.Elapsed()))
	case timer.Paused:
		state = m.styles.Paused.Render("‖ " + timer.FormatElapsed(m.session.Elapsed()))
	default:
		state = m.styles.Idle.Render("timer idle")
	}

	filter := m.styles.Status.Render(fmt.Sprintf("[%s / %s]", m.filter.Project, m.filter.Period))

	// Calculate spacing
	leftPart := lipgloss.Width(title)
	rightPart := lipgloss.Width(filter) + lipgloss.Width(state) + 1
	spacing := m.width - leftPart - rightPart - 4
	if spacing < 1 {
		spacing = 1
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		title,
		strings.Repeat(" ", spacing),
		filter,
		" ",
		state,
	)
}

// renderViewTabs renders the tab bar for view modes
func (m Model) renderViewTabs() string {
	tabs := []struct {
		name string
		mode ViewMode
		key  string
	}{
		{"Timer", ViewTimer, "1"},
		{"Entries", ViewEntries, "2"},
		{"Projects", ViewProjects, "3"},
		{"Charts", ViewCharts, "4"},
		{"Export", ViewExport, "5"},
	}

	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%s %s", t.key, t.name)
		if t.mode == m.viewMode {
			rendered[i] = m.styles.ActiveTab.Render(label)
		} else {
			rendered[i] = m.styles.InactiveTab.Render(label)
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	gap := strings.Repeat("─", maxInt(0, m.width-lipgloss.Width(row)-2))

	return row + m.styles.TabGap.Render(gap)
}

// renderTimer renders the stopwatch view
func (m Model) renderTimer() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.styles.Display.Render("  " + timer.FormatElapsed(m.session.Elapsed())))
	b.WriteString("\n\n")

	switch m.session.Status() {
	case timer.Running:
		b.WriteString("  " + m.styles.Running.Render("RUNNING"))
	case timer.Paused:
		b.WriteString("  " + m.styles.Paused.Render("PAUSED"))
	default:
		b.WriteString("  " + m.styles.Idle.Render("IDLE"))
	}
	b.WriteString("\n\n")

	if m.session.Status() != timer.Idle {
		f := m.session.Fields()
		b.WriteString("  " + m.styles.Normal.Render("Project:  "+f.Project) + "\n")
		if f.Client != "" {
			b.WriteString("  " + m.styles.Muted.Render("Client:   "+f.Client) + "\n")
		}
		b.WriteString("  " + m.styles.Muted.Render("Category: "+f.Category) + "\n")
		if len(f.Tags) > 0 {
			b.WriteString("  " + m.styles.Muted.Render("Tags:     "+strings.Join(f.Tags, ", ")) + "\n")
		}
		if f.Description != "" {
			b.WriteString("  " + m.styles.Muted.Render("Notes:    "+f.Description) + "\n")
		}
	} else {
		b.WriteString("  " + m.styles.Muted.Render("Press s to start a session") + "\n")
	}

	// Today's total for quick orientation
	today := report.Apply(m.store.ListActive(),
		report.Filter{Project: report.ProjectAll, Period: report.PeriodToday}, time.Now())
	b.WriteString("\n")
	b.WriteString("  " + m.styles.Status.Render("Logged today: "+entry.FormatHours(report.GrandTotal(today))))
	b.WriteString("\n")

	bell := "off"
	if m.prefs.SoundEnabled {
		bell = "on"
	}
	b.WriteString("  " + m.styles.Muted.Render(fmt.Sprintf("Hourly bell: %s | Theme: %s", bell, m.prefs.Theme)))
	b.WriteString("\n")

	return b.String()
}

// renderCharts renders the aggregation view as horizontal text bars
func (m Model) renderCharts() string {
	entries := m.filteredEntries()
	var b strings.Builder

	b.WriteString(m.styles.ColumnHeader.Render("Hours by project"))
	b.WriteString("\n")
	b.WriteString(m.renderBars(report.ChartSeries(report.ByProject(entries)), m.styles.ProjectBar))
	b.WriteString("\n")

	b.WriteString(m.styles.ColumnHeader.Render("Hours by date"))
	b.WriteString("\n")
	b.WriteString(m.renderBars(report.ByDate(entries), m.styles.DateBar))

	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render("Total: " + entry.FormatHours(report.GrandTotal(entries))))
	b.WriteString("\n")

	return b.String()
}

// renderBars draws one bar per total, scaled against the largest bucket
func (m Model) renderBars(totals []report.Total, barStyle lipgloss.Style) string {
	if len(totals) == 0 {
		return m.styles.Muted.Render("  no entries for this filter") + "\n"
	}

	maxHours := 0.0
	for _, t := range totals {
		if t.Hours > maxHours {
			maxHours = t.Hours
		}
	}

	barWidth := maxInt(10, minInt(40, m.width-40))

	var b strings.Builder
	for _, t := range totals {
		filled := 0
		if maxHours > 0 {
			filled = int(t.Hours / maxHours * float64(barWidth))
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(&b, "  %s %s %s\n",
			m.styles.Normal.Render(padRight(truncate(t.Label, 16), 16)),
			barStyle.Render(bar),
			m.styles.Muted.Render(entry.FormatHours(t.Hours)),
		)
	}
	return b.String()
}

// renderExport renders the export, backup, and recipients view
func (m Model) renderExport() string {
	var b strings.Builder

	analyst := m.prefs.Analyst
	if analyst == "" {
		analyst = "Anonymous"
	}

	entries := m.filteredEntries()
	b.WriteString(m.styles.Normal.Render(fmt.Sprintf("  %d entries in scope, %s total, analyst %s",
		len(entries), entry.FormatHours(report.GrandTotal(entries)), analyst)))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render("  Output directory: " + m.exportDir()))
	b.WriteString("\n\n")

	b.WriteString(m.styles.ColumnHeader.Render("Report recipients"))
	b.WriteString("\n")
	if len(m.contactList.Items()) == 0 {
		b.WriteString(m.styles.Muted.Render("  none yet, press n to add"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.contactList.View())
	}

	return b.String()
}

// renderConfirm renders the pending yes/no question
func (m Model) renderConfirm() string {
	var q string
	switch m.confirm {
	case confirmShortStop:
		q = fmt.Sprintf("Session is under %d seconds. Log it anyway?", int(timer.ShortStop.Seconds()))
	case confirmDeleteEntry:
		q = "Delete this entry?"
	case confirmDeleteProject:
		q = fmt.Sprintf("Delete every entry for %q and drop it from the archive?", m.pendingProject)
	case confirmRestore:
		n := 0
		if m.pendingSnapshot != nil {
			n = len(m.pendingSnapshot.entries)
		}
		q = fmt.Sprintf("Replace the current timesheet with %d entries from the backup?", n)
	case confirmReportSent:
		q = "Mark the weekly report as sent today?"
	}

	body := m.styles.Prompt.Render(q) + "\n\n" + m.styles.Help.Render("y:yes | n:no")
	return m.styles.Box.Render(body)
}

// renderHelp renders the help footer
func (m Model) renderHelp() string {
	if m.form != nil || m.confirm != confirmNone {
		return ""
	}

	var help []string
	switch m.viewMode {
	case ViewTimer:
		help = []string{
			"s:start",
			"space:pause/resume",
			"x:stop",
			"d:discard",
			"m:manual entry",
			"b:bell",
			"t:theme",
			"h/l:switch view",
			"q:quit",
		}
	case ViewEntries:
		help = []string{
			"j/k:navigate",
			"p:period",
			"f:project filter",
			"m:manual entry",
			"d:delete",
			"h/l:switch view",
			"q:quit",
		}
	case ViewProjects:
		help = []string{
			"j/k:navigate",
			"a:archive/unarchive",
			"d:delete project",
			"h/l:switch view",
			"q:quit",
		}
	case ViewCharts:
		help = []string{
			"p:period",
			"f:project filter",
			"h/l:switch view",
			"q:quit",
		}
	case ViewExport:
		help = []string{
			"e:export xlsx",
			"B:backup",
			"r:restore",
			"w:report sent",
			"n:add recipient",
			"space:toggle",
			"x:remove",
			"q:quit",
		}
	}

	return m.styles.Help.Render(strings.Join(help, " | "))
}

// renderEntryHeaders renders column headers for the entry list
func (m Model) renderEntryHeaders() string {
	date := padRight("Date", EntryDateWidth)
	project := padRight("Project", EntryProjectWidth)
	category := padRight("Category", EntryCategoryWidth)
	hours := padLeft("Hours", EntryHoursWidth)

	header := fmt.Sprintf("%s  %s  %s  %s", date, project, category, hours)
	return m.styles.ColumnHeader.Render(header)
}

// renderProjectHeaders renders column headers for the project list
func (m Model) renderProjectHeaders() string {
	name := padRight("Project", ProjectNameWidth)
	entries := padLeft("Entries", ProjectEntriesWidth)
	hours := padLeft("Hours", ProjectHoursWidth)

	header := fmt.Sprintf("%s%s  %s", name, entries, hours)
	return m.styles.ColumnHeader.Render(header)
}

// padRight pads a string with spaces on the right to reach target width
func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// padLeft pads a string with spaces on the left to reach target width
func padLeft(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
