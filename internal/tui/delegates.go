package tui

import (
	"fmt"
	"io"
	"strings"

	"devtimesheet/internal/contacts"
	"devtimesheet/internal/entry"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Column widths shared with the view headers
const (
	EntryDateWidth     = 10
	EntryProjectWidth  = 18
	EntryCategoryWidth = 12
	EntryHoursWidth    = 8

	ProjectNameWidth    = 24
	ProjectEntriesWidth = 8
	ProjectHoursWidth   = 10
)

// ============================================================================
// Entry Item
// ============================================================================

// entryItem wraps a TimeEntry for the list component
type entryItem struct {
	entry entry.TimeEntry
}

func (i entryItem) FilterValue() string { return i.entry.Project }
func (i entryItem) Title() string       { return i.entry.Project }
func (i entryItem) Description() string { return i.entry.Description }

// entryDelegate renders entry items
type entryDelegate struct {
	styles Styles
	width  int
}

func newEntryDelegate(s Styles) *entryDelegate {
	return &entryDelegate{styles: s}
}

func (d *entryDelegate) SetWidth(w int)                            { d.width = w }
func (d *entryDelegate) Height() int                               { return 2 }
func (d *entryDelegate) Spacing() int                              { return 0 }
func (d *entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd   { return nil }
func (d *entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(entryItem)
	if !ok {
		return
	}

	style := d.styles.Normal
	if index == m.Index() {
		style = d.styles.Selected
	}

	date := padRight(entry.DisplayDate(i.entry.Date), EntryDateWidth)
	project := padRight(i.entry.Project, EntryProjectWidth)
	category := padRight(i.entry.Category, EntryCategoryWidth)
	hours := padLeft(entry.FormatHours(i.entry.Hours), EntryHoursWidth)

	line := fmt.Sprintf("%s  %s  %s  %s", date, project, category, hours)

	desc := i.entry.Description
	if i.entry.Client != "" {
		desc = i.entry.Client + " | " + desc
	}
	if len(i.entry.Tags) > 0 {
		desc += " [" + strings.Join(i.entry.Tags, ", ") + "]"
	}
	desc = truncate(desc, maxInt(d.width-4, 10))

	fmt.Fprintf(w, "%s\n   %s", style.Render(line), d.styles.Muted.Render(desc))
}

// ============================================================================
// Project Item
// ============================================================================

// projectItem wraps a ProjectStat for the list component
type projectItem struct {
	stat entry.ProjectStat
}

func (i projectItem) FilterValue() string { return i.stat.Project }
func (i projectItem) Title() string       { return i.stat.Project }
func (i projectItem) Description() string {
	return fmt.Sprintf("%d entries", i.stat.Entries)
}

// projectDelegate renders project stats
type projectDelegate struct {
	styles Styles
	width  int
}

func newProjectDelegate(s Styles) *projectDelegate {
	return &projectDelegate{styles: s}
}

func (d *projectDelegate) SetWidth(w int)                          { d.width = w }
func (d *projectDelegate) Height() int                             { return 1 }
func (d *projectDelegate) Spacing() int                            { return 0 }
func (d *projectDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(projectItem)
	if !ok {
		return
	}

	nameStyle := d.styles.Normal
	if i.stat.Archived {
		nameStyle = d.styles.Archived
	}
	if index == m.Index() {
		nameStyle = d.styles.Selected
	}

	name := nameStyle.Render(padRight(i.stat.Project, ProjectNameWidth))
	entries := padLeft(fmt.Sprintf("%d", i.stat.Entries), ProjectEntriesWidth)
	hours := padLeft(entry.FormatHours(i.stat.Hours), ProjectHoursWidth)

	badge := ""
	if i.stat.Archived {
		badge = "  " + d.styles.Badge.Render("archived")
	}

	fmt.Fprintf(w, "%s%s  %s%s", name, d.styles.Muted.Render(entries), hours, badge)
}

// ============================================================================
// Contact Item
// ============================================================================

// contactItem wraps a Contact for the list component
type contactItem struct {
	contact contacts.Contact
}

func (i contactItem) FilterValue() string { return i.contact.Name }
func (i contactItem) Title() string       { return i.contact.Name }
func (i contactItem) Description() string { return i.contact.Email }

// contactDelegate renders report recipients
type contactDelegate struct {
	styles Styles
	width  int
}

func newContactDelegate(s Styles) *contactDelegate {
	return &contactDelegate{styles: s}
}

func (d *contactDelegate) SetWidth(w int)                          { d.width = w }
func (d *contactDelegate) Height() int                             { return 1 }
func (d *contactDelegate) Spacing() int                            { return 0 }
func (d *contactDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *contactDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(contactItem)
	if !ok {
		return
	}

	mark := "[ ]"
	if i.contact.Selected {
		mark = "[x]"
	}

	style := d.styles.Normal
	if index == m.Index() {
		style = d.styles.Selected
	}

	line := fmt.Sprintf("%s %s <%s>", mark, i.contact.Name, i.contact.Email)
	fmt.Fprint(w, style.Render(truncate(line, maxInt(d.width-2, 10))))
}

// ============================================================================
// Helper Functions
// ============================================================================

// truncate shortens a string to max length with ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
