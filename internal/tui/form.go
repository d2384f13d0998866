package tui

import (
	"strings"
	"time"

	"devtimesheet/internal/entry"
	"devtimesheet/internal/timer"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// formKind identifies which submission path a form feeds.
type formKind int

const (
	formStart   formKind = iota // session fields before starting the stopwatch
	formManual                  // manual entry with explicit duration
	formContact                 // new report recipient
	formRestore                 // backup file path to restore from
	formAnalyst                 // analyst name stamped on the export
)

// formModel is a small vertical field form rendered over the active view.
// One input has focus; enter submits, esc (handled by the caller) cancels.
type formModel struct {
	kind    formKind
	title   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	errText string
}

type formField struct {
	label       string
	placeholder string
	value       string
}

func newForm(kind formKind, title string, fields []formField) *formModel {
	f := &formModel{
		kind:   kind,
		title:  title,
		labels: make([]string, len(fields)),
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, fld := range fields {
		in := textinput.New()
		in.Placeholder = fld.placeholder
		in.SetValue(fld.value)
		in.CharLimit = 120
		in.Width = 40
		f.labels[i] = fld.label
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func newStartForm(prev timer.Fields) *formModel {
	return newForm(formStart, "Start session", []formField{
		{label: "Project", placeholder: "required", value: prev.Project},
		{label: "Client", value: prev.Client},
		{label: "Category", placeholder: entry.DefaultCategory, value: prev.Category},
		{label: "Tags", placeholder: "comma separated", value: strings.Join(prev.Tags, ", ")},
		{label: "Description", placeholder: "Session", value: prev.Description},
	})
}

func newManualForm(now time.Time) *formModel {
	return newForm(formManual, "Add manual entry", []formField{
		{label: "Date", placeholder: entry.DateLayout, value: entry.FormatDate(now)},
		{label: "Project", placeholder: "required"},
		{label: "Client"},
		{label: "Category", placeholder: entry.DefaultCategory},
		{label: "Tags", placeholder: "comma separated"},
		{label: "Description"},
		{label: "Hours", placeholder: "0"},
		{label: "Minutes", placeholder: "0"},
	})
}

func newContactForm() *formModel {
	return newForm(formContact, "Add recipient", []formField{
		{label: "Name", placeholder: "required"},
		{label: "Email", placeholder: "required"},
	})
}

func newRestoreForm() *formModel {
	return newForm(formRestore, "Restore backup", []formField{
		{label: "File", placeholder: "path to backup .json"},
	})
}

func newAnalystForm(current string) *formModel {
	return newForm(formAnalyst, "Export report", []formField{
		{label: "Analyst", placeholder: "Anonymous", value: current},
	})
}

// handleKey routes one key to the form. done reports that the user
// submitted; the caller reads values and decides what happens next.
func (f *formModel) handleKey(msg tea.KeyMsg) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "enter":
		return true, nil
	case "tab", "down":
		f.moveFocus(1)
		return false, nil
	case "shift+tab", "up":
		f.moveFocus(-1)
		return false, nil
	}
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return false, cmd
}

func (f *formModel) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// value returns the trimmed content of field i.
func (f *formModel) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// tagList splits a comma separated field into clean tag names.
func tagList(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// View renders the form body
func (f *formModel) View(s Styles) string {
	var b strings.Builder
	b.WriteString(s.Title.Render(f.title))
	b.WriteString("\n\n")
	for i, label := range f.labels {
		style := s.Muted
		if i == f.focus {
			style = s.Prompt
		}
		b.WriteString(style.Render(padRight(label, 12)))
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}
	if f.errText != "" {
		b.WriteString("\n")
		b.WriteString(s.Error.Render(f.errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.Help.Render("enter:save | tab:next field | esc:cancel"))
	return s.Box.Render(b.String())
}
