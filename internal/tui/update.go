package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"devtimesheet/internal/backup"
	"devtimesheet/internal/entry"
	"devtimesheet/internal/export"
	"devtimesheet/internal/report"
	"devtimesheet/internal/storage"
	"devtimesheet/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmKind identifies the pending yes/no question.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmShortStop
	confirmDeleteEntry
	confirmDeleteProject
	confirmRestore
	confirmReportSent
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.updateListSizes()
		return m, nil

	case tickMsg:
		return m.handleTick(msg)

	case storeChangedMsg:
		m = m.refreshLists()
		if string(msg) == storage.KeyPrefs {
			m.prefs = storage.LoadPreferences(m.kv)
			m = m.applyTheme(m.prefs.Theme)
		}
		return m, m.watchCmd()

	case reminderDueMsg:
		m.reminderDue = true
		return m, nil

	case clearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil

	case errMsg:
		m = m.setStatus(fmt.Sprintf("error: %v", msg.error), true)
		return m, tea.Batch(clearStatusCmd(), m.watchCmd())

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.confirm != confirmNone {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// handleTick advances the stopwatch by one observed second. Pulses from a
// superseded generation are dropped without re-arming.
func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.session.Generation() {
		return m, nil
	}
	if m.session.Status() != timer.Running {
		return m, nil
	}

	alert, err := m.session.Tick()
	cmds := []tea.Cmd{m.tickCmd()}
	if err != nil {
		m = m.setStatus(fmt.Sprintf("error: %v", err), true)
		cmds = append(cmds, clearStatusCmd())
	}
	if alert {
		m = m.setStatus("Hour mark reached at "+timer.FormatElapsed(m.session.Elapsed()), false)
		cmds = append(cmds, clearStatusCmd())
		if m.prefs.SoundEnabled {
			cmds = append(cmds, bellCmd())
		}
	}
	return m, tea.Batch(cmds...)
}

// updateKeys handles keys when no modal is open
func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.watcher != nil {
			m.watcher.Stop()
		}
		return m, tea.Quit
	case "esc":
		m.viewMode = ViewTimer
		return m, nil
	case "1":
		m.viewMode = ViewTimer
		return m, nil
	case "2":
		m.viewMode = ViewEntries
		return m.updateEntryList(), nil
	case "3":
		m.viewMode = ViewProjects
		return m.updateProjectList(), nil
	case "4":
		m.viewMode = ViewCharts
		return m, nil
	case "5":
		m.viewMode = ViewExport
		return m.updateContactList(), nil
	case "l":
		m.viewMode = (m.viewMode + 1) % viewCount
		return m, nil
	case "h":
		m.viewMode = (m.viewMode + viewCount - 1) % viewCount
		return m, nil
	}

	switch m.viewMode {
	case ViewTimer:
		return m.updateTimerKeys(msg)
	case ViewEntries:
		return m.updateEntriesKeys(msg)
	case ViewProjects:
		return m.updateProjectsKeys(msg)
	case ViewCharts:
		return m.updateChartsKeys(msg)
	case ViewExport:
		return m.updateExportKeys(msg)
	}
	return m, nil
}

func (m Model) updateTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s":
		if m.session.Status() == timer.Idle {
			m.form = newStartForm(m.session.Fields())
		}
		return m, nil
	case " ":
		switch m.session.Status() {
		case timer.Running:
			if err := m.session.Pause(); err != nil {
				return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
			}
			return m, nil
		case timer.Paused:
			if err := m.session.Resume(); err != nil {
				return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
			}
			return m, m.tickCmd()
		}
		return m, nil
	case "x":
		if m.session.Status() == timer.Idle {
			return m, nil
		}
		return m.stopSession(false)
	case "d":
		if m.session.Status() == timer.Idle {
			return m, nil
		}
		if err := m.session.Discard(); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		return m.setStatus("Session discarded", false), clearStatusCmd()
	case "m":
		m.form = newManualForm(time.Now())
		return m, nil
	case "b":
		m.prefs.SoundEnabled = !m.prefs.SoundEnabled
		if err := storage.SavePreferences(m.kv, m.prefs); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		state := "off"
		if m.prefs.SoundEnabled {
			state = "on"
		}
		return m.setStatus("Hourly bell "+state, false), clearStatusCmd()
	case "t":
		return m.cycleTheme()
	}
	return m, nil
}

// stopSession commits the running session as an entry. Very short sessions
// ask for confirmation first unless force is set.
func (m Model) stopSession(force bool) (tea.Model, tea.Cmd) {
	e, err := m.session.Stop(force)
	if errors.Is(err, timer.ErrConfirmationRequired) {
		m.confirm = confirmShortStop
		return m, nil
	}
	if err != nil {
		return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
	}
	if err := m.store.Append(e); err != nil {
		return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
	}
	m = m.refreshLists()
	m = m.setStatus(fmt.Sprintf("Logged %s to %s", entry.FormatHours(e.Hours), e.Project), false)
	return m, clearStatusCmd()
}

func (m Model) updateEntriesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m = m.cyclePeriod()
		return m.updateEntryList(), nil
	case "f":
		m = m.cycleProjectFilter()
		return m.updateEntryList(), nil
	case "m":
		m.form = newManualForm(time.Now())
		return m, nil
	case "d", "backspace":
		if e, ok := m.selectedEntry(); ok {
			m.confirm = confirmDeleteEntry
			m.pendingEntryID = e.ID
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m Model) updateProjectsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a":
		if st, ok := m.selectedProject(); ok {
			if err := m.reg.Toggle(st.Project); err != nil {
				return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
			}
			m = m.refreshLists()
		}
		return m, nil
	case "d", "backspace":
		if st, ok := m.selectedProject(); ok {
			m.confirm = confirmDeleteProject
			m.pendingProject = st.Project
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.projectList, cmd = m.projectList.Update(msg)
	return m, cmd
}

func (m Model) updateChartsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		return m.cyclePeriod(), nil
	case "f":
		return m.cycleProjectFilter(), nil
	}
	return m, nil
}

func (m Model) updateExportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.form = newAnalystForm(m.prefs.Analyst)
		return m, nil
	case "B":
		path := filepath.Join(m.exportDir(), backup.Filename(time.Now()))
		if err := backup.Write(path, m.store, m.reg); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		return m.setStatus("Backup written to "+path, false), clearStatusCmd()
	case "r":
		m.form = newRestoreForm()
		return m, nil
	case "w":
		m.confirm = confirmReportSent
		return m, nil
	case "n":
		m.form = newContactForm()
		return m, nil
	case "x", "d":
		if c, ok := m.selectedContact(); ok {
			if err := m.book.Remove(c.ID); err != nil {
				return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
			}
			m = m.updateContactList()
		}
		return m, nil
	case " ":
		if c, ok := m.selectedContact(); ok {
			if err := m.book.ToggleSelected(c.ID); err != nil {
				return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
			}
			m = m.updateContactList()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.contactList, cmd = m.contactList.Update(msg)
	return m, cmd
}

// updateForm routes keys into the open form and handles submission
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.form = nil
		return m, nil
	}
	done, cmd := m.form.handleKey(msg)
	if !done {
		return m, cmd
	}
	return m.submitForm()
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	switch f.kind {
	case formStart:
		fields := timer.Fields{
			Project:     f.value(0),
			Client:      f.value(1),
			Category:    f.value(2),
			Tags:        tagList(f.value(3)),
			Description: f.value(4),
		}
		if err := m.session.Start(fields); err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.form = nil
		return m, m.tickCmd()

	case formManual:
		hh := atoiDefault(f.value(6), 0)
		mm := atoiDefault(f.value(7), 0)
		e, err := entry.NewManual(time.Now(), f.value(0), f.value(2), f.value(1),
			f.value(3), f.value(5), tagList(f.value(4)), hh, mm)
		if err != nil {
			f.errText = err.Error()
			return m, nil
		}
		if err := m.store.Append(e); err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.form = nil
		m = m.refreshLists()
		m = m.setStatus(fmt.Sprintf("Logged %s to %s", entry.FormatHours(e.Hours), e.Project), false)
		return m, clearStatusCmd()

	case formContact:
		if err := m.book.Add(f.value(0), f.value(1)); err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.form = nil
		m = m.updateContactList()
		return m, nil

	case formRestore:
		snap, err := backup.ReadFile(f.value(0))
		if err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.pendingSnapshot = &snapshotRef{
			path:     f.value(0),
			entries:  snap.Entries,
			archived: snap.Archived,
		}
		m.form = nil
		m.confirm = confirmRestore
		return m, nil

	case formAnalyst:
		analyst := f.value(0)
		if analyst != m.prefs.Analyst {
			m.prefs.Analyst = analyst
			if err := storage.SavePreferences(m.kv, m.prefs); err != nil {
				f.errText = err.Error()
				return m, nil
			}
		}
		project := ""
		if m.filter.Project != report.ProjectAll {
			project = m.filter.Project
		}
		path := filepath.Join(m.exportDir(), export.Filename(analyst, project))
		if err := export.Write(path, m.filteredEntries(), analyst); err != nil {
			f.errText = err.Error()
			return m, nil
		}
		m.form = nil
		m = m.setStatus("Report written to "+path, false)
		return m, clearStatusCmd()
	}

	m.form = nil
	return m, nil
}

// updateConfirm handles the pending yes/no question
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		kind := m.confirm
		m.confirm = confirmNone
		return m.confirmAccepted(kind)
	case "n", "N", "esc":
		m.confirm = confirmNone
		m.pendingSnapshot = nil
		return m, nil
	}
	return m, nil
}

func (m Model) confirmAccepted(kind confirmKind) (tea.Model, tea.Cmd) {
	switch kind {
	case confirmShortStop:
		return m.stopSession(true)

	case confirmDeleteEntry:
		if err := m.store.RemoveByID(m.pendingEntryID); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		m = m.refreshLists()
		return m.setStatus("Entry deleted", false), clearStatusCmd()

	case confirmDeleteProject:
		if err := m.store.RemoveByProject(m.pendingProject); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		m = m.refreshLists()
		return m.setStatus("Deleted all entries for "+m.pendingProject, false), clearStatusCmd()

	case confirmRestore:
		snap := m.pendingSnapshot
		m.pendingSnapshot = nil
		if snap == nil {
			return m, nil
		}
		err := backup.Restore(backup.Snapshot{Entries: snap.entries, Archived: snap.archived}, m.store, m.reg)
		if err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		m = m.refreshLists()
		return m.setStatus(fmt.Sprintf("Restored %d entries from %s", len(snap.entries), snap.path), false), clearStatusCmd()

	case confirmReportSent:
		if err := m.kv.Set(storage.KeyLastReport, entry.FormatDate(time.Now())); err != nil {
			return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
		}
		m.reminderDue = false
		n := len(m.book.Selected())
		return m.setStatus(fmt.Sprintf("Weekly report marked sent (%d recipients)", n), false), clearStatusCmd()
	}
	return m, nil
}

// cyclePeriod advances the period filter through the fixed order
func (m Model) cyclePeriod() Model {
	idx := slices.Index(report.Periods, m.filter.Period)
	m.filter.Period = report.Periods[(idx+1)%len(report.Periods)]
	return m
}

// cycleProjectFilter advances the project filter through "all" plus every
// distinct active project name
func (m Model) cycleProjectFilter() Model {
	options := append([]string{report.ProjectAll}, entry.Projects(m.store.ListActive())...)
	idx := slices.Index(options, m.filter.Project)
	m.filter.Project = options[(idx+1)%len(options)]
	return m
}

// cycleTheme rotates the catppuccin flavor and persists the choice
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	order := []string{"latte", "frappe", "macchiato", "mocha"}
	idx := slices.Index(order, m.prefs.Theme)
	m.prefs.Theme = order[(idx+1)%len(order)]
	if err := storage.SavePreferences(m.kv, m.prefs); err != nil {
		return m.setStatus(fmt.Sprintf("error: %v", err), true), clearStatusCmd()
	}
	m = m.applyTheme(m.prefs.Theme)
	return m.setStatus("Theme: "+m.prefs.Theme, false), clearStatusCmd()
}

// applyTheme rebuilds the style set and pushes it into the delegates
func (m Model) applyTheme(theme string) Model {
	m.styles = NewStyles(theme)
	m.entryDelegate.styles = m.styles
	m.projectDelegate.styles = m.styles
	m.contactDelegate.styles = m.styles
	return m
}

func (m Model) setStatus(text string, isErr bool) Model {
	m.status = text
	m.statusErr = isErr
	return m
}

func (m Model) exportDir() string {
	if m.cfg.ExportDir != "" {
		return m.cfg.ExportDir
	}
	return "."
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
