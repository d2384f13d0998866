package tui

import (
	"os"
	"time"

	"devtimesheet/internal/archive"
	"devtimesheet/internal/config"
	"devtimesheet/internal/contacts"
	"devtimesheet/internal/entry"
	"devtimesheet/internal/report"
	"devtimesheet/internal/storage"
	"devtimesheet/internal/timer"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewTimer    ViewMode = iota // Stopwatch and session controls
	ViewEntries                  // Logged entry list with filters
	ViewProjects                 // Per-project stats and archive registry
	ViewCharts                   // Aggregated hour charts
	ViewExport                   // Report export, backup, contacts
)

const viewCount = 5

// Model represents the application state
type Model struct {
	// Core state
	cfg     *config.Config
	kv      storage.KV
	store   *entry.Store
	reg     *archive.Registry
	session *timer.Session
	book    *contacts.Book
	watcher *storage.Watcher
	prefs   storage.Preferences

	viewMode ViewMode
	filter   report.Filter

	// UI components
	styles      Styles
	entryList   list.Model
	projectList list.Model
	contactList list.Model

	// Delegates (stored to update width)
	entryDelegate   *entryDelegate
	projectDelegate *projectDelegate
	contactDelegate *contactDelegate

	// Modal state
	form            *formModel
	confirm         confirmKind
	pendingEntryID  int64
	pendingProject  string
	pendingSnapshot *snapshotRef

	// Transient footer message
	status    string
	statusErr bool

	reminderDue bool

	// UI dimensions
	width  int
	height int

	// Error state
	err error
}

// ModelOptions configures a new Model.
type ModelOptions struct {
	Config  *config.Config
	KV      storage.KV
	Watcher *storage.Watcher
	Clock   func() time.Time
}

// NewModel creates a new Model with initialized state
func NewModel(opts ModelOptions) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	reg := archive.NewRegistry(opts.KV)
	store := entry.NewStore(opts.KV, reg)
	session := timer.NewSession(opts.KV,
		timer.WithClock(now),
		timer.WithAlertInterval(int64(cfg.AlertIntervalSeconds)),
	)
	prefs := storage.LoadPreferences(opts.KV)

	// Pick up a session the previous process left behind.
	_, err := session.Restore()

	// Create delegates
	styles := NewStyles(prefs.Theme)
	entryDel := newEntryDelegate(styles)
	projectDel := newProjectDelegate(styles)
	contactDel := newContactDelegate(styles)

	m := Model{
		cfg:             cfg,
		kv:              opts.KV,
		store:           store,
		reg:             reg,
		session:         session,
		book:            contacts.NewBook(opts.KV),
		watcher:         opts.Watcher,
		prefs:           prefs,
		styles:          styles,
		viewMode:        ViewTimer,
		filter:          report.Filter{Project: report.ProjectAll, Period: report.PeriodAll},
		err:             err,
		entryDelegate:   entryDel,
		projectDelegate: projectDel,
		contactDelegate: contactDel,
	}

	// Initialize list components with delegates
	m.entryList = list.New([]list.Item{}, entryDel, 0, 0)
	m.entryList.SetShowTitle(false)
	m.entryList.SetShowHelp(false)
	m.entryList.SetShowStatusBar(false)
	m.entryList.SetFilteringEnabled(false)
	m.entryList.DisableQuitKeybindings()

	m.projectList = list.New([]list.Item{}, projectDel, 0, 0)
	m.projectList.SetShowTitle(false)
	m.projectList.SetShowHelp(false)
	m.projectList.SetShowStatusBar(false)
	m.projectList.SetFilteringEnabled(false)
	m.projectList.DisableQuitKeybindings()

	m.contactList = list.New([]list.Item{}, contactDel, 0, 0)
	m.contactList.SetShowTitle(false)
	m.contactList.SetShowHelp(false)
	m.contactList.SetShowStatusBar(false)
	m.contactList.SetFilteringEnabled(false)
	m.contactList.DisableQuitKeybindings()

	m = m.updateEntryList()
	m = m.updateProjectList()
	m = m.updateContactList()

	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.watchCmd(),
		m.reminderCmd(),
	}
	if m.session.Status() == timer.Running {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

// snapshotRef holds a parsed backup awaiting restore confirmation.
type snapshotRef struct {
	path     string
	entries  []entry.TimeEntry
	archived []string
}

// Message types
type (
	tickMsg        struct { // one-second stopwatch pulse, tagged with its generation
		gen int
		at  time.Time
	}
	storeChangedMsg string // slot key whose backing file changed on disk
	reminderDueMsg  struct{}
	clearStatusMsg  struct{}
	errMsg          struct{ error }
)

// tickCmd schedules the next stopwatch pulse. The generation tag lets
// Update drop pulses scheduled before a pause, stop, or restart.
func (m Model) tickCmd() tea.Cmd {
	gen := m.session.Generation()
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

// watchCmd returns a command that waits for data file events
func (m Model) watchCmd() tea.Cmd {
	return func() tea.Msg {
		if m.watcher == nil {
			return nil
		}
		select {
		case key, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			return storeChangedMsg(key)
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return errMsg{err}
		}
	}
}

// reminderCmd checks shortly after startup whether the weekly report is
// overdue, so the banner appears once the first paint has settled.
func (m Model) reminderCmd() tea.Cmd {
	kv := m.kv
	days := m.cfg.ReportReminderDays
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		if days <= 0 {
			return nil
		}
		var last string
		found, err := kv.Get(storage.KeyLastReport, &last)
		if err != nil {
			return errMsg{err}
		}
		if found {
			sent, perr := entry.ParseDate(last)
			if perr == nil && time.Since(sent) < time.Duration(days)*24*time.Hour {
				return nil
			}
		}
		return reminderDueMsg{}
	})
}

// bellCmd rings the terminal bell for the hourly alert.
func bellCmd() tea.Cmd {
	return func() tea.Msg {
		os.Stdout.WriteString("\a")
		return nil
	}
}

// clearStatusCmd expires the transient footer message
func clearStatusCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// filteredEntries applies the current filter to the active collection
func (m Model) filteredEntries() []entry.TimeEntry {
	return report.Apply(m.store.ListActive(), m.filter, time.Now())
}

// updateEntryList rebuilds the entry list items
func (m Model) updateEntryList() Model {
	entries := m.filteredEntries()

	wasAtTop := m.entryList.Index() == 0
	previousCount := len(m.entryList.Items())

	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	m.entryList.SetItems(items)

	if wasAtTop || previousCount == 0 {
		m.entryList.Select(0)
	}
	return m
}

// updateProjectList rebuilds the per-project stats list
func (m Model) updateProjectList() Model {
	stats := m.store.Stats()
	items := make([]list.Item, len(stats))
	for i, st := range stats {
		items[i] = projectItem{stat: st}
	}
	m.projectList.SetItems(items)
	if len(items) == 0 {
		m.projectList.Select(0)
	}
	return m
}

// updateContactList rebuilds the report recipient list
func (m Model) updateContactList() Model {
	cs := m.book.List()
	items := make([]list.Item, len(cs))
	for i, c := range cs {
		items[i] = contactItem{contact: c}
	}
	m.contactList.SetItems(items)
	return m
}

// refreshLists rebuilds every list from storage
func (m Model) refreshLists() Model {
	m = m.updateEntryList()
	m = m.updateProjectList()
	m = m.updateContactList()
	return m
}

// updateListSizes updates list dimensions based on terminal size
func (m Model) updateListSizes() Model {
	// Reserve space for header (2), tabs (2), column headers (1), help (2), margins (2)
	listHeight := m.height - 9
	if listHeight < 5 {
		listHeight = 5
	}
	listWidth := m.width - 4
	if listWidth < 20 {
		listWidth = 20
	}

	// Contact list shares the export view with the action summary
	contactHeight := listHeight - 6
	if contactHeight < 3 {
		contactHeight = 3
	}

	// Update delegate widths
	m.entryDelegate.SetWidth(listWidth)
	m.projectDelegate.SetWidth(listWidth)
	m.contactDelegate.SetWidth(listWidth)

	m.entryList.SetSize(listWidth, listHeight)
	m.projectList.SetSize(listWidth, listHeight)
	m.contactList.SetSize(listWidth, contactHeight)

	return m
}

// selectedEntry returns the highlighted entry, if any
func (m Model) selectedEntry() (entry.TimeEntry, bool) {
	item, ok := m.entryList.SelectedItem().(entryItem)
	if !ok {
		return entry.TimeEntry{}, false
	}
	return item.entry, true
}

// selectedProject returns the highlighted project stat, if any
func (m Model) selectedProject() (entry.ProjectStat, bool) {
	item, ok := m.projectList.SelectedItem().(projectItem)
	if !ok {
		return entry.ProjectStat{}, false
	}
	return item.stat, true
}

// selectedContact returns the highlighted contact, if any
func (m Model) selectedContact() (contacts.Contact, bool) {
	item, ok := m.contactList.SelectedItem().(contactItem)
	if !ok {
		return contacts.Contact{}, false
	}
	return item.contact, true
}
