// Package timer implements the stopwatch session state machine. Elapsed time
// is kept as an accumulated duration plus a wall-clock anchor for the current
// running interval, which makes pause/resume exact regardless of tick jitter
// and makes persistence idempotent: reloading mid-tick cannot lose or
// double-count time.
package timer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devtimesheet/internal/entry"
	"devtimesheet/internal/storage"
)

// AlertInterval is the default elapsed-seconds spacing of audible alerts.
const AlertInterval = 3600

// ShortStop is the elapsed duration under which stopping requires explicit
// confirmation before an entry is saved.
const ShortStop = 10 * time.Second

// Status is the stopwatch state.
type Status int

const (
	Idle Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// ErrConfirmationRequired is returned by Stop when the elapsed duration is
// under ShortStop and force was not set. Not a failure: the caller asks the
// user and retries with force, or discards.
var ErrConfirmationRequired = errors.New("confirmation required")

// Fields are the in-progress entry attributes, mutable until commit.
type Fields struct {
	Project     string
	Client      string
	Category    string
	Tags        []string
	Description string
}

// Session is the single stopwatch instance. All transitions persist before
// returning, so a process restart reconstructs the exact state.
type Session struct {
	kv  storage.KV
	now func() time.Time

	status        Status
	startedAt     time.Time     // anchor of the current running interval
	accumulated   time.Duration // total of prior running intervals
	fields        Fields
	nextAlert     int64 // elapsed seconds at which the next alert fires
	alertInterval int64

	// generation changes whenever the periodic tick must be re-established,
	// so a stale in-flight tick can be recognized and dropped. At most one
	// live tick chain exists per session.
	generation int
}

// persisted mirrors the stored timer slot. Field names match the original
// storage shape so an existing slot restores cleanly.
type persisted struct {
	StartMilli  int64    `json:"start"`
	AccumMilli  int64    `json:"accumulated"`
	IsPaused    bool     `json:"is_paused"`
	Client      string   `json:"client"`
	Project     string   `json:"project"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"desc"`
	Active      bool     `json:"active"`
	Threshold   int64    `json:"beep_threshold"`
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithAlertInterval overrides the alert spacing in seconds.
func WithAlertInterval(seconds int64) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.alertInterval = seconds
		}
	}
}

// NewSession returns an idle session persisting through kv.
func NewSession(kv storage.KV, opts ...Option) *Session {
	s := &Session{
		kv:            kv,
		now:           time.Now,
		alertInterval: AlertInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.nextAlert = s.alertInterval
	return s
}

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// Fields returns the in-progress entry attributes.
func (s *Session) Fields() Fields { return s.fields }

// SetFields replaces the in-progress attributes and persists them when a
// session is live, so a reload restores what was typed.
func (s *Session) SetFields(f Fields) error {
	s.fields = f
	if s.status == Idle {
		return nil
	}
	return s.save()
}

// Generation identifies the current tick chain. Tick messages carrying an
// older generation must be ignored.
func (s *Session) Generation() int { return s.generation }

// Elapsed returns the total running time of this session at this instant:
// frozen at the accumulated duration while paused, accumulated plus the
// current interval while running.
func (s *Session) Elapsed() time.Duration {
	switch s.status {
	case Running:
		return s.accumulated + s.now().Sub(s.startedAt)
	case Paused:
		return s.accumulated
	default:
		return 0
	}
}

// Start begins a new session with the given fields.
func (s *Session) Start(f Fields) error {
	if s.status != Idle {
		return fmt.Errorf("timer already %s", s.status)
	}
	if strings.TrimSpace(f.Project) == "" {
		return &entry.ValidationError{Msg: "project is required"}
	}
	if strings.TrimSpace(f.Category) == "" {
		f.Category = entry.DefaultCategory
	}

	// If an active session was persisted (crash between restore and start),
	// its alert threshold carries over; otherwise start fresh.
	var prev persisted
	if ok, _ := s.kv.Get(storage.KeyTimer, &prev); !ok || !prev.Active {
		s.nextAlert = s.alertInterval
	} else if prev.Threshold > 0 {
		s.nextAlert = prev.Threshold
	}

	s.fields = f
	s.status = Running
	s.accumulated = 0
	s.startedAt = s.now()
	s.generation++
	return s.save()
}

// Pause freezes a running session, folding the current interval into the
// accumulated duration.
func (s *Session) Pause() error {
	if s.status != Running {
		return fmt.Errorf("cannot pause a %s timer", s.status)
	}
	s.accumulated += s.now().Sub(s.startedAt)
	s.startedAt = time.Time{}
	s.status = Paused
	s.generation++
	return s.save()
}

// Resume restarts a paused session with a fresh anchor.
func (s *Session) Resume() error {
	if s.status != Paused {
		return fmt.Errorf("cannot resume a %s timer", s.status)
	}
	s.startedAt = s.now()
	s.status = Running
	s.generation++
	return s.save()
}

// Stop ends the session and builds the committed entry from the in-progress
// fields and today's date. When the elapsed duration is under ShortStop and
// force is false, it returns ErrConfirmationRequired without changing any
// state; the caller confirms and retries with force=true. The returned entry
// is handed to the entry store by the caller; the session itself is reset to
// Idle and its persisted slot cleared.
func (s *Session) Stop(force bool) (entry.TimeEntry, error) {
	if s.status == Idle {
		return entry.TimeEntry{}, errors.New("no session to stop")
	}

	elapsed := s.Elapsed()
	if elapsed < ShortStop && !force {
		return entry.TimeEntry{}, ErrConfirmationRequired
	}

	now := s.now()
	desc := s.fields.Description
	if strings.TrimSpace(desc) == "" {
		desc = "Session"
	}
	e := entry.TimeEntry{
		ID:          entry.NewID(now),
		Date:        entry.FormatDate(now),
		Client:      s.fields.Client,
		Project:     s.fields.Project,
		Category:    s.fields.Category,
		Tags:        s.fields.Tags,
		Description: desc,
		Hours:       elapsed.Hours(),
	}
	e.Normalize()

	if err := s.reset(); err != nil {
		return entry.TimeEntry{}, err
	}
	return e, nil
}

// Discard ends the session without creating an entry.
func (s *Session) Discard() error {
	if s.status == Idle {
		return nil
	}
	return s.reset()
}

func (s *Session) reset() error {
	s.status = Idle
	s.accumulated = 0
	s.startedAt = time.Time{}
	s.fields = Fields{}
	s.nextAlert = s.alertInterval
	s.generation++
	return s.kv.Delete(storage.KeyTimer)
}

// Tick advances the alert machinery for a running session. It reports
// whether an audible alert should fire now; when it does, the next threshold
// is advanced and persisted before returning.
func (s *Session) Tick() (alert bool, err error) {
	if s.status != Running {
		return false, nil
	}
	if int64(s.Elapsed().Seconds()) < s.nextAlert {
		return false, nil
	}
	s.nextAlert += s.alertInterval
	return true, s.save()
}

// Restore reconstructs a persisted live session at process start. It returns
// true when a session was restored; the caller restarts the periodic tick if
// the restored status is Running.
func (s *Session) Restore() (bool, error) {
	var p persisted
	ok, err := s.kv.Get(storage.KeyTimer, &p)
	if err != nil {
		return false, err
	}
	if !ok || !p.Active {
		return false, nil
	}

	s.fields = Fields{
		Project:     p.Project,
		Client:      p.Client,
		Category:    p.Category,
		Tags:        p.Tags,
		Description: p.Description,
	}
	s.accumulated = time.Duration(p.AccumMilli) * time.Millisecond
	s.nextAlert = p.Threshold
	if s.nextAlert <= 0 {
		s.nextAlert = s.alertInterval
	}
	if p.IsPaused {
		s.status = Paused
		s.startedAt = time.Time{}
	} else {
		s.status = Running
		s.startedAt = time.UnixMilli(p.StartMilli)
	}
	s.generation++
	return true, nil
}

func (s *Session) save() error {
	p := persisted{
		AccumMilli:  s.accumulated.Milliseconds(),
		IsPaused:    s.status == Paused,
		Client:      s.fields.Client,
		Project:     s.fields.Project,
		Category:    s.fields.Category,
		Tags:        s.fields.Tags,
		Description: s.fields.Description,
		Active:      true,
		Threshold:   s.nextAlert,
	}
	if s.status == Running {
		p.StartMilli = s.startedAt.UnixMilli()
	}
	return s.kv.Set(storage.KeyTimer, p)
}

// FormatElapsed renders a duration as HH:MM:SS for the stopwatch display.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
