package timer

import (
	"errors"
	"testing"
	"time"

	"devtimesheet/internal/entry"
	"devtimesheet/internal/storage"
)

// fakeClock is a settable wall clock for driving the session deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestSession(t *testing.T) (*Session, *fakeClock, storage.KV) {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}
	return NewSession(fs, WithClock(clock.now)), clock, fs
}

func TestStartValidation(t *testing.T) {
	s, _, _ := newTestSession(t)

	err := s.Start(Fields{Project: "   "})
	var verr *entry.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for blank project, got %v", err)
	}
	if s.Status() != Idle {
		t.Errorf("failed start must leave the session idle, got %v", s.Status())
	}
}

func TestStartDefaultsCategory(t *testing.T) {
	s, _, _ := newTestSession(t)

	if err := s.Start(Fields{Project: "website"}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := s.Fields().Category; got != entry.DefaultCategory {
		t.Errorf("expected blank category defaulted to %q, got %q", entry.DefaultCategory, got)
	}
}

func TestPauseResumeExcludesPausedTime(t *testing.T) {
	s, clock, _ := newTestSession(t)

	if err := s.Start(Fields{Project: "website"}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	clock.advance(30 * time.Second)
	if err := s.Pause(); err != nil {
		t.Fatalf("Pause: %v", err)
	}

	// Paused time never counts, however long
	clock.advance(45 * time.Minute)
	if got := s.Elapsed(); got != 30*time.Second {
		t.Errorf("expected 30s frozen while paused, got %v", got)
	}

	if err := s.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	clock.advance(60 * time.Second)

	if got := s.Elapsed(); got != 90*time.Second {
		t.Errorf("expected 90s after resume, got %v", got)
	}
}

func TestStopBuildsExactEntry(t *testing.T) {
	s, clock, _ := newTestSession(t)

	s.Start(Fields{Project: "website", Client: "Acme", Tags: []string{"ui"}})
	clock.advance(30 * time.Second)
	s.Pause()
	clock.advance(10 * time.Minute)
	s.Resume()
	clock.advance(60 * time.Second)

	e, err := s.Stop(false)
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// 90 seconds of running time is exactly 0.025 hours
	if e.Hours != 0.025 {
		t.Errorf("expected 0.025 hours, got %v", e.Hours)
	}
	if e.Date != "2026-03-10" {
		t.Errorf("expected today's date, got %q", e.Date)
	}
	if e.Description != "Session" {
		t.Errorf("expected default description, got %q", e.Description)
	}
	if e.Category != entry.DefaultCategory {
		t.Errorf("expected default category, got %q", e.Category)
	}
	if s.Status() != Idle {
		t.Errorf("expected idle after stop, got %v", s.Status())
	}
}

func TestShortStopNeedsForce(t *testing.T) {
	s, clock, kv := newTestSession(t)

	s.Start(Fields{Project: "website"})
	clock.advance(5 * time.Second)

	_, err := s.Stop(false)
	if !errors.Is(err, ErrConfirmationRequired) {
		t.Fatalf("expected ErrConfirmationRequired, got %v", err)
	}

	// The refusal changed nothing: still running, still persisted
	if s.Status() != Running {
		t.Errorf("expected session still running, got %v", s.Status())
	}
	var p map[string]any
	if found, _ := kv.Get(storage.KeyTimer, &p); !found {
		t.Error("expected timer slot still persisted after refused stop")
	}

	e, err := s.Stop(true)
	if err != nil {
		t.Fatalf("forced Stop: %v", err)
	}
	if e.Project != "website" {
		t.Errorf("expected forced stop to log the entry, got %+v", e)
	}
	if found, _ := kv.Get(storage.KeyTimer, &p); found {
		t.Error("expected timer slot cleared after stop")
	}
}

func TestDiscard(t *testing.T) {
	s, clock, kv := newTestSession(t)

	// Discarding an idle session is a no-op
	if err := s.Discard(); err != nil {
		t.Fatalf("Discard while idle: %v", err)
	}

	s.Start(Fields{Project: "website"})
	clock.advance(20 * time.Minute)
	if err := s.Discard(); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if s.Status() != Idle {
		t.Errorf("expected idle after discard, got %v", s.Status())
	}
	var p map[string]any
	if found, _ := kv.Get(storage.KeyTimer, &p); found {
		t.Error("expected timer slot cleared after discard")
	}
}

func TestRestoreRunningSession(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}

	first := NewSession(fs, WithClock(clock.now))
	first.Start(Fields{Project: "website", Description: "refactor"})
	clock.advance(10 * time.Minute)
	first.Pause()
	clock.advance(1 * time.Minute)
	first.Resume()

	// Simulate a process restart: a new session over the same store
	clock.advance(5 * time.Minute)
	second := NewSession(fs, WithClock(clock.now))
	restored, err := second.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored {
		t.Fatal("expected a session to restore")
	}
	if second.Status() != Running {
		t.Errorf("expected restored session running, got %v", second.Status())
	}
	// 10 minutes before the pause plus 5 since the resume
	if got := second.Elapsed(); got != 15*time.Minute {
		t.Errorf("expected 15m elapsed after restore, got %v", got)
	}
	if second.Fields().Description != "refactor" {
		t.Errorf("expected fields restored, got %+v", second.Fields())
	}
}

func TestRestorePausedSession(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}

	first := NewSession(fs, WithClock(clock.now))
	first.Start(Fields{Project: "website"})
	clock.advance(7 * time.Minute)
	first.Pause()

	clock.advance(2 * time.Hour)
	second := NewSession(fs, WithClock(clock.now))
	restored, err := second.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !restored || second.Status() != Paused {
		t.Fatalf("expected paused session restored, got %v", second.Status())
	}
	if got := second.Elapsed(); got != 7*time.Minute {
		t.Errorf("expected 7m frozen across restart, got %v", got)
	}
}

func TestRestoreNothingPersisted(t *testing.T) {
	s, _, _ := newTestSession(t)
	restored, err := s.Restore()
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored {
		t.Error("expected nothing to restore from an empty store")
	}
}

func TestTickAlertAdvancesThreshold(t *testing.T) {
	s, clock, _ := newTestSession(t)

	s.Start(Fields{Project: "website"})

	clock.advance(59 * time.Minute)
	if alert, _ := s.Tick(); alert {
		t.Error("no alert expected before the hour mark")
	}

	clock.advance(2 * time.Minute)
	alert, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !alert {
		t.Error("expected alert at the first hour mark")
	}

	// The threshold moved to the second hour, so no repeat until then
	if alert, _ := s.Tick(); alert {
		t.Error("alert must not repeat within the same hour")
	}

	clock.advance(time.Hour)
	if alert, _ := s.Tick(); !alert {
		t.Error("expected alert at the second hour mark")
	}
}

func TestThresholdCarriesAcrossRestart(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}

	first := NewSession(fs, WithClock(clock.now))
	first.Start(Fields{Project: "website"})
	clock.advance(61 * time.Minute)
	if alert, _ := first.Tick(); !alert {
		t.Fatal("expected first hour alert")
	}

	second := NewSession(fs, WithClock(clock.now))
	if restored, _ := second.Restore(); !restored {
		t.Fatal("expected session restored")
	}

	// The first hour already fired before the restart; no duplicate now
	if alert, _ := second.Tick(); alert {
		t.Error("restored session must not replay the fired alert")
	}
	clock.advance(60 * time.Minute)
	if alert, _ := second.Tick(); !alert {
		t.Error("expected the second hour alert after restore")
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	s, clock, _ := newTestSession(t)

	s.Start(Fields{Project: "website"})
	clock.advance(30 * time.Minute)
	s.Pause()

	if alert, err := s.Tick(); alert || err != nil {
		t.Errorf("paused tick: alert=%v err=%v", alert, err)
	}
}

func TestGenerationAdvancesOnTransitions(t *testing.T) {
	s, _, _ := newTestSession(t)

	g0 := s.Generation()
	s.Start(Fields{Project: "website"})
	g1 := s.Generation()
	s.Pause()
	g2 := s.Generation()
	s.Resume()
	g3 := s.Generation()
	s.Discard()
	g4 := s.Generation()

	gens := []int{g0, g1, g2, g3, g4}
	for i := 1; i < len(gens); i++ {
		if gens[i] <= gens[i-1] {
			t.Fatalf("generation must strictly increase across transitions: %v", gens)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{3601 * time.Second, "01:00:01"},
		{-5 * time.Second, "00:00:00"},
	}
	for _, tt := range tests {
		if got := FormatElapsed(tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestAlertIntervalOption(t *testing.T) {
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)}

	s := NewSession(fs, WithClock(clock.now), WithAlertInterval(60))
	s.Start(Fields{Project: "website"})

	clock.advance(61 * time.Second)
	if alert, _ := s.Tick(); !alert {
		t.Error("expected alert after the configured minute")
	}
}
