package archive

import (
	"testing"

	"devtimesheet/internal/storage"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	fs, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return NewRegistry(fs)
}

func TestToggle(t *testing.T) {
	reg := newTestRegistry(t)

	if reg.Contains("website") {
		t.Fatal("fresh registry should be empty")
	}

	if err := reg.Toggle("website"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !reg.Contains("website") {
		t.Error("expected website archived after toggle")
	}

	if err := reg.Toggle("website"); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if reg.Contains("website") {
		t.Error("expected website restored after second toggle")
	}
}

func TestRemove(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Toggle("website")
	reg.Toggle("api")

	if err := reg.Remove("website"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if reg.Contains("website") {
		t.Error("expected website removed")
	}
	if !reg.Contains("api") {
		t.Error("expected api untouched")
	}

	// Removing an absent name is a no-op
	if err := reg.Remove("nothere"); err != nil {
		t.Errorf("Remove of absent project: %v", err)
	}
}

func TestReplace(t *testing.T) {
	reg := newTestRegistry(t)

	reg.Toggle("old")
	if err := reg.Replace([]string{"a", "b"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got := reg.Projects()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Projects after Replace = %v", got)
	}
	if reg.Contains("old") {
		t.Error("expected old name dropped by Replace")
	}

	if err := reg.Replace(nil); err != nil {
		t.Fatalf("Replace(nil): %v", err)
	}
	if len(reg.Projects()) != 0 {
		t.Error("expected empty registry after Replace(nil)")
	}
}
