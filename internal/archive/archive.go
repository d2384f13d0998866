// Package archive tracks which projects are marked finished. Archived
// projects are excluded from active views but their entries stay in history.
package archive

import (
	"slices"

	"devtimesheet/internal/storage"
)

// Registry is the persisted set of archived project names. Every reader
// re-fetches the slot so there is no cached copy to go stale.
type Registry struct {
	kv storage.KV
}

// NewRegistry returns a registry persisting through kv.
func NewRegistry(kv storage.KV) *Registry {
	return &Registry{kv: kv}
}

// Projects returns the archived project names in stored order.
func (r *Registry) Projects() []string {
	var names []string
	if ok, err := r.kv.Get(storage.KeyArchived, &names); err != nil || !ok {
		return []string{}
	}
	return names
}

// Contains reports whether a project is archived.
func (r *Registry) Contains(project string) bool {
	return slices.Contains(r.Projects(), project)
}

// Toggle archives an active project or restores an archived one.
func (r *Registry) Toggle(project string) error {
	names := r.Projects()
	if i := slices.Index(names, project); i >= 0 {
		names = slices.Delete(names, i, i+1)
	} else {
		names = append(names, project)
	}
	return r.kv.Set(storage.KeyArchived, names)
}

// Remove drops a project from the registry. Used when the project's entries
// are permanently deleted. Removing an absent project is a persisted no-op.
func (r *Registry) Remove(project string) error {
	names := r.Projects()
	i := slices.Index(names, project)
	if i < 0 {
		return nil
	}
	return r.kv.Set(storage.KeyArchived, slices.Delete(names, i, i+1))
}

// Replace overwrites the registry wholesale. Used by backup restore.
func (r *Registry) Replace(names []string) error {
	if names == nil {
		names = []string{}
	}
	return r.kv.Set(storage.KeyArchived, names)
}
