package entry

import (
	"sort"

	"devtimesheet/internal/archive"
	"devtimesheet/internal/storage"
)

// Store owns the persisted entry collection. Every mutation re-sorts and
// persists synchronously before returning, and every read re-fetches the
// slot — the single UI thread is the only writer, so freshness is enough.
type Store struct {
	kv  storage.KV
	reg *archive.Registry
}

// NewStore returns a store persisting through kv and consulting reg for
// active-view filtering.
func NewStore(kv storage.KV, reg *archive.Registry) *Store {
	return &Store{kv: kv, reg: reg}
}

func (s *Store) load() []TimeEntry {
	var entries []TimeEntry
	if ok, err := s.kv.Get(storage.KeyEntries, &entries); err != nil || !ok {
		return []TimeEntry{}
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return entries
}

func (s *Store) persist(entries []TimeEntry) error {
	Sort(entries)
	return s.kv.Set(storage.KeyEntries, entries)
}

// Append inserts an entry and re-establishes the ordering invariant. No
// dedup: identical entries are legitimate repeated work.
func (s *Store) Append(e TimeEntry) error {
	e.Normalize()
	return s.persist(append(s.load(), e))
}

// RemoveByID removes at most one entry. Absent ids are a no-op, not an error.
func (s *Store) RemoveByID(id int64) error {
	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.persist(kept)
}

// RemoveByProject deletes every entry of a project, and drops the project
// from the archive registry since no history remains to archive.
func (s *Store) RemoveByProject(project string) error {
	entries := s.load()
	kept := entries[:0]
	for _, e := range entries {
		if e.Project != project {
			kept = append(kept, e)
		}
	}
	if err := s.persist(kept); err != nil {
		return err
	}
	return s.reg.Remove(project)
}

// Replace overwrites the whole collection. Used by backup restore.
func (s *Store) Replace(entries []TimeEntry) error {
	if entries == nil {
		entries = []TimeEntry{}
	}
	for i := range entries {
		entries[i].Normalize()
	}
	return s.persist(entries)
}

// ListAll returns the full collection in invariant order.
func (s *Store) ListAll() []TimeEntry {
	return s.load()
}

// ListActive returns ListAll minus entries whose project is archived.
func (s *Store) ListActive() []TimeEntry {
	archived := make(map[string]bool)
	for _, p := range s.reg.Projects() {
		archived[p] = true
	}

	entries := s.load()
	active := make([]TimeEntry, 0, len(entries))
	for _, e := range entries {
		if !archived[e.Project] {
			active = append(active, e)
		}
	}
	return active
}

// Projects returns the distinct project names of the given entries, sorted.
func Projects(entries []TimeEntry) []string {
	return distinct(entries, func(e TimeEntry) string { return e.Project })
}

// Clients returns the distinct non-blank client names, sorted.
func Clients(entries []TimeEntry) []string {
	return distinct(entries, func(e TimeEntry) string { return e.Client })
}

// Tags returns the distinct tags across the given entries, sorted.
func Tags(entries []TimeEntry) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, e := range entries {
		for _, t := range e.Tags {
			if t != "" && !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func distinct(entries []TimeEntry, field func(TimeEntry) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, e := range entries {
		v := field(e)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// ProjectStat summarizes one project for the project manager view.
type ProjectStat struct {
	Project  string
	Entries  int
	Hours    float64
	Archived bool
}

// Stats aggregates per-project counts and hours over the full collection,
// sorted by project name.
func (s *Store) Stats() []ProjectStat {
	byName := make(map[string]*ProjectStat)
	for _, e := range s.load() {
		st, ok := byName[e.Project]
		if !ok {
			st = &ProjectStat{Project: e.Project, Archived: s.reg.Contains(e.Project)}
			byName[e.Project] = st
		}
		st.Entries++
		st.Hours += e.Hours
	}

	stats := make([]ProjectStat, 0, len(byName))
	for _, st := range byName {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Project < stats[j].Project })
	return stats
}
