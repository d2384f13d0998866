package entry

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateLayout is the canonical persisted date format (local calendar day, no
// time of day).
const DateLayout = "2006-01-02"

// DefaultCategory is filled in when an entry has no category, matching the
// oldest persisted entry shape which predates categories.
const DefaultCategory = "General"

// ValidationError reports rejected user input. The operation it aborted
// mutated nothing.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// TimeEntry is one recorded unit of work.
type TimeEntry struct {
	ID          int64    `json:"id"` // unix-millisecond creation timestamp
	Date        string   `json:"date"`
	Client      string   `json:"client"`
	Project     string   `json:"project"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Hours       float64  `json:"hours"`
}

// NewID returns a unique sortable identifier for an entry created now.
func NewID(now time.Time) int64 {
	return now.UnixMilli()
}

// NewManual builds an entry from the manual form: a date, the usual field
// set, and a duration given as whole hours and minutes. A zero duration or a
// blank project is rejected.
func NewManual(now time.Time, date, client, project, category, description string, tags []string, hh, mm int) (TimeEntry, error) {
	if strings.TrimSpace(project) == "" {
		return TimeEntry{}, &ValidationError{Msg: "project is required"}
	}
	if hh < 0 || mm < 0 {
		return TimeEntry{}, &ValidationError{Msg: "duration cannot be negative"}
	}
	if hh == 0 && mm == 0 {
		return TimeEntry{}, &ValidationError{Msg: "enter a non-zero duration"}
	}
	if date == "" {
		date = FormatDate(now)
	} else if _, err := ParseDate(date); err != nil {
		return TimeEntry{}, &ValidationError{Msg: "date must be YYYY-MM-DD"}
	}

	e := TimeEntry{
		ID:          NewID(now),
		Date:        date,
		Client:      strings.TrimSpace(client),
		Project:     strings.TrimSpace(project),
		Category:    strings.TrimSpace(category),
		Tags:        tags,
		Description: description,
		Hours:       float64(hh) + float64(mm)/60,
	}
	e.Normalize()
	return e, nil
}

// Normalize default-fills fields missing from older persisted shapes
// (entries written before clients, categories or tags existed all share the
// storage slot with current ones).
func (e *TimeEntry) Normalize() {
	if e.Category == "" {
		e.Category = DefaultCategory
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
}

// ParseDate parses a canonical date string at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// FormatDate formats a time as a canonical date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DisplayDate converts a canonical date to dd/mm/yyyy for tables and exports.
func DisplayDate(s string) string {
	t, err := ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}

// SplitHours decomposes fractional hours into whole hours and rounded
// minutes for display.
func SplitHours(hours float64) (h, m int) {
	h = int(hours)
	m = int((hours-float64(h))*60 + 0.5)
	if m == 60 {
		h, m = h+1, 0
	}
	return h, m
}

// FormatHours renders fractional hours as "3h 25m".
func FormatHours(hours float64) string {
	h, m := SplitHours(hours)
	return fmt.Sprintf("%dh %02dm", h, m)
}

// Sort orders entries by date descending, ties broken by id descending.
// This is the collection invariant maintained after every insert.
func Sort(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].ID > entries[j].ID
	})
}
