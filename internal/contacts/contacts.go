// Package contacts manages the export-recipient list.
package contacts

import (
	"strings"
	"time"

	"devtimesheet/internal/entry"
	"devtimesheet/internal/storage"
)

// Contact is one export recipient. Selected contacts receive reports.
type Contact struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Selected bool   `json:"selected"`
}

// Book is the persisted contact list. Reads re-fetch the slot; mutations
// persist before returning.
type Book struct {
	kv  storage.KV
	now func() time.Time
}

// NewBook returns a book persisting through kv.
func NewBook(kv storage.KV) *Book {
	return &Book{kv: kv, now: time.Now}
}

// List returns all contacts in stored order.
func (b *Book) List() []Contact {
	var list []Contact
	if ok, err := b.kv.Get(storage.KeyContacts, &list); err != nil || !ok {
		return []Contact{}
	}
	return list
}

// Selected returns only the contacts marked as recipients.
func (b *Book) Selected() []Contact {
	var sel []Contact
	for _, c := range b.List() {
		if c.Selected {
			sel = append(sel, c)
		}
	}
	return sel
}

// Add appends a new contact, selected by default. Name and email are both
// required.
func (b *Book) Add(name, email string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return &entry.ValidationError{Msg: "name and email are required"}
	}

	list := append(b.List(), Contact{
		ID:       b.now().UnixMilli(),
		Name:     name,
		Email:    email,
		Selected: true,
	})
	return b.kv.Set(storage.KeyContacts, list)
}

// Remove deletes a contact by id. Absent ids are a no-op.
func (b *Book) Remove(id int64) error {
	list := b.List()
	kept := list[:0]
	for _, c := range list {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	return b.kv.Set(storage.KeyContacts, kept)
}

// ToggleSelected flips a contact's recipient flag.
func (b *Book) ToggleSelected(id int64) error {
	list := b.List()
	for i := range list {
		if list[i].ID == id {
			list[i].Selected = !list[i].Selected
			break
		}
	}
	return b.kv.Set(storage.KeyContacts, list)
}
