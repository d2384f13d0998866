package storage

// Preferences are the per-user display settings persisted under KeyPrefs.
type Preferences struct {
	// Theme is the catppuccin flavor name (latte, frappe, macchiato, mocha).
	Theme string `json:"theme"`

	// SoundEnabled gates the hourly terminal bell.
	SoundEnabled bool `json:"sound_enabled"`

	// Analyst is the display name used in export filenames and headers.
	Analyst string `json:"analyst"`
}

// DefaultPreferences returns the preferences used before the user saves any.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:        "mocha",
		SoundEnabled: true,
	}
}

// LoadPreferences reads the preferences slot, falling back to defaults when
// the slot is absent or unreadable.
func LoadPreferences(kv KV) Preferences {
	prefs := DefaultPreferences()
	if ok, err := kv.Get(KeyPrefs, &prefs); err != nil || !ok {
		return DefaultPreferences()
	}
	if prefs.Theme == "" {
		prefs.Theme = "mocha"
	}
	return prefs
}

// SavePreferences persists the preferences slot.
func SavePreferences(kv KV, prefs Preferences) error {
	return kv.Set(KeyPrefs, prefs)
}
