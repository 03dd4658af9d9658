package sources

import "strings"

// RawRecord maps source-native field names to trimmed, non-empty values.
type RawRecord map[string]string

// Put trims key and value and stores them. Empty keys and empty values are
// not stored.
func (r RawRecord) Put(key, value string) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	r[key] = value
}

// Lookup returns the value for key and whether it is present.
func (r RawRecord) Lookup(key string) (string, bool) {
	v, ok := r[key]
	return v, ok
}

// NotesKey is the key line-oriented sources store each line under.
const NotesKey = "notes"
