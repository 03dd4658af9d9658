// Package identity derives the key that groups records describing the
// same person. Two records are the same customer exactly when their
// normalized first and last names are equal; no other attribute is
// consulted, so distinct people sharing a name collapse into one.
package identity

import "strings"

// Key is the normalized "first_last" identity of a customer.
type Key string

// String returns the key text.
func (k Key) String() string {
	return string(k)
}

// Resolve derives the identity key for a name pair. It reports false when
// either part is empty or blank. Whitespace runs collapse to one space and
// case is folded with ordinal (non-locale) rules.
func Resolve(first, last string) (Key, bool) {
	f := normalize(first)
	l := normalize(last)
	if f == "" || l == "" {
		return "", false
	}
	return Key(f + "_" + l), true
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
