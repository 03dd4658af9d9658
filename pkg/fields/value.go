package fields

import "strconv"

// Unknown is the textual marker written for fields without information.
const Unknown = "N/A"

// sentinels are textual values that carry no information.
var sentinels = map[string]struct{}{
	"":     {},
	"N/A":  {},
	"NA":   {},
	"null": {},
	"None": {},
}

// IsSentinel reports whether s is one of the placeholder spellings of
// "no information". Matching is exact and case-sensitive.
func IsSentinel(s string) bool {
	_, ok := sentinels[s]
	return ok
}

// Value is an optional text value. The zero Value is unset.
type Value struct {
	text string
	set  bool
}

// Unset returns the unset value.
func Unset() Value {
	return Value{}
}

// Of returns a set value for s, or the unset value when s is a sentinel.
func Of(s string) Value {
	if IsSentinel(s) {
		return Value{}
	}
	return Value{text: s, set: true}
}

// Lookup returns Of(s) when ok is true and the unset value otherwise.
// It mirrors the two-value map index form.
func Lookup(s string, ok bool) Value {
	if !ok {
		return Value{}
	}
	return Of(s)
}

// IsSet reports whether v carries information.
func (v Value) IsSet() bool {
	return v.set
}

// Get returns the text and whether it is set.
func (v Value) Get() (string, bool) {
	return v.text, v.set
}

// String returns the text, or the Unknown marker for an unset value.
func (v Value) String() string {
	if !v.set {
		return Unknown
	}
	return v.text
}

// Equal reports whether two values carry the same information.
func (v Value) Equal(o Value) bool {
	return v.set == o.set && v.text == o.text
}

// GoString renders unset values distinctly in test failure output.
func (v Value) GoString() string {
	if !v.set {
		return "fields.Unset()"
	}
	return "fields.Of(" + strconv.Quote(v.text) + ")"
}
