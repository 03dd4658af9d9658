package identity_test

import (
	"testing"

	"github.com/laurel-etl/laurel/pkg/identity"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
		want  identity.Key
		ok    bool
	}{
		{"plain", "Ann", "Lee", "ann_lee", true},
		{"inner whitespace collapses", " John  Doe ", "doe", "john doe_doe", true},
		{"case folds", "JOHN", " DOE ", "john_doe", true},
		{"tabs and newlines", "Mary\tJane", "Watson\n", "mary jane_watson", true},
		{"empty first", "", "Doe", "", false},
		{"blank first", "   ", "Doe", "", false},
		{"empty last", "John", "", "", false},
		{"blank last", "John", "\t", "", false},
		{"placeholder text is a name", "Ann", "NA", "ann_na", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := identity.Resolve(tt.first, tt.last)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEquivalentSpellings(t *testing.T) {
	a, ok := identity.Resolve("john", " DOE ")
	assert.True(t, ok)
	b, ok := identity.Resolve(" John", "doe")
	assert.True(t, ok)
	assert.Equal(t, identity.Key("john_doe"), a)
	assert.Equal(t, a, b)

	bob1, _ := identity.Resolve("Bob", "Smith")
	bob2, _ := identity.Resolve("bob", "   smith")
	assert.Equal(t, bob1, bob2)
}
