package projection_test

import (
	"testing"

	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/projection"
	"github.com/laurel-etl/laurel/pkg/sources"
	"github.com/stretchr/testify/assert"
)

func TestProjectTabular(t *testing.T) {
	raw := sources.RawRecord{
		"First Name":    "Ann",
		"Second Name":   "Lee",
		"Age":           "30",
		"Vehicle Make":  "Ford",
		"Vehicle Model": "Focus",
		"iban":          "GB00",
	}

	rec := projection.Project(sources.Tabular, raw)

	assert.Equal(t, map[string]string{
		"firstName":     "Ann",
		"lastName":      "Lee",
		"age":           "30",
		"vehicle_make":  "Ford",
		"vehicle_model": "Focus",
	}, rec.Map())
	assert.False(t, rec.Has(fields.IBAN), "tabular source does not supply iban")
}

func TestProjectNameSynonyms(t *testing.T) {
	tests := []struct {
		name  string
		kind  sources.Kind
		raw   sources.RawRecord
		first string
		last  string
	}{
		{
			name:  "tabular prefers spaced header",
			kind:  sources.Tabular,
			raw:   sources.RawRecord{"First Name": "Ann", "firstName": "Anne", "Surname": "Lee"},
			first: "Ann",
			last:  "Lee",
		},
		{
			name:  "object prefers camel case",
			kind:  sources.Object,
			raw:   sources.RawRecord{"First Name": "Anne", "firstName": "Ann", "last": "Lee"},
			first: "Ann",
			last:  "Lee",
		},
		{
			name:  "tree falls back to short keys",
			kind:  sources.Tree,
			raw:   sources.RawRecord{"first": "Ann", "Second Name": "Lee"},
			first: "Ann",
			last:  "Lee",
		},
		{
			name:  "matching is case sensitive",
			kind:  sources.Object,
			raw:   sources.RawRecord{"FIRSTNAME": "Ann", "lastname": "Lee"},
			first: fields.Unknown,
			last:  fields.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := projection.Project(tt.kind, tt.raw)
			assert.Equal(t, tt.first, rec.Get(fields.FirstName).String())
			assert.Equal(t, tt.last, rec.Get(fields.LastName).String())
		})
	}
}

func TestProjectObjectAndTree(t *testing.T) {
	obj := projection.Project(sources.Object, sources.RawRecord{
		"firstName":                 "ann",
		"lastName":                  "lee",
		"iban":                      "GB00",
		"address_postcode":          "SR1 1AA",
		"credit_card_security_code": "123",
		"address_main":              "1 High St",
	})
	assert.Equal(t, "GB00", obj.Get(fields.IBAN).String())
	assert.Equal(t, "SR1 1AA", obj.Get(fields.AddressPostcode).String())
	assert.Equal(t, 4, obj.Len())

	tree := projection.Project(sources.Tree, sources.RawRecord{
		"firstName":      "Ann",
		"lastName":       "Lee",
		"salary":         "50000",
		"retired":        "False",
		"marital_status": "single",
	})
	assert.Equal(t, "50000", tree.Get(fields.Salary).String())
	assert.Equal(t, "False", tree.Get(fields.Retired).String())
	assert.Equal(t, 4, tree.Len())
}

func TestProjectSentinelValuesStayUnset(t *testing.T) {
	rec := projection.Project(sources.Tree, sources.RawRecord{
		"firstName": "Ann",
		"lastName":  "Lee",
		"company":   "N/A",
		"pension":   "null",
	})
	assert.False(t, rec.Has(fields.Company))
	assert.False(t, rec.Has(fields.Pension))
}

func TestProjectTextSuppliesNothing(t *testing.T) {
	rec := projection.Project(sources.Text, sources.RawRecord{"notes": "called on Monday"})
	assert.Equal(t, 0, rec.Len())
	assert.Empty(t, projection.Supplies(sources.Text))
}

func TestSupplies(t *testing.T) {
	common := []fields.Field{fields.FirstName, fields.LastName}
	for _, kind := range []sources.Kind{sources.Tabular, sources.Object, sources.Tree} {
		supplied := projection.Supplies(kind)
		assert.Subset(t, supplied, common, kind.String())
		assert.NotContains(t, supplied, fields.Notes, kind.String())
	}
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name string
		kind sources.Kind
		raw  sources.RawRecord
		want string
		ok   bool
	}{
		{"tabular names", sources.Tabular, sources.RawRecord{"First Name": "Ann", "Second Name": "Lee"}, "ann_lee", true},
		{"synonym fallback", sources.Object, sources.RawRecord{"first": "Ann", "Surname": "Lee"}, "ann_lee", true},
		{"placeholder surname", sources.Tabular, sources.RawRecord{"First Name": "Ann", "Second Name": "NA"}, "ann_na", true},
		{"missing surname", sources.Tree, sources.RawRecord{"firstName": "Ann", "age": "30"}, "", false},
		{"text source has no names", sources.Text, sources.RawRecord{"notes": "Ann Lee called"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := projection.Identity(tt.kind, tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, key.String())
		})
	}
}
