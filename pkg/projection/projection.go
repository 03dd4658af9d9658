// Package projection maps source-native field names onto canonical fields.
//
// Each source kind has a fixed table of rules. A rule names the canonical
// field and an ordered list of candidate keys; the first candidate present
// in the raw record supplies the value. Keys are matched exactly and
// case-sensitively. Fields a source does not supply stay unset.
package projection

import (
	"github.com/laurel-etl/laurel/pkg/fields"
	"github.com/laurel-etl/laurel/pkg/identity"
	"github.com/laurel-etl/laurel/pkg/sources"
)

// Rule maps a canonical field to the source keys that may carry it.
type Rule struct {
	Field      fields.Field
	Candidates []string
}

// Name-field synonyms, in lookup order.
var (
	tabularFirst = []string{"First Name", "firstName", "first"}
	tabularLast  = []string{"Second Name", "lastName", "last", "Surname"}
	objectFirst  = []string{"firstName", "First Name", "first"}
	objectLast   = []string{"lastName", "Second Name", "last", "Surname"}
)

var rules = map[sources.Kind][]Rule{
	sources.Tabular: {
		{fields.FirstName, tabularFirst},
		{fields.LastName, tabularLast},
		{fields.Age, []string{"Age"}},
		{fields.Sex, []string{"Sex"}},
		{fields.VehicleMake, []string{"Vehicle Make"}},
		{fields.VehicleModel, []string{"Vehicle Model"}},
		{fields.VehicleYear, []string{"Vehicle Year"}},
		{fields.VehicleType, []string{"Vehicle Type"}},
	},
	sources.Object: {
		{fields.FirstName, objectFirst},
		{fields.LastName, objectLast},
		{fields.Age, []string{"age"}},
		{fields.IBAN, []string{"iban"}},
		{fields.CreditCardNumber, []string{"credit_card_number"}},
		{fields.AddressCity, []string{"address_city"}},
		{fields.AddressPostcode, []string{"address_postcode"}},
	},
	sources.Tree: {
		{fields.FirstName, objectFirst},
		{fields.LastName, objectLast},
		{fields.Age, []string{"age"}},
		{fields.Sex, []string{"sex"}},
		{fields.Retired, []string{"retired"}},
		{fields.Dependants, []string{"dependants"}},
		{fields.Salary, []string{"salary"}},
		{fields.Pension, []string{"pension"}},
		{fields.Company, []string{"company"}},
		{fields.CommuteDistance, []string{"commute_distance"}},
		{fields.AddressPostcode, []string{"address_postcode"}},
	},
}

// Rules returns the projection rules for a source kind. Kinds that take no
// part in field-level merge have no rules.
func Rules(kind sources.Kind) []Rule {
	return rules[kind]
}

// Supplies returns the canonical fields a source kind can populate.
func Supplies(kind sources.Kind) []fields.Field {
	rs := rules[kind]
	out := make([]fields.Field, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Field)
	}
	return out
}

// Project converts a raw record from a source of the given kind into a
// record holding only the canonical fields that kind supplies.
func Project(kind sources.Kind, raw sources.RawRecord) fields.Record {
	var rec fields.Record
	for _, rule := range rules[kind] {
		rec.Set(rule.Field, lookup(raw, rule.Candidates))
	}
	return rec
}

// Identity resolves the identity key of a raw record from the text of its
// name candidates. The text is used as read, so a name spelled like a
// placeholder ("NA", "None") still keys the record even though the
// projected name field is unset. Only a missing or blank name yields no key.
func Identity(kind sources.Kind, raw sources.RawRecord) (identity.Key, bool) {
	var first, last string
	for _, rule := range rules[kind] {
		switch rule.Field {
		case fields.FirstName:
			first, _ = text(raw, rule.Candidates)
		case fields.LastName:
			last, _ = text(raw, rule.Candidates)
		}
	}
	return identity.Resolve(first, last)
}

// lookup returns the value of the first candidate key present in raw.
func lookup(raw sources.RawRecord, candidates []string) fields.Value {
	return fields.Lookup(text(raw, candidates))
}

func text(raw sources.RawRecord, candidates []string) (string, bool) {
	for _, key := range candidates {
		if v, ok := raw.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
