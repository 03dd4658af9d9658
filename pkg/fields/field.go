// Package fields defines the closed set of customer attributes tracked
// across sources, the optional value stored for each, and the fixed-size
// record that holds one value per attribute.
package fields

// Field identifies one canonical customer attribute.
type Field int

// Canonical fields, in persisted column order.
const (
	FirstName Field = iota
	LastName
	Age
	Sex
	VehicleMake
	VehicleModel
	VehicleYear
	VehicleType
	IBAN
	CreditCardNumber
	AddressCity
	AddressPostcode
	Retired
	Dependants
	Salary
	Pension
	Company
	CommuteDistance
	Notes

	// Count is the number of canonical fields.
	Count int = iota
)

var names = [Count]string{
	FirstName:        "firstName",
	LastName:         "lastName",
	Age:              "age",
	Sex:              "sex",
	VehicleMake:      "vehicle_make",
	VehicleModel:     "vehicle_model",
	VehicleYear:      "vehicle_year",
	VehicleType:      "vehicle_type",
	IBAN:             "iban",
	CreditCardNumber: "credit_card_number",
	AddressCity:      "address_city",
	AddressPostcode:  "address_postcode",
	Retired:          "retired",
	Dependants:       "dependants",
	Salary:           "salary",
	Pension:          "pension",
	Company:          "company",
	CommuteDistance:  "commute_distance",
	Notes:            "notes",
}

var byName = func() map[string]Field {
	m := make(map[string]Field, Count)
	for i, n := range names {
		m[n] = Field(i)
	}
	return m
}()

// String returns the persisted attribute name of the field.
func (f Field) String() string {
	if !f.Valid() {
		return "unknown"
	}
	return names[f]
}

// Valid reports whether f is one of the canonical fields.
func (f Field) Valid() bool {
	return f >= 0 && int(f) < Count
}

// IsName reports whether f participates in identity resolution.
func (f Field) IsName() bool {
	return f == FirstName || f == LastName
}

// Parse looks up a field by its persisted attribute name.
func Parse(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

// All returns every canonical field in column order.
func All() []Field {
	all := make([]Field, Count)
	for i := range all {
		all[i] = Field(i)
	}
	return all
}

// Names returns the persisted attribute names in column order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}
