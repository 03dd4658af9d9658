// Package customer defines the reconciled customer entity and the final
// normalization step that turns a merged record into one.
package customer

import (
	"github.com/laurel-etl/laurel/pkg/fields"
)

// Customer is one reconciled person. Every attribute is non-empty text;
// fields.Unknown stands in for attributes no source supplied.
type Customer struct {
	// ID is the surrogate identity assigned by the sink.
	ID string `json:"id,omitempty" yaml:"id,omitempty" bson:"_id,omitempty"`
	// Key is the identity key the record was reconciled under.
	Key string `json:"key,omitempty" yaml:"key,omitempty" bson:"-"`

	FirstName        string `json:"firstName" yaml:"firstName" bson:"firstName"`
	LastName         string `json:"lastName" yaml:"lastName" bson:"lastName"`
	Age              string `json:"age" yaml:"age" bson:"age"`
	Sex              string `json:"sex" yaml:"sex" bson:"sex"`
	VehicleMake      string `json:"vehicle_make" yaml:"vehicle_make" bson:"vehicle_make"`
	VehicleModel     string `json:"vehicle_model" yaml:"vehicle_model" bson:"vehicle_model"`
	VehicleYear      string `json:"vehicle_year" yaml:"vehicle_year" bson:"vehicle_year"`
	VehicleType      string `json:"vehicle_type" yaml:"vehicle_type" bson:"vehicle_type"`
	IBAN             string `json:"iban" yaml:"iban" bson:"iban"`
	CreditCardNumber string `json:"credit_card_number" yaml:"credit_card_number" bson:"credit_card_number"`
	AddressCity      string `json:"address_city" yaml:"address_city" bson:"address_city"`
	AddressPostcode  string `json:"address_postcode" yaml:"address_postcode" bson:"address_postcode"`
	Retired          string `json:"retired" yaml:"retired" bson:"retired"`
	Dependants       string `json:"dependants" yaml:"dependants" bson:"dependants"`
	Salary           string `json:"salary" yaml:"salary" bson:"salary"`
	Pension          string `json:"pension" yaml:"pension" bson:"pension"`
	Company          string `json:"company" yaml:"company" bson:"company"`
	CommuteDistance  string `json:"commute_distance" yaml:"commute_distance" bson:"commute_distance"`
	Notes            string `json:"notes" yaml:"notes" bson:"notes"`
}

// Normalize materializes a merged record as a Customer. Unset fields become
// fields.Unknown and set fields are copied verbatim. It never fails.
func Normalize(r fields.Record) Customer {
	var c Customer
	for _, f := range fields.All() {
		*c.field(f) = r.Get(f).String()
	}
	return c
}

// Get returns the value of a canonical field.
func (c *Customer) Get(f fields.Field) string {
	if p := c.field(f); p != nil {
		return *p
	}
	return ""
}

// Values returns the attribute values in column order.
func (c *Customer) Values() []string {
	out := make([]string, 0, fields.Count)
	for _, f := range fields.All() {
		out = append(out, *c.field(f))
	}
	return out
}

// Known returns the number of attributes carrying information.
func (c *Customer) Known() int {
	n := 0
	for _, v := range c.Values() {
		if v != fields.Unknown {
			n++
		}
	}
	return n
}

func (c *Customer) field(f fields.Field) *string {
	switch f {
	case fields.FirstName:
		return &c.FirstName
	case fields.LastName:
		return &c.LastName
	case fields.Age:
		return &c.Age
	case fields.Sex:
		return &c.Sex
	case fields.VehicleMake:
		return &c.VehicleMake
	case fields.VehicleModel:
		return &c.VehicleModel
	case fields.VehicleYear:
		return &c.VehicleYear
	case fields.VehicleType:
		return &c.VehicleType
	case fields.IBAN:
		return &c.IBAN
	case fields.CreditCardNumber:
		return &c.CreditCardNumber
	case fields.AddressCity:
		return &c.AddressCity
	case fields.AddressPostcode:
		return &c.AddressPostcode
	case fields.Retired:
		return &c.Retired
	case fields.Dependants:
		return &c.Dependants
	case fields.Salary:
		return &c.Salary
	case fields.Pension:
		return &c.Pension
	case fields.Company:
		return &c.Company
	case fields.CommuteDistance:
		return &c.CommuteDistance
	case fields.Notes:
		return &c.Notes
	default:
		return nil
	}
}
