package fields

// Record holds one optional value per canonical field.
// The zero Record has every field unset.
type Record struct {
	values [Count]Value
}

// NewRecord builds a record from field/text pairs. Sentinel text leaves the
// field unset.
func NewRecord(pairs map[Field]string) Record {
	var r Record
	for f, s := range pairs {
		r.Set(f, Of(s))
	}
	return r
}

// Get returns the value stored for f.
func (r *Record) Get(f Field) Value {
	if !f.Valid() {
		return Value{}
	}
	return r.values[f]
}

// Set stores v for f. Invalid fields are ignored.
func (r *Record) Set(f Field, v Value) {
	if f.Valid() {
		r.values[f] = v
	}
}

// Has reports whether f carries information.
func (r *Record) Has(f Field) bool {
	return r.Get(f).IsSet()
}

// Each calls fn for every set field in column order.
func (r *Record) Each(fn func(Field, Value)) {
	for i, v := range r.values {
		if v.IsSet() {
			fn(Field(i), v)
		}
	}
}

// Len returns the number of set fields.
func (r *Record) Len() int {
	n := 0
	for _, v := range r.values {
		if v.IsSet() {
			n++
		}
	}
	return n
}

// Map returns the set fields keyed by attribute name.
func (r *Record) Map() map[string]string {
	out := make(map[string]string, r.Len())
	r.Each(func(f Field, v Value) {
		out[f.String()] = v.String()
	})
	return out
}
