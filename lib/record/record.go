package record

// Field is a single named value of a Record.
type Field struct {
	Name  string
	Value string
}

// Record is an ordered list of fields representing one row. Field names are unique.
type Record []Field

// Get returns the value of the named field and whether it exists.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Overlay returns a copy of r in which every field that also appears in partial carries the value
// from partial. Fields of partial that r does not have are ignored, so the result never grows.
func (r Record) Overlay(partial Record) Record {
	out := make(Record, len(r))
	copy(out, r)
	for _, p := range partial {
		for i := range out {
			if out[i].Name == p.Name {
				out[i].Value = p.Value
				break
			}
		}
	}
	return out
}

// set assigns value to name, appending the field if it does not exist yet.
func (r Record) set(name, value string) Record {
	for i := range r {
		if r[i].Name == name {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Name: name, Value: value})
}
