package testdata

// Record is a flattened document: single-level keys in document order
type Record struct {
	keys   []string
	values map[string]string
}

func newRecord() Record {
	return Record{values: make(map[string]string)}
}

func (r *Record) set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the keys in depth-first document order
func (r Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Len returns the number of entries
func (r Record) Len() int {
	return len(r.keys)
}

// Map returns a copy of the entries as a plain map
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}
