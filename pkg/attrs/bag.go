package attrs

// Bag is a declared default table with overrides merged on top.
//
// After construction every key of the defaults is present, set either to its
// default or to DeepMerge(default, override). Override keys without a default
// are kept as given.
type Bag struct {
	defaults Map
	values   Map
}

// NewBag builds a bag from defaults and overrides. Neither map is retained.
func NewBag(defaults, overrides Map) *Bag {
	b := &Bag{defaults: defaults.Clone(), values: Map{}}
	if b.defaults == nil {
		b.defaults = Map{}
	}
	for k, def := range b.defaults {
		if ov, ok := overrides[k]; ok {
			b.values[k] = DeepMerge(def, ov)
		} else {
			b.values[k] = cloneValue(def)
		}
	}
	for k, ov := range overrides {
		if _, ok := b.defaults[k]; !ok {
			b.values[k] = cloneValue(ov)
		}
	}
	return b
}

// Lookup returns the value for key and whether it is present.
func (b *Bag) Lookup(key string) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Get returns the value for key, or nil when absent.
func (b *Bag) Get(key string) any {
	return b.values[key]
}

// Has reports whether key is present.
func (b *Bag) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

// Declared reports whether key has a default.
func (b *Bag) Declared(key string) bool {
	_, ok := b.defaults[key]
	return ok
}

// Set replaces the value for key.
func (b *Bag) Set(key string, v any) {
	b.values[key] = cloneValue(v)
}

// Merge deep-merges v onto the current value for key.
func (b *Bag) Merge(key string, v any) {
	if prev, ok := b.values[key]; ok {
		b.values[key] = DeepMerge(prev, v)
		return
	}
	b.values[key] = cloneValue(v)
}

// Update deep-merges every entry of overrides onto the bag.
func (b *Bag) Update(overrides Map) {
	for k, v := range overrides {
		b.Merge(k, v)
	}
}

// Delete removes key. A declared key falls back to its default.
func (b *Bag) Delete(key string) {
	if def, ok := b.defaults[key]; ok {
		b.values[key] = cloneValue(def)
		return
	}
	delete(b.values, key)
}

// Keys returns the present keys in sorted order.
func (b *Bag) Keys() []string {
	return b.values.Keys()
}

// Map returns a deep copy of the merged values.
func (b *Bag) Map() Map {
	return b.values.Clone()
}

// Defaults returns a deep copy of the declared defaults.
func (b *Bag) Defaults() Map {
	return b.defaults.Clone()
}

// Clone returns an independent copy of the bag.
func (b *Bag) Clone() *Bag {
	return &Bag{defaults: b.defaults.Clone(), values: b.values.Clone()}
}

// String returns the value for key as text, or "" when absent.
func (b *Bag) String(key string) string {
	s, _ := ToString(b.values[key])
	return s
}

// Float returns the value for key as a number, or 0.
func (b *Bag) Float(key string) float64 {
	f, _ := ToFloat(b.values[key])
	return f
}

// FloatOr returns the value for key as a number, or def when it is absent or
// not numeric.
func (b *Bag) FloatOr(key string, def float64) float64 {
	if f, ok := ToFloat(b.values[key]); ok {
		return f
	}
	return def
}

// Int returns the value for key as an integer, or 0.
func (b *Bag) Int(key string) int {
	i, _ := ToInt(b.values[key])
	return i
}

// Bool returns the value for key as a boolean, or false.
func (b *Bag) Bool(key string) bool {
	v, _ := ToBool(b.values[key])
	return v
}

// Sub returns the nested map stored at key, or nil.
func (b *Bag) Sub(key string) Map {
	m, _ := AsMap(b.values[key])
	return m.Clone()
}
