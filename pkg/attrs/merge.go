package attrs

import (
	"fmt"
	"sort"
)

// Map is a nested attribute mapping.
type Map map[string]any

// Get returns the value for key, or nil when absent.
func (m Map) Get(key string) any {
	return m[key]
}

// Has reports whether key is present, even with a nil value.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Clone returns a deep copy of m. Nested maps and slices are copied too.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsMap converts v to a Map when it is one of the mapping types produced by
// decoders. The boolean is false for every non-mapping value.
func AsMap(v any) (Map, bool) {
	switch m := v.(type) {
	case Map:
		return m, true
	case map[string]any:
		return Map(m), true
	case map[any]any:
		out := make(Map, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// DeepMerge merges b onto a. When both are mappings the result contains every
// key of a, overwritten key-wise by b, recursing where both sides are
// mappings. In every other case b wins. Neither input is modified.
func DeepMerge(a, b any) any {
	am, aok := AsMap(a)
	bm, bok := AsMap(b)
	if !aok || !bok {
		return cloneValue(b)
	}
	out := make(Map, len(am)+len(bm))
	for k, v := range am {
		out[k] = cloneValue(v)
	}
	for k, v := range bm {
		if prev, ok := out[k]; ok {
			out[k] = DeepMerge(prev, v)
		} else {
			out[k] = cloneValue(v)
		}
	}
	return out
}

// MergeAll left-folds DeepMerge over vs. The rightmost value has the highest
// precedence. MergeAll of nothing is nil.
func MergeAll(vs ...any) any {
	if len(vs) == 0 {
		return nil
	}
	out := cloneValue(vs[0])
	for _, v := range vs[1:] {
		out = DeepMerge(out, v)
	}
	return out
}

// MergeMaps is MergeAll restricted to maps. Nil maps are skipped and the
// result is never nil.
func MergeMaps(ms ...Map) Map {
	out := Map{}
	for _, m := range ms {
		if m == nil {
			continue
		}
		out = DeepMerge(out, m).(Map)
	}
	return out
}

func cloneValue(v any) any {
	if m, ok := AsMap(v); ok {
		if m == nil {
			return Map(nil)
		}
		return m.Clone()
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, e := range s {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}
