package effect

import (
	"strings"

	"github.com/matzehuels/cardstack/pkg/attrs"
)

// AttrPrefix marks draw attributes that describe an effect:
//
//	effect_fill: {type: gradient, start_color: white, end_color: gold}
//
// A nil value removes the effect.
const AttrPrefix = "effect_"

// Changes is the effect part of a draw attribute map.
type Changes struct {
	Set    []Effect
	Remove []Kind
}

// FromAttrs splits m into effect changes and the remaining draw attributes.
// Keys are processed in sorted order.
func FromAttrs(m attrs.Map) (Changes, attrs.Map, error) {
	var ch Changes
	rest := attrs.Map{}
	for _, key := range m.Keys() {
		v := m[key]
		if !strings.HasPrefix(key, AttrPrefix) {
			rest[key] = v
			continue
		}
		kind, err := ParseKind(strings.TrimPrefix(key, AttrPrefix))
		if err != nil {
			return Changes{}, nil, err
		}
		spec, ok := attrs.AsMap(v)
		if !ok || spec == nil {
			ch.Remove = append(ch.Remove, kind)
			continue
		}
		variant, _ := attrs.ToString(spec["type"])
		args := spec.Clone()
		delete(args, "type")
		ch.Set = append(ch.Set, Effect{Kind: kind, Variant: variant, Args: args})
	}
	return ch, rest, nil
}

// ToAttrs renders effects as draw attributes, the inverse of FromAttrs.
func ToAttrs(effects []Effect) attrs.Map {
	out := attrs.Map{}
	for _, e := range effects {
		spec := e.Args.Clone()
		if spec == nil {
			spec = attrs.Map{}
		}
		spec["type"] = e.Variant
		out[AttrPrefix+string(e.Kind)] = spec
	}
	return out
}
