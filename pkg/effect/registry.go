package effect

import (
	"sort"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// Handler applies one effect variant to a backend target.
type Handler[T any] func(target T, args attrs.Map) error

type pair struct {
	kind    Kind
	variant string
}

// standardDefaults are merged under every backend's own defaults.
var standardDefaults = map[pair]attrs.Map{
	{KindFill, "color"}:     {"color": "white"},
	{KindFill, "pattern"}:   {},
	{KindFill, "picture"}:   {"path": ""},
	{KindFill, "gradient"}:  {"start_color": "white", "end_color": "black", "angle": 0},
	{KindBorder, "color"}:   {"color": "black"},
	{KindBorder, "pattern"}: {},
	{KindText, ""}: {
		"text":     "Default text",
		"size_pt":  nil,
		"fg_color": "black",
		"bg_color": "white",
		"justify":  "left",
	},
	{KindRotate, ""}: {"angle": 0},
	{KindShear, ""}:  {"mag_x": 0, "mag_y": 0},
	{KindMask, ""}:   {},
}

// StandardDefaults returns the built-in default arguments for a pair, or nil.
func StandardDefaults(kind Kind, variant string) attrs.Map {
	return standardDefaults[pair{kind, variant}].Clone()
}

// Registry maps (kind, variant) pairs to handlers and default arguments.
// Backends populate it once at construction.
type Registry[T any] struct {
	handlers map[pair]Handler[T]
	defaults map[pair]attrs.Map
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		handlers: make(map[pair]Handler[T]),
		defaults: make(map[pair]attrs.Map),
	}
}

// Register installs h for the pair with the standard defaults.
func (r *Registry[T]) Register(kind Kind, variant string, h Handler[T]) {
	r.RegisterWithDefaults(kind, variant, nil, h)
}

// RegisterWithDefaults installs h for the pair. defaults are merged over the
// standard defaults.
func (r *Registry[T]) RegisterWithDefaults(kind Kind, variant string, defaults attrs.Map, h Handler[T]) {
	p := pair{kind, variant}
	r.handlers[p] = h
	r.defaults[p] = attrs.MergeMaps(standardDefaults[p], defaults)
}

// Lookup returns the handler for the pair.
func (r *Registry[T]) Lookup(kind Kind, variant string) (Handler[T], bool) {
	h, ok := r.handlers[pair{kind, variant}]
	return h, ok
}

// Supports reports whether the pair has a handler.
func (r *Registry[T]) Supports(kind Kind, variant string) bool {
	_, ok := r.handlers[pair{kind, variant}]
	return ok
}

// Defaults returns the default arguments for the pair. Unregistered pairs
// fall back to the standard defaults.
func (r *Registry[T]) Defaults(kind Kind, variant string) attrs.Map {
	if d, ok := r.defaults[pair{kind, variant}]; ok {
		return d.Clone()
	}
	return StandardDefaults(kind, variant)
}

// Apply runs the handler for e against target. A pair without a handler
// yields an UNSUPPORTED error.
func (r *Registry[T]) Apply(target T, e Effect) error {
	h, ok := r.Lookup(e.Kind, e.Variant)
	if !ok {
		return errors.Unsupported("effect %s not supported", e)
	}
	return h(target, e.Args)
}

// Supported lists the registered pairs as "kind" or "kind:variant", sorted.
func (r *Registry[T]) Supported() []string {
	out := make([]string, 0, len(r.handlers))
	for p := range r.handlers {
		out = append(out, Effect{Kind: p.kind, Variant: p.variant}.String())
	}
	sort.Strings(out)
	return out
}
