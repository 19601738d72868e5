// Package attrs provides layered attribute maps for figure objects, effects
// and layouts.
//
// Every configurable part of cardstack is driven by nested key/value maps:
// layout defaults declared per type, per-record overrides from a loader,
// backend default arguments per effect. This package merges them.
//
// # Merging
//
// [DeepMerge] merges two values. If both are maps, the result holds every
// key of the left map, overwritten key by key with the right map's value,
// recursing where both sides are maps. Otherwise the right value wins:
//
//	attrs.DeepMerge(
//	    attrs.Map{"effect_fill": attrs.Map{"type": "color", "color": "white"}},
//	    attrs.Map{"effect_fill": attrs.Map{"color": "gold"}},
//	)
//	// {"effect_fill": {"type": "color", "color": "gold"}}
//
// [MergeAll] and [MergeMaps] fold left, so the rightmost argument has the
// highest precedence. Inputs are never mutated.
//
// # Bags
//
// A [Bag] is a declared default table with overrides merged on top. Lookup
// of an unknown key returns nil rather than an error, because attribute sets
// are open-ended per backend and effect. Typed accessors coerce strings so
// values read from delimited text are usable as numbers.
//
// # Default Resolution
//
// Helpers with many optional parameters take an options struct with pointer
// fields. Nil fields are resolved through a [Scope]: first the attribute
// "<prefix>_<param>", then "<param>", then nil. Each call enters its own
// frame, so nested helpers never see or clobber an outer call's values:
//
//	defer scope.Enter("label")()
//	width := attrs.ResolveFloat(scope, "width_mm", opts.Width)
package attrs
