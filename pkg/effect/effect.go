// Package effect defines the visual operations attached to figure objects.
//
// An [Effect] is a kind (fill, border, text, rotate, shear, mask), a variant
// within that kind ("color", "gradient", "picture", ...) and free-form
// arguments. A figure object holds at most one effect per kind in a [List],
// ordered by a fixed per-kind rank, so fills always land before borders and
// text before rotation regardless of the order they were attached.
//
// Backends register handlers per (kind, variant) in a [Registry]. Applying an
// effect with no registered handler yields an UNSUPPORTED error instead of
// silently doing nothing, so callers can decide whether to log or fail.
package effect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// Kind names a family of effects.
type Kind string

// Effect kinds.
const (
	KindFill   Kind = "fill"
	KindBorder Kind = "border"
	KindText   Kind = "text"
	KindRotate Kind = "rotate"
	KindShear  Kind = "shear"
	KindMask   Kind = "mask"
)

// ranks orders effect application. Equal ranks keep insertion order.
var ranks = map[Kind]int{
	KindFill:   1,
	KindBorder: 3,
	KindText:   5,
	KindRotate: 7,
	KindShear:  7,
	KindMask:   9,
}

// Rank returns the application rank of k.
func Rank(k Kind) (int, bool) {
	r, ok := ranks[k]
	return r, ok
}

// Kinds returns every known kind in rank order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(ranks))
	for k := range ranks {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if ranks[kinds[i]] != ranks[kinds[j]] {
			return ranks[kinds[i]] < ranks[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ranks[k]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown effect kind %q", s)
	}
	return k, nil
}

// Effect is one visual operation.
type Effect struct {
	Kind    Kind
	Variant string
	Args    attrs.Map
}

// New returns an effect with a copy of args.
func New(kind Kind, variant string, args attrs.Map) Effect {
	return Effect{Kind: kind, Variant: variant, Args: args.Clone()}
}

// Clone returns a deep copy of e.
func (e Effect) Clone() Effect {
	return Effect{Kind: e.Kind, Variant: e.Variant, Args: e.Args.Clone()}
}

// String returns "kind" or "kind:variant".
func (e Effect) String() string {
	if e.Variant == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s:%s", e.Kind, e.Variant)
}

// Float returns the numeric argument name, or 0.
func (e Effect) Float(name string) float64 {
	f, _ := attrs.ToFloat(e.Args[name])
	return f
}

// Text returns the text argument name, or "".
func (e Effect) Text(name string) string {
	s, _ := attrs.ToString(e.Args[name])
	return s
}
