package object

import (
	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
)

// Backend renders objects. Each object gets its own Handle; a root object
// additionally owns one shared resource (an image, a document) that all of
// its descendants draw into.
type Backend interface {
	// Name identifies the backend in logs and cache keys.
	Name() string

	// NewHandle returns the draw handle for o.
	NewHandle(o *Object) Handle

	// Defaults returns the default effect arguments for a (kind, variant)
	// pair, merged under the caller's arguments when an effect is added.
	Defaults(kind effect.Kind, variant string) attrs.Map

	// CreateShared creates the shared resource for root.
	CreateShared(root *Object) (any, error)

	// ReleaseShared frees a resource returned by CreateShared.
	ReleaseShared(root *Object, v any)
}

// Handle is the per-object side of a Backend. Hooks run in the order
// PreDrawRoot, PreDrawObject, ApplyEffect..., PostDrawObject, children,
// PostDrawRoot.
type Handle interface {
	PreDrawRoot() error
	PreDrawObject() error

	// ApplyEffect returns an UNSUPPORTED error for pairs the backend has no
	// handler for.
	ApplyEffect(e effect.Effect) error

	PostDrawObject() error
	PostDrawRoot() error
}

// NopBackend draws nothing. It is the default backend of an arena.
type NopBackend struct{}

// Name returns "nop".
func (NopBackend) Name() string { return "nop" }

// NewHandle returns a handle that does nothing.
func (NopBackend) NewHandle(*Object) Handle { return nopHandle{} }

// Defaults returns the standard effect defaults.
func (NopBackend) Defaults(kind effect.Kind, variant string) attrs.Map {
	return effect.StandardDefaults(kind, variant)
}

// CreateShared returns nil.
func (NopBackend) CreateShared(*Object) (any, error) { return nil, nil }

// ReleaseShared does nothing.
func (NopBackend) ReleaseShared(*Object, any) {}

type nopHandle struct{}

func (nopHandle) PreDrawRoot() error              { return nil }
func (nopHandle) PreDrawObject() error            { return nil }
func (nopHandle) ApplyEffect(effect.Effect) error { return nil }
func (nopHandle) PostDrawObject() error           { return nil }
func (nopHandle) PostDrawRoot() error             { return nil }

var _ Backend = NopBackend{}
