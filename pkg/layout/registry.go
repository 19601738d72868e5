package layout

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/matzehuels/cardstack/pkg/attrs"
)

// Type describes a layout recipe that can be instantiated by name.
type Type struct {
	// Name identifies the type, e.g. "front". Layout attribute entries
	// "layout_<name>" instantiate it.
	Name string

	// Parent names the type this one extends. Empty for a base type. The
	// parent must be registered first.
	Parent string

	// Ranks lists the ranks this type acts on. After registration it holds
	// the sorted union with all ancestor ranks.
	Ranks []int

	// Defaults declares the type's attributes. After registration it holds
	// the base defaults with every ancestor's and this type's defaults
	// deep-merged on top.
	Defaults attrs.Map

	// New builds a layout around its initialized base. Types without
	// actions of their own may leave it nil.
	New func(b *Base) Layout
}

// baseDefaults are shared by every layout type.
var baseDefaults = attrs.Map{
	"enabled":  true,
	"priority": 0,

	"width_mm":     0,
	"height_mm":    0,
	"xalign":       "left",
	"yalign":       "top",
	"xoffs_mm":     0,
	"yoffs_mm":     0,
	"xloc":         "sameas",
	"yloc":         "sameas",
	"add_xoffs_mm": 0,
	"add_yoffs_mm": 0,
	"parent":       nil,
	"margin_mm":    0,
	"opacity":      1,

	"new_opacity":   nil,
	"new_width_mm":  nil,
	"new_height_mm": nil,
	"new_margin_mm": nil,
	"scale":         1,

	"draw": attrs.Map{},
}

var (
	typesMu sync.RWMutex
	types   = map[string]*Type{}
)

// Register adds a layout type. It is meant to be called from init and panics
// on an empty or duplicate name or an unregistered parent.
func Register(t Type) {
	typesMu.Lock()
	defer typesMu.Unlock()

	if t.Name == "" {
		panic("layout: Register with empty type name")
	}
	if _, dup := types[t.Name]; dup {
		panic(fmt.Sprintf("layout: type %q registered twice", t.Name))
	}

	ranks := append([]int(nil), t.Ranks...)
	defaults := baseDefaults
	if t.Parent != "" {
		parent, ok := types[t.Parent]
		if !ok {
			panic(fmt.Sprintf("layout: type %q extends unregistered type %q", t.Name, t.Parent))
		}
		ranks = append(ranks, parent.Ranks...)
		defaults = parent.Defaults
		if t.New == nil {
			t.New = parent.New
		}
	}
	t.Ranks = unionRanks(ranks)
	t.Defaults = attrs.MergeMaps(defaults, t.Defaults)
	types[t.Name] = &t
}

// Lookup returns the registered type name.
func Lookup(name string) (*Type, bool) {
	typesMu.RLock()
	defer typesMu.RUnlock()
	t, ok := types[name]
	return t, ok
}

// TypeNames returns the names of all registered types, sorted.
func TypeNames() []string {
	typesMu.RLock()
	defer typesMu.RUnlock()
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unionRanks(ranks []int) []int {
	slices.Sort(ranks)
	return slices.Compact(ranks)
}
