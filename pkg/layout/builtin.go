package layout

import "github.com/matzehuels/cardstack/pkg/attrs"

// Built-in layout types. Each adds one figure-sized root object keyed like
// the type.
const (
	TypeFront = "front"
	TypeBack  = "back"
)

func init() {
	Register(Type{
		Name:     TypeFront,
		Ranks:    []int{0},
		Defaults: attrs.Map{"priority": 1},
		New:      func(b *Base) Layout { return &rootLayout{Base: b} },
	})
	Register(Type{
		Name:     TypeBack,
		Ranks:    []int{0},
		Defaults: attrs.Map{"priority": 2},
		New:      func(b *Base) Layout { return &rootLayout{Base: b} },
	})
}

// rootLayout adds the root object named after its type at rank 0.
type rootLayout struct {
	*Base
}

func (l *rootLayout) Run(rank int) (int, bool, error) {
	if rank == 0 {
		if _, err := l.AddRootObject(l.Key(), ObjectOpts{}); err != nil {
			return 0, false, err
		}
	}
	return l.Base.Run(rank)
}

// DefaultAttrs returns layout attributes scheduling the built-in front and
// back layouts.
func DefaultAttrs() attrs.Map {
	return attrs.Map{
		AttrPrefix + TypeFront: attrs.Map{},
		AttrPrefix + TypeBack:  attrs.Map{},
	}
}
