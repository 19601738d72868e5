package object

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/cardstack/pkg/errors"
)

// Parent returns o's parent, or nil.
func (o *Object) Parent() *Object {
	return o.arena.Get(o.parent)
}

// ParentID returns o's parent id, or NoID.
func (o *Object) ParentID() ID { return o.parent }

// Depth returns the distance from o's root. Roots have depth 0 and a figure
// container has depth -1.
func (o *Object) Depth() int { return o.depth }

// IsRoot reports whether o is detached or a direct child of a container.
func (o *Object) IsRoot() bool {
	return !o.container && (o.parent == NoID || o.depth == 0)
}

// Root returns the root of o's tree. A container is its own root.
func (o *Object) Root() *Object {
	n := o
	for !n.IsRoot() && !n.container {
		n = n.Parent()
	}
	return n
}

// Children returns o's children in insertion order.
func (o *Object) Children() []*Object {
	out := make([]*Object, len(o.children))
	for i, id := range o.children {
		out[i] = o.arena.nodes[id]
	}
	return out
}

// ChildCount returns the number of children.
func (o *Object) ChildCount() int { return len(o.children) }

// Child returns the child with key, or nil.
func (o *Object) Child(key string) *Object {
	id, ok := o.index[key]
	if !ok {
		return nil
	}
	return o.arena.nodes[id]
}

// ChildAt returns the i-th child in insertion order, or nil.
func (o *Object) ChildAt(i int) *Object {
	if i < 0 || i >= len(o.children) {
		return nil
	}
	return o.arena.nodes[o.children[i]]
}

// LastChild returns the most recently inserted child, or nil.
func (o *Object) LastChild() *Object {
	return o.ChildAt(len(o.children) - 1)
}

// HasChild reports whether c is a direct child of o.
func (o *Object) HasChild(c *Object) bool {
	return c != nil && c.arena == o.arena && c.parent == o.id && o.index[c.key] == c.id
}

// Similar returns the children whose key base is base, ordered by suffix.
func (o *Object) Similar(base string) []*Object {
	var out []*Object
	for _, id := range o.children {
		c := o.arena.nodes[id]
		if KeyBase(c.key) == base {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return KeySuffix(out[i].key) < KeySuffix(out[j].key)
	})
	return out
}

// ChildByBase returns the idx-th child with key base, or nil.
func (o *Object) ChildByBase(base string, idx int) *Object {
	similar := o.Similar(base)
	if idx < 0 || idx >= len(similar) {
		return nil
	}
	return similar[idx]
}

// Walk visits o and its descendants pre-order. Returning false from fn skips
// the children of the visited object.
func (o *Object) Walk(fn func(*Object) bool) {
	if !fn(o) {
		return
	}
	for _, id := range o.children {
		o.arena.nodes[id].Walk(fn)
	}
}

// Find returns the first descendant of o, pre-order, whose key base is base
// and whose suffix index is idx+1. Nil if there is none.
func (o *Object) Find(base string, idx int) *Object {
	var found *Object
	o.Walk(func(n *Object) bool {
		if found != nil {
			return false
		}
		if n != o && KeyBase(n.key) == base && KeySuffix(n.key) == idx+1 {
			found = n
			return false
		}
		return true
	})
	return found
}

// Insert attaches c as the last child of o. A c already attached elsewhere
// is moved. Key collisions with siblings are resolved by numeric suffixes.
func (o *Object) Insert(c *Object) error {
	switch {
	case c == nil:
		return errors.New(errors.ErrCodeInvalidInput, "cannot insert nil object into %q", o.key)
	case c.arena != o.arena:
		return errors.New(errors.ErrCodeInvalidInput, "object %q belongs to another arena", c.key)
	case c.parent == o.id:
		return errors.New(errors.ErrCodeDuplicate, "object %q is already a child of %q", c.key, o.key)
	case c.container:
		return errors.New(errors.ErrCodeInvalidInput, "container %q cannot be inserted", c.key)
	}
	for n := o; n != nil; n = n.Parent() {
		if n == c {
			return errors.New(errors.ErrCodeInvalidInput, "inserting %q into %q would create a cycle", c.key, o.key)
		}
	}
	if c.parent != NoID {
		if err := c.Unset(); err != nil {
			return err
		}
	}

	c.key = o.freeKey(c.key)
	c.parent = o.id
	o.children = append(o.children, c.id)
	o.index[c.key] = c.id
	c.reparented()

	o.arena.logger.Debug("inserted object", "key", c.key, "parent", o.key, "depth", c.depth)
	return nil
}

// freeKey returns the key a new child named key gets: key itself when unused,
// otherwise the next numeric suffix of its base.
func (o *Object) freeKey(key string) string {
	base := key
	n := len(o.Similar(base))
	if n == 0 {
		if _, taken := o.index[key]; !taken {
			return key
		}
		base = KeyBase(key)
		n = len(o.Similar(base))
	}
	for i := n + 1; ; i++ {
		k := WithSuffix(base, i)
		if _, taken := o.index[k]; !taken {
			return k
		}
	}
}

// Unset detaches o from its parent. Later siblings sharing o's key base are
// renumbered to close the gap.
func (o *Object) Unset() error {
	p := o.Parent()
	if p == nil {
		return nil
	}
	pos := -1
	for i, id := range p.children {
		if id == o.id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return errors.New(errors.ErrCodeInternal, "object %q missing from parent %q", o.key, p.key)
	}
	p.children = append(p.children[:pos], p.children[pos+1:]...)
	delete(p.index, o.key)

	base, suffix := KeyBase(o.key), KeySuffix(o.key)
	for _, s := range p.Similar(base) {
		if n := KeySuffix(s.key); n > suffix {
			p.rekey(s, WithSuffix(base, n-1))
		}
	}
	if rest := p.Similar(base); len(rest) == 1 && rest[0].key != base {
		p.rekey(rest[0], base)
	}

	o.parent = NoID
	o.reparented()
	o.arena.logger.Debug("detached object", "key", o.key, "parent", p.key)
	return nil
}

func (o *Object) rekey(c *Object, key string) {
	if _, taken := o.index[key]; taken {
		return
	}
	delete(o.index, c.key)
	c.key = key
	o.index[key] = c.id
}

// reparented updates depth and shared backend state of o's subtree after its
// parent changed.
func (o *Object) reparented() {
	depth := 0
	if p := o.Parent(); p != nil {
		depth = p.depth + 1
	}
	o.Walk(func(n *Object) bool {
		if n != o {
			depth = n.Parent().depth + 1
		}
		n.depth = depth
		n.relinkShared()
		return true
	})
}

// KeyBase strips a trailing "_<int>" suffix from key.
func KeyBase(key string) string {
	i := strings.LastIndexByte(key, '_')
	if i < 0 {
		return key
	}
	if _, err := strconv.Atoi(key[i+1:]); err != nil {
		return key
	}
	return key[:i]
}

// KeySuffix returns the numeric suffix of key, 1 when there is none.
func KeySuffix(key string) int {
	i := strings.LastIndexByte(key, '_')
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return 1
	}
	return n
}

// WithSuffix returns base with suffix n. Suffix 1 is the bare base.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "_" + strconv.Itoa(n)
}
