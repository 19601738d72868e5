package object

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/errors"
)

func childKeys(o *Object) []string {
	var keys []string
	for _, c := range o.Children() {
		keys = append(keys, c.Key())
	}
	return keys
}

func TestKeyUniqueness(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "parent"})
	objs := make([]*Object, 3)
	for i := range objs {
		objs[i] = mustNew(t, a, Params{Key: "obj"})
		mustInsert(t, parent, objs[i])
	}

	if diff := cmp.Diff([]string{"obj", "obj_2", "obj_3"}, childKeys(parent)); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	if err := objs[0].Unset(); err != nil {
		t.Fatalf("Unset() error: %v", err)
	}
	if diff := cmp.Diff([]string{"obj", "obj_2"}, childKeys(parent)); diff != "" {
		t.Errorf("keys after removal mismatch (-want +got):\n%s", diff)
	}
	if parent.Child("obj") != objs[1] || parent.Child("obj_2") != objs[2] {
		t.Error("index not updated after renumbering")
	}
}

func TestKeyRenumberingMiddleAndLast(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "parent"})
	var objs []*Object
	for i := 0; i < 3; i++ {
		o := mustNew(t, a, Params{Key: "icon"})
		mustInsert(t, parent, o)
		objs = append(objs, o)
	}
	mustInsert(t, parent, mustNew(t, a, Params{Key: "label"}))

	_ = objs[1].Unset()
	if diff := cmp.Diff([]string{"icon", "icon_2", "label"}, childKeys(parent)); diff != "" {
		t.Errorf("after middle removal (-want +got):\n%s", diff)
	}
	_ = objs[2].Unset()
	if diff := cmp.Diff([]string{"icon", "label"}, childKeys(parent)); diff != "" {
		t.Errorf("after last removal (-want +got):\n%s", diff)
	}
}

func TestKeyHelpers(t *testing.T) {
	tests := []struct {
		key    string
		base   string
		suffix int
	}{
		{"obj", "obj", 1},
		{"obj_2", "obj", 2},
		{"label_front", "label_front", 1},
		{"mini_2_3", "mini_2", 3},
	}
	for _, tt := range tests {
		if got := KeyBase(tt.key); got != tt.base {
			t.Errorf("KeyBase(%q) = %q, want %q", tt.key, got, tt.base)
		}
		if got := KeySuffix(tt.key); got != tt.suffix {
			t.Errorf("KeySuffix(%q) = %d, want %d", tt.key, got, tt.suffix)
		}
	}
	if got := WithSuffix("obj", 1); got != "obj" {
		t.Errorf("WithSuffix(obj, 1) = %q", got)
	}
}

func TestExplicitSuffixedKeyDoesNotCollide(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "front"})
	mustInsert(t, parent, mustNew(t, a, Params{Key: "mini"}))
	mustInsert(t, parent, mustNew(t, a, Params{Key: "mini_2"}))
	mustInsert(t, parent, mustNew(t, a, Params{Key: "mini_2"}))

	if diff := cmp.Diff([]string{"mini", "mini_2", "mini_3"}, childKeys(parent)); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertRejectsDuplicateAndCycles(t *testing.T) {
	a := NewArena(ArenaOptions{})
	parent := mustNew(t, a, Params{Key: "parent"})
	child := mustNew(t, a, Params{Key: "child"})
	mustInsert(t, parent, child)

	if err := parent.Insert(child); !errors.Is(err, errors.ErrCodeDuplicate) {
		t.Errorf("second Insert error = %v, want DUPLICATE", err)
	}
	if parent.ChildCount() != 1 {
		t.Errorf("ChildCount() = %d, want 1", parent.ChildCount())
	}
	if err := child.Insert(parent); err == nil {
		t.Error("Insert creating a cycle should fail")
	}
	other := NewArena(ArenaOptions{})
	foreign, _ := other.New(Params{Key: "foreign"})
	if err := parent.Insert(foreign); err == nil {
		t.Error("Insert from another arena should fail")
	}
}

func TestDepthAndRoot(t *testing.T) {
	a := NewArena(ArenaOptions{})
	container, err := a.NewContainer("figure", 60, 90)
	if err != nil {
		t.Fatal(err)
	}
	front := mustNew(t, a, Params{Key: "front"})
	group := mustNew(t, a, Params{Key: "group"})
	leaf := mustNew(t, a, Params{Key: "leaf"})
	mustInsert(t, group, leaf)
	mustInsert(t, front, group)
	mustInsert(t, container, front)

	if container.Depth() != -1 || front.Depth() != 0 || group.Depth() != 1 || leaf.Depth() != 2 {
		t.Errorf("depths = %d %d %d %d", container.Depth(), front.Depth(), group.Depth(), leaf.Depth())
	}
	if !front.IsRoot() || group.IsRoot() || container.IsRoot() {
		t.Error("IsRoot mismatch")
	}
	if leaf.Root() != front {
		t.Errorf("leaf.Root() = %v, want front", leaf.Root())
	}

	if err := group.Unset(); err != nil {
		t.Fatal(err)
	}
	if group.Depth() != 0 || leaf.Depth() != 1 || leaf.Root() != group {
		t.Errorf("after Unset: depths %d %d, root %v", group.Depth(), leaf.Depth(), leaf.Root())
	}
}

func TestReparentMovesBetweenParents(t *testing.T) {
	a := NewArena(ArenaOptions{})
	p1 := mustNew(t, a, Params{Key: "p1"})
	p2 := mustNew(t, a, Params{Key: "p2"})
	c := mustNew(t, a, Params{Key: "c"})
	mustInsert(t, p1, c)
	mustInsert(t, p2, c)

	if p1.ChildCount() != 0 || p2.Child("c") != c || c.Parent() != p2 {
		t.Error("reparent did not move child")
	}
}

func TestSharedResourceLifecycle(t *testing.T) {
	rec := newRecorder()
	a := NewArena(ArenaOptions{Backend: rec})
	root1 := mustNew(t, a, Params{Key: "root1"})
	root2 := mustNew(t, a, Params{Key: "root2"})
	group := mustNew(t, a, Params{Key: "group"})
	leaf := mustNew(t, a, Params{Key: "leaf"})
	mustInsert(t, root1, group)
	mustInsert(t, group, leaf)

	v, err := leaf.Shared()
	if err != nil {
		t.Fatal(err)
	}
	if v != "root1" || rec.created != 1 {
		t.Errorf("Shared() = %v, created %d", v, rec.created)
	}
	if _, err := group.Shared(); err != nil || rec.created != 1 {
		t.Errorf("descendants should link, created %d", rec.created)
	}
	if !root1.OwnsShared() || group.OwnsShared() {
		t.Error("only the root should own the resource")
	}

	r2, _ := root2.Shared()
	mustInsert(t, root2, group)
	if v, _ := leaf.Shared(); v != r2 {
		t.Errorf("moved leaf Shared() = %v, want %v", v, r2)
	}
	if rec.released != 0 {
		t.Errorf("released = %d, want 0", rec.released)
	}

	mustInsert(t, root1, root2)
	if rec.released != 1 {
		t.Errorf("root2 became a child: released = %d, want 1", rec.released)
	}
	if v, _ := leaf.Shared(); v != "root1" {
		t.Errorf("leaf Shared() after nesting = %v, want root1", v)
	}

	if err := a.Release(root1); err != nil {
		t.Fatal(err)
	}
	if rec.released != 2 || a.Len() != 0 {
		t.Errorf("after Release: released %d, live %d", rec.released, a.Len())
	}
	if a.Get(leaf.ID()) != nil {
		t.Error("released objects should be gone from the arena")
	}
}

func TestFindAndSimilar(t *testing.T) {
	a := NewArena(ArenaOptions{})
	root := mustNew(t, a, Params{Key: "front"})
	g := mustNew(t, a, Params{Key: "group"})
	mustInsert(t, root, g)
	for i := 0; i < 2; i++ {
		mustInsert(t, g, mustNew(t, a, Params{Key: "icon"}))
	}

	if got := root.Find("icon", 1); got == nil || got.Key() != "icon_2" {
		t.Errorf("Find(icon, 1) = %v", got)
	}
	if got := root.Find("label", 0); got != nil {
		t.Errorf("Find(label, 0) = %v, want nil", got)
	}
	if got := g.ChildByBase("icon", 0); got == nil || got.Key() != "icon" {
		t.Errorf("ChildByBase(icon, 0) = %v", got)
	}
	if got := len(g.Similar("icon")); got != 2 {
		t.Errorf("Similar(icon) = %d, want 2", got)
	}
	if g.LastChild().Key() != "icon_2" {
		t.Errorf("LastChild() = %v", g.LastChild())
	}
}
