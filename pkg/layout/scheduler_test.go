package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

func TestSchedulerRankOrder(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	calls = nil
	if _, err := s.AddType("test_rec_a", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddType("test_rec_b", nil); err != nil {
		t.Fatal(err)
	}

	ran, err := s.Run(0, 0)
	if err != nil || !ran {
		t.Fatalf("Run() = %v, %v", ran, err)
	}
	want := []string{"test_rec_b@0", "test_rec_a@0", "test_rec_b@3", "test_rec_a@3", "test_rec_b@5", "test_rec_a@5"}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !s.Done() {
		t.Error("Done() = false after unbounded run")
	}
	if ran, _ := s.Run(0, 0); ran {
		t.Error("second Run() should report nothing ran")
	}
}

func TestSchedulerRankBudget(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	calls = nil
	_, _ = s.AddType("test_rec_a", nil)
	_, _ = s.AddType("test_rec_b", nil)

	if _, err := s.Run(1, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"test_rec_b@0", "test_rec_a@0"}, calls); diff != "" {
		t.Errorf("first rank mismatch (-want +got):\n%s", diff)
	}
	if s.Rank() != 3 || s.Pos() != -1 {
		t.Errorf("cursor = rank %d pos %d, want rank 3 pos -1", s.Rank(), s.Pos())
	}

	if _, err := s.Run(0, 1); err != nil {
		t.Fatal(err)
	}
	if got := calls[len(calls)-1]; got != "test_rec_b@3" {
		t.Errorf("last call = %q, want test_rec_b@3", got)
	}
	if s.Last().Key() != "test_rec_b" {
		t.Errorf("Last() = %q", s.Last().Key())
	}
}

func TestSchedulerDependencyOrdering(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	if _, err := s.AddType("test_fill", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddType("test_dup", nil); err != nil {
		t.Fatal(err)
	}

	steps := 0
	for ; steps < 100; steps++ {
		ran, err := s.Run(0, 1)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !ran {
			break
		}
		if c := h.container.Child("x_copy"); c != nil {
			if n := c.ChildCount(); n != 3 {
				t.Fatalf("x_copy has %d children after step %d, want 3", n, steps)
			}
		}
	}
	x, c := h.container.Child("x"), h.container.Child("x_copy")
	if x == nil || c == nil {
		t.Fatalf("roots = %v, %v", x, c)
	}
	if diff := cmp.Diff([]string{"item", "item_2", "item_3"}, keysOf(c)); diff != "" {
		t.Errorf("copy children mismatch (-want +got):\n%s", diff)
	}
	if steps < 2 {
		t.Errorf("steps = %d, want the run split across calls", steps)
	}
}

func TestSchedulerSkipsDisabled(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	calls = nil
	_, _ = s.AddType("test_rec_a", attrs.Map{"enabled": false})

	ran, err := s.Run(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ran || len(calls) != 0 {
		t.Errorf("Run() = %v with calls %v, want nothing", ran, calls)
	}
}

func TestSchedulerAddDuplicate(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	_, _ = s.AddType(TypeFront, nil)
	if _, err := s.AddType(TypeFront, nil); !errors.Is(err, errors.ErrCodeDuplicate) {
		t.Errorf("AddType() error = %v, want DUPLICATE", err)
	}
}

func TestSchedulerAddFromAttrs(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	m := attrs.MergeMaps(DefaultAttrs(), attrs.Map{
		"layout_front":    attrs.Map{"front_margin_mm": 3, "priority": 5},
		"layout_test_dup": nil,
		"name":            "ignored",
	})
	if err := s.AddFromAttrs(m); err != nil {
		t.Fatal(err)
	}

	var keys []string
	for _, l := range s.Layouts() {
		keys = append(keys, l.Key())
	}
	if diff := cmp.Diff([]string{"back", "front"}, keys); diff != "" {
		t.Errorf("layout order mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.Run(0, 0); err != nil {
		t.Fatal(err)
	}
	front := h.container.Child("front")
	if front == nil || front.Margin() != 3 || front.Width() != 60 || front.Height() != 90 {
		t.Errorf("front = %v", front)
	}
	if diff := cmp.Diff([]string{"back", "front"}, keysOf(h.container)); diff != "" {
		t.Errorf("roots mismatch (-want +got):\n%s", diff)
	}

	got := s.Attrs()
	if spec, _ := attrs.AsMap(got["layout_front"]); spec["front_margin_mm"] != 3 {
		t.Errorf("Attrs() layout_front = %v", got["layout_front"])
	}

	if err := s.AddFromAttrs(attrs.Map{"layout_nope": attrs.Map{}}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("AddFromAttrs() error = %v, want NOT_FOUND", err)
	}
}

func TestSchedulerWrapsLayoutErrors(t *testing.T) {
	h := newTestHost(t)
	s := NewScheduler(h, SchedulerOptions{})
	if _, err := s.AddType(TypeFront, attrs.Map{"front_xalign": "top"}); err != nil {
		t.Fatal(err)
	}
	_, err := s.Run(0, 0)
	if !errors.Is(err, errors.ErrCodeInvalidAlignment) {
		t.Fatalf("Run() error = %v, want INVALID_ALIGNMENT", err)
	}
	if h.arena.Len() != 1 {
		t.Errorf("arena Len() = %d, want only the container", h.arena.Len())
	}
}
