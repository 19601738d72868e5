package treeviz

import (
	"strings"
	"testing"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/object"
)

func tree(t *testing.T) (*object.Object, *object.Object, *object.Object) {
	t.Helper()
	a := object.NewArena(object.ArenaOptions{})
	fig, err := a.NewContainer("figure", 60, 90)
	if err != nil {
		t.Fatal(err)
	}
	front, err := a.New(object.Params{Key: "front", Width: 60, Height: 90})
	if err != nil {
		t.Fatal(err)
	}
	group, err := a.New(object.Params{Key: "icons_group"})
	if err != nil {
		t.Fatal(err)
	}
	label, err := a.New(object.Params{Key: "label", Width: 40, Height: 8, OffsetX: 2})
	if err != nil {
		t.Fatal(err)
	}
	if err := label.AddEffect(effect.KindText, "", attrs.Map{"text": "Fire"}); err != nil {
		t.Fatal(err)
	}
	for _, step := range []struct{ parent, child *object.Object }{{fig, front}, {front, group}, {front, label}} {
		if err := step.parent.Insert(step.child); err != nil {
			t.Fatal(err)
		}
	}
	return fig, front, label
}

func TestToDOT_Basic(t *testing.T) {
	fig, front, label := tree(t)
	dot := ToDOT(fig, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="front", fillcolor=lightblue`) {
		t.Error("ToDOT() output missing highlighted root")
	}
	if !strings.Contains(dot, "shape=point") {
		t.Error("ToDOT() container not drawn as a point")
	}
	edge := nodeID(front) + " -> " + nodeID(label) + ";"
	if !strings.Contains(dot, edge) {
		t.Errorf("ToDOT() output missing edge %q", edge)
	}
	if strings.Contains(dot, "text") {
		t.Error("ToDOT() simple output lists effects")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	_, front, _ := tree(t)
	dot := ToDOT(front, Options{Detailed: true})

	if !strings.Contains(dot, `label="label\n40x8+2+0\ntext"`) {
		t.Errorf("ToDOT() detailed output missing geometry and effects:\n%s", dot)
	}
	if !strings.Contains(dot, "dashed") {
		t.Error("ToDOT() empty group missing dashed style")
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	_, _, label := tree(t)
	if got := fmtLabel(label, false); got != "label" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "label")
	}
}

func TestRenderSVG(t *testing.T) {
	fig, _, _ := tree(t)
	svg, err := RenderSVG(ToDOT(fig, Options{Detailed: true}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
}
