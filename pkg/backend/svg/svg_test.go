package svg

import (
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/effect"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/object"
)

// testPPI gives 10 pixels per millimeter.
const testPPI = 254

func newArena(t *testing.T, draw attrs.Map, formats ...string) (*Backend, *object.Arena) {
	t.Helper()
	b, err := New(draw, backend.Options{Formats: formats})
	if err != nil {
		t.Fatal(err)
	}
	return b, object.NewArena(object.ArenaOptions{Backend: b, PPI: testPPI, Name: "002-ice_"})
}

func mustNew(t *testing.T, a *object.Arena, p object.Params) *object.Object {
	t.Helper()
	o, err := a.New(p)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func mustEffect(t *testing.T, o *object.Object, kind effect.Kind, variant string, args attrs.Map) {
	t.Helper()
	if err := o.AddEffect(kind, variant, args); err != nil {
		t.Fatal(err)
	}
}

func cardTree(t *testing.T, a *object.Arena) (*object.Object, *object.Object) {
	t.Helper()
	card := mustNew(t, a, object.Params{Key: "card", Width: 20, Height: 10, Margin: 1})
	mustEffect(t, card, effect.KindFill, "color", attrs.Map{"color": "red"})
	mustEffect(t, card, effect.KindBorder, "color", attrs.Map{"color": "black"})
	icon := mustNew(t, a, object.Params{Key: "icon", Width: 4, Height: 4, OffsetX: 2, OffsetY: 2})
	mustEffect(t, icon, effect.KindText, "", attrs.Map{"text": "A & B", "justify": "center"})
	if err := card.Insert(icon); err != nil {
		t.Fatal(err)
	}
	return card, icon
}

func render(t *testing.T, b *Backend, root *object.Object) string {
	t.Helper()
	if err := root.Draw(); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	arts := b.Artifacts()
	if len(arts) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(arts))
	}
	doc := string(arts[0].Data)
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		if _, err := dec.Token(); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("document is not well-formed XML: %v\n%s", err, doc)
		}
	}
	return doc
}

func TestDocument(t *testing.T) {
	b, a := newArena(t, nil)
	card, _ := cardTree(t, a)
	doc := render(t, b, card)

	for _, want := range []string{
		`width="20mm"`,
		`height="10mm"`,
		`viewBox="0 0 200 100"`,
		`<title>002-ice_card</title>`,
		`@font-face`,
		`data-key="card" transform="translate(0,0)"`,
		`data-key="icon" transform="translate(30,30)"`,
		`style="fill:#ff0000"`,
		`fill-rule:evenodd`,
		`A &amp; B`,
		`text-anchor:middle`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Index(doc, `data-key="card"`) > strings.Index(doc, `data-key="icon"`) {
		t.Error("child group written before its parent")
	}
}

func TestArtifactsPerFormat(t *testing.T) {
	b, a := newArena(t, nil, FormatSVG, FormatPNG, FormatPDF)
	var calls []string
	b.convert = func(svg []byte, format string, ppi float64) ([]byte, error) {
		calls = append(calls, format)
		if ppi != testPPI {
			t.Errorf("convert ppi = %v, want %v", ppi, testPPI)
		}
		return []byte(format), nil
	}
	card, _ := cardTree(t, a)
	if err := card.Draw(); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, art := range b.Artifacts() {
		names = append(names, art.Name)
	}
	want := []string{"002-ice_card.svg", "002-ice_card.png", "002-ice_card.pdf"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("artifact names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{FormatPNG, FormatPDF}, calls); diff != "" {
		t.Errorf("conversions mismatch (-want +got):\n%s", diff)
	}
}

func TestConversionFailure(t *testing.T) {
	b, a := newArena(t, nil, FormatPDF)
	b.convert = func([]byte, string, float64) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeBackend, "no rsvg-convert")
	}
	card, _ := cardTree(t, a)
	if err := card.Draw(); !errors.Is(err, errors.ErrCodeBackend) {
		t.Errorf("Draw() error = %v, want BACKEND_ERROR", err)
	}
}

func TestGradient(t *testing.T) {
	b, a := newArena(t, nil)
	card := mustNew(t, a, object.Params{Key: "card", Width: 10, Height: 10})
	mustEffect(t, card, effect.KindFill, "gradient", attrs.Map{"start_color": "black", "end_color": "white", "angle": 90})
	doc := render(t, b, card)
	for _, want := range []string{
		`<linearGradient id="gradient1" x1="50%" y1="0%" x2="50%" y2="100%">`,
		`stop-color="#000000"`,
		`stop-color="#ffffff"`,
		`fill:url(#gradient1)`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestPatternAndPicture(t *testing.T) {
	b, a := newArena(t, attrs.Map{backend.AttrPatternFg: "navy"})
	card := mustNew(t, a, object.Params{Key: "card", Width: 10, Height: 10, Margin: 1})
	mustEffect(t, card, effect.KindBorder, "pattern", nil)
	pic := mustNew(t, a, object.Params{Key: "picture", Width: 4, Height: 4})
	mustEffect(t, pic, effect.KindFill, "picture", attrs.Map{"path": ""})
	if err := card.Insert(pic); err != nil {
		t.Fatal(err)
	}
	doc := render(t, b, card)
	for _, want := range []string{
		`<pattern id="pattern1" x="0" y="0" width="40" height="40" patternUnits="userSpaceOnUse"`,
		`fill:#000080`,
		`fill:url(#pattern1);fill-rule:evenodd`,
		`fill:` + placeholder,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestGroupAttributes(t *testing.T) {
	b, a := newArena(t, attrs.Map{"embed_font": false, backend.AttrBackground: "white"})
	card, icon := cardTree(t, a)
	icon.SetOpacity(0.5)
	mustEffect(t, icon, effect.KindRotate, "", attrs.Map{"angle": 90})
	mustEffect(t, icon, effect.KindMask, "", nil)
	doc := render(t, b, card)
	for _, want := range []string{
		`rotate(90,20,20)`,
		`opacity="0.5"`,
		`<rect x="0" y="0" width="200" height="100" style="fill:#ffffff"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
	if strings.Contains(doc, "@font-face") {
		t.Error("font embedded although embed_font is false")
	}
}

func TestNoBorderWithoutMargin(t *testing.T) {
	b, a := newArena(t, nil)
	card := mustNew(t, a, object.Params{Key: "card", Width: 10, Height: 10})
	mustEffect(t, card, effect.KindBorder, "color", nil)
	if doc := render(t, b, card); strings.Contains(doc, "<path") {
		t.Error("border painted on an object without margin")
	}
}

func TestNewRejectsFormats(t *testing.T) {
	_, err := New(nil, backend.Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("New(gif) error = %v, want INVALID_CONFIG", err)
	}
}
