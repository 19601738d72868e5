package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

func newDSV(t *testing.T, opts Options) *DSV {
	t.Helper()
	l, err := NewDSV(opts)
	if err != nil {
		t.Fatalf("NewDSV() error: %v", err)
	}
	return l
}

func TestLoadRoutesColumns(t *testing.T) {
	src := strings.Join([]string{
		"name\tl_prestige\td_background\tlayout_card_spell\tl_layout_card_spell",
		"fire\t2\tred\t{enabled: true, label_draw: {effect_text: {text: Fire}}}\t{spell_mana: 3}",
		"ice\t\t\t{enabled: false}\t",
	}, "\n")
	l := newDSV(t, Options{})
	recs, loaded, err := l.LoadReader("cards.tsv", strings.NewReader(src))
	if err != nil || !loaded {
		t.Fatalf("LoadReader() = %v, %v", loaded, err)
	}

	want := []Record{
		{
			Layout: attrs.Map{
				"name":     "fire",
				"prestige": "2",
				"layout_card_spell": attrs.Map{
					"enabled":    true,
					"spell_mana": 3,
					"label_draw": attrs.Map{"effect_text": attrs.Map{"text": "Fire"}},
				},
			},
			Draw: attrs.Map{"background": "red"},
		},
		{
			Layout: attrs.Map{"name": "ice", "layout_card_spell": attrs.Map{"enabled": false}},
			Draw:   attrs.Map{},
		},
	}
	if diff := cmp.Diff(want, recs); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.tsv")
	if err := os.WriteFile(path, []byte("name\nfire\nice\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := newDSV(t, Options{})

	recs, loaded, err := l.Load(path)
	if err != nil || !loaded || len(recs) != 2 {
		t.Fatalf("first Load() = %d records, %v, %v", len(recs), loaded, err)
	}
	if !l.Has(path) {
		t.Error("Has() = false after load")
	}
	recs, loaded, err = l.Load(path)
	if err != nil || loaded || recs != nil {
		t.Errorf("second Load() = %v, %v, %v, want nothing loaded", recs, loaded, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	l := newDSV(t, Options{})
	_, _, err := l.Load(filepath.Join(t.TempDir(), "nope.tsv"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadInvalidLiteral(t *testing.T) {
	src := "name;layout_card_basic\nok;{enabled: true}\nbad;{enabled: [true}\n"

	l := newDSV(t, Options{Delimiter: ';'})
	_, loaded, err := l.LoadReader("a", strings.NewReader(src))
	if !errors.Is(err, errors.ErrCodeInvalidLiteral) || loaded {
		t.Fatalf("LoadReader() = %v, %v, want INVALID_LITERAL", loaded, err)
	}
	if msg := err.Error(); !strings.Contains(msg, "row 3") || !strings.Contains(msg, "layout_card_basic") {
		t.Errorf("error %q lacks row and column", msg)
	}
	if l.Has("a") {
		t.Error("failed source should not count as loaded")
	}

	l = newDSV(t, Options{Delimiter: ';', SkipInvalid: true})
	recs, loaded, err := l.LoadReader("a", strings.NewReader(src))
	if err != nil || !loaded {
		t.Fatalf("LoadReader() with SkipInvalid = %v, %v", loaded, err)
	}
	if len(recs) != 1 || recs[0].Layout["name"] != "ok" {
		t.Errorf("records = %v, want only the valid one", recs)
	}
}

func TestNewDSVRejectsReservedDelimiters(t *testing.T) {
	for _, d := range []rune{',', ':', '{', '}'} {
		if _, err := NewDSV(Options{Delimiter: d}); !errors.Is(err, errors.ErrCodeInvalidConfig) {
			t.Errorf("NewDSV(%q) error = %v, want INVALID_CONFIG", d, err)
		}
	}
	if _, err := NewDSV(Options{Delimiter: '|'}); err != nil {
		t.Errorf("NewDSV('|') error = %v", err)
	}
}

func TestParseMapping(t *testing.T) {
	tests := []struct {
		in      string
		want    attrs.Map
		wantErr bool
	}{
		{"{}", attrs.Map{}, false},
		{"{a: 1, b: x}", attrs.Map{"a": 1, "b": "x"}, false},
		{"{a: {b: 1.5}}", attrs.Map{"a": attrs.Map{"b": 1.5}}, false},
		{"{a: 1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseMapping(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMapping(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseMapping(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
