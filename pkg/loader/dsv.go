package loader

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// DefaultDelimiter separates values when Options.Delimiter is unset.
const DefaultDelimiter = '\t'

// Header prefixes routing a column to one of the record maps.
const (
	DrawPrefix   = "d_"
	LayoutPrefix = "l_"
)

// reserved holds the characters of flow mapping literals.
const reserved = "{}[],:\"'"

// Record holds the attributes of one figure.
type Record struct {
	Layout attrs.Map
	Draw   attrs.Map
}

// Options configures a DSV loader.
type Options struct {
	// Delimiter separates values. Defaults to DefaultDelimiter.
	Delimiter rune

	// SkipInvalid logs and skips records with malformed mapping literals
	// instead of failing the load.
	SkipInvalid bool

	// Logger receives load events. Defaults to a discarding logger.
	Logger *log.Logger
}

// DSV loads delimiter-separated value sources.
type DSV struct {
	opts Options
	seen map[string]bool
}

// NewDSV returns a loader. It fails when the delimiter collides with the
// punctuation of mapping literals.
func NewDSV(opts Options) (*DSV, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultDelimiter
	}
	if strings.ContainsRune(reserved, opts.Delimiter) || opts.Delimiter == '\n' || opts.Delimiter == '\r' {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "delimiter %q collides with mapping literals", opts.Delimiter)
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &DSV{opts: opts, seen: map[string]bool{}}, nil
}

// Has reports whether src was already loaded.
func (l *DSV) Has(src string) bool {
	return l.seen[sourceID(src)]
}

// Load reads the file src. The boolean is false, with no records, when src
// was loaded before.
func (l *DSV) Load(src string) ([]Record, bool, error) {
	if l.Has(src) {
		l.opts.Logger.Debug("source already loaded", "source", src)
		return nil, false, nil
	}
	f, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", src)
		}
		return nil, false, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", src)
	}
	defer f.Close()
	return l.LoadReader(src, f)
}

// LoadReader reads records from r, identified as src. The boolean is false,
// with no records, when src was loaded before.
func (l *DSV) LoadReader(src string, r io.Reader) ([]Record, bool, error) {
	id := sourceID(src)
	if l.seen[id] {
		l.opts.Logger.Debug("source already loaded", "source", src)
		return nil, false, nil
	}

	cr := csv.NewReader(r)
	cr.Comma = l.opts.Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		l.seen[id] = true
		return nil, true, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "read header of %s", src)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records []Record
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", src)
		}
		rec, err := parseRecord(header, fields)
		if err != nil {
			err = errors.Wrap(errors.GetCode(err), err, "%s row %d", src, row)
			if l.opts.SkipInvalid {
				l.opts.Logger.Warn("skipping invalid record", "source", src, "row", row, "err", errors.UserMessage(err))
				continue
			}
			return nil, false, err
		}
		records = append(records, rec)
	}
	l.seen[id] = true
	l.opts.Logger.Debug("loaded source", "source", src, "records", len(records))
	return records, true, nil
}

func parseRecord(header, fields []string) (Record, error) {
	rec := Record{Layout: attrs.Map{}, Draw: attrs.Map{}}
	for i, name := range header {
		if i >= len(fields) || name == "" {
			continue
		}
		raw := strings.TrimSpace(fields[i])
		if raw == "" {
			continue
		}
		var val any = raw
		if raw[0] == '{' {
			m, err := ParseMapping(raw)
			if err != nil {
				return Record{}, errors.Wrap(errors.GetCode(err), err, "column %q", name)
			}
			val = m
		}
		target, key := route(rec, name)
		if prev, ok := target[key]; ok {
			val = attrs.DeepMerge(prev, val)
		}
		target[key] = val
	}
	return rec, nil
}

// route picks the record map for a header and strips its prefix.
func route(rec Record, name string) (attrs.Map, string) {
	switch {
	case strings.HasPrefix(name, DrawPrefix) && len(name) > len(DrawPrefix):
		return rec.Draw, name[len(DrawPrefix):]
	case strings.HasPrefix(name, LayoutPrefix) && len(name) > len(LayoutPrefix):
		return rec.Layout, name[len(LayoutPrefix):]
	}
	return rec.Layout, name
}

// ParseMapping parses a flow mapping literal such as
// "{enabled: true, label_draw: {effect_text: {text: Fire}}}".
func ParseMapping(s string) (attrs.Map, error) {
	var m map[string]any
	if err := yaml.Unmarshal([]byte(s), &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLiteral, err, "invalid mapping literal %q", s)
	}
	if m == nil {
		return attrs.Map{}, nil
	}
	return attrs.Map(m).Clone(), nil
}

func sourceID(src string) string {
	if abs, err := filepath.Abs(src); err == nil {
		return abs
	}
	return filepath.Clean(src)
}
