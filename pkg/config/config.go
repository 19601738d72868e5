// Package config reads cardstack job files.
//
// A job file is TOML. It names the figure size and resolution, the backend
// and its output formats, the record sources, and the draw and layout
// attributes shared by every figure:
//
//	name           = "mysteria"
//	resolution_ppi = 300
//	width_mm       = 63
//	height_mm      = 88
//	backend        = "svg"
//	formats        = ["svg", "pdf"]
//	sources        = ["cards.tsv"]
//	preset         = "cards"
//
//	[draw]
//	background = "white"
//
//	[layout.layout_card]
//	enabled = true
//
//	[cache]
//	kind = "file"
//	ttl  = "24h"
//
// Relative paths are resolved against the directory of the job file.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend/printer"
	"github.com/matzehuels/cardstack/pkg/backend/raster"
	"github.com/matzehuels/cardstack/pkg/backend/svg"
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/figure"
	"github.com/matzehuels/cardstack/pkg/layout/cards"
	"github.com/matzehuels/cardstack/pkg/loader"
	"github.com/matzehuels/cardstack/pkg/object"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultBackend is used when the job names no backend.
	DefaultBackend = raster.Name

	// DefaultOutputDir is relative to the job file.
	DefaultOutputDir = "."

	// DefaultPPI matches object.DefaultPPI.
	DefaultPPI = object.DefaultPPI
)

// Presets.
const (
	PresetNone  = "none"
	PresetCards = "cards"
)

// Cache kinds.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// ValidFormats maps each backend to the output formats it can produce. The
// first format is the default.
var ValidFormats = map[string][]string{
	printer.Name: nil,
	raster.Name:  {raster.FormatPNG},
	svg.Name:     {svg.FormatSVG, svg.FormatPNG, svg.FormatPDF},
}

// ValidPresets is the set of supported layout presets.
var ValidPresets = map[string]bool{
	PresetNone:  true,
	PresetCards: true,
}

// ValidCacheKinds is the set of supported cache kinds.
var ValidCacheKinds = map[string]bool{
	CacheNone:  true,
	CacheFile:  true,
	CacheRedis: true,
}

// =============================================================================
// Config
// =============================================================================

// Config is a job file.
type Config struct {
	Name        string    `toml:"name"`
	PPI         float64   `toml:"resolution_ppi"`
	Width       float64   `toml:"width_mm"`
	Height      float64   `toml:"height_mm"`
	Backend     string    `toml:"backend"`
	Formats     []string  `toml:"formats"`
	OutputDir   string    `toml:"output_dir"`
	Delimiter   string    `toml:"delimiter"`
	Sources     []string  `toml:"sources"`
	SkipInvalid bool      `toml:"skip_invalid"`
	Preset      string    `toml:"preset"`
	Layout      attrs.Map `toml:"layout"`
	Draw        attrs.Map `toml:"draw"`
	Cache       Cache     `toml:"cache"`

	// BaseDir anchors relative paths. Load sets it to the job file's
	// directory.
	BaseDir string `toml:"-"`

	// Logger is handed to every component of the job.
	Logger *log.Logger `toml:"-"`

	validated bool
}

// Cache selects the artifact cache.
type Cache struct {
	Kind     string `toml:"kind"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`

	ttl time.Duration
}

// TTLDuration returns the parsed TTL, cache.TTLArtifact when unset.
func (c Cache) TTLDuration() time.Duration {
	if c.ttl == 0 {
		return cache.TTLArtifact
	}
	return c.ttl
}

// Load reads and validates the job file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "job file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "job file %s", path)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "job file %s", path)
	}
	cfg.BaseDir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes a job without validating it. Unknown top-level or cache
// keys are an error; the draw and layout tables are free-form.
func Parse(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	var unknown []string
	for _, k := range md.Undecoded() {
		if top := k[0]; top == "layout" || top == "draw" {
			continue
		}
		unknown = append(unknown, k.String())
	}
	if len(unknown) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(unknown, ", "))
	}
	return &cfg, nil
}

// ValidateAndSetDefaults checks the job and applies defaults.
// It is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "width_mm and height_mm must be positive, got %vx%v", c.Width, c.Height)
	}
	if c.PPI < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "resolution_ppi must be positive, got %v", c.PPI)
	}
	if c.PPI == 0 {
		c.PPI = DefaultPPI
	}

	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	valid, ok := ValidFormats[c.Backend]
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid backend: %q (must be one of: %s)", c.Backend, strings.Join(Backends(), ", "))
	}
	if len(c.Formats) == 0 && len(valid) > 0 {
		c.Formats = []string{valid[0]}
	}
	for _, f := range c.Formats {
		if !slices.Contains(valid, f) {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid format for %s backend: %q", c.Backend, f)
		}
	}

	if _, err := c.Delim(); err != nil {
		return err
	}
	if c.Preset == "" {
		c.Preset = PresetNone
	}
	if !ValidPresets[c.Preset] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid preset: %q (must be one of: cards, none)", c.Preset)
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if err := c.Cache.validate(); err != nil {
		return err
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	c.validated = true
	return nil
}

func (c *Cache) validate() error {
	if c.Kind == "" {
		c.Kind = CacheFile
	}
	if !ValidCacheKinds[c.Kind] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache kind: %q (must be one of: file, redis, none)", c.Kind)
	}
	if c.Kind == CacheRedis && c.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis cache")
	}
	if c.TTL != "" {
		d, err := time.ParseDuration(c.TTL)
		if err != nil || d <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid cache.ttl: %q", c.TTL)
		}
		c.ttl = d
	}
	return nil
}

// Backends returns the supported backend names, sorted.
func Backends() []string {
	names := make([]string, 0, len(ValidFormats))
	for n := range ValidFormats {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Delim returns the source delimiter, loader.DefaultDelimiter when unset.
func (c *Config) Delim() (rune, error) {
	if c.Delimiter == "" {
		return loader.DefaultDelimiter, nil
	}
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if size != len(c.Delimiter) {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "delimiter must be a single character, got %q", c.Delimiter)
	}
	return r, nil
}

// LayoutAttrs returns the shared layout attributes, merged over the preset.
// The job name names every figure whose record does not.
func (c *Config) LayoutAttrs() attrs.Map {
	base := attrs.Map{}
	if c.Name != "" {
		base[figure.NameAttr] = c.Name
	}
	if c.Preset == PresetCards {
		base = attrs.MergeMaps(base, cards.PresetAttrs())
	}
	return attrs.MergeMaps(base, c.Layout)
}

// DrawAttrs returns the shared draw attributes.
func (c *Config) DrawAttrs() attrs.Map { return c.Draw.Clone() }

// Path resolves p against BaseDir.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// SourcePaths returns the sources resolved against BaseDir.
func (c *Config) SourcePaths() []string {
	out := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		out[i] = c.Path(s)
	}
	return out
}

// OutputPath returns the output directory resolved against BaseDir.
func (c *Config) OutputPath() string { return c.Path(c.OutputDir) }
