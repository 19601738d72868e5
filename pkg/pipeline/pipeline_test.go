package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/observability"
)

const records = "name\td_background\nalpha\twhite\nbeta\tblack\n"

// writeJob writes a job file and its records into a new directory and
// returns the parsed job.
func writeJob(t *testing.T, extra string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cards.tsv"), []byte(records), 0o644); err != nil {
		t.Fatal(err)
	}
	job := `
resolution_ppi = 25.4
width_mm       = 8
height_mm      = 6
sources        = ["cards.tsv"]
output_dir     = "out"

[layout.layout_front]
` + extra
	path := filepath.Join(dir, "job.toml")
	if err := os.WriteFile(path, []byte(job), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func newFileCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func outputNames(res *Result) []string {
	var names []string
	for _, o := range res.Outputs {
		names = append(names, filepath.Base(o.Path))
	}
	return names
}

func TestExecute(t *testing.T) {
	cfg := writeJob(t, "")
	r := NewRunner(newFileCache(t), nil, nil)

	res, err := r.Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Figures != 2 || res.Stats.Records != 2 {
		t.Errorf("Figures = %d, Records = %d, want 2, 2", res.Figures, res.Stats.Records)
	}
	want := []string{"001-alpha_front.png", "002-beta_front.png"}
	if diff := cmp.Diff(want, outputNames(res)); diff != "" {
		t.Errorf("outputs mismatch (-want +got):\n%s", diff)
	}
	for _, o := range res.Outputs {
		data, err := os.ReadFile(o.Path)
		if err != nil {
			t.Fatalf("read %s: %v", o.Path, err)
		}
		if len(data) != o.Size || !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("%s is not the reported PNG", o.Path)
		}
		if o.Format != "png" {
			t.Errorf("%s format = %q, want png", o.Path, o.Format)
		}
	}
	if res.CacheInfo.Hits != 0 || res.CacheInfo.Misses != 2 {
		t.Errorf("CacheInfo = %+v, want 2 misses", res.CacheInfo)
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c := newFileCache(t)
	r := NewRunner(c, nil, nil)
	if _, err := r.Execute(context.Background(), writeJob(t, "")); err != nil {
		t.Fatal(err)
	}

	// A second job with identical attributes in a fresh directory.
	cfg := writeJob(t, "")
	res, err := r.Execute(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hits != 2 || res.CacheInfo.Misses != 0 {
		t.Errorf("CacheInfo = %+v, want 2 hits", res.CacheInfo)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputPath(), "002-beta_front.png")); err != nil {
		t.Errorf("cached artifact not written: %v", err)
	}

	r.Refresh = true
	res, err = r.Execute(context.Background(), writeJob(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hits != 0 {
		t.Errorf("Refresh: CacheInfo = %+v, want no hits", res.CacheInfo)
	}
}

func TestExecuteCacheEncodeFailure(t *testing.T) {
	orig := encodeArtifacts
	encodeArtifacts = func([]backend.Artifact) ([]byte, error) {
		return nil, errors.New(errors.ErrCodeInternal, "unencodable")
	}
	t.Cleanup(func() { encodeArtifacts = orig })

	var logs bytes.Buffer
	c := newFileCache(t)
	r := NewRunner(c, nil, log.New(&logs))
	cfg := writeJob(t, "")
	if _, err := r.Execute(context.Background(), cfg); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputPath(), "001-alpha_front.png")); err != nil {
		t.Errorf("artifact not written: %v", err)
	}
	if got := strings.Count(logs.String(), "cache encode failed"); got != 2 {
		t.Errorf("logged %d encode failures, want 2:\n%s", got, logs.String())
	}

	res, err := r.Execute(context.Background(), writeJob(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hits != 0 {
		t.Errorf("CacheInfo = %+v, want no hits", res.CacheInfo)
	}
}

func TestExecuteCacheKeyFollowsAttributes(t *testing.T) {
	c := newFileCache(t)
	r := NewRunner(c, nil, nil)
	if _, err := r.Execute(context.Background(), writeJob(t, "")); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(context.Background(), writeJob(t, "priority = 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.Hits != 0 {
		t.Errorf("changed layout attributes hit the cache: %+v", res.CacheInfo)
	}
}

func TestExecutePrintBackend(t *testing.T) {
	cfg := writeJob(t, "")
	cfg.Backend = "print"
	var out bytes.Buffer
	r := NewRunner(newFileCache(t), nil, nil)
	r.Out = &out

	res, err := r.Execute(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Outputs) != 0 || res.CacheInfo != (CacheInfo{}) {
		t.Errorf("print backend wrote %v, cache %+v", res.Outputs, res.CacheInfo)
	}
	if got := strings.Count(out.String(), "['front' root figure object's draw]"); got != 2 {
		t.Errorf("printed %d front roots, want 2:\n%s", got, out.String())
	}
}

func TestExecuteInvalidJob(t *testing.T) {
	cfg := writeJob(t, "")
	cfg.Backend = "plotter"
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), cfg)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() = %v, want INVALID_CONFIG", err)
	}
}

func TestExecuteRejectsEscapingNames(t *testing.T) {
	cfg := writeJob(t, "")
	src := filepath.Join(cfg.BaseDir, "cards.tsv")
	if err := os.WriteFile(src, []byte("name\n../escape\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), cfg)
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Execute() = %v, want INVALID_PATH", err)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, writeJob(t, ""))
	if err != context.Canceled {
		t.Errorf("Execute() = %v, want context.Canceled", err)
	}
}

func TestLoadReadsSourcesOnce(t *testing.T) {
	cfg := writeJob(t, "")
	cfg.Sources = append(cfg.Sources, cfg.Sources[0])
	recs, err := Load(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("Load() = %d records, want 2", len(recs))
	}
}

func TestLoadMissingSource(t *testing.T) {
	cfg := writeJob(t, "")
	cfg.Sources = []string{"missing.tsv"}
	if _, err := Load(context.Background(), cfg); err == nil {
		t.Error("Load() of a missing source should fail")
	}
}

func TestJob(t *testing.T) {
	cfg := writeJob(t, "")
	job, err := Prepare(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer job.Close()

	f, err := job.Figure(1)
	if err != nil {
		t.Fatal(err)
	}
	if f.Name() != "beta" {
		t.Errorf("Figure(1).Name() = %q, want beta", f.Name())
	}
	if _, err := job.Figure(2); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Figure(2) = %v, want NOT_FOUND", err)
	}

	h0, err := job.AttrsHash(0)
	if err != nil {
		t.Fatal(err)
	}
	h1, _ := job.AttrsHash(1)
	if h0 == h1 {
		t.Error("figures with different records share an attribute hash")
	}
	if again, _ := job.AttrsHash(0); again != h0 {
		t.Error("AttrsHash is not stable")
	}
}

func TestOpenCache(t *testing.T) {
	cfg := writeJob(t, "[cache]\nkind = \"none\"\n")
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err := OpenCache(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want *cache.NullCache", c)
	}

	cfg = writeJob(t, "[cache]\ndir = \"cache\"\n")
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	c, err = OpenCache(cfg)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache(file) = %T, want *cache.FileCache", c)
	}
	if want := filepath.Join(cfg.BaseDir, "cache"); fc.Dir() != want {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), want)
	}
}

type recorder struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnLoadStart(context.Context, string) { r.add("load") }
func (r *recorder) OnLayoutComplete(_ context.Context, _ string, ran bool, _ time.Duration, _ error) {
	if ran {
		r.add("layout")
	}
}
func (r *recorder) OnDrawStart(_ context.Context, _, backend string) { r.add("draw " + backend) }
func (r *recorder) OnCacheHit(context.Context, string)               { r.add("hit") }
func (r *recorder) OnCacheMiss(context.Context, string)              { r.add("miss") }
func (r *recorder) OnCacheSet(context.Context, string, int)          { r.add("set") }

func TestExecuteHooks(t *testing.T) {
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	r := NewRunner(newFileCache(t), nil, nil)
	if _, err := r.Execute(context.Background(), writeJob(t, "")); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"load",
		"miss", "layout", "draw raster", "set",
		"miss", "layout", "draw raster", "set",
	}
	if diff := cmp.Diff(want, rec.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
