package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/buildinfo"
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/figure"
	"github.com/matzehuels/cardstack/pkg/observability"
)

const keyTypeFigure = "figure"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Out receives the output of the print backend. Nil selects os.Stdout.
	Out io.Writer

	// Refresh redraws every figure, replacing cached artifacts.
	Refresh bool
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → draw pipeline of cfg and
// writes the artifacts to cfg's output directory. Cancellation is checked
// between figures.
func (r *Runner) Execute(ctx context.Context, cfg *config.Config) (*Result, error) {
	r.applyLogger(cfg)
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "invalid job")
	}
	result := &Result{}

	loadStart := time.Now()
	recs, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.Stats.Records = len(recs)
	result.Stats.LoadTime = time.Since(loadStart)

	job, err := NewJob(cfg, recs, r.Out)
	if err != nil {
		return nil, err
	}
	defer job.Close()
	result.Figures = job.Collection.Len()

	for i, f := range job.Collection.Figures() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		arts, err := r.figureArtifacts(ctx, job, i, f, result)
		if err != nil {
			return result, err
		}
		outs, err := write(cfg.OutputPath(), f, arts)
		if err != nil {
			return result, err
		}
		result.Outputs = append(result.Outputs, outs...)
	}

	r.Logger.Info("rendered figures",
		"figures", result.Figures,
		"files", len(result.Outputs),
		"cached", result.CacheInfo.Hits,
		"layout", result.Stats.LayoutTime,
		"draw", result.Stats.DrawTime)
	return result, nil
}

// figureArtifacts returns the artifacts of figure i, from the cache when
// possible. Backends that produce no files are always run.
func (r *Runner) figureArtifacts(ctx context.Context, job *Job, i int, f *figure.Figure, result *Result) ([]backend.Artifact, error) {
	producer, cacheable := f.Arena().Backend().(backend.Producer)

	var key string
	if cacheable {
		hash, err := job.AttrsHash(i)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash figure %s", f.Label())
		}
		key = r.Keyer.FigureKey(hash, keyOpts(job.Config))
		if !r.Refresh {
			if arts, ok := r.cached(ctx, key); ok {
				result.CacheInfo.Hits++
				f.Logger().Debug("cache hit", "key", key)
				return arts, nil
			}
		}
		result.CacheInfo.Misses++
	}

	if err := r.run(ctx, job.Config, f, &result.Stats); err != nil {
		return nil, err
	}
	if !cacheable {
		return nil, nil
	}

	arts := producer.Artifacts()
	r.store(ctx, key, f.Label(), job.Config.Cache.TTLDuration(), arts)
	return arts, nil
}

// encodeArtifacts serializes an artifact bundle for the cache.
var encodeArtifacts = func(arts []backend.Artifact) ([]byte, error) { return json.Marshal(arts) }

// store caches arts under key. Failures are logged; the figure's outputs
// are still written.
func (r *Runner) store(ctx context.Context, key, figure string, ttl time.Duration, arts []backend.Artifact) {
	data, err := encodeArtifacts(arts)
	if err != nil {
		r.Logger.Warn("cache encode failed", "figure", figure, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "figure", figure, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeFigure, len(data))
}

// run lays out and draws f.
func (r *Runner) run(ctx context.Context, cfg *config.Config, f *figure.Figure, stats *Stats) error {
	hooks := observability.Pipeline()

	hooks.OnLayoutStart(ctx, f.Label())
	start := time.Now()
	ran, err := f.RunLayout(0, 0)
	elapsed := time.Since(start)
	stats.LayoutTime += elapsed
	hooks.OnLayoutComplete(ctx, f.Label(), ran, elapsed, err)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "layout figure %s", f.Label())
	}

	hooks.OnDrawStart(ctx, f.Label(), cfg.Backend)
	start = time.Now()
	err = f.RunDraw(true)
	elapsed = time.Since(start)
	stats.DrawTime += elapsed
	hooks.OnDrawComplete(ctx, f.Label(), cfg.Backend, elapsed, err)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "draw figure %s", f.Label())
	}
	return nil
}

// cached reads the artifacts stored under key. Read failures count as
// misses.
func (r *Runner) cached(ctx context.Context, key string) ([]backend.Artifact, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeFigure)
		return nil, false
	}
	var arts []backend.Artifact
	if err := json.Unmarshal(data, &arts); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeFigure)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeFigure)
	return arts, true
}

// write stores arts in dir.
func write(dir string, f *figure.Figure, arts []backend.Artifact) ([]Output, error) {
	if len(arts) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}
	outs := make([]Output, 0, len(arts))
	for _, a := range arts {
		// Names derive from record data; keep them inside dir.
		if err := errors.ValidatePath(a.Name); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "artifact of figure %s", f.Label())
		}
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		outs = append(outs, Output{Figure: f.Label(), Path: path, Format: a.Format, Size: len(a.Data)})
	}
	return outs, nil
}

func keyOpts(cfg *config.Config) cache.FigureKeyOpts {
	return cache.FigureKeyOpts{
		Backend: cfg.Backend,
		Formats: cfg.Formats,
		PPI:     cfg.PPI,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Version: buildinfo.Version,
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on cfg if not already set.
func (r *Runner) applyLogger(cfg *config.Config) {
	if cfg.Logger == nil {
		cfg.Logger = r.Logger
	}
}
