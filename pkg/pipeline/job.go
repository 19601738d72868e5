package pipeline

import (
	"context"
	"io"

	"github.com/matzehuels/cardstack/pkg/attrs"
	"github.com/matzehuels/cardstack/pkg/backend"
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/figure"
	"github.com/matzehuels/cardstack/pkg/loader"
	"github.com/matzehuels/cardstack/pkg/object"
)

// Job is a loaded job: a figure per record, ready to run.
type Job struct {
	Config     *config.Config
	Records    []loader.Record
	Collection *figure.Collection

	draw   attrs.Map
	layout attrs.Map
}

// Prepare loads cfg's sources and adds a figure per record. out receives
// the output of the print backend.
func Prepare(ctx context.Context, cfg *config.Config, out io.Writer) (*Job, error) {
	recs, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewJob(cfg, recs, out)
}

// NewJob adds a figure per record to a new collection configured by cfg.
func NewJob(cfg *config.Config, recs []loader.Record, out io.Writer) (*Job, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	j := &Job{
		Config:  cfg,
		Records: recs,
		draw:    cfg.DrawAttrs(),
		layout:  cfg.LayoutAttrs(),
	}
	bopts := backend.Options{Logger: cfg.Logger, Out: out, Formats: cfg.Formats}
	j.Collection = figure.NewCollection(figure.CollectionOptions{
		PPI:    cfg.PPI,
		Width:  cfg.Width,
		Height: cfg.Height,
		Draw:   j.draw,
		Layout: j.layout,
		NewBackend: func(draw attrs.Map) (object.Backend, error) {
			return backend.New(cfg.Backend, draw, bopts)
		},
		Logger: cfg.Logger,
	})
	for _, r := range recs {
		j.Collection.AddFigureAttrs(r.Draw, r.Layout)
	}
	if err := j.Collection.AddAllFigures(); err != nil {
		_ = j.Collection.Close()
		return nil, err
	}
	return j, nil
}

// Figure returns the i-th figure, 0-based.
func (j *Job) Figure(i int) (*figure.Figure, error) {
	figs := j.Collection.Figures()
	if i < 0 || i >= len(figs) {
		return nil, errors.New(errors.ErrCodeNotFound, "figure %d not found (job has %d)", i+1, len(figs))
	}
	return figs[i], nil
}

// AttrsHash hashes the attributes figure i was built from.
func (j *Job) AttrsHash(i int) (string, error) {
	var rec loader.Record
	if i < len(j.Records) {
		rec = j.Records[i]
	}
	return cache.HashValue(map[string]any{
		"index":  i,
		"draw":   attrs.MergeMaps(j.draw, rec.Draw),
		"layout": attrs.MergeMaps(j.layout, rec.Layout),
	})
}

// Close releases every figure.
func (j *Job) Close() error { return j.Collection.Close() }
