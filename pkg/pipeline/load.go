package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/loader"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// Load reads every source of cfg in order and returns their records.
// A source listed twice is read once.
func Load(ctx context.Context, cfg *config.Config) ([]loader.Record, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	delim, _ := cfg.Delim()
	l, err := loader.NewDSV(loader.Options{
		Delimiter:   delim,
		SkipInvalid: cfg.SkipInvalid,
		Logger:      cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	var recs []loader.Record
	for _, src := range cfg.SourcePaths() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks := observability.Pipeline()
		hooks.OnLoadStart(ctx, src)
		start := time.Now()

		got, loaded, err := l.Load(src)
		hooks.OnLoadComplete(ctx, src, len(got), time.Since(start), err)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "load %s", src)
		}
		if loaded {
			cfg.Logger.Info("loaded records", "source", src, "records", len(got))
		}
		recs = append(recs, got...)
	}
	return recs, nil
}
