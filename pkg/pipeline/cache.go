package pipeline

import (
	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/errors"
)

// OpenCache returns the artifact cache a job selects. An unset file cache
// directory selects cache.DefaultDir.
func OpenCache(cfg *config.Config) (cache.Cache, error) {
	c := cfg.Cache
	switch c.Kind {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(cache.RedisOptions{URL: c.RedisURL})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "redis cache")
		}
		return rc, nil
	case config.CacheFile, "":
		dir := cfg.Path(c.Dir)
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "cache directory")
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "file cache")
		}
		return fc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid cache kind: %q", c.Kind)
}
