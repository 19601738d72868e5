package cache

import (
	"context"
	"time"
)

var _ Cache = NullCache{}

// NullCache stores nothing: every Get misses. Jobs with cache kind "none"
// and the CLI's --no-cache flag run against it.
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Clear(context.Context) (int, error)                       { return 0, nil }
func (NullCache) Close() error                                             { return nil }
