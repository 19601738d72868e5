// Package pipeline runs cardstack jobs.
//
// This package implements the complete load → layout → draw pipeline that
// the CLI commands share, so that rendering, stepping and tree export see
// the same figures.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the job's DSV sources into one record per figure
//  2. Layout: Run every figure's layout scheduler to completion
//  3. Draw: Draw each figure through the job's backend and write the
//     artifacts it produces to the output directory
//
// Figures drawn by a file backend are cached: when the attributes and
// render settings of a figure are unchanged, its artifacts are read back
// from the cache and layout and draw are skipped.
//
// # Usage
//
//	cfg, err := config.Load("job.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, cfg)
//
// Prepare builds the figures without running them:
//
//	job, err := pipeline.Prepare(ctx, cfg, os.Stdout)
//	defer job.Close()
//	_, err = job.Collection.DoFigures(1, 1, false)
package pipeline

import (
	"time"
)

// Result contains the outputs of a pipeline run.
type Result struct {
	// Figures is the number of figures in the job.
	Figures int

	// Outputs lists the files written, in figure order.
	Outputs []Output

	// Stats contains timing information.
	Stats Stats

	// CacheInfo counts cached figures.
	CacheInfo CacheInfo
}

// Output is one written artifact.
type Output struct {
	Figure string
	Path   string
	Format string
	Size   int
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	DrawTime   time.Duration
}

// CacheInfo tracks cache use over a run.
type CacheInfo struct {
	Hits   int // figures whose artifacts came from the cache
	Misses int // cacheable figures that were drawn
}
