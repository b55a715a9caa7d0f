// Package batch renders many funding documents concurrently. Each input
// is an independent render; the first failure cancels the rest.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/thermometer/internal/funding"
	"github.com/seenimoa/thermometer/internal/layout"
	"github.com/seenimoa/thermometer/internal/logging"
	"github.com/seenimoa/thermometer/internal/render"
)

// Job is one input file and the path its image is written to.
type Job struct {
	Input  string
	Output string
}

// Result summarises a finished job.
type Result struct {
	Job
	Label   string
	Total   int64
	Goal    int64
	Percent int
}

// Plan maps every input to <outDir>/<basename>.<format>. Two inputs that
// would write the same output are rejected.
func Plan(inputs []string, outDir string, format render.Format) ([]Job, error) {
	seen := make(map[string]string, len(inputs))
	jobs := make([]Job, 0, len(inputs))
	for _, in := range inputs {
		base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		out := filepath.Join(outDir, base+"."+string(format))
		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("%s and %s both render to %s", prev, in, out)
		}
		seen[out] = in
		jobs = append(jobs, Job{Input: in, Output: out})
	}
	return jobs, nil
}

// Runner renders jobs with a shared style.
type Runner struct {
	Style       layout.Style
	Format      render.Format
	Concurrency int // <= 0 means one job at a time
	Logger      *slog.Logger
}

// Run renders every job, at most Concurrency at once. Results keep the
// order of jobs.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := r.Style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}
	log := logging.OrNop(r.Logger)
	limit := r.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := funding.LoadFile(job.Input)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Input, err)
			}
			l, err := render.RenderFile(job.Output, r.Style, data, r.Format)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Input, err)
			}
			results[i] = Result{Job: job, Label: l.Label, Total: l.Total, Goal: l.Goal, Percent: l.Percent}
			log.Info("rendered", "input", job.Input, "output", job.Output, "percent", l.Percent)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
