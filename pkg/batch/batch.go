// Package batch runs the pipeline over many plant projects in
// parallel. Plants are independent, so the pool needs no coordination
// beyond a job channel and a wait group.
package batch

import (
	"sync"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/runofriver/hydroflow/pkg/pipeline"
	"github.com/runofriver/hydroflow/pkg/plant"
	"github.com/runofriver/hydroflow/pkg/series"
)

// Options configures a batch run.
type Options struct {
	Workers int
	// Reference-table overrides applied to every project.
	ChartPath           string
	EfficiencyTablePath string
	// Progress renders a terminal progress bar.
	Progress bool
}

// Result is the outcome for one project directory. Err is set when the
// project failed; the other fields are only valid when it is nil.
type Result struct {
	Dir    string
	Plant  *plant.Plant
	Output *series.Series
	Err    error
}

// Run processes every project directory and returns one result per
// directory, in input order.
func Run(dirs []string, opts Options) []Result {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(dirs) {
		workers = len(dirs)
	}

	results := make([]Result, len(dirs))
	jobs := make(chan int)

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(len(dirs))
		bar.ShowTimeLeft = false
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(dirs[i], opts)
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	for i := range dirs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if bar != nil {
		bar.Finish()
	}
	return results
}

func runOne(dir string, opts Options) Result {
	pl, err := pipeline.LoadProject(dir)
	if err != nil {
		return Result{Dir: dir, Err: err}
	}
	pl.ChartPath = opts.ChartPath
	pl.EfficiencyTablePath = opts.EfficiencyTablePath

	out, err := pl.Run()
	if err != nil {
		return Result{Dir: dir, Err: err}
	}
	return Result{Dir: dir, Plant: pl.Plant, Output: &out}
}
