package batch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/xaionaro-go/noiseextract/pkg/noiseextractor"
)

type PairResult struct {
	Pair
	Result *noiseextractor.Result
	Err    error
}

// Report is the outcome of a batch run, in processing order.
type Report struct {
	Results []PairResult
}

func (r *Report) Total() int {
	return len(r.Results)
}

func (r *Report) Succeeded() int {
	return r.Total() - r.Failed()
}

func (r *Report) Failed() int {
	var count int
	for _, result := range r.Results {
		if result.Err != nil {
			count++
		}
	}
	return count
}

func (r *Report) FailedNames() []string {
	var names []string
	for _, result := range r.Results {
		if result.Err != nil {
			names = append(names, result.Name)
		}
	}
	return names
}

// ErrorOrNil returns all the per-pair errors combined, or nil if every pair succeeded.
func (r *Report) ErrorOrNil() error {
	var mErr *multierror.Error
	for _, result := range r.Results {
		if result.Err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("%s: %w", result.Name, result.Err))
		}
	}
	return mErr.ErrorOrNil()
}
