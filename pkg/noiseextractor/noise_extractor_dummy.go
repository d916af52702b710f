package noiseextractor

import (
	"context"
	"sync"
)

// Dummy does not touch the filesystem: it records the calls and
// returns ResultValue, or the error returned by ErrorFunc if it is set.
type Dummy struct {
	ResultValue *Result
	ErrorFunc   func(cleanPath string) error

	locker sync.Mutex
	calls  []string
}

var _ NoiseExtractor = (*Dummy)(nil)

func NewDummy(result *Result) *Dummy {
	return &Dummy{
		ResultValue: result,
	}
}

func (e *Dummy) ExtractNoise(
	_ context.Context,
	cleanPath string,
	_ string,
	_ string,
) (*Result, error) {
	e.locker.Lock()
	e.calls = append(e.calls, cleanPath)
	e.locker.Unlock()

	if e.ErrorFunc != nil {
		if err := e.ErrorFunc(cleanPath); err != nil {
			return nil, err
		}
	}
	if e.ResultValue == nil {
		return &Result{}, nil
	}
	result := *e.ResultValue
	return &result, nil
}

// Calls returns the clean paths ExtractNoise was called with, in order.
func (e *Dummy) Calls() []string {
	e.locker.Lock()
	defer e.locker.Unlock()
	return append([]string(nil), e.calls...)
}
