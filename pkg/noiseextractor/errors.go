package noiseextractor

import (
	"fmt"

	"github.com/xaionaro-go/noiseextract/pkg/audio"
)

type ErrMismatchedSampleRate struct {
	CleanPath       string
	NoisyPath       string
	CleanSampleRate audio.SampleRate
	NoisySampleRate audio.SampleRate
}

func (e *ErrMismatchedSampleRate) Error() string {
	return fmt.Sprintf(
		"sample rates do not match for '%s' (%d Hz) and '%s' (%d Hz)",
		e.CleanPath, e.CleanSampleRate, e.NoisyPath, e.NoisySampleRate,
	)
}
