package audio

import (
	"time"
)

// Signal is a decoded mono track: samples are in range [-1, 1].
type Signal struct {
	Samples    []float64
	SampleRate SampleRate
}

func NewSignal(sampleRate SampleRate, samples []float64) *Signal {
	return &Signal{
		Samples:    samples,
		SampleRate: sampleRate,
	}
}

func (s *Signal) Len() int {
	return len(s.Samples)
}

func (s *Signal) Duration() time.Duration {
	return s.SampleRate.Duration(len(s.Samples))
}

// Truncate returns a signal sharing the first n samples of s.
// If s is already not longer than n, it is returned as is.
func (s *Signal) Truncate(n int) *Signal {
	if n >= len(s.Samples) {
		return s
	}
	return NewSignal(s.SampleRate, s.Samples[:n])
}
