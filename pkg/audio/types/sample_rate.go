package types

import (
	"time"
)

type SampleRate uint

// Duration returns how long the given amount of samples (per channel) lasts.
func (r SampleRate) Duration(samples int) time.Duration {
	if r == 0 {
		return 0
	}
	return time.Duration(samples) * time.Second / time.Duration(r)
}

type Channel uint
