package subtraction

import (
	dspsignal "github.com/cwbudde/algo-dsp/dsp/signal"
	dsptime "github.com/cwbudde/algo-dsp/stats/time"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/noiseextractor"
)

// Subtract returns noisy minus clean over the length of the shorter of the two.
// Trailing samples of the longer signal are dropped, no offset is compensated.
func Subtract(clean, noisy *audio.Signal) (*audio.Signal, error) {
	if clean.SampleRate != noisy.SampleRate {
		return nil, &noiseextractor.ErrMismatchedSampleRate{
			CleanSampleRate: clean.SampleRate,
			NoisySampleRate: noisy.SampleRate,
		}
	}

	n := min(clean.Len(), noisy.Len())
	clean, noisy = clean.Truncate(n), noisy.Truncate(n)
	noise := make([]float64, n)
	for i := range noise {
		noise[i] = noisy.Samples[i] - clean.Samples[i]
	}
	return audio.NewSignal(clean.SampleRate, noise), nil
}

// NormalizePeak scales the samples so that the maximal absolute value is 1.
// A silent (or empty) input is returned as is. The second returned value
// is the peak before scaling.
func NormalizePeak(samples []float64) ([]float64, float64) {
	peak := dsptime.Peak(samples)
	if peak == 0 {
		return samples, 0
	}
	normalized, err := dspsignal.Normalize(samples, 1)
	if err != nil {
		// the input is not empty and the target is positive, so this never happens
		panic(err)
	}
	return normalized, peak
}
