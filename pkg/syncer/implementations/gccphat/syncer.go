// Package gccphat estimates the delay between two recordings using
// Generalized Cross-Correlation with Phase Transform (GCC-PHAT).
//
// The cross-power spectrum of the two signals is whitened (only the
// phase is kept), so the estimate is robust against differences in level
// and against additive noise: exactly the difference between a clean
// and a noisy take of the same utterance.
package gccphat

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/syncer"
)

const (
	// DefaultMaxSamples bounds the analysed prefix of each track,
	// which keeps the FFT size sane for long recordings.
	DefaultMaxSamples = 1 << 17
)

type Syncer struct {
	MinFreq    float64
	MaxFreq    float64
	MaxSamples int
}

var _ syncer.Syncer = (*Syncer)(nil)

// NewSyncer initializes a new one-shot GCC-PHAT syncer.
func NewSyncer() *Syncer {
	return &Syncer{
		// 100Hz to 8000Hz covers the informative part of speech while
		// filtering out low-frequency rumble and high-frequency hiss.
		MinFreq:    100,
		MaxFreq:    8000,
		MaxSamples: DefaultMaxSamples,
	}
}

func (s *Syncer) CalculateShiftBetween(
	ctx context.Context,
	sampleRate audio.SampleRate,
	referenceTrack []float64,
	comparisonTracks ...[]float64,
) ([]syncer.ShiftResult, error) {
	if sampleRate == 0 {
		return nil, fmt.Errorf("sample rate is mandatory")
	}
	refSamples := s.window(referenceTrack)

	results := make([]syncer.ShiftResult, len(comparisonTracks))
	for i, comparisonTrack := range comparisonTracks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		compSamples := s.window(comparisonTrack)
		if len(refSamples) == 0 || len(compSamples) == 0 {
			continue
		}

		// the next power of two of (n1 + n2 - 1) avoids circular convolution artifacts
		n1 := len(refSamples)
		n2 := len(compSamples)
		n := 1
		for n < n1+n2-1 {
			n <<= 1
		}
		logger.Tracef(ctx, "GCC-PHAT over %d and %d samples, FFT size %d", n1, n2, n)

		fref := make([]complex128, n)
		fcomp := make([]complex128, n)
		for j, v := range refSamples {
			fref[j] = complex(v, 0)
		}
		for j, v := range compSamples {
			fcomp[j] = complex(v, 0)
		}

		shift, confidence, err := CrossCorrelate(fft.FFT(fref), fft.FFT(fcomp), float64(sampleRate), s.MinFreq, s.MaxFreq)
		if err != nil {
			return nil, fmt.Errorf("unable to cross-correlate track %d: %w", i, err)
		}
		results[i] = syncer.ShiftResult{
			Shift:      shift,
			Confidence: confidence,
		}
	}
	return results, nil
}

func (s *Syncer) window(samples []float64) []float64 {
	if s.MaxSamples > 0 && len(samples) > s.MaxSamples {
		return samples[:s.MaxSamples]
	}
	return samples
}
