package gccphat

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// bins weaker than this fraction of the strongest one are not whitened (-60dB)
	phatThreshold = 0.001
)

// CrossCorrelate calculates the sample shift of 'fcomp' relative to 'fref'.
// Both are FFTs of the zero-padded reference and comparison snippets and
// must have the same length.
//
// Frequencies outside of [minFreq, maxFreq] are ignored; use 0 to disable
// either limit.
//
// Returns (shift, confidence, error). A positive shift means 'comp' leads 'ref'.
func CrossCorrelate(fref, fcomp []complex128, sampleRate float64, minFreq, maxFreq float64) (float64, float64, error) {
	if sampleRate <= 0 {
		return 0, 0, fmt.Errorf("sampleRate must be positive: got %v", sampleRate)
	}
	if len(fref) != len(fcomp) {
		return 0, 0, fmt.Errorf("fref and fcomp must have same length: %d != %d", len(fref), len(fcomp))
	}
	n := len(fref)
	if n == 0 {
		return 0, 0, nil
	}

	// frequency limits as FFT bin indexes
	binMin := 0
	binMax := n / 2
	if minFreq > 0 {
		binMin = int(minFreq * float64(n) / sampleRate)
	}
	if maxFreq > 0 && maxFreq < sampleRate/2 {
		binMax = int(maxFreq * float64(n) / sampleRate)
	}

	// Cross-power spectrum. The Phase Transform (PHAT) whitens it so that
	// only the phase is left, but only for bins with energy above
	// phatThreshold of the strongest bin: whitening near-silent bins
	// amplifies their noise as much as the signal.
	cross := make([]complex128, n)
	maxMag := 0.0
	for i := range cross {
		cross[i] = fcomp[i] * cmplx.Conj(fref[i])
		if mag := cmplx.Abs(cross[i]); mag > maxMag {
			maxMag = mag
		}
	}
	threshold := maxMag * phatThreshold

	activeBins := 0
	for i := range cross {
		idx := i
		if i > n/2 {
			idx = n - i
		}
		mag := cmplx.Abs(cross[i])
		if idx < binMin || idx > binMax || mag <= threshold || mag <= 1e-12 {
			cross[i] = 0
			continue
		}
		cross[i] /= complex(mag, 0)
		activeBins++
	}
	if activeBins == 0 {
		return 0, 0, nil
	}

	// back to the time domain: the cross-correlation per lag
	timeDomain := fft.IFFT(cross)

	// the result is real up to rounding errors, Abs covers both
	maxVal := -1.0
	maxIdx := 0
	for i, v := range timeDomain {
		if val := cmplx.Abs(v); val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}

	// comp(t) = ref(t-shift)
	shift := float64(maxIdx)
	if shift > float64(n/2) {
		shift -= float64(n)
	}

	// parabolic sub-sample interpolation over the peak and its neighbours
	if maxIdx > 0 && maxIdx < n-1 {
		y1 := cmplx.Abs(timeDomain[maxIdx-1])
		y2 := maxVal
		y3 := cmplx.Abs(timeDomain[maxIdx+1])
		denom := y1 - 2*y2 + y3
		if math.Abs(denom) > 1e-12 {
			shift += (y1 - y3) / (2 * denom)
		}
	}

	// Each active bin has magnitude 1 after whitening and IFFT divides by n,
	// so a perfect match peaks at activeBins/n. The confidence is the peak
	// relative to that: 1 for identical phases, approaching 0 for noise.
	confidence := math.Min(maxVal*float64(n)/float64(activeBins), 1)

	return -shift, confidence, nil
}
