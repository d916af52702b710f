package syncer

import (
	"context"

	"github.com/xaionaro-go/noiseextract/pkg/audio"
)

type ShiftResult struct {
	Shift      float64 // Delay relative to reference in samples (positive means comparison is ahead)
	Confidence float64 // Confidence score (0..1)
}

type Syncer interface {
	// CalculateShiftBetween returns the amount of samples each comparison
	// track needs to be shifted by to get it synced with the reference
	// track, together with a confidence score (0..1) of each estimate.
	CalculateShiftBetween(
		ctx context.Context,
		sampleRate audio.SampleRate,
		referenceTrack []float64,
		comparisonTracks ...[]float64,
	) ([]ShiftResult, error)
}
