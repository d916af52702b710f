package noiseextractor

import (
	"context"

	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/syncer"
)

type NoiseExtractor interface {
	// ExtractNoise derives the noise track from a clean and a noisy
	// recording of the same content and writes it to outputPath.
	// Nothing is written if an error is returned before encoding starts.
	ExtractNoise(
		ctx context.Context,
		cleanPath string,
		noisyPath string,
		outputPath string,
	) (*Result, error)
}

type Result struct {
	Samples    int
	SampleRate audio.SampleRate

	// Peak is the maximal absolute sample of the noise before normalization.
	Peak float64

	CleanBytesRead uint64
	NoisyBytesRead uint64

	// Alignment is set only if the alignment check is enabled and succeeded.
	Alignment *syncer.ShiftResult
}
