// Package subtraction approximates the additive noise of a recording by
// subtracting the clean take from the noisy one, sample by sample.
package subtraction

import (
	"context"
	"fmt"
	"math"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/audio/wavfile"
	"github.com/xaionaro-go/noiseextract/pkg/noiseextractor"
	"github.com/xaionaro-go/noiseextract/pkg/syncer"
)

type Config struct {
	OutputFormat audio.PCMFormat

	// AlignmentTolerance is the offset (in samples) tolerated before
	// a pair is reported as misaligned.
	AlignmentTolerance float64

	// AlignmentMinConfidence is the minimal confidence of an offset
	// estimate to be reported.
	AlignmentMinConfidence float64
}

func DefaultConfig() Config {
	return Config{
		OutputFormat:           audio.PCMFormatS16LE,
		AlignmentTolerance:     1,
		AlignmentMinConfidence: 0.3,
	}
}

type Extractor struct {
	Config

	// AlignmentChecker is optional; if set, misaligned pairs are reported
	// (but never corrected).
	AlignmentChecker syncer.Syncer
}

var _ noiseextractor.NoiseExtractor = (*Extractor)(nil)

func NewExtractor(
	cfg Config,
	alignmentChecker syncer.Syncer,
) *Extractor {
	return &Extractor{
		Config:           cfg,
		AlignmentChecker: alignmentChecker,
	}
}

func (e *Extractor) ExtractNoise(
	ctx context.Context,
	cleanPath string,
	noisyPath string,
	outputPath string,
) (_ret *noiseextractor.Result, _err error) {
	logger.Tracef(ctx, "ExtractNoise(%s, %s, %s)", cleanPath, noisyPath, outputPath)
	defer func() { logger.Tracef(ctx, "/ExtractNoise(%s, %s, %s): %v", cleanPath, noisyPath, outputPath, _err) }()

	clean, err := wavfile.Load(ctx, cleanPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load the clean recording: %w", err)
	}
	noisy, err := wavfile.Load(ctx, noisyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load the noisy recording: %w", err)
	}

	if clean.SampleRate != noisy.SampleRate {
		return nil, &noiseextractor.ErrMismatchedSampleRate{
			CleanPath:       cleanPath,
			NoisyPath:       noisyPath,
			CleanSampleRate: clean.SampleRate,
			NoisySampleRate: noisy.SampleRate,
		}
	}
	if clean.Len() != noisy.Len() {
		logger.Debugf(ctx, "lengths differ (%d vs %d samples), truncating to the shorter one", clean.Len(), noisy.Len())
	}

	result := &noiseextractor.Result{
		SampleRate:     clean.SampleRate,
		CleanBytesRead: clean.BytesRead,
		NoisyBytesRead: noisy.BytesRead,
	}

	if e.AlignmentChecker != nil {
		result.Alignment = e.checkAlignment(ctx, clean.Signal, noisy.Signal)
	}

	noise, err := Subtract(clean.Signal, noisy.Signal)
	if err != nil {
		return nil, err
	}

	normalized, peak := NormalizePeak(noise.Samples)
	result.Samples = len(normalized)
	result.Peak = peak
	logger.Debugf(ctx, "noise peak before normalization: %f", peak)

	if err := wavfile.Save(ctx, outputPath, audio.NewSignal(noise.SampleRate, normalized), e.OutputFormat); err != nil {
		return nil, fmt.Errorf("unable to write the noise: %w", err)
	}
	return result, nil
}

func (e *Extractor) checkAlignment(
	ctx context.Context,
	clean *audio.Signal,
	noisy *audio.Signal,
) *syncer.ShiftResult {
	results, err := e.AlignmentChecker.CalculateShiftBetween(ctx, clean.SampleRate, clean.Samples, noisy.Samples)
	if err != nil {
		logger.Warnf(ctx, "unable to check the alignment: %v", err)
		return nil
	}
	if len(results) != 1 {
		logger.Warnf(ctx, "unexpected amount of alignment results: %d", len(results))
		return nil
	}
	r := results[0]
	logger.Debugf(ctx, "alignment: shift %.2f samples, confidence %.2f", r.Shift, r.Confidence)
	if r.Confidence >= e.AlignmentMinConfidence && math.Abs(r.Shift) > e.AlignmentTolerance {
		logger.Warnf(ctx,
			"the recordings look misaligned by %.1f samples (%v, confidence %.2f); the extracted noise is likely not meaningful",
			r.Shift, clean.SampleRate.Duration(int(math.Round(math.Abs(r.Shift)))), r.Confidence,
		)
	}
	return &r
}
