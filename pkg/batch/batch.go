// Package batch runs a noise extractor over every file pair shared by a
// clean and a noisy directory.
package batch

import (
	"context"
	"fmt"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/noiseextract/pkg/noiseextractor"
	"github.com/xaionaro-go/noiseextract/pkg/progress"
)

const (
	DefaultExtension = ".wav"
)

type Driver struct {
	NoiseExtractor noiseextractor.NoiseExtractor
	Extension      string
	Progress       progress.Progress
}

func NewDriver(
	noiseExtractor noiseextractor.NoiseExtractor,
	progressReporter progress.Progress,
) *Driver {
	if progressReporter == nil {
		progressReporter = progress.Dummy{}
	}
	return &Driver{
		NoiseExtractor: noiseExtractor,
		Extension:      DefaultExtension,
		Progress:       progressReporter,
	}
}

// Run extracts the noise of every pair into outputDir (created if needed).
//
// Only failures to prepare the batch are returned as an error, failures
// of individual pairs are collected in the Report and do not stop the run.
func (d *Driver) Run(
	ctx context.Context,
	cleanDir string,
	noisyDir string,
	outputDir string,
) (_ret *Report, _err error) {
	logger.Tracef(ctx, "Run(%s, %s, %s)", cleanDir, noisyDir, outputDir)
	defer func() { logger.Tracef(ctx, "/Run(%s, %s, %s): %v", cleanDir, noisyDir, outputDir, _err) }()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create the output directory '%s': %w", outputDir, err)
	}

	cleanFiles, err := ListAudioFiles(cleanDir, d.Extension)
	if err != nil {
		return nil, fmt.Errorf("unable to list the clean recordings: %w", err)
	}
	noisyFiles, err := ListAudioFiles(noisyDir, d.Extension)
	if err != nil {
		return nil, fmt.Errorf("unable to list the noisy recordings: %w", err)
	}
	logger.Debugf(ctx, "found %d clean and %d noisy recordings", len(cleanFiles), len(noisyFiles))

	report := &Report{}
	pairs := MatchPairs(cleanFiles, noisyFiles, outputDir)
	if len(pairs) == 0 {
		logger.Infof(ctx, "no matching files found between clean and noisy folders")
		return report, nil
	}

	d.Progress.Begin(ctx, len(pairs))
	defer d.Progress.End(ctx)

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		pairCtx := logger.CtxWithLogger(ctx, logger.FromCtx(ctx).WithField("pair", pair.Name))
		result, err := d.extract(pairCtx, pair)
		if err != nil {
			logger.Errorf(pairCtx, "failed on %s: %v", pair.Name, err)
		}
		report.Results = append(report.Results, PairResult{
			Pair:   pair,
			Result: result,
			Err:    err,
		})
		d.Progress.Step(ctx, pair.Name, err)
	}

	return report, nil
}

func (d *Driver) extract(
	ctx context.Context,
	pair Pair,
) (_ret *noiseextractor.Result, _err error) {
	defer func() {
		if r := recover(); r != nil {
			_err = fmt.Errorf("got panic: %v", r)
		}
	}()
	return d.NoiseExtractor.ExtractNoise(ctx, pair.CleanPath, pair.NoisyPath, pair.OutputPath)
}
