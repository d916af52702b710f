package wavfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/audio/pcm"
)

// Save writes the signal as a mono WAV file, creating or overwriting it.
// If encoding fails the incomplete file is removed.
func Save(
	ctx context.Context,
	filePath string,
	signal *audio.Signal,
	pcmFormat audio.PCMFormat,
) (_err error) {
	logger.Tracef(ctx, "Save(%s)", filePath)
	defer func() { logger.Tracef(ctx, "/Save(%s): %v", filePath, _err) }()

	if pcmFormat.Size() == 0 || pcmFormat.IsFloat() {
		return fmt.Errorf("%w: output PCM format %v", ErrUnsupportedFormat, pcmFormat)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", filePath, err)
	}

	err = Encode(f, signal, pcmFormat)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("unable to close '%s': %w", filePath, closeErr)
	}
	if err != nil {
		if rmErr := os.Remove(filePath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			logger.Warnf(ctx, "unable to remove the incomplete file '%s': %v", filePath, rmErr)
		}
		return err
	}
	return nil
}

// Encode writes the signal as a mono WAV stream.
func Encode(
	w io.WriteSeeker,
	signal *audio.Signal,
	pcmFormat audio.PCMFormat,
) error {
	samples, err := pcm.Quantize(pcmFormat, signal.Samples)
	if err != nil {
		return fmt.Errorf("unable to quantize the samples: %w", err)
	}
	sampleRate := signal.SampleRate
	if sampleRate == 0 {
		return fmt.Errorf("sample rate is mandatory")
	}
	bitDepth := int(pcmFormat.BitDepth())
	encoder := wav.NewEncoder(w, int(sampleRate), bitDepth, 1, formatTagPCM)
	err = encoder.Write(&goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 1,
			SampleRate:  int(sampleRate),
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return fmt.Errorf("unable to write to the WAV encoder: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("unable to finalize the WAV stream: %w", err)
	}
	return nil
}
