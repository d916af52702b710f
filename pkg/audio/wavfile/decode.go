package wavfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-audio/wav"
	"github.com/xaionaro-go/datacounter"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
	"github.com/xaionaro-go/noiseextract/pkg/audio/pcm"
)

// Load reads and decodes the WAV file at the given path, at its native sample rate.
func Load(
	ctx context.Context,
	filePath string,
) (_ret *File, _err error) {
	logger.Tracef(ctx, "Load(%s)", filePath)
	defer func() { logger.Tracef(ctx, "/Load(%s): %v", filePath, _err) }()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open '%s': %w", filePath, err)
	}
	defer f.Close()

	rc := datacounter.NewReaderCounter(f)
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("unable to read '%s': %w", filePath, err)
	}

	result, err := Decode(ctx, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode '%s': %w", filePath, err)
	}
	result.BytesRead = rc.Count()
	logger.Debugf(ctx, "loaded '%s': %d bytes, %d channels, %v, %d Hz, %d samples (%v)",
		filePath, result.BytesRead, result.Channels, result.PCMFormat, result.SampleRate, result.Len(), result.Duration())
	return result, nil
}

// Decode decodes a WAV stream, downmixing all channels to mono.
// Integer PCM and IEEE float samples are supported, either with
// a plain or a WAVE_FORMAT_EXTENSIBLE header.
func Decode(
	ctx context.Context,
	r io.ReadSeeker,
) (*File, error) {
	format, err := readFormatChunk(r)
	if err != nil {
		return nil, err
	}
	switch format.FormatTag {
	case formatTagPCM, formatTagFloat:
	default:
		return nil, fmt.Errorf("%w: format tag 0x%04X", ErrUnsupportedFormat, format.FormatTag)
	}
	pcmFormat, err := audio.PCMFormatFromBitDepth(uint(format.BitDepth), format.IsFloat())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	logger.Tracef(ctx, "WAV format: tag 0x%04X, %v", format.FormatTag, pcmFormat)

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("unable to rewind: %w", err)
	}
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}
	channels := audio.Channel(decoder.NumChans)
	if channels == 0 {
		return nil, ErrInvalidFile
	}

	var samples []float64
	if pcmFormat.IsFloat() {
		samples, err = decodeFloat(ctx, decoder, pcmFormat, channels)
	} else {
		samples, err = decodeInt(ctx, decoder, pcmFormat, channels)
	}
	if err != nil {
		return nil, err
	}

	return &File{
		Signal:    audio.NewSignal(audio.SampleRate(decoder.SampleRate), samples),
		Channels:  channels,
		PCMFormat: pcmFormat,
	}, nil
}

func decodeInt(
	ctx context.Context,
	decoder *wav.Decoder,
	pcmFormat audio.PCMFormat,
	channels audio.Channel,
) ([]float64, error) {
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to read the PCM data: %w", err)
	}
	logger.Tracef(ctx, "decoded %d interleaved samples", len(buf.Data))

	// a trailing incomplete frame is dropped
	buf.Data = buf.Data[:len(buf.Data)-len(buf.Data)%int(channels)]

	samples, err := pcm.Downmix(pcmFormat, channels, buf.Data)
	if err != nil {
		return nil, fmt.Errorf("unable to downmix: %w", err)
	}
	return samples, nil
}

// decodeFloat reads the data chunk directly: go-audio/wav decodes
// every sample as an integer.
func decodeFloat(
	ctx context.Context,
	decoder *wav.Decoder,
	pcmFormat audio.PCMFormat,
	channels audio.Channel,
) ([]float64, error) {
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("unable to find the data chunk: %w", err)
	}
	if decoder.PCMChunk == nil {
		return nil, fmt.Errorf("%w: no data chunk", ErrInvalidFile)
	}
	data, err := io.ReadAll(decoder.PCMChunk)
	if err != nil {
		return nil, fmt.Errorf("unable to read the data chunk: %w", err)
	}

	values, err := pcm.FloatsFromBytes(pcmFormat, data)
	if err != nil {
		return nil, err
	}
	logger.Tracef(ctx, "decoded %d interleaved samples", len(values))

	// a trailing incomplete frame is dropped
	values = values[:len(values)-len(values)%int(channels)]

	samples, err := pcm.DownmixFloat64(channels, values)
	if err != nil {
		return nil, fmt.Errorf("unable to downmix: %w", err)
	}
	return samples, nil
}
