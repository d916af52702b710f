// Package pcm converts integer PCM samples (as decoded from WAV files)
// to normalized float64 samples and back.
package pcm

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/core"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
)

type scale struct {
	offset float64
	factor float64
	min    float64
	max    float64
}

func getScale(f audio.PCMFormat) (scale, error) {
	switch f {
	case audio.PCMFormatU8:
		return scale{offset: 128, factor: 128, min: 0, max: math.MaxUint8}, nil
	case audio.PCMFormatS16LE:
		return scale{factor: 32768, min: math.MinInt16, max: math.MaxInt16}, nil
	case audio.PCMFormatS24LE:
		return scale{factor: 8388608, min: -8388608, max: 8388607}, nil
	case audio.PCMFormatS32LE:
		return scale{factor: 2147483648, min: math.MinInt32, max: math.MaxInt32}, nil
	default:
		return scale{}, fmt.Errorf("unsupported PCM format: %v", f)
	}
}

// ToFloat64 converts a single integer sample to range [-1, 1).
func ToFloat64(f audio.PCMFormat, v int) (float64, error) {
	s, err := getScale(f)
	if err != nil {
		return 0, err
	}
	return (float64(v) - s.offset) / s.factor, nil
}

// FromFloat64 converts a single sample in range [-1, 1] to an integer
// sample of the given format. Values outside of the representable range
// are clipped.
func FromFloat64(f audio.PCMFormat, v float64) (int, error) {
	s, err := getScale(f)
	if err != nil {
		return 0, err
	}
	return int(core.Clamp(math.Round(v*s.factor+s.offset), s.min, s.max)), nil
}

// Downmix converts interleaved integer samples of the given amount of
// channels into mono float64 samples, averaging the channels of each frame.
func Downmix(
	f audio.PCMFormat,
	channels audio.Channel,
	data []int,
) ([]float64, error) {
	if _, err := getScale(f); err != nil {
		return nil, err
	}
	return downmix(channels, len(data), func(idx int) float64 {
		v, _ := ToFloat64(f, data[idx])
		return v
	})
}

// DownmixFloat64 averages the channels of interleaved float samples.
func DownmixFloat64(
	channels audio.Channel,
	data []float64,
) ([]float64, error) {
	return downmix(channels, len(data), func(idx int) float64 {
		return data[idx]
	})
}

func downmix(
	channels audio.Channel,
	length int,
	sample func(idx int) float64,
) ([]float64, error) {
	if channels == 0 {
		return nil, fmt.Errorf("channels must be greater than 0")
	}
	if length%int(channels) != 0 {
		return nil, fmt.Errorf("the amount of samples %d is not a multiple of %d channels", length, channels)
	}

	frames := length / int(channels)
	result := make([]float64, frames)
	for frameIdx := range result {
		var sum float64
		for idx := frameIdx * int(channels); idx < (frameIdx+1)*int(channels); idx++ {
			sum += sample(idx)
		}
		result[frameIdx] = sum / float64(channels)
	}
	return result, nil
}

// Quantize converts float64 samples into integer samples of the given format.
func Quantize(
	f audio.PCMFormat,
	samples []float64,
) ([]int, error) {
	if _, err := getScale(f); err != nil {
		return nil, err
	}

	result := make([]int, len(samples))
	for idx, v := range samples {
		result[idx], _ = FromFloat64(f, v)
	}
	return result, nil
}

// FloatsFromBytes parses little-endian IEEE 754 samples. A trailing
// incomplete sample is ignored.
func FloatsFromBytes(
	f audio.PCMFormat,
	data []byte,
) ([]float64, error) {
	size := int(f.Size())
	if !f.IsFloat() || size == 0 {
		return nil, fmt.Errorf("not a float PCM format: %v", f)
	}

	result := make([]float64, len(data)/size)
	for idx := range result {
		chunk := data[idx*size : (idx+1)*size]
		switch f {
		case audio.PCMFormatFloat32LE:
			result[idx] = float64(math.Float32frombits(binary.LittleEndian.Uint32(chunk)))
		case audio.PCMFormatFloat64LE:
			result[idx] = math.Float64frombits(binary.LittleEndian.Uint64(chunk))
		}
	}
	return result, nil
}
