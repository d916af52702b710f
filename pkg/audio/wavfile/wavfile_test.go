package wavfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/core"
	dspsignal "github.com/cwbudde/algo-dsp/dsp/signal"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/noiseextract/pkg/audio"
)

func sine(t testing.TB, sampleRate audio.SampleRate, samples int) []float64 {
	gen := dspsignal.NewGenerator(core.WithSampleRate(float64(sampleRate)))
	out, err := gen.Sine(440, 0.5, samples)
	require.NoError(t, err)
	return out
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, pcmFormat := range []audio.PCMFormat{
		audio.PCMFormatU8,
		audio.PCMFormatS16LE,
		audio.PCMFormatS24LE,
		audio.PCMFormatS32LE,
	} {
		t.Run(pcmFormat.String(), func(t *testing.T) {
			in := audio.NewSignal(16000, sine(t, 16000, 1600))
			filePath := filepath.Join(dir, pcmFormat.String()+".wav")
			require.NoError(t, Save(ctx, filePath, in, pcmFormat))

			out, err := Load(ctx, filePath)
			require.NoError(t, err)
			assert.Equal(t, audio.SampleRate(16000), out.SampleRate)
			assert.Equal(t, audio.Channel(1), out.Channels)
			assert.Equal(t, pcmFormat, out.PCMFormat)
			assert.NotZero(t, out.BytesRead)
			require.Equal(t, in.Len(), out.Len())
			for idx := range in.Samples {
				assert.InDelta(t, in.Samples[idx], out.Samples[idx], 0.01)
			}
		})
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	filePath := filepath.Join(t.TempDir(), "a.wav")
	require.NoError(t, Save(ctx, filePath, audio.NewSignal(8000, make([]float64, 1000)), audio.PCMFormatS16LE))
	require.NoError(t, Save(ctx, filePath, audio.NewSignal(8000, make([]float64, 10)), audio.PCMFormatS16LE))

	out, err := Load(ctx, filePath)
	require.NoError(t, err)
	assert.Equal(t, 10, out.Len())
}

func TestSaveUnsupportedFormat(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "a.wav")
	err := Save(context.Background(), filePath, audio.NewSignal(8000, []float64{0}), audio.PCMFormatUndefined)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, filePath)
}

func TestLoadStereo(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(filePath)
	require.NoError(t, err)
	enc := wav.NewEncoder(f, 22050, 16, 2, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 22050},
		Data:           []int{16384, 0, -16384, -16384, 8192, 8192},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	out, err := Load(context.Background(), filePath)
	require.NoError(t, err)
	assert.Equal(t, audio.Channel(2), out.Channels)
	assert.Equal(t, audio.SampleRate(22050), out.SampleRate)
	assert.Equal(t, []float64{0.25, -0.5, 0.25}, out.Samples)
}

func TestLoadInvalid(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	t.Run("garbage", func(t *testing.T) {
		filePath := filepath.Join(dir, "garbage.wav")
		require.NoError(t, os.WriteFile(filePath, []byte("definitely not a RIFF file"), 0640))
		_, err := Load(ctx, filePath)
		assert.ErrorIs(t, err, ErrInvalidFile)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(dir, "missing.wav"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestDecodeEncode(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "stream.wav")
	f, err := os.Create(filePath)
	require.NoError(t, err)
	require.NoError(t, Encode(f, audio.NewSignal(44100, []float64{0.5, -0.5, 0}), audio.PCMFormatS16LE))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	out, err := Decode(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5, 0}, out.Samples)
}

func formatChunkBytes(formatTag uint16, channels uint16, sampleRate uint32, bitDepth uint16, subFormat []byte) []byte {
	blockAlign := channels * bitDepth / 8
	var b []byte
	b = binary.LittleEndian.AppendUint16(b, formatTag)
	b = binary.LittleEndian.AppendUint16(b, channels)
	b = binary.LittleEndian.AppendUint32(b, sampleRate)
	b = binary.LittleEndian.AppendUint32(b, sampleRate*uint32(blockAlign))
	b = binary.LittleEndian.AppendUint16(b, blockAlign)
	b = binary.LittleEndian.AppendUint16(b, bitDepth)
	if subFormat == nil {
		return b
	}
	b = binary.LittleEndian.AppendUint16(b, 22)
	b = binary.LittleEndian.AppendUint16(b, bitDepth)
	b = binary.LittleEndian.AppendUint32(b, 0)
	return append(b, subFormat...)
}

func subFormatGUID(formatTag uint16) []byte {
	return append(binary.LittleEndian.AppendUint16(nil, formatTag), subFormatGUIDTail...)
}

func wavBytes(fmtChunk []byte, data []byte) []byte {
	var b []byte
	b = append(b, "RIFF"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(4+8+len(fmtChunk)+8+len(data)))
	b = append(b, "WAVE"...)
	b = append(b, "fmt "...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(fmtChunk)))
	b = append(b, fmtChunk...)
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(data)))
	return append(b, data...)
}

func float32Bytes(values ...float32) []byte {
	var b []byte
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

func float64Bytes(values ...float64) []byte {
	var b []byte
	for _, v := range values {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(v))
	}
	return b
}

func TestDecodeFloat(t *testing.T) {
	ctx := context.Background()
	expected := []float64{0.5, -0.25, 0.1}

	for name, data := range map[string][]byte{
		"IEEEFloat": wavBytes(
			formatChunkBytes(formatTagFloat, 1, 16000, 32, nil),
			float32Bytes(0.5, -0.25, 0.1),
		),
		"Extensible": wavBytes(
			formatChunkBytes(formatTagExtensible, 1, 16000, 32, subFormatGUID(formatTagFloat)),
			float32Bytes(0.5, -0.25, 0.1),
		),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Decode(ctx, bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, audio.PCMFormatFloat32LE, out.PCMFormat)
			assert.Equal(t, audio.SampleRate(16000), out.SampleRate)
			require.Equal(t, len(expected), out.Len())
			for idx := range expected {
				assert.InDelta(t, expected[idx], out.Samples[idx], 1e-7)
			}
		})
	}

	t.Run("ExtensibleFloat64Stereo", func(t *testing.T) {
		data := wavBytes(
			formatChunkBytes(formatTagExtensible, 2, 48000, 64, subFormatGUID(formatTagFloat)),
			float64Bytes(0.5, 0, -0.25, -0.75, 0.125),
		)
		out, err := Decode(ctx, bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, audio.PCMFormatFloat64LE, out.PCMFormat)
		assert.Equal(t, audio.Channel(2), out.Channels)
		assert.Equal(t, []float64{0.25, -0.5}, out.Samples)
	})

	t.Run("Load", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "float.wav")
		require.NoError(t, os.WriteFile(filePath, wavBytes(
			formatChunkBytes(formatTagFloat, 1, 8000, 32, nil),
			float32Bytes(0.5, -0.25, 0.1),
		), 0640))
		out, err := Load(ctx, filePath)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Len())
		assert.InDelta(t, -0.25, out.Samples[1], 1e-7)
	})
}

func TestDecodeExtensiblePCM(t *testing.T) {
	var data []byte
	for _, v := range []int16{16384, -16384, 0} {
		data = binary.LittleEndian.AppendUint16(data, uint16(v))
	}
	out, err := Decode(context.Background(), bytes.NewReader(wavBytes(
		formatChunkBytes(formatTagExtensible, 1, 16000, 16, subFormatGUID(formatTagPCM)),
		data,
	)))
	require.NoError(t, err)
	assert.Equal(t, audio.PCMFormatS16LE, out.PCMFormat)
	assert.Equal(t, []float64{0.5, -0.5, 0}, out.Samples)
}

func TestDecodeUnsupported(t *testing.T) {
	unknownGUID := subFormatGUID(formatTagFloat)
	unknownGUID[len(unknownGUID)-1] ^= 0xFF

	for name, fmtChunk := range map[string][]byte{
		"ExtensibleALaw":    formatChunkBytes(formatTagExtensible, 1, 8000, 8, subFormatGUID(0x0006)),
		"ExtensibleUnknown": formatChunkBytes(formatTagExtensible, 1, 8000, 32, unknownGUID),
		"IEEEFloat16":       formatChunkBytes(formatTagFloat, 1, 8000, 16, nil),
		"ADPCM":             formatChunkBytes(0x0002, 1, 8000, 16, nil),
		"ExtensibleFloat24": formatChunkBytes(formatTagExtensible, 1, 8000, 24, subFormatGUID(formatTagFloat)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(context.Background(), bytes.NewReader(wavBytes(fmtChunk, make([]byte, 48))))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}

	t.Run("ExtensibleTooShort", func(t *testing.T) {
		fmtChunk := formatChunkBytes(formatTagExtensible, 1, 8000, 16, nil)
		_, err := Decode(context.Background(), bytes.NewReader(wavBytes(fmtChunk, make([]byte, 48))))
		assert.ErrorIs(t, err, ErrInvalidFile)
	})
}

func TestSaveFloatFormat(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "a.wav")
	err := Save(context.Background(), filePath, audio.NewSignal(8000, []float64{0}), audio.PCMFormatFloat32LE)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.NoFileExists(t, filePath)
}
