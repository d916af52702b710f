package wavfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

const (
	formatTagPCM        = 0x0001
	formatTagFloat      = 0x0003
	formatTagExtensible = 0xFFFE
)

// the tail shared by all KSDATAFORMAT_SUBTYPE_* GUIDs, the first two bytes
// of a subformat GUID carry the format tag
var subFormatGUIDTail = []byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

type formatChunk struct {
	// FormatTag is the effective tag: for WAVE_FORMAT_EXTENSIBLE it is
	// taken from the subformat GUID.
	FormatTag  uint16
	Channels   uint16
	SampleRate uint32
	BitDepth   uint16
}

func (f formatChunk) IsFloat() bool {
	return f.FormatTag == formatTagFloat
}

// readFormatChunk finds and parses the "fmt " chunk; go-audio/wav skips
// the extension of WAVE_FORMAT_EXTENSIBLE, so the subformat is read here.
func readFormatChunk(r io.Reader) (*formatChunk, error) {
	parser := riff.New(r)
	if err := parser.ParseHeaders(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if parser.Format != riff.WavFormatID {
		return nil, fmt.Errorf("%w: RIFF format '%s'", ErrInvalidFile, parser.Format[:])
	}

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			return nil, fmt.Errorf("%w: no 'fmt ' chunk: %w", ErrInvalidFile, err)
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}

		data := make([]byte, chunk.Size)
		if _, err := io.ReadFull(chunk, data); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("unable to read the 'fmt ' chunk: %w", err)
		}
		return parseFormatChunk(data)
	}
}

func parseFormatChunk(data []byte) (*formatChunk, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("%w: 'fmt ' chunk is too short: %d bytes", ErrInvalidFile, len(data))
	}
	f := &formatChunk{
		FormatTag:  binary.LittleEndian.Uint16(data[0:2]),
		Channels:   binary.LittleEndian.Uint16(data[2:4]),
		SampleRate: binary.LittleEndian.Uint32(data[4:8]),
		BitDepth:   binary.LittleEndian.Uint16(data[14:16]),
	}
	if f.FormatTag != formatTagExtensible {
		return f, nil
	}

	// cbSize, wValidBitsPerSample, dwChannelMask, SubFormat
	if len(data) < 40 {
		return nil, fmt.Errorf("%w: extensible 'fmt ' chunk is too short: %d bytes", ErrInvalidFile, len(data))
	}
	subFormat := data[24:40]
	if !bytes.Equal(subFormat[2:], subFormatGUIDTail) {
		return nil, fmt.Errorf("%w: subformat GUID %X", ErrUnsupportedFormat, subFormat)
	}
	f.FormatTag = binary.LittleEndian.Uint16(subFormat[0:2])
	return f, nil
}
