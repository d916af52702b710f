// Package wavfile loads WAV files (integer PCM or IEEE float) into mono
// float signals and stores signals back as integer PCM WAV files.
package wavfile

import (
	"errors"

	"github.com/xaionaro-go/noiseextract/pkg/audio"
)

var (
	ErrInvalidFile       = errors.New("not a valid WAV file")
	ErrUnsupportedFormat = errors.New("unsupported WAV encoding")
)

// File is a decoded WAV file: the samples are already downmixed to mono.
type File struct {
	*audio.Signal

	// Channels is the amount of channels stored in the file before downmixing.
	Channels  audio.Channel
	// PCMFormat is the sample encoding stored in the file.
	PCMFormat audio.PCMFormat
	BytesRead uint64
}
