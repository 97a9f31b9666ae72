package sound

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat indicates an audio file that is neither mp3 nor wav.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// MaxClipLength bounds how much of a custom file is kept in memory.
const MaxClipLength = 30 * time.Second

// ClipExtensions lists the file extensions DecodeClip accepts.
var ClipExtensions = []string{".mp3", ".wav"}

// Clip is a decoded custom sound held in memory at the output sample rate.
type Clip struct {
	Name   string
	buffer *beep.Buffer
}

// LoadClip opens and decodes the audio file at path.
func LoadClip(path string, sampleRate beep.SampleRate) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	return DecodeClip(filepath.Base(path), file, sampleRate)
}

// DecodeClip decodes rc according to the extension of name and closes it.
func DecodeClip(name string, rc io.ReadCloser, sampleRate beep.SampleRate) (*Clip, error) {
	defer func() {
		_ = rc.Close()
	}()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(rc)
	case ".wav":
		streamer, format, err = wav.Decode(rc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		source = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buffer.Append(beep.Take(sampleRate.N(MaxClipLength), source))
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return &Clip{Name: name, buffer: buffer}, nil
}

// Len returns the clip length in samples.
func (clip *Clip) Len() int {
	return clip.buffer.Len()
}

// Streamer returns a fresh streamer positioned at the start of the clip.
func (clip *Clip) Streamer() beep.Streamer {
	return clip.buffer.Streamer(0, clip.buffer.Len())
}
