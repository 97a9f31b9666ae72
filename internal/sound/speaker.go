package sound

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// DefaultSampleRate is the rate tones and clips are rendered at.
const DefaultSampleRate = beep.SampleRate(44100)

// Output plays streamers on an audio device.
type Output interface {
	SampleRate() beep.SampleRate
	// Open prepares the device. It is idempotent.
	Open() error
	// Play replaces whatever is playing with streamer and returns immediately.
	Play(streamer beep.Streamer) error
}

// SpeakerOutput is the default Output backed by the beep speaker.
type SpeakerOutput struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	opened     bool
}

// NewSpeakerOutput returns an unopened speaker output.
func NewSpeakerOutput(sampleRate beep.SampleRate) *SpeakerOutput {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &SpeakerOutput{sampleRate: sampleRate}
}

// SampleRate returns the device sample rate.
func (output *SpeakerOutput) SampleRate() beep.SampleRate {
	return output.sampleRate
}

// Open initializes the speaker once.
func (output *SpeakerOutput) Open() error {
	output.mu.Lock()
	defer output.mu.Unlock()
	if output.opened {
		return nil
	}
	if err := speaker.Init(output.sampleRate, output.sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	output.opened = true
	return nil
}

// Play clears the speaker and queues streamer.
func (output *SpeakerOutput) Play(streamer beep.Streamer) error {
	if err := output.Open(); err != nil {
		return err
	}
	speaker.Clear()
	speaker.Play(streamer)
	return nil
}
