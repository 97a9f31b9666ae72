package sound

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/faiface/beep"
)

// ErrUnknownTone indicates a preset name that is not registered.
var ErrUnknownTone = errors.New("unknown tone")

// Waveform is the oscillator shape of a tone.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveTriangle
	WaveSawtooth
)

func (waveform Waveform) String() string {
	switch waveform {
	case WaveSine:
		return "sine"
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	case WaveSawtooth:
		return "sawtooth"
	default:
		return fmt.Sprintf("waveform(%d)", int(waveform))
	}
}

// sample returns the waveform value for a phase in [0, 1).
func (waveform Waveform) sample(phase float64) float64 {
	switch waveform {
	case WaveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case WaveTriangle:
		return 4*math.Abs(phase-0.5) - 1
	case WaveSawtooth:
		return 2*phase - 1
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// Envelope is a linear attack/release gain shape.
type Envelope struct {
	Attack  time.Duration
	Release time.Duration
	Peak    float64
}

func (envelope Envelope) gain(pos, total, attack, release int) float64 {
	switch {
	case attack > 0 && pos < attack:
		return envelope.Peak * float64(pos) / float64(attack)
	case release > 0 && total-pos <= release:
		return envelope.Peak * float64(total-pos) / float64(release)
	default:
		return envelope.Peak
	}
}

// Tone is a synthesized cue: one waveform/frequency/envelope triple,
// optionally repeated with silence in between.
type Tone struct {
	Name      string
	Waveform  Waveform
	Frequency float64
	Length    time.Duration
	Envelope  Envelope
	Repeat    int
	Gap       time.Duration
}

// DefaultTone is the preset used when nothing else is selected.
const DefaultTone = "bell"

var presets = map[string]Tone{
	"bell": {
		Name:      "bell",
		Waveform:  WaveSine,
		Frequency: 880,
		Length:    1200 * time.Millisecond,
		Envelope:  Envelope{Attack: 5 * time.Millisecond, Release: time.Second, Peak: 0.6},
	},
	"chime": {
		Name:      "chime",
		Waveform:  WaveTriangle,
		Frequency: 660,
		Length:    400 * time.Millisecond,
		Envelope:  Envelope{Attack: 10 * time.Millisecond, Release: 300 * time.Millisecond, Peak: 0.5},
		Repeat:    2,
		Gap:       150 * time.Millisecond,
	},
	"digital": {
		Name:      "digital",
		Waveform:  WaveSquare,
		Frequency: 1000,
		Length:    120 * time.Millisecond,
		Envelope:  Envelope{Attack: 2 * time.Millisecond, Release: 20 * time.Millisecond, Peak: 0.25},
		Repeat:    3,
		Gap:       100 * time.Millisecond,
	},
	"soft": {
		Name:      "soft",
		Waveform:  WaveSine,
		Frequency: 440,
		Length:    1500 * time.Millisecond,
		Envelope:  Envelope{Attack: 600 * time.Millisecond, Release: 700 * time.Millisecond, Peak: 0.4},
	},
}

// ToneNames returns the registered preset names, sorted.
func ToneNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupTone returns the preset registered under name.
func LookupTone(name string) (Tone, error) {
	tone, ok := presets[name]
	if !ok {
		return Tone{}, fmt.Errorf("%w: %q", ErrUnknownTone, name)
	}
	return tone, nil
}

// Samples returns the total number of samples the tone streams at sampleRate.
func (tone Tone) Samples(sampleRate beep.SampleRate) int {
	repeat := tone.repeat()
	return repeat*sampleRate.N(tone.Length) + (repeat-1)*sampleRate.N(tone.Gap)
}

// Streamer renders the tone at sampleRate.
func (tone Tone) Streamer(sampleRate beep.SampleRate) beep.Streamer {
	repeat := tone.repeat()
	if repeat == 1 {
		return tone.burst(sampleRate)
	}

	parts := make([]beep.Streamer, 0, repeat*2-1)
	for i := 0; i < repeat; i++ {
		if i > 0 {
			parts = append(parts, beep.Silence(sampleRate.N(tone.Gap)))
		}
		parts = append(parts, tone.burst(sampleRate))
	}
	return beep.Seq(parts...)
}

func (tone Tone) repeat() int {
	if tone.Repeat < 1 {
		return 1
	}
	return tone.Repeat
}

func (tone Tone) burst(sampleRate beep.SampleRate) beep.Streamer {
	total := sampleRate.N(tone.Length)
	attack := sampleRate.N(tone.Envelope.Attack)
	release := sampleRate.N(tone.Envelope.Release)
	step := tone.Frequency / float64(sampleRate)
	phase := 0.0
	pos := 0

	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if pos >= total {
				break
			}
			value := tone.Waveform.sample(phase) * tone.Envelope.gain(pos, total, attack, release)
			samples[i][0] = value
			samples[i][1] = value
			phase += step
			phase -= math.Floor(phase)
			pos++
			n++
		}
		return n, true
	})
}
