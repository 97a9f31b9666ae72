package sound

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(8000)

type recordingOutput struct {
	opened  int
	openErr error
	playErr error
	played  []beep.Streamer
}

func (output *recordingOutput) SampleRate() beep.SampleRate { return testRate }

func (output *recordingOutput) Open() error {
	output.opened++
	return output.openErr
}

func (output *recordingOutput) Play(streamer beep.Streamer) error {
	if output.playErr != nil {
		return output.playErr
	}
	output.played = append(output.played, streamer)
	return nil
}

type recordingFallback struct {
	patterns [][]time.Duration
	err      error
}

func (fallback *recordingFallback) Alert(pattern []time.Duration) error {
	fallback.patterns = append(fallback.patterns, pattern)
	return fallback.err
}

func drain(streamer beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 257)
	for {
		n, ok := streamer.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestPresetsAreDistinct(t *testing.T) {
	names := ToneNames()
	require.Equal(t, []string{"bell", "chime", "digital", "soft"}, names)

	type triple struct {
		waveform  Waveform
		frequency float64
		envelope  Envelope
	}
	seen := map[triple]string{}
	for _, name := range names {
		tone, err := LookupTone(name)
		require.NoError(t, err)
		key := triple{tone.Waveform, tone.Frequency, tone.Envelope}
		_, dup := seen[key]
		assert.False(t, dup, "preset %s duplicates %s", name, seen[key])
		seen[key] = name
	}

	_, err := LookupTone("klaxon")
	assert.ErrorIs(t, err, ErrUnknownTone)
}

func TestToneStreamerLengthAndEnvelope(t *testing.T) {
	for _, name := range ToneNames() {
		t.Run(name, func(t *testing.T) {
			tone, err := LookupTone(name)
			require.NoError(t, err)

			samples := drain(tone.Streamer(testRate))

			assert.Len(t, samples, tone.Samples(testRate))
			assert.Zero(t, samples[0][0], "attack starts from silence")
			for _, sample := range samples {
				assert.LessOrEqual(t, math.Abs(sample[0]), tone.Envelope.Peak+1e-9)
				assert.Equal(t, sample[0], sample[1])
			}
		})
	}
}

func TestRepeatedToneHasSilentGaps(t *testing.T) {
	tone, err := LookupTone("digital")
	require.NoError(t, err)

	samples := drain(tone.Streamer(testRate))

	burst := testRate.N(tone.Length)
	gap := testRate.N(tone.Gap)
	for i := burst; i < burst+gap; i++ {
		require.Zero(t, samples[i][0], "sample %d inside gap", i)
	}
}

func TestWaveformShapes(t *testing.T) {
	assert.InDelta(t, 1.0, WaveSine.sample(0.25), 1e-9)
	assert.Equal(t, 1.0, WaveSquare.sample(0.1))
	assert.Equal(t, -1.0, WaveSquare.sample(0.6))
	assert.Equal(t, -1.0, WaveTriangle.sample(0.5))
	assert.Equal(t, -1.0, WaveSawtooth.sample(0))
	assert.Equal(t, "triangle", WaveTriangle.String())
}

func TestNotifyPlaysSelectedTone(t *testing.T) {
	output := &recordingOutput{}
	fallback := &recordingFallback{}
	notifier := NewNotifier(output, fallback, nil)

	require.NoError(t, notifier.Select(Selection{Tone: "chime"}))
	notifier.Notify()

	require.Len(t, output.played, 1)
	chime, _ := LookupTone("chime")
	assert.Len(t, drain(output.played[0]), chime.Samples(testRate))
	assert.Empty(t, fallback.patterns)
}

func TestNotifyFallsBackWhenPlaybackFails(t *testing.T) {
	output := &recordingOutput{playErr: errors.New("device busy")}
	fallback := &recordingFallback{err: errors.New("no vibration motor")}
	notifier := NewNotifier(output, fallback, nil)

	notifier.Notify()

	require.Len(t, fallback.patterns, 1)
	assert.Equal(t, AlertPattern, fallback.patterns[0])
}

func TestPrimeOpensOutputAndSwallowsErrors(t *testing.T) {
	output := &recordingOutput{openErr: errors.New("no device")}
	notifier := NewNotifier(output, nil, nil)

	notifier.PrimeForUserGesture()
	notifier.PrimeForUserGesture()

	assert.Equal(t, 2, output.opened)
}

func TestSelectValidatesChoice(t *testing.T) {
	notifier := NewNotifier(&recordingOutput{}, nil, nil)

	assert.ErrorIs(t, notifier.Select(Selection{Tone: "klaxon"}), ErrUnknownTone)
	assert.ErrorIs(t, notifier.Select(Selection{Custom: true}), ErrNoClip)
	assert.Equal(t, Selection{Tone: DefaultTone}, notifier.Selection())
}

func writeTestWav(t *testing.T, rate beep.SampleRate, length time.Duration) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ding.wav")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	tone := Tone{Waveform: WaveSine, Frequency: 440, Length: length, Envelope: Envelope{Peak: 0.5}}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(file, tone.Streamer(rate), format))
	return path
}

func TestUseClipFileSelectsCustomAndReplaysFromStart(t *testing.T) {
	path := writeTestWav(t, testRate, 250*time.Millisecond)
	output := &recordingOutput{}
	notifier := NewNotifier(output, nil, nil)

	require.NoError(t, notifier.UseClipFile(path))
	assert.Equal(t, Selection{Custom: true}, notifier.Selection())
	assert.Equal(t, "ding.wav", notifier.Clip().Name)

	notifier.Notify()
	notifier.Notify()

	require.Len(t, output.played, 2)
	first := drain(output.played[0])
	second := drain(output.played[1])
	assert.Len(t, first, testRate.N(250*time.Millisecond))
	assert.Equal(t, len(first), len(second))
}

func TestDecodeClipResamples(t *testing.T) {
	path := writeTestWav(t, testRate/2, 500*time.Millisecond)
	file, err := os.Open(path)
	require.NoError(t, err)

	clip, err := DecodeClip("ding.wav", file, testRate)
	require.NoError(t, err)

	assert.InDelta(t, testRate.N(500*time.Millisecond), clip.Len(), 16)
}

func TestDecodeClipRejectsUnknownExtension(t *testing.T) {
	_, err := DecodeClip("notes.txt", io.NopCloser(strings.NewReader("hello")), testRate)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = LoadClip(filepath.Join(t.TempDir(), "missing.mp3"), testRate)
	assert.Error(t, err)
}

func TestUseClipRejectsGarbage(t *testing.T) {
	notifier := NewNotifier(&recordingOutput{}, nil, nil)

	err := notifier.UseClip("broken.wav", io.NopCloser(strings.NewReader("not a riff header")))

	assert.Error(t, err)
	assert.Nil(t, notifier.Clip())
	assert.Equal(t, Selection{Tone: DefaultTone}, notifier.Selection())
}
