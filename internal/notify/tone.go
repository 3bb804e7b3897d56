package notify

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"studyclock/internal/core/timekeeper"
)

// ToneSpec describes a generated sine beep.
type ToneSpec struct {
	SampleRate beep.SampleRate
	Frequency  float64
	Duration   time.Duration
	Amplitude  float64
}

// DefaultTone is a half-second A4 at 44.1 kHz.
func DefaultTone() ToneSpec {
	return ToneSpec{
		SampleRate: 44100,
		Frequency:  440,
		Duration:   500 * time.Millisecond,
		Amplitude:  1,
	}
}

// Samples returns the number of frames the tone lasts.
func (spec ToneSpec) Samples() int {
	return spec.SampleRate.N(spec.Duration)
}

// Format is the mono 16-bit PCM format the tone is encoded with.
func (spec ToneSpec) Format() beep.Format {
	return beep.Format{SampleRate: spec.SampleRate, NumChannels: 1, Precision: 2}
}

// Streamer returns a finite streamer producing the tone.
func (spec ToneSpec) Streamer() beep.Streamer {
	step := 2 * math.Pi * spec.Frequency / float64(spec.SampleRate)
	position := 0
	sine := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			value := spec.Amplitude * math.Sin(step*float64(position))
			samples[i][0] = value
			samples[i][1] = value
			position++
		}
		return len(samples), true
	})
	return beep.Take(spec.Samples(), sine)
}

// WriteWAV encodes the tone as a WAV file.
func WriteWAV(w io.WriteSeeker, spec ToneSpec) error {
	if spec.SampleRate <= 0 || spec.Duration <= 0 {
		return fmt.Errorf("write wav: invalid tone %+v", spec)
	}
	if err := wav.Encode(w, spec.Streamer(), spec.Format()); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

var (
	speakerOnce sync.Once
	speakerErr  error
)

func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return speakerErr
}

// ErrSilent is returned when a tone is requested at zero volume.
var ErrSilent = errors.New("tone volume is zero")

// Tone plays a beep on every phase boundary and a rising chime when a
// session completes.
type Tone struct {
	volume float64
	phase  *beep.Buffer
	chime  *beep.Buffer
}

// NewTone initialises the speaker and renders the sounds. volume is linear
// in [0, 1].
func NewTone(spec ToneSpec, volume float64) (*Tone, error) {
	if volume <= 0 {
		return nil, ErrSilent
	}
	if volume > 1 {
		volume = 1
	}
	if err := initSpeaker(spec.SampleRate); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	phase := beep.NewBuffer(spec.Format())
	phase.Append(spec.Streamer())

	high := spec
	high.Frequency = spec.Frequency * 1.5
	gap := spec.SampleRate.N(80 * time.Millisecond)
	chime := beep.NewBuffer(spec.Format())
	chime.Append(beep.Seq(spec.Streamer(), beep.Silence(gap), high.Streamer()))

	return &Tone{volume: volume, phase: phase, chime: chime}, nil
}

// Notify plays the sound for notification without blocking.
func (tone *Tone) Notify(notification timekeeper.Notification) {
	buffer := tone.phase
	if notification.Kind == timekeeper.NotifySessionComplete {
		buffer = tone.chime
	}
	speaker.Play(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   math.Log2(tone.volume),
	})
}

// Play renders spec once and blocks until it has been played.
func Play(spec ToneSpec, volume float64) error {
	tone, err := NewTone(spec, volume)
	if err != nil {
		return err
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(&effects.Volume{
		Streamer: tone.phase.Streamer(0, tone.phase.Len()),
		Base:     2,
		Volume:   math.Log2(tone.volume),
	}, beep.Callback(func() {
		close(done)
	})))
	select {
	case <-done:
	case <-time.After(spec.Duration + 2*time.Second):
		log.Printf("tone playback timed out")
	}
	return nil
}
