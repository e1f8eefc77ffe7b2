// Package sound plays a short tone when a search finishes.
package sound

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Tone frequencies for the two outcomes.
const (
	FoundHz       = 880.0
	UnreachableHz = 220.0
)

// Chime plays outcome cues.
type Chime interface {
	Play(freq float64, d time.Duration)
	Close()
}

// Silent is a Chime that does nothing.
type Silent struct{}

func (Silent) Play(float64, time.Duration) {}
func (Silent) Close()                      {}

// closeTimeout bounds how long Close waits for queued tones.
const closeTimeout = time.Second

// Speaker plays sine tones through the system audio device.
type Speaker struct {
	// pending counts tones queued but not yet played to the end.
	pending sync.WaitGroup
}

// NewSpeaker initializes the audio device. Callers usually fall back to
// Silent when this fails.
func NewSpeaker() (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Speaker{}, nil
}

// Play queues a sine tone; it does not wait for playback.
func (s *Speaker) Play(freq float64, d time.Duration) {
	st, err := s.tone(freq, d)
	if err != nil {
		return
	}
	speaker.Play(st)
}

// tone builds a streamer that marks itself done once fully streamed.
func (s *Speaker) tone(freq float64, d time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, err
	}
	s.pending.Add(1)
	return beep.Seq(beep.Take(sampleRate.N(d), sine), beep.Callback(s.pending.Done)), nil
}

// Close lets queued tones finish, up to closeTimeout, then releases the
// device.
func (s *Speaker) Close() {
	waitTimeout(&s.pending, closeTimeout)
	speaker.Close()
}

// waitTimeout reports whether wg finished within d.
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// Outcome plays the cue for a finished search.
func Outcome(c Chime, found bool) {
	if found {
		c.Play(FoundHz, 120*time.Millisecond)
		return
	}
	c.Play(UnreachableHz, 300*time.Millisecond)
}
