package sound

import (
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	freqs []float64
}

func (r *recorder) Play(freq float64, d time.Duration) { r.freqs = append(r.freqs, freq) }
func (r *recorder) Close()                             {}

func TestOutcome(t *testing.T) {
	r := &recorder{}
	Outcome(r, true)
	Outcome(r, false)
	assert.Equal(t, []float64{FoundHz, UnreachableHz}, r.freqs)
}

func TestSilent(t *testing.T) {
	var c Chime = Silent{}
	assert.NotPanics(t, func() {
		Outcome(c, true)
		c.Close()
	})
}

func drain(st beep.Streamer) int {
	buf := make([][2]float64, 256)
	total := 0
	for {
		n, ok := st.Stream(buf)
		total += n
		if !ok {
			return total
		}
	}
}

func TestSpeaker_ToneSettlesAfterPlayback(t *testing.T) {
	s := &Speaker{}
	st, err := s.tone(FoundHz, 20*time.Millisecond)
	require.NoError(t, err)

	assert.False(t, waitTimeout(&s.pending, 10*time.Millisecond), "tone not streamed yet")

	assert.Equal(t, sampleRate.N(20*time.Millisecond), drain(st))
	assert.True(t, waitTimeout(&s.pending, time.Second))
}

func TestWaitTimeout_NothingPending(t *testing.T) {
	var wg sync.WaitGroup
	assert.True(t, waitTimeout(&wg, time.Millisecond))
}
