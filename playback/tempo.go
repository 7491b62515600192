package playback

import (
	"time"

	Mt "github.com/maroda/ostinato/types"
)

// Tempo is a BPM value that can glide linearly between two settings.
type Tempo struct {
	from, to float64
	start    time.Time
	span     time.Duration
}

func NewTempo(bpm float64) Tempo {
	return Tempo{from: bpm, to: bpm}
}

// At returns the tempo in effect at t.
func (tp Tempo) At(t time.Time) float64 {
	switch {
	case tp.span <= 0 || !t.Before(tp.start.Add(tp.span)):
		return tp.to
	case t.Before(tp.start):
		return tp.from
	}
	frac := float64(t.Sub(tp.start)) / float64(tp.span)
	return tp.from + (tp.to-tp.from)*frac
}

// Target is the tempo once any ramp has finished.
func (tp Tempo) Target() float64 { return tp.to }

// RampTo glides from the tempo at t to bpm over span.
func (tp Tempo) RampTo(bpm float64, t time.Time, span time.Duration) Tempo {
	return Tempo{from: tp.At(t), to: bpm, start: t, span: span}
}

// Beat is the length of one quarter note at bpm.
// A non-positive bpm counts as Mt.DefaultTempo.
func Beat(bpm float64) time.Duration {
	if bpm <= 0 {
		bpm = Mt.DefaultTempo
	}
	return time.Duration(float64(time.Minute) / bpm)
}

// Measure is the length of one four beat measure at bpm.
func Measure(bpm float64) time.Duration {
	return 4 * Beat(bpm)
}
