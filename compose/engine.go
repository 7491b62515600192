package compose

import (
	"fmt"
	"sync"

	Mt "github.com/maroda/ostinato/types"
)

// Engine generates track content.
// It has no side effects beyond drawing from its random source.
type Engine struct {
	MU   sync.Mutex
	Rand Source
}

func NewEngine(src Source) *Engine {
	if src == nil {
		src = NewSource(0)
	}
	return &Engine{Rand: src}
}

// Notes generates a melodic line for piano or bass.
// Drums and unknown kinds get the piano chord generator.
func (e *Engine) Notes(inst Mt.Instrument, opts Options) []Mt.Step {
	opts = opts.Resolve()
	mp := MoodFor(opts.Mood)
	gate := Gate(opts.Rhythm, opts.Length)

	e.MU.Lock()
	defer e.MU.Unlock()

	switch {
	case inst == Mt.Bass:
		return Bass(mp, gate, opts.BassStyle)
	case opts.TrackType == Mt.PianoMelody:
		return PianoMelody(mp, gate, e.Rand)
	default:
		return PianoChords(mp, gate, opts.Rhythm, e.Rand)
	}
}

// Track builds a complete track for inst, recording the resolved options.
func (e *Engine) Track(inst Mt.Instrument, opts Options) (*Mt.InstrumentTrack, error) {
	if !inst.Valid() {
		return nil, fmt.Errorf("unknown instrument %q", inst)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.Resolve()

	track := &Mt.InstrumentTrack{
		Instrument: inst,
		Mood:       opts.Mood,
		Volume:     1,
	}

	switch inst {
	case Mt.Drums:
		track.Body = &Mt.DrumTrack{Pattern: Drums(opts.Mood)}
	case Mt.Bass:
		track.Rhythm = opts.Rhythm
		track.Style = string(opts.BassStyle)
		track.Body = &Mt.MelodicTrack{Notes: e.Notes(inst, opts)}
	default:
		track.Rhythm = opts.Rhythm
		track.Style = string(opts.TrackType)
		track.Body = &Mt.MelodicTrack{Notes: e.Notes(inst, opts)}
	}
	return track, nil
}
