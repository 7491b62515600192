package plugin

import (
	"fmt"
	"math"
	"strconv"

	Mt "github.com/maroda/ostinato/types"
)

// MIDI channels per instrument, drums on the General MIDI percussion channel.
var MIDIChannels = map[Mt.Instrument]uint8{
	Mt.Piano: 0,
	Mt.Bass:  1,
	Mt.Drums: 9,
}

// General MIDI percussion keys.
var DrumKeys = map[string]uint8{
	"kick":  36,
	"snare": 38,
	"hihat": 42,
}

var pitchClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// NoteNumber converts a note name such as C4 or Eb3 to a MIDI key, C4 = 60.
func NoteNumber(note string) (uint8, error) {
	if len(note) < 2 {
		return 0, fmt.Errorf("invalid note: %q", note)
	}
	n, ok := pitchClass[note[0]]
	if !ok {
		return 0, fmt.Errorf("invalid note name: %q", note)
	}

	i := 1
	for i < len(note) && (note[i] == '#' || note[i] == 'b') {
		if note[i] == '#' {
			n++
		} else {
			n--
		}
		i++
	}

	octave, err := strconv.Atoi(note[i:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in %q: %w", note, err)
	}
	n += (octave + 1) * 12
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note out of range: %q", note)
	}
	return uint8(n), nil
}

// MIDIVelocity scales a 0-1 velocity to 1-127.
// Anything above zero stays audible.
func MIDIVelocity(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	return uint8(max(1, min(127, math.Round(v*127))))
}

// MIDIKeys resolves the keys an event should sound.
func MIDIKeys(ev *Mt.VoiceEvent) ([]uint8, error) {
	if ev.Instrument == Mt.Drums {
		key, ok := DrumKeys[ev.Voice]
		if !ok {
			return nil, fmt.Errorf("unknown drum voice: %q", ev.Voice)
		}
		return []uint8{key}, nil
	}

	keys := make([]uint8, 0, len(ev.Notes))
	for _, n := range ev.Notes {
		k, err := NoteNumber(n)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
