package compose

import (
	"fmt"
	"strconv"
)

var pitchClass = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var flatNames = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// NoteToMIDI converts scientific pitch notation (C4 = 60) to a MIDI number.
func NoteToMIDI(note string) (int, error) {
	if len(note) < 2 {
		return 0, fmt.Errorf("invalid note: %q", note)
	}
	pc, ok := pitchClass[note[0]]
	if !ok {
		return 0, fmt.Errorf("invalid note name: %q", note)
	}

	i := 1
	for ; i < len(note); i++ {
		switch note[i] {
		case '#':
			pc++
			continue
		case 'b':
			pc--
			continue
		}
		break
	}

	octave, err := strconv.Atoi(note[i:])
	if err != nil {
		return 0, fmt.Errorf("invalid octave in %q: %w", note, err)
	}

	midi := (octave+1)*12 + pc
	if midi < 0 || midi > 127 {
		return 0, fmt.Errorf("note out of MIDI range: %q", note)
	}
	return midi, nil
}

// MIDIToNote spells a MIDI number with flats.
func MIDIToNote(midi int) string {
	return flatNames[((midi%12)+12)%12] + strconv.Itoa(midi/12-1)
}

// Transpose moves a note by semitones, returning it unchanged if it cannot be parsed.
func Transpose(note string, semitones int) string {
	m, err := NoteToMIDI(note)
	if err != nil {
		return note
	}
	m += semitones
	if m < 0 || m > 127 {
		return note
	}
	return MIDIToNote(m)
}
