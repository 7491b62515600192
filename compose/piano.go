package compose

import (
	"slices"

	Mt "github.com/maroda/ostinato/types"
)

const (
	sparseDrop    = 0.3 // share of active sparse steps left out
	melodyChordTo = 0.7 // chance a melody step lands on a chord tone
)

// PianoChords plays the measure's chord on every active step.
// The sparse rhythm also thins active steps using rng.
func PianoChords(mp *MoodProfile, gate []float64, rhythm Mt.Rhythm, rng Source) []Mt.Step {
	steps := make([]Mt.Step, len(gate))
	for i, g := range gate {
		if g <= 0 {
			continue
		}
		if rhythm == Mt.Sparse && rng.Float64() < sparseDrop {
			continue
		}
		steps[i] = Mt.Chord(mp.chordAt(i)...)
	}
	return steps
}

// PianoMelody walks the scale with a cursor.
// Most steps jump to a tone of the current chord, the rest move
// one degree up or down, or hold, clamped to the scale.
func PianoMelody(mp *MoodProfile, gate []float64, rng Source) []Mt.Step {
	steps := make([]Mt.Step, len(gate))
	cursor := len(mp.Scale) / 2

	for i, g := range gate {
		if g <= 0 {
			continue
		}
		if rng.Float64() < melodyChordTo {
			chord := mp.chordAt(i)
			tone := chord[rng.IntN(len(chord))]
			if idx := slices.Index(mp.Scale, tone); idx >= 0 {
				cursor = idx
			}
			steps[i] = Mt.Note(tone)
			continue
		}
		cursor += rng.IntN(3) - 1
		cursor = max(0, min(cursor, len(mp.Scale)-1))
		steps[i] = Mt.Note(mp.Scale[cursor])
	}
	return steps
}
