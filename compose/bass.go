package compose

import (
	"fmt"

	Mt "github.com/maroda/ostinato/types"
)

// BassLine picks the note for one active gate.
// step is the absolute step index, hit counts active gates before this one.
type BassLine interface {
	Note(mp *MoodProfile, step, hit int) string
	Type() Mt.BassStyle
}

// BassLines is the registry of bass generators.
var BassLines = map[Mt.BassStyle]func() BassLine{
	Mt.BassRoot:     func() BassLine { return RootBass{} },
	Mt.BassWalking:  func() BassLine { return WalkingBass{} },
	Mt.BassArpeggio: func() BassLine { return ArpeggioBass{} },
	Mt.BassOctaves:  func() BassLine { return OctaveBass{} },
	Mt.BassPedal:    func() BassLine { return PedalBass{} },
}

func BassLineLookup(style Mt.BassStyle) (BassLine, error) {
	factory, ok := BassLines[style]
	if !ok {
		return nil, fmt.Errorf("unknown bass style: %s", style)
	}
	return factory(), nil
}

// RootBass plays the progression root of each measure.
type RootBass struct{}

func (RootBass) Note(mp *MoodProfile, step, _ int) string { return mp.rootAt(step) }
func (RootBass) Type() Mt.BassStyle                       { return Mt.BassRoot }

// WalkingBass climbs the bass scale one degree per hit and holds the top degree.
type WalkingBass struct{}

func (WalkingBass) Note(mp *MoodProfile, _, hit int) string {
	return mp.BassScale[min(hit, len(mp.BassScale)-1)]
}
func (WalkingBass) Type() Mt.BassStyle { return Mt.BassWalking }

// ArpeggioBass cycles the current chord two octaves down.
type ArpeggioBass struct{}

func (ArpeggioBass) Note(mp *MoodProfile, step, hit int) string {
	chord := mp.chordAt(step)
	return Transpose(chord[hit%len(chord)], -24)
}
func (ArpeggioBass) Type() Mt.BassStyle { return Mt.BassArpeggio }

// OctaveBass alternates the root and the root an octave up.
type OctaveBass struct{}

func (OctaveBass) Note(mp *MoodProfile, step, hit int) string {
	root := mp.rootAt(step)
	if hit%2 == 1 {
		return Transpose(root, 12)
	}
	return root
}
func (OctaveBass) Type() Mt.BassStyle { return Mt.BassOctaves }

// PedalBass holds the tonic through every chord change.
type PedalBass struct{}

func (PedalBass) Note(mp *MoodProfile, _, _ int) string { return mp.BassNotes[0] }
func (PedalBass) Type() Mt.BassStyle                   { return Mt.BassPedal }

// Bass renders a bass line over the gate.
// Unknown styles play the root.
func Bass(mp *MoodProfile, gate []float64, style Mt.BassStyle) []Mt.Step {
	line, err := BassLineLookup(style)
	if err != nil {
		line = RootBass{}
	}

	steps := make([]Mt.Step, len(gate))
	hit := 0
	for i, g := range gate {
		if g <= 0 {
			continue
		}
		steps[i] = Mt.Note(line.Note(mp, i, hit))
		hit++
	}
	return steps
}
