package compose

/*

	Moods are the only musical knowledge in Ostinato.
	A mood fixes the scale family, a four chord progression,
	the bass roots for each chord, and how the result should be played back.

*/

import Mt "github.com/maroda/ostinato/types"

var (
	minorPentatonic     = []string{"C3", "Eb3", "F3", "G3", "Bb3", "C4", "Eb4", "F4", "G4", "Bb4"}
	majorPentatonic     = []string{"C3", "D3", "E3", "G3", "A3", "C4", "D4", "E4", "G4", "A4"}
	minorPentatonicBass = []string{"C2", "Eb2", "F2", "G2", "Bb2", "C3", "Eb3", "F3"}
	majorPentatonicBass = []string{"C2", "D2", "E2", "G2", "A2", "C3", "D3", "E3"}
)

// MoodProfile is everything the engine knows about one mood.
type MoodProfile struct {
	Name        Mt.Mood
	ScaleName   string
	Scale       []string
	BassScale   []string
	Chords      [][]string
	BassNotes   []string
	Density     float64
	Performance Mt.Performance
	Drums       Mt.DrumPattern
}

// Moods is the lookup table for every supported mood.
var Moods = map[Mt.Mood]*MoodProfile{
	Mt.Sad: {
		Name:      Mt.Sad,
		ScaleName: "C_minor_pentatonic",
		Scale:     minorPentatonic,
		BassScale: minorPentatonicBass,
		Chords: [][]string{
			{"C4", "Eb4", "G4"}, // Cm
			{"Bb3", "D4", "F4"}, // Bb
			{"F3", "Ab3", "C4"}, // Fm
			{"G3", "Bb3", "D4"}, // Gm
		},
		BassNotes: []string{"C2", "Bb2", "F2", "G2"},
		Density:   0.7,
		Performance: Mt.Performance{
			Reverb: 0.6, Attack: 0.08, Release: 2.5, Brightness: 0.3,
			Tempo: 70, VelocityMin: 0.35, VelocityMax: 0.6, Articulation: "legato",
		},
		Drums: sadDrums,
	},
	Mt.Melancholic: {
		Name:      Mt.Melancholic,
		ScaleName: "C_minor_pentatonic",
		Scale:     minorPentatonic,
		BassScale: minorPentatonicBass,
		Chords: [][]string{
			{"C4", "Eb4", "G4"},
			{"G3", "Bb3", "D4"},
			{"F3", "Ab3", "C4"},
			{"Eb3", "G3", "Bb3"},
		},
		BassNotes: []string{"C2", "G2", "F2", "Eb2"},
		Density:   0.75,
		Performance: Mt.Performance{
			Reverb: 0.5, Attack: 0.05, Release: 2.0, Brightness: 0.35,
			Tempo: 75, VelocityMin: 0.4, VelocityMax: 0.65, Articulation: "legato",
		},
		Drums: melancholicDrums,
	},
	Mt.Chill: {
		Name:      Mt.Chill,
		ScaleName: "C_minor_pentatonic",
		Scale:     minorPentatonic,
		BassScale: minorPentatonicBass,
		Chords: [][]string{
			{"C4", "Eb4", "G4"},
			{"F3", "Ab3", "C4"},
			{"G3", "Bb3", "D4"},
			{"Eb3", "G3", "Bb3"},
		},
		BassNotes: []string{"C2", "F2", "G2", "Eb2"},
		Density:   0.65,
		Performance: Mt.Performance{
			Reverb: 0.4, Attack: 0.02, Release: 1.5, Brightness: 0.45,
			Tempo: 80, VelocityMin: 0.5, VelocityMax: 0.7, Articulation: "soft",
		},
		Drums: chillDrums,
	},
	Mt.Happy: {
		Name:      Mt.Happy,
		ScaleName: "C_major_pentatonic",
		Scale:     majorPentatonic,
		BassScale: majorPentatonicBass,
		Chords: [][]string{
			{"C4", "E4", "G4"}, // C
			{"G3", "B3", "D4"}, // G
			{"A3", "C4", "E4"}, // Am
			{"F3", "A3", "C4"}, // F
		},
		BassNotes: []string{"C2", "G2", "A2", "F2"},
		Density:   0.8,
		Performance: Mt.Performance{
			Reverb: 0.25, Attack: 0.01, Release: 0.8, Brightness: 0.7,
			Tempo: 100, VelocityMin: 0.6, VelocityMax: 0.85, Articulation: "bouncy",
		},
		Drums: happyDrums,
	},
	Mt.Upbeat: {
		Name:      Mt.Upbeat,
		ScaleName: "C_major_pentatonic",
		Scale:     majorPentatonic,
		BassScale: majorPentatonicBass,
		Chords: [][]string{
			{"C4", "E4", "G4"},
			{"D4", "F4", "A4"},
			{"E4", "G4", "B4"},
			{"G3", "B3", "D4"},
		},
		BassNotes: []string{"C2", "D2", "E2", "G2"},
		Density:   0.85,
		Performance: Mt.Performance{
			Reverb: 0.15, Attack: 0.005, Release: 0.4, Brightness: 0.85,
			Tempo: 120, VelocityMin: 0.7, VelocityMax: 1.0, Articulation: "staccato",
		},
		Drums: upbeatDrums,
	},
}

// MoodFor returns the profile for m, falling back to the default mood.
func MoodFor(m Mt.Mood) *MoodProfile {
	if p, ok := Moods[m]; ok {
		return p
	}
	return Moods[Mt.Mood(Defaults[OptMood])]
}

// Velocity is the midpoint of the mood's velocity range.
func (mp *MoodProfile) Velocity() float64 {
	return (mp.Performance.VelocityMin + mp.Performance.VelocityMax) / 2
}

// chordAt returns the progression slot for a step, one chord per measure.
func (mp *MoodProfile) chordAt(step int) []string {
	return mp.Chords[(step/Mt.StepsPerMeasure)%len(mp.Chords)]
}

func (mp *MoodProfile) rootAt(step int) string {
	return mp.BassNotes[(step/Mt.StepsPerMeasure)%len(mp.BassNotes)]
}
