package types

/*

	These are the core types of Ostinato,
	provided for cross-package use (e.g. Plugins) and testing.

	The Composition is the single document every operation works on.
	JSON shapes and deep copies live in codec.go and clone.go,
	everything else that works on these types lives in its own package.

*/

import "time"

// Instrument identifies the kind of voice a track is played on.
type Instrument string

const (
	Piano Instrument = "piano"
	Bass  Instrument = "bass"
	Drums Instrument = "drums"
)

// Instruments lists every supported kind, in display order.
var Instruments = []Instrument{Drums, Piano, Bass}

// Melodic tracks carry notes, percussive tracks carry a drum pattern.
func (i Instrument) Melodic() bool { return i == Piano || i == Bass }

func (i Instrument) Valid() bool { return i == Piano || i == Bass || i == Drums }

// Mood is a named bundle of scale, chords and performance defaults.
type Mood string

const (
	Sad         Mood = "sad"
	Happy       Mood = "happy"
	Chill       Mood = "chill"
	Melancholic Mood = "melancholic"
	Upbeat      Mood = "upbeat"
)

// Rhythm names a gate pattern template.
type Rhythm string

const (
	Simple     Rhythm = "simple"
	Sparse     Rhythm = "sparse"
	Active     Rhythm = "active"
	Shuffled   Rhythm = "shuffled"
	Dotted     Rhythm = "dotted"
	Offbeat    Rhythm = "offbeat"
	Triplets   Rhythm = "triplets"
	Syncopated Rhythm = "syncopated"
	Steady     Rhythm = "steady"
	HalfTime   Rhythm = "half_time"
)

// BassStyle selects the bass line generator.
type BassStyle string

const (
	BassRoot     BassStyle = "root"
	BassWalking  BassStyle = "walking"
	BassArpeggio BassStyle = "arpeggio"
	BassOctaves  BassStyle = "octaves"
	BassPedal    BassStyle = "pedal"
)

// TrackType selects the piano generator.
type TrackType string

const (
	PianoChords TrackType = "chords"
	PianoMelody TrackType = "melody"
)

// Intensity labels a drum pattern.
type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

// StepsPerMeasure is the number of schedulable steps in one measure.
const StepsPerMeasure = 4

// DrumSteps is the fixed loop length of every drum pattern.
const DrumSteps = 16

// Composition is the root document.
// It is owned by the Store and only mutated inside a locked operation.
type Composition struct {
	Tempo    float64             `json:"tempo"`
	Key      string              `json:"key"`
	Timeline []string            `json:"timeline"`
	Patterns map[string]*Pattern `json:"patterns"`
}

// Pattern is a named, fixed-length section.
// Tempo is nil when the pattern follows the composition tempo.
type Pattern struct {
	ID     string                          `json:"id"`
	Length int                             `json:"length"`
	Tempo  *float64                        `json:"tempo,omitempty"`
	Tracks map[Instrument]*InstrumentTrack `json:"tracks"`
}

// InstrumentTrack is one instrument's content within a pattern.
// Body is a closed union: *MelodicTrack for piano and bass, *DrumTrack for drums.
// Mood, Rhythm and Style record how the content was generated.
type InstrumentTrack struct {
	Instrument Instrument
	Mood       Mood
	Rhythm     Rhythm
	Style      string
	Volume     float64 // 0-1, defaults to 1
	Muted      bool
	Body       TrackBody
}

// TrackBody is implemented only by MelodicTrack and DrumTrack.
type TrackBody interface {
	trackBody()
}

// MelodicTrack holds one Step per pattern step.
type MelodicTrack struct {
	Notes []Step
}

// DrumTrack holds a 16 step velocity pattern.
type DrumTrack struct {
	Pattern DrumPattern
}

func (*MelodicTrack) trackBody() {}
func (*DrumTrack) trackBody()    {}

// DrumPattern velocities are in [0,1], zero is silence.
type DrumPattern struct {
	Kick      []float64 `json:"kick"`
	Snare     []float64 `json:"snare"`
	Hihat     []float64 `json:"hihat"`
	Intensity Intensity `json:"intensity"`
}

// Step is one entry of a melodic track.
// No notes is a rest, Chord marks a set of simultaneous notes.
type Step struct {
	Notes []string
	Chord bool
}

// Performance describes how a mood should sound.
// These are consumed by the playback voice, not by note selection.
type Performance struct {
	Reverb       float64 // wet amount 0-1
	Attack       float64 // seconds
	Release      float64 // seconds
	Brightness   float64 // 0-1
	Tempo        float64 // suggested BPM
	VelocityMin  float64
	VelocityMax  float64
	Articulation string // legato, staccato, ...
}

// VoiceEvent is what the Scheduler asks a playback host to sound.
// Voice is set for drums (kick, snare, hihat), empty for melodic tracks.
type VoiceEvent struct {
	Instrument  Instrument
	Voice       string
	Notes       []string
	Velocity    float64
	At          time.Time
	Duration    time.Duration
	Performance Performance
}
