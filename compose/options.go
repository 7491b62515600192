package compose

import (
	"fmt"
	"slices"

	Mt "github.com/maroda/ostinato/types"
)

// Option names used in Defaults.
const (
	OptMood      = "mood"
	OptRhythm    = "rhythm"
	OptTrackType = "trackType"
	OptBassStyle = "bassStyle"
)

// Defaults is applied once, before the engine runs.
var Defaults = map[string]string{
	OptMood:      string(Mt.Chill),
	OptRhythm:    string(Mt.Simple),
	OptTrackType: string(Mt.PianoChords),
	OptBassStyle: string(Mt.BassRoot),
}

// DefaultLength is the pattern length in measures when none is given.
const DefaultLength = 4

// Options is one track generation request.
type Options struct {
	Mood      Mt.Mood
	Rhythm    Mt.Rhythm
	TrackType Mt.TrackType
	BassStyle Mt.BassStyle
	Length    int
}

// Resolve fills every unset option from Defaults.
func (o Options) Resolve() Options {
	if o.Mood == "" {
		o.Mood = Mt.Mood(Defaults[OptMood])
	}
	if o.Rhythm == "" {
		o.Rhythm = Mt.Rhythm(Defaults[OptRhythm])
	}
	if o.TrackType == "" {
		o.TrackType = Mt.TrackType(Defaults[OptTrackType])
	}
	if o.BassStyle == "" {
		o.BassStyle = Mt.BassStyle(Defaults[OptBassStyle])
	}
	if o.Length <= 0 {
		o.Length = DefaultLength
	}
	return o
}

// Validate rejects names the engine does not know.
// Empty values are allowed, they resolve to defaults.
func (o Options) Validate() error {
	if o.Mood != "" {
		if _, ok := Moods[o.Mood]; !ok {
			return fmt.Errorf("unknown mood %q, expected one of %v", o.Mood, MoodNames())
		}
	}
	if o.Rhythm != "" {
		if _, ok := Rhythms[o.Rhythm]; !ok {
			return fmt.Errorf("unknown rhythm %q, expected one of %v", o.Rhythm, RhythmNames())
		}
	}
	if o.TrackType != "" && o.TrackType != Mt.PianoChords && o.TrackType != Mt.PianoMelody {
		return fmt.Errorf("unknown trackType %q, expected chords or melody", o.TrackType)
	}
	if o.BassStyle != "" {
		if _, ok := BassLines[o.BassStyle]; !ok {
			return fmt.Errorf("unknown bassStyle %q, expected one of %v", o.BassStyle, BassStyleNames())
		}
	}
	return nil
}

func MoodNames() []string { return sortedKeys(Moods) }

func RhythmNames() []string { return sortedKeys(Rhythms) }

func BassStyleNames() []string { return sortedKeys(BassLines) }

func sortedKeys[K ~string, V any](m map[K]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, string(k))
	}
	slices.Sort(names)
	return names
}
