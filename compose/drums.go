package compose

import Mt "github.com/maroda/ostinato/types"

// Drum loops are always Mt.DrumSteps long.
var (
	sadDrums = Mt.DrumPattern{
		Kick:      []float64{0.8, 0, 0, 0, 0, 0, 0, 0, 0.7, 0, 0, 0, 0, 0, 0, 0},
		Snare:     []float64{0, 0, 0, 0, 0.5, 0, 0, 0, 0, 0, 0, 0, 0.5, 0, 0, 0},
		Hihat:     []float64{0.3, 0, 0.2, 0, 0.3, 0, 0.2, 0, 0.3, 0, 0.2, 0, 0.3, 0, 0.2, 0},
		Intensity: Mt.IntensityLow,
	}
	melancholicDrums = Mt.DrumPattern{
		Kick:      []float64{0.8, 0, 0, 0, 0, 0, 0, 0.4, 0.7, 0, 0, 0, 0, 0, 0, 0},
		Snare:     []float64{0, 0, 0, 0, 0.55, 0, 0, 0, 0, 0, 0, 0, 0.55, 0, 0, 0.2},
		Hihat:     []float64{0.3, 0, 0.3, 0, 0.3, 0, 0.3, 0, 0.3, 0, 0.3, 0, 0.3, 0, 0.3, 0},
		Intensity: Mt.IntensityLow,
	}
	chillDrums = Mt.DrumPattern{
		Kick:      []float64{0.9, 0, 0, 0, 0, 0, 0.6, 0, 0.8, 0, 0, 0, 0, 0, 0, 0},
		Snare:     []float64{0, 0, 0, 0, 0.7, 0, 0, 0, 0, 0, 0, 0, 0.7, 0, 0, 0.2},
		Hihat:     []float64{0.4, 0, 0.25, 0, 0.4, 0, 0.25, 0, 0.4, 0, 0.25, 0, 0.4, 0, 0.25, 0},
		Intensity: Mt.IntensityMedium,
	}
	happyDrums = Mt.DrumPattern{
		Kick:      []float64{0.9, 0, 0, 0, 0, 0, 0, 0, 0.9, 0, 0.6, 0, 0, 0, 0, 0},
		Snare:     []float64{0, 0, 0, 0, 0.8, 0, 0, 0, 0, 0, 0, 0, 0.8, 0, 0, 0},
		Hihat:     []float64{0.5, 0.2, 0.5, 0.2, 0.5, 0.2, 0.5, 0.2, 0.5, 0.2, 0.5, 0.2, 0.5, 0.2, 0.5, 0.2},
		Intensity: Mt.IntensityMedium,
	}
	upbeatDrums = Mt.DrumPattern{
		Kick:      []float64{1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0},
		Snare:     []float64{0, 0, 0, 0, 0.9, 0, 0, 0, 0, 0, 0, 0, 0.9, 0, 0.3, 0},
		Hihat:     []float64{0.6, 0.35, 0.6, 0.35, 0.6, 0.35, 0.6, 0.35, 0.6, 0.35, 0.6, 0.35, 0.6, 0.35, 0.6, 0.35},
		Intensity: Mt.IntensityHigh,
	}
)

// Drums returns a copy of the mood's drum loop.
func Drums(m Mt.Mood) Mt.DrumPattern {
	return MoodFor(m).Drums.Clone()
}

// LegacyDrumPattern migrates a drum track that only named a sample loop.
// Every such loop becomes the chill pattern.
func LegacyDrumPattern(style string) (Mt.DrumPattern, bool) {
	if style == "" {
		return Mt.DrumPattern{}, false
	}
	return Drums(Mt.Chill), true
}

func init() {
	Mt.LegacyDrums = LegacyDrumPattern
}
