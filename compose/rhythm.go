package compose

import Mt "github.com/maroda/ostinato/types"

// Rhythms holds the base gate pattern for each rhythm.
// 0 is a rest, values below 1 are ghost notes, 1 is an accent.
var Rhythms = map[Mt.Rhythm][]float64{
	Mt.Simple:     {1, 0, 1, 0},
	Mt.Sparse:     {1, 0, 0, 1},
	Mt.Active:     {1, 0, 1, 1},
	Mt.Offbeat:    {0, 1, 0, 1},
	Mt.Steady:     {1, 1, 1, 1},
	Mt.Shuffled:   {1, 0, 0.6, 1, 0, 1, 0.6, 0},
	Mt.Dotted:     {1, 0, 0, 1, 0, 0, 1, 0},
	Mt.Triplets:   {1, 0.5, 0.5, 1, 0.5, 0.5, 1, 0},
	Mt.Syncopated: {1, 0, 0.5, 1, 0, 1, 0, 0.5},
	Mt.HalfTime:   {1, 0, 0, 0, 0, 0, 0.5, 0},
}

// Gate tiles the rhythm's base pattern over length measures.
// Unknown rhythms use the default rhythm.
func Gate(r Mt.Rhythm, length int) []float64 {
	base, ok := Rhythms[r]
	if !ok {
		base = Rhythms[Mt.Rhythm(Defaults[OptRhythm])]
	}
	total := length * Mt.StepsPerMeasure
	if total < 0 {
		total = 0
	}
	gate := make([]float64, total)
	for i := range gate {
		gate[i] = base[i%len(base)]
	}
	return gate
}
