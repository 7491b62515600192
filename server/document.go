package ostinato

import (
	"fmt"
	"slices"

	Mt "github.com/maroda/ostinato/types"
)

// Input ranges accepted by the operations.
const (
	MinTempo  = 40.0
	MaxTempo  = 200.0
	MinLength = 2
	MaxLength = 16
)

// Validate checks the invariants every stored document must hold.
// A pattern without an id takes its key.
func Validate(doc *Mt.Composition) error {
	if doc == nil {
		return fmt.Errorf("no document")
	}
	if doc.Tempo <= 0 {
		return fmt.Errorf("tempo must be positive, got %v", doc.Tempo)
	}
	doc.Normalize()

	for id, p := range doc.Patterns {
		if id == "" || p == nil {
			return fmt.Errorf("empty pattern entry %q", id)
		}
		if p.ID == "" {
			p.ID = id
		}
		if p.ID != id {
			return fmt.Errorf("pattern %q has id %q", id, p.ID)
		}
		if p.Length < 1 {
			return fmt.Errorf("pattern %q has length %d", id, p.Length)
		}
		if p.Tempo != nil && *p.Tempo <= 0 {
			return fmt.Errorf("pattern %q has tempo %v", id, *p.Tempo)
		}
		for inst, tr := range p.Tracks {
			if err := validateTrack(inst, tr); err != nil {
				return fmt.Errorf("pattern %q: %w", id, err)
			}
		}
	}

	for i, id := range doc.Timeline {
		if _, ok := doc.Patterns[id]; !ok {
			return fmt.Errorf("timeline position %d references missing pattern %q", i, id)
		}
	}
	return nil
}

func validateTrack(key Mt.Instrument, tr *Mt.InstrumentTrack) error {
	if tr == nil {
		return fmt.Errorf("empty %s track", key)
	}
	if !key.Valid() || tr.Instrument != key {
		return fmt.Errorf("track %q is filed under %q", tr.Instrument, key)
	}
	if tr.Volume < 0 || tr.Volume > 1 {
		return fmt.Errorf("%s volume %v outside 0-1", key, tr.Volume)
	}
	switch {
	case key.Melodic() && tr.Melodic() == nil:
		return fmt.Errorf("%s track has no notes", key)
	case !key.Melodic() && tr.Drum() == nil:
		return fmt.Errorf("%s track has no drum pattern", key)
	}
	if d := tr.Drum(); d != nil {
		for _, lane := range [][]float64{d.Pattern.Kick, d.Pattern.Snare, d.Pattern.Hihat} {
			if slices.ContainsFunc(lane, func(v float64) bool { return v < 0 || v > 1 }) {
				return fmt.Errorf("drum velocity outside 0-1")
			}
		}
	}
	return nil
}

func checkTempo(tempo float64) error {
	if tempo < MinTempo || tempo > MaxTempo {
		return rejectf("Tempo must be between %g and %g BPM, got %g.", MinTempo, MaxTempo, tempo)
	}
	return nil
}

func checkLength(length int) error {
	if length < MinLength || length > MaxLength {
		return rejectf("Length must be between %d and %d measures, got %d.", MinLength, MaxLength, length)
	}
	return nil
}

func sortedPatternNames(doc *Mt.Composition) []string {
	names := make([]string, 0, len(doc.Patterns))
	for name := range doc.Patterns {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func sortedInstruments(p *Mt.Pattern) []string {
	names := make([]string, 0, len(p.Tracks))
	for inst := range p.Tracks {
		names = append(names, string(inst))
	}
	slices.Sort(names)
	return names
}
