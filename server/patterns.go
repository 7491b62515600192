package ostinato

import (
	"context"
	"fmt"
	"slices"
	"strings"

	Mc "github.com/maroda/ostinato/compose"
	Mt "github.com/maroda/ostinato/types"
)

type CreatePatternInput struct {
	Name   string   // empty picks the next section name
	Tempo  *float64 // nil uses the composition tempo
	Length *int     // nil is Mc.DefaultLength
}

// CreatePattern inserts an empty pattern.
func (s *Store) CreatePattern(ctx context.Context, in CreatePatternInput) Result {
	return s.mutate(ctx, "createPattern", func(doc *Mt.Composition) (Result, error) {
		name := strings.TrimSpace(in.Name)
		length := Mc.DefaultLength
		if in.Length != nil {
			if err := checkLength(*in.Length); err != nil {
				return Result{}, err
			}
			length = *in.Length
		}
		tempo := doc.Tempo
		if in.Tempo != nil {
			if err := checkTempo(*in.Tempo); err != nil {
				return Result{}, err
			}
			tempo = *in.Tempo
		}

		if name == "" {
			name = NextPatternName(doc)
		} else if _, exists := doc.Patterns[name]; exists {
			return Result{}, rejectf("Pattern %q already exists. Choose a different name or use updatePatternProperties to modify it.", name)
		}

		p := &Mt.Pattern{
			ID:     name,
			Length: length,
			Tempo:  &tempo,
			Tracks: map[Mt.Instrument]*Mt.InstrumentTrack{},
		}
		doc.Patterns[name] = p

		res := ok(fmt.Sprintf("Created pattern %q (tempo: %g BPM, length: %d measures).", name, tempo, length))
		res.Pattern = p.Clone()
		res.PatternName = name
		return res, nil
	})
}

// DeletePattern removes a pattern and every timeline entry that points to it.
func (s *Store) DeletePattern(ctx context.Context, name string) Result {
	return s.mutate(ctx, "deletePattern", func(doc *Mt.Composition) (Result, error) {
		if _, exists := doc.Patterns[name]; !exists {
			return Result{}, rejectf("Pattern %q does not exist.", name)
		}

		doc.Timeline = slices.DeleteFunc(doc.Timeline, func(id string) bool { return id == name })
		delete(doc.Patterns, name)

		res := ok(fmt.Sprintf("Deleted pattern %q and removed all occurrences from timeline.", name))
		res.RemainingPatterns = sortedPatternNames(doc)
		return res, nil
	})
}

// DeleteAllPatterns empties both patterns and timeline.
func (s *Store) DeleteAllPatterns(ctx context.Context) Result {
	return s.mutate(ctx, "deleteAllPatterns", func(doc *Mt.Composition) (Result, error) {
		count := len(doc.Patterns)
		doc.Patterns = map[string]*Mt.Pattern{}
		doc.Timeline = []string{}
		return ok(fmt.Sprintf("Deleted all %d patterns and cleared the timeline.", count)), nil
	})
}

// DuplicatePattern deep copies source under newName.
func (s *Store) DuplicatePattern(ctx context.Context, source, newName string) Result {
	return s.mutate(ctx, "duplicatePattern", func(doc *Mt.Composition) (Result, error) {
		src, exists := doc.Patterns[source]
		if !exists {
			return Result{}, rejectf("Source pattern %q does not exist.", source)
		}
		newName = strings.TrimSpace(newName)
		if newName == "" {
			return Result{}, rejectf("A new pattern name is required.")
		}
		if _, taken := doc.Patterns[newName]; taken {
			return Result{}, rejectf("Pattern %q already exists. Choose a different name.", newName)
		}

		p := src.Clone()
		p.ID = newName
		doc.Patterns[newName] = p

		res := ok(fmt.Sprintf("Duplicated pattern %q to %q.", source, newName))
		res.Pattern = p.Clone()
		res.PatternName = newName
		return res, nil
	})
}

type PatternProperties struct {
	Tempo  *float64
	Length *int
}

// UpdatePatternProperties sets tempo and/or length.
// Existing tracks keep their notes when the length changes.
func (s *Store) UpdatePatternProperties(ctx context.Context, name string, props PatternProperties) Result {
	return s.mutate(ctx, "updatePatternProperties", func(doc *Mt.Composition) (Result, error) {
		p, exists := doc.Patterns[name]
		if !exists {
			return Result{}, rejectf("Pattern %q does not exist.", name)
		}
		if props.Tempo == nil && props.Length == nil {
			return Result{}, rejectf("No properties provided to update. Specify tempo and/or length.")
		}

		var updates []string
		if props.Tempo != nil {
			if err := checkTempo(*props.Tempo); err != nil {
				return Result{}, err
			}
			tempo := *props.Tempo
			p.Tempo = &tempo
			updates = append(updates, fmt.Sprintf("tempo: %g BPM", tempo))
		}
		if props.Length != nil {
			if err := checkLength(*props.Length); err != nil {
				return Result{}, err
			}
			p.Length = *props.Length
			updates = append(updates, fmt.Sprintf("length: %d measures", p.Length))
		}

		res := ok(fmt.Sprintf("Updated pattern %q: %s", name, strings.Join(updates, ", ")))
		res.Pattern = p.Clone()
		res.PatternName = name
		return res, nil
	})
}
