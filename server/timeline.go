package ostinato

import (
	"context"
	"fmt"
	"slices"
	"strings"

	Mt "github.com/maroda/ostinato/types"
)

// UpdateTimeline replaces the timeline with ids.
// Setting the current arrangement again is reported as unchanged.
func (s *Store) UpdateTimeline(ctx context.Context, ids []string) Result {
	return s.mutate(ctx, "updateTimeline", func(doc *Mt.Composition) (Result, error) {
		if len(ids) == 0 {
			return Result{}, rejectf("timeline cannot be empty. Use clearTimeline to empty it.")
		}
		if slices.Equal(doc.Timeline, ids) {
			return Result{}, unchangedf("Timeline is already set to this arrangement. The composition is complete - no need to call this again.")
		}

		var invalid []string
		for _, id := range ids {
			if _, exists := doc.Patterns[id]; !exists {
				invalid = append(invalid, id)
			}
		}
		if len(invalid) > 0 {
			return Result{}, rejectf("Invalid patterns: %s. Create missing patterns first.", strings.Join(invalid, ", "))
		}

		doc.Timeline = slices.Clone(ids)

		res := ok(fmt.Sprintf("Timeline updated: %s. Your composition is now arranged and ready to play!", strings.Join(ids, " → ")))
		res.Timeline = slices.Clone(doc.Timeline)
		res.TotalSections = len(doc.Timeline)
		return res, nil
	})
}

// AddPatternToTimeline inserts name before position, or appends when position is nil or -1.
func (s *Store) AddPatternToTimeline(ctx context.Context, name string, position *int) Result {
	return s.mutate(ctx, "addPatternToTimeline", func(doc *Mt.Composition) (Result, error) {
		if _, exists := doc.Patterns[name]; !exists {
			return Result{}, rejectf("Pattern %q does not exist.", name)
		}

		var msg string
		if position == nil || *position == -1 {
			doc.Timeline = append(doc.Timeline, name)
			msg = fmt.Sprintf("Added pattern %q to end of timeline at position %d.", name, len(doc.Timeline)-1)
		} else {
			pos := *position
			if pos < 0 || pos > len(doc.Timeline) {
				return Result{}, rejectf("Position %d is out of bounds. Timeline length: %d", pos, len(doc.Timeline))
			}
			doc.Timeline = slices.Insert(doc.Timeline, pos, name)
			msg = fmt.Sprintf("Inserted pattern %q at position %d in timeline.", name, pos)
		}

		res := ok(msg)
		res.Timeline = slices.Clone(doc.Timeline)
		res.TotalSections = len(doc.Timeline)
		return res, nil
	})
}

// RemovePatternFromTimeline removes the entry at position, or else the first entry named name.
// When both are given, position wins.
func (s *Store) RemovePatternFromTimeline(ctx context.Context, position *int, name string) Result {
	return s.mutate(ctx, "removePatternFromTimeline", func(doc *Mt.Composition) (Result, error) {
		var msg string
		switch {
		case position != nil:
			pos := *position
			if pos < 0 || pos >= len(doc.Timeline) {
				return Result{}, rejectf("Position %d is out of bounds. Timeline length: %d", pos, len(doc.Timeline))
			}
			removed := doc.Timeline[pos]
			doc.Timeline = slices.Delete(doc.Timeline, pos, pos+1)
			msg = fmt.Sprintf("Removed pattern %q from timeline at position %d.", removed, pos)
		case name != "":
			idx := slices.Index(doc.Timeline, name)
			if idx == -1 {
				return Result{}, rejectf("Pattern %q not found in timeline.", name)
			}
			doc.Timeline = slices.Delete(doc.Timeline, idx, idx+1)
			msg = fmt.Sprintf("Removed first occurrence of pattern %q from timeline (was at position %d).", name, idx)
		default:
			return Result{}, rejectf("Either position or patternName must be provided.")
		}

		res := ok(msg)
		res.Timeline = slices.Clone(doc.Timeline)
		res.TotalSections = len(doc.Timeline)
		return res, nil
	})
}

// ClearTimeline empties the timeline and keeps every pattern.
func (s *Store) ClearTimeline(ctx context.Context) Result {
	return s.mutate(ctx, "clearTimeline", func(doc *Mt.Composition) (Result, error) {
		count := len(doc.Timeline)
		doc.Timeline = []string{}
		return ok(fmt.Sprintf("Cleared timeline (removed %d entries).", count)), nil
	})
}
