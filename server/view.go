package ostinato

import (
	"context"
	"fmt"
	"strings"

	Mt "github.com/maroda/ostinato/types"
)

// GetComposition returns a readable digest of the document.
// It does not take the lock.
func (s *Store) GetComposition(ctx context.Context) Result {
	doc, err := s.Snapshot(ctx)
	if err != nil {
		res := failure(err)
		s.Stats.RecOperation("getComposition", res.Status, 0)
		return res
	}

	summary := Digest(doc)
	res := ok(summary)
	res.Summary = summary
	res.Timeline = doc.Timeline
	res.TotalSections = len(doc.Timeline)
	s.Stats.RecOperation("getComposition", res.Status, 0)
	return res
}

// Digest renders the timeline order and one line per pattern:
// measures, tempo and instruments.
func Digest(doc *Mt.Composition) string {
	timeline := "empty"
	if len(doc.Timeline) > 0 {
		timeline = strings.Join(doc.Timeline, " → ")
	}

	lines := []string{
		"Timeline: " + timeline,
		fmt.Sprintf("Patterns: %d", len(doc.Patterns)),
	}
	for _, name := range sortedPatternNames(doc) {
		p := doc.Patterns[name]
		instruments := strings.Join(sortedInstruments(p), ", ")
		if instruments == "" {
			instruments = "empty"
		}
		lines = append(lines, fmt.Sprintf("%s (%d measures, %g BPM): %s", name, p.Length, doc.EffectiveTempo(p), instruments))
	}
	return strings.Join(lines, "\n")
}

// ResetComposition replaces the document with an empty session.
// The current document is not read, so this also recovers from a corrupt one.
func (s *Store) ResetComposition(ctx context.Context) Result {
	return s.run(ctx, "resetComposition", func() (Result, error) {
		doc := Mt.NewComposition()
		if err := s.save(doc); err != nil {
			return Result{}, err
		}
		return ok(fmt.Sprintf("Started a new session (tempo: %g BPM, key: %s).", doc.Tempo, doc.Key)), nil
	})
}
