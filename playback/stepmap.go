package playback

import (
	Mt "github.com/maroda/ostinato/types"
)

// StepRef locates one scheduler step inside the arrangement.
type StepRef struct {
	TimelineIndex int    `json:"timelineIndex"`
	PatternID     string `json:"patternId"`
	Step          int    `json:"step"`
}

// StepMap is the timeline flattened into one looping sequence of steps.
type StepMap []StepRef

// WorkingLength is how many steps a pattern plays for:
// its declared measures, or longer when a melodic track has more notes.
// Drum tracks loop on their own and never extend a pattern.
func WorkingLength(p *Mt.Pattern) int {
	n := p.Length * Mt.StepsPerMeasure
	for _, tr := range p.Tracks {
		if m := tr.Melodic(); m != nil && len(m.Notes) > n {
			n = len(m.Notes)
		}
	}
	return n
}

// BuildStepMap walks the timeline in order.
// An entry naming a missing pattern keeps one measure of silent steps,
// which the scheduler skips.
func BuildStepMap(doc *Mt.Composition) StepMap {
	var steps StepMap
	for i, id := range doc.Timeline {
		n := Mt.StepsPerMeasure
		if p, ok := doc.Patterns[id]; ok && p != nil {
			n = WorkingLength(p)
		}
		for step := range n {
			steps = append(steps, StepRef{TimelineIndex: i, PatternID: id, Step: step})
		}
	}
	return steps
}
