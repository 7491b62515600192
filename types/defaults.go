package types

// Empty session values.
const (
	DefaultTempo = 80.0
	DefaultKey   = "C_minor"
)

// NewComposition returns the empty document a new session starts from.
func NewComposition() *Composition {
	return &Composition{
		Tempo:    DefaultTempo,
		Key:      DefaultKey,
		Timeline: []string{},
		Patterns: map[string]*Pattern{},
	}
}

// Normalize replaces nil collections so the document encodes as [] and {}.
func (c *Composition) Normalize() {
	if c.Timeline == nil {
		c.Timeline = []string{}
	}
	if c.Patterns == nil {
		c.Patterns = map[string]*Pattern{}
	}
	for _, p := range c.Patterns {
		if p != nil && p.Tracks == nil {
			p.Tracks = map[Instrument]*InstrumentTrack{}
		}
	}
}
