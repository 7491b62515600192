package types

// Clone returns a deep copy of the composition.
func (c *Composition) Clone() *Composition {
	if c == nil {
		return nil
	}
	cc := &Composition{
		Tempo:    c.Tempo,
		Key:      c.Key,
		Timeline: append([]string{}, c.Timeline...),
		Patterns: make(map[string]*Pattern, len(c.Patterns)),
	}
	for id, p := range c.Patterns {
		cc.Patterns[id] = p.Clone()
	}
	return cc
}

// Clone returns a deep copy of the pattern, sharing nothing with p.
func (p *Pattern) Clone() *Pattern {
	if p == nil {
		return nil
	}
	cp := &Pattern{
		ID:     p.ID,
		Length: p.Length,
		Tracks: make(map[Instrument]*InstrumentTrack, len(p.Tracks)),
	}
	if p.Tempo != nil {
		tempo := *p.Tempo
		cp.Tempo = &tempo
	}
	for inst, t := range p.Tracks {
		cp.Tracks[inst] = t.Clone()
	}
	return cp
}

func (t *InstrumentTrack) Clone() *InstrumentTrack {
	if t == nil {
		return nil
	}
	ct := *t
	switch b := t.Body.(type) {
	case *MelodicTrack:
		notes := make([]Step, len(b.Notes))
		for i, s := range b.Notes {
			notes[i] = Step{Notes: append([]string(nil), s.Notes...), Chord: s.Chord}
		}
		ct.Body = &MelodicTrack{Notes: notes}
	case *DrumTrack:
		ct.Body = &DrumTrack{Pattern: b.Pattern.Clone()}
	}
	return &ct
}

func (d DrumPattern) Clone() DrumPattern {
	return DrumPattern{
		Kick:      append([]float64(nil), d.Kick...),
		Snare:     append([]float64(nil), d.Snare...),
		Hihat:     append([]float64(nil), d.Hihat...),
		Intensity: d.Intensity,
	}
}

// EffectiveTempo is the pattern override when set, otherwise the composition tempo.
// Non-positive values are ignored, DefaultTempo is the last resort.
func (c *Composition) EffectiveTempo(p *Pattern) float64 {
	if p != nil && p.Tempo != nil && *p.Tempo > 0 {
		return *p.Tempo
	}
	if c.Tempo > 0 {
		return c.Tempo
	}
	return DefaultTempo
}
