package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Rest returns an empty step.
func Rest() Step { return Step{} }

// Note returns a single note step.
func Note(n string) Step { return Step{Notes: []string{n}} }

// Chord returns a step of simultaneous notes.
func Chord(notes ...string) Step {
	return Step{Notes: append([]string(nil), notes...), Chord: true}
}

func (s Step) IsRest() bool { return len(s.Notes) == 0 }

// MarshalJSON writes null for a rest, a string for a note, an array for a chord.
func (s Step) MarshalJSON() ([]byte, error) {
	switch {
	case s.IsRest():
		return []byte("null"), nil
	case s.Chord:
		return json.Marshal(s.Notes)
	default:
		return json.Marshal(s.Notes[0])
	}
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*s = Rest()
	case string:
		if v == "" {
			return errors.New("step: empty note name")
		}
		*s = Note(v)
	case []any:
		if len(v) == 0 {
			return errors.New("step: empty chord")
		}
		notes := make([]string, 0, len(v))
		for _, n := range v {
			name, ok := n.(string)
			if !ok || name == "" {
				return fmt.Errorf("step: invalid chord note %v", n)
			}
			notes = append(notes, name)
		}
		*s = Chord(notes...)
	default:
		return fmt.Errorf("step: unsupported value %v", v)
	}
	return nil
}

// trackWire is the on-disk shape of an InstrumentTrack.
// Style doubles as the legacy drum loop name from older documents.
type trackWire struct {
	Instrument  Instrument   `json:"instrument"`
	Mood        Mood         `json:"mood,omitempty"`
	Rhythm      Rhythm       `json:"rhythm,omitempty"`
	Style       string       `json:"style,omitempty"`
	Notes       []Step       `json:"notes,omitempty"`
	DrumPattern *DrumPattern `json:"drumPattern,omitempty"`
	Volume      *float64     `json:"volume,omitempty"`
	Muted       bool         `json:"muted,omitempty"`
}

// LegacyDrums is called to migrate a drum track that only names a loop style.
// It is set by the generation engine; a nil value rejects such tracks.
var LegacyDrums func(style string) (DrumPattern, bool)

func (t InstrumentTrack) MarshalJSON() ([]byte, error) {
	volume := t.Volume
	w := trackWire{
		Instrument: t.Instrument,
		Mood:       t.Mood,
		Rhythm:     t.Rhythm,
		Style:      t.Style,
		Volume:     &volume,
		Muted:      t.Muted,
	}
	switch b := t.Body.(type) {
	case *MelodicTrack:
		w.Notes = b.Notes
		if w.Notes == nil {
			w.Notes = []Step{}
		}
	case *DrumTrack:
		dp := b.Pattern
		w.DrumPattern = &dp
	default:
		return nil, fmt.Errorf("track %s: no content", t.Instrument)
	}
	return json.Marshal(w)
}

// UnmarshalJSON builds the Body from the instrument kind and rejects shapes
// that do not belong to it.
func (t *InstrumentTrack) UnmarshalJSON(data []byte) error {
	var w trackWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Instrument.Valid() {
		return fmt.Errorf("track: unknown instrument %q", w.Instrument)
	}

	*t = InstrumentTrack{
		Instrument: w.Instrument,
		Mood:       w.Mood,
		Rhythm:     w.Rhythm,
		Style:      w.Style,
		Volume:     1,
		Muted:      w.Muted,
	}
	if w.Volume != nil {
		t.Volume = *w.Volume
	}

	if w.Instrument.Melodic() {
		if w.DrumPattern != nil {
			return fmt.Errorf("track %s: melodic track has a drum pattern", w.Instrument)
		}
		notes := w.Notes
		if notes == nil {
			notes = []Step{}
		}
		t.Body = &MelodicTrack{Notes: notes}
		return nil
	}

	if len(w.Notes) > 0 {
		return fmt.Errorf("track %s: drum track has notes", w.Instrument)
	}
	if w.DrumPattern == nil {
		if w.Style == "" || LegacyDrums == nil {
			return fmt.Errorf("track %s: missing drum pattern", w.Instrument)
		}
		dp, ok := LegacyDrums(w.Style)
		if !ok {
			return fmt.Errorf("track %s: unknown legacy style %q", w.Instrument, w.Style)
		}
		w.DrumPattern = &dp
	}
	t.Body = &DrumTrack{Pattern: *w.DrumPattern}
	return nil
}

// Melodic returns the melodic body, or nil for drums.
func (t *InstrumentTrack) Melodic() *MelodicTrack {
	m, _ := t.Body.(*MelodicTrack)
	return m
}

// Drum returns the drum body, or nil for melodic tracks.
func (t *InstrumentTrack) Drum() *DrumTrack {
	d, _ := t.Body.(*DrumTrack)
	return d
}
