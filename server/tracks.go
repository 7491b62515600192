package ostinato

import (
	"context"
	"fmt"
	"strings"

	Mc "github.com/maroda/ostinato/compose"
	Mt "github.com/maroda/ostinato/types"
)

type AddTrackInput struct {
	PatternName string
	Instrument  Mt.Instrument
	Mood        Mt.Mood      // default chill
	Rhythm      Mt.Rhythm    // default simple
	TrackType   Mt.TrackType // piano only, default chords
	BassStyle   Mt.BassStyle // bass only, default root
}

// AddTrackToPattern generates content for an instrument the pattern does not have yet.
func (s *Store) AddTrackToPattern(ctx context.Context, in AddTrackInput) Result {
	return s.mutate(ctx, "addTrackToPattern", func(doc *Mt.Composition) (Result, error) {
		if !in.Instrument.Valid() {
			return Result{}, rejectf("Unknown instrument %q. Use piano, bass, or drums.", in.Instrument)
		}
		p, exists := doc.Patterns[in.PatternName]
		if !exists {
			return Result{}, rejectf("Pattern %q does not exist.", in.PatternName)
		}
		if _, taken := p.Tracks[in.Instrument]; taken {
			return Result{}, rejectf("%s already exists in pattern %q. Use removeTrackFromPattern first if you want to replace it.", in.Instrument, in.PatternName)
		}

		opts := Mc.Options{
			Mood:      in.Mood,
			Rhythm:    in.Rhythm,
			TrackType: in.TrackType,
			BassStyle: in.BassStyle,
			Length:    p.Length,
		}
		if err := opts.Validate(); err != nil {
			return Result{}, rejectf("%s.", err)
		}

		track, err := s.Engine.Track(in.Instrument, opts)
		if err != nil {
			return Result{}, rejectf("%s.", err)
		}
		p.Tracks[in.Instrument] = track

		var msg string
		if in.Instrument == Mt.Drums {
			msg = fmt.Sprintf("Added drums to pattern %q with %s mood (%s intensity).", in.PatternName, track.Mood, track.Drum().Pattern.Intensity)
		} else {
			msg = fmt.Sprintf("Added %s to pattern %q with %s mood and %s rhythm (%s).", in.Instrument, in.PatternName, track.Mood, track.Rhythm, track.Style)
		}

		res := ok(msg)
		res.Track = track.Clone()
		res.PatternName = in.PatternName
		return res, nil
	})
}

// RemoveTrackFromPattern deletes one instrument from a pattern.
func (s *Store) RemoveTrackFromPattern(ctx context.Context, patternName string, inst Mt.Instrument) Result {
	return s.mutate(ctx, "removeTrackFromPattern", func(doc *Mt.Composition) (Result, error) {
		p, err := findTrackPattern(doc, patternName, inst)
		if err != nil {
			return Result{}, err
		}

		delete(p.Tracks, inst)

		res := ok(fmt.Sprintf("Removed %s from pattern %q.", inst, patternName))
		res.RemainingInstruments = sortedInstruments(p)
		return res, nil
	})
}

type TrackProperties struct {
	Volume *float64 // 0-1, 0 mutes in practice
	Muted  *bool
}

// UpdateTrackProperties sets volume and/or muted on an existing track.
func (s *Store) UpdateTrackProperties(ctx context.Context, patternName string, inst Mt.Instrument, props TrackProperties) Result {
	return s.mutate(ctx, "updateTrackProperties", func(doc *Mt.Composition) (Result, error) {
		p, err := findTrackPattern(doc, patternName, inst)
		if err != nil {
			return Result{}, err
		}
		if props.Volume == nil && props.Muted == nil {
			return Result{}, rejectf("No properties provided to update. Specify volume and/or muted.")
		}

		track := p.Tracks[inst]
		var updates []string
		if props.Volume != nil {
			v := *props.Volume
			if v < 0 || v > 1 {
				return Result{}, rejectf("Volume must be between 0 and 1, got %g.", v)
			}
			track.Volume = v
			updates = append(updates, fmt.Sprintf("volume %g", v))
		}
		if props.Muted != nil {
			track.Muted = *props.Muted
			updates = append(updates, fmt.Sprintf("muted %t", track.Muted))
		}

		res := ok(fmt.Sprintf("Updated %s in pattern %q: %s", inst, patternName, strings.Join(updates, ", ")))
		res.Track = track.Clone()
		res.PatternName = patternName
		return res, nil
	})
}

func findTrackPattern(doc *Mt.Composition, patternName string, inst Mt.Instrument) (*Mt.Pattern, error) {
	p, exists := doc.Patterns[patternName]
	if !exists {
		return nil, rejectf("Pattern %q does not exist.", patternName)
	}
	if _, has := p.Tracks[inst]; !has {
		available := strings.Join(sortedInstruments(p), ", ")
		if available == "" {
			available = "none"
		}
		return nil, rejectf("%s does not exist in pattern %q. Available instruments: %s", inst, patternName, available)
	}
	return p, nil
}
