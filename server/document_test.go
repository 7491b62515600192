package ostinato

import (
	"errors"
	"testing"

	Mt "github.com/maroda/ostinato/types"
)

func TestValidate(t *testing.T) {
	t.Run("fills a missing pattern id", func(t *testing.T) {
		doc := makeDoc()
		doc.Patterns["intro"] = &Mt.Pattern{Length: 4}
		if err := Validate(doc); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		assertString(t, doc.Patterns["intro"].ID, "intro")
	})

	invalid := map[string]func(doc *Mt.Composition){
		"zero tempo":        func(doc *Mt.Composition) { doc.Tempo = 0 },
		"mismatched id":     func(doc *Mt.Composition) { doc.Patterns["a"].ID = "b" },
		"zero length":       func(doc *Mt.Composition) { doc.Patterns["a"].Length = 0 },
		"dangling timeline": func(doc *Mt.Composition) { doc.Timeline = []string{"a", "ghost"} },
		"misfiled track": func(doc *Mt.Composition) {
			doc.Patterns["a"].Tracks[Mt.Bass] = &Mt.InstrumentTrack{Instrument: Mt.Piano, Volume: 1, Body: &Mt.MelodicTrack{}}
		},
		"loud track": func(doc *Mt.Composition) {
			doc.Patterns["a"].Tracks[Mt.Piano] = &Mt.InstrumentTrack{Instrument: Mt.Piano, Volume: 2, Body: &Mt.MelodicTrack{}}
		},
		"drum velocity": func(doc *Mt.Composition) {
			doc.Patterns["a"].Tracks[Mt.Drums] = &Mt.InstrumentTrack{Instrument: Mt.Drums, Volume: 1,
				Body: &Mt.DrumTrack{Pattern: Mt.DrumPattern{Kick: []float64{1.5}}}}
		},
		"drums with notes": func(doc *Mt.Composition) {
			doc.Patterns["a"].Tracks[Mt.Drums] = &Mt.InstrumentTrack{Instrument: Mt.Drums, Volume: 1, Body: &Mt.MelodicTrack{}}
		},
	}
	for name, breakDoc := range invalid {
		t.Run("rejects "+name, func(t *testing.T) {
			doc := makeDoc()
			doc.Patterns["a"] = &Mt.Pattern{ID: "a", Length: 2, Tracks: map[Mt.Instrument]*Mt.InstrumentTrack{}}
			breakDoc(doc)
			if err := Validate(doc); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestFailure(t *testing.T) {
	t.Run("maps error kinds to statuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status string
			msg    string
		}{
			{rejectf("Pattern %q does not exist.", "x"), StatusError, `Pattern "x" does not exist.`},
			{unchangedf("nothing to do"), StatusUnchanged, "nothing to do"},
			{persistence(errors.New("disk full")), StatusError, "Error: disk full"},
			{errors.New("surprise"), StatusError, "Error: surprise"},
		}
		for _, c := range cases {
			res := failure(c.err)
			if res.Success {
				t.Errorf("%v reported success", c.err)
			}
			assertString(t, res.Status, c.status)
			assertString(t, res.Message, c.msg)
		}
	})

	t.Run("keeps the cause reachable", func(t *testing.T) {
		cause := errors.New("disk full")
		err := persistence(cause)
		if !errors.Is(err, ErrPersistence) || !errors.Is(err, cause) {
			t.Errorf("cause lost from %v", err)
		}
	})
}

func TestDigest(t *testing.T) {
	t.Run("describes an empty session", func(t *testing.T) {
		assertString(t, Digest(makeDoc()), "Timeline: empty\nPatterns: 0")
	})

	t.Run("falls back to the composition tempo", func(t *testing.T) {
		doc := makeDoc()
		doc.Patterns["b"] = &Mt.Pattern{ID: "b", Length: 2, Tracks: map[Mt.Instrument]*Mt.InstrumentTrack{}}
		doc.Timeline = []string{"b", "b"}
		want := "Timeline: b → b\nPatterns: 1\nb (2 measures, 80 BPM): empty"
		assertString(t, Digest(doc), want)
	})
}

func makeDoc() *Mt.Composition {
	return Mt.NewComposition()
}
