package ostinato_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	Mc "github.com/maroda/ostinato/compose"
	Mo "github.com/maroda/ostinato/obvy"
	Mp "github.com/maroda/ostinato/plugin"
	Ms "github.com/maroda/ostinato/server"
	Mt "github.com/maroda/ostinato/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestComposeSession(t *testing.T) {
	ctx := context.Background()
	store, _ := makeTestStore(t)

	t.Run("Builds a pattern with two tracks on the timeline", func(t *testing.T) {
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"}))
		assertSuccess(t, store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Drums, Mood: Mt.Chill}))
		assertSuccess(t, store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Piano, Mood: Mt.Chill}))
		assertSuccess(t, store.UpdateTimeline(ctx, []string{"intro"}))

		doc := snapshot(t, store)
		assertStrings(t, doc.Timeline, []string{"intro"})

		tracks := doc.Patterns["intro"].Tracks
		assertInt(t, len(tracks), 2)
		if tracks[Mt.Drums] == nil || tracks[Mt.Piano] == nil {
			t.Errorf("expected drums and piano, got %v", tracks)
		}
	})

	t.Run("Rejects a timeline naming a missing pattern", func(t *testing.T) {
		res := store.UpdateTimeline(ctx, []string{"ghost"})
		assertFailure(t, res, Ms.StatusError)
		assertString(t, res.Message, "Invalid patterns: ghost. Create missing patterns first.")
		assertStrings(t, snapshot(t, store).Timeline, []string{"intro"})
	})

	t.Run("Reports setting the same timeline as unchanged", func(t *testing.T) {
		res := store.UpdateTimeline(ctx, []string{"intro"})
		assertFailure(t, res, Ms.StatusUnchanged)
		assertStringContains(t, res.Message, "already set")
	})

	t.Run("Summarizes the composition", func(t *testing.T) {
		res := store.GetComposition(ctx)
		assertSuccess(t, res)
		want := "Timeline: intro\nPatterns: 1\nintro (4 measures, 80 BPM): drums, piano"
		assertString(t, res.Summary, want)
		assertInt(t, res.TotalSections, 1)
	})
}

func TestTimelineOperations(t *testing.T) {
	ctx := context.Background()
	store, _ := makeTestStore(t)
	assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "verse"}))

	t.Run("Inserts at position zero of an empty timeline", func(t *testing.T) {
		res := store.AddPatternToTimeline(ctx, "verse", Ms.Ptr(0))
		assertSuccess(t, res)
		assertStrings(t, res.Timeline, []string{"verse"})
	})

	t.Run("Removes by name and keeps the pattern", func(t *testing.T) {
		res := store.RemovePatternFromTimeline(ctx, nil, "verse")
		assertSuccess(t, res)

		doc := snapshot(t, store)
		assertInt(t, len(doc.Timeline), 0)
		if _, ok := doc.Patterns["verse"]; !ok {
			t.Errorf("pattern verse was removed")
		}
	})

	t.Run("Appends with a nil or -1 position", func(t *testing.T) {
		assertSuccess(t, store.AddPatternToTimeline(ctx, "verse", nil))
		res := store.AddPatternToTimeline(ctx, "verse", Ms.Ptr(-1))
		assertSuccess(t, res)
		assertStrings(t, res.Timeline, []string{"verse", "verse"})
		assertInt(t, res.TotalSections, 2)
	})

	t.Run("Rejects a position past the end", func(t *testing.T) {
		res := store.AddPatternToTimeline(ctx, "verse", Ms.Ptr(5))
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "out of bounds")
	})

	t.Run("Rejects a pattern that does not exist", func(t *testing.T) {
		res := store.AddPatternToTimeline(ctx, "ghost", nil)
		assertFailure(t, res, Ms.StatusError)
	})

	t.Run("Position wins over name", func(t *testing.T) {
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "chorus"}))
		assertSuccess(t, store.AddPatternToTimeline(ctx, "chorus", Ms.Ptr(0)))

		res := store.RemovePatternFromTimeline(ctx, Ms.Ptr(2), "chorus")
		assertSuccess(t, res)
		assertStrings(t, res.Timeline, []string{"chorus", "verse"})
	})

	t.Run("Needs a position or a name", func(t *testing.T) {
		res := store.RemovePatternFromTimeline(ctx, nil, "")
		assertFailure(t, res, Ms.StatusError)
	})

	t.Run("Clears the timeline", func(t *testing.T) {
		res := store.ClearTimeline(ctx)
		assertSuccess(t, res)
		assertString(t, res.Message, "Cleared timeline (removed 2 entries).")

		doc := snapshot(t, store)
		assertInt(t, len(doc.Timeline), 0)
		assertInt(t, len(doc.Patterns), 2)
	})

	t.Run("Rejects an empty timeline update", func(t *testing.T) {
		assertFailure(t, store.UpdateTimeline(ctx, nil), Ms.StatusError)
	})
}

func TestPatternOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a pattern with defaults", func(t *testing.T) {
		store, _ := makeTestStore(t)
		res := store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
		assertSuccess(t, res)
		assertString(t, res.Message, `Created pattern "intro" (tempo: 80 BPM, length: 4 measures).`)
		assertInt(t, res.Pattern.Length, 4)
	})

	t.Run("Names unnamed patterns by section", func(t *testing.T) {
		store, _ := makeTestStore(t)
		first := store.CreatePattern(ctx, Ms.CreatePatternInput{})
		second := store.CreatePattern(ctx, Ms.CreatePatternInput{})
		assertString(t, first.PatternName, "intro")
		assertString(t, second.PatternName, "verse")
	})

	t.Run("Rejects a duplicate name", func(t *testing.T) {
		store, _ := makeTestStore(t)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"}))
		res := store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "already exists")
	})

	t.Run("Rejects tempo and length out of range", func(t *testing.T) {
		store, _ := makeTestStore(t)
		res := store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a", Length: Ms.Ptr(32)})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "Length must be between 2 and 16")

		res = store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a", Tempo: Ms.Ptr(300.0)})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "Tempo must be between 40 and 200")
		assertInt(t, len(snapshot(t, store).Patterns), 0)
	})

	t.Run("Deletes a pattern and its timeline entries", func(t *testing.T) {
		store, _ := makeTestStore(t)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a"}))
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "b"}))
		assertSuccess(t, store.UpdateTimeline(ctx, []string{"a", "b", "a"}))

		res := store.DeletePattern(ctx, "a")
		assertSuccess(t, res)
		assertStrings(t, res.RemainingPatterns, []string{"b"})
		assertStrings(t, snapshot(t, store).Timeline, []string{"b"})
	})

	t.Run("Deletes all patterns", func(t *testing.T) {
		store, _ := makeTestStore(t)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a"}))
		assertSuccess(t, store.UpdateTimeline(ctx, []string{"a"}))

		res := store.DeleteAllPatterns(ctx)
		assertSuccess(t, res)
		doc := snapshot(t, store)
		assertInt(t, len(doc.Patterns), 0)
		assertInt(t, len(doc.Timeline), 0)
	})

	t.Run("Duplicates without sharing tracks", func(t *testing.T) {
		store, _ := makeTestStore(t)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a"}))
		assertSuccess(t, store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "a", Instrument: Mt.Bass}))
		assertSuccess(t, store.DuplicatePattern(ctx, "a", "b"))
		assertSuccess(t, store.UpdateTrackProperties(ctx, "b", Mt.Bass, Ms.TrackProperties{Volume: Ms.Ptr(0.5)}))

		doc := snapshot(t, store)
		if got := doc.Patterns["a"].Tracks[Mt.Bass].Volume; got != 1 {
			t.Errorf("source volume changed to %v", got)
		}
		if got := doc.Patterns["b"].Tracks[Mt.Bass].Volume; got != 0.5 {
			t.Errorf("copy volume is %v, want 0.5", got)
		}
		assertString(t, doc.Patterns["b"].ID, "b")
	})

	t.Run("Updates tempo and length", func(t *testing.T) {
		store, _ := makeTestStore(t)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "a"}))

		res := store.UpdatePatternProperties(ctx, "a", Ms.PatternProperties{Tempo: Ms.Ptr(120.0), Length: Ms.Ptr(8)})
		assertSuccess(t, res)
		assertString(t, res.Message, `Updated pattern "a": tempo: 120 BPM, length: 8 measures`)

		p := snapshot(t, store).Patterns["a"]
		assertInt(t, p.Length, 8)
		if p.Tempo == nil || *p.Tempo != 120 {
			t.Errorf("tempo not updated: %v", p.Tempo)
		}

		assertFailure(t, store.UpdatePatternProperties(ctx, "a", Ms.PatternProperties{}), Ms.StatusError)
	})
}

func TestTrackOperations(t *testing.T) {
	ctx := context.Background()
	store, _ := makeTestStore(t)
	assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"}))

	t.Run("Adds a track with resolved defaults", func(t *testing.T) {
		res := store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Piano})
		assertSuccess(t, res)
		if res.Track.Mood != Mt.Chill || res.Track.Rhythm != Mt.Simple {
			t.Errorf("defaults not applied: %s %s", res.Track.Mood, res.Track.Rhythm)
		}
		assertInt(t, len(res.Track.Melodic().Notes), 16)
	})

	t.Run("Rejects a second track for the same instrument", func(t *testing.T) {
		res := store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Piano})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "already exists")
	})

	t.Run("Rejects unknown instruments and moods", func(t *testing.T) {
		res := store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: "kazoo"})
		assertFailure(t, res, Ms.StatusError)

		res = store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Bass, Mood: "angry"})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "unknown mood")
	})

	t.Run("Updates volume and mute", func(t *testing.T) {
		res := store.UpdateTrackProperties(ctx, "intro", Mt.Piano, Ms.TrackProperties{Volume: Ms.Ptr(0.3), Muted: Ms.Ptr(true)})
		assertSuccess(t, res)
		if !res.Track.Muted || res.Track.Volume != 0.3 {
			t.Errorf("got muted %t volume %v", res.Track.Muted, res.Track.Volume)
		}

		assertFailure(t, store.UpdateTrackProperties(ctx, "intro", Mt.Piano, Ms.TrackProperties{Volume: Ms.Ptr(1.5)}), Ms.StatusError)
		assertFailure(t, store.UpdateTrackProperties(ctx, "intro", Mt.Piano, Ms.TrackProperties{}), Ms.StatusError)
	})

	t.Run("Removes a track", func(t *testing.T) {
		assertSuccess(t, store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: "intro", Instrument: Mt.Drums}))
		res := store.RemoveTrackFromPattern(ctx, "intro", Mt.Piano)
		assertSuccess(t, res)
		assertStrings(t, res.RemainingInstruments, []string{"drums"})

		res = store.RemoveTrackFromPattern(ctx, "intro", Mt.Piano)
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "Available instruments: drums")
	})
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("A failed save leaves the document untouched", func(t *testing.T) {
		store, mem := makeTestStore(t)
		mem.Err = errors.New("disk full")

		res := store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
		assertFailure(t, res, Ms.StatusError)
		assertString(t, res.Message, "Error: save composition: disk full")

		mem.Err = nil
		assertInt(t, len(snapshot(t, store).Patterns), 0)
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"}))
	})

	t.Run("Reset recovers from a corrupt document", func(t *testing.T) {
		store, mem := makeTestStore(t)
		mem.Doc = &Mt.Composition{Tempo: 0}

		res := store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
		assertFailure(t, res, Ms.StatusError)
		assertStringContains(t, res.Message, "invalid composition")

		assertSuccess(t, store.ResetComposition(ctx))
		assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"}))
	})

	t.Run("Records operations by status", func(t *testing.T) {
		store, _ := makeTestStore(t)
		store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})
		store.CreatePattern(ctx, Ms.CreatePatternInput{Name: "intro"})

		okCount := testutil.ToFloat64(store.Stats.Operations.WithLabelValues("createPattern", Ms.StatusOK))
		errCount := testutil.ToFloat64(store.Stats.Operations.WithLabelValues("createPattern", Ms.StatusError))
		if okCount != 1 || errCount != 1 {
			t.Errorf("got ok %v error %v, want 1 and 1", okCount, errCount)
		}
	})
}

func TestStoreConcurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("Concurrent mutations do not lose updates", func(t *testing.T) {
		store, _ := makeTestStore(t)
		const n = 12
		for i := range n {
			assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: fmt.Sprintf("part%d", i)}))
		}

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: fmt.Sprintf("part%d", i), Instrument: Mt.Bass})
			}()
		}
		wg.Wait()

		doc := snapshot(t, store)
		for i := range n {
			if doc.Patterns[fmt.Sprintf("part%d", i)].Tracks[Mt.Bass] == nil {
				t.Errorf("part%d lost its bass track", i)
			}
		}
	})

	t.Run("Concurrent tracks on one pattern are all kept", func(t *testing.T) {
		store, _ := makeTestStore(t)
		for round := range 20 {
			name := fmt.Sprintf("intro%d", round)
			assertSuccess(t, store.CreatePattern(ctx, Ms.CreatePatternInput{Name: name}))

			var wg sync.WaitGroup
			for _, inst := range Mt.Instruments {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assertSuccess(t, store.AddTrackToPattern(ctx, Ms.AddTrackInput{PatternName: name, Instrument: inst}))
				}()
			}
			wg.Wait()

			tracks := snapshot(t, store).Patterns[name].Tracks
			assertInt(t, len(tracks), len(Mt.Instruments))
		}
	})

	t.Run("Concurrent unnamed patterns get distinct names", func(t *testing.T) {
		store, _ := makeTestStore(t)
		const n = 10
		names := make([]string, n)

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				names[i] = store.CreatePattern(ctx, Ms.CreatePatternInput{}).PatternName
			}()
		}
		wg.Wait()

		slices.Sort(names)
		assertInt(t, len(slices.Compact(names)), n)
		assertInt(t, len(snapshot(t, store).Patterns), n)
	})
}

func makeTestStore(t *testing.T) (*Ms.Store, *Mp.MemoryStore) {
	t.Helper()
	mem := Mp.NewMemoryStore()
	store := Ms.NewStore(mem,
		Ms.WithEngine(Mc.NewEngine(Mc.NewSource(1))),
		Ms.WithStats(Mo.NewStatsInternal()))
	return store, mem
}

func snapshot(t *testing.T, store *Ms.Store) *Mt.Composition {
	t.Helper()
	doc, err := store.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return doc
}

func assertSuccess(t *testing.T, res Ms.Result) {
	t.Helper()
	if !res.Success || res.Status != Ms.StatusOK {
		t.Fatalf("operation failed: %s %q", res.Status, res.Message)
	}
}

func assertFailure(t *testing.T, res Ms.Result, status string) {
	t.Helper()
	if res.Success {
		t.Fatalf("operation succeeded, wanted %s: %q", status, res.Message)
	}
	assertString(t, res.Status, status)
}

func assertStrings(t *testing.T, got, want []string) {
	t.Helper()
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
