package plugin_test

import (
	"os"
	"path/filepath"
	"testing"

	Mp "github.com/maroda/ostinato/plugin"
	Mt "github.com/maroda/ostinato/types"
)

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public", "track.json")
	store, err := Mp.NewFileStore(path)
	assertError(t, err, nil)

	t.Run("Missing file loads the default document", func(t *testing.T) {
		doc, err := store.Load()
		assertError(t, err, nil)
		if doc.Key != Mt.DefaultKey {
			t.Errorf("got key %q, want %q", doc.Key, Mt.DefaultKey)
		}
		rev, err := store.Revision()
		assertError(t, err, nil)
		assertInt64(t, rev, 0)
	})

	t.Run("Saves and loads a document", func(t *testing.T) {
		err := store.Save(makeTestComposition())
		assertError(t, err, nil)

		got, err := store.Load()
		assertError(t, err, nil)
		assertInt(t, len(got.Patterns), 1)
		notes := got.Patterns["intro"].Tracks[Mt.Piano].Melodic().Notes
		assertInt(t, len(notes), 4)
		if !notes[0].Chord || !notes[1].IsRest() {
			t.Errorf("steps did not round trip: %+v", notes)
		}
		if got.Patterns["intro"].Tracks[Mt.Drums].Volume != 0.8 {
			t.Errorf("drum volume did not round trip")
		}

		rev, err := store.Revision()
		assertError(t, err, nil)
		if rev == 0 {
			t.Error("revision should be set after save")
		}
	})

	t.Run("Leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(path))
		assertError(t, err, nil)
		assertInt(t, len(entries), 1)
	})

	t.Run("Writes the documented JSON shape", func(t *testing.T) {
		data, err := os.ReadFile(path)
		assertError(t, err, nil)
		assertStringContains(t, string(data), `"drumPattern"`)
		assertStringContains(t, string(data), `"timeline": [`)
	})

	t.Run("Rejects a corrupt document", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		err := os.WriteFile(bad, []byte(`{"patterns":{"a":{"tracks":{"piano":{"instrument":"piano","drumPattern":{}}}}}}`), 0o644)
		assertError(t, err, nil)

		badStore, err := Mp.NewFileStore(bad)
		assertError(t, err, nil)
		_, err = badStore.Load()
		assertGotError(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	store := Mp.NewMemoryStore()

	t.Run("Copies on load and save", func(t *testing.T) {
		doc := makeTestComposition()
		err := store.Save(doc)
		assertError(t, err, nil)

		doc.Timeline = append(doc.Timeline, "ghost")
		got, _ := store.Load()
		assertInt(t, len(got.Timeline), 1)

		got.Timeline = nil
		again, _ := store.Load()
		assertInt(t, len(again.Timeline), 1)
	})

	t.Run("Revision counts saves", func(t *testing.T) {
		rev, _ := store.Revision()
		assertInt64(t, rev, 1)
	})
}
