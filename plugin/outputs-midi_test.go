package plugin_test

import (
	"testing"
	"time"

	Mp "github.com/maroda/ostinato/plugin"
	Mt "github.com/maroda/ostinato/types"
)

func TestNoteNumber(t *testing.T) {
	tests := []struct {
		note string
		want uint8
	}{
		{"C4", 60}, {"Eb3", 51}, {"C2", 36}, {"F#1", 30}, {"Bb4", 70},
	}
	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			got, err := Mp.NoteNumber(tt.note)
			assertError(t, err, nil)
			assertInt(t, int(got), int(tt.want))
		})
	}

	t.Run("Rejects bad names", func(t *testing.T) {
		_, err := Mp.NoteNumber("X4")
		assertGotError(t, err)
		_, err = Mp.NoteNumber("C99")
		assertGotError(t, err)
	})
}

func TestMIDIVelocity(t *testing.T) {
	assertInt(t, int(Mp.MIDIVelocity(0)), 0)
	assertInt(t, int(Mp.MIDIVelocity(1)), 127)
	assertInt(t, int(Mp.MIDIVelocity(0.001)), 1)
	assertInt(t, int(Mp.MIDIVelocity(3)), 127)
}

func TestMIDIKeys(t *testing.T) {
	t.Run("Drum voices map to percussion keys", func(t *testing.T) {
		keys, err := Mp.MIDIKeys(&Mt.VoiceEvent{Instrument: Mt.Drums, Voice: "snare"})
		assertError(t, err, nil)
		assertInt(t, len(keys), 1)
		assertInt(t, int(keys[0]), 38)
	})

	t.Run("Chords map every note", func(t *testing.T) {
		keys, err := Mp.MIDIKeys(&Mt.VoiceEvent{Instrument: Mt.Piano, Notes: []string{"C4", "Eb4", "G4"}})
		assertError(t, err, nil)
		assertInt(t, len(keys), 3)
		assertInt(t, int(keys[2]), 67)
	})

	t.Run("Unknown drum voice fails", func(t *testing.T) {
		_, err := Mp.MIDIKeys(&Mt.VoiceEvent{Instrument: Mt.Drums, Voice: "cowbell"})
		assertGotError(t, err)
	})
}

func TestRecorderVoice(t *testing.T) {
	rec := Mp.NewRecorderVoice()
	ev := &Mt.VoiceEvent{Instrument: Mt.Bass, Notes: []string{"C2"}, Velocity: 0.5, At: time.Now()}

	t.Run("Keeps a copy of each event", func(t *testing.T) {
		err := rec.Trigger(ev)
		assertError(t, err, nil)
		ev.Notes[0] = "D2"

		got := rec.Take()
		assertInt(t, len(got), 1)
		if got[0].Notes[0] != "C2" {
			t.Errorf("recorded event shares notes with the caller")
		}
		assertInt(t, len(rec.Take()), 0)
	})

	t.Run("Counts flushes", func(t *testing.T) {
		rec.Flush()
		assertInt(t, rec.Flushes, 1)
	})
}
