package plugin

import (
	"log/slog"
	"slices"
	"sync"

	Mt "github.com/maroda/ostinato/types"
)

// LogVoice writes every event to slog at Debug, for hosts without MIDI.
type LogVoice struct{}

func NewLogVoice() *LogVoice { return &LogVoice{} }

func (lv *LogVoice) Trigger(ev *Mt.VoiceEvent) error {
	slog.Debug("Voice",
		slog.String("instrument", string(ev.Instrument)),
		slog.String("voice", ev.Voice),
		slog.Any("notes", ev.Notes),
		slog.Float64("velocity", ev.Velocity),
		slog.Duration("duration", ev.Duration))
	return nil
}

func (lv *LogVoice) Flush() error { return nil }
func (lv *LogVoice) Close() error { return nil }
func (lv *LogVoice) Type() string { return "Log" }

// RecorderVoice keeps every event it is given.
type RecorderVoice struct {
	MU      sync.Mutex
	Events  []Mt.VoiceEvent
	Flushes int
}

func NewRecorderVoice() *RecorderVoice { return &RecorderVoice{} }

func (rv *RecorderVoice) Trigger(ev *Mt.VoiceEvent) error {
	rv.MU.Lock()
	defer rv.MU.Unlock()
	e := *ev
	e.Notes = slices.Clone(ev.Notes)
	rv.Events = append(rv.Events, e)
	return nil
}

// Take returns the recorded events and clears the recording.
func (rv *RecorderVoice) Take() []Mt.VoiceEvent {
	rv.MU.Lock()
	defer rv.MU.Unlock()
	evs := rv.Events
	rv.Events = nil
	return evs
}

func (rv *RecorderVoice) Flush() error {
	rv.MU.Lock()
	defer rv.MU.Unlock()
	rv.Flushes++
	return nil
}

func (rv *RecorderVoice) Close() error { return nil }
func (rv *RecorderVoice) Type() string { return "Recorder" }
