//go:build !nomidi

package plugin

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	Mt "github.com/maroda/ostinato/types"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type MIDIOutput struct {
	Port drivers.Out
	Send func(msg midi.Message) error
	WG   sync.WaitGroup
}

func NewMIDIOutput(port int) (*MIDIOutput, error) {
	out, err := midi.OutPort(port)
	if err != nil {
		slog.Error("Error opening MIDI port", slog.Int("port", port))
		return nil, fmt.Errorf("error opening MIDI port: %w", err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		slog.Error("Error sending to MIDI port", slog.Int("port", port))
		return nil, fmt.Errorf("error sending to MIDI port: %w", err)
	}

	slog.Info("MIDI output opened", slog.Int("port", port), slog.String("name", out.String()))
	return &MIDIOutput{
		Port: out,
		Send: send,
	}, nil
}

// Trigger sounds every key of the event on the instrument's channel,
// waiting until ev.At and releasing after ev.Duration in its own goroutine.
func (mo *MIDIOutput) Trigger(ev *Mt.VoiceEvent) error {
	keys, err := MIDIKeys(ev)
	if err != nil {
		return err
	}
	channel := MIDIChannels[ev.Instrument]
	velocity := MIDIVelocity(ev.Velocity)
	if velocity == 0 {
		return nil
	}

	mo.WG.Add(1)
	go func() {
		defer mo.WG.Done()
		if wait := time.Until(ev.At); wait > 0 {
			time.Sleep(wait)
		}
		for _, k := range keys {
			if err := mo.Send(midi.NoteOn(channel, k, velocity)); err != nil {
				slog.Error("NoteOn event failed", slog.Any("Error", err))
			}
		}
		time.Sleep(ev.Duration)
		for _, k := range keys {
			if err := mo.Send(midi.NoteOff(channel, k)); err != nil {
				slog.Error("NoteOff event failed, attempting Flush", slog.Any("Error", err))
				mo.Flush()
				return
			}
		}
	}()

	return nil
}

// Flush sends All Notes Off on every instrument channel.
func (mo *MIDIOutput) Flush() error {
	var firstErr error
	for _, ch := range MIDIChannels {
		if err := mo.Send(midi.ControlChange(ch, midi.AllNotesOff, midi.Off)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (mo *MIDIOutput) Close() error {
	mo.WG.Wait()

	if mo.Port != nil {
		mo.Flush()
		mo.Port.Close()
		midi.CloseDriver()
	}
	return nil
}

func (mo *MIDIOutput) Type() string { return "MIDI" }
