//go:build !nomidi

package ostinato

import (
	Mp "github.com/maroda/ostinato/plugin"
)

func (v *View) getMIDISystemInfo(systemInfo *SystemInfo) {
	// If the voice is MIDI, fill in the port
	if midiOut, ok := v.Scheduler.Voice.(*Mp.MIDIOutput); ok {
		systemInfo.MIDIPort = midiOut.Port.String()
	}
}
