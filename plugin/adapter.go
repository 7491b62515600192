package plugin

/*

	The Adapter sits aside /ostinato/
	Contains core interfaces for Plugin

*/

import (
	Mt "github.com/maroda/ostinato/types"
)

// StorageAdapter persists the whole composition document.
// Load and Save are atomic from the caller's point of view:
// a reader never sees a partially written document.
type StorageAdapter interface {
	Load() (*Mt.Composition, error) // Read the current document, or the empty default
	Save(doc *Mt.Composition) error // Replace the whole document
	Revision() (int64, error)       // Changes after every Save, used for change detection
	Close() error                   // Release resources
	Type() string                   // ID for storage
}

// VoiceAdapter is a playback host for one or more instruments.
// Trigger must not block for the length of the note.
type VoiceAdapter interface {
	Trigger(ev *Mt.VoiceEvent) error // Sound notes at ev.At for ev.Duration
	Flush() error                    // Silence everything that is sounding
	Close() error                    // Wait for pending notes and release the device
	Type() string                    // ID for voice
}
