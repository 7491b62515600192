package plugin

import "fmt"

// Storages is a global map of StorageAdapter plugins, opened by location.
var Storages = map[string]func(location string) (StorageAdapter, error){
	"file": func(location string) (StorageAdapter, error) {
		a, err := NewFileStore(location)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	"badger": func(location string) (StorageAdapter, error) {
		a, err := NewBadgerStore(location)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	"memory": func(string) (StorageAdapter, error) {
		return NewMemoryStore(), nil
	},
}

func StorageLookup(name, location string) (StorageAdapter, error) {
	factory, ok := Storages[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage: %s", name)
	}
	return factory(location)
}

// Voices is a global map of VoiceAdapter plugins.
// The argument is the device port, ignored by voices without a device.
var Voices = map[string]func(port int) (VoiceAdapter, error){
	"midi": func(port int) (VoiceAdapter, error) {
		a, err := NewMIDIOutput(port)
		if err != nil {
			return nil, err
		}
		return a, nil
	},
	"log": func(int) (VoiceAdapter, error) {
		return NewLogVoice(), nil
	},
}

func VoiceLookup(name string, port int) (VoiceAdapter, error) {
	factory, ok := Voices[name]
	if !ok {
		return nil, fmt.Errorf("unknown voice: %s", name)
	}
	return factory(port)
}
