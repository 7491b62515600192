package ostinato_test

import (
	"os"
	"testing"
	"time"

	Ms "github.com/maroda/ostinato/server"
)

// Temporary OS file to use for testing configurations
func createTempFile(t testing.TB, pattern, data string) (*os.File, func()) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("could not create temp file %v", err)
	}

	tmpfile.Write([]byte(data))
	removeFile := func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name())
	}
	return tmpfile, removeFile
}

func TestLoadConfigFileName(t *testing.T) {
	t.Run("Reads JSON and keeps defaults", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.json", `{
		  "storage": "badger",
		  "badgerPath": "/tmp/ostinato",
		  "midiPort": 2
		}`)
		defer delConfig()

		config, err := Ms.LoadConfigFileName(configFile.Name())
		assertError(t, err, nil)
		assertString(t, config.Storage, "badger")
		assertString(t, config.StorageLocation(), "/tmp/ostinato")
		assertInt(t, config.MIDIPort, 2)
		assertString(t, config.Voice, "midi")
		assertString(t, config.MonitorAddr, ":8090")
	})

	t.Run("Reads YAML", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.yaml", `
document: song.json
voice: log
seed: 42
lockWatchdog: 2s
`)
		defer delConfig()

		config, err := Ms.LoadConfigFileName(configFile.Name())
		assertError(t, err, nil)
		assertString(t, config.StorageLocation(), "song.json")
		assertString(t, config.Voice, "log")
		if config.Seed != 42 {
			t.Errorf("got seed %d, want 42", config.Seed)
		}
		if config.WatchdogDuration() != 2*time.Second {
			t.Errorf("got watchdog %v", config.WatchdogDuration())
		}
	})

	t.Run("Errors with malformed JSON", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.json", `{"storage": `)
		defer delConfig()

		_, err := Ms.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with an empty file", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.json", ``)
		defer delConfig()

		_, err := Ms.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with an unknown storage", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.json", `{"storage": "tape"}`)
		defer delConfig()

		_, err := Ms.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with a bad duration", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.yml", "pollInterval: often\n")
		defer delConfig()

		_, err := Ms.LoadConfigFileName(configFile.Name())
		assertGotError(t, err)
	})

	t.Run("Errors with a missing file", func(t *testing.T) {
		_, err := Ms.LoadConfigFileName("/nonexistent/ostinato.json")
		assertGotError(t, err)
	})
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("Uses defaults without a config file", func(t *testing.T) {
		t.Setenv("OSTINATO_CONFIG", "")
		config, err := Ms.ConfigFromEnv()
		assertError(t, err, nil)
		assertString(t, config.Storage, "file")
		if config.PollDuration() != 100*time.Millisecond {
			t.Errorf("got poll %v", config.PollDuration())
		}
	})

	t.Run("Environment overrides the file", func(t *testing.T) {
		configFile, delConfig := createTempFile(t, "config-*.json", `{"voice": "midi", "midiPort": 1}`)
		defer delConfig()

		t.Setenv("OSTINATO_CONFIG", configFile.Name())
		t.Setenv("OSTINATO_VOICE", "log")
		t.Setenv("OSTINATO_MIDI_PORT", "4")
		t.Setenv("OSTINATO_SEED", "9")

		config, err := Ms.ConfigFromEnv()
		assertError(t, err, nil)
		assertString(t, config.Voice, "log")
		assertInt(t, config.MIDIPort, 4)
		if config.Seed != 9 {
			t.Errorf("got seed %d, want 9", config.Seed)
		}
	})

	t.Run("Rejects an unknown storage from the environment", func(t *testing.T) {
		t.Setenv("OSTINATO_CONFIG", "")
		t.Setenv("OSTINATO_STORAGE", "tape")
		_, err := Ms.ConfigFromEnv()
		assertGotError(t, err)
	})
}
