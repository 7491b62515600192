package ostinato

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is read from a JSON or YAML file, then overridden from the environment.
type Config struct {
	Document     string `json:"document" yaml:"document"`         // JSON document path for file storage
	Storage      string `json:"storage" yaml:"storage"`           // file, badger or memory
	BadgerPath   string `json:"badgerPath" yaml:"badgerPath"`     // directory for badger storage
	Voice        string `json:"voice" yaml:"voice"`               // midi or log
	MIDIPort     int    `json:"midiPort" yaml:"midiPort"`         // output port number
	MonitorAddr  string `json:"monitorAddr" yaml:"monitorAddr"`   // listen address for the monitor
	Seed         uint64 `json:"seed" yaml:"seed"`                 // 0 is unseeded
	LockWatchdog string `json:"lockWatchdog" yaml:"lockWatchdog"` // duration
	PollInterval string `json:"pollInterval" yaml:"pollInterval"` // duration
	Lookahead    string `json:"lookahead" yaml:"lookahead"`       // duration
}

func DefaultConfig() *Config {
	return &Config{
		Document:     filepath.Join("public", "track.json"),
		Storage:      "file",
		BadgerPath:   "ostinato_db",
		Voice:        "midi",
		MonitorAddr:  ":8090",
		LockWatchdog: "5s",
		PollInterval: "100ms",
		Lookahead:    "25ms",
	}
}

// LoadConfigFileName pulls a given filename config off local disk
// Validation is performed on the file before opening
func LoadConfigFileName(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// validation
	err = validateLoad(file)
	if err != nil {
		slog.Error("Validation failed", slog.Any("Error", err))
		return nil, err
	}

	return LoadConfig(file)
}

func validateLoad(file *os.File) error {
	// validate file
	info, err := file.Stat()
	if err != nil {
		slog.Error("could not stat file")
		return err
	}

	// validate size
	if info.Size() == 0 {
		slog.Error("file is empty")
		return errors.New("file is empty")
	}

	return nil
}

// LoadConfig decodes YAML for .yaml and .yml files, JSON otherwise.
// Unset fields keep their defaults.
func LoadConfig(file *os.File) (*Config, error) {
	config := DefaultConfig()

	switch strings.ToLower(filepath.Ext(file.Name())) {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(file).Decode(config); err != nil {
			slog.Error("could not decode yaml file")
			return nil, err
		}
	default:
		if err := json.NewDecoder(file).Decode(config); err != nil {
			slog.Error("could not decode file")
			return nil, err
		}
	}

	return config, config.Validate()
}

// ApplyEnv overrides fields from OSTINATO_* environment variables.
func (c *Config) ApplyEnv() {
	overrides := map[string]*string{
		"OSTINATO_DOCUMENT":     &c.Document,
		"OSTINATO_STORAGE":      &c.Storage,
		"OSTINATO_BADGER_PATH":  &c.BadgerPath,
		"OSTINATO_VOICE":        &c.Voice,
		"OSTINATO_MONITOR_ADDR": &c.MonitorAddr,
	}
	for ev, field := range overrides {
		if v := FillEnvVar(ev); v != "ENOENT" {
			*field = v
		}
	}
	c.MIDIPort = FillEnvVarInt("OSTINATO_MIDI_PORT", c.MIDIPort)
	if seed := FillEnvVarInt("OSTINATO_SEED", -1); seed >= 0 {
		c.Seed = uint64(seed)
	}
}

func (c *Config) Validate() error {
	switch c.Storage {
	case "file", "badger", "memory":
	default:
		return fmt.Errorf("unknown storage %q", c.Storage)
	}
	for name, d := range map[string]string{
		"lockWatchdog": c.LockWatchdog,
		"pollInterval": c.PollInterval,
		"lookahead":    c.Lookahead,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

// StorageLocation is the path handed to the storage plugin.
func (c *Config) StorageLocation() string {
	if c.Storage == "badger" {
		return c.BadgerPath
	}
	return c.Document
}

func (c *Config) WatchdogDuration() time.Duration { return durationOr(c.LockWatchdog, 5*time.Second) }

func (c *Config) PollDuration() time.Duration { return durationOr(c.PollInterval, 100*time.Millisecond) }

func (c *Config) LookaheadDuration() time.Duration { return durationOr(c.Lookahead, 25*time.Millisecond) }

func durationOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// ConfigFromEnv loads OSTINATO_CONFIG when set, then applies overrides.
func ConfigFromEnv() (*Config, error) {
	config := DefaultConfig()
	if name := FillEnvVar("OSTINATO_CONFIG"); name != "ENOENT" {
		loaded, err := LoadConfigFileName(name)
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", name, err)
		}
		config = loaded
	}
	config.ApplyEnv()
	return config, config.Validate()
}
