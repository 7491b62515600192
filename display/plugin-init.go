package ostinato

import (
	"log/slog"

	Mp "github.com/maroda/ostinato/plugin"
)

// InitVoice opens the configured voice, falling back to the log voice
// when the device cannot be opened.
func InitVoice(name string, port int) Mp.VoiceAdapter {
	voice, err := Mp.VoiceLookup(name, port)
	if err != nil {
		slog.Error("Failed to create voice, logging events instead",
			slog.String("voice", name),
			slog.Int("port", port),
			slog.Any("error", err))
		return Mp.NewLogVoice()
	}
	slog.Info("Voice Adapter Enabled", slog.String("voice", voice.Type()))
	return voice
}
