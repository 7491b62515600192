package ostinato

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// FillEnvVar returns the value of a runtime Environment Variable
func FillEnvVar(ev string) string {
	// If the EnvVar doesn't exist return a default string
	value := os.Getenv(ev)
	if value == "" {
		value = "ENOENT"
	}
	return value
}

// FillEnvVarInt returns the integer value of a runtime Environment Variable,
// or def when it is unset or not a number.
func FillEnvVarInt(ev string, def int) int {
	value := FillEnvVar(ev)
	if value == "ENOENT" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		slog.Warn("Environment variable is not a number", slog.String("var", ev), slog.Any("Error", err))
		return def
	}
	return n
}

// Ptr returns a pointer to v, for optional operation inputs.
func Ptr[T any](v T) *T { return &v }
