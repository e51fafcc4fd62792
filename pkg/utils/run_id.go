package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateRunID creates a short, human-readable identifier for one leaderboard sweep.
// Format: {kind}-{8charHexUUID}
//
// Example:
//   - Input: kind="alchemy"
//   - Output: "alchemy-a3f8e2b1"
func GenerateRunID(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = "run"
	}
	return kind + "-" + generateShortUUID()
}

// generateShortUUID creates an 8-character hex string from a UUID
func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
