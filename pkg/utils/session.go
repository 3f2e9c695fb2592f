package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// GenerateRandomID generates a random hex ID of the given length
func GenerateRandomID(length int) string {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp-based ID
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)[:length]
}

// SafeFileName turns a free-text label into something usable in a file name.
func SafeFileName(label string) string {
	name := unsafeNameChars.ReplaceAllString(strings.TrimSpace(label), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "unknown"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
