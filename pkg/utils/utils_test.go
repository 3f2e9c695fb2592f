package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "New_York_City", SafeFileName("New York City"))
	assert.Equal(t, "S_o_Paulo_structured", SafeFileName("São Paulo/structured"))
	assert.Equal(t, "unknown", SafeFileName("  ***  "))
	assert.Len(t, SafeFileName(string(make([]byte, 200))+"x"), 1)
}

func TestGenerateRandomID(t *testing.T) {
	id := GenerateRandomID(8)
	assert.Len(t, id, 8)
	assert.NotEqual(t, id, GenerateRandomID(8))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
}
