package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRunID_Format(t *testing.T) {
	id := GenerateRunID(" Alchemy ")

	assert.Regexp(t, regexp.MustCompile(`^alchemy-[0-9a-f]{8}$`), id)
}

func TestGenerateRunID_EmptyKind(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^run-[0-9a-f]{8}$`), GenerateRunID(""))
}

func TestGenerateRunID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRunID("enhance"), GenerateRunID("enhance"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-3, 1, 10))
	assert.Equal(t, 10, Clamp(42, 1, 10))
	assert.Equal(t, 5, Clamp(5, 1, 10))
}
