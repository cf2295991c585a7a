package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMessage(t *testing.T) {
	assert.Equal(t, "agent weather now", NormalizeMessage("  agent \t weather\n now "))
	assert.Equal(t, "", NormalizeMessage("   "))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"agent", "weather"}, Tokenize("Agent WEATHER"))
	assert.Empty(t, Tokenize(""))
}
