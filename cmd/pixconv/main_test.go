package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEffects(t *testing.T) {
	assert.Equal(t, []string{"grayscale", "canny"}, parseEffects(" Grayscale, ,CANNY,"))
	assert.Empty(t, parseEffects(""))
	assert.Empty(t, parseEffects(" , "))
}
