package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"particle-engine/config"
	"particle-engine/internal/opengl"
)

func TestWindowConfigFallsBackToDefaults(t *testing.T) {
	def := opengl.DefaultWindowConfig()

	wc := windowConfig(config.WindowConfig{VSync: true})
	assert.Equal(t, def.Width, wc.Width)
	assert.Equal(t, def.Height, wc.Height)
	assert.Equal(t, def.Title, wc.Title)
	assert.True(t, wc.Resizable)

	wc = windowConfig(config.WindowConfig{Width: 640, Height: 480, Title: "smoke", VSync: false})
	assert.Equal(t, 640, wc.Width)
	assert.Equal(t, 480, wc.Height)
	assert.Equal(t, "smoke", wc.Title)
	assert.False(t, wc.VSync)
}
