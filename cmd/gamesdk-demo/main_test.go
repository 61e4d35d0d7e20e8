//go:build !js

package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"gamesdk"
)

func TestDemo_Scoring(t *testing.T) {
	d := &demo{sdk: gamesdk.Inert(), logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	d.key(context.Background(), gamesdk.KeyEvent{Key: glfw.KeySpace, Action: glfw.Press})
	d.key(context.Background(), gamesdk.KeyEvent{Key: glfw.KeySpace, Action: glfw.Release})
	d.collect()
	assert.Equal(t, 11.0, d.score)
	assert.Equal(t, 1.0, d.flash)

	d.update(0.2)
	assert.InDelta(t, 0.4, d.flash, 1e-9)
	d.update(1)
	assert.Equal(t, 0.0, d.flash)

	d.submit(context.Background(), d.score)
}
