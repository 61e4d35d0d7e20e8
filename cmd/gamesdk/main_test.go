package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamesdk/internal/synth"
)

func TestSynthInput(t *testing.T) {
	in, name, err := synthInput("coin", "")
	require.NoError(t, err)
	assert.Equal(t, "coin", name)
	assert.Equal(t, synth.PresetInput("coin"), in)

	dir := t.TempDir()
	path := filepath.Join(dir, "beep.yaml")
	require.NoError(t, os.WriteFile(path, []byte("waveform: square\nfrequency: 440\nduration: 0.2\n"), 0o644))
	in, name, err = synthInput("", path)
	require.NoError(t, err)
	assert.Equal(t, "beep", name)
	require.NotNil(t, in.Definition)
	assert.Equal(t, synth.Square, in.Definition.Waveform)

	_, _, err = synthInput("coin", path)
	assert.Error(t, err)
	_, _, err = synthInput("", "")
	assert.Error(t, err)
}

func TestInstallDocs(t *testing.T) {
	dir := t.TempDir()
	written, err := installDocs(context.Background(), dir, false)
	require.NoError(t, err)
	require.NotEmpty(t, written)

	data, err := os.ReadFile(filepath.Join(dir, "GAMESDK.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "gamesdk integration guide")

	_, err = installDocs(context.Background(), dir, false)
	assert.Error(t, err)
	_, err = installDocs(context.Background(), dir, true)
	assert.NoError(t, err)
}
