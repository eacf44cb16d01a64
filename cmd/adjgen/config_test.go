package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDistinguishesUnsetFields(t *testing.T) {
	t.Parallel()
	cfg, err := parseConfig([]byte("words_path: /data/words.txt\nepochs: 200\ntemperature: 0.8\n"))
	require.NoError(t, err)

	assert.Equal(t, "/data/words.txt", cfg.WordsPath)
	require.NotNil(t, cfg.Epochs)
	assert.Equal(t, int64(200), *cfg.Epochs)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.8, *cfg.Temperature, 1e-9)

	// Fields absent from the file stay nil so flag defaults win.
	assert.Nil(t, cfg.Width)
	assert.Nil(t, cfg.Depth)
	assert.Nil(t, cfg.BatchSize)
	assert.Nil(t, cfg.Count)
	assert.Nil(t, cfg.Seed)
	assert.Empty(t, cfg.ModelPath)
}

func TestParseConfigRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := parseConfig([]byte("epochs: [not a number\n"))
	assert.Error(t, err)
}

func TestParseConfigEmptyFile(t *testing.T) {
	t.Parallel()
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}
