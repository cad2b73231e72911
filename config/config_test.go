// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 25, cfg.Sim.Live)
	assert.Equal(t, 10, cfg.Sim.Steps)
	assert.Equal(t, 1, cfg.Sim.Every)
	assert.Equal(t, 10, cfg.Sim.Rows)
	assert.Equal(t, 10, cfg.Sim.Cols)
	assert.Equal(t, 4, cfg.World.Procs)
	assert.Equal(t, "O", cfg.Output.Alive)
	assert.False(t, cfg.IsSocket())
	assert.NoError(t, cfg.Validate())
}

func TestSetFromDefaultsBad(t *testing.T) {
	assert.Error(t, SetFromDefaults(Config{}))
	var bad struct {
		N int `default:"x"`
	}
	assert.Error(t, SetFromDefaults(&bad))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tf := filepath.Join(dir, "gol.toml")
	require.NoError(t, os.WriteFile(tf, []byte("[sim]\nrows = 20\npattern = \"glider\"\n\n[world]\ntimeout = 1.5\n"), 0o644))
	cfg := Defaults()
	require.NoError(t, Open(cfg, tf))
	assert.Equal(t, 20, cfg.Sim.Rows)
	assert.Equal(t, 10, cfg.Sim.Cols)
	assert.Equal(t, "glider", cfg.Sim.Pattern)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout())

	yf := filepath.Join(dir, "gol.yaml")
	require.NoError(t, os.WriteFile(yf, []byte("world:\n  hosts: [a:1, b:2]\n  rank: 1\noutput:\n  alive: \"#\"\n"), 0o644))
	cfg = Defaults()
	require.NoError(t, Open(cfg, yf))
	assert.True(t, cfg.IsSocket())
	assert.Equal(t, 2, cfg.Size())
	assert.Equal(t, 1, cfg.World.Rank)
	assert.Equal(t, "#", cfg.Output.Alive)
	assert.NoError(t, cfg.Validate())

	assert.Error(t, Open(Defaults(), filepath.Join(dir, "gol.json")))
	assert.Error(t, Open(Defaults(), filepath.Join(dir, "missing.toml")))
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Sim.Rows = 0
	cfg.Sim.Live = -1
	cfg.World.Capacity = -2
	cfg.Output.Alive = "x"
	err := cfg.Validate()
	require.Error(t, err)
	for _, s := range []string{"rows", "live", "capacity", "alive"} {
		assert.Contains(t, err.Error(), s)
	}

	cfg = Defaults()
	cfg.World.Hosts = []string{"a:1"}
	cfg.World.Rank = 1
	assert.ErrorContains(t, cfg.Validate(), "rank 1 out of range")
}

func TestClamp(t *testing.T) {
	cfg := Defaults()
	cfg.Sim.Live = 1000
	assert.True(t, cfg.Clamp())
	assert.Equal(t, 100, cfg.Sim.Live)
	assert.False(t, cfg.Clamp())
}
