// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration
// structs for the gol tool.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"cogentcore.org/gol/base/errors"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the main config struct that contains
// all of the configuration options for a run.
type Config struct {

	// the simulation parameters
	Sim Sim `toml:"sim" yaml:"sim" desc:"the simulation parameters"`

	// the world of ranks that runs the simulation
	World World `toml:"world" yaml:"world" desc:"the world of ranks that runs the simulation"`

	// how snapshots are written
	Output Output `toml:"output" yaml:"output" desc:"how snapshots are written"`
}

type Sim struct {

	// the number of live cells placed at random in the initial grid
	Live int `toml:"live" yaml:"live" default:"25" desc:"the number of live cells placed at random in the initial grid"`

	// the number of iterations
	Steps int `toml:"steps" yaml:"steps" default:"10" desc:"the number of iterations"`

	// write a snapshot every this many iterations
	Every int `toml:"every" yaml:"every" default:"1" desc:"write a snapshot every this many iterations"`

	// the number of rows of the grid
	Rows int `toml:"rows" yaml:"rows" default:"10" desc:"the number of rows of the grid"`

	// the number of columns of the grid
	Cols int `toml:"cols" yaml:"cols" default:"10" desc:"the number of columns of the grid"`

	// the random seed; 0 seeds from the clock
	Seed int64 `toml:"seed" yaml:"seed" desc:"the random seed; 0 seeds from the clock"`

	// a named seed pattern placed instead of random cells
	Pattern string `toml:"pattern" yaml:"pattern" desc:"a named seed pattern placed instead of random cells"`
}

type World struct {

	// the number of in-process ranks
	Procs int `toml:"procs" yaml:"procs" default:"4" desc:"the number of in-process ranks"`

	// the number of messages buffered per rank pair; 0 makes every send a rendezvous
	Capacity int `toml:"capacity" yaml:"capacity" desc:"the number of messages buffered per rank pair; 0 makes every send a rendezvous"`

	// the host:port of every rank of a socket world, in rank order
	Hosts []string `toml:"hosts" yaml:"hosts" desc:"the host:port of every rank of a socket world, in rank order"`

	// the rank of this process in a socket world
	Rank int `toml:"rank" yaml:"rank" desc:"the rank of this process in a socket world"`

	// the timeout in seconds of every blocking send and receive; 0 waits forever
	Timeout float64 `toml:"timeout" yaml:"timeout" desc:"the timeout in seconds of every blocking send and receive; 0 waits forever"`
}

type Output struct {

	// the glyph of live cells: O or #
	Alive string `toml:"alive" yaml:"alive" default:"O" desc:"the glyph of live cells: O or #"`

	// color live cells
	Color bool `toml:"color" yaml:"color" desc:"color live cells"`

	// check every snapshot against a sequential run
	Verify bool `toml:"verify" yaml:"verify" desc:"check every snapshot against a sequential run"`
}

// Defaults returns a config with every field set
// from its `default:` struct tag.
func Defaults() *Config {
	cfg := &Config{}
	errors.Must(SetFromDefaults(cfg))
	return cfg
}

// SetFromDefaults sets the fields of the given struct pointer
// from their `default:` struct tag values, recursing
// into struct fields.
func SetFromDefaults(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return errors.Errorf("config.SetFromDefaults: expected a struct pointer, got %T", cfg)
	}
	return setFromDefaults(v.Elem())
}

func setFromDefaults(v reflect.Value) error {
	var errs []error
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fv := v.Field(i)
		if f.Type.Kind() == reflect.Struct {
			errs = append(errs, setFromDefaults(fv))
			continue
		}
		def, ok := f.Tag.Lookup("default")
		if !ok {
			continue
		}
		if err := setString(fv, def); err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func setString(v reflect.Value, s string) error {
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported kind %v", v.Kind())
	}
	return nil
}

// Open reads the config file at the given path into cfg,
// overwriting only the fields present in the file. A leading
// ~ is expanded to the home directory. The format is chosen by
// extension: .toml, or .yaml and .yml.
func Open(cfg *Config, path string) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrap(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	default:
		return errors.Errorf("config.Open: %q: unknown config file extension %q", path, ext)
	}
	if err != nil {
		return errors.Errorf("config.Open: %q: %w", path, err)
	}
	return nil
}

// IsSocket returns whether the config describes one
// rank of a socket world rather than an in-process world.
func (cfg *Config) IsSocket() bool {
	return len(cfg.World.Hosts) > 0
}

// Size returns the number of ranks of the world.
func (cfg *Config) Size() int {
	if cfg.IsSocket() {
		return len(cfg.World.Hosts)
	}
	return cfg.World.Procs
}

// Timeout returns the per-operation timeout as a duration.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.World.Timeout * float64(time.Second))
}

// Validate returns an error describing every invalid
// parameter, or nil if the config can be run.
func (cfg *Config) Validate() error {
	var errs []error
	positive := func(name string, v int) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	positive("rows", cfg.Sim.Rows)
	positive("cols", cfg.Sim.Cols)
	positive("steps", cfg.Sim.Steps)
	positive("every", cfg.Sim.Every)
	if cfg.Sim.Live < 0 {
		errs = append(errs, fmt.Errorf("live must not be negative, got %d", cfg.Sim.Live))
	}
	if cfg.IsSocket() {
		if cfg.World.Rank < 0 || cfg.World.Rank >= len(cfg.World.Hosts) {
			errs = append(errs, fmt.Errorf("rank %d out of range for %d hosts", cfg.World.Rank, len(cfg.World.Hosts)))
		}
	} else {
		positive("procs", cfg.World.Procs)
	}
	if cfg.World.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity must not be negative, got %d", cfg.World.Capacity))
	}
	if cfg.World.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative, got %g", cfg.World.Timeout))
	}
	if cfg.Output.Alive != "O" && cfg.Output.Alive != "#" {
		errs = append(errs, fmt.Errorf("alive glyph must be O or #, got %q", cfg.Output.Alive))
	}
	if err := errors.Join(errs...); err != nil {
		return errors.Errorf("invalid config: %w", err)
	}
	return nil
}

// Clamp clamps the number of live cells to the number of
// cells of the grid, and returns whether it did so.
func (cfg *Config) Clamp() bool {
	n := cfg.Sim.Rows * cfg.Sim.Cols
	if cfg.Sim.Live <= n {
		return false
	}
	slog.Debug("clamping live cells to grid size", "live", cfg.Sim.Live, "cells", n)
	cfg.Sim.Live = n
	return true
}
