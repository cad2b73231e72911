// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gol runs Conway's Game of Life on a world of ranks,
// either in this process with one goroutine per rank, or as
// one rank of a world of processes connected by websockets.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"cogentcore.org/gol/base/errors"
	"cogentcore.org/gol/config"
	"cogentcore.org/gol/grid"
	"cogentcore.org/gol/life"
	"cogentcore.org/gol/logx"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const usage = `gol [L N F R C] [flags]

  L is the starting number of live cells
  N is the number of iterations
  F is the frequency of the output of the grid
  R, C are the number of rows and columns`

func main() {
	cmd, _, _ := newRootCmd()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// options are the flags that are not part of [config.Config].
type options struct {
	config string
	hosts  string
	vv     bool
	v      bool
	q      bool
}

// newRootCmd returns the root command, and the config and
// options that its flags are bound to.
func newRootCmd() (*cobra.Command, *config.Config, *options) {
	cfg := config.Defaults()
	opts := &options{}
	cmd := &cobra.Command{
		Use:           usage,
		Short:         "Conway's Game of Life on a world of message-passing ranks",
		Args:          positional,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := resolve(cmd.Flags(), cfg, opts, args); err != nil {
				return err
			}
			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "read the config from this TOML or YAML file")
	f.IntVarP(&cfg.Sim.Live, "live", "L", cfg.Sim.Live, "the starting number of live cells")
	f.IntVarP(&cfg.Sim.Steps, "steps", "N", cfg.Sim.Steps, "the number of iterations")
	f.IntVarP(&cfg.Sim.Every, "every", "F", cfg.Sim.Every, "print the grid every this many iterations")
	f.IntVarP(&cfg.Sim.Rows, "rows", "R", cfg.Sim.Rows, "the number of rows")
	f.IntVarP(&cfg.Sim.Cols, "cols", "C", cfg.Sim.Cols, "the number of columns")
	f.Int64Var(&cfg.Sim.Seed, "seed", cfg.Sim.Seed, "the random seed; 0 seeds from the clock")
	f.StringVar(&cfg.Sim.Pattern, "pattern", cfg.Sim.Pattern, "place this seed pattern instead of random cells (see gol patterns)")
	f.IntVarP(&cfg.World.Procs, "procs", "P", cfg.World.Procs, "the number of in-process ranks")
	f.IntVar(&cfg.World.Capacity, "capacity", cfg.World.Capacity, "the number of messages buffered per rank pair")
	f.StringVar(&opts.hosts, "hosts", "", "comma-separated host:port of every rank of a socket world, in rank order")
	f.IntVar(&cfg.World.Rank, "rank", cfg.World.Rank, "the rank of this process in a socket world")
	f.Float64Var(&cfg.World.Timeout, "timeout", cfg.World.Timeout, "the timeout in seconds of every send and receive; 0 waits forever")
	f.StringVar(&cfg.Output.Alive, "alive", cfg.Output.Alive, "the glyph of live cells: O or #")
	f.BoolVar(&cfg.Output.Color, "color", cfg.Output.Color, "color live cells when printing to a terminal")
	f.BoolVar(&cfg.Output.Verify, "verify", cfg.Output.Verify, "check every snapshot against a sequential run")
	f.BoolVar(&opts.vv, "vv", false, "print debug messages")
	f.BoolVarP(&opts.v, "verbose", "v", false, "print informational messages")
	f.BoolVarP(&opts.q, "quiet", "q", false, "only print errors")
	cmd.AddCommand(newPatternsCmd())
	return cmd, cfg, opts
}

func positional(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 5 {
		return fmt.Errorf("expected 0 or 5 arguments, got %d\nUsage: %s", len(args), usage)
	}
	return nil
}

// resolve fills cfg from, in increasing order of precedence,
// the defaults, the config file, the positional arguments,
// and the flags given explicitly.
func resolve(fs *pflag.FlagSet, cfg *config.Config, opts *options, args []string) error {
	logx.UserLevel = logx.LevelFromFlags(opts.vv, opts.v, opts.q)
	logx.SetDefaultLogger()

	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if opts.config != "" {
		if err := config.Open(cfg, opts.config); err != nil {
			return err
		}
	}
	if len(args) == 5 {
		dst := []*int{&cfg.Sim.Live, &cfg.Sim.Steps, &cfg.Sim.Every, &cfg.Sim.Rows, &cfg.Sim.Cols}
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("argument %d: %q is not a number\nUsage: %s", i+1, a, usage)
			}
			*dst[i] = n
		}
	}
	for name, v := range changed {
		if err := fs.Set(name, v); err != nil {
			return errors.Wrap(err)
		}
	}
	if opts.hosts != "" {
		cfg.World.Hosts = strings.Split(opts.hosts, ",")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.Clamp()
	return nil
}

func run(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	gl := grid.Glyphs{Dead: ".", Alive: cfg.Output.Alive, Profile: termenv.Ascii}
	if cfg.Output.Color && isatty.IsTerminal(os.Stdout.Fd()) {
		gl.Profile = termenv.EnvColorProfile()
	}
	printer := life.Printer(os.Stdout, gl)
	if cfg.IsSocket() {
		slog.Info("joining socket world", "rank", cfg.World.Rank, "hosts", strings.Join(cfg.World.Hosts, ","))
		return life.RunRank(ctx, cfg, printer)
	}
	slog.Info("running in-process world", "procs", cfg.World.Procs)
	return life.Run(ctx, cfg, printer)
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the seed patterns",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range grid.Patterns {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", p.Name, p.Desc)
			}
		},
	}
}
