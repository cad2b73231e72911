// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package randx provides the random number interface used
// for placing live cells, so that a world can be generated
// either reproducibly from a seed or from the global source.
package randx

import "math/rand/v2"

// Rand is the subset of the [rand.Rand] methods used
// for grid generation.
type Rand interface {

	// Intn returns a non-negative pseudo-random number in [0,n).
	// It panics if n <= 0.
	Intn(n int) int

	// Float64 returns a pseudo-random number in [0.0,1.0).
	Float64() float64

	// Perm returns a pseudo-random permutation of [0,n).
	Perm(n int) []int
}

// SysRand implements [Rand] with either a separate
// seeded source, or, if that is nil, the global source.
type SysRand struct {

	// if non-nil, use this random number source instead of the global default one
	Rand *rand.Rand
}

// NewGlobalRand returns a new SysRand using the global source.
func NewGlobalRand() *SysRand {
	return &SysRand{}
}

// NewSysRand returns a new SysRand with its own PCG source
// initialized from the given seed.
func NewSysRand(seed uint64) *SysRand {
	r := &SysRand{}
	r.NewRand(seed)
	return r
}

// NewRand sets Rand to a new source using the given seed.
func (r *SysRand) NewRand(seed uint64) {
	r.Rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (r *SysRand) Intn(n int) int {
	if r.Rand == nil {
		return rand.IntN(n)
	}
	return r.Rand.IntN(n)
}

func (r *SysRand) Float64() float64 {
	if r.Rand == nil {
		return rand.Float64()
	}
	return r.Rand.Float64()
}

func (r *SysRand) Perm(n int) []int {
	if r.Rand == nil {
		return rand.Perm(n)
	}
	return r.Rand.Perm(n)
}
