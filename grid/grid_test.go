// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"bytes"
	"strings"
	"testing"

	"cogentcore.org/gol/base/randx"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	// 10 rows over 4 ranks: 0,4,8 | 1,5,9 | 2,6 | 3,7
	assert.Equal(t, 3, Slots(10, 4))
	assert.Equal(t, []int{3, 3, 2, 2}, []int{Owned(0, 4, 10), Owned(1, 4, 10), Owned(2, 4, 10), Owned(3, 4, 10)})
	assert.Equal(t, 1, LastOwner(10, 4))
	assert.Equal(t, 9, GlobalRow(1, 2, 4))
	assert.Equal(t, 2, Owner(6, 4))

	// more ranks than rows
	assert.Equal(t, 1, Slots(2, 5))
	assert.Equal(t, 0, Owned(3, 5, 2))
	assert.Equal(t, 1, LastOwner(2, 5))

	for size := 1; size <= 7; size++ {
		for rows := 1; rows <= 20; rows++ {
			total := 0
			for r := 0; r < size; r++ {
				total += Owned(r, size, rows)
				assert.LessOrEqual(t, Owned(r, size, rows), Slots(rows, size))
			}
			assert.Equal(t, rows, total, "size %d rows %d", size, rows)
		}
	}
}

func TestGenerate(t *testing.T) {
	g := Generate(5, 6, 12, randx.NewSysRand(1))
	assert.Equal(t, 12, g.Alive())

	g = Generate(3, 3, 100, randx.NewSysRand(2))
	assert.Equal(t, 9, g.Alive())

	a := Generate(8, 8, 20, randx.NewSysRand(7))
	b := Generate(8, 8, 20, randx.NewSysRand(7))
	assert.True(t, a.Equal(b))
}

func TestRule(t *testing.T) {
	assert.Equal(t, Dead, Rule(Alive, 1))
	assert.Equal(t, Alive, Rule(Alive, 2))
	assert.Equal(t, Alive, Rule(Alive, 3))
	assert.Equal(t, Dead, Rule(Alive, 4))
	assert.Equal(t, Dead, Rule(Dead, 2))
	assert.Equal(t, Alive, Rule(Dead, 3))
}

func TestNext(t *testing.T) {
	g := New(5, 5)
	g.Set(2, 2, Alive)
	assert.Equal(t, 0, g.Next().Alive())

	blinker, err := PatternByName("blinker")
	require.NoError(t, err)
	g = New(5, 5)
	Place(g, blinker)
	n := g.Next()
	assert.False(t, n.Equal(g))
	assert.True(t, n.Next().Equal(g))

	// a glider crosses the wrapped edges and comes back
	// to where it started after 4*size steps
	glider, err := PatternByName("glider")
	require.NoError(t, err)
	g = New(6, 6)
	Place(g, glider)
	n = g.Clone()
	for range 24 {
		n = n.Next()
	}
	assert.True(t, n.Equal(g))
}

func TestPatterns(t *testing.T) {
	_, err := PatternByName("nope")
	assert.ErrorContains(t, err, "glider")

	row10, err := PatternByName("row10")
	require.NoError(t, err)
	g := New(13, 20)
	Place(g, row10)
	assert.Equal(t, 10, g.Alive())
	assert.Equal(t, Alive, g.Cells[145])
	assert.Equal(t, Alive, g.Cells[154])

	for _, p := range Patterns {
		g := New(20, 40)
		Place(g, p)
		assert.Equal(t, len(p.Cells), g.Alive(), p.Name)
	}
}

func TestRender(t *testing.T) {
	g := New(2, 3)
	g.Set(0, 1, Alive)
	g.Set(1, 2, Alive)
	var b bytes.Buffer
	require.NoError(t, Render(&b, g, 4, DefaultGlyphs))
	assert.Equal(t, "Step: 4\n. O .\n. . O\n------\n", b.String())

	b.Reset()
	require.NoError(t, Render(&b, g, 0, Glyphs{Dead: ".", Alive: "#", Profile: termenv.ANSI}))
	out := b.String()
	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, 2, strings.Count(out, "#"))
}
