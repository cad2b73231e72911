// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package randx

import "time"

// New returns a [SysRand] seeded with seed, or with the
// current time if seed is 0. It also returns the seed
// actually used so that a run can be reported and repeated.
func New(seed int64) (*SysRand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewSysRand(uint64(seed)), seed
}
