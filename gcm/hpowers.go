// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package gcm

// maxLaneDepth is the largest fused batch width a backend can select
// (see plan.go); H-powers are precomputed up to this width so that a
// depth-16 batch can fold its first (oldest) block with a single H^16
// multiply.
const maxLaneDepth = 16

// hPowers holds H^1 .. H^maxLaneDepth in kernel domain. pow[0] is H^1. The
// table carries no alignment guarantee beyond Go's default layout.
type hPowers struct {
	pow [maxLaneDepth]kernelBlock
}

func newHPowers(h kernelBlock) hPowers {
	var hp hPowers
	hp.pow[0] = h
	for i := 1; i < maxLaneDepth; i++ {
		hp.pow[i] = mulKernel(hp.pow[i-1], h)
	}
	return hp
}

// at returns H^n for n in [1, maxLaneDepth].
func (hp *hPowers) at(n int) kernelBlock {
	return hp.pow[n-1]
}
