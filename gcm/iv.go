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

import "encoding/binary"

// deriveJ0 computes the pre-counter block J0 from the IV, per SP 800-38D
// section 7.1. The common 96-bit IV case takes the fast path: IV with a
// 32-bit counter field of 1 appended, no GHASH involved. Any other IV
// length goes through GHASH_H over the IV padded to a block boundary,
// followed by one more block holding a 64-bit zero field and the 64-bit
// big-endian bit length of the IV.
func deriveJ0(iv []byte, h kernelBlock) specBlock {
	if len(iv) == 12 {
		var j0 specBlock
		copy(j0[:12], iv)
		j0[15] = 1
		return j0
	}

	var state kernelBlock
	rem := iv
	for len(rem) >= 16 {
		var blk specBlock
		copy(blk[:], rem[:16])
		state = absorbBlock(state, blk, h)
		rem = rem[16:]
	}
	if len(rem) > 0 {
		state = absorbBlock(state, padBlock(rem), h)
	}

	var lenBlock specBlock
	binary.BigEndian.PutUint64(lenBlock[8:16], uint64(len(iv))*8)
	state = absorbBlock(state, lenBlock, h)

	return fromKernel(state)
}
