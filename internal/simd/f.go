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

package simd

import (
	"unsafe"
)

// VPXORQ is the 8-lane 64-bit XOR the fused kernel issues once per 4-block
// (64-byte) group to combine plaintext with keystream.
func VPXORQ(a, b, r *Vec64x8) {
	for i := range *r {
		r[i] = a[i] ^ b[i]
	}
}

// VMOVDQU8Z is a mask-predicated 64-byte load: lane i of the result is
// loaded from p[offs+i] when bit i of k is set, and left zero otherwise.
// The fused kernel's tail path (gcm/fused.go) uses this to pull a final
// group of fewer than 4 blocks out of the source buffer without a
// byte-at-a-time loop, mirroring the masked VMOVDQU8 a real AVX-512 kernel
// issues for a non-multiple-of-64 remainder.
func VMOVDQU8Z(p *uint8, offs int64, k uint64) Vec8x64 {
	var r Vec8x64
	s := unsafe.Slice((*uint8)(unsafe.Add(unsafe.Pointer(p), offs)), 64)
	for i := range r {
		if ((k >> i) & 0x01) != 0 {
			r[i] = s[i]
		}
	}
	return r
}

// VMOVDQU8 is the unmasked (full 64-byte) form of VMOVDQU8Z.
func VMOVDQU8(p *uint8, offs int64) Vec8x64 {
	return VMOVDQU8Z(p, offs, ^uint64(0))
}

// tailMask64 returns the mask selecting the first n bytes of a 64-byte
// lane group, n in [0, 64].
func tailMask64(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	if n <= 0 {
		return 0
	}
	return (uint64(1) << uint(n)) - 1
}

// MaskedXORTail XORs the low n bytes (n < 64) of a and b into dst using a
// single masked load per operand and a masked store, instead of a
// byte-at-a-time loop. It is the fused kernel's tail-group counterpart to
// xorBlocks4's full-group VPXORQ.
func MaskedXORTail(dst, a, b *uint8, n int) {
	mask := tailMask64(n)
	av := VMOVDQU8Z(a, 0, mask).ToVec64x8()
	bv := VMOVDQU8Z(b, 0, mask).ToVec64x8()
	var rv Vec64x8
	VPXORQ(&av, &bv, &rv)
	out := rv.ToVec8x64()
	d := unsafe.Slice(dst, n)
	copy(d, out[:n])
}
