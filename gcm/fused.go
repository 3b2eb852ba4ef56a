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

import (
	"unsafe"

	"github.com/solitonlabs/soliton-aead/internal/aes"
	"github.com/solitonlabs/soliton-aead/internal/simd"
)

// xorBlocks4 XORs two 4-block (64-byte) lanes via the AVX512-emulation
// primitives in internal/simd: the same VPXORQ a real depth-8/16 fused
// kernel issues once per 4-lane group while folding keystream into
// plaintext.
func xorBlocks4(dst *[64]byte, a, b *[64]byte) {
	av := simd.Vec8x64(*a).ToVec64x8()
	bv := simd.Vec8x64(*b).ToVec64x8()
	var rv simd.Vec64x8
	simd.VPXORQ(&av, &bv, &rv)
	*dst = [64]byte(rv.ToVec8x64())
}

// xorKeystream XORs the n*16 bytes of keystream into src, writing cipherOut.
// Every full group of 4 blocks (64 bytes) goes through xorBlocks4; a
// trailing group of 1-63 bytes goes through a single masked vector op
// (simd.MaskedXORTail) instead of a byte-at-a-time loop, mirroring the
// masked store a real AVX-512 kernel issues for a remainder that is not a
// multiple of 64 bytes.
func xorKeystream(cipherOut, src, keystream []byte, n int) {
	blocks := n
	i := 0
	for ; i+4 <= blocks && (i+4)*16 <= len(src); i += 4 {
		var a, b, r [64]byte
		copy(a[:], src[i*16:i*16+64])
		copy(b[:], keystream[i*16:i*16+64])
		xorBlocks4(&r, &a, &b)
		copy(cipherOut[i*16:i*16+64], r[:])
	}
	if tail := len(src) - i*16; tail > 0 {
		simd.MaskedXORTail(
			(*uint8)(unsafe.Pointer(&cipherOut[i*16])),
			(*uint8)(unsafe.Pointer(&src[i*16])),
			(*uint8)(unsafe.Pointer(&keystream[i*16])),
			tail,
		)
	}
}

// batchScratch is the fixed-size working memory fusedProcess needs per
// batch. It lives inside Context (see context.go) and is reused across
// every update call, so the steady-state fused loop performs no heap
// allocation of its own.
type batchScratch struct {
	keystream [maxLaneDepth * 16]byte
	blocks    [maxLaneDepth]specBlock
}

// fusedProcess runs the CTR+GHASH fused loop for one message: it draws
// plan.LaneDepth blocks of keystream at a time from ctr/ek, XORs them with
// src via xorKeystream, and folds the resulting ciphertext blocks into the
// running GHASH accumulator with a single absorbBatch call per batch
// (rather than one absorbBlock call per block). GHASH always absorbs
// ciphertext, so on decrypt the batch handed to absorbBatch is built from
// src (the ciphertext being consumed), not from cipherOut.
//
// plan.Overlap marks a phase-locked backend, whose real-hardware rhythm
// would generate batch k+1's keystream while batch k is still being folded
// into GHASH. The two passes are independent per batch (keystream
// generation never reads the GHASH accumulator), so interleaving them
// changes scheduling, not the result; this portable implementation always
// runs them back to back and relies on that independence rather than
// reproducing a pipelined schedule that only matters for real hardware
// issue rates.
func fusedProcess(cipherOut, src []byte, ctr *specBlock, ek *aes.ExpandedKey256, state *kernelBlock, hp *hPowers, plan Plan, encrypting bool, sc *batchScratch) {
	depth := plan.LaneDepth
	if depth < 1 {
		depth = 1
	}

	for len(src) > 0 {
		n := depth
		if n*16 > len(src) {
			n = (len(src) + 15) / 16
		}
		batchLen := n * 16
		if batchLen > len(src) {
			batchLen = len(src)
		}

		keystream := sc.keystream[:n*16]
		for i := 0; i < n; i++ {
			var ks, blk [16]byte
			blk = *ctr
			aes.EncryptBlock(&ks, &blk, ek)
			incrCounter(ctr)
			copy(keystream[i*16:i*16+16], ks[:])
		}

		xorKeystream(cipherOut[:batchLen], src[:batchLen], keystream, n)

		batchBlocks := sc.blocks[:n]
		for i := 0; i < n; i++ {
			lo := i * 16
			hi := lo + 16
			if hi > batchLen {
				hi = batchLen
			}
			if encrypting {
				batchBlocks[i] = padBlock(cipherOut[lo:hi])
			} else {
				batchBlocks[i] = padBlock(src[lo:hi])
			}
		}
		*state = absorbBatch(*state, batchBlocks, hp)

		src = src[batchLen:]
		cipherOut = cipherOut[batchLen:]
	}
}
