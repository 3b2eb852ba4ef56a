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

// absorbBlock folds a single spec-domain block into the running GHASH
// state: state = (state XOR block) * H. state and the return value are
// kernel domain.
func absorbBlock(state kernelBlock, block specBlock, h kernelBlock) kernelBlock {
	state = xorKernel(state, toKernel(block))
	return mulKernel(state, h)
}

// absorbBatch folds 1..maxLaneDepth consecutive blocks into state using a
// single H-power multiply per block and no chained multiply-by-H between
// blocks, the "fused batch" shape a depth-8/depth-16 backend uses. Each
// product is still reduced individually by mulKernel.
// It is Horner's rule unrolled against precomputed H-powers and produces
// exactly the same accumulator absorbBlock would reach calling it once per
// block in order; see the batch-vs-sequential equivalence test.
func absorbBatch(state kernelBlock, blocks []specBlock, hp *hPowers) kernelBlock {
	n := len(blocks)
	acc := xorKernel(state, toKernel(blocks[0]))
	acc = mulKernel(acc, hp.at(n))
	for i := 1; i < n; i++ {
		term := mulKernel(toKernel(blocks[i]), hp.at(n-i))
		acc = xorKernel(acc, term)
	}
	return acc
}

// padBlock zero-pads a short final block up to 16 bytes, per SP 800-38D's
// treatment of a partial final AAD/ciphertext block.
func padBlock(partial []byte) specBlock {
	var b specBlock
	copy(b[:], partial)
	return b
}

// ghashAll runs GHASH_H over data end to end, zero-padding a trailing
// partial block if present. It is used for one-shot IV derivation
// (arbitrary-length IVs) and as a reference oracle in tests; the streaming
// engine in context.go absorbs incrementally instead so it never needs the
// whole AAD or ciphertext buffered at once.
func ghashAll(h kernelBlock, data []byte) specBlock {
	var state kernelBlock
	for len(data) >= 16 {
		var blk specBlock
		copy(blk[:], data[:16])
		state = absorbBlock(state, blk, h)
		data = data[16:]
	}
	if len(data) > 0 {
		state = absorbBlock(state, padBlock(data), h)
	}
	return fromKernel(state)
}
