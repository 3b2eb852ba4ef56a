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

// Package chacha20 implements the ChaCha20 block function and keystream
// (RFC 8439 section 2.3/2.4), the simpler of the two primitive kernels
// chacha20poly1305 builds on. It follows the same from-scratch, no-table,
// no-hardware-intrinsic discipline as internal/aes: one column/diagonal
// quarter-round function applied 20 times to a 16-word state, entirely in
// terms of add/xor/rotate.
package chacha20

import (
	"encoding/binary"
	"math/bits"
)

// KeySize is the ChaCha20 key length in bytes.
const KeySize = 32

// NonceSize is the RFC 8439 nonce length in bytes (the 64-bit-nonce IETF
// draft variant is not implemented; this package only supports the final
// RFC 8439 96-bit nonce).
const NonceSize = 12

// BlockSize is the number of keystream bytes one block function call
// produces.
const BlockSize = 64

// constants are the 4 fixed words "expand 32-byte k" read as little-endian
// uint32s, per RFC 8439 section 2.3.
var constants = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// qround is one ChaCha quarter-round: the ARX (add-rotate-xor) mixing
// function defined in RFC 8439 section 2.1, applied in place to 4 of the
// 16 state words named by index.
func qround(state *[16]uint32, a, b, c, d int) {
	state[a] += state[b]
	state[d] = bits.RotateLeft32(state[d]^state[a], 16)
	state[c] += state[d]
	state[b] = bits.RotateLeft32(state[b]^state[c], 12)
	state[a] += state[b]
	state[d] = bits.RotateLeft32(state[d]^state[a], 8)
	state[c] += state[d]
	state[b] = bits.RotateLeft32(state[b]^state[c], 7)
}

// doubleRound applies one column round (the 4 quarter-rounds over each
// column of the 4x4 state matrix) followed by one diagonal round (the 4
// quarter-rounds over each diagonal), per RFC 8439 section 2.3's "inner
// block function" figure.
func doubleRound(state *[16]uint32) {
	qround(state, 0, 4, 8, 12)
	qround(state, 1, 5, 9, 13)
	qround(state, 2, 6, 10, 14)
	qround(state, 3, 7, 11, 15)
	qround(state, 0, 5, 10, 15)
	qround(state, 1, 6, 11, 12)
	qround(state, 2, 7, 8, 13)
	qround(state, 3, 4, 9, 14)
}

// initState lays out the 16-word ChaCha20 state: 4 constant words, 8 key
// words, 1 counter word, 3 nonce words, all little-endian, per RFC 8439
// section 2.3.
func initState(state *[16]uint32, key *[KeySize]byte, counter uint32, nonce *[NonceSize]byte) {
	copy(state[0:4], constants[:])
	for i := 0; i < 8; i++ {
		state[4+i] = binary.LittleEndian.Uint32(key[4*i : 4*i+4])
	}
	state[12] = counter
	for i := 0; i < 3; i++ {
		state[13+i] = binary.LittleEndian.Uint32(nonce[4*i : 4*i+4])
	}
}

// Block computes one 64-byte ChaCha20 keystream block for (key, counter,
// nonce): 10 double-rounds (20 quarter-rounds) over the initialized state,
// then the RFC 8439 feed-forward (the original state added back into the
// working state word-for-word), serialized little-endian.
func Block(out *[BlockSize]byte, key *[KeySize]byte, counter uint32, nonce *[NonceSize]byte) {
	var original, working [16]uint32
	initState(&original, key, counter, nonce)
	working = original

	for i := 0; i < 10; i++ {
		doubleRound(&working)
	}

	for i := range working {
		working[i] += original[i]
	}
	for i, w := range working {
		binary.LittleEndian.PutUint32(out[4*i:4*i+4], w)
	}
}

// XORKeyStream XORs len(src) bytes of ChaCha20 keystream into src, writing
// dst, starting at block counter startCounter. dst and src may alias.
// counter advances by one per 64-byte block; a final partial block still
// consumes one counter value and the unused tail of its keystream is
// discarded (RFC 8439 places no significance on keystream bytes past the
// plaintext length, unlike GCM's CTR mode where every counter value maps to
// exactly one 16-byte block).
func XORKeyStream(dst, src []byte, key *[KeySize]byte, startCounter uint32, nonce *[NonceSize]byte) {
	counter := startCounter
	var ks [BlockSize]byte
	for len(src) > 0 {
		Block(&ks, key, counter, nonce)
		counter++
		n := len(src)
		if n > BlockSize {
			n = BlockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ ks[i]
		}
		dst = dst[n:]
		src = src[n:]
	}
}
