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
	"encoding/binary"

	"github.com/solitonlabs/soliton-aead/internal/aes"
)

// incrCounter increments only the low 32 bits of the counter block
// (bytes 12..15, big-endian), wrapping on overflow, matching SP 800-38D's
// incr_32 function. The first 12 bytes (the nonce-derived prefix) are left
// untouched.
func incrCounter(ctr *specBlock) {
	v := binary.BigEndian.Uint32(ctr[12:16])
	v++
	binary.BigEndian.PutUint32(ctr[12:16], v)
}

// ctrBlock XORs src with the keystream block obtained by encrypting ctr
// under ek, writing the result to dst. dst and src may alias.
func ctrBlock(dst, src []byte, ctr specBlock, ek *aes.ExpandedKey256) {
	var ks, block [16]byte
	block = ctr
	aes.EncryptBlock(&ks, &block, ek)
	for i := range src {
		dst[i] = src[i] ^ ks[i]
	}
}

// ctrKeystream XORs src into dst using the CTR keystream starting at
// counter value ctr (inclusive), advancing ctr by one block per 16 bytes
// of src (a trailing partial block still consumes one counter value). On
// return *ctr holds the next unused counter value.
func ctrKeystream(dst, src []byte, ctr *specBlock, ek *aes.ExpandedKey256) {
	for len(src) > 0 {
		n := len(src)
		if n > 16 {
			n = 16
		}
		ctrBlock(dst[:n], src[:n], *ctr, ek)
		incrCounter(ctr)
		dst = dst[n:]
		src = src[n:]
	}
}
