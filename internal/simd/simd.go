// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// Package simd provides selected AVX-512 intrinsics, emulated in portable
// Go, that the gcm package's fused kernel (gcm/fused.go) issues once per
// 4-block group while folding keystream into plaintext. Only the
// instructions the fused kernel actually issues are modeled here: a wider
// instruction set than the callers exercise would be exactly the kind of
// unexercised surface the rest of this module avoids.
package simd

import (
	"encoding/binary"
	"fmt"
)

// Vec8x64 is the byte view of one 512-bit (ZMM) register: 64 blocks of 8
// bits, or equivalently 4 AES blocks laid end to end.
type Vec8x64 [64]uint8

// Vec64x8 is the 64-bit-lane view of the same register, the shape VPXORQ
// and the masked-load/store instructions below operate on.
type Vec64x8 [8]uint64

func (v Vec8x64) ToVec64x8() Vec64x8 {
	return Vec64x8{
		binary.LittleEndian.Uint64(v[0:8]),
		binary.LittleEndian.Uint64(v[8:16]),
		binary.LittleEndian.Uint64(v[16:24]),
		binary.LittleEndian.Uint64(v[24:32]),
		binary.LittleEndian.Uint64(v[32:40]),
		binary.LittleEndian.Uint64(v[40:48]),
		binary.LittleEndian.Uint64(v[48:56]),
		binary.LittleEndian.Uint64(v[56:64]),
	}
}

func (v Vec64x8) ToVec8x64() Vec8x64 {
	var r Vec8x64
	for i, word := range v {
		binary.LittleEndian.PutUint64(r[i*8:i*8+8], word)
	}
	return r
}

func (v Vec64x8) String() string {
	return fmt.Sprintf("{%016x, %016x, %016x, %016x, %016x, %016x, %016x, %016x}",
		v[7], v[6], v[5], v[4], v[3], v[2], v[1], v[0])
}

func (v Vec8x64) String() string {
	return fmt.Sprintf("{%02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x, %02x}",
		v[63], v[62], v[61], v[60], v[59], v[58], v[57], v[56],
		v[55], v[54], v[53], v[52], v[51], v[50], v[49], v[48],
		v[47], v[46], v[45], v[44], v[43], v[42], v[41], v[40],
		v[39], v[38], v[37], v[36], v[35], v[34], v[33], v[32],
		v[31], v[30], v[29], v[28], v[27], v[26], v[25], v[24],
		v[23], v[22], v[21], v[20], v[19], v[18], v[17], v[16],
		v[15], v[14], v[13], v[12], v[11], v[10], v[9], v[8],
		v[7], v[6], v[5], v[4], v[3], v[2], v[1], v[0])
}
