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

package aes

// BlockSize is the AES block size in bytes.
const BlockSize = 16

// state is the 16-byte AES state, column-major: state[r+4*c] is row r,
// column c.
type state [16]byte

func addRoundKey(s *state, rk [4]word) {
	for c := 0; c < 4; c++ {
		w := rk[c]
		s[4*c] ^= w[0]
		s[4*c+1] ^= w[1]
		s[4*c+2] ^= w[2]
		s[4*c+3] ^= w[3]
	}
}

func subBytes(s *state) {
	for i := range s {
		s[i] = sboxByte(s[i])
	}
}

func shiftRows(s *state) {
	var t state
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[r+4*c] = s[r+4*((c+r)%4)]
		}
	}
	*s = t
}

func mixColumns(s *state) {
	for c := 0; c < 4; c++ {
		s0, s1, s2, s3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c+0] = gmul(s0, 2) ^ gmul(s1, 3) ^ s2 ^ s3
		s[4*c+1] = s0 ^ gmul(s1, 2) ^ gmul(s2, 3) ^ s3
		s[4*c+2] = s0 ^ s1 ^ gmul(s2, 2) ^ gmul(s3, 3)
		s[4*c+3] = gmul(s0, 3) ^ s1 ^ s2 ^ gmul(s3, 2)
	}
}

// EncryptBlock encrypts the 16 bytes of src into dst under the expanded
// key. src and dst may alias.
func EncryptBlock(dst, src *[16]byte, ek *ExpandedKey256) {
	var s state
	copy(s[:], src[:])

	addRoundKey(&s, ek[0])
	for round := 1; round < 14; round++ {
		subBytes(&s)
		shiftRows(&s)
		mixColumns(&s)
		addRoundKey(&s, ek[round])
	}
	subBytes(&s)
	shiftRows(&s)
	addRoundKey(&s, ek[14])

	copy(dst[:], s[:])
}
