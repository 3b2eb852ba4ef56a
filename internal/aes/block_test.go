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

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal: %v", err)
	}
	return b
}

// TestEncryptBlockFIPS197 checks the AES-256 engine against the FIPS-197
// Appendix C.3 known-answer test.
func TestEncryptBlockFIPS197(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	pt := mustHex(t, "00112233445566778899aabbccddeeff")
	want := mustHex(t, "8ea2b7ca516745bfeafc49904b496089")

	var k Key256
	copy(k[:], key)
	var ek ExpandedKey256
	ek.ExpandFrom(k)

	var src, dst [16]byte
	copy(src[:], pt)
	EncryptBlock(&dst, &src, &ek)

	if hex.EncodeToString(dst[:]) != hex.EncodeToString(want) {
		t.Fatalf("got %x, want %x", dst, want)
	}
}

func TestEncryptBlockInPlaceAliasing(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	pt := mustHex(t, "00112233445566778899aabbccddeeff")

	var k Key256
	copy(k[:], key)
	var ek ExpandedKey256
	ek.ExpandFrom(k)

	var buf [16]byte
	copy(buf[:], pt)
	EncryptBlock(&buf, &buf, &ek)

	var dst [16]byte
	var src [16]byte
	copy(src[:], pt)
	EncryptBlock(&dst, &src, &ek)

	if buf != dst {
		t.Fatalf("in-place encrypt diverged from out-of-place: %x vs %x", buf, dst)
	}
}

func TestSboxKnownValues(t *testing.T) {
	cases := map[byte]byte{
		0x00: 0x63,
		0x01: 0x7c,
		0x53: 0xed,
	}
	for in, want := range cases {
		if got := sboxByte(in); got != want {
			t.Errorf("sboxByte(%#x) = %#x, want %#x", in, got, want)
		}
	}
}
