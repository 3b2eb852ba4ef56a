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

import "testing"

func TestExpandFromFirstTwoRoundKeysAreRawKey(t *testing.T) {
	var key Key256
	for i := range key {
		key[i] = byte(i)
	}
	var ek ExpandedKey256
	ek.ExpandFrom(key)

	for i := 0; i < 8; i++ {
		w := ek[i/4][i%4]
		want := word{key[4*i], key[4*i+1], key[4*i+2], key[4*i+3]}
		if w != want {
			t.Fatalf("round key word %d = %v, want %v", i, w, want)
		}
	}
}

func TestExpandFromIsDeterministic(t *testing.T) {
	var key Key256
	for i := range key {
		key[i] = byte(255 - i)
	}
	var a, b ExpandedKey256
	a.ExpandFrom(key)
	b.ExpandFrom(key)
	if a != b {
		t.Fatalf("ExpandFrom is not deterministic")
	}
}

func TestRotWordSubWord(t *testing.T) {
	w := word{0x00, 0x01, 0x02, 0x03}
	r := rotWord(w)
	if r != (word{0x01, 0x02, 0x03, 0x00}) {
		t.Fatalf("rotWord = %v", r)
	}
}
