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

// Package ctutil collects the constant-time primitives shared by the gcm
// and chacha20poly1305 engines: tag comparison, branchless selection, and
// secure buffer wipe. Nothing here takes a data-dependent branch or makes a
// data-dependent memory access.
package ctutil

import (
	"crypto/subtle"
	"runtime"
)

// Equal reports whether a and b are equal, taking time that depends only on
// len(a) and len(b), never on their contents. Callers authenticating a tag
// must use this instead of bytes.Equal.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// SelectByte returns a when v != 0 and b when v == 0, without branching on v.
func SelectByte(v, a, b byte) byte {
	mask := byte(subtle.ConstantTimeByteEq(v, 0)) - 1 // 0xff if v != 0, else 0x00
	return (a & mask) | (b & ^mask)
}

// CopyIf copies src into dst when v == 1 and leaves dst untouched when
// v == 0. v must be 0 or 1; dst and src must be the same length.
func CopyIf(v int, dst, src []byte) {
	subtle.ConstantTimeCopy(v, dst, src)
}

// Wipe overwrites buf with zeroes. The runtime.KeepAlive call after the loop
// prevents the compiler from proving the store is dead and eliding it, which
// is the failure mode a plain "clear the buffer before it goes out of scope"
// idiom is prone to.
func Wipe(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
