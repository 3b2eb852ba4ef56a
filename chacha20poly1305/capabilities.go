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

package chacha20poly1305

// Capabilities reports the vector-instruction extensions relevant to a
// ChaCha20/Poly1305 implementation. It mirrors gcm.Capabilities' role as
// the sole input to backend selection, scaled down to the axes that
// actually change ChaCha20's lane width (ARX has no carryless-multiply
// analog to probe for).
type Capabilities struct {
	HasAVX2 bool // amd64: 8-way 32-bit lane width
	HasNEON bool // arm64: 4-way 32-bit lane width
}

// DetectCapabilities probes the host CPU. As with gcm.DetectCapabilities, a
// mis-detection only ever costs performance: every backend in this package
// computes through the same scalar ChaCha20/Poly1305 kernel.
func DetectCapabilities() Capabilities {
	return detectCapabilities()
}
