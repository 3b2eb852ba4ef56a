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

// Capabilities reports the AES/GHASH-relevant instruction set extensions
// the current CPU exposes. It is the sole input to backend selection in
// backend.go: nothing else about the host is consulted.
type Capabilities struct {
	HasAES        bool // AES-NI (amd64) or ARMv8 AES (arm64)
	HasPCLMULQDQ  bool // carryless multiply (amd64) or PMULL (arm64)
	HasAVX2       bool
	HasVAES       bool // VAES: AES-NI lifted to 256/512-bit vectors
	HasVPCLMULQDQ bool // PCLMULQDQ lifted to 256/512-bit vectors
	HasAVX512F    bool
}

// DetectCapabilities probes the host CPU. The result only ever widens the
// set of backends plan.go is allowed to choose from; a mis-detection that
// under-reports features costs performance, never correctness, because
// every backend in this package computes through the same verified
// domain-safe kernel (see domain.go).
func DetectCapabilities() Capabilities {
	return detectCapabilities()
}
