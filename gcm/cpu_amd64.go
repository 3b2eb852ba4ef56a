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

//go:build amd64
// +build amd64

package gcm

import "golang.org/x/sys/cpu"

// hostIsARM64 lets the arch-agnostic selectBackend in backend.go tell apart
// an ARM PMULL host from an amd64 AES-NI+PCLMULQDQ host that merely lacks
// AVX2: both report HasAES && HasPCLMULQDQ, but the right backend name
// (and, on real hardware, the right code path) differs between them.
const hostIsARM64 = false

func detectCapabilities() Capabilities {
	return Capabilities{
		HasAES:        cpu.X86.HasAES,
		HasPCLMULQDQ:  cpu.X86.HasPCLMULQDQ,
		HasAVX2:       cpu.X86.HasAVX2,
		HasVAES:       cpu.X86.HasAVX512VAES,
		HasVPCLMULQDQ: cpu.X86.HasAVX512VPCLMULQDQ,
		HasAVX512F:    cpu.X86.HasAVX512F,
	}
}
