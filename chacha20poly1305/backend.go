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

// Backend names the vector width a plan would run the ARX quarter-round
// over on real hardware. As in gcm, every backend here bottoms out in the
// same portable scalar kernel (internal/chacha20, internal/poly1305): no
// AVX2/NEON machine code ships, because none exists anywhere in the
// retrieval pack to ground it on (see SPEC_FULL.md section 4.19). The enum exists so the
// dispatcher shape matches gcm's even though the portable implementation
// behind it does not vary.
type Backend uint8

const (
	// BackendScalar processes one 64-byte ChaCha20 block at a time.
	BackendScalar Backend = iota
	// BackendAVX2 models an 8-way-lane amd64 kernel.
	BackendAVX2
	// BackendNEON models a 4-way-lane arm64 kernel.
	BackendNEON
)

func (b Backend) String() string {
	switch b {
	case BackendScalar:
		return "scalar"
	case BackendAVX2:
		return "avx2"
	case BackendNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// selectBackend mirrors gcm's selectBackend rule: prefer the widest kernel
// the host advertises, scalar otherwise. There is no "neither usable"
// fallback concern here the way there is for GCM's AES-NI/PCLMULQDQ pair,
// because the scalar ARX kernel is always correct and is always available.
func selectBackend(c Capabilities) Backend {
	switch {
	case c.HasAVX2:
		return BackendAVX2
	case c.HasNEON:
		return BackendNEON
	default:
		return BackendScalar
	}
}

// Plan is the read-only execution plan chosen once in New/Reset. Unlike
// gcm.Plan, it carries no store-mode axis: ChaCha20-Poly1305 has no
// phase-locked batch rhythm to decide between (see SPEC_FULL.md's
// fused-kernel analog note).
type Plan struct {
	Backend Backend
}

// NewPlan selects a Plan from the host's Capabilities.
func NewPlan(caps Capabilities) Plan {
	return Plan{Backend: selectBackend(caps)}
}
