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

import "github.com/solitonlabs/soliton-aead/ints"

// StoreMode labels how a plan keeps the ciphertext blocks it produces
// between the CTR and GHASH passes. It is recorded in Plan only:
// fusedProcess does not read it, and every plan folds a whole lane-depth
// batch into GHASH with one absorbBatch call regardless of StoreMode.
type StoreMode uint8

const (
	// StoreModeCached is the label NewPlan gives a phase-locked plan
	// (Overlap set).
	StoreModeCached StoreMode = iota
	// StoreModeStreaming is the label NewPlan gives every plan without
	// Overlap.
	StoreModeStreaming
)

// Plan is the immutable execution plan selected once in New (see
// context.go) from the host's Capabilities and a caller-supplied workload
// size hint. It never changes for the lifetime of a Context: every
// encrypt_update/decrypt_update call reads it but none of them are allowed
// to mutate it, which is what lets a single plan value be shared, read-only,
// across however many update calls a message needs.
type Plan struct {
	Backend   Backend
	LaneDepth int
	Overlap   bool
	Store     StoreMode
}

// smallWorkloadThreshold is the plaintext-size hint below which batching
// overhead (building a full lane-depth batch before folding it into GHASH)
// is assumed to cost more than it saves; the plan then falls back to a
// single-block-at-a-time shape even on hardware that could run wider.
const smallWorkloadThreshold = 4 * 16 * maxLaneDepth

// NewPlan selects an execution plan for a message of approximately
// sizeHint plaintext bytes (0 if unknown). sizeHint only ever influences
// LaneDepth/Store, never which backend is considered capable: capability
// detection and workload shaping are independent axes.
func NewPlan(caps Capabilities, sizeHint int) Plan {
	backend := selectBackend(caps)
	depth := backend.laneDepth()

	if sizeHint > 0 && sizeHint < smallWorkloadThreshold {
		depth = 1
	}
	depth = ints.Clamp(depth, 1, maxLaneDepth)

	store := StoreModeStreaming
	overlap := backend.phaseLocked() && depth > 1
	if overlap {
		store = StoreModeCached
	}

	return Plan{
		Backend:   backend,
		LaneDepth: depth,
		Overlap:   overlap,
		Store:     store,
	}
}
