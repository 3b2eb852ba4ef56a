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

// Package poly1305 implements the Poly1305 one-time authenticator (RFC 8439
// section 2.5): the "vastly simpler math" half of ChaCha20-Poly1305's fused
// contract, a prime-field MAC with no domain-reflection problem of the kind
// gcm.domain.go exists to solve. Unlike internal/aes's from-scratch GF(2^8)
// arithmetic (chosen there to keep the AES S-box table-free and therefore
// constant-time), the field here is arithmetic mod the prime 2^130-5, which
// this package evaluates with math/big rather than hand-rolled 26-bit limb
// arithmetic; see DESIGN.md for why a from-scratch limb implementation was
// rejected for this specific primitive.
package poly1305

import (
	"encoding/binary"
	"math/big"
)

// KeySize is the Poly1305 one-time key length in bytes (16-byte r, 16-byte
// s).
const KeySize = 32

// TagSize is the Poly1305 authenticator length in bytes.
const TagSize = 16

var (
	prime   = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 130), big.NewInt(5))
	two128  = new(big.Int).Lsh(big.NewInt(1), 128)
	clampR  = mustHexBig("0ffffffc0ffffffc0ffffffc0fffffff")
)

func mustHexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("poly1305: bad constant")
	}
	return v
}

// leToInt reads b (little-endian) as a non-negative integer.
func leToInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i, v := range b {
		be[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(be)
}

// intToLE writes v (non-negative, < 2^(8*n)) into a freshly allocated
// n-byte little-endian buffer.
func intToLE(v *big.Int, n int) []byte {
	be := v.FillBytes(make([]byte, n))
	le := make([]byte, n)
	for i, b := range be {
		le[n-1-i] = b
	}
	return le
}

// MAC is a running Poly1305 computation: construct with New, feed message
// bytes with Write in any chunking (the accumulator is
// associative over block boundaries the same way gcm's GHASH accumulator
// is, see gcm/ghash.go), and read the tag with Sum. A MAC is single-use:
// Poly1305's security proof requires a fresh (r, s) pair per message, which
// is why this type has no Reset — chacha20poly1305.Context derives a new
// MAC from a new one-time key for every message instead.
type MAC struct {
	r, s, acc *big.Int
	buf       [16]byte
	bufLen    int
}

// New derives a MAC from the 32-byte one-time key: the first 16 bytes are
// r (clamped per RFC 8439 section 2.5.1), the last 16 are s.
func New(key *[KeySize]byte) *MAC {
	r := leToInt(key[0:16])
	r.And(r, clampR)
	s := leToInt(key[16:32])
	return &MAC{r: r, s: s, acc: new(big.Int)}
}

// absorbBlock folds one full 16-byte block (or a short final block with
// length < 16) into the accumulator: acc = (acc + (block | highBit)) * r
// mod p, per RFC 8439 section 2.5.1's per-block step.
func (m *MAC) absorbBlock(block []byte) {
	n := leToInt(block)
	n.SetBit(n, 8*len(block), 1)
	m.acc.Add(m.acc, n)
	m.acc.Mul(m.acc, m.r)
	m.acc.Mod(m.acc, prime)
}

// Write feeds len(p) bytes of message into the MAC. Like gcm.Context's AAD
// and ciphertext absorption, bytes may arrive in any chunking; a partial
// 16-byte block is buffered across calls.
func (m *MAC) Write(p []byte) {
	if m.bufLen > 0 {
		need := 16 - m.bufLen
		if need > len(p) {
			copy(m.buf[m.bufLen:], p)
			m.bufLen += len(p)
			return
		}
		copy(m.buf[m.bufLen:16], p[:need])
		m.absorbBlock(m.buf[:16])
		p = p[need:]
		m.bufLen = 0
	}
	for len(p) >= 16 {
		m.absorbBlock(p[:16])
		p = p[16:]
	}
	m.bufLen = copy(m.buf[:], p)
}

// Sum flushes any buffered partial block and returns the 16-byte tag:
// (acc + s) mod 2^128, little-endian. Sum does not mutate the MAC's
// absorbed state other than flushing the partial-block buffer, matching
// RFC 8439's one-shot Poly1305 function; chacha20poly1305 only ever calls
// it once per message, at EncryptFinal/DecryptFinal.
func (m *MAC) Sum() [TagSize]byte {
	if m.bufLen > 0 {
		m.absorbBlock(m.buf[:m.bufLen])
		m.bufLen = 0
	}
	out := new(big.Int).Add(m.acc, m.s)
	out.Mod(out, two128)

	var tag [TagSize]byte
	copy(tag[:], intToLE(out, TagSize))
	return tag
}

// PadBlock pads any currently buffered partial block with zero bytes up to
// the next 16-byte boundary, per RFC 8439 section 2.8's pad16 step (used
// between the AAD and ciphertext regions of a ChaCha20-Poly1305 message,
// the same structural role gcm.Context's closeAAD plays for GHASH). It is a
// no-op when no partial block is buffered.
func (m *MAC) PadBlock() {
	if m.bufLen == 0 {
		return
	}
	var zeros [16]byte
	need := 16 - m.bufLen
	m.Write(zeros[:need])
}

// Sum16 is a convenience one-shot form: Sum16(key, msg) == New(key);
// Write(msg); Sum().
func Sum16(key *[KeySize]byte, msg []byte) [TagSize]byte {
	m := New(key)
	m.Write(msg)
	return m.Sum()
}

// AppendUint64LE is a small helper the chacha20poly1305 package uses to
// build the RFC 8439 section 2.8 length trailer (AAD length || ciphertext
// length, both little-endian uint64) without importing encoding/binary
// itself for a single call site.
func AppendUint64LE(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}
