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

// Package gcm implements AES-256-GCM (NIST SP 800-38D) as a streaming
// init/update/final state machine rather than Go's one-shot cipher.AEAD
// interface. Every operation committed to by Context mirrors the external
// interface table this package was built against: New, Reset, AADUpdate,
// EncryptUpdate/DecryptUpdate, EncryptFinal/DecryptFinal, and Wipe.
package gcm

import (
	"encoding/binary"

	"github.com/solitonlabs/soliton-aead/internal/aes"
	"github.com/solitonlabs/soliton-aead/internal/ctutil"
)

// Key256 is a raw AES-256 key, aliased from internal/aes so callers never
// need to import that package directly.
type Key256 = aes.Key256

// TagSize is the only authentication tag length this package produces or
// accepts; SP 800-38D allows shorter tags but this engine does not trade
// away authentication strength for a smaller wire format.
const TagSize = 16

// MaxPlaintextBytes is the largest plaintext a single Context may encrypt
// under one IV, matching SP 800-38D's 2^39-256 bit bound.
const MaxPlaintextBytes = (uint64(1) << 36) - 32

// MaxAADBytes is the largest AAD a single Context accepts, matching
// SP 800-38D's 2^64-1 bit bound expressed in bytes.
const MaxAADBytes = (uint64(1) << 61) - 1

type phase uint8

const (
	phaseAAD phase = iota
	phaseBody
	phaseDone
	phaseWiped
)

type direction uint8

const (
	dirUndecided direction = iota
	dirEncrypt
	dirDecrypt
)

// Context is one AES-256-GCM session: one key, one IV, and the running
// state of a single init -> [AADUpdate]* -> [EncryptUpdate|DecryptUpdate]*
// -> Final lifecycle. A Context is not safe for concurrent use; the
// concurrency model is one Context per goroutine; see Plan for the
// (shared, read-only, concurrency-safe) execution plan it carries.
type Context struct {
	ek aes.ExpandedKey256
	h  kernelBlock
	hp hPowers

	j0  specBlock
	ctr specBlock

	ghashState kernelBlock

	aadBuf    [16]byte
	aadBufLen int
	aadBits   uint64

	buf    [16]byte
	bufLen int
	dataBytes uint64

	plan      Plan
	phase     phase
	direction direction

	scratch batchScratch
}

// New starts a Context for key and iv. sizeHint is the approximate
// plaintext size in bytes (0 if unknown); it only ever shapes Plan, never
// correctness. iv may be any length SP 800-38D allows (empty is rejected);
// the 96-bit fast path in deriveJ0 is used automatically when len(iv)==12.
func New(key Key256, iv []byte, sizeHint int) (*Context, error) {
	if len(iv) == 0 {
		return nil, newErr(KindInvalidInput, "init", "IV must not be empty")
	}

	c := &Context{}
	if err := c.init(key, iv, sizeHint); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) init(key Key256, iv []byte, sizeHint int) error {
	c.ek.ExpandFrom(key)

	var zero, hBlock [16]byte
	aes.EncryptBlock(&hBlock, &zero, &c.ek)
	var hSpec specBlock
	copy(hSpec[:], hBlock[:])
	c.h = toKernel(hSpec)
	c.hp = newHPowers(c.h)

	c.j0 = deriveJ0(iv, c.h)
	c.ctr = c.j0
	incrCounter(&c.ctr) // body keystream starts at counter 2; J0 itself is reserved for the tag mask

	c.ghashState = kernelBlock{}
	c.aadBufLen = 0
	c.aadBits = 0
	c.bufLen = 0
	c.dataBytes = 0
	c.phase = phaseAAD
	c.direction = dirUndecided

	c.plan = NewPlan(DetectCapabilities(), sizeHint)
	return nil
}

// Reset re-derives J0 and clears all per-message state for a new iv while
// keeping the expanded key and H-power table, which are the only parts of
// setup expensive enough to be worth not repeating.
func (c *Context) Reset(iv []byte) error {
	if c.phase == phaseWiped {
		return newErr(KindInternal, "reset", "context already wiped")
	}
	if len(iv) == 0 {
		return newErr(KindInvalidInput, "reset", "IV must not be empty")
	}

	c.j0 = deriveJ0(iv, c.h)
	c.ctr = c.j0
	incrCounter(&c.ctr)

	c.ghashState = kernelBlock{}
	c.aadBufLen = 0
	c.aadBits = 0
	c.bufLen = 0
	c.dataBytes = 0
	c.phase = phaseAAD
	c.direction = dirUndecided
	return nil
}

// AADUpdate absorbs additional authenticated data. It must be called
// before the first EncryptUpdate/DecryptUpdate call on this Context (or
// Reset); SP 800-38D treats AAD and ciphertext as two disjoint regions of
// the hashed input, in that order.
func (c *Context) AADUpdate(aad []byte) error {
	if c.phase == phaseWiped {
		return newErr(KindInternal, "aad_update", "context already wiped")
	}
	if c.phase != phaseAAD {
		return newErr(KindInvalidInput, "aad_update", "AAD must precede all ciphertext")
	}
	if c.aadBits+uint64(len(aad))*8 < c.aadBits || (c.aadBits/8+uint64(len(aad))) > MaxAADBytes {
		return newErr(KindInvalidInput, "aad_update", "AAD exceeds maximum length")
	}

	data := aad
	if c.aadBufLen > 0 {
		need := 16 - c.aadBufLen
		if need > len(data) {
			copy(c.aadBuf[c.aadBufLen:], data)
			c.aadBufLen += len(data)
			c.aadBits += uint64(len(aad)) * 8
			return nil
		}
		copy(c.aadBuf[c.aadBufLen:16], data[:need])
		var blk specBlock
		copy(blk[:], c.aadBuf[:16])
		c.ghashState = absorbBlock(c.ghashState, blk, c.h)
		data = data[need:]
		c.aadBufLen = 0
	}

	for len(data) >= 16 {
		var blk specBlock
		copy(blk[:], data[:16])
		c.ghashState = absorbBlock(c.ghashState, blk, c.h)
		data = data[16:]
	}

	c.aadBufLen = copy(c.aadBuf[:], data)
	c.aadBits += uint64(len(aad)) * 8
	return nil
}

func (c *Context) closeAAD() {
	if c.aadBufLen > 0 {
		blk := padBlock(c.aadBuf[:c.aadBufLen])
		c.ghashState = absorbBlock(c.ghashState, blk, c.h)
		c.aadBufLen = 0
	}
	c.phase = phaseBody
}

// EncryptUpdate encrypts len(src) bytes of plaintext, writing ciphertext to
// dst, and returns the number of bytes actually written this call. Up to
// 15 bytes of input are buffered internally between calls to keep the
// fused CTR+GHASH loop operating on whole blocks; the remainder is flushed
// by EncryptFinal. dst must have capacity for at least
// ((len(src)+already-buffered)/16)*16 bytes.
func (c *Context) EncryptUpdate(dst, src []byte) (int, error) {
	return c.update(dst, src, dirEncrypt, "encrypt_update")
}

// DecryptUpdate is the mirror of EncryptUpdate: it consumes ciphertext and
// produces plaintext. No tag has been checked yet when this returns; the
// plaintext it emits is only provisional until DecryptFinal authenticates
// the whole message.
func (c *Context) DecryptUpdate(dst, src []byte) (int, error) {
	return c.update(dst, src, dirDecrypt, "decrypt_update")
}

func (c *Context) update(dst, src []byte, dir direction, op string) (int, error) {
	if c.phase == phaseWiped {
		return 0, newErr(KindInternal, op, "context already wiped")
	}
	if c.phase == phaseDone {
		return 0, newErr(KindInvalidInput, op, "update called after final")
	}
	if c.phase == phaseAAD {
		c.closeAAD()
	}
	if c.direction == dirUndecided {
		c.direction = dir
	} else if c.direction != dir {
		return 0, newErr(KindInvalidInput, op, "encrypt and decrypt calls mixed on one context")
	}

	if c.dataBytes+uint64(len(src)) < c.dataBytes || c.dataBytes+uint64(len(src)) > MaxPlaintextBytes {
		return 0, newErr(KindInvalidInput, op, "plaintext exceeds maximum length")
	}

	encrypting := dir == dirEncrypt
	written := 0

	if c.bufLen > 0 {
		need := 16 - c.bufLen
		if need > len(src) {
			copy(c.buf[c.bufLen:], src)
			c.bufLen += len(src)
			c.dataBytes += uint64(len(src))
			return 0, nil
		}
		copy(c.buf[c.bufLen:16], src[:need])
		if len(dst) < 16 {
			return 0, newErr(KindInvalidInput, op, "dst too short")
		}
		plan1 := Plan{Backend: c.plan.Backend, LaneDepth: 1, Store: c.plan.Store}
		fusedProcess(dst[:16], c.buf[:16], &c.ctr, &c.ek, &c.ghashState, &c.hp, plan1, encrypting, &c.scratch)
		dst = dst[16:]
		src = src[need:]
		c.bufLen = 0
		c.dataBytes += uint64(need)
		written += 16
	}

	full := (len(src) / 16) * 16
	if full > 0 {
		if len(dst) < full {
			return written, newErr(KindInvalidInput, op, "dst too short")
		}
		fusedProcess(dst[:full], src[:full], &c.ctr, &c.ek, &c.ghashState, &c.hp, c.plan, encrypting, &c.scratch)
		c.dataBytes += uint64(full)
		written += full
	}

	rem := src[full:]
	c.bufLen = copy(c.buf[:], rem)
	c.dataBytes += uint64(len(rem))

	return written, nil
}

// finalLengthBlock builds the 128-bit length block (64-bit AAD bit length,
// 64-bit ciphertext bit length, both big-endian) that SP 800-38D absorbs
// into GHASH after the last ciphertext block.
func (c *Context) finalLengthBlock() specBlock {
	var lb specBlock
	binary.BigEndian.PutUint64(lb[0:8], c.aadBits)
	binary.BigEndian.PutUint64(lb[8:16], c.dataBytes*8)
	return lb
}

func (c *Context) computeTag() [TagSize]byte {
	state := absorbBlock(c.ghashState, c.finalLengthBlock(), c.h)
	ghashOut := fromKernel(state)

	var mask, j0bytes [16]byte
	j0bytes = c.j0
	aes.EncryptBlock(&mask, &j0bytes, &c.ek)

	var tag [TagSize]byte
	for i := range tag {
		tag[i] = ghashOut[i] ^ mask[i]
	}
	return tag
}

// EncryptFinal flushes any buffered partial final block of plaintext into
// dst, appends the authentication tag, and returns the total number of
// bytes written (the final ciphertext bytes followed by TagSize tag
// bytes). The Context moves to a finished state; Reset or a fresh New call
// is required before it can be used again.
func (c *Context) EncryptFinal(dst []byte) (int, error) {
	if c.phase == phaseWiped {
		return 0, newErr(KindInternal, "encrypt_final", "context already wiped")
	}
	if c.phase == phaseDone {
		return 0, newErr(KindInvalidInput, "encrypt_final", "final already called")
	}
	if c.phase == phaseAAD {
		c.closeAAD()
	}
	if c.direction == dirUndecided {
		c.direction = dirEncrypt
	} else if c.direction != dirEncrypt {
		return 0, newErr(KindInvalidInput, "encrypt_final", "context was used for decryption")
	}

	if len(dst) < c.bufLen+TagSize {
		return 0, newErr(KindInvalidInput, "encrypt_final", "dst too short")
	}

	n := c.bufLen
	if n > 0 {
		var ks, blk [16]byte
		blk = c.ctr
		aes.EncryptBlock(&ks, &blk, &c.ek)
		var out [16]byte
		for i := 0; i < n; i++ {
			out[i] = c.buf[i] ^ ks[i]
		}
		copy(dst[:n], out[:n])
		c.ghashState = absorbBlock(c.ghashState, padBlock(out[:n]), c.h)
	}

	tag := c.computeTag()
	copy(dst[n:n+TagSize], tag[:])

	c.phase = phaseDone
	return n + TagSize, nil
}

// DecryptFinal flushes the buffered partial final block of ciphertext,
// authenticates the whole message against wantTag, and only then writes
// plaintext to dst. On authentication failure dst is left untouched and
// ErrAuthFail is returned: no unauthenticated plaintext is ever released.
func (c *Context) DecryptFinal(dst, wantTag []byte) (int, error) {
	if c.phase == phaseWiped {
		return 0, newErr(KindInternal, "decrypt_final", "context already wiped")
	}
	if c.phase == phaseDone {
		return 0, newErr(KindInvalidInput, "decrypt_final", "final already called")
	}
	if len(wantTag) != TagSize {
		return 0, newErr(KindInvalidInput, "decrypt_final", "tag must be 16 bytes")
	}
	if c.phase == phaseAAD {
		c.closeAAD()
	}
	if c.direction == dirUndecided {
		c.direction = dirDecrypt
	} else if c.direction != dirDecrypt {
		return 0, newErr(KindInvalidInput, "decrypt_final", "context was used for encryption")
	}

	n := c.bufLen
	if len(dst) < n {
		return 0, newErr(KindInvalidInput, "decrypt_final", "dst too short")
	}

	var out [16]byte
	if n > 0 {
		var ks, blk [16]byte
		blk = c.ctr
		aes.EncryptBlock(&ks, &blk, &c.ek)
		for i := 0; i < n; i++ {
			out[i] = c.buf[i] ^ ks[i]
		}
	}

	finalState := c.ghashState
	if n > 0 {
		finalState = absorbBlock(c.ghashState, padBlock(c.buf[:n]), c.h)
	}
	savedState := c.ghashState
	c.ghashState = finalState
	tag := c.computeTag()
	c.ghashState = savedState // finalize may be retried is not supported, but keep state consistent if caller inspects it

	c.phase = phaseDone

	if !ctutil.Equal(tag[:], wantTag) {
		ctutil.Wipe(out[:n])
		return 0, ErrAuthFail
	}

	copy(dst[:n], out[:n])
	return n, nil
}

// Wipe zeroes all key material and intermediate state held by the
// Context. The Context must not be used afterward except to be discarded.
func (c *Context) Wipe() {
	for i := range c.ek {
		for j := range c.ek[i] {
			for k := range c.ek[i][j] {
				c.ek[i][j][k] = 0
			}
		}
	}
	c.h = kernelBlock{}
	for i := range c.hp.pow {
		c.hp.pow[i] = kernelBlock{}
	}
	c.j0 = specBlock{}
	c.ctr = specBlock{}
	c.ghashState = kernelBlock{}
	ctutil.Wipe(c.aadBuf[:])
	ctutil.Wipe(c.buf[:])
	ctutil.Wipe(c.scratch.keystream[:])
	c.phase = phaseWiped
}
