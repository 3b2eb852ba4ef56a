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

// Package chacha20poly1305 implements the ChaCha20-Poly1305 AEAD
// construction (RFC 8439 section 2.8) as the same kind of streaming
// init/update/final state machine gcm.Context exposes for AES-256-GCM:
// New, Reset, AADUpdate, EncryptUpdate/DecryptUpdate,
// EncryptFinal/DecryptFinal, Wipe. Where GCM fuses CTR and GHASH into one
// pass because PCLMULQDQ makes that worthwhile, ChaCha20-Poly1305 keeps its
// two passes (the ChaCha20 keystream XOR and the Poly1305 MAC) textually
// separate and simply shares one streaming buffer discipline between them,
// per RFC 8439's construction: the Poly1305 one-time key is derived once,
// up front, from ChaCha20 block counter 0.
package chacha20poly1305

import (
	"github.com/solitonlabs/soliton-aead/internal/chacha20"
	"github.com/solitonlabs/soliton-aead/internal/ctutil"
	"github.com/solitonlabs/soliton-aead/internal/poly1305"
)

// KeySize is the ChaCha20-Poly1305 key length in bytes.
const KeySize = chacha20.KeySize

// NonceSize is the ChaCha20-Poly1305 nonce length in bytes. RFC 8439 only
// defines the 96-bit nonce variant; there is no arbitrary-length-nonce
// derivation path analogous to gcm's deriveJ0 (see SPEC_FULL.md section 3).
const NonceSize = chacha20.NonceSize

// TagSize is the Poly1305 authentication tag length in bytes.
const TagSize = poly1305.TagSize

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

// Context is one ChaCha20-Poly1305 session: one key, one nonce, and the
// running state of a single init -> [AADUpdate]* ->
// [EncryptUpdate|DecryptUpdate]* -> Final lifecycle, mirroring
// gcm.Context's lifecycle and its "one Context per goroutine" concurrency
// model.
type Context struct {
	key   [KeySize]byte
	nonce [NonceSize]byte

	mac *poly1305.MAC

	counter uint32 // next ChaCha20 block counter for body data; starts at 1

	buf    [chacha20.BlockSize]byte
	bufLen int

	aadBytes  uint64
	dataBytes uint64

	plan      Plan
	phase     phase
	direction direction
}

// New starts a Context for key and nonce.
func New(key [KeySize]byte, nonce [NonceSize]byte) (*Context, error) {
	c := &Context{}
	c.init(key, nonce)
	return c, nil
}

func (c *Context) init(key [KeySize]byte, nonce [NonceSize]byte) {
	c.key = key
	c.nonce = nonce

	var otkBlock [chacha20.BlockSize]byte
	chacha20.Block(&otkBlock, &c.key, 0, &c.nonce)
	var otk [poly1305.KeySize]byte
	copy(otk[:], otkBlock[:poly1305.KeySize])
	c.mac = poly1305.New(&otk)

	c.counter = 1
	c.bufLen = 0
	c.aadBytes = 0
	c.dataBytes = 0
	c.plan = NewPlan(DetectCapabilities())
	c.phase = phaseAAD
	c.direction = dirUndecided
}

// Reset re-derives the one-time Poly1305 key and clears all per-message
// state for a new nonce while keeping the session key, mirroring
// gcm.Context.Reset.
func (c *Context) Reset(nonce [NonceSize]byte) error {
	if c.phase == phaseWiped {
		return newErr(KindInternal, "reset", "context already wiped")
	}
	c.init(c.key, nonce)
	return nil
}

// AADUpdate absorbs additional authenticated data. Like gcm.Context, it
// must be called before the first EncryptUpdate/DecryptUpdate call (or
// Reset): RFC 8439 section 2.8 hashes AAD and ciphertext as two disjoint,
// independently-padded regions, in that order.
func (c *Context) AADUpdate(aad []byte) error {
	if c.phase == phaseWiped {
		return newErr(KindInternal, "aad_update", "context already wiped")
	}
	if c.phase != phaseAAD {
		return newErr(KindInvalidInput, "aad_update", "AAD must precede all ciphertext")
	}
	c.mac.Write(aad)
	c.aadBytes += uint64(len(aad))
	return nil
}

func (c *Context) closeAAD() {
	c.mac.PadBlock()
	c.phase = phaseBody
}

// EncryptUpdate encrypts len(src) bytes of plaintext, writing ciphertext to
// dst, and returns the number of bytes actually written this call. Up to
// 63 bytes of input are buffered internally between calls to keep
// ChaCha20's keystream generation operating on whole 64-byte blocks; the
// remainder is flushed by EncryptFinal.
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

	const blockSize = chacha20.BlockSize
	encrypting := dir == dirEncrypt
	written := 0

	if c.bufLen > 0 {
		need := blockSize - c.bufLen
		if need > len(src) {
			copy(c.buf[c.bufLen:], src)
			c.bufLen += len(src)
			return 0, nil
		}
		copy(c.buf[c.bufLen:blockSize], src[:need])
		if len(dst) < blockSize {
			return 0, newErr(KindInvalidInput, op, "dst too short")
		}
		var out [blockSize]byte
		chacha20.XORKeyStream(out[:], c.buf[:blockSize], &c.key, c.counter, &c.nonce)
		c.counter++
		copy(dst[:blockSize], out[:])
		if encrypting {
			c.mac.Write(out[:])
		} else {
			c.mac.Write(c.buf[:blockSize])
		}
		c.dataBytes += blockSize
		dst = dst[blockSize:]
		src = src[need:]
		c.bufLen = 0
		written += blockSize
	}

	full := (len(src) / blockSize) * blockSize
	if full > 0 {
		if len(dst) < full {
			return written, newErr(KindInvalidInput, op, "dst too short")
		}
		chacha20.XORKeyStream(dst[:full], src[:full], &c.key, c.counter, &c.nonce)
		c.counter += uint32(full / blockSize)
		if encrypting {
			c.mac.Write(dst[:full])
		} else {
			c.mac.Write(src[:full])
		}
		c.dataBytes += uint64(full)
		written += full
	}

	rem := src[full:]
	c.bufLen = copy(c.buf[:], rem)

	return written, nil
}

// lengthTrailer builds the RFC 8439 section 2.8 16-byte length trailer:
// AAD byte count then ciphertext byte count, both little-endian uint64,
// the ChaCha20-Poly1305 analog of gcm.Context's finalLengthBlock.
func lengthTrailer(aadBytes, dataBytes uint64) []byte {
	trailer := make([]byte, 0, 16)
	trailer = poly1305.AppendUint64LE(trailer, aadBytes)
	trailer = poly1305.AppendUint64LE(trailer, dataBytes)
	return trailer
}

// EncryptFinal flushes any buffered partial final block of plaintext into
// dst, appends the authentication tag, and returns the total number of
// bytes written. The Context moves to a finished state; Reset or a fresh
// New call is required before it can be used again.
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
		var out [chacha20.BlockSize]byte
		chacha20.XORKeyStream(out[:n], c.buf[:n], &c.key, c.counter, &c.nonce)
		c.counter++
		copy(dst[:n], out[:n])
		c.mac.Write(out[:n])
	}

	c.mac.PadBlock()
	c.mac.Write(lengthTrailer(c.aadBytes, c.dataBytes+uint64(n)))
	tag := c.mac.Sum()
	copy(dst[n:n+TagSize], tag[:])

	c.phase = phaseDone
	return n + TagSize, nil
}

// DecryptFinal flushes the buffered partial final block of ciphertext,
// authenticates the whole message against wantTag, and only then writes
// plaintext to dst. On authentication failure dst is left untouched and
// ErrAuthFail is returned: no unauthenticated plaintext is ever released,
// matching gcm.Context.DecryptFinal's contract.
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

	var out [chacha20.BlockSize]byte
	if n > 0 {
		chacha20.XORKeyStream(out[:n], c.buf[:n], &c.key, c.counter, &c.nonce)
		c.mac.Write(c.buf[:n])
	}

	c.mac.PadBlock()
	c.mac.Write(lengthTrailer(c.aadBytes, c.dataBytes+uint64(n)))
	tag := c.mac.Sum()

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
	ctutil.Wipe(c.key[:])
	c.key = [KeySize]byte{}
	c.nonce = [NonceSize]byte{}
	ctutil.Wipe(c.buf[:])
	c.mac = nil
	c.phase = phaseWiped
}
