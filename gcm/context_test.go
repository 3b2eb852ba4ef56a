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

import (
	"bytes"
	"math/rand"
	"testing"
)

func randKey(seed int64) Key256 {
	r := rand.New(rand.NewSource(seed))
	var key Key256
	r.Read(key[:])
	return key
}

// TestRoundTrip encrypts and decrypts across a spread of plaintext/AAD
// lengths that straddle the 16-byte block boundary on both sides, and
// confirms the recovered plaintext is byte-identical to the input.
func TestRoundTrip(t *testing.T) {
	lengths := []int{0, 1, 15, 16, 17, 31, 32, 33, 63, 64, 65, 1000, 8192}
	key := randKey(1)
	iv := []byte("unique nonce")

	for _, n := range lengths {
		r := rand.New(rand.NewSource(int64(n) + 2))
		pt := make([]byte, n)
		r.Read(pt)
		aad := make([]byte, n%29)
		r.Read(aad)

		ct := ourSeal(t, key, iv, aad, pt)

		c, err := New(key, iv, len(pt))
		if err != nil {
			t.Fatalf("n=%d: New: %v", n, err)
		}
		if err := c.AADUpdate(aad); err != nil {
			t.Fatalf("n=%d: AADUpdate: %v", n, err)
		}
		body := ct[:len(ct)-TagSize]
		tag := ct[len(ct)-TagSize:]
		out := make([]byte, len(body))
		w, err := c.DecryptUpdate(out, body)
		if err != nil {
			t.Fatalf("n=%d: DecryptUpdate: %v", n, err)
		}
		f, err := c.DecryptFinal(out[w:], tag)
		if err != nil {
			t.Fatalf("n=%d: DecryptFinal: %v", n, err)
		}
		out = out[:w+f]
		if !bytes.Equal(out, pt) {
			t.Fatalf("n=%d: round trip did not recover plaintext", n)
		}
	}
}

// TestTamperedTagRejected confirms a single flipped tag bit causes
// DecryptFinal to fail closed: no plaintext bytes released, ErrAuthFail
// returned.
func TestTamperedTagRejected(t *testing.T) {
	key := randKey(3)
	iv := []byte("123456789012")
	pt := []byte("the quick brown fox jumps over the lazy dog")
	aad := []byte("header")

	ct := ourSeal(t, key, iv, aad, pt)
	tampered := append([]byte(nil), ct...)
	tampered[len(tampered)-1] ^= 0x01

	c, err := New(key, iv, len(pt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.AADUpdate(aad); err != nil {
		t.Fatalf("AADUpdate: %v", err)
	}
	body := tampered[:len(tampered)-TagSize]
	tag := tampered[len(tampered)-TagSize:]
	out := make([]byte, len(body)+TagSize)
	w, err := c.DecryptUpdate(out, body)
	if err != nil {
		t.Fatalf("DecryptUpdate: %v", err)
	}
	f, err := c.DecryptFinal(out[w:], tag)
	if err == nil {
		t.Fatalf("expected authentication failure, got success (wrote %d final bytes)", f)
	}
	if !IsAuthFail(err) {
		t.Fatalf("expected IsAuthFail(err), got %v", err)
	}
	if f != 0 {
		t.Fatalf("expected 0 bytes released on auth failure, got %d", f)
	}
}

// TestResetReusesKeyWithNewNonce confirms Reset lets one Context encrypt
// under several nonces without re-deriving the key schedule each time, and
// that the two outputs differ (same key, different nonce must not produce
// the same keystream).
func TestResetReusesKeyWithNewNonce(t *testing.T) {
	key := randKey(5)
	pt := []byte("reused context, fresh nonce each time")

	c, err := New(key, []byte("nonceAAAAAAA"), len(pt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out1 := make([]byte, len(pt)+TagSize)
	w1, err := c.EncryptUpdate(out1, pt)
	if err != nil {
		t.Fatalf("EncryptUpdate (1): %v", err)
	}
	f1, err := c.EncryptFinal(out1[w1:])
	if err != nil {
		t.Fatalf("EncryptFinal (1): %v", err)
	}
	out1 = out1[:w1+f1]

	if err := c.Reset([]byte("nonceBBBBBBB")); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	out2 := make([]byte, len(pt)+TagSize)
	w2, err := c.EncryptUpdate(out2, pt)
	if err != nil {
		t.Fatalf("EncryptUpdate (2): %v", err)
	}
	f2, err := c.EncryptFinal(out2[w2:])
	if err != nil {
		t.Fatalf("EncryptFinal (2): %v", err)
	}
	out2 = out2[:w2+f2]

	if bytes.Equal(out1, out2) {
		t.Fatalf("encrypting under two different nonces produced identical output")
	}

	want := ourSeal(t, key, []byte("nonceBBBBBBB"), nil, pt)
	if !bytes.Equal(out2, want) {
		t.Fatalf("Reset-then-encrypt diverged from a fresh Context under the same nonce")
	}
}

// TestStreamingMatchesOneShot implements spec.md section 8 Scenario F: an
// 8192-byte plaintext fed through EncryptUpdate in one call must produce
// exactly the same ciphertext and tag as the same plaintext split across
// many small, arbitrarily-sized calls, and the same must hold for AAD.
func TestStreamingMatchesOneShot(t *testing.T) {
	key := randKey(7)
	iv := []byte("streaming-iv")
	r := rand.New(rand.NewSource(42))
	pt := make([]byte, 8192)
	r.Read(pt)
	aad := make([]byte, 500)
	r.Read(aad)

	oneShot := ourSeal(t, key, iv, aad, pt)

	c, err := New(key, iv, len(pt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	chunkSizes := []int{1, 3, 7, 16, 17, 31, 63, 64, 65, 100, 200, 500, 1000}
	aadPos := 0
	for _, sz := range chunkSizes {
		if aadPos >= len(aad) {
			break
		}
		end := aadPos + sz
		if end > len(aad) {
			end = len(aad)
		}
		if err := c.AADUpdate(aad[aadPos:end]); err != nil {
			t.Fatalf("AADUpdate chunk: %v", err)
		}
		aadPos = end
	}
	if aadPos < len(aad) {
		if err := c.AADUpdate(aad[aadPos:]); err != nil {
			t.Fatalf("AADUpdate remainder: %v", err)
		}
	}

	streamed := make([]byte, len(pt)+TagSize)
	ptPos, outPos := 0, 0
	ci := 0
	for ptPos < len(pt) {
		sz := chunkSizes[ci%len(chunkSizes)]
		ci++
		end := ptPos + sz
		if end > len(pt) {
			end = len(pt)
		}
		w, err := c.EncryptUpdate(streamed[outPos:], pt[ptPos:end])
		if err != nil {
			t.Fatalf("EncryptUpdate chunk: %v", err)
		}
		outPos += w
		ptPos = end
	}
	f, err := c.EncryptFinal(streamed[outPos:])
	if err != nil {
		t.Fatalf("EncryptFinal: %v", err)
	}
	streamed = streamed[:outPos+f]

	if !bytes.Equal(streamed, oneShot) {
		t.Fatalf("streamed output diverges from one-shot output")
	}
}
