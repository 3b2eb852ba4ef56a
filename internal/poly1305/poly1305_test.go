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

package poly1305

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex literal: %v", err)
	}
	return b
}

// TestSum16RFC8439 checks the MAC against the RFC 8439 section 2.5.2
// worked example.
func TestSum16RFC8439(t *testing.T) {
	keyBytes := mustHex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := []byte("Cryptographic Forum Research Group")
	want := mustHex(t, "a8061dc1305136c6c22b8baf0c0127a9")

	var key [KeySize]byte
	copy(key[:], keyBytes)

	got := Sum16(&key, msg)
	if hex.EncodeToString(got[:]) != hex.EncodeToString(want) {
		t.Fatalf("got %x, want %x", got, want)
	}
}

// TestWriteChunkingMatchesOneShot checks that feeding the message through
// Write in arbitrary chunks produces the same tag as a single Write call,
// mirroring gcm's streaming-equivalence property (see
// gcm/context_test.go's TestStreamingMatchesOneShot for the GCM analog).
func TestWriteChunkingMatchesOneShot(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(i * 3)
	}
	msg := make([]byte, 137)
	for i := range msg {
		msg[i] = byte(i)
	}

	oneShot := Sum16(&key, msg)

	m := New(&key)
	chunks := []int{1, 15, 16, 17, 32, 0, 56}
	off := 0
	for _, c := range chunks {
		end := off + c
		if end > len(msg) {
			end = len(msg)
		}
		m.Write(msg[off:end])
		off = end
	}
	if off < len(msg) {
		m.Write(msg[off:])
	}
	chunked := m.Sum()

	if oneShot != chunked {
		t.Fatalf("chunked tag %x != one-shot tag %x", chunked, oneShot)
	}
}

// TestSumChangesOnBitFlip checks that a single flipped message bit changes
// the tag, the Poly1305-level analog of spec.md's tag-change-detection
// property.
func TestSumChangesOnBitFlip(t *testing.T) {
	var key [KeySize]byte
	for i := range key {
		key[i] = byte(200 - i)
	}
	msg := []byte("the quick brown fox jumps over the lazy dog")

	base := Sum16(&key, msg)

	flipped := append([]byte(nil), msg...)
	flipped[10] ^= 0x01
	other := Sum16(&key, flipped)

	if base == other {
		t.Fatal("flipping one message bit did not change the tag")
	}
}
