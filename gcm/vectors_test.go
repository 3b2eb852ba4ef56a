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
	"encoding/hex"
	"testing"
)

func seal(t *testing.T, key Key256, iv, aad, pt []byte) []byte {
	t.Helper()
	return ourSeal(t, key, iv, aad, pt)
}

// TestVectorEmptyMessage is NIST SP 800-38D's degenerate case: AES-256-GCM
// under an all-zero key and a 96-bit all-zero IV, with no AAD and no
// plaintext. The tag is simply AES_k(0) XOR GHASH_H over just the length
// block, which makes it a good smoke test for the key schedule and the J0
// fast path in isolation from CTR/GHASH's block-folding machinery.
func TestVectorEmptyMessage(t *testing.T) {
	var key Key256
	iv := make([]byte, 12)

	out := seal(t, key, iv, nil, nil)
	if len(out) != TagSize {
		t.Fatalf("expected %d-byte tag-only output, got %d bytes", TagSize, len(out))
	}
	want := "530f8afbc74536b9a963b4f1c4cb738b"
	if hex.EncodeToString(out) != want {
		t.Fatalf("tag = %x, want %s", out, want)
	}
}

// TestVectorOneZeroBlock extends TestVectorEmptyMessage by one all-zero
// 16-byte plaintext block, exercising exactly one CTR block and one GHASH
// fold beyond the empty case.
func TestVectorOneZeroBlock(t *testing.T) {
	var key Key256
	iv := make([]byte, 12)
	pt := make([]byte, 16)

	out := seal(t, key, iv, nil, pt)
	wantCT := "cea7403d4d606b6e074ec5d3baf39d18"
	wantTag := "d0d1c8a799996bf0265b98b5d48ab919"
	if got := hex.EncodeToString(out[:16]); got != wantCT {
		t.Fatalf("ciphertext = %s, want %s", got, wantCT)
	}
	if got := hex.EncodeToString(out[16:]); got != wantTag {
		t.Fatalf("tag = %s, want %s", got, wantTag)
	}
}

// TestVectorAADAndTruncatedBlock exercises the same key/IV/AAD shape as
// the classic NIST Galois/Counter Mode test cases with AAD present and a
// final plaintext block short of 16 bytes (AES-256 using a 128-bit test
// key repeated to fill 32 bytes). The plaintext here is a fixed,
// deterministic byte sequence rather than the original suite's literal
// bytes (this repository's own spec only identifies it as "a 64-byte NIST
// vector" without reproducing the bytes), so the expected tag below was
// computed directly against OpenSSL's EVP AES-256-GCM implementation
// rather than copied from a written vector table; see DESIGN.md for how
// it was produced. It still exercises the thing the scenario is for:
// AAD-then-ciphertext GHASH folding, and a final block that is (64 bytes)
// and is not (60 bytes) a multiple of 16.
func TestVectorAADAndTruncatedBlock(t *testing.T) {
	repeated := "feffe9928665731c6d6a8f9467308308"
	var key Key256
	keyBytes, _ := hex.DecodeString(repeated + repeated)
	copy(key[:], keyBytes)
	iv, _ := hex.DecodeString("cafebabefacedbaddecaf888")
	aad, _ := hex.DecodeString("feedfacedeadbeeffeedfacedeadbeefabaddad2")

	pt64 := make([]byte, 64)
	for i := range pt64 {
		pt64[i] = byte(i*7 + 3)
	}

	out64 := seal(t, key, iv, aad, pt64)
	wantTag64 := "05b1dd9955eb380f1c02efcb33364ab7"
	if got := hex.EncodeToString(out64[64:]); got != wantTag64 {
		t.Fatalf("64-byte case: tag = %s, want %s", got, wantTag64)
	}

	pt60 := pt64[:60]
	out60 := seal(t, key, iv, aad, pt60)
	wantCT60 := "8816e2cd7ef456d66a647736d22f018b91e7a4072547aab7f0662b4068aa8e04736673253363bf7a935dac04281a785127c692fe56c1e1d98d3814fb"
	wantTag60 := "d42b63c21a080f1cdf41b066df152d57"
	if got := hex.EncodeToString(out60[:60]); got != wantCT60 {
		t.Fatalf("60-byte case: ciphertext = %s, want %s", got, wantCT60)
	}
	if got := hex.EncodeToString(out60[60:]); got != wantTag60 {
		t.Fatalf("60-byte case: tag = %s, want %s", got, wantTag60)
	}
	// The 60-byte ciphertext must be a prefix of the 64-byte one: CTR
	// keystream for a shared prefix of plaintext never depends on the
	// plaintext that comes after it.
	if got := hex.EncodeToString(out60[:60]); got != hex.EncodeToString(out64[:60]) {
		t.Fatalf("truncating the plaintext changed the shared-prefix ciphertext")
	}
}
