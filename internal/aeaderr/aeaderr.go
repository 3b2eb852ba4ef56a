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

// Package aeaderr is the one error taxonomy both AEAD engines (gcm and
// chacha20poly1305) return. Sharing the type means the two streaming state
// machines cannot drift into two different notions of what counts as an
// invalid-input failure versus an authentication failure.
package aeaderr

import "errors"

// Kind classifies why an operation failed. A caller can switch on Kind
// without parsing error strings.
type Kind uint8

const (
	// KindInvalidInput covers bad arguments: wrong key/IV/nonce/tag
	// length, calling an operation out of sequence, AAD after
	// ciphertext, and so on. The caller made a mistake that does not
	// depend on secret data.
	KindInvalidInput Kind = iota
	// KindAuthFail means tag verification did not match. No plaintext is
	// released when this is returned. It is the only Kind an application
	// can recover from (by rejecting the message).
	KindAuthFail
	// KindUnsupported means the operation is not available in this build
	// or on this host.
	KindUnsupported
	// KindInternal covers invariant violations that should be
	// unreachable from any valid caller sequence (e.g. a context used
	// after Wipe).
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthFail:
		return "auth_fail"
	case KindUnsupported:
		return "unsupported"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the error type every operation in gcm and chacha20poly1305
// returns.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Msg
}

// New constructs an Error. Exported so the gcm and chacha20poly1305
// packages can build errors tagged with their own operation names while
// sharing one Kind vocabulary.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// NewAuthFail builds the sentinel AUTH_FAIL error for op's DecryptFinal.
func NewAuthFail(op string) *Error {
	return New(KindAuthFail, op, "authentication failed")
}

// IsAuthFail reports whether err is (or wraps) a tag-verification failure.
func IsAuthFail(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == KindAuthFail
	}
	return false
}
