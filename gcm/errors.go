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

import "github.com/solitonlabs/soliton-aead/internal/aeaderr"

// Kind classifies why an operation failed, mirroring the four-way taxonomy
// every operation in this package commits to: a caller can switch on Kind
// without parsing error strings. It is a type alias for aeaderr.Kind so that
// gcm and chacha20poly1305 share one vocabulary (see internal/aeaderr) while
// this package keeps its own exported name for source compatibility.
type Kind = aeaderr.Kind

const (
	KindInvalidInput = aeaderr.KindInvalidInput
	KindAuthFail     = aeaderr.KindAuthFail
	KindUnsupported  = aeaderr.KindUnsupported
	KindInternal     = aeaderr.KindInternal
)

// Error is the error type every operation in this package returns.
type Error = aeaderr.Error

func newErr(kind Kind, op, msg string) *Error {
	return aeaderr.New(kind, op, msg)
}

// ErrAuthFail is returned by DecryptFinal when the computed tag does not
// match the tag supplied by the caller. It is a sentinel so callers can
// use errors.Is instead of inspecting Kind.
var ErrAuthFail = aeaderr.NewAuthFail("decrypt_final")

// IsAuthFail reports whether err is (or wraps) a tag-verification failure.
func IsAuthFail(err error) bool {
	return aeaderr.IsAuthFail(err)
}
