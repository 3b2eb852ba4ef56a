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

import "github.com/solitonlabs/soliton-aead/internal/aeaderr"

// Kind and Error are the same taxonomy gcm uses, aliased from the shared
// internal/aeaderr package rather than redefined: see SPEC_FULL.md section
// 7.
type Kind = aeaderr.Kind

const (
	KindInvalidInput = aeaderr.KindInvalidInput
	KindAuthFail     = aeaderr.KindAuthFail
	KindUnsupported  = aeaderr.KindUnsupported
	KindInternal     = aeaderr.KindInternal
)

type Error = aeaderr.Error

func newErr(kind Kind, op, msg string) *Error {
	return aeaderr.New(kind, op, msg)
}

// ErrAuthFail is the sentinel DecryptFinal returns on tag mismatch.
var ErrAuthFail = aeaderr.NewAuthFail("decrypt_final")

// IsAuthFail reports whether err is (or wraps) a tag-verification failure.
func IsAuthFail(err error) bool {
	return aeaderr.IsAuthFail(err)
}
