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

// Package aes provides a from-scratch AES-256 (Rijndael, Nk=8, Nr=14) block
// primitive used by the gcm package to build AES-256-GCM. It does not call
// into crypto/aes or any hardware AES instruction; the block transform is
// expressed algebraically over GF(2^8) so that every step (S-box, MixColumns,
// key schedule) is auditable from the polynomial arithmetic up.
//
// This package only exposes single-block encryption. AES-GCM never needs
// block decryption: confidentiality comes from CTR mode, which only ever
// runs the forward cipher.
package aes
