// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package crypto implements the password-based stream format used by the
// encrypt and decrypt subcommands.
package crypto

import "io"

// StreamCipher шифрует и расшифровывает потоки произвольной длины.
// Ключ выводится из пароля через Argon2id, данные шифруются AES-256-GCM
// фрагментами, поэтому поток никогда не загружается в память целиком.
//
// Stream layout:
//
//	magic(4) ‖ salt(16) ‖ noncePrefix(8) ‖ chunk...
//	chunk = flag(1) ‖ length(4, big endian) ‖ sealed(length)
//
// The flag byte marks the final chunk and is authenticated as additional
// data, so truncated or reordered streams fail to decrypt.
type StreamCipher interface {
	// Encrypt reads plaintext from src until EOF and writes the encrypted
	// stream to dst.
	Encrypt(dst io.Writer, src io.Reader, passphrase string) error

	// Decrypt reverses Encrypt. It returns ErrAuthentication when the
	// passphrase is wrong or the stream was modified, and ErrTruncated when
	// the final chunk is missing.
	Decrypt(dst io.Writer, src io.Reader, passphrase string) error
}
