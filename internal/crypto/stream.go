// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize        = 16
	noncePrefixSize = 8
	chunkHeaderSize = 5

	// DefaultChunkSize is the plaintext size of every chunk but the last.
	DefaultChunkSize = 64 << 10
)

const (
	flagMore  byte = 0
	flagFinal byte = 1
)

var magic = []byte("SWC1")

// Errors returned by Decrypt.
var (
	ErrBadHeader      = errors.New("not an encrypted stream")
	ErrAuthentication = errors.New("decryption failed: wrong key or corrupted data")
	ErrTruncated      = errors.New("encrypted stream is truncated")
	ErrTrailingData   = errors.New("data after final chunk")
)

// streamCipher is the private implementation of [StreamCipher].
type streamCipher struct {
	// Argon2id tuning parameters.
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32

	chunkSize int
}

// NewStreamCipher constructs a [StreamCipher] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (AES-256)
func NewStreamCipher() StreamCipher {
	return &streamCipher{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32,
		chunkSize:    DefaultChunkSize,
	}
}

func (s *streamCipher) deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, s.argonTime, s.argonMemory, s.argonThreads, s.argonKeyLen)
}

func (s *streamCipher) newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

// chunkNonce is noncePrefix ‖ counter (big endian).
func chunkNonce(prefix []byte, counter uint32) []byte {
	nonce := make([]byte, noncePrefixSize+4)
	copy(nonce, prefix)
	binary.BigEndian.PutUint32(nonce[noncePrefixSize:], counter)
	return nonce
}

// Encrypt implements [StreamCipher].
func (s *streamCipher) Encrypt(dst io.Writer, src io.Reader, passphrase string) error {
	header := make([]byte, len(magic)+saltSize+noncePrefixSize)
	copy(header, magic)
	if _, err := io.ReadFull(rand.Reader, header[len(magic):]); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	salt := header[len(magic) : len(magic)+saltSize]
	prefix := header[len(magic)+saltSize:]

	gcm, err := s.newGCM(passphrase, salt)
	if err != nil {
		return err
	}
	if _, err = dst.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Reading one byte ahead tells whether the current chunk is the last.
	buf := make([]byte, s.chunkSize+1)
	filled := 0
	for counter := uint32(0); ; counter++ {
		n, readErr := io.ReadFull(src, buf[filled:])
		filled += n
		final := false
		switch {
		case errors.Is(readErr, io.EOF), errors.Is(readErr, io.ErrUnexpectedEOF):
			final = true
		case readErr != nil:
			return fmt.Errorf("read plaintext: %w", readErr)
		}

		size := filled
		if !final {
			size = s.chunkSize
		}
		if err = s.writeChunk(dst, gcm, prefix, counter, buf[:size], final); err != nil {
			return err
		}
		if final {
			return nil
		}

		filled = copy(buf, buf[size:filled])
	}
}

func (s *streamCipher) writeChunk(dst io.Writer, gcm cipher.AEAD, prefix []byte, counter uint32, plain []byte, final bool) error {
	flag := flagMore
	if final {
		flag = flagFinal
	}

	sealed := gcm.Seal(nil, chunkNonce(prefix, counter), plain, []byte{flag})

	head := make([]byte, chunkHeaderSize)
	head[0] = flag
	binary.BigEndian.PutUint32(head[1:], uint32(len(sealed)))
	if _, err := dst.Write(head); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	if _, err := dst.Write(sealed); err != nil {
		return fmt.Errorf("write chunk: %w", err)
	}
	return nil
}

// Decrypt implements [StreamCipher].
func (s *streamCipher) Decrypt(dst io.Writer, src io.Reader, passphrase string) error {
	header := make([]byte, len(magic)+saltSize+noncePrefixSize)
	if _, err := io.ReadFull(src, header); err != nil {
		return fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if !bytes.Equal(header[:len(magic)], magic) {
		return ErrBadHeader
	}
	salt := header[len(magic) : len(magic)+saltSize]
	prefix := header[len(magic)+saltSize:]

	gcm, err := s.newGCM(passphrase, salt)
	if err != nil {
		return err
	}

	maxSealed := s.chunkSize + gcm.Overhead()
	head := make([]byte, chunkHeaderSize)
	for counter := uint32(0); ; counter++ {
		if _, err = io.ReadFull(src, head); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return ErrTruncated
			}
			return fmt.Errorf("read chunk: %w", err)
		}

		flag := head[0]
		size := int(binary.BigEndian.Uint32(head[1:]))
		if (flag != flagMore && flag != flagFinal) || size < gcm.Overhead() || size > maxSealed {
			return ErrAuthentication
		}

		sealed := make([]byte, size)
		if _, err = io.ReadFull(src, sealed); err != nil {
			return ErrTruncated
		}

		plain, openErr := gcm.Open(nil, chunkNonce(prefix, counter), sealed, []byte{flag})
		if openErr != nil {
			return ErrAuthentication
		}
		if _, err = dst.Write(plain); err != nil {
			return fmt.Errorf("write plaintext: %w", err)
		}

		if flag == flagFinal {
			var probe [1]byte
			if n, _ := src.Read(probe[:]); n > 0 {
				return ErrTrailingData
			}
			return nil
		}
	}
}
