// Package cipherbox encrypts frame payloads with AES-256 in CBC mode
// and PKCS7 padding.
//
// Every message is encrypted under the same key and IV, so identical
// plaintexts produce identical ciphertexts.  This is a known weakness of
// the wire format and is kept for compatibility with existing peers; the
// box provides confidentiality against casual observation only, with no
// integrity protection.
package cipherbox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"unicode/utf8"

	sockerr "gosock/internal/errors"
)

const (
	// KeySize selects AES-256.
	KeySize = 32
	// IVSize is the AES block size.
	IVSize = aes.BlockSize
)

// Fallback key material used when the environment provides none.
var (
	DefaultKey = []byte("0123456789abcdef0123456789abcdef")
	DefaultIV  = []byte("abcdef9876543210")
)

// Box holds the fixed key schedule and IV.  It is safe for concurrent
// use: every call builds its own CBC mode instance.
type Box struct {
	block cipher.Block
	iv    []byte
}

// New returns a Box for the given 32-byte key and 16-byte IV.
func New(key, iv []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("cipherbox: key must be %d bytes, got %d", KeySize, len(key))
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("cipherbox: iv must be %d bytes, got %d", IVSize, len(iv))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipherbox: %w", err)
	}
	return &Box{block: block, iv: append([]byte(nil), iv...)}, nil
}

// Default returns a Box using the fallback key material.
func Default() *Box {
	b, err := New(DefaultKey, DefaultIV)
	if err != nil {
		panic(err)
	}
	return b
}

// Encrypt UTF-8 encodes text, pads it and encrypts it.  The result is
// never empty: an empty string encrypts to one full padding block.
func (b *Box) Encrypt(text string) []byte {
	padded := pad([]byte(text))
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(b.block, b.iv).CryptBlocks(out, padded)
	return out
}

// Decrypt reverses Encrypt.  Input that was not produced by a Box with
// the same key and IV fails with a *CryptoError rather than returning
// garbage text.
func (b *Box) Decrypt(ciphertext []byte) (string, error) {
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", sockerr.Crypto("decrypt",
			fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(ciphertext), aes.BlockSize))
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(b.block, b.iv).CryptBlocks(plain, ciphertext)

	plain, err := unpad(plain)
	if err != nil {
		return "", sockerr.Crypto("unpad", err)
	}
	if !utf8.Valid(plain) {
		return "", sockerr.Crypto("decode", fmt.Errorf("plaintext is not valid UTF-8"))
	}
	return string(plain), nil
}

// ── PKCS7 ────────────────────────────────────────────────────────────

func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(append(make([]byte, 0, len(data)+n), data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > aes.BlockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding byte %d", n)
	}
	for _, c := range data[len(data)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
