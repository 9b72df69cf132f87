package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	aead, err := NewAESGCM([]byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewAESGCM: %v", err)
	}

	plaintext := []byte(`{"api_key":"secret"}`)
	ciphertext, err := Encrypt(aead, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatal("ciphertext contains the plaintext")
	}

	decrypted, err := Decrypt(aead, ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("decrypted = %q, want %q", decrypted, plaintext)
	}
}

func TestNewAESGCMBadKeySize(t *testing.T) {
	if _, err := NewAESGCM([]byte("short")); !errors.Is(err, ErrInvalidKeySize) {
		t.Fatalf("error = %v, want ErrInvalidKeySize", err)
	}
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	aead, err := NewAESGCM([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewAESGCM: %v", err)
	}
	ciphertext, err := Encrypt(aead, []byte("hello"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0xff
	if _, err := Decrypt(aead, ciphertext); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestDecryptTooShort(t *testing.T) {
	aead, err := NewAESGCM([]byte("0123456789abcdef"))
	if err != nil {
		t.Fatalf("NewAESGCM: %v", err)
	}
	if _, err := Decrypt(aead, []byte("tiny")); !errors.Is(err, ErrInvalidCiphertext) {
		t.Fatalf("error = %v, want ErrInvalidCiphertext", err)
	}
}
