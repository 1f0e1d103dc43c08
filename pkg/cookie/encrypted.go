package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
)

// SetEncrypted writes a cookie whose value the client can neither read nor
// change. Values are sealed with AES-256-GCM using the cookie name as
// associated data.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	aead, err := m.aead()
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("cookie: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(name))

	m.Set(w, name, base64.RawURLEncoding.EncodeToString(sealed), maxAge)
	return nil
}

// GetEncrypted returns the value of an encrypted cookie.
// Returns ErrDecrypt if the cookie cannot be opened.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrMalformed
	}

	aead, err := m.aead()
	if err != nil {
		return "", err
	}
	if len(data) < aead.NonceSize() {
		return "", ErrMalformed
	}

	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, []byte(name))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func (m *Manager) aead() (cipher.AEAD, error) {
	key := sha256.Sum256(m.secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("cookie: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
