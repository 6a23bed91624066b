package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken хеширует токен для хранения на сервере (hex SHA-256)
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// srpHash SHA-256 от конкатенации частей
func srpHash(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// pad дополняет b ведущими нулями до длины n
func pad(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
