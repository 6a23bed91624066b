package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Схемы вывода ключа пароля, которые понимает сервис
const (
	ProtocolS2K   = "s2k"
	ProtocolS2KFO = "s2k_fo"
)

// Protocols список схем для signin/init
var Protocols = []string{ProtocolS2K, ProtocolS2KFO}

const (
	// PasswordKeyLen длина ключа пароля в байтах
	PasswordKeyLen = 32
	// SaltSize размер соли аккаунта в байтах
	SaltSize = 16
)

// GenerateSalt генерирует криптографически случайную соль
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// PasswordKey выводит ключ пароля для SRP.
// s2k берет сырой SHA-256 пароля, s2k_fo его hex представление.
func PasswordKey(password string, salt []byte, iterations int, protocol string) ([]byte, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", iterations)
	}

	digest := sha256.Sum256([]byte(password))
	var material []byte
	switch protocol {
	case ProtocolS2K:
		material = digest[:]
	case ProtocolS2KFO:
		material = []byte(hex.EncodeToString(digest[:]))
	default:
		return nil, fmt.Errorf("unsupported password protocol %q", protocol)
	}

	return pbkdf2.Key(material, salt, iterations, PasswordKeyLen, sha256.New), nil
}
