package handlers

import (
	"crypto/subtle"
	"fmt"
)

// SecondFactor схема второго фактора аккаунта
type SecondFactor string

const (
	// SecondFactorNone вход одним паролем
	SecondFactorNone SecondFactor = "none"
	// SecondFactorCode одноразовый код с доверенного устройства (2FA)
	SecondFactorCode SecondFactor = "2fa"
	// SecondFactorDevice выбор устройства и код по SMS (2SA)
	SecondFactorDevice SecondFactor = "2sa"
)

// ParseSecondFactor разбирает значение из конфигурации; пустое значение дает 2fa
func ParseSecondFactor(s string) (SecondFactor, error) {
	switch f := SecondFactor(s); f {
	case "":
		return SecondFactorCode, nil
	case SecondFactorNone, SecondFactorCode, SecondFactorDevice:
		return f, nil
	}
	return "", fmt.Errorf("unknown second factor %q", s)
}

// HSAVersion версия схемы в dsInfo
func (f SecondFactor) HSAVersion() int {
	switch f {
	case SecondFactorCode:
		return 2
	case SecondFactorDevice:
		return 1
	}
	return 0
}

func (f SecondFactor) authType() string {
	if f == SecondFactorDevice {
		return "hsa"
	}
	return "hsa2"
}

// AuthConfig общая конфигурация обработчиков входа
type AuthConfig struct {
	SecondFactor     SecondFactor
	VerificationCode string
	Tokens           TokenConfig
}

func (c AuthConfig) codeMatches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(code), []byte(c.VerificationCode)) == 1
}
