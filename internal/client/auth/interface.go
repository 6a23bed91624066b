package auth

import (
	"context"

	pkgapi "github.com/iudanet/cardsync/pkg/api"
)

//go:generate moq -out challenger_mock.go . Challenger

// Challenger запрашивает у пользователя второй фактор.
// Реализуется поверх терминала в iocli.
type Challenger interface {
	// SecurityCode код, пришедший на доверенное устройство (2FA)
	SecurityCode(ctx context.Context) (string, error)

	// ChooseDevice индекс устройства из списка для отправки кода (2SA)
	ChooseDevice(ctx context.Context, devices []pkgapi.TrustedDevice) (int, error)

	// VerificationCode код, отправленный на выбранное устройство (2SA)
	VerificationCode(ctx context.Context) (string, error)
}

// Service operations the cli needs from authentication
type Service interface {
	// Authenticate входит в аккаунт, используя сохраненную сессию, если она еще действительна
	Authenticate(ctx context.Context, creds Credentials) error

	// IsAuthenticated проверяет сохраненную сессию без входа с паролем
	IsAuthenticated(ctx context.Context) (bool, error)

	// Logout удаляет сохраненную сессию
	Logout(ctx context.Context) error
}
