package api

import (
	"errors"
	"fmt"
)

// ErrTransient ошибку можно повторить позже
var ErrTransient = errors.New("transient remote error")

const (
	notProvisionedReason = "Please log into https://icloud.com/ to manually finish setting up your iCloud service"
	throttleHint         = ".  Please wait a few minutes then try again. The remote servers might be trying to throttle requests."
	reauthReason         = "Authentication required for Account."
	missingTokenReason   = "Missing X-APPLE-WEBAUTH-TOKEN cookie"
)

// APIError ошибка, которую вернул удаленный сервис
type APIError struct {
	Err       error
	Code      string
	Reason    string
	Status    int
	Retryable bool
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Reason, e.Code)
	}
	return e.Reason
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is позволяет проверять errors.Is(err, ErrTransient)
func (e *APIError) Is(target error) bool {
	return target == ErrTransient && e.Retryable
}

// ServiceNotProvisionedError сервис не настроен для аккаунта
type ServiceNotProvisionedError struct {
	Code    string
	Reason  string
	Service string
}

func (e *ServiceNotProvisionedError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("webservice not available: %s", e.Service)
	}
	return fmt.Sprintf("%s (%s)", e.Reason, e.Code)
}

// TwoStepRequiredError сессии нужна двухэтапная проверка
type TwoStepRequiredError struct {
	Reason string
}

func (e *TwoStepRequiredError) Error() string {
	return fmt.Sprintf("two-step authentication required: %s", e.Reason)
}

// AuthErrorKind вид ошибки аутентификации
type AuthErrorKind int

const (
	// BadCredentials неверный Apple ID или пароль
	BadCredentials AuthErrorKind = iota
	// WrongCode неверный код подтверждения
	WrongCode
	// CodeNotSent сервис не отправил код
	CodeNotSent
	// InvalidToken сохраненная сессия больше не действительна
	InvalidToken
)

// WrongCodeErrorCode код ошибки неверного кода подтверждения
const WrongCodeErrorCode = "-21669"

func (k AuthErrorKind) String() string {
	switch k {
	case BadCredentials:
		return "bad credentials"
	case WrongCode:
		return "wrong verification code"
	case CodeNotSent:
		return "verification code not sent"
	case InvalidToken:
		return "invalid session token"
	}
	return "unknown"
}

// AuthError ошибка входа
type AuthError struct {
	Err  error
	Kind AuthErrorKind
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("authentication failed: %s", e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
