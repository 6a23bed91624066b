package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AppleIDPattern определяет допустимый формат Apple ID (адрес почты)
var AppleIDPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// VerificationCodePattern код двухфакторной проверки: ровно 6 цифр
var VerificationCodePattern = regexp.MustCompile(`^\d{6}$`)

// MaxAppleIDLen максимальная длина Apple ID
const MaxAppleIDLen = 254

// ValidateAppleID проверяет, что Apple ID похож на адрес почты
func ValidateAppleID(appleID string) error {
	if appleID == "" {
		return fmt.Errorf("apple id cannot be empty")
	}

	if len(appleID) > MaxAppleIDLen {
		return fmt.Errorf("apple id must not exceed %d characters", MaxAppleIDLen)
	}

	if !AppleIDPattern.MatchString(appleID) {
		return fmt.Errorf("apple id must be an email address")
	}

	return nil
}

// ValidatePassword проверяет, что пароль задан
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}

// NormalizeVerificationCode убирает пробелы и проверяет формат кода.
// Коды часто вводят как "123 456".
func NormalizeVerificationCode(code string) (string, error) {
	code = strings.Join(strings.Fields(code), "")
	if code == "" {
		return "", fmt.Errorf("verification code cannot be empty")
	}
	if !VerificationCodePattern.MatchString(code) {
		return "", fmt.Errorf("verification code must be 6 digits")
	}
	return code, nil
}

// ParseDeviceIndex разбирает выбор устройства из списка длины count
func ParseDeviceIndex(input string, count int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("device choice must be a number: %w", err)
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("device choice must be between 0 and %d", count-1)
	}
	return idx, nil
}
