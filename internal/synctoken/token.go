// Package synctoken хранит курсор синхронизации коллекции и подтягивает
// отставшие etag записей к его номеру.
package synctoken

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

var (
	prefixPattern = regexp.MustCompile(`^.*S=`)
	numberPattern = regexp.MustCompile(`\d+$`)
	etagPattern   = regexp.MustCompile(`^C=(\d+)`)
)

// ErrStale курсор из ответа старше уже известного; он не применяется
var ErrStale = errors.New("stale sync token")

// Initial номер до первого ответа сервера
const Initial int64 = -1

// Token представляет курсор синхронизации: непрозрачный префикс и
// монотонно неубывающий номер. Меняется только ответами сервера.
type Token struct {
	prefix string
	number int64
	mu     sync.RWMutex
}

// New создает курсор в начальном состоянии
func New() *Token {
	return &Token{number: Initial}
}

// Parse разбирает строку курсора сервера на префикс и номер
func Parse(raw string) (string, int64, error) {
	prefix := prefixPattern.FindString(raw)
	if prefix == "" {
		return "", 0, fmt.Errorf("sync token %q has no S= prefix", raw)
	}
	digits := numberPattern.FindString(raw)
	if digits == "" {
		return "", 0, fmt.Errorf("sync token %q has no trailing number", raw)
	}
	number, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("sync token %q: %w", raw, err)
	}
	return prefix, number, nil
}

// Update применяет курсор из ответа сервера целиком.
// Курсор с меньшим номером отклоняется с ErrStale, текущий остается как был:
// смешивать префикс одного ответа с номером другого нельзя.
func (t *Token) Update(raw string) error {
	prefix, number, err := Parse(raw)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if number < t.number {
		return fmt.Errorf("%w: %q is behind S=%d", ErrStale, raw, t.number)
	}
	t.prefix = prefix
	t.number = number
	return nil
}

// Number возвращает текущий номер курсора
func (t *Token) Number() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.number
}

// String возвращает курсор в формате сервера
func (t *Token) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.prefix + strconv.FormatInt(t.number, 10)
}

// EtagNumber извлекает номер курсора, зашитый в etag ("C=<N>...")
func EtagNumber(etag string) (int64, bool) {
	m := etagPattern.FindStringSubmatch(etag)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CorrectEtag переписывает номер в etag на current, если etag отстает.
// Etag без префикса C= и etag, который не отстает, возвращаются как есть.
func CorrectEtag(etag string, current int64) string {
	n, ok := EtagNumber(etag)
	if !ok || current <= n {
		return etag
	}
	return etagPattern.ReplaceAllString(etag, "C="+strconv.FormatInt(current, 10))
}
