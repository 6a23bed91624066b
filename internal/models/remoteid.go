package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// RemoteID непрозрачный идентификатор записи удаленного сервиса.
// Сериализуется как есть; пустое значение в JSON отклоняется.
type RemoteID string

// ErrEmptyRemoteID пустой идентификатор на границе сериализации
var ErrEmptyRemoteID = errors.New("remote id cannot be empty")

// NewRemoteID генерирует идентификатор для новой записи (UUID4 в верхнем регистре)
func NewRemoteID() RemoteID {
	return RemoteID(strings.ToUpper(uuid.NewString()))
}

// String возвращает текстовое представление идентификатора
func (id RemoteID) String() string {
	return string(id)
}

// IsZero сообщает, что идентификатор не задан
func (id RemoteID) IsZero() bool {
	return id == ""
}

// MarshalText реализует encoding.TextMarshaler
func (id RemoteID) MarshalText() ([]byte, error) {
	if id == "" {
		return nil, ErrEmptyRemoteID
	}
	return []byte(id), nil
}

// UnmarshalText реализует encoding.TextUnmarshaler
func (id *RemoteID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		return ErrEmptyRemoteID
	}
	*id = RemoteID(text)
	return nil
}

// RemoteIDs переводит строки в идентификаторы
func RemoteIDs(ids []string) []RemoteID {
	if ids == nil {
		return nil
	}
	out := make([]RemoteID, len(ids))
	for i, id := range ids {
		out[i] = RemoteID(id)
	}
	return out
}

// Strings переводит идентификаторы в строки
func Strings(ids []RemoteID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
