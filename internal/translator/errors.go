package translator

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedField поле удаленной записи не поддерживается
	ErrUnsupportedField = errors.New("unsupported field")
	// ErrInvalidValue значение поля не удалось разобрать
	ErrInvalidValue = errors.New("invalid value")
	// ErrNotesBlock не удалось разобрать блок заметок
	ErrNotesBlock = errors.New("invalid notes block")
)

// TranslationError указывает запись и поле, на которых остановился перевод
type TranslationError struct {
	Err       error
	ContactID string
	Field     string
}

func (e *TranslationError) Error() string {
	id := e.ContactID
	if id == "" {
		id = "<unlinked>"
	}
	return fmt.Sprintf("contact %s: field %s: %v", id, e.Field, e.Err)
}

func (e *TranslationError) Unwrap() error {
	return e.Err
}

func unsupported(id, field string) error {
	return &TranslationError{ContactID: id, Field: field, Err: ErrUnsupportedField}
}

func invalid(id, field string, format string, args ...any) error {
	return &TranslationError{
		ContactID: id,
		Field:     field,
		Err:       fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...)),
	}
}
