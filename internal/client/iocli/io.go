package iocli

import (
	"errors"
	"strings"
)

// ErrQuit пользователь прервал команду ответом Q
var ErrQuit = errors.New("quit requested")

//go:generate moq -out io_mock.go . IO

// IO терминал пользователя
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
}

// Confirm задает вопрос с вариантами Y/N/Q.
// Y дает true, Q дает ErrQuit, любой другой ответ считается отказом.
func Confirm(io IO, question string) (bool, error) {
	answer, err := io.ReadInput(question + " [Y/N/Q]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return true, nil
	case "q":
		return false, ErrQuit
	}
	return false, nil
}
