// Package logging настраивает slog для cli и fake сервера
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Mask заменитель скрытых значений
const Mask = "********"

// ParseLevel переводит имя уровня из конфигурации в slog.Level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToUpper(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// New создает текстовый логгер с маскировкой секретов
func New(w io.Writer, level slog.Level, secrets *Secrets) *slog.Logger {
	inner := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactingHandler(inner, secrets))
}

// Secrets набор строк, которые не должны попадать в лог.
// Пароль может появиться уже после создания логгера, поэтому набор общий.
type Secrets struct {
	values []string
	mu     sync.RWMutex
}

// Add добавляет секрет; пустые строки игнорируются
func (s *Secrets) Add(secret string) {
	if secret == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, secret)
}

// Redact заменяет все вхождения секретов в строке
func (s *Secrets) Redact(in string) string {
	if s == nil {
		return in
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.values {
		in = strings.ReplaceAll(in, v, Mask)
	}
	return in
}

// RedactingHandler маскирует секреты в сообщении и строковых атрибутах
type RedactingHandler struct {
	inner   slog.Handler
	secrets *Secrets
}

// NewRedactingHandler оборачивает handler
func NewRedactingHandler(inner slog.Handler, secrets *Secrets) *RedactingHandler {
	if secrets == nil {
		secrets = &Secrets{}
	}
	return &RedactingHandler{inner: inner, secrets: secrets}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.secrets.Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(redacted), secrets: h.secrets}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name), secrets: h.secrets}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.secrets.Redact(v.String()))
	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, g := range group {
			redacted[i] = h.redactAttr(g)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(a.Key, h.secrets.Redact(err.Error()))
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
