package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/iudanet/cardsync/internal/server/handlers"
	"github.com/iudanet/cardsync/internal/validation"
)

// AccountConfig аккаунт, который заводится при старте
type AccountConfig struct {
	AppleID  string `yaml:"apple_id"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// RateConfig лимит запросов в секунду с одного IP; 0 снимает ограничение
type RateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// FileConfig настройки fake сервера из YAML файла
type FileConfig struct {
	Listen           string          `yaml:"listen"`
	Database         string          `yaml:"database"`
	Secret           string          `yaml:"secret"`
	SecondFactor     string          `yaml:"second_factor"`
	VerificationCode string          `yaml:"verification_code"`
	LogLevel         string          `yaml:"log_level"`
	Accounts         []AccountConfig `yaml:"accounts"`
	RateLimit        RateConfig      `yaml:"rate_limit"`
	SigninRateLimit  RateConfig      `yaml:"signin_rate_limit"`
	SessionTTL       time.Duration   `yaml:"session_ttl"`
	TrustTTL         time.Duration   `yaml:"trust_ttl"`
}

// DefaultFileConfig настройки по умолчанию
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Listen:           "127.0.0.1:8443",
		Database:         "fakeicloud.db",
		SecondFactor:     string(handlers.SecondFactorCode),
		VerificationCode: "123456",
		LogLevel:         "info",
		SessionTTL:       time.Hour,
		TrustTTL:         30 * 24 * time.Hour,
		SigninRateLimit:  RateConfig{RPS: 1, Burst: 10},
	}
}

// LoadFileConfig читает настройки; пустой path означает настройки по умолчанию
func LoadFileConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет настройки
func (c *FileConfig) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address cannot be empty")
	}
	if c.Database == "" {
		return errors.New("database path cannot be empty")
	}
	if len(c.Secret) < 16 {
		return errors.New("secret must be at least 16 characters")
	}
	if _, err := handlers.ParseSecondFactor(c.SecondFactor); err != nil {
		return err
	}
	if code, err := validation.NormalizeVerificationCode(c.VerificationCode); err != nil || code != c.VerificationCode {
		return fmt.Errorf("verification_code must be 6 digits")
	}
	if c.SessionTTL <= 0 || c.TrustTTL <= 0 {
		return errors.New("session_ttl and trust_ttl must be positive")
	}
	for i, a := range c.Accounts {
		if err := validation.ValidateAppleID(a.AppleID); err != nil {
			return fmt.Errorf("account #%d: %w", i, err)
		}
		if err := validation.ValidatePassword(a.Password); err != nil {
			return fmt.Errorf("account %s: %w", a.AppleID, err)
		}
	}
	return nil
}

// AuthConfig настройки обработчиков входа
func (c *FileConfig) AuthConfig() (handlers.AuthConfig, error) {
	mode, err := handlers.ParseSecondFactor(c.SecondFactor)
	if err != nil {
		return handlers.AuthConfig{}, err
	}
	return handlers.AuthConfig{
		SecondFactor:     mode,
		VerificationCode: c.VerificationCode,
		Tokens: handlers.TokenConfig{
			Secret:     []byte(c.Secret),
			SessionTTL: c.SessionTTL,
			TrustTTL:   c.TrustTTL,
		},
	}, nil
}

// Limit переводит настройку в лимит middleware
func (r RateConfig) Limit() RateLimit {
	if r.RPS <= 0 {
		return RateLimit{Limit: rate.Inf, Burst: 1}
	}
	burst := r.Burst
	if burst <= 0 {
		burst = 1
	}
	return RateLimit{Limit: rate.Limit(r.RPS), Burst: burst}
}
