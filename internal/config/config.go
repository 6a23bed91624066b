// Package config загружает настройки cardsync из YAML файла.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/iudanet/cardsync/internal/client/api"
	"github.com/iudanet/cardsync/internal/validation"
)

// PasswordEnv переменная окружения с паролем аккаунта
const PasswordEnv = "CARDSYNC_PASSWORD"

// AppName имя каталога настроек
const AppName = "cardsync"

// Endpoints адреса удаленного сервиса; пустые поля берутся из api.DefaultEndpoints
type Endpoints struct {
	Auth  string `yaml:"auth"`
	Setup string `yaml:"setup"`
	Home  string `yaml:"home"`
}

// GroupRule правило членства в группе: по тегу или по наличию телефона
type GroupRule struct {
	Name     string `yaml:"name"`
	Tag      string `yaml:"tag,omitempty"`
	HasPhone bool   `yaml:"has_phone,omitempty"`
}

// Config настройки клиента
type Config struct {
	Endpoints     Endpoints     `yaml:"endpoints"`
	AppleID       string        `yaml:"apple_id"`
	Password      string        `yaml:"password,omitempty"`
	SessionDir    string        `yaml:"session_dir"`
	ContactsFile  string        `yaml:"contacts_file"`
	CacheFile     string        `yaml:"cache_file"`
	LogLevel      string        `yaml:"log_level"`
	IgnoredIDs    []string      `yaml:"ignored_ids,omitempty"`
	Groups        []GroupRule   `yaml:"groups,omitempty"`
	Timeout       time.Duration `yaml:"timeout"`
}

// DefaultDir каталог настроек по умолчанию
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath путь к файлу настроек по умолчанию
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Default настройки с путями внутри dir
func Default(dir string) *Config {
	return &Config{
		SessionDir:   filepath.Join(dir, "session"),
		ContactsFile: filepath.Join(dir, "contacts.json"),
		CacheFile:    filepath.Join(dir, "cache.db"),
		LogLevel:     "info",
		Timeout:      api.DefaultTimeout,
	}
}

// Load читает настройки из path.
// Если explicit == false, отсутствующий файл означает настройки по умолчанию.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(bytes.NewReader(data), cfg); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode накладывает YAML поверх cfg; неизвестные ключи считаются ошибкой
func Decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Validate проверяет настройки, нужные для обращения к серверу
func (c *Config) Validate() error {
	if err := validation.ValidateAppleID(c.AppleID); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	seen := make(map[string]struct{}, len(c.Groups))
	for i, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("group rule #%d: name cannot be empty", i)
		}
		if _, ok := seen[g.Name]; ok {
			return fmt.Errorf("group rule %q: duplicate name", g.Name)
		}
		seen[g.Name] = struct{}{}
		if (g.Tag == "") == !g.HasPhone {
			return fmt.Errorf("group rule %q: exactly one of tag or has_phone must be set", g.Name)
		}
	}
	return nil
}

// APIConfig настройки клиента сервиса
func (c *Config) APIConfig() api.Config {
	endpoints := api.DefaultEndpoints()
	if c.Endpoints.Auth != "" {
		endpoints.Auth = strings.TrimRight(c.Endpoints.Auth, "/")
	}
	if c.Endpoints.Setup != "" {
		endpoints.Setup = strings.TrimRight(c.Endpoints.Setup, "/")
	}
	if c.Endpoints.Home != "" {
		endpoints.Home = strings.TrimRight(c.Endpoints.Home, "/")
	}
	return api.Config{Endpoints: endpoints, Timeout: c.Timeout}
}

// ResolvePassword возвращает пароль из окружения или из файла настроек.
// Пустая строка означает, что пароль нужно спросить.
func (c *Config) ResolvePassword() string {
	if env := os.Getenv(PasswordEnv); env != "" {
		return env
	}
	return c.Password
}

func (c *Config) expand() error {
	for _, p := range []*string{&c.SessionDir, &c.ContactsFile, &c.CacheFile} {
		expanded, err := expandHome(*p)
		if err != nil {
			return err
		}
		*p = expanded
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
