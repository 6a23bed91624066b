// Package server собирает fake сервер контактов: маршруты трех сервисов
// (appleauth, setup, contacts) на одном хосте, middleware и учетные записи.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/server/handlers"
	"github.com/iudanet/cardsync/internal/server/middleware"
	"github.com/iudanet/cardsync/internal/server/storage"
)

// Префиксы сервисов
const (
	AuthPath  = "/appleauth/auth"
	SetupPath = "/setup/ws/1"
)

// DefaultIterations число итераций PBKDF2 для новых аккаунтов
const DefaultIterations = 20000

// Store хранилище со всеми интерфейсами, нужными серверу
type Store interface {
	storage.AccountStorage
	storage.SessionStorage
	storage.ContactStorage
}

// RateLimit лимит запросов с одного IP
type RateLimit struct {
	Limit rate.Limit
	Burst int
}

// Config параметры сервера
type Config struct {
	Logger  *slog.Logger
	Store   Store
	Version string
	Auth    handlers.AuthConfig
	// Limit общий лимит; Signin отдельный, более строгий лимит на signin
	Limit  RateLimit
	Signin RateLimit
}

// Server http.Handler fake сервиса
type Server struct {
	handler  http.Handler
	limiter  *middleware.PathRateLimiter
	sessions storage.SessionStorage
	logger   *slog.Logger
	ttl      time.Duration
}

// New собирает маршруты и цепочку middleware
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHandler := handlers.NewAuthHandler(logger, cfg.Store, cfg.Store, cfg.Auth)
	setupHandler := handlers.NewSetupHandler(logger, cfg.Store, cfg.Store, cfg.Auth)
	contactsHandler := handlers.NewContactsHandler(logger, cfg.Store)
	healthHandler := handlers.NewHealthHandler(logger, cfg.Version)

	session := middleware.SessionMiddleware(logger, cfg.Auth.Tokens, false)
	trusted := middleware.SessionMiddleware(logger, cfg.Auth.Tokens, true)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("POST "+AuthPath+"/signin/init", authHandler.SigninInit)
	mux.HandleFunc("POST "+AuthPath+"/signin/complete", authHandler.SigninComplete)
	mux.HandleFunc("POST "+AuthPath+"/verify/trusteddevice/securitycode", authHandler.VerifySecurityCode)
	mux.HandleFunc("GET "+AuthPath+"/2sv/trust", authHandler.Trust)

	mux.HandleFunc("POST "+SetupPath+"/accountLogin", setupHandler.AccountLogin)
	mux.Handle("POST "+SetupPath+"/validate", session(http.HandlerFunc(setupHandler.Validate)))
	mux.Handle("GET "+SetupPath+"/listDevices", session(http.HandlerFunc(setupHandler.ListDevices)))
	mux.Handle("POST "+SetupPath+"/sendVerificationCode", session(http.HandlerFunc(setupHandler.SendVerificationCode)))
	mux.Handle("POST "+SetupPath+"/validateVerificationCode", session(http.HandlerFunc(setupHandler.ValidateVerificationCode)))

	co := handlers.ContactsServicePath + "/co"
	mux.Handle("GET "+co+"/startup", trusted(http.HandlerFunc(contactsHandler.Startup)))
	mux.Handle("GET "+co+"/contacts", trusted(http.HandlerFunc(contactsHandler.List)))
	mux.Handle("POST "+co+"/contacts/card", trusted(http.HandlerFunc(contactsHandler.MutateContacts)))
	mux.Handle("POST "+co+"/groups/card", trusted(http.HandlerFunc(contactsHandler.MutateGroups)))

	limiter := newLimiter(cfg, logger)

	var h http.Handler = mux
	h = limiter.Middleware(h)
	h = middleware.LoggingWithSkip(logger, []string{"/health"})(h)
	h = middleware.RecoveryMiddleware(logger)(h)

	return &Server{
		handler:  h,
		limiter:  limiter,
		sessions: cfg.Store,
		logger:   logger,
		ttl:      cfg.Auth.Tokens.SessionTTL,
	}
}

func newLimiter(cfg Config, logger *slog.Logger) *middleware.PathRateLimiter {
	general := cfg.Limit
	if general.Limit == 0 {
		general = RateLimit{Limit: rate.Inf, Burst: 1}
	}
	signin := cfg.Signin
	if signin.Limit == 0 {
		signin = general
	}
	return middleware.NewPathRateLimiter(
		middleware.NewRateLimiter(general.Limit, general.Burst, 10*time.Minute, logger),
		map[string]*middleware.RateLimiter{
			AuthPath + "/signin/": middleware.NewRateLimiter(signin.Limit, signin.Burst, 10*time.Minute, logger),
		},
	)
}

// Handler корневой обработчик сервера
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close останавливает фоновые горутины лимитеров
func (s *Server) Close() {
	s.limiter.Stop()
}

// RunJanitor периодически удаляет истекшие trust token и старые сессии.
// Возвращается при отмене ctx.
func (s *Server) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			n, err := s.sessions.DeleteExpired(ctx, now.Add(-s.ttl))
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Error("failed to delete expired sessions", slog.Any("error", err))
				continue
			}
			if n > 0 {
				s.logger.Info("expired sessions deleted", slog.Int("count", n))
			}
		}
	}
}

// CreateAccount заводит аккаунт: пароль сразу превращается в соль и SRP верификатор
func CreateAccount(ctx context.Context, accounts storage.AccountStorage, appleID, password, fullName string) (*storage.Account, error) {
	salt, err := crypto.GenerateSalt()
	if err != nil {
		return nil, err
	}
	key, err := crypto.PasswordKey(password, salt, DefaultIterations, crypto.ProtocolS2K)
	if err != nil {
		return nil, fmt.Errorf("failed to derive password key: %w", err)
	}

	account := &storage.Account{
		AppleID:    appleID,
		DSID:       uuid.NewString(),
		FullName:   fullName,
		Protocol:   crypto.ProtocolS2K,
		Salt:       salt,
		Verifier:   crypto.NewVerifier(key, salt),
		Iterations: DefaultIterations,
		CreatedAt:  time.Now(),
	}
	if err := accounts.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", appleID, err)
	}
	return account, nil
}

// EnsureAccount как CreateAccount, но существующий аккаунт не считается ошибкой
func EnsureAccount(ctx context.Context, accounts storage.AccountStorage, appleID, password, fullName string) error {
	_, err := CreateAccount(ctx, accounts, appleID, password, fullName)
	if errors.Is(err, storage.ErrAccountAlreadyExists) {
		return nil
	}
	return err
}
