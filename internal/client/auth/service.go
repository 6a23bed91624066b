package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/iudanet/cardsync/internal/client/api"
	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/validation"
	pkgapi "github.com/iudanet/cardsync/pkg/api"
)

// Credentials учетные данные аккаунта
type Credentials struct {
	AppleID  string
	Password string
}

// Authenticator выполняет вход в аккаунт и держит сессию клиента в актуальном состоянии
type Authenticator struct {
	client     *api.Client
	challenger Challenger
	logger     *slog.Logger
	creds      Credentials
	mu         sync.Mutex
}

var _ Service = (*Authenticator)(nil)

// NewAuthenticator создает сервис и подключает его к клиенту для повторного входа в сервисы
func NewAuthenticator(client *api.Client, challenger Challenger, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Authenticator{
		client:     client,
		challenger: challenger,
		logger:     logger,
	}
	client.SetReauthenticator(a)
	return a
}

// Authenticate входит в аккаунт и при необходимости проходит второй фактор
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) error {
	if err := validation.ValidateAppleID(creds.AppleID); err != nil {
		return fmt.Errorf("invalid apple id: %w", err)
	}
	if err := validation.ValidatePassword(creds.Password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	a.mu.Lock()
	a.creds = creds
	a.mu.Unlock()

	return a.authenticate(ctx, creds, false)
}

func (a *Authenticator) authenticate(ctx context.Context, creds Credentials, forceRefresh bool) error {
	var account *pkgapi.AccountLoginResponse

	if !forceRefresh && a.client.Session(api.KeySessionToken) != "" {
		a.logger.Debug("checking session token validity")
		validated, err := a.validateToken(ctx)
		if err != nil {
			a.logger.Debug("invalid authentication token, will log in from scratch", "error", err)
		} else {
			account = validated
		}
	}

	if account == nil {
		a.logger.Debug("authenticating", "apple_id", creds.AppleID)
		if err := a.signIn(ctx, creds); err != nil {
			return err
		}
		loggedIn, err := a.accountLogin(ctx)
		if err != nil {
			return err
		}
		account = loggedIn
	}
	a.client.SetAccount(account)

	switch {
	case account.Requires2FA():
		a.logger.Info("two-factor authentication required")
		if err := a.verifySecurityCode(ctx); err != nil {
			return err
		}
		a.trustSession(ctx)
	case account.Requires2SA():
		a.logger.Info("two-step authentication required")
		if err := a.verifyDevice(ctx); err != nil {
			return err
		}
		a.trustSession(ctx)
	}

	if a.client.Account().Requires2SA() {
		a.logger.Warn("session is still not trusted")
	}
	a.logger.Info("authentication completed successfully")
	return nil
}

// IsAuthenticated проверяет сохраненный session token
func (a *Authenticator) IsAuthenticated(ctx context.Context) (bool, error) {
	if a.client.Session(api.KeySessionToken) == "" {
		return false, nil
	}
	account, err := a.validateToken(ctx)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable {
			return false, nil
		}
		return false, err
	}
	a.client.SetAccount(account)
	return !account.Requires2SA(), nil
}

// ReauthenticateService заново открывает сессию одного сервиса.
// Если приложение допускает вход одним фактором, пароль отправляется только ему.
func (a *Authenticator) ReauthenticateService(ctx context.Context, service string) error {
	a.mu.Lock()
	creds := a.creds
	a.mu.Unlock()
	if creds.AppleID == "" {
		return fmt.Errorf("no credentials to re-authenticate %s", service)
	}

	account := a.client.Account()
	if account == nil || !account.Apps[service].CanLaunchWithOneFactor {
		return a.authenticate(ctx, creds, true)
	}

	a.logger.Debug("authenticating to service with only one factor", "service", service)
	err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    a.client.Endpoints().Setup + "/accountLogin",
		Body: pkgapi.ServiceLoginRequest{
			AppName:  service,
			AppleID:  creds.AppleID,
			Password: creds.Password,
		},
	}, nil)
	if err != nil {
		return &api.AuthError{Kind: api.BadCredentials, Err: err}
	}

	validated, err := a.validateToken(ctx)
	if err != nil {
		return err
	}
	a.client.SetAccount(validated)
	return nil
}

// Logout удаляет сохраненную сессию и cookies
func (a *Authenticator) Logout(_ context.Context) error {
	if err := a.client.Reset(); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	a.mu.Lock()
	a.creds = Credentials{}
	a.mu.Unlock()
	a.logger.Info("session removed")
	return nil
}

func (a *Authenticator) validateToken(ctx context.Context) (*pkgapi.AccountLoginResponse, error) {
	var account pkgapi.AccountLoginResponse
	err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    a.client.Endpoints().Setup + "/validate",
		Body:   api.NullBody,
	}, &account)
	if err != nil {
		return nil, fmt.Errorf("session token is not valid: %w", err)
	}
	a.logger.Debug("session token is still valid")
	return &account, nil
}

// signIn SRP обмен; сам пароль на сервер не уходит
func (a *Authenticator) signIn(ctx context.Context, creds Credentials) error {
	srp, err := crypto.NewSRPClient()
	if err != nil {
		return err
	}
	authURL := a.client.Endpoints().Auth

	var challenge pkgapi.SigninInitResponse
	err = a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    authURL + "/signin/init",
		Header: a.client.AuthHeaders(),
		Body: pkgapi.SigninInitRequest{
			A:           base64.StdEncoding.EncodeToString(srp.PublicKey()),
			AccountName: creds.AppleID,
			Protocols:   crypto.Protocols,
		},
	}, &challenge)
	if err != nil {
		return &api.AuthError{Kind: api.BadCredentials, Err: err}
	}

	salt, err := base64.StdEncoding.DecodeString(challenge.Salt)
	if err != nil {
		return fmt.Errorf("failed to decode salt: %w", err)
	}
	serverB, err := base64.StdEncoding.DecodeString(challenge.B)
	if err != nil {
		return fmt.Errorf("failed to decode server key: %w", err)
	}
	key, err := crypto.PasswordKey(creds.Password, salt, challenge.Iteration, challenge.Protocol)
	if err != nil {
		return fmt.Errorf("failed to derive password key: %w", err)
	}
	m1, m2, err := srp.ProcessChallenge(creds.AppleID, key, salt, serverB)
	if err != nil {
		return &api.AuthError{Kind: api.BadCredentials, Err: err}
	}

	trustTokens := []string{}
	if tt := a.client.Session(api.KeyTrustToken); tt != "" {
		trustTokens = append(trustTokens, tt)
	}

	var complete pkgapi.SigninCompleteResponse
	err = a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    authURL + "/signin/complete",
		Query:  url.Values{"isRememberMeEnabled": {"true"}},
		Header: a.client.AuthHeaders(),
		Body: pkgapi.SigninCompleteRequest{
			AccountName: creds.AppleID,
			C:           challenge.C,
			M1:          base64.StdEncoding.EncodeToString(m1),
			M2:          base64.StdEncoding.EncodeToString(m2),
			RememberMe:  true,
			TrustTokens: trustTokens,
		},
		// 409 означает, что ждем второй фактор
		AllowStatus: []int{http.StatusConflict},
	}, &complete)
	if err != nil {
		return &api.AuthError{Kind: api.BadCredentials, Err: err}
	}
	if complete.M2 != "" && complete.M2 != base64.StdEncoding.EncodeToString(m2) {
		return &api.AuthError{Kind: api.BadCredentials, Err: crypto.ErrSRPBadProof}
	}
	return nil
}

func (a *Authenticator) accountLogin(ctx context.Context) (*pkgapi.AccountLoginResponse, error) {
	var account pkgapi.AccountLoginResponse
	err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    a.client.Endpoints().Setup + "/accountLogin",
		Body: pkgapi.AccountLoginRequest{
			AccountCountryCode: a.client.Session(api.KeyAccountCountry),
			DSWebAuthToken:     a.client.Session(api.KeySessionToken),
			ExtendedLogin:      true,
			TrustToken:         a.client.Session(api.KeyTrustToken),
		},
	}, &account)
	if err != nil {
		return nil, &api.AuthError{Kind: api.InvalidToken, Err: err}
	}
	return &account, nil
}

// verifySecurityCode 2FA: один код с доверенного устройства
func (a *Authenticator) verifySecurityCode(ctx context.Context) error {
	input, err := a.challenger.SecurityCode(ctx)
	if err != nil {
		return err
	}
	code, err := validation.NormalizeVerificationCode(input)
	if err != nil {
		return &api.AuthError{Kind: api.WrongCode, Err: err}
	}

	err = a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    a.client.Endpoints().Auth + "/verify/trusteddevice/securitycode",
		Header: a.client.AuthHeaders(),
		Body:   pkgapi.SecurityCodeRequest{SecurityCode: pkgapi.SecurityCode{Code: code}},
	}, nil)
	if err != nil {
		return codeError(err)
	}
	a.logger.Debug("security code verified")
	return nil
}

// verifyDevice 2SA: выбор устройства, отправка и проверка кода
func (a *Authenticator) verifyDevice(ctx context.Context) error {
	setupURL := a.client.Endpoints().Setup

	var list pkgapi.ListDevicesResponse
	if err := a.client.Do(ctx, api.Request{Method: http.MethodGet, URL: setupURL + "/listDevices"}, &list); err != nil {
		return fmt.Errorf("failed to list trusted devices: %w", err)
	}
	if len(list.Devices) == 0 {
		return &api.AuthError{Kind: api.CodeNotSent, Err: errors.New("no trusted devices")}
	}

	idx, err := a.challenger.ChooseDevice(ctx, list.Devices)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(list.Devices) {
		return fmt.Errorf("device choice %d out of range", idx)
	}
	device := list.Devices[idx]

	var sent pkgapi.SendCodeResponse
	err = a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    setupURL + "/sendVerificationCode",
		Body:   device,
	}, &sent)
	if err != nil || !sent.Success {
		return &api.AuthError{Kind: api.CodeNotSent, Err: err}
	}

	input, err := a.challenger.VerificationCode(ctx)
	if err != nil {
		return err
	}
	code, err := validation.NormalizeVerificationCode(input)
	if err != nil {
		return &api.AuthError{Kind: api.WrongCode, Err: err}
	}

	err = a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    setupURL + "/validateVerificationCode",
		Body: pkgapi.ValidateCodeRequest{
			TrustedDevice:    device,
			VerificationCode: code,
			TrustBrowser:     true,
		},
	}, nil)
	if err != nil {
		return codeError(err)
	}
	a.logger.Debug("verification code accepted", "device", device.DisplayName())
	return nil
}

// trustSession просит сервис доверять сессии; ошибка только логируется
func (a *Authenticator) trustSession(ctx context.Context) {
	err := a.client.Do(ctx, api.Request{
		Method: http.MethodGet,
		URL:    a.client.Endpoints().Auth + "/2sv/trust",
		Header: a.client.AuthHeaders(),
	}, nil)
	if err != nil {
		a.logger.Error("session trust failed", "error", err)
		return
	}

	account, err := a.accountLogin(ctx)
	if err != nil {
		a.logger.Error("session trust failed", "error", err)
		return
	}
	a.client.SetAccount(account)
}

func codeError(err error) error {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Code == api.WrongCodeErrorCode {
		return &api.AuthError{Kind: api.WrongCode, Err: err}
	}
	return fmt.Errorf("failed to verify code: %w", err)
}
