package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/pkg/api"
)

// ContactsServicePath префикс сервиса контактов; адрес отдается в webservices
const ContactsServicePath = "/contacts"

// contactsService ключ сервиса контактов в webservices и apps
const contactsService = "contacts"

// trustedDevice единственное устройство для 2SA
var trustedDevice = api.TrustedDevice{
	DeviceType:  "SMS",
	DeviceID:    "1",
	PhoneNumber: "********00",
	AreaCode:    "",
}

// accountLoginRequest объединяет вход по session token и однофакторный вход сервиса
type accountLoginRequest struct {
	api.AccountLoginRequest
	api.ServiceLoginRequest
}

// SetupHandler обрабатывает accountLogin, validate и 2SA
type SetupHandler struct {
	logger   *slog.Logger
	accounts storage.AccountStorage
	sessions storage.SessionStorage
	cfg      AuthConfig
}

// NewSetupHandler создает новый handler setup сервиса
func NewSetupHandler(logger *slog.Logger, accounts storage.AccountStorage, sessions storage.SessionStorage, cfg AuthConfig) *SetupHandler {
	return &SetupHandler{
		logger:   logger,
		accounts: accounts,
		sessions: sessions,
		cfg:      cfg,
	}
}

// AccountLogin обрабатывает POST /accountLogin
// Обменивает session token (или пароль для одного сервиса) на webauth cookie и данные аккаунта
func (h *SetupHandler) AccountLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req accountLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode account login request", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}

	var (
		token  string
		claims *SessionClaims
		err    error
	)
	switch {
	case req.DSWebAuthToken != "":
		token = req.DSWebAuthToken
		claims, err = ValidateSessionToken(h.cfg.Tokens, token)
		if err != nil {
			h.logger.WarnContext(ctx, "invalid session token", slog.Any("error", err))
			WriteError(w, h.logger, http.StatusUnauthorized, "", "Invalid session token")
			return
		}
	case req.AppName != "":
		token, claims, err = h.serviceLogin(r, req.ServiceLoginRequest)
		if err != nil {
			h.logger.WarnContext(ctx, "service login rejected", slog.String("app", req.AppName), slog.Any("error", err))
			WriteError(w, h.logger, http.StatusUnauthorized, CodeBadCredentials, badCredentialsMessage)
			return
		}
	default:
		WriteError(w, h.logger, http.StatusBadRequest, "", "dsWebAuthToken is required")
		return
	}

	account, err := h.accounts.GetAccount(ctx, claims.AppleID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusUnauthorized, "", "Invalid session token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     WebAuthCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		Expires:  claims.ExpiresAt.Time,
	})
	WriteJSON(w, h.logger, h.accountResponse(r, account, claims.Trusted), http.StatusOK)
}

// serviceLogin проверяет пароль по верификатору аккаунта и открывает доверенную сессию
func (h *SetupHandler) serviceLogin(r *http.Request, req api.ServiceLoginRequest) (string, *SessionClaims, error) {
	ctx := r.Context()

	if req.AppName != contactsService {
		return "", nil, errors.New("unknown service")
	}
	account, err := h.accounts.GetAccount(ctx, req.AppleID)
	if err != nil {
		return "", nil, err
	}
	key, err := crypto.PasswordKey(req.Password, account.Salt, account.Iterations, account.Protocol)
	if err != nil {
		return "", nil, err
	}
	if subtle.ConstantTimeCompare(crypto.NewVerifier(key, account.Salt), account.Verifier) != 1 {
		return "", nil, errors.New("password mismatch")
	}

	session := &storage.Session{
		ID:        uuid.NewString(),
		AppleID:   account.AppleID,
		Verified:  true,
		CreatedAt: time.Now(),
	}
	if err := h.sessions.CreateSession(ctx, session); err != nil {
		return "", nil, err
	}
	token, err := IssueSessionToken(h.cfg.Tokens, account.AppleID, session.ID, true)
	if err != nil {
		return "", nil, err
	}
	claims, err := ValidateSessionToken(h.cfg.Tokens, token)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Validate обрабатывает POST /validate; webauth cookie проверен middleware
func (h *SetupHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, "", MissingTokenReason)
		return
	}
	account, err := h.accounts.GetAccount(ctx, claims.AppleID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusUnauthorized, "", MissingTokenReason)
		return
	}
	WriteJSON(w, h.logger, h.accountResponse(r, account, claims.Trusted), http.StatusOK)
}

// ListDevices обрабатывает GET /listDevices
func (h *SetupHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	if h.cfg.SecondFactor != SecondFactorDevice {
		WriteJSON(w, h.logger, api.ListDevicesResponse{Devices: []api.TrustedDevice{}}, http.StatusOK)
		return
	}
	WriteJSON(w, h.logger, api.ListDevicesResponse{Devices: []api.TrustedDevice{trustedDevice}}, http.StatusOK)
}

// SendVerificationCode обрабатывает POST /sendVerificationCode.
// Код не отправляется: он задан в конфигурации сервера.
func (h *SetupHandler) SendVerificationCode(w http.ResponseWriter, r *http.Request) {
	var device api.TrustedDevice
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	sent := h.cfg.SecondFactor == SecondFactorDevice && device.DeviceID == trustedDevice.DeviceID
	h.logger.InfoContext(r.Context(), "verification code requested",
		slog.String("device_id", device.DeviceID),
		slog.Bool("sent", sent))
	WriteJSON(w, h.logger, api.SendCodeResponse{Success: sent}, http.StatusOK)
}

// ValidateVerificationCode обрабатывает POST /validateVerificationCode
func (h *SetupHandler) ValidateVerificationCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		WriteError(w, h.logger, http.StatusUnauthorized, "", MissingTokenReason)
		return
	}

	var req api.ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if req.DeviceID != trustedDevice.DeviceID || !h.cfg.codeMatches(req.VerificationCode) {
		h.logger.WarnContext(ctx, "wrong verification code", slog.String("apple_id", claims.AppleID))
		WriteError(w, h.logger, http.StatusBadRequest, CodeWrongCode, wrongCodeMessage)
		return
	}

	if err := h.sessions.MarkSessionVerified(ctx, claims.SessionID); err != nil {
		h.logger.ErrorContext(ctx, "failed to verify session", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SetupHandler) accountResponse(r *http.Request, account *storage.Account, trusted bool) api.AccountLoginResponse {
	return api.AccountLoginResponse{
		Webservices: map[string]api.Webservice{
			contactsService: {URL: baseURL(r) + ContactsServicePath, Status: "active"},
		},
		Apps: map[string]api.App{
			contactsService: {CanLaunchWithOneFactor: true},
		},
		DSInfo: api.DSInfo{
			DSID:       account.DSID,
			FullName:   account.FullName,
			HSAVersion: h.cfg.SecondFactor.HSAVersion(),
		},
		HSAChallengeRequired: !trusted && h.cfg.SecondFactor != SecondFactorNone,
		HSATrustedBrowser:    trusted,
	}
}

// baseURL адрес сервера, по которому пришел запрос
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
