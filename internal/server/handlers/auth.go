package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/pkg/api"
)

const (
	exchangeTTL    = 5 * time.Minute
	accountCountry = "USA"

	badCredentialsMessage = "Your Apple ID or password was incorrect."
	wrongCodeMessage      = "Incorrect verification code."
)

// AuthHandler обрабатывает SRP вход и второй фактор
type AuthHandler struct {
	logger    *slog.Logger
	accounts  storage.AccountStorage
	sessions  storage.SessionStorage
	exchanges *exchangeStore
	cfg       AuthConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, accounts storage.AccountStorage, sessions storage.SessionStorage, cfg AuthConfig) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		accounts:  accounts,
		sessions:  sessions,
		exchanges: newExchangeStore(exchangeTTL),
		cfg:       cfg,
	}
}

// SigninInit обрабатывает POST /signin/init
// Открывает SRP обмен: возвращает соль, параметры вывода ключа и B
func (h *AuthHandler) SigninInit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SigninInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signin init request", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	clientA, err := base64.StdEncoding.DecodeString(req.A)
	if err != nil || len(clientA) == 0 {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid client public key")
		return
	}

	account, err := h.accounts.GetAccount(ctx, req.AccountName)
	if err != nil {
		if errors.Is(err, storage.ErrAccountNotFound) {
			h.logger.WarnContext(ctx, "signin for unknown account", slog.String("apple_id", req.AccountName))
			WriteError(w, h.logger, http.StatusUnauthorized, CodeBadCredentials, badCredentialsMessage)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get account", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}
	if !slices.Contains(req.Protocols, account.Protocol) {
		WriteError(w, h.logger, http.StatusBadRequest, "", "unsupported password protocol")
		return
	}

	srp, err := crypto.NewSRPServer(account.AppleID, account.Salt, account.Verifier)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to start SRP exchange", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}
	scnt, err := randomString(16)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate scnt", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}

	exchangeID := uuid.NewString()
	sessionID := uuid.NewString()
	h.exchanges.put(exchangeID, &exchange{
		server:    srp,
		appleID:   account.AppleID,
		sessionID: sessionID,
		clientA:   clientA,
	})

	w.Header().Set(HeaderSessionID, sessionID)
	w.Header().Set(HeaderScnt, scnt)
	WriteJSON(w, h.logger, api.SigninInitResponse{
		Salt:      base64.StdEncoding.EncodeToString(account.Salt),
		B:         base64.StdEncoding.EncodeToString(srp.PublicKey()),
		C:         exchangeID,
		Protocol:  account.Protocol,
		Iteration: account.Iterations,
	}, http.StatusOK)
}

// SigninComplete обрабатывает POST /signin/complete
// Проверяет M1 клиента и выдает session token.
// Сессия без действующего trust token получает 409: нужен второй фактор.
func (h *AuthHandler) SigninComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.SigninCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode signin complete request", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}

	ex, ok := h.exchanges.take(req.C)
	if !ok || ex.appleID != req.AccountName {
		h.logger.WarnContext(ctx, "unknown or expired SRP exchange", slog.String("apple_id", req.AccountName))
		WriteError(w, h.logger, http.StatusUnauthorized, CodeBadCredentials, badCredentialsMessage)
		return
	}
	m1, err := base64.StdEncoding.DecodeString(req.M1)
	if err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid client proof")
		return
	}
	m2, err := ex.server.Verify(ex.clientA, m1)
	if err != nil {
		h.logger.WarnContext(ctx, "SRP proof rejected", slog.String("apple_id", ex.appleID), slog.Any("error", err))
		WriteError(w, h.logger, http.StatusUnauthorized, CodeBadCredentials, badCredentialsMessage)
		return
	}

	trusted := h.cfg.SecondFactor == SecondFactorNone
	if !trusted && len(req.TrustTokens) > 0 {
		hashes := make([]string, len(req.TrustTokens))
		for i, token := range req.TrustTokens {
			hashes[i] = crypto.HashToken(token)
		}
		trusted, err = h.sessions.HasTrustToken(ctx, ex.appleID, hashes)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to check trust tokens", slog.Any("error", err))
			WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
			return
		}
	}

	err = h.sessions.CreateSession(ctx, &storage.Session{
		ID:        ex.sessionID,
		AppleID:   ex.appleID,
		Verified:  trusted,
		CreatedAt: time.Now(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create session", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}

	token, err := IssueSessionToken(h.cfg.Tokens, ex.appleID, ex.sessionID, trusted)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}

	w.Header().Set(HeaderSessionToken, token)
	w.Header().Set(HeaderSessionID, ex.sessionID)
	w.Header().Set(HeaderAccountCountry, accountCountry)

	resp := api.SigninCompleteResponse{M2: base64.StdEncoding.EncodeToString(m2)}
	status := http.StatusOK
	if !trusted {
		resp.AuthType = h.cfg.SecondFactor.authType()
		status = http.StatusConflict
	}

	h.logger.InfoContext(ctx, "signin completed",
		slog.String("apple_id", ex.appleID),
		slog.Bool("trusted", trusted))
	WriteJSON(w, h.logger, resp, status)
}

// VerifySecurityCode обрабатывает POST /verify/trusteddevice/securitycode
func (h *AuthHandler) VerifySecurityCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := h.headerSession(w, r)
	if !ok {
		return
	}
	if h.cfg.SecondFactor != SecondFactorCode {
		WriteError(w, h.logger, http.StatusBadRequest, "", "security code verification is not enabled")
		return
	}

	var req api.SecurityCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, h.logger, http.StatusBadRequest, "", "invalid request body")
		return
	}
	if !h.cfg.codeMatches(req.SecurityCode.Code) {
		h.logger.WarnContext(ctx, "wrong security code", slog.String("apple_id", session.AppleID))
		WriteError(w, h.logger, http.StatusBadRequest, CodeWrongCode, wrongCodeMessage)
		return
	}

	if err := h.sessions.MarkSessionVerified(ctx, session.ID); err != nil {
		h.logger.ErrorContext(ctx, "failed to verify session", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}

	h.logger.InfoContext(ctx, "security code verified", slog.String("apple_id", session.AppleID))
	w.WriteHeader(http.StatusNoContent)
}

// Trust обрабатывает GET /2sv/trust
// Проверенная сессия получает trust token и новый доверенный session token
func (h *AuthHandler) Trust(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := h.headerSession(w, r)
	if !ok {
		return
	}
	if !session.Verified {
		WriteError(w, h.logger, http.StatusUnauthorized, "", "session is not verified")
		return
	}

	trustToken, expiresAt, err := GenerateTrustToken(h.cfg.Tokens)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate trust token", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}
	if err := h.sessions.SaveTrustToken(ctx, session.AppleID, crypto.HashToken(trustToken), expiresAt); err != nil {
		h.logger.ErrorContext(ctx, "failed to save trust token", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}
	token, err := IssueSessionToken(h.cfg.Tokens, session.AppleID, session.ID, true)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session token", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return
	}

	w.Header().Set(HeaderTrustToken, trustToken)
	w.Header().Set(HeaderSessionToken, token)

	h.logger.InfoContext(ctx, "session trusted", slog.String("apple_id", session.AppleID))
	w.WriteHeader(http.StatusNoContent)
}

// headerSession находит сессию по заголовку X-Apple-ID-Session-Id
func (h *AuthHandler) headerSession(w http.ResponseWriter, r *http.Request) (*storage.Session, bool) {
	ctx := r.Context()

	id := r.Header.Get(HeaderSessionID)
	if id == "" {
		WriteError(w, h.logger, http.StatusUnauthorized, "", "missing session id")
		return nil, false
	}
	session, err := h.sessions.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			WriteError(w, h.logger, http.StatusUnauthorized, "", "unknown session")
			return nil, false
		}
		h.logger.ErrorContext(ctx, "failed to get session", slog.Any("error", err))
		WriteError(w, h.logger, http.StatusInternalServerError, "", "internal server error")
		return nil, false
	}
	return session, true
}
