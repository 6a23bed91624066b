package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/iudanet/cardsync/pkg/api"
)

// Заголовки ответа, которые клиент сохраняет в сессии
const (
	HeaderAccountCountry = "X-Apple-ID-Account-Country"
	HeaderSessionID      = "X-Apple-ID-Session-Id"
	HeaderSessionToken   = "X-Apple-Session-Token"
	HeaderTrustToken     = "X-Apple-TwoSV-Trust-Token"
	HeaderScnt           = "scnt"

	// WebAuthCookie cookie с session token для сервисов аккаунта
	WebAuthCookie = "X-APPLE-WEBAUTH-TOKEN"
)

// Коды ошибок в конверте ответа
const (
	CodeBadCredentials = "-20101"
	CodeWrongCode      = "-21669"
	CodeAccessDenied   = "ACCESS_DENIED"
	CodeConflict       = "CONFLICT"
	CodeNotFound       = "NOT_FOUND"
)

// MissingTokenReason причина отказа без действительного webauth cookie
const MissingTokenReason = "Missing X-APPLE-WEBAUTH-TOKEN cookie"

type contextKey string

// ClaimsKey ключ для хранения claims session token в контексте
const ClaimsKey contextKey = "session_claims"

// WithClaims кладет claims в контекст запроса
func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaims извлекает claims из контекста запроса
func GetClaims(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*SessionClaims)
	return claims, ok
}

// WriteJSON отправляет JSON ответ
func WriteJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// WriteError отправляет конверт ошибки в формате сервиса; code может быть пустым
func WriteError(w http.ResponseWriter, logger *slog.Logger, statusCode int, code, message string) {
	resp := api.ErrorResponse{ErrorMessage: message}
	if code != "" {
		resp.ErrorCode = code
	}
	WriteJSON(w, logger, resp, statusCode)
}
