package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/cardsync/internal/server/handlers"
)

// SessionMiddleware создает middleware для проверки webauth cookie.
// requireTrusted закрывает доступ сессиям, не прошедшим второй фактор.
func SessionMiddleware(logger *slog.Logger, tokens handlers.TokenConfig, requireTrusted bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handlers.WebAuthCookie)
			if err != nil || cookie.Value == "" {
				logger.Warn("Missing webauth cookie", "path", r.URL.Path)
				handlers.WriteError(w, logger, http.StatusUnauthorized, "", handlers.MissingTokenReason)
				return
			}

			claims, err := handlers.ValidateSessionToken(tokens, cookie.Value)
			if err != nil {
				logger.Warn("Invalid session token", "error", err)
				handlers.WriteError(w, logger, http.StatusUnauthorized, "", handlers.MissingTokenReason)
				return
			}
			if requireTrusted && !claims.Trusted {
				logger.Warn("Session is not trusted", "apple_id", claims.AppleID, "path", r.URL.Path)
				handlers.WriteError(w, logger, http.StatusUnauthorized, "", handlers.MissingTokenReason)
				return
			}

			logger.Debug("Session authenticated", "apple_id", claims.AppleID, "trusted", claims.Trusted)
			next.ServeHTTP(w, r.WithContext(handlers.WithClaims(r.Context(), claims)))
		})
	}
}
