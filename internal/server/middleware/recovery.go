package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iudanet/cardsync/internal/server/handlers"
)

// RecoveryMiddleware перехватывает panic, логирует стек и отвечает 500 в конверте ошибки.
// http.ErrAbortHandler пробрасывается дальше: им сервер обрывает соединение.
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "Panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", getClientIP(r),
					"stack", string(debug.Stack()),
				)
				handlers.WriteError(w, logger, http.StatusInternalServerError, "", "Internal Server Error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
