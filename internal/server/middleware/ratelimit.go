package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/cardsync/internal/server/handlers"
)

const accessDeniedMessage = "Access denied"

// RateLimiter ограничивает частоту запросов по IP на основе rate.Limiter
type RateLimiter struct {
	visitors map[string]*visitor
	logger   *slog.Logger
	cleanupC chan struct{}
	stopOnce sync.Once
	limit    rate.Limit
	burst    int
	idle     time.Duration
	mu       sync.Mutex
}

// visitor лимитер конкретного IP/ключа
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает новый rate limiter
// limit - запросов в секунду, burst - размер всплеска
// Лимитеры ключей, не активные дольше idle, удаляются фоновой очисткой
func NewRateLimiter(limit rate.Limit, burst int, idle time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		burst:    burst,
		idle:     idle,
		logger:   logger,
		cleanupC: make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// cleanup периодически удаляет неактивные лимитеры для экономии памяти
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupIdle(time.Now())
		case <-rl.cleanupC:
			return
		}
	}
}

func (rl *RateLimiter) cleanupIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, key)
		}
	}
}

// Stop останавливает cleanup goroutine; повторный вызов безопасен
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.cleanupC)
	})
}

// Allow проверяет, разрешен ли запрос для данного ключа (обычно IP адрес)
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	rl.mu.Unlock()

	return v.limiter.Allow()
}

// Middleware отвечает конвертом ACCESS_DENIED при превышении лимита
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := getClientIP(r)

		if !rl.Allow(key) {
			rl.logger.Warn("Rate limit exceeded",
				"ip", key,
				"method", r.Method,
				"path", r.URL.Path,
			)
			handlers.WriteError(w, rl.logger, http.StatusTooManyRequests, handlers.CodeAccessDenied, accessDeniedMessage)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// PathRateLimiter выбирает лимитер по префиксу пути; остальные пути идут в fallback.
// Префиксы не должны пересекаться.
type PathRateLimiter struct {
	fallback *RateLimiter
	limiters map[string]*RateLimiter
}

// NewPathRateLimiter создает лимитер с отдельными лимитами для префиксов путей
func NewPathRateLimiter(fallback *RateLimiter, limiters map[string]*RateLimiter) *PathRateLimiter {
	return &PathRateLimiter{fallback: fallback, limiters: limiters}
}

// Stop останавливает все лимитеры
func (p *PathRateLimiter) Stop() {
	p.fallback.Stop()
	for _, l := range p.limiters {
		l.Stop()
	}
}

// Middleware применяет лимитер, подходящий пути запроса
func (p *PathRateLimiter) Middleware(next http.Handler) http.Handler {
	byPath := make(map[string]http.Handler, len(p.limiters))
	for prefix, l := range p.limiters {
		byPath[prefix] = l.Middleware(next)
	}
	fallback := p.fallback.Middleware(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for prefix, h := range byPath {
			if strings.HasPrefix(r.URL.Path, prefix) {
				h.ServeHTTP(w, r)
				return
			}
		}
		fallback.ServeHTTP(w, r)
	})
}

// getClientIP извлекает IP адрес клиента из запроса
// Проверяет заголовки X-Forwarded-For и X-Real-IP для прокси
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
