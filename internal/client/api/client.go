package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/cardsync/pkg/api"
)

// DefaultTimeout таймаут одного HTTP запроса
const DefaultTimeout = 60 * time.Second

// findMyService сервис, для которого 450 означает повторный вход
const findMyService = "findme"

// statusSessionExpired нестандартный статус истекшей сессии
const statusSessionExpired = 450

// Endpoints базовые адреса сервисов аутентификации
type Endpoints struct {
	Auth  string
	Setup string
	Home  string
}

// DefaultEndpoints боевые адреса
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Auth:  "https://idmsa.apple.com/appleauth/auth",
		Setup: "https://setup.icloud.com/setup/ws/1",
		Home:  HomeOrigin,
	}
}

// Config параметры клиента
type Config struct {
	Endpoints Endpoints
	Timeout   time.Duration
}

//go:generate moq -out reauthenticator_mock.go . Reauthenticator

// Reauthenticator повторно входит в отдельный сервис
type Reauthenticator interface {
	ReauthenticateService(ctx context.Context, service string) error
}

// NullBody тело запроса из одного JSON null
var NullBody = json.RawMessage("null")

// Request описывает запрос к удаленному сервису
type Request struct {
	Body   any
	Header http.Header
	Query  url.Values
	Method string
	URL    string
	// AllowStatus статусы, которые не считаются ошибкой
	AllowStatus []int
}

// Client HTTP клиент с персистентной сессией.
// Все запросы к удаленному сервису проходят через Do.
type Client struct {
	httpClient *http.Client
	jar        *PersistentJar
	store      *SessionStore
	logger     *slog.Logger
	reauth     Reauthenticator
	session    map[string]string
	account    *api.AccountLoginResponse
	endpoints  Endpoints
	mu         sync.RWMutex
}

// NewClient создает клиента и загружает сохраненную сессию
func NewClient(cfg Config, store *SessionStore, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = DefaultEndpoints()
	}

	session, err := store.LoadSession()
	if err != nil {
		return nil, err
	}
	if session[KeyClientID] == "" {
		session[KeyClientID] = "auth-" + strings.ToLower(uuid.NewString())
	}

	jar, err := NewPersistentJar(store.CookiePath())
	if err != nil {
		return nil, err
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		jar:        jar,
		store:      store,
		logger:     logger,
		session:    session,
		endpoints:  cfg.Endpoints,
	}, nil
}

// SetReauthenticator подключает повторный вход для сервисов
func (c *Client) SetReauthenticator(r Reauthenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reauth = r
}

// Endpoints адреса сервисов аутентификации
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// ClientID постоянный идентификатор клиента
func (c *Client) ClientID() string {
	return c.Session(KeyClientID)
}

// Session значение параметра сессии
func (c *Client) Session(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session[key]
}

// SetAccount запоминает данные аккаунта и таблицу адресов сервисов
func (c *Client) SetAccount(account *api.AccountLoginResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
}

// Account данные аккаунта последнего входа
func (c *Client) Account() *api.AccountLoginResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

// Requires2SA сообщает, что аккаунт ждет двухэтапной проверки
func (c *Client) Requires2SA() bool {
	account := c.Account()
	return account != nil && account.Requires2SA()
}

// WebserviceURL адрес сервиса из таблицы аккаунта
func (c *Client) WebserviceURL(key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.account != nil {
		if ws, ok := c.account.Webservices[key]; ok && ws.URL != "" {
			return ws.URL, nil
		}
	}
	return "", &ServiceNotProvisionedError{Service: key}
}

// Reset удаляет сохраненную сессию и cookies
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Remove(); err != nil {
		return fmt.Errorf("failed to remove session files: %w", err)
	}
	if err := c.jar.Clear(); err != nil {
		return err
	}
	c.session = map[string]string{KeyClientID: c.session[KeyClientID]}
	c.account = nil
	return nil
}

// Do выполняет запрос и декодирует JSON ответ в result.
// Один повтор при сетевой ошибке или статусе 421/450/500.
func (c *Client) Do(ctx context.Context, r Request, result any) error {
	body, err := encodeBody(r.Body)
	if err != nil {
		return err
	}

	retried := false
	for {
		resp, data, err := c.send(ctx, r, body)
		if err != nil {
			if ctx.Err() != nil || retried {
				return &APIError{Reason: err.Error(), Retryable: ctx.Err() == nil, Err: err}
			}
			c.logger.Warn("retrying", "method", r.Method, "url", r.URL, "error", err)
			retried = true
			continue
		}

		allowed := slices.Contains(r.AllowStatus, resp.StatusCode)
		if !allowed && isRetryStatus(resp.StatusCode) && !retried {
			if resp.StatusCode == statusSessionExpired && c.isFindMyURL(r.URL) {
				c.reauthenticate(ctx, "find")
			}
			c.logger.Warn("retrying", "method", r.Method, "url", r.URL, "status", resp.StatusCode)
			retried = true
			continue
		}

		return c.handleResponse(resp, data, allowed, result)
	}
}

func (c *Client) send(ctx context.Context, r Request, body []byte) (*http.Response, []byte, error) {
	target := r.URL
	if len(r.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + r.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Origin", HomeOrigin)
	req.Header.Set("Referer", HomeReferer)
	for k, v := range r.Header {
		req.Header[k] = slices.Clone(v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("request", "method", r.Method, "url", r.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.captureSession(resp.Header)
	if err := c.persist(); err != nil {
		return nil, nil, err
	}
	return resp, data, nil
}

// captureSession копирует заголовки сессии из ответа
func (c *Client) captureSession(h http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for header, key := range sessionHeaders {
		if v := h.Get(header); v != "" {
			c.session[key] = v
		}
	}
}

func (c *Client) persist() error {
	c.mu.RLock()
	session := maps.Clone(c.session)
	c.mu.RUnlock()

	if err := c.store.SaveSession(session); err != nil {
		return err
	}
	if err := c.jar.Save(); err != nil {
		return err
	}
	c.logger.Debug("saved session", "path", c.store.SessionPath())
	return nil
}

func (c *Client) handleResponse(resp *http.Response, data []byte, allowed bool, result any) error {
	status := resp.StatusCode
	ok := allowed || (status >= 200 && status < 300)
	isJSON := isJSONContentType(resp.Header.Get("Content-Type"))

	if !ok && (!isJSON || isRetryStatus(status)) {
		return c.raise(strconv.Itoa(status), http.StatusText(status), status)
	}
	if !isJSON {
		return nil
	}

	code, reason, err := parseEnvelope(data)
	if err != nil {
		c.logger.Warn("failed to parse response with JSON mimetype", "status", status)
		if !ok {
			return c.raise(strconv.Itoa(status), http.StatusText(status), status)
		}
		return nil
	}
	if reason != "" {
		return c.raise(code, reason, status)
	}
	if !ok {
		return c.raise(strconv.Itoa(status), http.StatusText(status), status)
	}

	if result != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// raise переводит код и причину в ошибку
func (c *Client) raise(code, reason string, status int) error {
	if c.Requires2SA() && reason == missingTokenReason {
		return &TwoStepRequiredError{Reason: reason}
	}

	switch code {
	case "ZONE_NOT_FOUND", "AUTHENTICATION_FAILED":
		return &ServiceNotProvisionedError{Code: code, Reason: notProvisionedReason}
	case "ACCESS_DENIED":
		reason += throttleHint
	}

	retryable := false
	if n, err := strconv.Atoi(code); err == nil && isRetryStatus(n) {
		reason = reauthReason
		retryable = true
	}

	c.logger.Debug("remote error", "status", status, "code", code, "reason", reason)
	return &APIError{Code: code, Reason: reason, Status: status, Retryable: retryable}
}

func (c *Client) isFindMyURL(target string) bool {
	base, err := c.WebserviceURL(findMyService)
	if err != nil {
		return false
	}
	return strings.HasPrefix(target, base)
}

func (c *Client) reauthenticate(ctx context.Context, service string) {
	c.mu.RLock()
	reauth := c.reauth
	c.mu.RUnlock()
	if reauth == nil {
		return
	}
	if err := reauth.ReauthenticateService(ctx, service); err != nil {
		c.logger.Debug("re-authentication failed", "service", service, "error", err)
	}
}

func isRetryStatus(status int) bool {
	return status == http.StatusMisdirectedRequest || status == statusSessionExpired || status == http.StatusInternalServerError
}

func isJSONContentType(ct string) bool {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || mediaType == "text/json"
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return b, nil
	case []byte:
		return b, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

// parseEnvelope достает причину и код ошибки из JSON тела
func parseEnvelope(data []byte) (code, reason string, err error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", "", err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return "", "", nil
	}

	for _, key := range []string{"errorMessage", "reason", "errorReason"} {
		if s := stringValue(m[key]); s != "" {
			reason = s
			break
		}
	}
	if reason == "" {
		if s, ok := m["error"].(string); ok && s != "" {
			reason = s
		} else if truthy(m["error"]) {
			reason = "Unknown reason"
		}
	}

	code = stringValue(m["errorCode"])
	if code == "" {
		code = stringValue(m["serverErrorCode"])
	}
	return code, reason, nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		if t.String() == "0" {
			return ""
		}
		return t.String()
	}
	return ""
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}
