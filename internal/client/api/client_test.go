package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cardsync/pkg/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, dir string) *Client {
	t.Helper()
	store, err := NewSessionStore(dir, "user@example.com")
	require.NoError(t, err)
	c, err := NewClient(Config{}, store, discardLogger())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewSessionStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")

	store, err := NewSessionStore(dir, "john.doe+test@example.com")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "johndoetestexamplecom"), store.CookiePath())
	assert.Equal(t, filepath.Join(dir, "johndoetestexamplecom.session"), store.SessionPath())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	_, err = NewSessionStore(dir, "@.+")
	assert.Error(t, err)
}

func TestNewClient_GeneratesClientID(t *testing.T) {
	dir := t.TempDir()
	c := newTestClient(t, dir)

	assert.Regexp(t, `^auth-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`, c.ClientID())
	assert.Equal(t, DefaultEndpoints(), c.Endpoints())
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)
}

func TestClient_Do_PersistsSessionAndCookies(t *testing.T) {
	var sawCookie atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, HomeOrigin, r.Header.Get("Origin"))
		assert.Equal(t, HomeReferer, r.Header.Get("Referer"))

		if cookie, err := r.Cookie("X-APPLE-WEBAUTH-TOKEN"); err == nil && cookie.Value == "webauth" {
			sawCookie.Store(true)
		}
		w.Header().Set("X-Apple-Session-Token", "session-token")
		w.Header().Set("X-Apple-ID-Account-Country", "USA")
		w.Header().Set("scnt", "scnt-value")
		http.SetCookie(w, &http.Cookie{Name: "X-APPLE-WEBAUTH-TOKEN", Value: "webauth", Path: "/"})
		writeJSON(w, http.StatusOK, `{"ok":true}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	c := newTestClient(t, dir)

	var result struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/first"}, &result))
	assert.True(t, result.OK)
	assert.Equal(t, "session-token", c.Session(KeySessionToken))
	assert.Equal(t, "USA", c.Session(KeyAccountCountry))
	assert.Equal(t, "scnt-value", c.Session(KeyScnt))

	info, err := os.Stat(c.store.SessionPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// новый клиент поднимает сессию и cookies с диска
	restored := newTestClient(t, dir)
	assert.Equal(t, c.ClientID(), restored.ClientID())
	assert.Equal(t, "session-token", restored.Session(KeySessionToken))

	require.NoError(t, restored.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/second"}, nil))
	assert.True(t, sawCookie.Load(), "cookie должен быть отправлен из сохраненного файла")
}

func TestClient_Do_RetriesOnce(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   bool
	}{
		{name: "500 then success", statuses: []int{500, 200}, wantCalls: 2},
		{name: "421 then success", statuses: []int{421, 200}, wantCalls: 2},
		{name: "450 twice", statuses: []int{450, 450}, wantCalls: 2, wantErr: true},
		{name: "500 twice", statuses: []int{500, 500, 200}, wantCalls: 2, wantErr: true},
		{name: "404 is not retried", statuses: []int{404, 200}, wantCalls: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[n-1]
				w.Header().Set("X-Apple-Session-Token", "token-after-error")
				if status != http.StatusOK {
					w.WriteHeader(status)
					return
				}
				writeJSON(w, status, `{}`)
			}))
			defer server.Close()

			c := newTestClient(t, t.TempDir())
			err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

			assert.Equal(t, tt.wantCalls, calls.Load())
			assert.Equal(t, "token-after-error", c.Session(KeySessionToken))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
		})
	}
}

func TestClient_Do_RetryExhaustedIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Authentication required for Account.", apiErr.Reason)
	assert.Equal(t, "500", apiErr.Code)

	// сессия сохранена даже при ошибке
	_, statErr := os.Stat(c.store.SessionPath())
	assert.NoError(t, statErr)
}

func TestClient_Do_RetriesTransportError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		writeJSON(w, http.StatusOK, `{"value":42}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	var result struct {
		Value int `json:"value"`
	}
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, &result))
	assert.Equal(t, 42, result.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Do_CanceledContextIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, Request{Method: http.MethodGet, URL: server.URL}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTransient)
	assert.Equal(t, int32(0), calls.Load())
}

func TestClient_Do_ErrorEnvelope(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantReason string
		wantCode   string
	}{
		{name: "errorMessage", status: 400, body: `{"errorMessage":"boom","errorCode":"X1"}`, wantReason: "boom", wantCode: "X1"},
		{name: "reason on success status", status: 200, body: `{"reason":"bad state"}`, wantReason: "bad state"},
		{name: "errorReason and serverErrorCode", status: 400, body: `{"errorReason":"er","serverErrorCode":"S1"}`, wantReason: "er", wantCode: "S1"},
		{name: "string error", status: 400, body: `{"error":"plain"}`, wantReason: "plain"},
		{name: "truthy error", status: 400, body: `{"error":1}`, wantReason: "Unknown reason"},
		{name: "numeric code", status: 400, body: `{"reason":"bad code","errorCode":-21669}`, wantReason: "bad code", wantCode: "-21669"},
		{
			name:       "access denied",
			status:     403,
			body:       `{"reason":"denied","errorCode":"ACCESS_DENIED"}`,
			wantReason: "denied.  Please wait a few minutes then try again. The remote servers might be trying to throttle requests.",
			wantCode:   "ACCESS_DENIED",
		},
		{name: "json without envelope", status: 404, body: `{"something":"else"}`, wantReason: "Not Found", wantCode: "404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			c := newTestClient(t, t.TempDir())
			err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantReason, apiErr.Reason)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.False(t, apiErr.Retryable)
		})
	}
}

func TestClient_Do_ServiceNotProvisioned(t *testing.T) {
	for _, code := range []string{"ZONE_NOT_FOUND", "AUTHENTICATION_FAILED"} {
		t.Run(code, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, `{"reason":"nope","errorCode":"`+code+`"}`)
			}))
			defer server.Close()

			c := newTestClient(t, t.TempDir())
			err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)

			var notProvisioned *ServiceNotProvisionedError
			require.ErrorAs(t, err, &notProvisioned)
			assert.Equal(t, code, notProvisioned.Code)
			assert.Equal(t, "Please log into https://icloud.com/ to manually finish setting up your iCloud service", notProvisioned.Reason)
		})
	}
}

func TestClient_Do_TwoStepRequired(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error":"Missing X-APPLE-WEBAUTH-TOKEN cookie"}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())

	// без требования 2SA это обычная ошибка
	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	c.SetAccount(&api.AccountLoginResponse{
		DSInfo:               api.DSInfo{HSAVersion: 1},
		HSAChallengeRequired: true,
	})
	err = c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil)
	var twoStep *TwoStepRequiredError
	assert.ErrorAs(t, err, &twoStep)
}

func TestClient_Do_NonJSONSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello")
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	result := map[string]any{}
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, &result))
	assert.Empty(t, result)
}

func TestClient_Do_AllowStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"authType":"hsa2"}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())

	var result api.SigninCompleteResponse
	err := c.Do(context.Background(), Request{
		Method:      http.MethodPost,
		URL:         server.URL,
		AllowStatus: []int{http.StatusConflict},
	}, &result)
	require.NoError(t, err)
	assert.Equal(t, "hsa2", result.AuthType)

	err = c.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL}, nil)
	assert.Error(t, err)
}

func TestClient_Do_RequestBodyAndQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2.1", r.URL.Query().Get("clientVersion"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		switch r.URL.Path {
		case "/null":
			assert.Equal(t, "null", string(body))
		case "/json":
			var got map[string]string
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, "v", got["k"])
		}
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	query := map[string][]string{"clientVersion": {"2.1"}}

	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL + "/null", Query: query, Body: NullBody}, nil))
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL + "/json", Query: query, Body: map[string]string{"k": "v"}}, nil))
}

func TestClient_Do_FindMyReauthentication(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(450)
			return
		}
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	reauth := &ReauthenticatorMock{
		ReauthenticateServiceFunc: func(ctx context.Context, service string) error {
			return nil
		},
	}

	c := newTestClient(t, t.TempDir())
	c.SetReauthenticator(reauth)
	c.SetAccount(&api.AccountLoginResponse{
		Webservices: map[string]api.Webservice{"findme": {URL: server.URL + "/fmipservice"}},
	})

	err := c.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL + "/fmipservice/client/web/refreshClient"}, nil)
	require.NoError(t, err)

	require.Len(t, reauth.ReauthenticateServiceCalls(), 1)
	assert.Equal(t, "find", reauth.ReauthenticateServiceCalls()[0].Service)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Do_FindMyReauthenticationFailureStillRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(450)
	}))
	defer server.Close()

	reauth := &ReauthenticatorMock{
		ReauthenticateServiceFunc: func(ctx context.Context, service string) error {
			return errors.New("denied")
		},
	}

	c := newTestClient(t, t.TempDir())
	c.SetReauthenticator(reauth)
	c.SetAccount(&api.AccountLoginResponse{
		Webservices: map[string]api.Webservice{"findme": {URL: server.URL + "/fmipservice"}},
	})

	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/fmipservice/x"}, nil)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Len(t, reauth.ReauthenticateServiceCalls(), 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Do_450OutsideFindMySkipsReauthentication(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(450)
	}))
	defer server.Close()

	reauth := &ReauthenticatorMock{}
	c := newTestClient(t, t.TempDir())
	c.SetReauthenticator(reauth)

	err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/contacts"}, nil)
	assert.Error(t, err)
	assert.Empty(t, reauth.ReauthenticateServiceCalls())
}

func TestClient_WebserviceURL(t *testing.T) {
	c := newTestClient(t, t.TempDir())

	_, err := c.WebserviceURL("contacts")
	var notProvisioned *ServiceNotProvisionedError
	require.ErrorAs(t, err, &notProvisioned)
	assert.Equal(t, "contacts", notProvisioned.Service)

	c.SetAccount(&api.AccountLoginResponse{
		Webservices: map[string]api.Webservice{"contacts": {URL: "https://contacts.example.com", Status: "active"}},
	})
	got, err := c.WebserviceURL("contacts")
	require.NoError(t, err)
	assert.Equal(t, "https://contacts.example.com", got)
}

func TestClient_Reset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Apple-Session-Token", "tok")
		http.SetCookie(w, &http.Cookie{Name: "c", Value: "v"})
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	clientID := c.ClientID()
	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil))

	require.NoError(t, c.Reset())

	assert.NoFileExists(t, c.store.SessionPath())
	assert.NoFileExists(t, c.store.CookiePath())
	assert.Empty(t, c.Session(KeySessionToken))
	assert.Equal(t, clientID, c.ClientID())
	assert.Nil(t, c.Account())

	// повторный Reset без файлов не ошибка
	assert.NoError(t, c.Reset())
}

func TestClient_AuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("scnt", "abc")
		w.Header().Set("X-Apple-ID-Session-Id", "sid")
		writeJSON(w, http.StatusOK, `{}`)
	}))
	defer server.Close()

	c := newTestClient(t, t.TempDir())
	h := c.AuthHeaders()
	assert.Equal(t, "*/*", h.Get("Accept"))
	assert.Equal(t, "firstPartyAuth", h.Get("X-Apple-OAuth-Client-Type"))
	assert.Equal(t, c.ClientID(), h.Get("X-Apple-OAuth-State"))
	assert.Equal(t, h.Get("X-Apple-OAuth-Client-Id"), h.Get("X-Apple-Widget-Key"))
	assert.Empty(t, h.Get("scnt"))

	require.NoError(t, c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL}, nil))
	h = c.AuthHeaders()
	assert.Equal(t, "abc", h.Get("scnt"))
	assert.Equal(t, "sid", h.Get("X-Apple-ID-Session-Id"))
}
