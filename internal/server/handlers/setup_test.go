package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/pkg/api"
)

type setupFixture struct {
	handler  *SetupHandler
	accounts *mockAccountStorage
	sessions *mockSessionStorage
	cfg      AuthConfig
}

func newSetupFixture(t *testing.T, mode SecondFactor) *setupFixture {
	t.Helper()

	accounts := newMockAccountStorage()
	addTestAccount(t, accounts, testAppleID, testPassword)
	sessions := newMockSessionStorage()
	cfg := testAuthConfig(mode)
	return &setupFixture{
		handler:  NewSetupHandler(setupTestLogger(), accounts, sessions, cfg),
		accounts: accounts,
		sessions: sessions,
		cfg:      cfg,
	}
}

// withSession кладет claims новой сессии в контекст запроса, как это делает middleware
func (f *setupFixture) withSession(t *testing.T, req *http.Request, trusted bool) (*http.Request, *SessionClaims) {
	t.Helper()

	session := &storage.Session{ID: "sid-1", AppleID: testAppleID, Verified: trusted}
	require.NoError(t, f.sessions.CreateSession(context.Background(), session))
	token, err := IssueSessionToken(f.cfg.Tokens, testAppleID, session.ID, trusted)
	require.NoError(t, err)
	claims, err := ValidateSessionToken(f.cfg.Tokens, token)
	require.NoError(t, err)
	return req.WithContext(WithClaims(req.Context(), claims)), claims
}

func decodeAccount(t *testing.T, w *httptest.ResponseRecorder) api.AccountLoginResponse {
	t.Helper()

	var resp api.AccountLoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func webAuthCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == WebAuthCookie {
			return c
		}
	}
	return nil
}

func TestSetupHandler_AccountLogin(t *testing.T) {
	tests := []struct {
		name              string
		mode              SecondFactor
		trusted           bool
		hsaVersion        int
		challengeRequired bool
	}{
		{name: "untrusted 2fa session", mode: SecondFactorCode, trusted: false, hsaVersion: 2, challengeRequired: true},
		{name: "trusted 2fa session", mode: SecondFactorCode, trusted: true, hsaVersion: 2, challengeRequired: false},
		{name: "untrusted 2sa session", mode: SecondFactorDevice, trusted: false, hsaVersion: 1, challengeRequired: true},
		{name: "no second factor", mode: SecondFactorNone, trusted: true, hsaVersion: 0, challengeRequired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSetupFixture(t, tt.mode)
			token, err := IssueSessionToken(f.cfg.Tokens, testAppleID, "sid-1", tt.trusted)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			f.handler.AccountLogin(w, jsonRequest(t, http.MethodPost, "http://example.com/setup/ws/1/accountLogin",
				api.AccountLoginRequest{DSWebAuthToken: token, ExtendedLogin: true}))

			require.Equal(t, http.StatusOK, w.Code)
			resp := decodeAccount(t, w)
			assert.Equal(t, "http://example.com"+ContactsServicePath, resp.Webservices["contacts"].URL)
			assert.True(t, resp.Apps["contacts"].CanLaunchWithOneFactor)
			assert.Equal(t, "dsid-"+testAppleID, resp.DSInfo.DSID)
			assert.Equal(t, tt.hsaVersion, resp.DSInfo.HSAVersion)
			assert.Equal(t, tt.challengeRequired, resp.HSAChallengeRequired)
			assert.Equal(t, tt.trusted, resp.HSATrustedBrowser)

			cookie := webAuthCookie(w)
			require.NotNil(t, cookie)
			assert.Equal(t, token, cookie.Value)
			assert.True(t, cookie.HttpOnly)
		})
	}
}

func TestSetupHandler_AccountLogin_Errors(t *testing.T) {
	f := newSetupFixture(t, SecondFactorCode)

	t.Run("Invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.AccountLogin(w, jsonRequest(t, http.MethodPost, "/accountLogin",
			api.AccountLoginRequest{DSWebAuthToken: "garbage"}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, webAuthCookie(w))
	})

	t.Run("Missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.AccountLogin(w, jsonRequest(t, http.MethodPost, "/accountLogin", api.AccountLoginRequest{}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Token of deleted account", func(t *testing.T) {
		token, err := IssueSessionToken(f.cfg.Tokens, "ghost@example.com", "sid-1", true)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		f.handler.AccountLogin(w, jsonRequest(t, http.MethodPost, "/accountLogin",
			api.AccountLoginRequest{DSWebAuthToken: token}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSetupHandler_ServiceLogin(t *testing.T) {
	tests := []struct {
		name         string
		req          api.ServiceLoginRequest
		expectedCode int
	}{
		{
			name:         "Correct password",
			req:          api.ServiceLoginRequest{AppName: "contacts", AppleID: testAppleID, Password: testPassword},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Wrong password",
			req:          api.ServiceLoginRequest{AppName: "contacts", AppleID: testAppleID, Password: "nope"},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Unknown service",
			req:          api.ServiceLoginRequest{AppName: "findme", AppleID: testAppleID, Password: testPassword},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "Unknown account",
			req:          api.ServiceLoginRequest{AppName: "contacts", AppleID: "ghost@example.com", Password: testPassword},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSetupFixture(t, SecondFactorCode)

			w := httptest.NewRecorder()
			f.handler.AccountLogin(w, jsonRequest(t, http.MethodPost, "/accountLogin", tt.req))

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode != http.StatusOK {
				assert.Equal(t, CodeBadCredentials, decodeError(t, w).ErrorCode)
				assert.Empty(t, f.sessions.sessions)
				return
			}

			resp := decodeAccount(t, w)
			assert.False(t, resp.HSAChallengeRequired)
			assert.True(t, resp.HSATrustedBrowser)

			cookie := webAuthCookie(w)
			require.NotNil(t, cookie)
			claims, err := ValidateSessionToken(f.cfg.Tokens, cookie.Value)
			require.NoError(t, err)
			assert.True(t, claims.Trusted)

			session, err := f.sessions.GetSession(context.Background(), claims.SessionID)
			require.NoError(t, err)
			assert.True(t, session.Verified)
		})
	}
}

func TestSetupHandler_Validate(t *testing.T) {
	f := newSetupFixture(t, SecondFactorCode)

	t.Run("Without claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.Validate(w, httptest.NewRequest(http.MethodPost, "/validate", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, MissingTokenReason, decodeError(t, w).ErrorMessage)
	})

	t.Run("With trusted session", func(t *testing.T) {
		req, _ := f.withSession(t, httptest.NewRequest(http.MethodPost, "/validate", nil), true)
		w := httptest.NewRecorder()
		f.handler.Validate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeAccount(t, w)
		assert.Equal(t, "Test User", resp.DSInfo.FullName)
		assert.False(t, resp.HSAChallengeRequired)
	})
}

func TestSetupHandler_ListDevices(t *testing.T) {
	tests := []struct {
		name     string
		mode     SecondFactor
		expected int
	}{
		{name: "2sa lists the sms device", mode: SecondFactorDevice, expected: 1},
		{name: "2fa has no devices", mode: SecondFactorCode, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSetupFixture(t, tt.mode)
			w := httptest.NewRecorder()
			f.handler.ListDevices(w, httptest.NewRequest(http.MethodGet, "/listDevices", nil))

			require.Equal(t, http.StatusOK, w.Code)
			var resp api.ListDevicesResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Devices)
			assert.Len(t, resp.Devices, tt.expected)
		})
	}
}

func TestSetupHandler_SendVerificationCode(t *testing.T) {
	tests := []struct {
		name    string
		mode    SecondFactor
		device  api.TrustedDevice
		success bool
	}{
		{name: "Known device", mode: SecondFactorDevice, device: trustedDevice, success: true},
		{name: "Unknown device", mode: SecondFactorDevice, device: api.TrustedDevice{DeviceID: "9"}, success: false},
		{name: "Wrong mode", mode: SecondFactorCode, device: trustedDevice, success: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSetupFixture(t, tt.mode)
			w := httptest.NewRecorder()
			f.handler.SendVerificationCode(w, jsonRequest(t, http.MethodPost, "/sendVerificationCode", tt.device))

			require.Equal(t, http.StatusOK, w.Code)
			var resp api.SendCodeResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.success, resp.Success)
		})
	}
}

func TestSetupHandler_ValidateVerificationCode(t *testing.T) {
	tests := []struct {
		name         string
		req          api.ValidateCodeRequest
		expectedCode int
		verified     bool
	}{
		{
			name:         "Correct code",
			req:          api.ValidateCodeRequest{TrustedDevice: trustedDevice, VerificationCode: "123456", TrustBrowser: true},
			expectedCode: http.StatusNoContent,
			verified:     true,
		},
		{
			name:         "Wrong code",
			req:          api.ValidateCodeRequest{TrustedDevice: trustedDevice, VerificationCode: "654321"},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Wrong device",
			req:          api.ValidateCodeRequest{TrustedDevice: api.TrustedDevice{DeviceID: "9"}, VerificationCode: "123456"},
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSetupFixture(t, SecondFactorDevice)
			req, claims := f.withSession(t, jsonRequest(t, http.MethodPost, "/validateVerificationCode", tt.req), false)

			w := httptest.NewRecorder()
			f.handler.ValidateVerificationCode(w, req)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusBadRequest {
				assert.Equal(t, CodeWrongCode, decodeError(t, w).ErrorCode)
			}

			session, err := f.sessions.GetSession(context.Background(), claims.SessionID)
			require.NoError(t, err)
			assert.Equal(t, tt.verified, session.Verified)
		})
	}
}
