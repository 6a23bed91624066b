package auth

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/cardsync/internal/client/api"
	"github.com/iudanet/cardsync/internal/crypto"
	pkgapi "github.com/iudanet/cardsync/pkg/api"
)

const (
	testAppleID  = "user@example.com"
	testPassword = "correct horse"
	fakeToken    = "session-token-1"
	fakeTrust    = "trust-token-1"
	fakeCode     = "123456"
)

// fakeApple минимальный сервис аутентификации для тестов
type fakeApple struct {
	t            *testing.T
	server       *httptest.Server
	srp          *crypto.SRPServer
	calls        map[string]int
	serviceLogin *pkgapi.ServiceLoginRequest
	clientA      []byte
	salt         []byte
	verifier     []byte
	trustTokens  []string
	hsaVersion   int
	mu           sync.Mutex
	trusted      bool
	sendFails    bool
	trustFails   bool
}

func newFakeApple(t *testing.T, hsaVersion int) *fakeApple {
	t.Helper()

	salt, err := crypto.GenerateSalt()
	require.NoError(t, err)
	key, err := crypto.PasswordKey(testPassword, salt, 1000, crypto.ProtocolS2K)
	require.NoError(t, err)

	f := &fakeApple{
		t:          t,
		salt:       salt,
		verifier:   crypto.NewVerifier(key, salt),
		hsaVersion: hsaVersion,
		calls:      map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/signin/init", f.signinInit)
	mux.HandleFunc("POST /auth/signin/complete", f.signinComplete)
	mux.HandleFunc("POST /auth/verify/trusteddevice/securitycode", f.securityCode)
	mux.HandleFunc("GET /auth/2sv/trust", f.trust)
	mux.HandleFunc("POST /setup/accountLogin", f.accountLogin)
	mux.HandleFunc("POST /setup/validate", f.validate)
	mux.HandleFunc("GET /setup/listDevices", f.listDevices)
	mux.HandleFunc("POST /setup/sendVerificationCode", f.sendCode)
	mux.HandleFunc("POST /setup/validateVerificationCode", f.validateCode)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls[r.Method+" "+r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	f.configure(func(f *fakeApple) { f.server = server })
	return f
}

func (f *fakeApple) endpoints() api.Endpoints {
	return api.Endpoints{
		Auth:  f.server.URL + "/auth",
		Setup: f.server.URL + "/setup",
		Home:  f.server.URL,
	}
}

func (f *fakeApple) callCount(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func (f *fakeApple) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (f *fakeApple) account() pkgapi.AccountLoginResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return pkgapi.AccountLoginResponse{
		DSInfo:               pkgapi.DSInfo{DSID: "1000", HSAVersion: f.hsaVersion},
		HSAChallengeRequired: f.hsaVersion > 0 && !f.trusted,
		HSATrustedBrowser:    f.trusted,
		Webservices: map[string]pkgapi.Webservice{
			"contacts": {URL: f.server.URL + "/contacts", Status: "active"},
		},
		Apps: map[string]pkgapi.App{"find": {CanLaunchWithOneFactor: true}},
	}
}

func (f *fakeApple) signinInit(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.SigninInitRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(f.t, []string{"s2k", "s2k_fo"}, req.Protocols)
	assert.Equal(f.t, "firstPartyAuth", r.Header.Get("X-Apple-OAuth-Client-Type"))

	a, err := base64.StdEncoding.DecodeString(req.A)
	require.NoError(f.t, err)
	srp, err := crypto.NewSRPServer(req.AccountName, f.salt, f.verifier)
	require.NoError(f.t, err)

	f.mu.Lock()
	f.srp = srp
	f.clientA = a
	f.mu.Unlock()

	w.Header().Set("scnt", "scnt-1")
	w.Header().Set("X-Apple-ID-Session-Id", "sid-1")
	f.respond(w, http.StatusOK, pkgapi.SigninInitResponse{
		Salt:      base64.StdEncoding.EncodeToString(f.salt),
		B:         base64.StdEncoding.EncodeToString(srp.PublicKey()),
		C:         "c-1",
		Protocol:  crypto.ProtocolS2K,
		Iteration: 1000,
	})
}

func (f *fakeApple) signinComplete(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "true", r.URL.Query().Get("isRememberMeEnabled"))
	assert.Equal(f.t, "scnt-1", r.Header.Get("scnt"))
	assert.Equal(f.t, "sid-1", r.Header.Get("X-Apple-ID-Session-Id"))

	var req pkgapi.SigninCompleteRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(f.t, "c-1", req.C)
	assert.True(f.t, req.RememberMe)

	m1, err := base64.StdEncoding.DecodeString(req.M1)
	require.NoError(f.t, err)

	f.mu.Lock()
	srp, clientA := f.srp, f.clientA
	f.trustTokens = req.TrustTokens
	f.mu.Unlock()

	if _, err := srp.Verify(clientA, m1); err != nil {
		f.respond(w, http.StatusUnauthorized, map[string]any{
			"serviceErrors": []map[string]string{{"code": "-20101", "message": "Your Apple ID or password was incorrect."}},
		})
		return
	}

	w.Header().Set("X-Apple-Session-Token", fakeToken)
	w.Header().Set("X-Apple-ID-Account-Country", "USA")
	http.SetCookie(w, &http.Cookie{Name: "X-APPLE-WEBAUTH-TOKEN", Value: fakeToken, Path: "/"})

	account := f.account()
	if account.Requires2FA() {
		f.respond(w, http.StatusConflict, map[string]string{"authType": "hsa2"})
		return
	}
	f.respond(w, http.StatusOK, map[string]string{"authType": "non-sa"})
}

func (f *fakeApple) accountLogin(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)

	var probe map[string]any
	require.NoError(f.t, json.Unmarshal(body, &probe))
	if _, ok := probe["appName"]; ok {
		var req pkgapi.ServiceLoginRequest
		require.NoError(f.t, json.Unmarshal(body, &req))
		f.mu.Lock()
		f.serviceLogin = &req
		f.mu.Unlock()
		f.respond(w, http.StatusOK, map[string]any{})
		return
	}

	var req pkgapi.AccountLoginRequest
	require.NoError(f.t, json.Unmarshal(body, &req))
	if req.DSWebAuthToken != fakeToken {
		f.respond(w, http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
		return
	}
	assert.True(f.t, req.ExtendedLogin)
	assert.Equal(f.t, "USA", req.AccountCountryCode)
	f.respond(w, http.StatusOK, f.account())
}

func (f *fakeApple) validate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	require.NoError(f.t, err)
	assert.Equal(f.t, "null", string(body))

	cookie, err := r.Cookie("X-APPLE-WEBAUTH-TOKEN")
	if err != nil || cookie.Value != fakeToken {
		f.respond(w, http.StatusUnauthorized, map[string]string{"reason": "Invalid session"})
		return
	}
	f.respond(w, http.StatusOK, f.account())
}

func (f *fakeApple) securityCode(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.SecurityCodeRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	if req.SecurityCode.Code != fakeCode {
		f.respond(w, http.StatusBadRequest, map[string]string{"errorCode": "-21669", "reason": "Incorrect verification code."})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeApple) trust(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	fails := f.trustFails
	f.mu.Unlock()
	if fails {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.trusted = true
	f.mu.Unlock()
	w.Header().Set("X-Apple-TwoSV-Trust-Token", fakeTrust)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeApple) listDevices(w http.ResponseWriter, r *http.Request) {
	f.respond(w, http.StatusOK, pkgapi.ListDevicesResponse{Devices: []pkgapi.TrustedDevice{
		{DeviceType: "SMS", PhoneNumber: "********34", DeviceID: "1"},
	}})
}

func (f *fakeApple) sendCode(w http.ResponseWriter, r *http.Request) {
	var device pkgapi.TrustedDevice
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&device))
	assert.Equal(f.t, "1", device.DeviceID)

	f.mu.Lock()
	fails := f.sendFails
	f.mu.Unlock()
	f.respond(w, http.StatusOK, pkgapi.SendCodeResponse{Success: !fails})
}

func (f *fakeApple) validateCode(w http.ResponseWriter, r *http.Request) {
	var req pkgapi.ValidateCodeRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	assert.Equal(f.t, "1", req.DeviceID)
	assert.True(f.t, req.TrustBrowser)

	if req.VerificationCode != fakeCode {
		f.respond(w, http.StatusBadRequest, map[string]string{"errorCode": "-21669", "reason": "Incorrect verification code."})
		return
	}
	f.respond(w, http.StatusOK, map[string]any{})
}

func (f *fakeApple) configure(fn func(f *fakeApple)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeApple) serviceLoginSeen() *pkgapi.ServiceLoginRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.serviceLogin
}

func (f *fakeApple) trustTokensSeen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.trustTokens)
}

func newTestAuthenticator(t *testing.T, dir string, f *fakeApple, challenger Challenger) (*Authenticator, *api.Client) {
	t.Helper()
	store, err := api.NewSessionStore(dir, testAppleID)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := api.NewClient(api.Config{Endpoints: f.endpoints()}, store, logger)
	require.NoError(t, err)
	return NewAuthenticator(client, challenger, logger), client
}
