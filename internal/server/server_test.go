package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgellow/ads-front/internal/config"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// testEnv runs the shell against a fake backend proxy and keeps the session
// cookie across requests, like a browser would.
type testEnv struct {
	t       *testing.T
	app     *httptest.Server
	backend *httptest.Server
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T, backend http.HandlerFunc) *testEnv {
	t.Helper()

	backendServer := httptest.NewServer(backend)
	t.Cleanup(backendServer.Close)

	cfg := &config.Config{
		ClientKey:    "aw-client-key",
		RedirectURI:  "http://localhost:5173/oauth/callback",
		APIBaseURL:   backendServer.URL,
		AuthorizeURL: "https://www.tiktok.com/v2/auth/authorize/",
	}
	appServer := httptest.NewServer(New(cfg))
	t.Cleanup(appServer.Close)

	return &testEnv{t: t, app: appServer, backend: backendServer}
}

func (e *testEnv) do(method, path string, body string) *http.Response {
	e.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.app.URL+path, reader)
	require.NoError(e.t, err)
	for _, c := range e.cookies {
		req.AddCookie(c)
	}

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	require.NoError(e.t, err)

	if cs := resp.Cookies(); len(cs) > 0 {
		e.cookies = cs
	}
	return resp
}

func fakeBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tiktok/token":
			require.NoError(t, json.NewEncoder(w).Encode(tiktok.TokenResponse{
				AccessToken:  "act.abc",
				RefreshToken: "rft.def",
				ExpiresIn:    86400,
			}))
		case "/api/tiktok/ads/create":
			require.NoError(t, json.NewEncoder(w).Encode(tiktok.AdCreationResponse{
				Success: true,
				AdID:    "ad-1",
				Status:  "PENDING_REVIEW",
			}))
		case "/api/tiktok/revoke":
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected backend path %s", r.URL.Path)
		}
	}
}

func TestConnectRedirectsToProvider(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	resp := env.do(http.MethodGet, "/connect", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusFound, resp.StatusCode)
	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "www.tiktok.com", location.Host)
	assert.Equal(t, "aw-client-key", location.Query().Get("client_key"))
	assert.NotEmpty(t, location.Query().Get("state"))
	assert.Equal(t, "S256", location.Query().Get("code_challenge_method"))
}

func TestCallbackHappyPath(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()
	location, _ := url.Parse(resp.Header.Get("Location"))
	state := location.Query().Get("state")

	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state="+state, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "Connected Successfully!")

	// the status endpoint agrees
	resp = env.do(http.MethodGet, "/status", "")
	defer resp.Body.Close()
	var status map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status["authenticated"])
	assert.False(t, status["expired"])
}

func TestCallbackProviderErrorShowsCatalogText(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()

	resp = env.do(http.MethodGet, "/oauth/callback?error=access_denied", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "You denied access to the application.")
	assert.NotContains(t, string(page), "access_denied", "raw provider codes stay internal")
}

func TestCallbackStateMismatch(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()

	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state=wrong", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "Sign-in could not be verified")
}

func TestCreateAdUnauthenticatedStashesDraft(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	draft := `{"campaignName":"Sale","objective":"TRAFFIC","adText":"Go go go","cta":"Shop Now","musicOption":"NONE"}`
	resp := env.do(http.MethodPost, "/api/ads", draft)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["authorize_url"])

	// completing the flow resumes the stashed draft
	location, err := url.Parse(body["authorize_url"])
	require.NoError(t, err)
	state := location.Query().Get("state")

	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state="+state, "")
	defer resp.Body.Close()
	page, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(page), "the saved ad was submitted")
	assert.Contains(t, string(page), "PENDING_REVIEW")
}

func TestCreateAdAuthenticated(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	// connect first
	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()
	location, _ := url.Parse(resp.Header.Get("Location"))
	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state="+location.Query().Get("state"), "")
	resp.Body.Close()

	draft := `{"campaignName":"Sale","objective":"TRAFFIC","adText":"Go go go","cta":"Shop Now","musicOption":"NONE"}`
	resp = env.do(http.MethodPost, "/api/ads", draft)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ad tiktok.AdCreationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ad))
	assert.True(t, ad.Success)
	assert.Equal(t, "ad-1", ad.AdID)
}

func TestLogoutThenStatus(t *testing.T) {
	env := newTestEnv(t, fakeBackend(t))

	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()
	location, _ := url.Parse(resp.Header.Get("Location"))
	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state="+location.Query().Get("state"), "")
	resp.Body.Close()

	resp = env.do(http.MethodPost, "/logout", "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(http.MethodGet, "/status", "")
	defer resp.Body.Close()
	var status map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.False(t, status["authenticated"])
}

func TestRevokeBackendFailureKeepsSession(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tiktok/token":
			_ = json.NewEncoder(w).Encode(tiktok.TokenResponse{AccessToken: "act", ExpiresIn: 3600})
		case "/api/tiktok/revoke":
			w.WriteHeader(http.StatusBadGateway)
		}
	})

	resp := env.do(http.MethodGet, "/connect", "")
	resp.Body.Close()
	location, _ := url.Parse(resp.Header.Get("Location"))
	resp = env.do(http.MethodGet, "/oauth/callback?code=auth-code&state="+location.Query().Get("state"), "")
	resp.Body.Close()

	resp = env.do(http.MethodPost, "/revoke", "")
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// still apparently-authenticated
	resp = env.do(http.MethodGet, "/status", "")
	defer resp.Body.Close()
	var status map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.True(t, status["authenticated"])
}
