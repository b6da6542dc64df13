package authsession

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/sessionstore"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// ErrNoRefreshToken is returned by Refresh when there is nothing to refresh.
// Existing token state is left untouched in that case.
var ErrNoRefreshToken = errors.New("no refresh token stored")

// Manager owns the token lifecycle for one browser session: storage, expiry
// tracking, refresh and revocation. It is the only component that mutates
// token state in the session store.
type Manager struct {
	store  sessionstore.Store
	client *tiktok.Client
	group  singleflight.Group
	now    func() time.Time

	mu    sync.Mutex
	token *oauth2.Token // in-memory copy; the store is the source of truth
}

// New creates a manager bound to its session store. No globals: every
// browser session gets its own instance.
func New(store sessionstore.Store, client *tiktok.Client) *Manager {
	return &Manager{
		store:  store,
		client: client,
		now:    time.Now,
	}
}

// SetTokens records the outcome of a successful exchange or refresh. The
// refresh token is only replaced when the backend rotated it.
func (m *Manager) SetTokens(tr *tiktok.TokenResponse) {
	tok := tr.Token(m.now())

	m.mu.Lock()
	m.token = tok
	m.mu.Unlock()

	m.store.Set(sessionstore.KeyAccessToken, tok.AccessToken)
	if tok.RefreshToken != "" {
		m.store.Set(sessionstore.KeyRefreshToken, tok.RefreshToken)
	}
	if !tok.Expiry.IsZero() {
		m.store.Set(sessionstore.KeyTokenExpiry, strconv.FormatInt(tok.Expiry.UnixMilli(), 10))
	}

	log.LogInfoWithFields("authsession", "Tokens stored", map[string]any{
		"hasRefreshToken": tok.RefreshToken != "",
		"expiresAt":       tok.Expiry,
	})
}

// AccessToken returns the current access token, or empty if none was set.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != nil && m.token.AccessToken != "" {
		return m.token.AccessToken
	}

	v, ok := m.store.Get(sessionstore.KeyAccessToken)
	if !ok {
		return ""
	}
	m.token = &oauth2.Token{AccessToken: v, Expiry: m.storedExpiry()}
	return v
}

// IsAuthenticated reports whether an access token is present. It does not
// check expiry.
func (m *Manager) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

// IsExpired reports whether the recorded expiry has passed. A missing or
// unreadable expiry counts as expired.
func (m *Manager) IsExpired() bool {
	expiry := m.storedExpiry()
	if expiry.IsZero() {
		return true
	}
	return m.now().After(expiry)
}

func (m *Manager) storedExpiry() time.Time {
	raw, ok := m.store.Get(sessionstore.KeyTokenExpiry)
	if !ok {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// EnsureValid makes sure a usable token is available, refreshing when the
// current one is missing or expired. Returns whether a valid token is now
// present.
func (m *Manager) EnsureValid(ctx context.Context) bool {
	if m.IsAuthenticated() && !m.IsExpired() {
		return true
	}
	if err := m.Refresh(ctx); err != nil {
		log.LogWarnWithFields("authsession", "Token refresh failed", map[string]any{
			"error": err.Error(),
		})
		return false
	}
	return m.IsAuthenticated() && !m.IsExpired()
}

// Refresh exchanges the stored refresh token for fresh tokens. Concurrent
// calls are collapsed into a single backend request. On failure the existing
// (possibly stale) tokens are left untouched; the caller decides whether to
// force re-authorization.
func (m *Manager) Refresh(ctx context.Context) error {
	_, err, _ := m.group.Do("refresh", func() (any, error) {
		refreshToken, ok := m.store.Get(sessionstore.KeyRefreshToken)
		if !ok || refreshToken == "" {
			return nil, ErrNoRefreshToken
		}

		tr, err := m.client.Refresh(ctx, refreshToken)
		if err != nil {
			return nil, err
		}

		m.SetTokens(tr)
		log.LogInfoWithFields("authsession", "Token refreshed", map[string]any{
			"rotatedRefreshToken": tr.RefreshToken != "",
		})
		return nil, nil
	})
	return err
}

// Revoke invalidates the access token provider-side. Local state is cleared
// only on confirmed success; a backend failure leaves the user
// apparently-authenticated so the caller can retry.
func (m *Manager) Revoke(ctx context.Context) error {
	token := m.AccessToken()
	if token == "" {
		return autherr.ErrUnauthenticated
	}

	if err := m.client.Revoke(ctx, token); err != nil {
		return err
	}

	m.Logout()
	log.LogInfoWithFields("authsession", "Access revoked", nil)
	return nil
}

// Logout clears all local token state and any in-flight CSRF/PKCE secrets.
// No network call is made.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()

	m.store.Delete(sessionstore.KeyAccessToken)
	m.store.Delete(sessionstore.KeyRefreshToken)
	m.store.Delete(sessionstore.KeyTokenExpiry)
	m.store.Delete(sessionstore.KeyOAuthState)
	m.store.Delete(sessionstore.KeyCodeVerifier)

	log.LogInfoWithFields("authsession", "Logged out", nil)
}
