package authflow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/config"
	"github.com/dgellow/ads-front/internal/crypto"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/sessionstore"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// Scopes requested on every authorization. ads.manage is required for ad
// creation; TikTok expects them comma-joined, not space-joined.
var scopes = []string{"user.info.basic", "ads.manage"}

// Controller drives the redirect-based authorization handshake for one
// browser session: it builds the authorize URL on the way out and validates
// the callback on the way back.
type Controller struct {
	cfg     *config.Config
	store   sessionstore.Store
	session TokenSink
	client  *tiktok.Client
}

// TokenSink receives tokens from a successful exchange. Implemented by the
// auth session manager; the controller never touches token slots directly.
type TokenSink interface {
	SetTokens(tr *tiktok.TokenResponse)
}

func NewController(cfg *config.Config, store sessionstore.Store, session TokenSink, client *tiktok.Client) *Controller {
	return &Controller{
		cfg:     cfg,
		store:   store,
		session: session,
		client:  client,
	}
}

// Initiate starts a new authorization attempt and returns the provider URL
// to redirect the user to. The CSRF state and PKCE verifier are written to
// the session store before this returns, since the process may be torn down
// once the redirect happens. A pendingAction payload, if supplied, is stashed
// for resumption after the callback.
//
// Starting a new attempt overwrites any prior state and verifier, which
// invalidates a still-pending earlier attempt.
func (c *Controller) Initiate(pendingAction string) (string, error) {
	if c.cfg.ClientKey == "" {
		return "", autherr.NewConfigError("client key not configured")
	}
	if c.cfg.RedirectURI == "" {
		return "", autherr.NewConfigError("redirect URI not configured")
	}

	state, err := crypto.GenerateState()
	if err != nil {
		// Security precondition, not a recoverable flow error.
		return "", fmt.Errorf("generate CSRF state: %w", err)
	}
	verifier := crypto.GenerateVerifier()

	c.store.Set(sessionstore.KeyOAuthState, state)
	c.store.Set(sessionstore.KeyCodeVerifier, verifier)
	if pendingAction != "" {
		c.store.Set(sessionstore.KeyPendingAd, pendingAction)
	}

	params := url.Values{}
	params.Set("client_key", c.cfg.ClientKey)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(scopes, ","))
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("state", state)
	params.Set("code_challenge", crypto.DeriveChallenge(verifier))
	params.Set("code_challenge_method", "S256")

	log.LogInfoWithFields("authflow", "Authorization attempt started", map[string]any{
		"hasPendingAction": pendingAction != "",
	})

	return c.cfg.AuthorizeURL + "?" + params.Encode(), nil
}
