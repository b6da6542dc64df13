package authflow

import (
	"context"
	"crypto/subtle"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/sessionstore"
)

// CallbackParams carries the query parameters of the provider redirect.
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// Result reports a successful callback. PendingAction holds a payload
// stashed before the redirect, returned exactly once; empty means plain
// success with nothing to resume.
type Result struct {
	PendingAction string
}

// HandleCallback consumes the redirect response: it validates the CSRF
// state, exchanges the code through the backend, stores the tokens, and
// hands back any pending action.
//
// The stored state and verifier are consumed up front, success or failure, so
// an attempt gets exactly one callback, and retrying means re-initiating.
func (c *Controller) HandleCallback(ctx context.Context, p CallbackParams) (*Result, error) {
	storedState, _ := sessionstore.Take(c.store, sessionstore.KeyOAuthState)
	verifier, _ := sessionstore.Take(c.store, sessionstore.KeyCodeVerifier)

	if p.Error != "" {
		code := autherr.ParseProviderCode(p.Error)
		log.LogWarnWithFields("authflow", "Provider rejected authorization", map[string]any{
			"code": string(code),
		})
		return nil, autherr.Denied(code)
	}

	if p.Code == "" || p.State == "" {
		return nil, autherr.ErrMalformedCallback
	}

	if storedState == "" || subtle.ConstantTimeCompare([]byte(p.State), []byte(storedState)) != 1 {
		log.LogWarnWithFields("authflow", "Callback state mismatch", map[string]any{
			"storedState": storedState != "",
		})
		return nil, autherr.ErrCsrfMismatch
	}

	if verifier == "" {
		// Storage was cleared mid-flow; nothing left to exchange with.
		return nil, autherr.ErrSessionCorruption
	}

	tr, err := c.client.Exchange(ctx, p.Code, verifier)
	if err != nil {
		return nil, err
	}

	c.session.SetTokens(tr)
	log.LogInfoWithFields("authflow", "Authorization completed", map[string]any{
		"scope": tr.Scope,
	})

	if pending, ok := sessionstore.Take(c.store, sessionstore.KeyPendingAd); ok {
		return &Result{PendingAction: pending}, nil
	}
	return &Result{}, nil
}
