package gateway

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/authsession"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// Gateway wraps the backend calls that require authorization. It checks for
// a token, refreshes it when expired, and attaches it as a bearer
// credential. Callers only ever see taxonomy errors; transport and HTTP
// details stop here.
type Gateway struct {
	session  *authsession.Manager
	client   *tiktok.Client
	validate *validator.Validate
}

func New(session *authsession.Manager, client *tiktok.Client) *Gateway {
	return &Gateway{
		session:  session,
		client:   client,
		validate: validator.New(),
	}
}

// authorize runs the shared pre-dispatch checks and returns the bearer
// token to use.
func (g *Gateway) authorize(ctx context.Context) (string, error) {
	if g.session.AccessToken() == "" {
		return "", autherr.ErrUnauthenticated
	}
	if !g.session.EnsureValid(ctx) {
		return "", autherr.ErrSessionExpired
	}
	// re-read: the refresh may have rotated the token
	return g.session.AccessToken(), nil
}

// CreateAd validates and submits an ad draft.
func (g *Gateway) CreateAd(ctx context.Context, req *tiktok.AdCreationRequest) (*tiktok.AdCreationResponse, error) {
	if err := g.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid ad request: %w", err)
	}

	token, err := g.authorize(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.CreateAd(ctx, token, req)
	if err != nil {
		return nil, err
	}

	log.LogInfoWithFields("gateway", "Ad created", map[string]any{
		"adId":   resp.AdID,
		"status": resp.Status,
	})
	return resp, nil
}

// ValidateMusic checks a music id. Backend failures become a soft
// {valid: false} result with catalog text rather than an error, so the caller
// is a form, not a control flow.
func (g *Gateway) ValidateMusic(ctx context.Context, musicID string) (*tiktok.MusicValidation, error) {
	token, err := g.authorize(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.ValidateMusic(ctx, token, musicID)
	if err != nil {
		return &tiktok.MusicValidation{
			Valid: false,
			Error: autherr.UserMessage(err),
		}, nil
	}
	return resp, nil
}
