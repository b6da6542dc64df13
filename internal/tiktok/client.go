package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/log"
)

const maxErrorBodySize = 4 * 1024

// Client talks to the backend proxy that holds the TikTok client secret.
// All error responses are normalized into the autherr taxonomy; callers
// never see raw HTTP details.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a proxy client. httpc carries whatever timeout policy
// the caller wants; nil falls back to http.DefaultClient.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
	}
}

// Exchange trades an authorization code plus PKCE verifier for tokens.
func (c *Client) Exchange(ctx context.Context, code, codeVerifier string) (*TokenResponse, error) {
	body := map[string]string{"code": code, "code_verifier": codeVerifier}
	var resp TokenResponse
	if err := c.post(ctx, "/api/tiktok/token", "", body, &resp, autherr.KindTokenExchange); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh trades a refresh token for a fresh token response.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}
	var resp TokenResponse
	if err := c.post(ctx, "/api/tiktok/refresh", "", body, &resp, autherr.KindRefresh); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Revoke invalidates an access token provider-side.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	body := map[string]string{"access_token": accessToken}
	return c.post(ctx, "/api/tiktok/revoke", "", body, nil, autherr.KindRevoke)
}

// ValidateMusic checks a music id against the backend.
func (c *Client) ValidateMusic(ctx context.Context, accessToken, musicID string) (*MusicValidation, error) {
	body := map[string]string{"music_id": musicID}
	var resp MusicValidation
	if err := c.post(ctx, "/api/tiktok/music/validate", accessToken, body, &resp, autherr.KindAPIFailure); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateAd submits an ad draft.
func (c *Client) CreateAd(ctx context.Context, accessToken string, req *AdCreationRequest) (*AdCreationResponse, error) {
	var resp AdCreationResponse
	if err := c.post(ctx, "/api/tiktok/ads/create", accessToken, req, &resp, autherr.KindAPIFailure); err != nil {
		return nil, err
	}
	return &resp, nil
}

// errorBody is the backend proxy's own error shape. Its error field is
// already user-safe text produced by the proxy, never raw TikTok output.
type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path, bearer string, body, out any, kind autherr.Kind) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return autherr.New(kind, autherr.MessageForStatus(0), fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return autherr.New(kind, autherr.MessageForStatus(0), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return autherr.New(kind, autherr.MessageForStatus(0), fmt.Errorf("call %s: %w", path, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.normalizeError(resp, path, kind)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return autherr.New(kind, autherr.MessageForStatus(0), fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}

// normalizeError turns a non-2xx proxy response into a taxonomy error. The
// proxy's own error text wins when present, otherwise the fixed status
// catalog applies.
func (c *Client) normalizeError(resp *http.Response, path string, kind autherr.Kind) error {
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if readErr != nil {
		raw = nil
	}

	message := autherr.MessageForStatus(resp.StatusCode)
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		message = eb.Error
	}

	log.LogWarnWithFields("tiktok", "Backend request failed", map[string]any{
		"path":   path,
		"status": resp.StatusCode,
	})

	return autherr.New(kind, message, fmt.Errorf("%s returned status %d", path, resp.StatusCode))
}
