package tiktok

import (
	"time"

	"golang.org/x/oauth2"
)

// TokenResponse is the shape returned by the backend proxy's token and
// refresh endpoints.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope"`
	OpenID       string `json:"open_id,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// Token converts the response into an oauth2.Token with the expiry computed
// from now. A zero ExpiresIn leaves Expiry unset, which downstream code
// treats as already expired.
func (r *TokenResponse) Token(now time.Time) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}
	if r.ExpiresIn > 0 {
		tok.Expiry = now.Add(time.Duration(r.ExpiresIn) * time.Second)
	}
	return tok
}

// AdCreationRequest carries the ad draft submitted by the user. Field names
// match the backend proxy contract. Validation tags encode the rules the
// submission must satisfy before dispatch.
type AdCreationRequest struct {
	CampaignName string `json:"campaignName" validate:"required,max=512"`
	Objective    string `json:"objective" validate:"required,oneof=TRAFFIC CONVERSIONS"`
	AdText       string `json:"adText" validate:"required,max=100"`
	CallToAction string `json:"cta" validate:"required,max=100"`
	MusicOption  string `json:"musicOption" validate:"required,oneof=NONE EXISTING CUSTOM"`
	MusicID      string `json:"musicId,omitempty" validate:"required_if=MusicOption EXISTING"`
}

// AdCreationResponse is returned by POST /api/tiktok/ads/create.
type AdCreationResponse struct {
	Success      bool   `json:"success"`
	AdID         string `json:"ad_id"`
	Status       string `json:"status"`
	Message      string `json:"message"`
	CampaignName string `json:"campaign_name"`
	Objective    string `json:"objective"`
	CreatedAt    string `json:"created_at"`
}

// MusicValidation is returned by POST /api/tiktok/music/validate.
type MusicValidation struct {
	Valid   bool   `json:"valid"`
	Error   string `json:"error,omitempty"`
	MusicID string `json:"music_id,omitempty"`
	Title   string `json:"title,omitempty"`
}
