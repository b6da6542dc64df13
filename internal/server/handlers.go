package server

import (
	gojson "encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dgellow/ads-front/internal/autherr"
	"github.com/dgellow/ads-front/internal/authflow"
	"github.com/dgellow/ads-front/internal/json"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// Redirect-back delays after the callback, matching the result page the
// browser front showed: quick on success, a beat longer on failure.
const (
	successRedirectDelay = 2
	errorRedirectDelay   = 3
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)
	data := HomePageData{
		Authenticated: bs.manager.IsAuthenticated(),
		Expired:       bs.manager.IsExpired(),
	}
	if err := homePageTemplate.Execute(w, data); err != nil {
		log.LogError("Failed to render home page: %v", err)
	}
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)

	authURL, err := bs.flow.Initiate("")
	if err != nil {
		log.LogError("Failed to initiate authorization: %v", err)
		s.renderCallbackPage(w, CallbackPageData{
			Title:         "Connection Failed",
			Message:       autherr.UserMessage(err),
			RedirectDelay: errorRedirectDelay,
		})
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)
	q := r.URL.Query()

	result, err := bs.flow.HandleCallback(r.Context(), authflow.CallbackParams{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	})
	if err != nil {
		s.renderCallbackPage(w, CallbackPageData{
			Title:         "Authentication Failed",
			Message:       autherr.UserMessage(err),
			RedirectDelay: errorRedirectDelay,
		})
		return
	}

	message := "Your TikTok Ads account is connected."
	if result.PendingAction != "" {
		message = s.resumePendingAd(r, bs, result.PendingAction)
	}

	s.renderCallbackPage(w, CallbackPageData{
		Success:       true,
		Title:         "Connected Successfully!",
		Message:       message,
		RedirectDelay: successRedirectDelay,
	})
}

// resumePendingAd replays an ad draft stashed before the redirect. Its
// failure is reported on the result page as a standalone problem; it never
// restarts the OAuth flow.
func (s *Server) resumePendingAd(r *http.Request, bs *browserSession, payload string) string {
	var req tiktok.AdCreationRequest
	if err := gojson.Unmarshal([]byte(payload), &req); err != nil {
		log.LogError("Failed to decode pending ad draft: %v", err)
		return "Your account is connected, but the saved ad draft could not be restored. Please submit it again."
	}

	resp, err := bs.gateway.CreateAd(r.Context(), &req)
	if err != nil {
		log.LogWarnWithFields("server", "Resumed ad creation failed", map[string]any{
			"error": err.Error(),
		})
		return "Your account is connected, but submitting the saved ad failed: " + autherr.UserMessage(err)
	}
	return "Your account is connected and the saved ad was submitted. Status: " + resp.Status
}

func (s *Server) handleCreateAd(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)

	var req tiktok.AdCreationRequest
	if err := gojson.NewDecoder(r.Body).Decode(&req); err != nil {
		json.WriteBadRequest(w, "Request body must be a JSON ad draft.")
		return
	}

	// Not connected yet: stash the draft and send the user through the
	// authorization flow; the draft is resumed after the callback.
	if !bs.manager.IsAuthenticated() {
		payload, err := gojson.Marshal(req)
		if err != nil {
			json.WriteBadRequest(w, "Request body must be a JSON ad draft.")
			return
		}
		authURL, err := bs.flow.Initiate(string(payload))
		if err != nil {
			writeAuthError(w, err)
			return
		}
		_ = json.WriteResponse(w, http.StatusUnauthorized, map[string]string{
			"error":         "unauthorized",
			"message":       autherr.UserMessage(autherr.ErrUnauthenticated),
			"authorize_url": authURL,
		})
		return
	}

	resp, err := bs.gateway.CreateAd(r.Context(), &req)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	_ = json.Write(w, resp)
}

func (s *Server) handleValidateMusic(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)

	var body struct {
		MusicID string `json:"music_id"`
	}
	if err := gojson.NewDecoder(r.Body).Decode(&body); err != nil || body.MusicID == "" {
		json.WriteBadRequest(w, "Request body must include a music_id.")
		return
	}

	result, err := bs.gateway.ValidateMusic(r.Context(), body.MusicID)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	_ = json.Write(w, result)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)
	bs.manager.Logout()
	_ = json.Write(w, map[string]string{"status": "logged_out"})
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)

	if err := bs.manager.Revoke(r.Context()); err != nil {
		// Local state is preserved on backend failure; tell the caller so
		// they can retry instead of believing they are logged out.
		writeAuthError(w, err)
		return
	}
	_ = json.Write(w, map[string]string{"status": "revoked"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	bs := s.session(w, r)
	_ = json.Write(w, map[string]bool{
		"authenticated": bs.manager.IsAuthenticated(),
		"expired":       bs.manager.IsExpired(),
	})
}

func (s *Server) renderCallbackPage(w http.ResponseWriter, data CallbackPageData) {
	if !data.Success {
		w.WriteHeader(http.StatusUnauthorized)
	}
	if err := callbackPageTemplate.Execute(w, data); err != nil {
		log.LogError("Failed to render callback page: %v", err)
	}
}

// writeAuthError maps taxonomy errors onto HTTP statuses, always with the
// catalog message as the body.
func writeAuthError(w http.ResponseWriter, err error) {
	var validErrs validator.ValidationErrors
	if errors.As(err, &validErrs) {
		json.WriteBadRequest(w, "The ad draft has missing or invalid fields.")
		return
	}

	message := autherr.UserMessage(err)
	switch {
	case autherr.IsKind(err, autherr.KindUnauthenticated), autherr.IsKind(err, autherr.KindSessionExpired):
		json.WriteUnauthorized(w, message)
	case autherr.IsKind(err, autherr.KindConfiguration):
		json.WriteInternalServerError(w, message)
	case autherr.IsKind(err, autherr.KindAPIFailure),
		autherr.IsKind(err, autherr.KindTokenExchange),
		autherr.IsKind(err, autherr.KindRefresh),
		autherr.IsKind(err, autherr.KindRevoke):
		json.WriteServiceUnavailable(w, message)
	default:
		json.WriteInternalServerError(w, message)
	}
}
