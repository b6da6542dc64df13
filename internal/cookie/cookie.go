package cookie

import (
	"net/http"

	"github.com/dgellow/ads-front/internal/envutil"
)

// SessionCookie identifies the browser session holding this user's token
// state. Session-scoped: no Max-Age, so it dies with the browser session.
const SessionCookie = "ads_front_session"

// SetSession sets the session-id cookie with appropriate security settings.
func SetSession(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   !envutil.IsDev(),
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSession retrieves the session id from the request.
func GetSession(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// ClearSession removes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   SessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}
