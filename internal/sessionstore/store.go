package sessionstore

// Key is a logical slot in session-scoped storage. The names mirror what the
// browser front stores, one value per slot.
type Key string

const (
	KeyAccessToken  Key = "tiktok_access_token"
	KeyRefreshToken Key = "tiktok_refresh_token"
	KeyTokenExpiry  Key = "tiktok_token_expiry"
	KeyOAuthState   Key = "oauth_state"
	KeyCodeVerifier Key = "oauth_code_verifier"
	KeyPendingAd    Key = "pending_ad_data"
)

// Store is the session-lifetime key/value port. Values live exactly as long
// as the owning browser session; nothing here is durable. Implementations
// must be safe for concurrent use.
//
// Stored values are secrets (tokens, PKCE verifier, CSRF state) and must
// never be logged in plaintext.
type Store interface {
	Get(key Key) (string, bool)
	Set(key Key, value string)
	Delete(key Key)
}

// Take reads a value and deletes it in one step. Used for read-once secrets:
// the CSRF state, the PKCE verifier and the pending-action payload are all
// consumed by their first reader.
func Take(s Store, key Key) (string, bool) {
	v, ok := s.Get(key)
	if ok {
		s.Delete(key)
	}
	return v, ok
}
