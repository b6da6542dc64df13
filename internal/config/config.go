package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/dgellow/ads-front/internal/log"
)

// Defaults mirror a local dev setup: the backend proxy runs beside the front.
const (
	defaultAPIBaseURL   = "http://localhost:3001"
	defaultAuthorizeURL = "https://www.tiktok.com/v2/auth/authorize/"
	defaultListenAddr   = ":5173"
)

// Config carries the environment-supplied settings. ClientKey and
// RedirectURI may legitimately be empty here; the flow controller fails
// with a configuration error when a flow is actually initiated without them.
type Config struct {
	// ClientKey is the public TikTok app identifier (TikTok calls it a
	// "client key"; the secret stays on the backend proxy).
	ClientKey    string
	RedirectURI  string
	APIBaseURL   string
	AuthorizeURL string
	ListenAddr   string
}

// Load reads configuration from the environment, honoring a local .env file
// if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.LogDebug("Loaded environment from .env file")
	}

	return &Config{
		ClientKey:    strings.TrimSpace(firstEnv("TIKTOK_CLIENT_KEY", "TIKTOK_CLIENT_ID")),
		RedirectURI:  strings.TrimSpace(firstEnv("TIKTOK_REDIRECT_URI", "REDIRECT_URI")),
		APIBaseURL:   envOr("API_BASE_URL", defaultAPIBaseURL),
		AuthorizeURL: envOr("TIKTOK_AUTHORIZE_URL", defaultAuthorizeURL),
		ListenAddr:   envOr("LISTEN_ADDR", defaultListenAddr),
	}
}

// firstEnv returns the first non-empty value among the named variables.
// TikTok documentation uses both CLIENT_KEY and CLIENT_ID naming.
func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}
