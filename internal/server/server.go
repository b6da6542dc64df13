package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgellow/ads-front/internal/authflow"
	"github.com/dgellow/ads-front/internal/authsession"
	"github.com/dgellow/ads-front/internal/config"
	"github.com/dgellow/ads-front/internal/cookie"
	"github.com/dgellow/ads-front/internal/gateway"
	"github.com/dgellow/ads-front/internal/log"
	"github.com/dgellow/ads-front/internal/sessionstore"
	"github.com/dgellow/ads-front/internal/tiktok"
)

// Server is the HTTP shell around the auth flow and the gateway. Each
// browser session gets its own session store, auth manager, flow controller
// and gateway, keyed by a session cookie. No state is shared between users
// and nothing survives the session.
type Server struct {
	cfg   *config.Config
	httpc *http.Client
	mux   *http.ServeMux

	mu       sync.Mutex
	sessions map[string]*browserSession
}

type browserSession struct {
	manager *authsession.Manager
	flow    *authflow.Controller
	gateway *gateway.Gateway
}

func New(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		// The core carries no timeouts; the transport boundary does.
		httpc:    &http.Client{Timeout: 30 * time.Second},
		sessions: make(map[string]*browserSession),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /connect", s.handleConnect)
	mux.HandleFunc("GET /oauth/callback", s.handleCallback)
	mux.HandleFunc("POST /api/ads", s.handleCreateAd)
	mux.HandleFunc("POST /api/music/validate", s.handleValidateMusic)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /revoke", s.handleRevoke)
	mux.HandleFunc("GET /status", s.handleStatus)
	s.mux = mux

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// session returns the components bound to the caller's browser session,
// minting a new session cookie when none exists.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *browserSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, err := cookie.GetSession(r); err == nil {
		if bs, ok := s.sessions[id]; ok {
			return bs
		}
	}

	id := uuid.NewString()
	client := tiktok.NewClient(s.cfg.APIBaseURL, s.httpc)
	store := sessionstore.NewMemory()
	manager := authsession.New(store, client)

	bs := &browserSession{
		manager: manager,
		flow:    authflow.NewController(s.cfg, store, manager, client),
		gateway: gateway.New(manager, client),
	}
	s.sessions[id] = bs
	cookie.SetSession(w, id)

	log.LogDebugWithFields("server", "New browser session", map[string]any{
		"sessions": len(s.sessions),
	})
	return bs
}
