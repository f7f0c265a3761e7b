// Package server wires the domain handlers into the HTTP API.
package server

import (
	"net/http"
	"time"

	conversationhandler "messenger/backend/internal/conversation/handler"
	conversationservice "messenger/backend/internal/conversation/service"
	healthhandler "messenger/backend/internal/health/handler"
	"messenger/backend/internal/httputil"
	"messenger/backend/internal/hub"
	sessionhandler "messenger/backend/internal/session/handler"
	sessionservice "messenger/backend/internal/session/service"
)

// Deps holds the services behind the HTTP routes.
type Deps struct {
	Sessions      *sessionservice.SessionService
	Conversations *conversationservice.ConversationService
	Hub           *hub.Hub
	// Pinger backs the readiness probe. Nil with in-memory stores.
	Pinger healthhandler.Pinger
}

// NewRouter builds the full route table behind the shared middleware chain.
//
// Route → handler mapping:
//   - POST /api/auth/check-phone → internal/session/handler
//   - POST /api/auth/verify-code → internal/session/handler
//   - POST /api/auth/logout      → internal/session/handler
//   - GET  /api/chats            → internal/conversation/handler
//   - GET|POST /api/messages     → internal/conversation/handler
//   - GET  /ws                   → internal/hub
//   - GET  /healthz              → internal/health/handler
func NewRouter(deps Deps) http.Handler {
	auth := sessionhandler.NewHandler(deps.Sessions, deps.Hub)
	chats := conversationhandler.NewHandler(deps.Sessions, deps.Conversations, deps.Hub)
	health := healthhandler.NewHandler(deps.Pinger)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/check-phone", auth.CheckPhone)
	mux.HandleFunc("/api/auth/verify-code", auth.VerifyCode)
	mux.HandleFunc("/api/auth/logout", auth.Logout)
	mux.HandleFunc("/api/chats", chats.Chats)
	mux.HandleFunc("/api/messages", chats.Messages)
	mux.HandleFunc("/ws", deps.Hub.HandleWS)
	mux.HandleFunc("/healthz", health.Healthz)

	chain := httputil.Chain(httputil.Recover, httputil.CORS, httputil.Logging)
	return chain(mux)
}

// NewHTTPServer returns an http.Server with sane timeouts. Write and idle
// timeouts stay unset so long-lived WebSocket connections are not cut.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
