package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Routes struct {
	Auth      *AuthHandlers
	Users     *UserHandlers
	Messages  *MessageHandlers
	WebSocket *WebSocketHandlers
	Health    *HealthHandlers

	Verifier       TokenVerifier
	AllowedOrigins []string
}

func NewRouter(routes Routes) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", routes.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/signup", routes.Auth.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", routes.Auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/ws", routes.WebSocket.HandleWebSocket).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(mux.MiddlewareFunc(RequireAuth(routes.Verifier)))
	api.HandleFunc("/profile", routes.Users.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", routes.Users.UpdateProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile/password", routes.Users.ChangePassword).Methods(http.MethodPut)
	api.HandleFunc("/users", routes.Users.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/conversations", routes.Messages.Conversations).Methods(http.MethodGet)
	api.HandleFunc("/messages", routes.Messages.Send).Methods(http.MethodPost)
	api.HandleFunc("/messages/{receiverId:[0-9]+}", routes.Messages.History).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never reach RequireAuth.
	return CORS(routes.AllowedOrigins)(r)
}
