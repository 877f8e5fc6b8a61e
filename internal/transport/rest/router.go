package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/service"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/rest/handler"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/rest/middleware"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService *service.AuthService
	GameService *service.GameService
	WSHub       *ws.Hub
	StaticDir   string
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	gameHandler := handler.NewGameHandler(c.GameService)
	profileHandler := handler.NewProfileHandler(c.GameService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST", "OPTIONS")
	api.HandleFunc("/leaderboard", profileHandler.Leaderboard).Methods("GET", "OPTIONS")

	if c.WSHub != nil {
		wsHandler := ws.NewHandler(c.WSHub, c.GameService)
		api.HandleFunc("/leaderboard/live", wsHandler.LeaderboardWS).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := api.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/game/start", gameHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/game/answer", gameHandler.Answer).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/game/finish", gameHandler.Finish).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/game/session/{id}", gameHandler.GetSession).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/user/history", profileHandler.History).Methods("GET", "OPTIONS")

	// Static frontend
	if c.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(c.StaticDir)))
	}

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
