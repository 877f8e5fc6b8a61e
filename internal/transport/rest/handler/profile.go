package handler

import (
	"net/http"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/service"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/rest/middleware"
)

// ProfileHandler handles history and leaderboard endpoints
type ProfileHandler struct {
	gameSvc *service.GameService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(gameSvc *service.GameService) *ProfileHandler {
	return &ProfileHandler{gameSvc: gameSvc}
}

// History handles GET /api/user/history
func (h *ProfileHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessions, err := h.gameSvc.History(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

// Leaderboard handles GET /api/leaderboard
func (h *ProfileHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.gameSvc.Leaderboard(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
