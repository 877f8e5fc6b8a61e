package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Dylan-Mejia/QuizAppBCS377/internal/model"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/service"
	"github.com/Dylan-Mejia/QuizAppBCS377/internal/transport/rest/middleware"
)

// GameHandler handles quiz session endpoints
type GameHandler struct {
	gameSvc *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameSvc *service.GameService) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// StartRequest is the request body for starting a game
type StartRequest struct {
	NumQuestions int    `json:"numQuestions"`
	Source       string `json:"source"`
	Category     string `json:"category,omitempty"`
}

// Start handles POST /api/game/start
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NumQuestions == 0 {
		req.NumQuestions = service.DefaultNumQuestions
	}
	if req.Source == "" {
		req.Source = string(model.SourceLocal)
	}

	session, questions, err := h.gameSvc.Start(r.Context(), userID, req.NumQuestions, model.Source(req.Source))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gameSessionId": session.ID.Hex(),
		"questions":     questions,
	})
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	GameSessionID  string `json:"gameSessionId"`
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// Answer handles POST /api/game/answer
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameSessionID == "" || req.QuestionID == "" || req.SelectedAnswer == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	isCorrect, err := h.gameSvc.SubmitAnswer(r.Context(), req.GameSessionID, req.QuestionID, req.SelectedAnswer)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isCorrect": isCorrect})
}

// FinishRequest is the request body for finishing a game
type FinishRequest struct {
	GameSessionID string `json:"gameSessionId"`
}

// Finish handles POST /api/game/finish
func (h *GameHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req FinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.GameSessionID == "" {
		writeError(w, http.StatusBadRequest, "missing gameSessionId")
		return
	}

	score, numQuestions, err := h.gameSvc.Finish(r.Context(), req.GameSessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"score":        score,
		"numQuestions": numQuestions,
	})
}

// GetSession handles GET /api/game/session/{id}
func (h *GameHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	session, err := h.gameSvc.GetSession(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
