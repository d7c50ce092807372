package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/amaumene/reeldle/internal/controllers"
	"github.com/amaumene/reeldle/internal/models"
	"github.com/sirupsen/logrus"
)

// Game is the session surface exposed over HTTP
type Game interface {
	Current(ctx context.Context, mode models.Mode) (*models.Session, error)
	SubmitGuess(ctx context.Context, mode models.Mode, guessID int) (*models.GuessResult, error)
	GiveUp(ctx context.Context, mode models.Mode) (*models.Session, error)
	UseHint(ctx context.Context, mode models.Mode) (string, error)
	NewPracticeRound(ctx context.Context) (*models.Session, error)
	Stats() (*controllers.Stats, error)
}

// SessionView is the client view of a session. The target is only
// included once the session is finished.
type SessionView struct {
	ID          string               `json:"id"`
	Mode        models.Mode          `json:"mode"`
	Date        string               `json:"date"`
	Status      models.Status        `json:"status"`
	Guesses     []models.GuessResult `json:"guesses"`
	HintUsed    bool                 `json:"hint_used"`
	Hint        string               `json:"hint,omitempty"`
	Target      *models.ItemRecord   `json:"target,omitempty"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

// NewSessionView builds the client view of s
func NewSessionView(s *models.Session) SessionView {
	view := SessionView{
		ID:          s.ID,
		Mode:        s.Mode,
		Date:        s.DateKey,
		Status:      s.Status(),
		Guesses:     s.Guesses,
		HintUsed:    s.HintUsed,
		CompletedAt: s.CompletedAt,
	}
	if view.Guesses == nil {
		view.Guesses = []models.GuessResult{}
	}
	if s.HintUsed {
		view.Hint = controllers.HintText(s.Target)
	}
	if s.IsTerminal() {
		view.Target = s.Target
	}
	return view
}

type guessRequest struct {
	ID int `json:"id"`
}

type guessResponse struct {
	Result  *models.GuessResult `json:"result"`
	Session SessionView         `json:"session"`
}

type hintResponse struct {
	Hint string `json:"hint"`
}

// GameHandler serves the daily and practice sessions
type GameHandler struct {
	game   Game
	logger *logrus.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(game Game, logger *logrus.Logger) *GameHandler {
	return &GameHandler{game: game, logger: logger}
}

// Session handles GET /api/{mode}
func (h *GameHandler) Session(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "Unknown mode", http.StatusNotFound)
		return
	}

	session, err := h.game.Current(r.Context(), mode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(session))
}

// Guess handles POST /api/{mode}/guess
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "Unknown mode", http.StatusNotFound)
		return
	}

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid payload"})
		return
	}

	result, err := h.game.SubmitGuess(r.Context(), mode, req.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	session, err := h.game.Current(r.Context(), mode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"mode":     mode,
		"guess_id": req.ID,
		"correct":  result.Correct,
	}).Debug("Guess submitted")

	writeJSON(w, http.StatusOK, guessResponse{Result: result, Session: NewSessionView(session)})
}

// GiveUp handles POST /api/{mode}/giveup
func (h *GameHandler) GiveUp(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "Unknown mode", http.StatusNotFound)
		return
	}

	session, err := h.game.GiveUp(r.Context(), mode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(session))
}

// Hint handles POST /api/{mode}/hint
func (h *GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "Unknown mode", http.StatusNotFound)
		return
	}

	hint, err := h.game.UseHint(r.Context(), mode)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hintResponse{Hint: hint})
}

// NewPractice handles POST /api/practice/new
func (h *GameHandler) NewPractice(w http.ResponseWriter, r *http.Request) {
	session, err := h.game.NewPracticeRound(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSessionView(session))
}

// Stats handles GET /api/stats
func (h *GameHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.game.Stats()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
