package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/cbodonnell/snake/pkg/game"
	"github.com/cbodonnell/snake/pkg/game/rules"
	gametypes "github.com/cbodonnell/snake/pkg/game/types"
	"github.com/cbodonnell/snake/pkg/log"
	"github.com/cbodonnell/snake/pkg/queue"
	"github.com/cbodonnell/snake/pkg/repositories"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	DefaultScoresLimit = 10
	MaxScoresLimit     = 100
)

// SessionController is the part of the game manager the API drives
type SessionController interface {
	NewSession(ctx context.Context, opts game.CreateSessionOptions) (uuid.UUID, error)
	Sessions() []uuid.UUID
	GetState(ctx context.Context, sessionID uuid.UUID) (gametypes.GameState, error)
	Enqueue(sessionID uuid.UUID, command interface{}) error
	StopSession(ctx context.Context, sessionID uuid.UUID) error
}

// SessionStreamer serves the websocket stream of a session
type SessionStreamer interface {
	ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request, sessionID uuid.UUID)
}

type CreateSessionRequest struct {
	GridSize int    `json:"gridSize"`
	Seed     *int64 `json:"seed"`
}

type CreateSessionResponse struct {
	ID uuid.UUID `json:"id"`
}

type SessionResponse struct {
	ID uuid.UUID `json:"id"`
	gametypes.GameState
	Board string `json:"board"`
}

type SetDirectionRequest struct {
	Direction string `json:"direction"`
}

type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

func HandleCreateSession(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := &CreateSessionRequest{}
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(req); err != nil {
				http.Error(w, "Invalid request body", http.StatusBadRequest)
				return
			}
		}

		id, err := sessions.NewSession(r.Context(), game.CreateSessionOptions{
			GridSize: req.GridSize,
			Seed:     req.Seed,
		})
		if err != nil {
			if errors.Is(err, game.ErrGridTooSmall) || errors.Is(err, game.ErrGridTooLarge) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("failed to create session: %v", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, &CreateSessionResponse{ID: id})
	}
}

func HandleListSessions(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessions.Sessions())
	}
}

func HandleGetSession(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		gameState, err := sessions.GetState(r.Context(), id)
		if err != nil {
			writeSessionError(w, err, "get session")
			return
		}

		writeJSON(w, http.StatusOK, &SessionResponse{
			ID:        id,
			GameState: gameState,
			Board:     rules.Render(gameState),
		})
	}
}

func HandleSetDirection(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		req := &SetDirectionRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		direction, err := gametypes.ParseDirection(req.Direction)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		enqueue(w, sessions, id, gametypes.DirectionCommand{Direction: direction})
	}
}

func HandleSetPaused(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		req := &SetPausedRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		enqueue(w, sessions, id, gametypes.PauseCommand{Paused: req.Paused})
	}
}

func HandleRestart(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		enqueue(w, sessions, id, gametypes.RestartCommand{})
	}
}

func HandleDeleteSession(sessions SessionController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		if err := sessions.StopSession(r.Context(), id); err != nil {
			writeSessionError(w, err, "stop session")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func HandleSessionStream(sessions SessionController, streamer SessionStreamer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		if _, err := sessions.GetState(r.Context(), id); err != nil {
			writeSessionError(w, err, "get session")
			return
		}

		streamer.ServeWS(r.Context(), w, r, id)
	}
}

func HandleListScores(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := DefaultScoresLimit
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > MaxScoresLimit {
				http.Error(w, "limit must be between 1 and 100", http.StatusBadRequest)
				return
			}
			limit = n
		}

		results, err := repository.ListTopScores(r.Context(), limit)
		if err != nil {
			log.Error("failed to list top scores: %v", err)
			http.Error(w, "Failed to list top scores", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, results)
	}
}

func HandleGetScore(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := repository.GetGameResult(r.Context(), mux.Vars(r)["sessionID"])
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Score not found", http.StatusNotFound)
				return
			}
			log.Error("failed to get game result: %v", err)
			http.Error(w, "Failed to get score", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["sessionID"])
	if err != nil {
		http.Error(w, "Invalid session id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func enqueue(w http.ResponseWriter, sessions SessionController, id uuid.UUID, command interface{}) {
	if err := sessions.Enqueue(id, command); err != nil {
		writeSessionError(w, err, "enqueue command")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeSessionError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, game.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, queue.ErrQueueFull) {
		http.Error(w, "Too many commands", http.StatusTooManyRequests)
		return
	}
	log.Error("failed to %s: %v", action, err)
	http.Error(w, "Failed to "+action, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
	}
}
