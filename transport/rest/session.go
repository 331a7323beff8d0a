package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-solo/internal/apperror"
)

type SessionHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Snapshot(w http.ResponseWriter, r *http.Request)
	SubmitMove(w http.ResponseWriter, r *http.Request)
}

type sessionHandler struct {
	logger  *slog.Logger
	session uSession
}

func NewSessionHandler(logger *slog.Logger, session uSession) SessionHandler {
	return &sessionHandler{
		logger:  logger.With("component", "rest_session"),
		session: session,
	}
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *sessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Start")

	snapshot, err := that.session.Start(r.Context())
	if err != nil {
		log.Error("failed to start session", "error", err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}

	writeJSON(w, http.StatusCreated, snapshot)
}

func (that *sessionHandler) Snapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, that.session.Snapshot())
}

func (that *sessionHandler) SubmitMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "SubmitMove")

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Row == nil || req.Col == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "row and col are required"})
		return
	}

	snapshot, err := that.session.SubmitHumanMove(r.Context(), *req.Row, *req.Col)
	if err != nil {
		log.Info("move rejected", "row", *req.Row, "col", *req.Col, "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidCoordinate):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrSessionNotStarted):
		return http.StatusPreconditionFailed
	case errors.Is(err, apperror.ErrCellOccupied),
		errors.Is(err, apperror.ErrNotYourTurn),
		errors.Is(err, apperror.ErrGameFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
