package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ewintr.nl/videotime/storage"
	"golang.org/x/exp/slog"
)

type StatsAPI struct {
	repo   storage.Repository
	logger *slog.Logger
}

func NewStatsAPI(repo storage.Repository, logger *slog.Logger) *StatsAPI {
	return &StatsAPI{
		repo:   repo,
		logger: logger,
	}
}

func (s *StatsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && sub == "":
		s.Display(w, r)
	case r.Method == http.MethodGet && sub == "caption":
		s.Caption(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the stats api", r.Method, sub))
	}
}

// Display returns the statistics and facts of the last run as display
// strings.
func (s *StatsAPI) Display(w http.ResponseWriter, r *http.Request) {
	snap, err := s.repo.Latest(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		Error(w, http.StatusNotFound, "no statistics yet", err)
		return
	}
	if err != nil {
		s.returnErr(r.Context(), w, http.StatusInternalServerError, "could not get statistics", err)
		return
	}

	resp := struct {
		Display     map[string]string `json:"display"`
		LastUpdated string            `json:"last_updated"`
		RunID       string            `json:"run_id"`
	}{
		Display:     snap.Display(),
		LastUpdated: snap.LastUpdated.Format(time.RFC3339),
		RunID:       snap.RunID.String(),
	}
	if err := JSON(w, http.StatusOK, resp); err != nil {
		s.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
	}
}

func (s *StatsAPI) Caption(w http.ResponseWriter, r *http.Request) {
	snap, err := s.repo.Latest(r.Context())
	if errors.Is(err, storage.ErrNotFound) {
		Error(w, http.StatusNotFound, "no statistics yet", err)
		return
	}
	if err != nil {
		s.returnErr(r.Context(), w, http.StatusInternalServerError, "could not get caption", err)
		return
	}
	if snap.Caption == "" {
		Error(w, http.StatusNotFound, "no caption", errors.New("last run has no caption"))
		return
	}

	Message(w, http.StatusOK, snap.Caption)
}

func (s *StatsAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	s.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
