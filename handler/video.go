package handler

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"ewintr.nl/videotime/duration"
	"ewintr.nl/videotime/stats"
	"ewintr.nl/videotime/storage"
	"golang.org/x/exp/slog"
)

const (
	defaultRecent  = 10
	maxRecent      = 50
	histogramBins  = 30
	exportFilename = "videos.csv"
)

type VideoAPI struct {
	repo   storage.Repository
	logger *slog.Logger
}

func NewVideoAPI(repo storage.Repository, logger *slog.Logger) *VideoAPI {
	return &VideoAPI{
		repo:   repo,
		logger: logger,
	}
}

func (v *VideoAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sub, _ := ShiftPath(r.URL.Path)

	switch {
	case r.Method == http.MethodGet && sub == "":
		v.List(w, r)
	case r.Method == http.MethodGet && sub == "series":
		v.Series(w, r)
	case r.Method == http.MethodGet && sub == "histogram":
		v.Histogram(w, r)
	case r.Method == http.MethodGet && sub == "export":
		v.Export(w, r)
	default:
		Error(w, http.StatusNotFound, "not found", fmt.Errorf("method %s with subpath %q was not registered in the video api", r.Method, sub))
	}
}

// List returns the most recently published videos, ?limit=n for more.
func (v *VideoAPI) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecent
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxRecent {
			Error(w, http.StatusBadRequest, "invalid limit", fmt.Errorf("limit must be between 1 and %d, got %q", maxRecent, l))
			return
		}
		limit = n
	}

	videos, err := v.repo.Recent(r.Context(), limit)
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	type respVideo struct {
		YoutubeID       string `json:"youtube_id"`
		Title           string `json:"title"`
		Duration        string `json:"duration"`
		DurationSeconds int64  `json:"duration_seconds"`
		PublishedAt     string `json:"published_at"`
	}
	resp := []respVideo{}
	for _, vid := range videos {
		resp = append(resp, respVideo{
			YoutubeID:       string(vid.YoutubeID),
			Title:           vid.Title,
			Duration:        duration.Format(vid.DurationSeconds),
			DurationSeconds: vid.DurationSeconds,
			PublishedAt:     vid.PublishedAt,
		})
	}

	if err := JSON(w, http.StatusOK, resp); err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
	}
}

// Series returns the running mean duration, oldest video first.
func (v *VideoAPI) Series(w http.ResponseWriter, r *http.Request) {
	details, err := v.repo.Details(r.Context())
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	if err := JSON(w, http.StatusOK, stats.CumulativeMeans(details)); err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
	}
}

func (v *VideoAPI) Histogram(w http.ResponseWriter, r *http.Request) {
	details, err := v.repo.Details(r.Context())
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	if err := JSON(w, http.StatusOK, stats.Histogram(details, histogramBins)); err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not marshal response", err)
	}
}

// Export returns all stored videos as a CSV download.
func (v *VideoAPI) Export(w http.ResponseWriter, r *http.Request) {
	details, err := v.repo.Details(r.Context())
	if err != nil {
		v.returnErr(r.Context(), w, http.StatusInternalServerError, "could not list videos", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportFilename)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "title", "duration_seconds", "published_at"})
	for _, d := range details {
		cw.Write([]string{string(d.YoutubeID), d.Title, strconv.FormatInt(d.DurationSeconds, 10), d.PublishedAt})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		v.logger.Error("could not write export", slog.String("err", err.Error()))
	}
}

func (v *VideoAPI) returnErr(_ context.Context, w http.ResponseWriter, status int, message string, err error, details ...any) {
	v.logger.Error(message, slog.String("err", err.Error()), slog.String("details", fmt.Sprintf("%+v", details)))
	Error(w, status, message, err, details...)
}
