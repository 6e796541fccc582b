package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strconv"
	"strings"

	"ewintr.nl/videotime/metrics"
	"ewintr.nl/videotime/storage"
	"golang.org/x/exp/slog"
)

type Server struct {
	apis    map[string]http.Handler
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewServer routes the first path component to an api. metricsHandler
// serves /metrics.
func NewServer(repo storage.Repository, m *metrics.Metrics, metricsHandler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		apis: map[string]http.Handler{
			"stats":   NewStatsAPI(repo, logger),
			"videos":  NewVideoAPI(repo, logger),
			"metrics": metricsHandler,
		},
		metrics: m,
		logger:  logger,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	originalPath := r.URL.Path
	rec := httptest.NewRecorder() // records the response to be able to mix writing headers and content

	rec.Header().Set("Content-Type", "application/json")

	// route to api
	head, tail := ShiftPath(r.URL.Path)
	api, ok := s.apis[head]
	switch {
	case head == "":
		head = "index"
		Index(rec)
	case !ok:
		head = "unknown"
		Error(rec, http.StatusNotFound, "Not found", fmt.Errorf("%s is not a valid path", r.URL.Path))
	default:
		r.URL.Path = tail
		api.ServeHTTP(rec, r)
	}

	returnResponse(w, rec)
	s.metrics.RequestsServed.WithLabelValues(head, strconv.Itoa(rec.Code)).Inc()
	s.logger.Info("request served", slog.String("path", originalPath), slog.Int("status", rec.Code))
}

func returnResponse(w http.ResponseWriter, rec *httptest.ResponseRecorder) {
	for k, v := range rec.Header() {
		w.Header()[k] = v
	}
	w.WriteHeader(rec.Code)
	w.Write(rec.Body.Bytes())
}

// ShiftPath splits off the first component of p, which will be cleaned of
// relative components before processing. head will never contain a slash and
// tail will always be a rooted path without trailing slash.
// See https://blog.merovius.de/posts/2017-06-18-how-not-to-use-an-http-router/
func ShiftPath(p string) (string, string) {
	p = path.Clean("/" + p)

	// restore iri prefixes that might be mangled by path.Clean
	for k, v := range map[string]string{
		"http:/":  "http://",
		"https:/": "https://",
	} {
		p = strings.Replace(p, k, v, -1)
	}

	i := strings.Index(p[1:], "/") + 1
	if i <= 0 {
		return p[1:], "/"
	}
	return p[1:i], p[i:]
}
