package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/filmscout/filmscout/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type requestIDKey struct{}

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

// Register mounts the API endpoints onto r.
func Register(r *mux.Router, h *Handler) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(requestIDMiddleware)
	api.Use(corsMiddleware)
	if h.Limiter != nil {
		api.Use(rateLimitMiddleware(h.Limiter))
	}

	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/keep-alive", h.KeepAlive).Methods(http.MethodGet)
	api.HandleFunc("/update-session", h.UpdateSession).Methods(http.MethodPost)
	api.HandleFunc("/scrape/search", h.Search).Methods(http.MethodPost)
	api.HandleFunc("/scrape/links", h.Links).Methods(http.MethodPost)
	api.PathPrefix("/").HandlerFunc(handleOptions).Methods(http.MethodOptions)
}

// NewRouter returns a router serving h.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	Register(r, h)
	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleOptions(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// requestIDMiddleware tags the request with an id, echoes it back and logs the outcome.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(withRequestID(r.Context(), id))

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry(r).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(started).String(),
		}).Info("request served")
	})
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func entry(r *http.Request) *logrus.Entry {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return log.WithField("request_id", id)
}
