// Package httpapi exposes the scraper engine over HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/filmscout/filmscout/cookie"
	"github.com/filmscout/filmscout/scraper"
	"github.com/filmscout/filmscout/source"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type engine interface {
	Health() (*scraper.Health, error)
	KeepAlive() bool
	UpdateSession(cookies []cookie.Cookie) ([]cookie.Cookie, bool, error)
	Lookup(title string, filter source.ContentType, year string) (*scraper.Content, error)
	Links(episodes []*source.Episode) ([]*scraper.EpisodeLinks, error)
}

var _ engine = (*scraper.Engine)(nil)

type Handler struct {
	Engine engine
	// CookieDomain is given to cookies of a flat cookie string.
	CookieDomain string
	// Limiter throttles the API. Nil serves every request.
	Limiter *rate.Limiter
}

func NewHandler(engine engine, cookieDomain string) *Handler {
	return &Handler{Engine: engine, CookieDomain: cookieDomain}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps engine errors onto status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, scraper.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, scraper.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	entry(r).WithError(err).WithField("status", status).Error("request failed")
	writeJSON(w, status, map[string]any{"success": false, "error": err.Error()})
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	entry(r).Warn(msg)
	writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": msg})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.Engine.Health()
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"logged_in": health.LoggedIn,
		"state":     health.State.String(),
	})
}

func (h *Handler) KeepAlive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "alive",
		"logged_in": h.Engine.KeepAlive(),
	})
}

type updateSessionRequest struct {
	Cookies      []cookie.Cookie `json:"cookies"`
	CookieString string          `json:"cookie_string"`
}

func (h *Handler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body: "+err.Error())
		return
	}

	cookies := req.Cookies
	if len(cookies) == 0 && strings.TrimSpace(req.CookieString) != "" {
		cookies = cookie.ParseString(req.CookieString, h.CookieDomain)
	}

	if len(cookies) == 0 {
		badRequest(w, r, "no cookies or cookie_string provided")
		return
	}

	applied, loggedIn, err := h.Engine.UpdateSession(cookies)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entry(r).WithField("cookies", cookie.Names(applied)).Info("session updated")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"logged_in": loggedIn,
		"count":     len(applied),
	})
}

// year accepts both 2008 and "2008".
type year string

func (y *year) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = year(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = year(n.String())
	return nil
}

type searchRequest struct {
	Title string  `json:"title"`
	Type  *string `json:"type"`
	Year  year    `json:"year"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, r, "missing title in request body")
		return
	}

	filter := source.Series
	if req.Type != nil {
		parsed, err := source.ParseContentType(*req.Type)
		if err != nil {
			badRequest(w, r, err.Error())
			return
		}
		filter = parsed
	}

	entry(r).WithFields(logrus.Fields{"title": req.Title, "type": filter, "year": req.Year}).Info("lookup")
	content, err := h.Engine.Lookup(req.Title, filter, string(req.Year))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"title":    content.Title,
		"type":     content.Type,
		"year":     content.Year,
		"url":      content.URL,
		"episodes": content.Episodes,
		"count":    len(content.Episodes),
	})
}

type linksRequest struct {
	Episodes []*source.Episode `json:"episodes"`
}

func (h *Handler) Links(w http.ResponseWriter, r *http.Request) {
	var req linksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, r, "invalid request body: "+err.Error())
		return
	}

	if req.Episodes == nil {
		badRequest(w, r, "missing episodes in request body")
		return
	}

	episodes := make([]*source.Episode, 0, len(req.Episodes))
	for _, ep := range req.Episodes {
		if ep == nil {
			continue
		}
		if ep.Label == "" {
			ep.Label = "Unknown"
		}
		episodes = append(episodes, ep)
	}

	results, err := h.Engine.Links(episodes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
		"count":   len(results),
	})
}
