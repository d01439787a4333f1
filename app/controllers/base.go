package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"newsportal/app/repositories"
	"newsportal/app/state"
)

// base carries what every page controller needs: the session store, the
// parsed templates and a logger.
type base struct {
	sessions  repositories.SessionRepository
	templates map[string]*template.Template
	log       *slog.Logger
}

// loadSession returns the stored view state of the requesting browser, or a
// fresh one.
func (b *base) loadSession(r *http.Request) (*state.Session, error) {
	id := state.SessionIDFrom(r.Context())
	if id == "" {
		return nil, errors.New("request has no session")
	}

	session, err := b.sessions.Get(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return state.NewSession(id), nil
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// updateSession applies fn to the browser's stored view state under the
// session lock and returns the saved result. On failure the error response
// has been written.
func (b *base) updateSession(w http.ResponseWriter, r *http.Request, fn func(*state.Session)) (*state.Session, bool) {
	id := state.SessionIDFrom(r.Context())
	if id == "" {
		b.sendError(w, r, "Failed to load session: request has no session", http.StatusInternalServerError)
		return nil, false
	}

	session, err := b.sessions.Update(r.Context(), id, fn)
	if err != nil {
		b.log.Error("Failed to update session", slog.String("session", id), slog.Any("error", err))
		b.sendError(w, r, "Failed to save session", http.StatusInternalServerError)
		return nil, false
	}
	return session, true
}

func (b *base) render(w http.ResponseWriter, r *http.Request, page string, status int, data interface{}) {
	tpl, ok := b.templates[page]
	if !ok {
		b.sendError(w, r, "Template not found: "+page, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		b.log.Error("Failed to render template", slog.String("page", page), slog.Any("error", err))
		b.sendError(w, r, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Helper methods for consistent response handling

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (b *base) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		b.log.Error("Failed to encode response", slog.Any("error", err))
	}
}

func (b *base) sendError(w http.ResponseWriter, r *http.Request, message string, status int) {
	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	} else {
		http.Error(w, message, status)
	}
}
