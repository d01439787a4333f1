package controllers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"newsportal/app/models"
	"newsportal/app/repositories"
	"newsportal/app/services"
	"newsportal/app/state"

	"github.com/gorilla/mux"
)

// PortalController serves the public pages
type PortalController struct {
	base
	portal *services.PortalService
}

func NewPortalController(portal *services.PortalService, sessions repositories.SessionRepository, templates map[string]*template.Template, log *slog.Logger) *PortalController {
	return &PortalController{
		base: base{
			sessions:  sessions,
			templates: templates,
			log:       log,
		},
		portal: portal,
	}
}

type indexPage struct {
	PageTitle string
	List      state.ListState
}

type showPage struct {
	PageTitle string
	Post      *models.Post
	Error     string
}

// Index loads the first page of posts
func (pc *PortalController) Index(w http.ResponseWriter, r *http.Request) {
	session, ok := pc.updateSession(w, r, func(s *state.Session) {
		s.Portal = pc.portal.Mount(r.Context(), s.Portal)
	})
	if !ok {
		return
	}
	pc.respondList(w, r, session.Portal)
}

// More appends the next page to the list already shown
func (pc *PortalController) More(w http.ResponseWriter, r *http.Request) {
	session, ok := pc.updateSession(w, r, func(s *state.Session) {
		s.Portal = pc.portal.LoadMore(r.Context(), s.Portal)
	})
	if !ok {
		return
	}
	pc.respondList(w, r, session.Portal)
}

func (pc *PortalController) respondList(w http.ResponseWriter, r *http.Request, list state.ListState) {
	if wantsJSON(r) {
		pc.sendJSON(w, list)
		return
	}
	pc.render(w, r, "index", http.StatusOK, indexPage{List: list})
}

// Show displays a single post
func (pc *PortalController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return
	}

	post, message := pc.portal.Show(r.Context(), id)
	if wantsJSON(r) {
		if post == nil {
			pc.sendError(w, r, message, http.StatusNotFound)
			return
		}
		pc.sendJSON(w, post)
		return
	}

	page := showPage{Post: post, Error: message}
	status := http.StatusOK
	if post == nil {
		status = http.StatusNotFound
	} else {
		page.PageTitle = post.Title
	}
	pc.render(w, r, "show", status, page)
}
