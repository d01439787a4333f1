package controllers

import (
	"errors"
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

const multipartOverhead = 1 << 20

// AdminController serves the post management screen. Every action works on
// the admin state stored in the browser's session.
type AdminController struct {
	base
	admin         *services.AdminService
	maxImageBytes int64
}

func NewAdminController(admin *services.AdminService, sessions repositories.SessionRepository, templates map[string]*template.Template, maxImageBytes int64, log *slog.Logger) *AdminController {
	return &AdminController{
		base: base{
			sessions:  sessions,
			templates: templates,
			log:       log,
		},
		admin:         admin,
		maxImageBytes: maxImageBytes,
	}
}

type adminPage struct {
	PageTitle string
	Admin     state.AdminState
}

type deletePage struct {
	PageTitle string
	ID        int
	Post      *models.Post
}

// Index reloads the post list and shows the admin screen. The error of the
// last action is shown once.
func (ac *AdminController) Index(w http.ResponseWriter, r *http.Request) {
	ac.withSession(w, r, func(st state.AdminState) state.AdminState {
		return ac.admin.Mount(r.Context(), st)
	}, ac.showAdmin)
}

// State returns the stored admin state as JSON without touching the backend
func (ac *AdminController) State(w http.ResponseWriter, r *http.Request) {
	session, err := ac.loadSession(r)
	if err != nil {
		ac.sendError(w, r, "Failed to load session: "+err.Error(), http.StatusInternalServerError)
		return
	}
	ac.sendJSON(w, session.Admin)
}

// New opens an empty create form
func (ac *AdminController) New(w http.ResponseWriter, r *http.Request) {
	ac.withSession(w, r, ac.admin.OpenCreate, ac.showAdmin)
}

// Edit opens the form on an existing post
func (ac *AdminController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := ac.postID(w, r)
	if !ok {
		return
	}
	ac.withSession(w, r, func(st state.AdminState) state.AdminState {
		return ac.admin.OpenEdit(r.Context(), st, id)
	}, ac.showAdmin)
}

// Submit saves the open form
func (ac *AdminController) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, ac.maxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(ac.maxImageBytes + multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ac.sendError(w, r, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		ac.sendError(w, r, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	token := r.FormValue("token")

	ac.withSession(w, r, func(st state.AdminState) state.AdminState {
		if !st.Form.Open || token != st.Form.Token {
			return st
		}

		st = ac.admin.UpdateFields(st, r.FormValue("title"), r.FormValue("content"))
		if r.FormValue("removeImage") != "" {
			st = ac.admin.RemoveImage(st)
		}
		if file, header, err := r.FormFile("coverImage"); err == nil {
			defer file.Close()
			img, err := state.ReadImage(r.Context(), file, header.Filename, ac.maxImageBytes)
			if err != nil {
				st.Error = models.Message(err)
				return st
			}
			st = ac.admin.SelectImage(st, img)
		}
		return ac.admin.Submit(r.Context(), st, token)
	}, ac.redirectAdmin)
}

// Upload serves the image selected in this browser's form for its preview
func (ac *AdminController) Upload(w http.ResponseWriter, r *http.Request) {
	session, err := ac.loadSession(r)
	if err != nil {
		ac.sendError(w, r, "Failed to load session: "+err.Error(), http.StatusInternalServerError)
		return
	}

	img, ok := ac.admin.Upload(session.Admin, mux.Vars(r)["ref"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(img.Data)
}

// Close hides the form
func (ac *AdminController) Close(w http.ResponseWriter, r *http.Request) {
	ac.withSession(w, r, ac.admin.CloseForm, ac.redirectAdmin)
}

// ConfirmDelete shows the delete confirmation prompt
func (ac *AdminController) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := ac.postID(w, r)
	if !ok {
		return
	}
	ac.withSession(w, r, func(st state.AdminState) state.AdminState {
		return ac.admin.RequestDelete(st, id)
	}, func(w http.ResponseWriter, r *http.Request, st state.AdminState) {
		if wantsJSON(r) {
			ac.sendJSON(w, st)
			return
		}
		page := deletePage{PageTitle: "Hapus Berita", ID: id}
		if post, found := st.List.Find(id); found {
			page.Post = &post
		}
		ac.render(w, r, "delete", http.StatusOK, page)
	})
}

// Delete runs or cancels the pending delete
func (ac *AdminController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ac.postID(w, r)
	if !ok {
		return
	}
	confirmed := r.FormValue("confirm") == "yes"

	ac.withSession(w, r, func(st state.AdminState) state.AdminState {
		if !confirmed {
			return ac.admin.CancelDelete(st)
		}
		return ac.admin.ConfirmDelete(r.Context(), st, id)
	}, ac.redirectAdmin)
}

// withSession loads the admin state, applies action, stores the result and
// hands it to respond.
func (ac *AdminController) withSession(
	w http.ResponseWriter,
	r *http.Request,
	action func(state.AdminState) state.AdminState,
	respond func(http.ResponseWriter, *http.Request, state.AdminState),
) {
	session, ok := ac.updateSession(w, r, func(s *state.Session) {
		s.Admin = action(s.Admin)
	})
	if !ok {
		return
	}
	respond(w, r, session.Admin)
}

func (ac *AdminController) showAdmin(w http.ResponseWriter, r *http.Request, st state.AdminState) {
	if wantsJSON(r) {
		ac.sendJSON(w, st)
		return
	}
	ac.render(w, r, "admin", http.StatusOK, adminPage{PageTitle: "Admin", Admin: st})
	if st.Error != "" {
		ac.clearError(r, st.Error)
	}
}

func (ac *AdminController) redirectAdmin(w http.ResponseWriter, r *http.Request, st state.AdminState) {
	if wantsJSON(r) {
		ac.sendJSON(w, st)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// clearError drops a displayed error so a reload does not show it again. A
// newer error set in the meantime is kept.
func (ac *AdminController) clearError(r *http.Request, shown string) {
	id := state.SessionIDFrom(r.Context())
	_, err := ac.sessions.Update(r.Context(), id, func(s *state.Session) {
		if s.Admin.Error == shown {
			s.Admin.Error = ""
		}
	})
	if err != nil {
		ac.log.Warn("Failed to clear displayed error", slog.String("session", id), slog.Any("error", err))
	}
}

func (ac *AdminController) postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		ac.sendError(w, r, "Invalid post ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
