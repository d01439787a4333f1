package services

import (
	"context"
	"log/slog"
	"strconv"

	"newsportal/app/client"
	"newsportal/app/metrics"
	"newsportal/app/models"
	"newsportal/app/repositories"
	"newsportal/app/state"
)

const (
	msgPostNotFound  = "Berita tidak ditemukan"
	msgUploadMissing = "Gambar sudah tidak tersedia, silakan pilih ulang"
)

// AdminService drives the admin screen: list, create/edit form and delete.
// Every method takes the current state and returns the next one. Failures
// never escape as errors; they end up in AdminState.Error.
type AdminService struct {
	api         client.API
	uploads     repositories.UploadRepository
	assetOrigin string
	guard       *inflight
	log         *slog.Logger
}

func NewAdminService(api client.API, uploads repositories.UploadRepository, assetOrigin string, log *slog.Logger, m metrics.Provider) *AdminService {
	return &AdminService{
		api:         api,
		uploads:     uploads,
		assetOrigin: assetOrigin,
		guard:       newInflight(log, m),
		log:         log,
	}
}

// Mount loads the first page of posts into the list.
func (s *AdminService) Mount(ctx context.Context, st state.AdminState) state.AdminState {
	return do(s.guard, ctx, "admin_mount", "", func() state.AdminState {
		st.List = st.List.Begin()
		posts, err := s.api.ListPosts(ctx, 1)
		if err != nil {
			s.log.Debug("Failed to load posts", slog.Any("error", err))
			st.List = st.List.Fail(models.Message(err))
			return st
		}
		st.List = st.List.Succeed(posts, 1)
		return st
	})
}

func (s *AdminService) OpenCreate(st state.AdminState) state.AdminState {
	s.discardUpload(st.Form)
	st.Form = st.Form.SeedCreate()
	st.Error = ""
	return st
}

// OpenEdit seeds the form from the listed post, falling back to the backend
// when the id is not in the current list.
func (s *AdminService) OpenEdit(ctx context.Context, st state.AdminState, id int) state.AdminState {
	post, ok := st.List.Find(id)
	if !ok {
		fetched, err := s.api.GetPost(ctx, id)
		if err != nil {
			st.Error = models.Message(err)
			return st
		}
		if fetched == nil {
			st.Error = msgPostNotFound
			return st
		}
		post = *fetched
	}

	s.discardUpload(st.Form)
	st.Form = st.Form.SeedEdit(post, s.resolveImage)
	st.Error = ""
	return st
}

func (s *AdminService) CloseForm(st state.AdminState) state.AdminState {
	s.discardUpload(st.Form)
	st.Form = st.Form.Close()
	return st
}

func (s *AdminService) UpdateFields(st state.AdminState, title, content string) state.AdminState {
	st.Form = st.Form.WithFields(title, content)
	return st
}

// SelectImage stores file in the upload store and attaches it to the form,
// replacing any earlier selection.
func (s *AdminService) SelectImage(st state.AdminState, file models.ImageFile) state.AdminState {
	stored, err := s.uploads.Put(file)
	if err != nil {
		s.log.Warn("Failed to store upload", slog.String("name", file.Name), slog.Any("error", err))
		st.Error = models.MsgUnknown
		return st
	}
	s.discardUpload(st.Form)
	st.Form = st.Form.SelectImage(stored)
	return st
}

func (s *AdminService) RemoveImage(st state.AdminState) state.AdminState {
	s.discardUpload(st.Form)
	st.Form = st.Form.RemoveImage()
	return st
}

// Upload returns the image selected in the form if ref names it.
func (s *AdminService) Upload(st state.AdminState, ref string) (models.ImageFile, bool) {
	img := st.Form.ImageFile
	if ref == "" || img == nil || img.Ref != ref {
		return models.ImageFile{}, false
	}
	stored, err := s.uploads.Get(ref)
	if err != nil {
		return models.ImageFile{}, false
	}
	return stored, true
}

// Submit creates or updates the post held by the form. A token that does not
// match the open form is a stale or repeated submit and changes nothing.
func (s *AdminService) Submit(ctx context.Context, st state.AdminState, token string) state.AdminState {
	if !st.Form.Open || token == "" || token != st.Form.Token {
		s.log.Debug("Ignoring stale submit", slog.String("token", token))
		return st
	}
	return do(s.guard, ctx, "submit", token, func() state.AdminState {
		return s.submit(ctx, st)
	})
}

func (s *AdminService) submit(ctx context.Context, st state.AdminState) state.AdminState {
	form := st.Form
	if err := form.Validate(); err != nil {
		st.Error = models.Message(err)
		return st
	}
	fields, ok := s.loadImage(form)
	if !ok {
		st.Error = msgUploadMissing
		return st
	}

	var (
		post *models.Post
		err  error
	)
	if form.Mode.Editing {
		post, err = s.api.UpdatePost(ctx, form.Mode.PostID, fields)
	} else {
		post, err = s.api.CreatePost(ctx, fields)
	}
	if err != nil {
		s.log.Debug("Failed to save post",
			slog.Bool("editing", form.Mode.Editing),
			slog.Int("id", form.Mode.PostID),
			slog.Any("error", err),
		)
		st.Error = models.Message(err)
		return st
	}

	if form.Mode.Editing {
		st.List = st.List.Replace(*post)
	} else {
		st.List = st.List.Prepend(*post)
	}
	s.discardUpload(form)
	st.Form = state.NewForm()
	st.Error = ""
	return st
}

// RequestDelete asks for confirmation before ConfirmDelete may run.
func (s *AdminService) RequestDelete(st state.AdminState, id int) state.AdminState {
	st.PendingDelete = id
	return st
}

func (s *AdminService) CancelDelete(st state.AdminState) state.AdminState {
	st.PendingDelete = 0
	return st
}

// ConfirmDelete deletes id if it is the post awaiting confirmation. On
// failure the list is left as it was.
func (s *AdminService) ConfirmDelete(ctx context.Context, st state.AdminState, id int) state.AdminState {
	if id == 0 || st.PendingDelete != id {
		s.log.Debug("Ignoring unconfirmed delete", slog.Int("id", id))
		return st
	}
	return do(s.guard, ctx, "delete", strconv.Itoa(id), func() state.AdminState {
		st.PendingDelete = 0
		if err := s.api.DeletePost(ctx, id); err != nil {
			s.log.Debug("Failed to delete post", slog.Int("id", id), slog.Any("error", err))
			st.Error = models.Message(err)
			return st
		}
		st.List = st.List.Remove(id)
		st.Error = ""
		return st
	})
}

// loadImage fills in the bytes of a selection made by an earlier request.
func (s *AdminService) loadImage(form state.FormState) (models.PostFields, bool) {
	fields := form.Fields()
	img := fields.Image
	if img == nil || len(img.Data) > 0 {
		return fields, true
	}
	stored, err := s.uploads.Get(img.Ref)
	if err != nil {
		s.log.Debug("Selected upload is gone", slog.String("ref", img.Ref), slog.Any("error", err))
		return fields, false
	}
	fields.Image = &stored
	return fields, true
}

func (s *AdminService) discardUpload(form state.FormState) {
	if form.ImageFile == nil || form.ImageFile.Ref == "" {
		return
	}
	if err := s.uploads.Delete(form.ImageFile.Ref); err != nil {
		s.log.Debug("Failed to discard upload", slog.String("ref", form.ImageFile.Ref), slog.Any("error", err))
	}
}

func (s *AdminService) resolveImage(path string) string {
	return models.ResolveImageURL(s.assetOrigin, path, "")
}
