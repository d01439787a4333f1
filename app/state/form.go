package state

import (
	"newsportal/app/models"

	"github.com/google/uuid"
)

// FormMode tells whether the form creates a new post or edits PostID.
type FormMode struct {
	Editing bool `json:"editing"`
	PostID  int  `json:"postId,omitempty"`
}

// FormState holds the fields of the post being created or edited. Token
// identifies one submission; a submit carrying any other token is ignored.
type FormState struct {
	Open         bool              `json:"open"`
	Mode         FormMode          `json:"mode"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	ImageFile    *models.ImageFile `json:"imageFile,omitempty"`
	ImagePreview string            `json:"imagePreview,omitempty"`
	Token        string            `json:"token"`
}

// NewForm returns a closed, empty form in creating mode.
func NewForm() FormState {
	return FormState{Token: uuid.NewString()}
}

// SeedCreate opens an empty form for a new post.
func (f FormState) SeedCreate() FormState {
	next := NewForm()
	next.Open = true
	return next
}

// SeedEdit opens the form on an existing post. resolve turns the stored cover
// path into a displayable URL.
func (f FormState) SeedEdit(post models.Post, resolve func(path string) string) FormState {
	next := NewForm()
	next.Open = true
	next.Mode = FormMode{Editing: true, PostID: post.ID}
	next.Title = post.Title
	next.Content = post.Content
	if post.HasCover() && resolve != nil {
		next.ImagePreview = resolve(post.CoverImage)
	}
	return next
}

// Close hides the form and discards what was typed.
func (f FormState) Close() FormState {
	return NewForm()
}

// WithFields updates the typed title and content.
func (f FormState) WithFields(title, content string) FormState {
	f.Title = title
	f.Content = content
	return f
}

// SelectImage replaces the held image. The preview points at the stored
// upload, so file must already carry its Ref.
func (f FormState) SelectImage(file models.ImageFile) FormState {
	img := file
	img.Data = append([]byte(nil), file.Data...)
	f.ImageFile = &img
	f.ImagePreview = UploadURL(img.Ref)
	return f
}

// RemoveImage clears both the held file and the preview.
func (f FormState) RemoveImage() FormState {
	f.ImageFile = nil
	f.ImagePreview = ""
	return f
}

// Fields returns what a submit sends to the backend.
func (f FormState) Fields() models.PostFields {
	return models.PostFields{
		Title:   f.Title,
		Content: f.Content,
		Image:   f.ImageFile,
	}
}

// Validate runs the pre-submit checks without touching the network.
func (f FormState) Validate() error {
	return f.Fields().Validate()
}
