package models

// Post represents a news article as returned by the backend.
type Post struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	CoverImage string `json:"coverImage,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// APIResponse is the envelope every backend endpoint wraps its payload in.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// PostFields holds the editable fields sent on create and update.
type PostFields struct {
	Title   string
	Content string
	Image   *ImageFile
}

// ImageFile is an image held until the form is submitted. The bytes live in
// the upload store under Ref and are never serialized with the form.
type ImageFile struct {
	Ref         string `json:"ref,omitempty"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}
