package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PostInput is the trimmed form of PostFields that validation runs on.
type PostInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

var fieldMessages = map[string]string{
	"Title":   "Judul wajib diisi",
	"Content": "Konten wajib diisi",
}

// Validate checks that title and content are non-empty after trimming.
// The first failing field is reported as a *ValidationError.
func (f PostFields) Validate() error {
	in := PostInput{
		Title:   strings.TrimSpace(f.Title),
		Content: strings.TrimSpace(f.Content),
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return &ValidationError{Field: field, Message: fieldMessages[field]}
		}
		return &ValidationError{Message: err.Error()}
	}
	return nil
}
