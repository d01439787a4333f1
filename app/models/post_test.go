package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostUnmarshalID(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  int
		wantErr bool
	}{
		{
			name:    "numeric id",
			payload: `{"id": 7, "title": "A", "content": "B"}`,
			wantID:  7,
		},
		{
			name:    "string id",
			payload: `{"id": "12", "title": "A", "content": "B"}`,
			wantID:  12,
		},
		{
			name:    "missing id",
			payload: `{"title": "A", "content": "B"}`,
			wantID:  0,
		},
		{
			name:    "non numeric string id",
			payload: `{"id": "abc", "title": "A", "content": "B"}`,
			wantErr: true,
		},
		{
			name:    "fractional id",
			payload: `{"id": 1.5, "title": "A", "content": "B"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var post Post
			err := json.Unmarshal([]byte(tt.payload), &post)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, post.ID)
			assert.Equal(t, "A", post.Title)
			assert.Equal(t, "B", post.Content)
		})
	}
}

func TestPostUnmarshalKeepsOtherFields(t *testing.T) {
	payload := `{
		"id": "3",
		"title": "Startup Indonesia",
		"content": "Pendanaan Series A",
		"coverImage": "/uploads/cover.png",
		"createdAt": "2024-03-05T10:00:00Z",
		"updatedAt": "2024-03-06T10:00:00Z"
	}`

	var post Post
	require.NoError(t, json.Unmarshal([]byte(payload), &post))
	assert.Equal(t, 3, post.ID)
	assert.Equal(t, "/uploads/cover.png", post.CoverImage)
	assert.Equal(t, "2024-03-05T10:00:00Z", post.CreatedAt)
	assert.Equal(t, "2024-03-06T10:00:00Z", post.UpdatedAt)
	assert.True(t, post.HasCover())
}

func TestResolveImageURL(t *testing.T) {
	const fallback = "https://placehold.co/600x400"

	tests := []struct {
		name   string
		origin string
		path   string
		want   string
	}{
		{"empty path uses fallback", "http://localhost:3000", "", fallback},
		{"blank path uses fallback", "http://localhost:3000", "   ", fallback},
		{"relative path", "http://localhost:3000", "/uploads/a.png", "http://localhost:3000/uploads/a.png"},
		{"relative path without slash", "http://localhost:3000/", "uploads/a.png", "http://localhost:3000/uploads/a.png"},
		{"absolute url", "http://localhost:3000", "https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"data url", "http://localhost:3000", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImageURL(tt.origin, tt.path, fallback))
		})
	}
}

func TestPostFieldsValidate(t *testing.T) {
	tests := []struct {
		name      string
		fields    PostFields
		wantField string
	}{
		{
			name:   "valid fields",
			fields: PostFields{Title: "Judul", Content: "Isi berita"},
		},
		{
			name:      "empty title",
			fields:    PostFields{Title: "", Content: "Isi berita"},
			wantField: "Title",
		},
		{
			name:      "whitespace title",
			fields:    PostFields{Title: "   ", Content: "Isi berita"},
			wantField: "Title",
		},
		{
			name:      "empty content",
			fields:    PostFields{Title: "Judul", Content: "\n\t"},
			wantField: "Content",
		},
		{
			name:      "both empty reports title first",
			fields:    PostFields{},
			wantField: "Title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fields.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}
