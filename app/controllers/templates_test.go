package controllers

import (
	"html/template"
	"testing"

	"newsportal/app/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := LoadTemplates(views.FS, Images{Origin: "http://api.test", Fallback: testFallback})
	require.NoError(t, err)
	for _, name := range []string{"index", "show", "admin", "delete"} {
		assert.Contains(t, templates, name)
		assert.NotNil(t, templates[name].Lookup("layout"), name)
	}
}

func TestImagesURL(t *testing.T) {
	images := Images{Origin: "http://api.test", Fallback: "/fallback.jpg"}

	tests := []struct {
		path string
		want template.URL
	}{
		{path: "", want: "/fallback.jpg"},
		{path: "/uploads/a.jpg", want: "http://api.test/uploads/a.jpg"},
		{path: "uploads/a.jpg", want: "http://api.test/uploads/a.jpg"},
		{path: "https://cdn.test/a.jpg", want: "https://cdn.test/a.jpg"},
		{path: "data:image/png;base64,AAAA", want: "data:image/png;base64,AAAA"},
		{path: "data:text/html;base64,AAAA", want: "/fallback.jpg"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, images.URL(tt.path), tt.path)
	}
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "pendek", excerpt("pendek", 20))
	assert.Equal(t, "a b", excerpt("  a \n b ", 20))
	assert.Equal(t, "satu dua…", excerpt("satu dua tiga empat", 12))
}
