package state

import (
	"testing"

	"newsportal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func resolver(path string) string {
	return models.ResolveImageURL("http://api.test", path, "/fallback.jpg")
}

func TestNewForm(t *testing.T) {
	f := NewForm()
	assert.False(t, f.Open)
	assert.False(t, f.Mode.Editing)
	assert.NotEmpty(t, f.Token)
	assert.NotEqual(t, f.Token, NewForm().Token)
}

func TestFormSeedCreate(t *testing.T) {
	f := NewForm().WithFields("old", "stuff").SelectImage(models.ImageFile{Ref: "r0", Name: "a.png", ContentType: "image/png", Data: pngHeader})

	next := f.SeedCreate()
	assert.True(t, next.Open)
	assert.False(t, next.Mode.Editing)
	assert.Empty(t, next.Title)
	assert.Empty(t, next.Content)
	assert.Nil(t, next.ImageFile)
	assert.Empty(t, next.ImagePreview)
	assert.NotEqual(t, f.Token, next.Token)
}

func TestFormSeedEdit(t *testing.T) {
	t.Run("with cover", func(t *testing.T) {
		post := models.Post{ID: 7, Title: "Judul", Content: "Isi", CoverImage: "/uploads/x.jpg"}
		f := NewForm().SeedEdit(post, resolver)

		assert.True(t, f.Open)
		assert.Equal(t, FormMode{Editing: true, PostID: 7}, f.Mode)
		assert.Equal(t, "Judul", f.Title)
		assert.Equal(t, "Isi", f.Content)
		assert.Nil(t, f.ImageFile)
		assert.Equal(t, "http://api.test/uploads/x.jpg", f.ImagePreview)
	})

	t.Run("without cover", func(t *testing.T) {
		f := NewForm().SeedEdit(models.Post{ID: 1, Title: "a", Content: "b"}, resolver)
		assert.Empty(t, f.ImagePreview)
	})
}

func TestFormImageSelection(t *testing.T) {
	f := NewForm().SeedCreate()
	data := append([]byte(nil), pngHeader...)

	f = f.SelectImage(models.ImageFile{Ref: "r1", Name: "a.png", ContentType: "image/png", Data: data})
	require.NotNil(t, f.ImageFile)
	assert.Equal(t, "a.png", f.ImageFile.Name)
	assert.Equal(t, "/admin/uploads/r1", f.ImagePreview)

	data[0] = 0
	assert.Equal(t, byte(0x89), f.ImageFile.Data[0])

	f = f.RemoveImage()
	assert.Nil(t, f.ImageFile)
	assert.Empty(t, f.ImagePreview)
}

func TestFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
		field   string
	}{
		{name: "valid", title: "Judul", content: "Isi"},
		{name: "blank title", title: "   ", content: "Isi", field: "Title"},
		{name: "blank content", title: "Judul", content: "\n", field: "Content"},
		{name: "both blank", field: "Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewForm().WithFields(tt.title, tt.content).Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFormClose(t *testing.T) {
	f := NewForm().SeedEdit(models.Post{ID: 3, Title: "a", Content: "b"}, resolver).Close()
	assert.False(t, f.Open)
	assert.False(t, f.Mode.Editing)
	assert.Empty(t, f.Title)
}
