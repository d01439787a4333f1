package repositories

import (
	"testing"

	"newsportal/app/models"
	"newsportal/app/state"

	"github.com/stretchr/testify/assert"
)

func TestSessionKey(t *testing.T) {
	assert.Equal(t, []byte("session:abc"), sessionKey("abc"))
	assert.Equal(t, []byte("upload:abc/meta"), uploadMetaKey("abc"))
	assert.Equal(t, []byte("upload:abc/0012"), uploadChunkKey("abc", 12))
}

func TestMarshalEntity(t *testing.T) {
	t.Run("marshal session", func(t *testing.T) {
		session := state.NewSession("abc")
		session.Portal = session.Portal.Succeed([]models.Post{{ID: 1, Title: "Test Post", Content: "Test Content"}}, 1)

		data, err := marshalEntity(session)
		assert.NoError(t, err)
		assert.NotEmpty(t, data)

		var unmarshaled state.Session
		err = unmarshalEntity(data, &unmarshaled)
		assert.NoError(t, err)
		assert.Equal(t, session.ID, unmarshaled.ID)
		assert.Equal(t, session.Portal.Items, unmarshaled.Portal.Items)
		assert.Equal(t, session.Admin.Form.Token, unmarshaled.Admin.Form.Token)
	})

	t.Run("marshal invalid entity", func(t *testing.T) {
		invalidEntity := struct {
			Ch chan int
		}{
			Ch: make(chan int),
		}

		_, err := marshalEntity(invalidEntity)
		assert.Error(t, err)
	})
}

func TestUnmarshalEntity(t *testing.T) {
	t.Run("unmarshal post", func(t *testing.T) {
		data := []byte(`{"id":"1","title":"Test Post","content":"Test Content"}`)
		var post models.Post
		err := unmarshalEntity(data, &post)
		assert.NoError(t, err)
		assert.Equal(t, 1, post.ID)
		assert.Equal(t, "Test Post", post.Title)
	})

	t.Run("unmarshal invalid JSON", func(t *testing.T) {
		data := []byte(`{"id":1,invalid json}`)
		var session state.Session
		err := unmarshalEntity(data, &session)
		assert.Error(t, err)
	})

	t.Run("unmarshal into nil", func(t *testing.T) {
		data := []byte(`{"id":"x"}`)
		err := unmarshalEntity(data, nil)
		assert.Error(t, err)
	})
}
