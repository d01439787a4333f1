package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("dev logs debug as text", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter("dev", &buf)
		log.Debug("fetching posts", "page", 2)
		assert.Contains(t, buf.String(), "fetching posts")
		assert.Contains(t, buf.String(), "page=2")
	})

	t.Run("prod logs json and drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter("prod", &buf)
		log.Debug("hidden")
		log.Info("post created", "post_id", 7)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "post created", entry["msg"])
		assert.Equal(t, float64(7), entry["post_id"])
		assert.NotContains(t, buf.String(), "hidden")
	})
}
