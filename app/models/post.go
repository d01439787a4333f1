package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// UnmarshalJSON accepts the post id either as a JSON number or as a string
// holding a base-10 integer. Backends disagree on which one they send.
func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	aux := struct {
		ID json.RawMessage `json:"id"`
		*alias
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func parseID(raw json.RawMessage) (int, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return 0, fmt.Errorf("invalid post id %s: %w", s, err)
		}
		s = strings.TrimSpace(str)
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

// HasCover reports whether the post carries an uploaded cover image.
func (p Post) HasCover() bool {
	return strings.TrimSpace(p.CoverImage) != ""
}

// ResolveImageURL turns a cover image path into something a browser can load.
// Relative paths are prefixed with origin, absolute and data URLs pass through,
// and an empty path yields fallback.
func ResolveImageURL(origin, path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") || strings.HasPrefix(path, "//") {
		return path
	}
	return strings.TrimRight(origin, "/") + "/" + strings.TrimLeft(path, "/")
}
