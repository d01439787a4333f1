package state

import "newsportal/app/models"

// ListState is the in-memory collection a list view renders.
// Transitions never modify the receiver; they return the next state.
type ListState struct {
	Items     []models.Post `json:"items"`
	IsLoading bool          `json:"isLoading"`
	Error     string        `json:"error,omitempty"`
	Page      int           `json:"page"`
	Loaded    bool          `json:"loaded"`
	Exhausted bool          `json:"exhausted"`
}

// Begin moves the list into the loading state.
func (s ListState) Begin() ListState {
	s.Items = clonePosts(s.Items)
	s.IsLoading = true
	return s
}

// Succeed replaces the items with a freshly fetched page and clears any error.
func (s ListState) Succeed(items []models.Post, page int) ListState {
	s.Items = clonePosts(items)
	if s.Items == nil {
		s.Items = []models.Post{}
	}
	s.IsLoading = false
	s.Error = ""
	s.Page = page
	s.Loaded = true
	s.Exhausted = false
	return s
}

// Fail records a load error. Items stay as they were.
func (s ListState) Fail(message string) ListState {
	s.Items = clonePosts(s.Items)
	s.IsLoading = false
	s.Error = message
	return s
}

// CanLoadMore is false while a fetch is in flight or once the backend ran out
// of pages.
func (s ListState) CanLoadMore() bool {
	return !s.IsLoading && !s.Exhausted
}

// Append completes a load-more. Posts already present are skipped so a page
// shifted by concurrent inserts does not show duplicates. A page that brings
// nothing new marks the list exhausted and keeps the page counter where it was.
func (s ListState) Append(items []models.Post, page int) ListState {
	out := clonePosts(s.Items)
	s.IsLoading = false
	s.Error = ""
	s.Loaded = true
	if len(items) == 0 {
		s.Items = out
		s.Exhausted = true
		return s
	}

	seen := make(map[int]struct{}, len(out))
	for _, p := range out {
		seen[p.ID] = struct{}{}
	}
	added := 0
	for _, p := range items {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
		added++
	}
	s.Items = out
	if added == 0 {
		s.Exhausted = true
		return s
	}
	s.Page = page
	return s
}

// Prepend puts a newly created post at the top of the list.
func (s ListState) Prepend(post models.Post) ListState {
	out := make([]models.Post, 0, len(s.Items)+1)
	out = append(out, post)
	for _, p := range s.Items {
		if p.ID != post.ID {
			out = append(out, p)
		}
	}
	s.Items = out
	return s
}

// Replace swaps in the server's copy of a post, matched by id. Unknown ids
// leave the list unchanged.
func (s ListState) Replace(post models.Post) ListState {
	out := clonePosts(s.Items)
	for i := range out {
		if out[i].ID == post.ID {
			out[i] = post
		}
	}
	s.Items = out
	return s
}

// Remove drops the post with the given id.
func (s ListState) Remove(id int) ListState {
	out := make([]models.Post, 0, len(s.Items))
	for _, p := range s.Items {
		if p.ID != id {
			out = append(out, p)
		}
	}
	s.Items = out
	return s
}

// Find returns the post with the given id.
func (s ListState) Find(id int) (models.Post, bool) {
	for _, p := range s.Items {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func clonePosts(in []models.Post) []models.Post {
	if in == nil {
		return nil
	}
	out := make([]models.Post, len(in))
	copy(out, in)
	return out
}
