package services

import (
	"context"
	"log/slog"

	"newsportal/app/client"
	"newsportal/app/metrics"
	"newsportal/app/models"
	"newsportal/app/state"
)

// PortalService feeds the public pages: the paged post list and the detail
// page.
type PortalService struct {
	api   client.API
	guard *inflight
	log   *slog.Logger
}

func NewPortalService(api client.API, log *slog.Logger, m metrics.Provider) *PortalService {
	return &PortalService{
		api:   api,
		guard: newInflight(log, m),
		log:   log,
	}
}

// Mount replaces the list with the first page.
func (s *PortalService) Mount(ctx context.Context, st state.ListState) state.ListState {
	return do(s.guard, ctx, "portal_mount", "", func() state.ListState {
		st = st.Begin()
		posts, err := s.api.ListPosts(ctx, 1)
		if err != nil {
			s.log.Debug("Failed to load posts", slog.Any("error", err))
			return st.Fail(models.Message(err))
		}
		return st.Succeed(posts, 1)
	})
}

// LoadMore appends the next page. It does nothing while a load is running or
// after the backend ran out of posts.
func (s *PortalService) LoadMore(ctx context.Context, st state.ListState) state.ListState {
	if !st.CanLoadMore() {
		return st
	}
	if !st.Loaded {
		return s.Mount(ctx, st)
	}
	return do(s.guard, ctx, "load_more", "", func() state.ListState {
		next := st.Page + 1
		st = st.Begin()
		posts, err := s.api.ListPosts(ctx, next)
		if err != nil {
			s.log.Debug("Failed to load more posts", slog.Int("page", next), slog.Any("error", err))
			return st.Fail(models.Message(err))
		}
		return st.Append(posts, next)
	})
}

// Show fetches one post for the detail page. The second result is the
// message to display when the post could not be loaded.
func (s *PortalService) Show(ctx context.Context, id int) (*models.Post, string) {
	post, err := s.api.GetPost(ctx, id)
	if err != nil {
		s.log.Debug("Failed to load post", slog.Int("id", id), slog.Any("error", err))
		return nil, models.Message(err)
	}
	if post == nil {
		return nil, msgPostNotFound
	}
	return post, ""
}
