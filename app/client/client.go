package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"newsportal/app/config"
	"newsportal/app/metrics"
	"newsportal/app/models"

	"github.com/go-resty/resty/v2"
)

const (
	opListPosts  = "list_posts"
	opGetPost    = "get_post"
	opCreatePost = "create_post"
	opUpdatePost = "update_post"
	opDeletePost = "delete_post"
)

// API is the set of backend calls the portal makes. Every call is a single
// request/response cycle with no retry.
type API interface {
	ListPosts(ctx context.Context, page int) ([]models.Post, error)
	GetPost(ctx context.Context, id int) (*models.Post, error)
	CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error)
	UpdatePost(ctx context.Context, id int, fields models.PostFields) (*models.Post, error)
	DeletePost(ctx context.Context, id int) error
}

// PostClient talks to the posts REST endpoints of the backend.
type PostClient struct {
	http    *resty.Client
	log     *slog.Logger
	metrics metrics.Provider
}

func NewPostClient(cfg config.API, log *slog.Logger, m metrics.Provider) *PostClient {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &PostClient{
		http:    httpClient,
		log:     log,
		metrics: m,
	}
}

// ListPosts fetches one page of posts. A page of zero or less omits the page
// parameter and lets the backend pick its default.
func (c *PostClient) ListPosts(ctx context.Context, page int) ([]models.Post, error) {
	req := c.http.R().SetContext(ctx)
	if page > 0 {
		req.SetQueryParam("page", strconv.Itoa(page))
	}

	start := time.Now()
	resp, err := req.Get("/posts")
	posts, err := decode[[]models.Post](opListPosts, resp, err, models.MsgFetchFailed)
	c.observe(opListPosts, start, err)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Listed posts", slog.Int("page", page), slog.Int("count", len(posts)))
	return posts, nil
}

func (c *PostClient) GetPost(ctx context.Context, id int) (*models.Post, error) {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Get("/posts/{id}")
	post, err := decode[models.Post](opGetPost, resp, err, models.MsgFetchFailed)
	c.observe(opGetPost, start, err)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost sends a multipart create request. It is not idempotent: two
// calls create two posts.
func (c *PostClient) CreatePost(ctx context.Context, fields models.PostFields) (*models.Post, error) {
	start := time.Now()
	resp, err := c.multipart(ctx, fields).Post("/posts")
	post, err := decode[models.Post](opCreatePost, resp, err, models.MsgSaveFailed)
	c.observe(opCreatePost, start, err)
	if err != nil {
		return nil, err
	}

	c.log.Info("Post created", slog.Int("post_id", post.ID))
	return &post, nil
}

func (c *PostClient) UpdatePost(ctx context.Context, id int, fields models.PostFields) (*models.Post, error) {
	start := time.Now()
	resp, err := c.multipart(ctx, fields).
		SetPathParam("id", strconv.Itoa(id)).
		Put("/posts/{id}")
	post, err := decode[models.Post](opUpdatePost, resp, err, models.MsgSaveFailed)
	c.observe(opUpdatePost, start, err)
	if err != nil {
		return nil, err
	}

	c.log.Info("Post updated", slog.Int("post_id", post.ID))
	return &post, nil
}

func (c *PostClient) DeletePost(ctx context.Context, id int) error {
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Delete("/posts/{id}")
	_, err = decode[json.RawMessage](opDeletePost, resp, err, models.MsgDeleteFailed)
	c.observe(opDeletePost, start, err)
	if err != nil {
		return err
	}

	c.log.Info("Post deleted", slog.Int("post_id", id))
	return nil
}

func (c *PostClient) multipart(ctx context.Context, fields models.PostFields) *resty.Request {
	req := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(map[string]string{
			"title":   fields.Title,
			"content": fields.Content,
		})
	if img := fields.Image; img != nil && len(img.Data) > 0 {
		req.SetMultipartField("coverImage", img.Name, img.ContentType, bytes.NewReader(img.Data))
	}
	return req
}

func (c *PostClient) observe(op string, start time.Time, err error) {
	status := "ok"
	var nerr *models.NetworkError
	var aerr *models.APIError
	switch {
	case errors.As(err, &nerr):
		status = "network_error"
		c.log.Warn("Backend unreachable", slog.String("operation", op), slog.String("error", err.Error()))
	case errors.As(err, &aerr):
		status = "api_error"
		c.log.Warn("Backend rejected request",
			slog.String("operation", op),
			slog.Int("status", aerr.Status),
			slog.String("error", err.Error()))
	}
	c.metrics.IncrementAPIRequests(op, status)
	c.metrics.RecordAPIRequestDuration(op, time.Since(start))
}

// decode maps a resty outcome onto the error taxonomy and unwraps the payload.
func decode[T any](op string, resp *resty.Response, err error, fallback string) (T, error) {
	var zero T
	if err != nil {
		return zero, &models.NetworkError{Op: op, Err: err}
	}

	env, derr := models.DecodeResponse[T](resp.Body())
	if derr != nil {
		return zero, &models.APIError{Op: op, Status: resp.StatusCode(), Message: fallback, Err: derr}
	}
	if resp.IsError() || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return zero, &models.APIError{Op: op, Status: resp.StatusCode(), Message: msg}
	}
	return env.Data, nil
}
