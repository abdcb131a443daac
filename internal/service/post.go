package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/logger"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/querycache"
)

// Cache resources
const (
	ResourcePosts = "posts"
	ResourcePost  = "post"
)

// PostsAPI is the part of the API client the post service needs
type PostsAPI interface {
	FetchPosts(ctx context.Context, pageNumber, resultAmount int) (*api.PostResponse, error)
	FetchPost(ctx context.Context, id string) (*models.Post, error)
	UploadPost(ctx context.Context, message, username string) (*models.Post, error)
}

// PostService serves post pages through a query cache and invalidates it after uploads
type PostService struct {
	api   PostsAPI
	pages *querycache.Cache[*api.PostResponse]
	posts *querycache.Cache[*models.Post]
}

// NewPostService creates a new post service
func NewPostService(client PostsAPI) *PostService {
	return &PostService{
		api:   client,
		pages: querycache.New[*api.PostResponse](),
		posts: querycache.New[*models.Post](),
	}
}

// PageKey is the cache key of one page of posts
func PageKey(pageNumber, resultAmount int) querycache.Key {
	return querycache.NewKey(ResourcePosts, url.Values{
		"pageNumber":   {strconv.Itoa(pageNumber)},
		"resultAmount": {strconv.Itoa(resultAmount)},
	})
}

// Page returns one page of posts, from the cache when present
func (s *PostService) Page(ctx context.Context, pageNumber, resultAmount int) (*api.PostResponse, error) {
	key := PageKey(pageNumber, resultAmount)
	if cached, ok := s.pages.Get(key); ok {
		logger.Debug("Post page cache hit", "key", key.String())
		return cached, nil
	}

	resp, err := s.api.FetchPosts(ctx, pageNumber, resultAmount)
	if err != nil {
		return nil, err
	}
	s.pages.Put(key, resp)
	return resp, nil
}

// Post returns a single post. Posts are immutable, so cached entries never go stale.
func (s *PostService) Post(ctx context.Context, id string) (*models.Post, error) {
	key := querycache.NewKey(ResourcePost, url.Values{"id": {id}})
	if cached, ok := s.posts.Get(key); ok {
		return cached, nil
	}

	post, err := s.api.FetchPost(ctx, id)
	if err != nil {
		return nil, err
	}
	s.posts.Put(key, post)
	return post, nil
}

// Upload validates and submits a post. On success every cached page is
// invalidated; on failure the cache is left as it was.
func (s *PostService) Upload(ctx context.Context, message, username string) (*models.Post, error) {
	if field, reason := models.ValidatePostInput(message, username); field != "" {
		return nil, &api.DetailedError{
			Title:       "Invalid " + field,
			Description: reason,
		}
	}

	post, err := s.api.UploadPost(ctx, message, username)
	if err != nil {
		return nil, err
	}

	dropped := s.pages.Invalidate(ResourcePosts)
	logger.Debug("Invalidated cached post pages", "count", dropped)

	key := querycache.NewKey(ResourcePost, url.Values{"id": {post.ID}})
	s.posts.Put(key, post)
	return post, nil
}

// CachedPages returns how many post pages are cached
func (s *PostService) CachedPages() int {
	return s.pages.Len()
}

// Refresh drops every cached page so the next Page call re-fetches
func (s *PostService) Refresh() {
	s.pages.InvalidateAll()
}

