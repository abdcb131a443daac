package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jedsaxon/misinfodetector/internal/logger"
	"github.com/jedsaxon/misinfodetector/internal/metrics"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/util"
	"go.uber.org/zap"
)

// CreatePostRequest is the body accepted by POST and PUT /api/posts
type CreatePostRequest struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// PostListResponse is one page of the feed
type PostListResponse struct {
	Posts []models.Post `json:"posts"`
	Pages int           `json:"pages"`
}

// PostEnvelope wraps a single post with a status message
type PostEnvelope struct {
	Message string       `json:"message"`
	Post    *models.Post `json:"post"`
}

// ListPosts returns a 1-indexed page of posts, newest first
// GET /api/posts?pageNumber=N&resultAmount=M
func (h *Handlers) ListPosts(c *gin.Context) {
	pageNumber, err := util.ParsePositiveQuery(c, "pageNumber", 1)
	if err != nil {
		util.RespondBadRequest(c, "Invalid page number", err.Error())
		return
	}
	resultAmount, err := util.ParsePositiveQuery(c, "resultAmount", DefaultResultAmount)
	if err != nil {
		util.RespondBadRequest(c, "Invalid result amount", err.Error())
		return
	}
	resultAmount = util.ClampInt(resultAmount, MaxResultAmount)

	posts, total, err := h.posts.ListPosts(c.Request.Context(), pageNumber, resultAmount)
	if util.HandleDBError(c, err, "posts") {
		return
	}

	m := metrics.Get()
	m.PostPageSize.Observe(float64(resultAmount))
	m.PostsServedTotal.Add(float64(len(posts)))

	if posts == nil {
		posts = []models.Post{}
	}

	c.JSON(http.StatusOK, PostListResponse{
		Posts: posts,
		Pages: pageCount(total, resultAmount),
	})
}

func pageCount(total int64, resultAmount int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(resultAmount) - 1) / int64(resultAmount))
}

// CreatePost stores a new, unclassified post
// POST /api/posts and PUT /api/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, "Invalid request body", "Expected a JSON object with message and username.")
		return
	}

	if field, reason := models.ValidatePostInput(req.Message, req.Username); field != "" {
		util.RespondValidationError(c, field, reason)
		return
	}

	post := &models.Post{
		Message:  req.Message,
		Username: req.Username,
	}
	if err := h.posts.CreatePost(c.Request.Context(), post); err != nil {
		logger.Log.Error("Failed to create post", zap.Error(err))
		util.RespondInternalError(c, "Failed to create post")
		return
	}

	metrics.Get().PostsCreatedTotal.Inc()
	logger.Log.Info("Post created",
		logger.WithPostID(post.ID),
		zap.String("username", post.Username),
	)

	c.JSON(http.StatusCreated, PostEnvelope{
		Message: "Post created",
		Post:    post,
	})
}

// GetPost returns a single post by id
// GET /api/posts/:id
func (h *Handlers) GetPost(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		util.RespondBadRequest(c, "Invalid post id", "Post ids must be UUIDs.")
		return
	}

	post, err := h.posts.GetPost(c.Request.Context(), id)
	if util.HandleDBError(c, err, "post") {
		return
	}

	c.JSON(http.StatusOK, PostEnvelope{
		Message: "Post found",
		Post:    post,
	})
}
