package api

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jedsaxon/misinfodetector/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// PostResponse is one page of posts plus the total page count at that page size
type PostResponse struct {
	Posts     []models.Post
	PageCount int
}

// postPayload is the wire form of a post
type postPayload struct {
	ID           string   `json:"id" validate:"required"`
	Message      string   `json:"message" validate:"required"`
	Username     string   `json:"username" validate:"required"`
	Date         string   `json:"date" validate:"required"`
	MisinfoState *int     `json:"misinfo_state" validate:"omitempty,oneof=0 1"`
	Confidence   *float64 `json:"confidence" validate:"omitempty,gte=0,lte=1"`
}

func (p postPayload) toModel() (models.Post, error) {
	date, err := time.Parse(time.RFC3339, p.Date)
	if err != nil {
		return models.Post{}, fmt.Errorf("post %s: invalid date %q", p.ID, p.Date)
	}
	return models.Post{
		ID:           p.ID,
		Message:      p.Message,
		Username:     p.Username,
		Date:         date,
		MisinfoState: p.MisinfoState,
		Confidence:   p.Confidence,
	}, nil
}

type postListPayload struct {
	Posts []postPayload `json:"posts" validate:"required,dive"`
	Pages *int          `json:"pages" validate:"required,gte=0"`
}

// postEnvelope is returned by the create and single-post endpoints
type postEnvelope struct {
	Message string       `json:"message" validate:"required"`
	Post    *postPayload `json:"post" validate:"required"`
}

type topicActivityPayload struct {
	DBID      *int   `json:"db_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Text      string `json:"text"`
	TopicID   *int   `json:"topic_id" validate:"required"`
	TopicName string `json:"topic_name" validate:"required"`
}

type embeddingPayload struct {
	ID        *int     `json:"id" validate:"required"`
	Label     *int     `json:"label" validate:"required,oneof=0 1"`
	PredLabel *int     `json:"pred_label" validate:"required,oneof=0 1"`
	Correct   string   `json:"correct" validate:"required,oneof=True False"`
	TnseX     *float64 `json:"tnse_x" validate:"required"`
	TnseY     *float64 `json:"tnse_y" validate:"required"`
}

type distributionPayload struct {
	MisinfoCount *int `json:"misinfo_count" validate:"required,gte=0"`
	TrueCount    *int `json:"true_count" validate:"required,gte=0"`
	Total        *int `json:"total" validate:"required,gte=0"`
}

// createPostRequest is the body of POST /api/posts
type createPostRequest struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}
