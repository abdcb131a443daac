package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/cli/logger"
	"github.com/jedsaxon/misinfodetector/internal/models"
	json "github.com/json-iterator/go"
)

// Client calls the posts API. Every method returns either a value or a *DetailedError.
type Client struct {
	http *resty.Client
}

// NewClient wraps a configured resty client
func NewClient(http *resty.Client) *Client {
	return &Client{http: http}
}

// get performs a GET and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	return checkResponse(resp, err)
}

func checkResponse(resp *resty.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, transportError(err)
	}
	if !resp.IsSuccess() {
		return nil, ParseError(resp)
	}
	return resp.Body(), nil
}

// decode unmarshals and validates body into target
func decode(body []byte, target interface{}) error {
	if err := json.Unmarshal(body, target); err != nil {
		return err
	}
	return validate.Struct(target)
}

// FetchPosts loads one 1-indexed page of posts
func (c *Client) FetchPosts(ctx context.Context, pageNumber, resultAmount int) (*PostResponse, error) {
	logger.Debug("Fetching posts", "page", pageNumber, "size", resultAmount)

	body, err := c.get(ctx, "/api/posts", map[string]string{
		"pageNumber":   strconv.Itoa(pageNumber),
		"resultAmount": strconv.Itoa(resultAmount),
	})
	if err != nil {
		return nil, err
	}

	var payload postListPayload
	if err := decode(body, &payload); err != nil {
		return nil, malformedPosts(err)
	}

	posts := make([]models.Post, 0, len(payload.Posts))
	for _, p := range payload.Posts {
		post, err := p.toModel()
		if err != nil {
			return nil, malformedPosts(err)
		}
		posts = append(posts, post)
	}

	return &PostResponse{Posts: posts, PageCount: *payload.Pages}, nil
}

func malformedPosts(err error) *DetailedError {
	return malformed("Unknown error occurred",
		fmt.Sprintf("Data was malformed - cannot display posts: %v", err), err)
}

// FetchPost loads a single post by id
func (c *Client) FetchPost(ctx context.Context, id string) (*models.Post, error) {
	logger.Debug("Fetching post", "id", id)

	body, err := c.get(ctx, "/api/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	post, err := decodeEnvelope(body)
	if err != nil {
		return nil, malformed("This post was found, but could not be processed",
			fmt.Sprintf("Data was malformed: %v", err), err)
	}
	return post, nil
}

// UploadPost submits a new post and returns it as stored by the server
func (c *Client) UploadPost(ctx context.Context, message, username string) (*models.Post, error) {
	logger.Debug("Uploading post", "username", username)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(createPostRequest{Message: message, Username: username}).
		Post("/api/posts")
	body, err := checkResponse(resp, err)
	if err != nil {
		return nil, err
	}

	post, err := decodeEnvelope(body)
	if err != nil {
		logger.Error("Upload response failed validation", "error", err)
		return nil, malformed("Post was uploaded, but could not provide details",
			"There was an issue with the response payload, after receiving confirmation that it uploaded.", err)
	}
	return post, nil
}

func decodeEnvelope(body []byte) (*models.Post, error) {
	var envelope postEnvelope
	if err := decode(body, &envelope); err != nil {
		return nil, err
	}
	post, err := envelope.Post.toModel()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FetchTNSEEmbeddings loads every embedding point
func (c *Client) FetchTNSEEmbeddings(ctx context.Context) ([]models.TNSEEmbedding, error) {
	body, err := c.get(ctx, "/api/data/tnse-embeddings", nil)
	if err != nil {
		return nil, err
	}

	var payload []embeddingPayload
	if err := decodeList(body, &payload); err != nil {
		return nil, malformed("Unknown error occurred",
			fmt.Sprintf("Data was malformed - cannot display embeddings: %v", err), err)
	}

	points := make([]models.TNSEEmbedding, len(payload))
	for i, p := range payload {
		points[i] = models.TNSEEmbedding{
			ID:        *p.ID,
			Label:     *p.Label,
			PredLabel: *p.PredLabel,
			Correct:   p.Correct,
			TnseX:     *p.TnseX,
			TnseY:     *p.TnseY,
		}
	}
	return points, nil
}

// FetchTopicActivities loads every topic activity record
func (c *Client) FetchTopicActivities(ctx context.Context) ([]models.TopicActivity, error) {
	body, err := c.get(ctx, "/api/data/topic-activities", nil)
	if err != nil {
		return nil, err
	}

	var payload []topicActivityPayload
	if err := decodeList(body, &payload); err != nil {
		return nil, malformed("Unknown error occurred",
			fmt.Sprintf("Data was malformed - cannot display topic activities: %v", err), err)
	}

	activities := make([]models.TopicActivity, len(payload))
	for i, a := range payload {
		activities[i] = models.TopicActivity{
			DBID:      *a.DBID,
			Date:      a.Date,
			Text:      a.Text,
			TopicID:   *a.TopicID,
			TopicName: a.TopicName,
		}
	}
	return activities, nil
}

// FetchMisinfoDistribution loads the server-side flagged/factual counts
func (c *Client) FetchMisinfoDistribution(ctx context.Context) (*analytics.Distribution, error) {
	body, err := c.get(ctx, "/api/data/misinfo-distribution", nil)
	if err != nil {
		return nil, err
	}

	var payload distributionPayload
	if err := decode(body, &payload); err != nil {
		return nil, malformed("Unknown error occurred",
			fmt.Sprintf("Data was malformed - cannot display distribution: %v", err), err)
	}
	return &analytics.Distribution{
		MisinfoCount: *payload.MisinfoCount,
		TrueCount:    *payload.TrueCount,
		Total:        *payload.Total,
	}, nil
}

// decodeList unmarshals a JSON array and validates each element
func decodeList[T any](body []byte, target *[]T) error {
	if err := json.Unmarshal(body, target); err != nil {
		return err
	}
	if *target == nil {
		return fmt.Errorf("expected a JSON array")
	}
	for i := range *target {
		if err := validate.Struct(&(*target)[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}
