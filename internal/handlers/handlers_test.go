package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/cache"
	"github.com/jedsaxon/misinfodetector/internal/database"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// HandlersTestSuite runs the HTTP API against an in-memory SQLite database
type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *HandlersTestSuite) SetupTest() {
	db, err := database.Open("sqlite", ":memory:", false)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), database.MigrateDB(db))

	database.DB = db
	cache.SetRedisClient(nil)
	suite.db = db

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	NewHandlers(db).RegisterRoutes(suite.router, time.Minute)
}

func (suite *HandlersTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
	database.DB = nil
}

func (suite *HandlersTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		var raw []byte
		switch b := body.(type) {
		case string:
			raw = []byte(b)
		default:
			var err error
			raw, err = json.Marshal(b)
			require.NoError(suite.T(), err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func intPtr(v int) *int { return &v }

func (suite *HandlersTestSuite) seedPosts(n int) []models.Post {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{
			Message:  fmt.Sprintf("post %d", i),
			Username: "seed",
			Date:     base.Add(time.Duration(i) * time.Minute),
		}
		switch i % 3 {
		case 0:
			posts[i].MisinfoState = intPtr(models.MisinfoStateFlagged)
		case 1:
			posts[i].MisinfoState = intPtr(models.MisinfoStateFactual)
		}
	}
	require.NoError(suite.T(), suite.db.Create(&posts).Error)
	return posts
}

func (suite *HandlersTestSuite) TestListPostsEmpty() {
	w := suite.do(http.MethodGet, "/api/posts", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var resp PostListResponse
	suite.decode(w, &resp)
	assert.Empty(suite.T(), resp.Posts)
	assert.Equal(suite.T(), 0, resp.Pages)
	assert.Contains(suite.T(), w.Body.String(), `"posts":[]`)
}

func (suite *HandlersTestSuite) TestListPostsPaging() {
	suite.seedPosts(25)

	w := suite.do(http.MethodGet, "/api/posts?pageNumber=1&resultAmount=10", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var first PostListResponse
	suite.decode(w, &first)
	assert.Equal(suite.T(), 3, first.Pages)
	require.Len(suite.T(), first.Posts, 10)
	assert.Equal(suite.T(), "post 24", first.Posts[0].Message)
	for i := 1; i < len(first.Posts); i++ {
		assert.False(suite.T(), first.Posts[i].Date.After(first.Posts[i-1].Date), "posts must be newest first")
	}

	w = suite.do(http.MethodGet, "/api/posts?pageNumber=3&resultAmount=10", nil)
	var last PostListResponse
	suite.decode(w, &last)
	assert.Len(suite.T(), last.Posts, 5)
	assert.Equal(suite.T(), "post 0", last.Posts[4].Message)

	w = suite.do(http.MethodGet, "/api/posts?pageNumber=9&resultAmount=10", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var beyond PostListResponse
	suite.decode(w, &beyond)
	assert.Empty(suite.T(), beyond.Posts)
	assert.Equal(suite.T(), 3, beyond.Pages)
}

func (suite *HandlersTestSuite) TestListPostsHugePageNumber() {
	suite.seedPosts(25)

	// (p-1)*10 wraps to a small offset when multiplied as int
	w := suite.do(http.MethodGet, "/api/posts?pageNumber=1844674407370955163&resultAmount=10", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var resp PostListResponse
	suite.decode(w, &resp)
	assert.Empty(suite.T(), resp.Posts)
	assert.Equal(suite.T(), 3, resp.Pages)
}

func (suite *HandlersTestSuite) TestListPostsCapsResultAmount() {
	suite.seedPosts(5)

	w := suite.do(http.MethodGet, "/api/posts?resultAmount=5000", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var resp PostListResponse
	suite.decode(w, &resp)
	assert.Len(suite.T(), resp.Posts, 5)
	assert.Equal(suite.T(), 1, resp.Pages)
}

func (suite *HandlersTestSuite) TestListPostsRejectsBadQuery() {
	for _, query := range []string{"pageNumber=abc", "pageNumber=0", "resultAmount=-1", "resultAmount=x"} {
		w := suite.do(http.MethodGet, "/api/posts?"+query, nil)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, query)

		var body map[string]string
		suite.decode(w, &body)
		assert.NotEmpty(suite.T(), body["title"], query)
		assert.NotEmpty(suite.T(), body["description"], query)
	}
}

func (suite *HandlersTestSuite) TestCreatePost() {
	for _, method := range []string{http.MethodPost, http.MethodPut} {
		w := suite.do(method, "/api/posts", CreatePostRequest{Message: "hello world", Username: "ada"})
		require.Equal(suite.T(), http.StatusCreated, w.Code, method)

		var env PostEnvelope
		suite.decode(w, &env)
		assert.Equal(suite.T(), "Post created", env.Message)
		require.NotNil(suite.T(), env.Post)
		assert.Equal(suite.T(), "hello world", env.Post.Message)
		assert.Equal(suite.T(), "ada", env.Post.Username)
		assert.False(suite.T(), env.Post.Classified())
		_, err := uuid.Parse(env.Post.ID)
		assert.NoError(suite.T(), err)
	}

	var count int64
	suite.db.Model(&models.Post{}).Count(&count)
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *HandlersTestSuite) TestCreatePostValidation() {
	tests := []struct {
		name  string
		body  interface{}
		field string
	}{
		{"empty message", CreatePostRequest{Message: "", Username: "ada"}, "message"},
		{"long message", CreatePostRequest{Message: strings.Repeat("a", 257), Username: "ada"}, "message"},
		{"empty username", CreatePostRequest{Message: "hi", Username: ""}, "username"},
		{"long username", CreatePostRequest{Message: "hi", Username: strings.Repeat("u", 65)}, "username"},
		{"malformed json", "{not json", ""},
	}

	for _, tt := range tests {
		w := suite.do(http.MethodPost, "/api/posts", tt.body)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, tt.name)

		var body map[string]string
		suite.decode(w, &body)
		assert.NotEmpty(suite.T(), body["title"], tt.name)
		assert.NotEmpty(suite.T(), body["description"], tt.name)
		assert.Equal(suite.T(), tt.field, body["field"], tt.name)
	}

	var count int64
	suite.db.Model(&models.Post{}).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *HandlersTestSuite) TestCreatePostAcceptsLimits() {
	w := suite.do(http.MethodPost, "/api/posts", CreatePostRequest{
		Message:  strings.Repeat("é", 256),
		Username: strings.Repeat("u", 64),
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestGetPost() {
	posts := suite.seedPosts(2)

	w := suite.do(http.MethodGet, "/api/posts/"+posts[1].ID, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var env PostEnvelope
	suite.decode(w, &env)
	require.NotNil(suite.T(), env.Post)
	assert.Equal(suite.T(), posts[1].ID, env.Post.ID)
	assert.Equal(suite.T(), "post 1", env.Post.Message)

	w = suite.do(http.MethodGet, "/api/posts/not-a-uuid", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/posts/"+uuid.New().String(), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	var body map[string]string
	suite.decode(w, &body)
	assert.Equal(suite.T(), "NOT_FOUND", body["code"])
}

func (suite *HandlersTestSuite) TestMisinfoDistribution() {
	suite.seedPosts(9) // 3 flagged, 3 factual, 3 unclassified

	w := suite.do(http.MethodGet, "/api/data/misinfo-distribution", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var dist analytics.Distribution
	suite.decode(w, &dist)
	assert.Equal(suite.T(), analytics.Distribution{MisinfoCount: 3, TrueCount: 3, Total: 6}, dist)
}

func (suite *HandlersTestSuite) seedResearch() {
	activities := []models.TopicActivity{
		{DBID: 1, Date: "2016-01-04", TopicID: 1, TopicName: "election"},
		{DBID: 2, Date: "2016-01-09", TopicID: 1, TopicName: "election"},
		{DBID: 3, Date: "2017-03-02", TopicID: 2, TopicName: "health"},
	}
	require.NoError(suite.T(), suite.db.Create(&activities).Error)

	points := []models.TNSEEmbedding{
		{ID: 1, Label: 0, PredLabel: 0, Correct: "True", TnseX: 1, TnseY: 2},
		{ID: 2, Label: 1, PredLabel: 0, Correct: "False", TnseX: -1, TnseY: 0.5},
		{ID: 3, Label: 1, PredLabel: 1, Correct: "True", TnseX: 3, TnseY: -2},
	}
	require.NoError(suite.T(), suite.db.Create(&points).Error)
}

func (suite *HandlersTestSuite) TestResearchData() {
	suite.seedResearch()

	w := suite.do(http.MethodGet, "/api/data/tnse-embeddings", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var points []models.TNSEEmbedding
	suite.decode(w, &points)
	assert.Len(suite.T(), points, 3)

	w = suite.do(http.MethodGet, "/api/data/topic-activities", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var activities []models.TopicActivity
	suite.decode(w, &activities)
	require.Len(suite.T(), activities, 3)
	assert.Equal(suite.T(), 1, activities[0].DBID)
}

func (suite *HandlersTestSuite) TestResearchDataEmpty() {
	for _, path := range []string{"/api/data/tnse-embeddings", "/api/data/topic-activities", "/api/data/topic-sunburst", "/api/data/tnse-series"} {
		w := suite.do(http.MethodGet, path, nil)
		require.Equal(suite.T(), http.StatusOK, w.Code, path)
		assert.Equal(suite.T(), "[]", w.Body.String(), path)
	}
}

func (suite *HandlersTestSuite) TestTopicSunburst() {
	suite.seedResearch()

	w := suite.do(http.MethodGet, "/api/data/topic-sunburst", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var nodes []analytics.SunburstNode
	suite.decode(w, &nodes)
	require.Len(suite.T(), nodes, 2)
	assert.Equal(suite.T(), "2016", nodes[0].Name)
	assert.Equal(suite.T(), 2, nodes[0].Total())
	assert.Equal(suite.T(), "2017", nodes[1].Name)
	assert.Equal(suite.T(), 1, nodes[1].Total())
}

func (suite *HandlersTestSuite) TestTNSESeries() {
	suite.seedResearch()

	w := suite.do(http.MethodGet, "/api/data/tnse-series?group=correctness", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	var series []analytics.ScatterSeries
	suite.decode(w, &series)
	require.Len(suite.T(), series, 2)

	total := 0
	for _, s := range series {
		total += len(s.Points)
	}
	assert.Equal(suite.T(), 3, total)

	w = suite.do(http.MethodGet, "/api/data/tnse-series?group=colour", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	var body map[string]interface{}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "healthy", body["status"])
	checks, ok := body["checks"].(map[string]interface{})
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), "disabled", checks["cache"])
}

func (suite *HandlersTestSuite) TestHealthDatabaseDown() {
	sqlDB, err := suite.db.DB()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), sqlDB.Close())

	w := suite.do(http.MethodGet, "/health", nil)
	require.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
		Error  map[string]string `json:"error"`
	}
	suite.decode(w, &body)
	assert.Equal(suite.T(), "unhealthy", body.Status)
	assert.Equal(suite.T(), "unavailable", body.Checks["database"])
	assert.Equal(suite.T(), "SERVICE_UNAVAILABLE", body.Error["code"])
	assert.Equal(suite.T(), "Service unavailable", body.Error["title"])
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, pageCount(0, 10))
	assert.Equal(t, 1, pageCount(10, 10))
	assert.Equal(t, 3, pageCount(25, 10))
	assert.Equal(t, 13, pageCount(125, 10))
}
