package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/collector"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory posts API
type fakeAPI struct {
	mu         sync.Mutex
	posts      []models.Post
	pageCalls  []int
	postCalls  int
	failPages  map[int]error
	uploadErr  error
	embeddings []models.TNSEEmbedding
	activities []models.TopicActivity
	dataCalls  int
}

func (f *fakeAPI) FetchPosts(_ context.Context, page, size int) (*api.PostResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls = append(f.pageCalls, page)
	if err := f.failPages[page]; err != nil {
		return nil, err
	}

	pages := (len(f.posts) + size - 1) / size
	start := min((page-1)*size, len(f.posts))
	end := min(start+size, len(f.posts))
	return &api.PostResponse{Posts: append([]models.Post(nil), f.posts[start:end]...), PageCount: pages}, nil
}

func (f *fakeAPI) FetchPost(_ context.Context, id string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postCalls++
	for i := range f.posts {
		if f.posts[i].ID == id {
			p := f.posts[i]
			return &p, nil
		}
	}
	return nil, &api.DetailedError{Title: "Post not found", StatusCode: 404}
}

func (f *fakeAPI) UploadPost(_ context.Context, message, username string) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	p := models.Post{ID: fmt.Sprintf("new-%d", len(f.posts)), Message: message, Username: username, Date: time.Now()}
	f.posts = append([]models.Post{p}, f.posts...)
	return &p, nil
}

func (f *fakeAPI) FetchTNSEEmbeddings(context.Context) ([]models.TNSEEmbedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	return f.embeddings, nil
}

func (f *fakeAPI) FetchTopicActivities(context.Context) ([]models.TopicActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	return f.activities, nil
}

func state(v int) *int { return &v }

func makePosts(n int) []models.Post {
	posts := make([]models.Post, n)
	for i := range posts {
		posts[i] = models.Post{ID: fmt.Sprintf("p%03d", i), Message: "m", Username: "u"}
		switch i % 3 {
		case 0:
			posts[i].MisinfoState = state(1)
		case 1:
			posts[i].MisinfoState = state(0)
		}
	}
	return posts
}

func TestPageUsesCache(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(25)}
	svc := NewPostService(fake)
	ctx := context.Background()

	first, err := svc.Page(ctx, 1, 10)
	require.NoError(t, err)
	again, err := svc.Page(ctx, 1, 10)
	require.NoError(t, err)

	assert.Same(t, first, again)
	assert.Equal(t, 3, first.PageCount)
	assert.Equal(t, []int{1}, fake.pageCalls)

	_, err = svc.Page(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, svc.CachedPages())
}

func TestPageErrorNotCached(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(5), failPages: map[int]error{1: errors.New("down")}}
	svc := NewPostService(fake)

	_, err := svc.Page(context.Background(), 1, 10)
	assert.Error(t, err)
	assert.Equal(t, 0, svc.CachedPages())
}

func TestUploadInvalidatesPages(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(12)}
	svc := NewPostService(fake)
	ctx := context.Background()

	_, err := svc.Page(ctx, 1, 10)
	require.NoError(t, err)
	_, err = svc.Page(ctx, 2, 10)
	require.NoError(t, err)
	require.Equal(t, 2, svc.CachedPages())

	post, err := svc.Upload(ctx, "hi", "bob")
	require.NoError(t, err)
	assert.Equal(t, "hi", post.Message)
	assert.Equal(t, 0, svc.CachedPages())

	page, err := svc.Page(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, post.ID, page.Posts[0].ID)
	assert.Equal(t, []int{1, 2, 1}, fake.pageCalls)

	got, err := svc.Post(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Zero(t, fake.postCalls)
}

func TestUploadFailureKeepsCache(t *testing.T) {
	malformed := &api.DetailedError{Title: "Post was uploaded, but could not provide details"}
	fake := &fakeAPI{posts: makePosts(3), uploadErr: malformed}
	svc := NewPostService(fake)
	ctx := context.Background()

	_, err := svc.Page(ctx, 1, 10)
	require.NoError(t, err)

	post, err := svc.Upload(ctx, "hi", "bob")
	assert.Nil(t, post)

	var de *api.DetailedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "Post was uploaded, but could not provide details", de.Title)
	assert.Equal(t, 1, svc.CachedPages())
}

func TestUploadValidatesLocally(t *testing.T) {
	fake := &fakeAPI{}
	svc := NewPostService(fake)

	tests := []struct {
		name     string
		message  string
		username string
		title    string
	}{
		{"empty message", "", "bob", "Invalid message"},
		{"long message", strings.Repeat("a", 257), "bob", "Invalid message"},
		{"empty username", "hi", "", "Invalid username"},
		{"long username", "hi", strings.Repeat("b", 65), "Invalid username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.message, tt.username)
			var de *api.DetailedError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.title, de.Title)
		})
	}
	assert.Empty(t, fake.posts)

	_, err := svc.Upload(context.Background(), strings.Repeat("é", 256), strings.Repeat("z", 64))
	assert.NoError(t, err)
}

func TestPostCachesSinglePost(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(3)}
	svc := NewPostService(fake)

	for i := 0; i < 3; i++ {
		p, err := svc.Post(context.Background(), "p001")
		require.NoError(t, err)
		assert.Equal(t, "p001", p.ID)
	}
	assert.Equal(t, 1, fake.postCalls)

	_, err := svc.Post(context.Background(), "nope")
	assert.True(t, api.IsNotFound(err))
}

func instantCollector() collector.Collector {
	c := collector.New(50, collector.DefaultDelay)
	c.Sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return c
}

func TestMisinfoDistribution125Posts(t *testing.T) {
	posts := makePosts(125)
	fake := &fakeAPI{posts: posts}
	svc := NewResearchService(fake, instantCollector())

	var progress []int
	report, err := svc.MisinfoDistribution(context.Background(), collector.NewToken(), func(cur, total int) {
		progress = append(progress, cur)
		assert.Equal(t, 3, total)
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, fake.pageCalls)
	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.Equal(t, analytics.TallyMisinformation(posts), report.Distribution)
	assert.Equal(t, 42, report.MisinfoCount)
	assert.Equal(t, 42, report.TrueCount)
	assert.Equal(t, 125, report.Posts)
	assert.Equal(t, 3, report.Pages)
}

func TestMisinfoDistributionSkipsFailedPage(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(125), failPages: map[int]error{2: errors.New("timeout")}}
	svc := NewResearchService(fake, instantCollector())

	report, err := svc.MisinfoDistribution(context.Background(), nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Failed, 1)
	assert.Equal(t, 2, report.Failed[0].Page)
	assert.Equal(t, 75, report.Posts)
	assert.Equal(t, analytics.TallyMisinformation(append(makePosts(125)[:50:50], makePosts(125)[100:]...)), report.Distribution)
}

func TestMisinfoDistributionFirstPageFails(t *testing.T) {
	cause := &api.DetailedError{Title: api.DefaultErrorTitle, Description: "connection refused"}
	fake := &fakeAPI{posts: makePosts(10), failPages: map[int]error{1: cause}}
	svc := NewResearchService(fake, instantCollector())

	_, err := svc.MisinfoDistribution(context.Background(), nil, nil)
	var de *api.DetailedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "connection refused", de.Description)
}

func TestMisinfoDistributionCancelled(t *testing.T) {
	fake := &fakeAPI{posts: makePosts(300)}
	svc := NewResearchService(fake, instantCollector())
	token := collector.NewToken()

	_, err := svc.MisinfoDistribution(context.Background(), token, func(cur, _ int) {
		if cur == 2 {
			token.Cancel()
		}
	})
	assert.ErrorIs(t, err, collector.ErrCancelled)
	assert.Equal(t, []int{1, 2}, fake.pageCalls)
}

func TestTopicSunburst(t *testing.T) {
	fake := &fakeAPI{activities: []models.TopicActivity{
		{DBID: 1, Date: "2016-04-01", TopicName: "a"},
		{DBID: 2, Date: "2020-04-01", TopicName: "b"},
	}}
	svc := NewResearchService(fake, instantCollector())

	nodes, err := svc.TopicSunburst(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 1, nodes[0].Total())

	_, err = svc.TopicSunburst(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.dataCalls)
}

func TestScatterFetchesOnce(t *testing.T) {
	fake := &fakeAPI{embeddings: []models.TNSEEmbedding{
		{ID: 1, Label: 0, PredLabel: 0, Correct: "True"},
		{ID: 2, Label: 1, PredLabel: 0, Correct: "False"},
	}}
	svc := NewResearchService(fake, instantCollector())

	series, summary, err := svc.Scatter(context.Background(), analytics.GroupByLabel)
	require.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, analytics.PredictionSummary{Correct: 1, Incorrect: 1}, summary)

	series, _, err = svc.Scatter(context.Background(), analytics.GroupByPredLabel)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "Pred: 0", series[0].Name)
	assert.Equal(t, 1, fake.dataCalls)
}
