package service

import (
	"context"
	"fmt"

	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/logger"
	"github.com/jedsaxon/misinfodetector/internal/collector"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/querycache"
)

// Cache resources of the research dashboard
const (
	ResourceEmbeddings      = "tnse-embeddings"
	ResourceTopicActivities = "topic-activities"
)

// ResearchAPI is the part of the API client the research dashboard needs
type ResearchAPI interface {
	FetchPosts(ctx context.Context, pageNumber, resultAmount int) (*api.PostResponse, error)
	FetchTNSEEmbeddings(ctx context.Context) ([]models.TNSEEmbedding, error)
	FetchTopicActivities(ctx context.Context) ([]models.TopicActivity, error)
}

// DistributionReport is the pie chart data plus how the collection went
type DistributionReport struct {
	analytics.Distribution
	Pages  int
	Posts  int
	Failed []collector.PageFailure
}

// ResearchService builds the research dashboard charts
type ResearchService struct {
	api        ResearchAPI
	collector  collector.Collector
	embeddings *querycache.Cache[[]models.TNSEEmbedding]
	activities *querycache.Cache[[]models.TopicActivity]
}

// NewResearchService creates a research service that pages through posts with c
func NewResearchService(client ResearchAPI, c collector.Collector) *ResearchService {
	return &ResearchService{
		api:        client,
		collector:  c,
		embeddings: querycache.New[[]models.TNSEEmbedding](),
		activities: querycache.New[[]models.TopicActivity](),
	}
}

// MisinfoDistribution fetches every page of posts, oldest page first, and
// tallies flagged against factual posts. Failed pages are logged and skipped.
func (s *ResearchService) MisinfoDistribution(ctx context.Context, token *collector.Token, progress collector.ProgressFunc) (*DistributionReport, error) {
	fetch := func(ctx context.Context, page, size int) ([]models.Post, int, error) {
		resp, err := s.api.FetchPosts(ctx, page, size)
		if err != nil {
			return nil, 0, err
		}
		return resp.Posts, resp.PageCount, nil
	}

	result, err := collector.Collect(ctx, s.collector, token, fetch, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to collect posts: %w", err)
	}

	for _, f := range result.Failed {
		logger.Warn("Skipping page of posts", "page", f.Page, "error", f.Err)
	}

	return &DistributionReport{
		Distribution: analytics.TallyMisinformation(result.Items),
		Pages:        result.Pages,
		Posts:        len(result.Items),
		Failed:       result.Failed,
	}, nil
}

// TopicSunburst builds the year/month/topic hierarchy
func (s *ResearchService) TopicSunburst(ctx context.Context) ([]analytics.SunburstNode, error) {
	activities, err := s.topicActivities(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.BuildSunburst(activities), nil
}

// Scatter groups embeddings by key. Embeddings are fetched once per service.
func (s *ResearchService) Scatter(ctx context.Context, key analytics.GroupKey) ([]analytics.ScatterSeries, analytics.PredictionSummary, error) {
	points, err := s.tnseEmbeddings(ctx)
	if err != nil {
		return nil, analytics.PredictionSummary{}, err
	}
	return analytics.GroupEmbeddings(points, key), analytics.SummarizePredictions(points), nil
}

func (s *ResearchService) tnseEmbeddings(ctx context.Context) ([]models.TNSEEmbedding, error) {
	key := querycache.NewKey(ResourceEmbeddings, nil)
	if points, ok := s.embeddings.Get(key); ok {
		return points, nil
	}
	points, err := s.api.FetchTNSEEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	s.embeddings.Put(key, points)
	return points, nil
}

func (s *ResearchService) topicActivities(ctx context.Context) ([]models.TopicActivity, error) {
	key := querycache.NewKey(ResourceTopicActivities, nil)
	if activities, ok := s.activities.Get(key); ok {
		return activities, nil
	}
	activities, err := s.api.FetchTopicActivities(ctx)
	if err != nil {
		return nil, err
	}
	s.activities.Put(key, activities)
	return activities, nil
}
