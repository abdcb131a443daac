package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/metrics"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/telemetry"
	"github.com/jedsaxon/misinfodetector/internal/util"
	"go.opentelemetry.io/otel/attribute"
)

// ListTNSEEmbeddings returns every embedding point
// GET /api/data/tnse-embeddings
func (h *Handlers) ListTNSEEmbeddings(c *gin.Context) {
	points, err := h.research.ListTNSEEmbeddings(c.Request.Context())
	if util.HandleDBError(c, err, "embeddings") {
		return
	}
	if points == nil {
		points = []models.TNSEEmbedding{}
	}
	c.JSON(http.StatusOK, points)
}

// ListTopicActivities returns every topic activity record
// GET /api/data/topic-activities
func (h *Handlers) ListTopicActivities(c *gin.Context) {
	activities, err := h.research.ListTopicActivities(c.Request.Context())
	if util.HandleDBError(c, err, "topic activities") {
		return
	}
	if activities == nil {
		activities = []models.TopicActivity{}
	}
	c.JSON(http.StatusOK, activities)
}

// MisinfoDistribution counts flagged and factual posts in the database
// GET /api/data/misinfo-distribution
func (h *Handlers) MisinfoDistribution(c *gin.Context) {
	var dist analytics.Distribution
	err := buildChart(c.Request.Context(), "distribution", func(ctx context.Context) error {
		misinfo, factual, err := h.posts.CountByState(ctx)
		if err != nil {
			return err
		}
		dist = analytics.Distribution{
			MisinfoCount: int(misinfo),
			TrueCount:    int(factual),
			Total:        int(misinfo + factual),
		}
		return nil
	})
	if util.HandleDBError(c, err, "posts") {
		return
	}
	c.JSON(http.StatusOK, dist)
}

// TopicSunburst returns the year → month → topic hierarchy
// GET /api/data/topic-sunburst
func (h *Handlers) TopicSunburst(c *gin.Context) {
	var nodes []analytics.SunburstNode
	err := buildChart(c.Request.Context(), "sunburst", func(ctx context.Context) error {
		activities, err := h.research.ListTopicActivities(ctx)
		if err != nil {
			return err
		}
		nodes = analytics.BuildSunburst(activities)
		return nil
	})
	if util.HandleDBError(c, err, "topic activities") {
		return
	}
	if nodes == nil {
		nodes = []analytics.SunburstNode{}
	}
	c.JSON(http.StatusOK, nodes)
}

// TNSESeries returns embeddings grouped into coloured series
// GET /api/data/tnse-series?group=correctness|label|pred_label
func (h *Handlers) TNSESeries(c *gin.Context) {
	key, err := analytics.ParseGroupKey(c.DefaultQuery("group", string(analytics.GroupByCorrectness)))
	if err != nil {
		util.RespondBadRequest(c, "Invalid group", err.Error())
		return
	}

	var series []analytics.ScatterSeries
	err = buildChart(c.Request.Context(), "scatter", func(ctx context.Context) error {
		points, err := h.research.ListTNSEEmbeddings(ctx)
		if err != nil {
			return err
		}
		series = analytics.GroupEmbeddings(points, key)
		return nil
	}, attribute.String("analytics.group", string(key)))
	if util.HandleDBError(c, err, "embeddings") {
		return
	}
	if series == nil {
		series = []analytics.ScatterSeries{}
	}
	c.JSON(http.StatusOK, series)
}

// buildChart runs build inside a span and records its duration
func buildChart(ctx context.Context, chart string, build func(context.Context) error, attrs ...attribute.KeyValue) error {
	start := time.Now()
	attrs = append(attrs, attribute.String("analytics.chart", chart))
	ctx, span := telemetry.StartSpan(ctx, "analytics."+chart, attrs...)

	err := build(ctx)

	telemetry.EndSpan(span, err)
	metrics.Get().AnalyticsBuildTime.WithLabelValues(chart).Observe(time.Since(start).Seconds())
	return err
}
