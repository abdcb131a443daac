package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jedsaxon/misinfodetector/internal/logger"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Topics used for generated topic activity records
var Topics = []string{"election", "health", "immigration", "climate", "economy", "celebrity"}

const batchSize = 100

// Seeder fills a database with fixture data
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// SeedDev seeds a development database with a browsable feed and research data
func (s *Seeder) SeedDev() error {
	steps := []struct {
		name  string
		count int
		run   func(int) error
	}{
		{"posts", 120, s.SeedPosts},
		{"topic activities", 400, s.SeedTopicActivities},
		{"embeddings", 300, s.SeedEmbeddings},
	}

	for _, step := range steps {
		logger.InfoWithFields("Seeding", zap.String("table", step.name), zap.Int("count", step.count))
		if err := step.run(step.count); err != nil {
			return fmt.Errorf("failed to seed %s: %w", step.name, err)
		}
	}
	return nil
}

// SeedPosts creates count posts dated within the last 30 days. Roughly a third
// are left unclassified; the rest get a random state and confidence.
func (s *Seeder) SeedPosts(count int) error {
	now := time.Now().UTC()
	posts := make([]models.Post, 0, count)

	for i := 0; i < count; i++ {
		post := models.Post{
			Message:  randomMessage(),
			Username: truncate(gofakeit.Name(), models.MaxUsernameLength),
			Date:     gofakeit.DateRange(now.AddDate(0, 0, -30), now).UTC(),
		}
		if gofakeit.Number(0, 2) > 0 {
			state := models.MisinfoStateFactual
			if gofakeit.Bool() {
				state = models.MisinfoStateFlagged
			}
			confidence := gofakeit.Float64Range(0.5, 1)
			post.MisinfoState = &state
			post.Confidence = &confidence
		}
		posts = append(posts, post)
	}

	return s.db.CreateInBatches(&posts, batchSize).Error
}

// SeedTopicActivities creates count records spread across 2016 and 2017
func (s *Seeder) SeedTopicActivities(count int) error {
	start := time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2017, 12, 31, 23, 59, 59, 0, time.UTC)

	activities := make([]models.TopicActivity, 0, count)
	for i := 0; i < count; i++ {
		topicID := gofakeit.Number(0, len(Topics)-1)
		activities = append(activities, models.TopicActivity{
			Date:      gofakeit.DateRange(start, end).Format("2006-01-02"),
			Text:      gofakeit.HipsterSentence(),
			TopicID:   topicID,
			TopicName: Topics[topicID],
		})
	}

	return s.db.CreateInBatches(&activities, batchSize).Error
}

// SeedEmbeddings creates count points in two noisy clusters, one per true label.
// About four in five predictions match the label.
func (s *Seeder) SeedEmbeddings(count int) error {
	centers := [2][2]float64{{-20, -10}, {15, 12}}

	points := make([]models.TNSEEmbedding, 0, count)
	for i := 0; i < count; i++ {
		label := gofakeit.Number(0, 1)
		pred := label
		if gofakeit.Number(1, 5) == 1 {
			pred = 1 - label
		}
		correct := "False"
		if pred == label {
			correct = "True"
		}
		points = append(points, models.TNSEEmbedding{
			Label:     label,
			PredLabel: pred,
			Correct:   correct,
			TnseX:     centers[label][0] + gofakeit.Float64Range(-12, 12),
			TnseY:     centers[label][1] + gofakeit.Float64Range(-12, 12),
		})
	}

	return s.db.CreateInBatches(&points, batchSize).Error
}

// Clean removes all posts and research data
func (s *Seeder) Clean() error {
	for _, model := range []interface{}{&models.Post{}, &models.TopicActivity{}, &models.TNSEEmbedding{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clean %T: %w", model, err)
		}
	}
	return nil
}

// randomMessage joins one to three sentences, kept within the post length limit
func randomMessage() string {
	n := gofakeit.Number(1, 3)
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = gofakeit.HipsterSentence()
	}
	return truncate(strings.Join(sentences, " "), models.MaxMessageLength)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
