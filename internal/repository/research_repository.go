package repository

import (
	"context"
	"fmt"

	"github.com/jedsaxon/misinfodetector/internal/models"
	"gorm.io/gorm"
)

// ResearchRepository reads the precomputed analytics tables
type ResearchRepository interface {
	ListTopicActivities(ctx context.Context) ([]models.TopicActivity, error)
	ListTNSEEmbeddings(ctx context.Context) ([]models.TNSEEmbedding, error)
}

type researchRepository struct {
	db *gorm.DB
}

// NewResearchRepository creates a new research repository
func NewResearchRepository(db *gorm.DB) ResearchRepository {
	return &researchRepository{db: db}
}

func (r *researchRepository) ListTopicActivities(ctx context.Context) ([]models.TopicActivity, error) {
	activities := []models.TopicActivity{}
	if err := r.db.WithContext(ctx).Order("db_id").Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to list topic activities: %w", err)
	}
	return activities, nil
}

func (r *researchRepository) ListTNSEEmbeddings(ctx context.Context) ([]models.TNSEEmbedding, error) {
	embeddings := []models.TNSEEmbedding{}
	if err := r.db.WithContext(ctx).Order("id").Find(&embeddings).Error; err != nil {
		return nil, fmt.Errorf("failed to list embeddings: %w", err)
	}
	return embeddings, nil
}
