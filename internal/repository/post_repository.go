package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedsaxon/misinfodetector/internal/models"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidInput = errors.New("invalid input")
)

// PostRepository handles all database operations for posts
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, postID string) (*models.Post, error)

	// ListPosts returns one 1-indexed page of posts, newest first, and the total post count
	ListPosts(ctx context.Context, pageNumber, resultAmount int) ([]models.Post, int64, error)

	// CountByState returns the number of flagged and classified-factual posts
	CountByState(ctx context.Context) (misinfo int64, factual int64, err error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// CreatePost inserts a new post. ID and Date are filled in when empty.
func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post == nil {
		return ErrInvalidInput
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetPost gets a post by ID
func (r *postRepository) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Where("id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, pageNumber, resultAmount int) ([]models.Post, int64, error) {
	if pageNumber < 1 || resultAmount < 1 {
		return nil, 0, ErrInvalidInput
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	// past the last page; also keeps the offset below from overflowing
	pages := (total + int64(resultAmount) - 1) / int64(resultAmount)
	if int64(pageNumber-1) >= pages {
		return []models.Post{}, total, nil
	}

	posts := make([]models.Post, 0, resultAmount)
	err := r.db.WithContext(ctx).
		Order("date DESC").
		Order("id").
		Offset((pageNumber - 1) * resultAmount).
		Limit(resultAmount).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}

	return posts, total, nil
}

func (r *postRepository) CountByState(ctx context.Context) (int64, int64, error) {
	var rows []struct {
		MisinfoState int
		Count        int64
	}
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("misinfo_state, COUNT(*) AS count").
		Where("misinfo_state IS NOT NULL").
		Group("misinfo_state").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count posts by state: %w", err)
	}

	var misinfo, factual int64
	for _, row := range rows {
		if row.MisinfoState == models.MisinfoStateFlagged {
			misinfo += row.Count
		} else {
			factual += row.Count
		}
	}
	return misinfo, factual, nil
}
