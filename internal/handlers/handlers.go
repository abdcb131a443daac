package handlers

import (
	"github.com/jedsaxon/misinfodetector/internal/repository"
	"gorm.io/gorm"
)

// Post list paging limits
const (
	DefaultResultAmount = 10
	MaxResultAmount     = 100
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	posts    repository.PostRepository
	research repository.ResearchRepository
}

// NewHandlers creates handlers backed by db
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{
		posts:    repository.NewPostRepository(db),
		research: repository.NewResearchRepository(db),
	}
}
