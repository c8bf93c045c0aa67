package gifting

import (
	"context"

	"github.com/giftwell/backend/internal/domain/catalog"
)

// GiftResponse is one catalog entry
type GiftResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

// CatalogService exposes the read-only gift catalog
type CatalogService struct {
	repo catalog.GiftRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo catalog.GiftRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns every catalog gift
func (s *CatalogService) List(ctx context.Context) ([]GiftResponse, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GiftResponse, 0, len(items))
	for _, item := range items {
		out = append(out, GiftResponse{
			ID:       item.ID.String(),
			Name:     item.Name,
			Price:    item.Price.StringFixed(2),
			Category: item.Category,
			ImageURL: item.ImageURL,
		})
	}
	return out, nil
}
