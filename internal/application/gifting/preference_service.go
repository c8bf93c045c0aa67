package gifting

import (
	"context"
	"encoding/json"

	"github.com/giftwell/backend/internal/domain/shared"
)

// PreferenceRepository is the opaque get/set-by-key contract standalone
// preference sets (shipping defaults, customization defaults) are saved
// under. The core never interprets the stored record.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// PreferenceService saves and loads named default sets
type PreferenceService struct {
	repo PreferenceRepository
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(repo PreferenceRepository) *PreferenceService {
	return &PreferenceService{repo: repo}
}

// Save stores one preference set under its key
func (s *PreferenceService) Save(ctx context.Context, key string, value json.RawMessage) error {
	if key == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Preference key is required")
	}
	if len(value) == 0 || !json.Valid(value) {
		return shared.NewDomainError("VALIDATION_ERROR", "Preference value must be valid JSON")
	}
	return s.repo.Set(ctx, key, value)
}

// Load returns the preference set stored under the key
func (s *PreferenceService) Load(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Preference key is required")
	}
	return s.repo.Get(ctx, key)
}
