package repository

import (
	"context"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

// StateRepository persists the full state document as one atomic unit. There
// is no incremental format: Save overwrites whatever was stored before, and
// Load of an empty store returns a fresh document rather than an error.
type StateRepository interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, state *models.State) error
	Ping(ctx context.Context) error
}
