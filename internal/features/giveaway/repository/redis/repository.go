package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

const keyState = "giveaway:state"

// Repository stores the state document under a single Redis key. A SET of
// the whole document is the unit of atomicity, mirroring the flat-file
// backend's whole-document writes.
type Repository struct {
	client *redis.Client
}

func NewRepository(client *redis.Client) repository.StateRepository {
	return &Repository{client: client}
}

func (r *Repository) Load(ctx context.Context) (*models.State, error) {
	data, err := r.client.Get(ctx, keyState).Bytes()
	if err == redis.Nil {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state key: %w", err)
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state key: %w", err)
	}
	state.Normalize()
	return &state, nil
}

func (r *Repository) Save(ctx context.Context, state *models.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := r.client.Set(ctx, keyState, data, 0).Err(); err != nil {
		return fmt.Errorf("write state key: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
