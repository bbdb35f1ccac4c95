package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

// Repository stores the state document as a single JSON file. Saves write to
// a temporary file and rename it over the old one, so a crash mid-write
// leaves the previous document intact.
type Repository struct {
	path string
}

func NewRepository(path string) repository.StateRepository {
	return &Repository{path: path}
}

func (r *Repository) Load(ctx context.Context) (*models.State, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var state models.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	state.Normalize()
	return &state, nil
}

func (r *Repository) Save(ctx context.Context, state *models.State) error {
	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (r *Repository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("state directory unavailable: %w", err)
	}
	return nil
}
