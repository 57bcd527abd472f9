package mergerun

import (
	"context"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// Repository defines persistence of merge history
type Repository interface {
	// Create stores a run and its per-item results atomically.
	// An empty run.ID is replaced by a new UUID; CreatedAt is set by the database.
	Create(ctx context.Context, run *model.MergeRun, items []*model.MergeRunItem) error

	// GetByID retrieves a run by its ID
	GetByID(ctx context.Context, id string) (*model.MergeRun, error)

	// ListItems retrieves the per-item results of a run in plan order
	ListItems(ctx context.Context, runID string) ([]*model.MergeRunItem, error)

	// List retrieves runs, newest first
	List(ctx context.Context, limit, offset int) ([]*model.MergeRun, error)

	// ListByChannel retrieves runs where the channel was destination or source, newest first
	ListByChannel(ctx context.Context, channelID int64, limit, offset int) ([]*model.MergeRun, error)
}
