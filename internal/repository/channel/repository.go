package channel

import (
	"context"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// Repository defines persistence of channel metadata seen during merges
type Repository interface {
	// Upsert inserts the channel or refreshes its slug, title and description
	Upsert(ctx context.Context, channel *model.Channel) error

	// GetByID retrieves a channel by its Are.na ID
	GetByID(ctx context.Context, id int64) (*model.Channel, error)

	// GetBySlug retrieves the most recently seen channel with the slug.
	// Slugs are freed when a channel is deleted, so several ids may share one.
	GetBySlug(ctx context.Context, slug string) (*model.Channel, error)

	// List retrieves channels with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Channel, error)
}
