package channel

import (
	"context"
	"errors"

	apperrors "github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/repository/common"
	"github.com/jackc/pgx/v5"
)

// repository implements Repository using PostgreSQL
type repository struct {
	pool common.Pool
}

// NewRepository creates a new channel Repository
func NewRepository(pool common.Pool) Repository {
	return &repository{
		pool: pool,
	}
}

// Upsert inserts the channel or refreshes its metadata.
// An empty description keeps the stored one.
func (r *repository) Upsert(ctx context.Context, channel *model.Channel) error {
	sql := `INSERT INTO channels (id, slug, title, description) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET slug = EXCLUDED.slug, title = EXCLUDED.title, description = COALESCE(NULLIF(EXCLUDED.description, ''), channels.description), updated_at = NOW()`
	_, err := r.pool.Exec(ctx, sql, channel.ID, channel.Slug, channel.Title, channel.Description)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to upsert channel")
	}
	return nil
}

// GetByID retrieves a channel by its ID
func (r *repository) GetByID(ctx context.Context, id int64) (*model.Channel, error) {
	sql := "SELECT id, slug, title, description FROM channels WHERE id = $1"
	return r.getOne(ctx, sql, id)
}

// GetBySlug retrieves the most recently seen channel carrying the slug
func (r *repository) GetBySlug(ctx context.Context, slug string) (*model.Channel, error) {
	sql := "SELECT id, slug, title, description FROM channels WHERE slug = $1 ORDER BY updated_at DESC, id DESC LIMIT 1"
	return r.getOne(ctx, sql, slug)
}

func (r *repository) getOne(ctx context.Context, sql string, arg any) (*model.Channel, error) {
	row := r.pool.QueryRow(ctx, sql, arg)

	var channel model.Channel
	err := row.Scan(&channel.ID, &channel.Slug, &channel.Title, &channel.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "channel not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get channel")
	}

	return &channel, nil
}

// List retrieves channels with pagination
func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	sql := "SELECT id, slug, title, description FROM channels ORDER BY id LIMIT $1 OFFSET $2"
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list channels")
	}
	defer rows.Close()

	channels := []*model.Channel{}
	for rows.Next() {
		var channel model.Channel
		if err := rows.Scan(&channel.ID, &channel.Slug, &channel.Title, &channel.Description); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan channel row")
		}
		channels = append(channels, &channel)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate channel rows")
	}

	return channels, nil
}
