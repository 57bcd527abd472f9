package mergerun

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/repository/common"
)

const runColumns = "id::text, destination_id, source_id, planned, succeeded, failed, delete_requested, source_deleted, created_at"

var itemColumns = []string{"run_id", "position", "title", "content", "succeeded", "error"}

// repository implements Repository using PostgreSQL
type repository struct {
	pool common.Pool
}

// NewRepository creates a new merge run Repository
func NewRepository(pool common.Pool) Repository {
	return &repository{
		pool: pool,
	}
}

// Create stores a run and its items in one transaction
func (r *repository) Create(ctx context.Context, run *model.MergeRun, items []*model.MergeRunItem) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return common.HandlePostgreSQLError(err, "failed to begin transaction")
	}

	sql := `INSERT INTO merge_runs (id, destination_id, source_id, planned, succeeded, failed, delete_requested, source_deleted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err = tx.QueryRow(ctx, sql,
		run.ID, run.DestinationID, run.SourceID, run.Planned, run.Succeeded, run.Failed,
		run.DeleteRequested, run.SourceDeleted,
	).Scan(&run.CreatedAt)
	if err != nil {
		_ = tx.Rollback(ctx)
		return common.HandlePostgreSQLError(err, "failed to create merge run")
	}

	if len(items) > 0 {
		rows := make([][]any, len(items))
		for i, item := range items {
			item.RunID = run.ID
			item.Position = i
			rows[i] = []any{item.RunID, item.Position, item.Title, item.Content, item.Succeeded, item.Error}
		}

		_, err = tx.CopyFrom(ctx, pgx.Identifier{"merge_run_items"}, itemColumns, pgx.CopyFromRows(rows))
		if err != nil {
			_ = tx.Rollback(ctx)
			return common.HandlePostgreSQLError(err, "failed to create merge run items using COPY FROM")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.HandlePostgreSQLError(err, "failed to commit merge run")
	}

	return nil
}

// GetByID retrieves a run by its ID
func (r *repository) GetByID(ctx context.Context, id string) (*model.MergeRun, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "invalid merge run ID")
	}

	sql := "SELECT " + runColumns + " FROM merge_runs WHERE id = $1"
	row := r.pool.QueryRow(ctx, sql, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Wrap(err, apperrors.CodeNotFound, "merge run not found")
		}
		return nil, common.HandlePostgreSQLError(err, "failed to get merge run")
	}

	return run, nil
}

// ListItems retrieves the items of a run ordered by position
func (r *repository) ListItems(ctx context.Context, runID string) ([]*model.MergeRunItem, error) {
	sql := "SELECT run_id::text, position, title, content, succeeded, error FROM merge_run_items WHERE run_id = $1 ORDER BY position"
	rows, err := r.pool.Query(ctx, sql, runID)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list merge run items")
	}
	defer rows.Close()

	items := []*model.MergeRunItem{}
	for rows.Next() {
		var item model.MergeRunItem
		if err := rows.Scan(&item.RunID, &item.Position, &item.Title, &item.Content, &item.Succeeded, &item.Error); err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan merge run item row")
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate merge run item rows")
	}

	return items, nil
}

// List retrieves runs with pagination, newest first
func (r *repository) List(ctx context.Context, limit, offset int) ([]*model.MergeRun, error) {
	sql := "SELECT " + runColumns + " FROM merge_runs ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	return r.queryRuns(ctx, sql, limit, offset)
}

// ListByChannel retrieves runs that touched the channel, newest first
func (r *repository) ListByChannel(ctx context.Context, channelID int64, limit, offset int) ([]*model.MergeRun, error) {
	sql := "SELECT " + runColumns + " FROM merge_runs WHERE destination_id = $1 OR source_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	return r.queryRuns(ctx, sql, channelID, limit, offset)
}

func (r *repository) queryRuns(ctx context.Context, sql string, args ...any) ([]*model.MergeRun, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to list merge runs")
	}
	defer rows.Close()

	runs := []*model.MergeRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, common.HandlePostgreSQLError(err, "failed to scan merge run row")
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, common.HandlePostgreSQLError(err, "failed to iterate merge run rows")
	}

	return runs, nil
}

func scanRun(row pgx.Row) (*model.MergeRun, error) {
	var run model.MergeRun
	err := row.Scan(
		&run.ID, &run.DestinationID, &run.SourceID,
		&run.Planned, &run.Succeeded, &run.Failed,
		&run.DeleteRequested, &run.SourceDeleted, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// NewRunFromOutcome builds the history records for a finished merge
func NewRunFromOutcome(outcome *model.MergeOutcome) (*model.MergeRun, []*model.MergeRunItem) {
	run := &model.MergeRun{
		DestinationID:   outcome.Destination.ID,
		SourceID:        outcome.Source.ID,
		Planned:         len(outcome.Copied),
		Failed:          outcome.Failed(),
		DeleteRequested: outcome.DeleteRequested,
		SourceDeleted:   outcome.SourceDeleted,
	}
	run.Succeeded = run.Planned - run.Failed

	items := make([]*model.MergeRunItem, len(outcome.Copied))
	for i, c := range outcome.Copied {
		items[i] = &model.MergeRunItem{
			Position:  i,
			Title:     c.Block.Title,
			Content:   c.Block.Content,
			Succeeded: c.Succeeded,
			Error:     c.Error,
		}
	}
	return run, items
}
