package merge

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// Executor applies a merge plan to the destination channel
type Executor interface {
	// Execute creates one block per planned item and records each attempt.
	// It never deletes anything and returns only after every attempt resolved.
	Execute(ctx context.Context, destination string, plan []model.Block) []model.CopyResult

	// DeleteSource requests deletion of the source channel
	DeleteSource(ctx context.Context, source string) (bool, error)
}

type executor struct {
	api         ChannelAPI
	concurrency int
	logger      *slog.Logger
}

// NewExecutor creates an Executor issuing at most concurrency creates at a time.
// A concurrency of 1 creates blocks in plan order.
func NewExecutor(api ChannelAPI, concurrency int, logger *slog.Logger) Executor {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &executor{
		api:         api,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Execute copies every planned block, fail-soft
func (e *executor) Execute(ctx context.Context, destination string, plan []model.Block) []model.CopyResult {
	results := make([]model.CopyResult, len(plan))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, block := range plan {
		g.Go(func() error {
			results[i] = e.copyBlock(ctx, destination, i, block)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *executor) copyBlock(ctx context.Context, destination string, position int, block model.Block) model.CopyResult {
	result := model.CopyResult{Block: block}

	created, err := e.api.CreateBlock(ctx, destination, block.Title, block.Content)
	if err != nil {
		e.logger.Warn("failed to copy block",
			"destination", destination,
			"position", position,
			"title", block.Title,
			"error", err)
		result.Error = err.Error()
		return result
	}

	result.Created = created
	result.Succeeded = true
	return result
}

// DeleteSource deletes the source channel and reports whether it is gone
func (e *executor) DeleteSource(ctx context.Context, source string) (bool, error) {
	if err := e.api.DeleteChannel(ctx, source); err != nil {
		e.logger.Warn("failed to delete source channel", "source", source, "error", err)
		return false, err
	}
	return true, nil
}
