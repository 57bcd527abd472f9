package merge

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// Service merges one Are.na channel into another
type Service interface {
	// MergeChannels copies every source block missing from destination into destination,
	// then deletes source when deleteSourceAfter is set and every copy succeeded.
	// A returned error means nothing was written.
	MergeChannels(ctx context.Context, destination, source string, deleteSourceAfter bool) (*model.MergeOutcome, error)

	// PlanMerge reads both channels and returns what MergeChannels would copy
	PlanMerge(ctx context.Context, destination, source string) (*MergePlan, error)
}

// Options configures a Service built by NewService
type Options struct {
	PerPage     int
	Concurrency int
	Logger      *slog.Logger
}

type service struct {
	reader   ChannelReader
	executor Executor
	logger   *slog.Logger
}

// NewService creates a Service on top of an Are.na API client
func NewService(api ChannelAPI, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return NewServiceWithComponents(
		NewReader(api, opts.PerPage),
		NewExecutor(api, opts.Concurrency, logger),
		logger,
	)
}

// NewServiceWithComponents creates a Service with custom reader and executor (for testing)
func NewServiceWithComponents(reader ChannelReader, executor Executor, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		reader:   reader,
		executor: executor,
		logger:   logger,
	}
}

func (s *service) MergeChannels(ctx context.Context, destination, source string, deleteSourceAfter bool) (*model.MergeOutcome, error) {
	dest, src, err := s.readPair(ctx, destination, source)
	if err != nil {
		return nil, err
	}

	plan := Plan(src.Contents, dest.Contents)
	s.logger.Info("merging channels",
		"destination", dest.Slug,
		"source", src.Slug,
		"destination_blocks", len(dest.Contents),
		"source_blocks", len(src.Contents),
		"planned", len(plan))

	outcome := &model.MergeOutcome{
		Destination:     dest.Ref(),
		Source:          src.Ref(),
		DeleteRequested: deleteSourceAfter,
	}
	outcome.Copied = s.executor.Execute(ctx, channelKey(dest), plan)
	outcome.AllCopiesSucceeded = outcome.Failed() == 0

	if !deleteSourceAfter {
		return outcome, nil
	}

	if !outcome.AllCopiesSucceeded {
		s.logger.Warn("source channel kept because some copies failed",
			"source", src.Slug,
			"failed", outcome.Failed())
		return outcome, nil
	}

	deleted, err := s.executor.DeleteSource(ctx, channelKey(src))
	outcome.SourceDeleted = deleted
	if err != nil {
		outcome.DeleteError = err.Error()
	}

	return outcome, nil
}

func (s *service) PlanMerge(ctx context.Context, destination, source string) (*MergePlan, error) {
	dest, src, err := s.readPair(ctx, destination, source)
	if err != nil {
		return nil, err
	}

	return &MergePlan{
		Destination:     dest.Ref(),
		Source:          src.Ref(),
		DestinationSize: len(dest.Contents),
		SourceSize:      len(src.Contents),
		Blocks:          Plan(src.Contents, dest.Contents),
	}, nil
}

// readPair reads both channels in parallel; any failure aborts before writes
func (s *service) readPair(ctx context.Context, destination, source string) (*model.Channel, *model.Channel, error) {
	if destination == "" || source == "" {
		return nil, nil, errors.New(errors.CodeInvalidArg, "destination and source channels are required")
	}

	var dest, src *model.Channel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		channel, err := s.reader.ReadChannel(gctx, destination)
		if err != nil {
			return err
		}
		dest = channel
		return nil
	})
	g.Go(func() error {
		channel, err := s.reader.ReadChannel(gctx, source)
		if err != nil {
			return err
		}
		src = channel
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if sameChannel(dest, src) {
		return nil, nil, errors.New(errors.CodeInvalidArg,
			fmt.Sprintf("cannot merge channel %s into itself", dest.Slug))
	}

	return dest, src, nil
}

func sameChannel(a, b *model.Channel) bool {
	if a.ID != 0 && a.ID == b.ID {
		return true
	}
	return a.Slug != "" && a.Slug == b.Slug
}

// channelKey is the identifier used for writes against an already-read channel
func channelKey(c *model.Channel) string {
	if c.Slug != "" {
		return c.Slug
	}
	return strconv.FormatInt(c.ID, 10)
}
