package history

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/repository/channel"
	"github.com/Taichi-iskw/arena-merge/internal/repository/mergerun"
)

// Service records finished merges and reads them back
type Service interface {
	Record(ctx context.Context, outcome *model.MergeOutcome) (*model.MergeRun, error)

	// ListRuns lists runs newest first; channelID 0 lists every run
	ListRuns(ctx context.Context, channelID int64, limit, offset int) ([]*model.MergeRun, error)

	GetRun(ctx context.Context, id string) (*model.MergeRun, []*model.MergeRunItem, error)

	// ResolveChannel turns a numeric id or a recorded slug into a channel id.
	// An empty ref resolves to 0.
	ResolveChannel(ctx context.Context, ref string) (int64, error)

	// ChannelLabels maps ids to their recorded slugs, falling back to the id
	ChannelLabels(ctx context.Context, ids ...int64) map[int64]string

	ListChannels(ctx context.Context, limit, offset int) ([]*model.Channel, error)
}

type service struct {
	channels channel.Repository
	runs     mergerun.Repository
	logger   *slog.Logger
}

// NewService creates a history Service
func NewService(channels channel.Repository, runs mergerun.Repository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		channels: channels,
		runs:     runs,
		logger:   logger,
	}
}

func (s *service) Record(ctx context.Context, outcome *model.MergeOutcome) (*model.MergeRun, error) {
	if outcome == nil {
		return nil, errors.New(errors.CodeInvalidArg, "merge outcome is required")
	}

	for _, ref := range []model.ChannelRef{outcome.Destination, outcome.Source} {
		c := &model.Channel{ID: ref.ID, Slug: ref.Slug, Title: ref.Title}
		if err := s.channels.Upsert(ctx, c); err != nil {
			return nil, err
		}
	}

	run, items := mergerun.NewRunFromOutcome(outcome)
	if err := s.runs.Create(ctx, run, items); err != nil {
		return nil, err
	}

	s.logger.Debug("recorded merge run", "run_id", run.ID, "planned", run.Planned, "failed", run.Failed)
	return run, nil
}

func (s *service) ListRuns(ctx context.Context, channelID int64, limit, offset int) ([]*model.MergeRun, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if channelID == 0 {
		return s.runs.List(ctx, limit, offset)
	}
	return s.runs.ListByChannel(ctx, channelID, limit, offset)
}

func (s *service) GetRun(ctx context.Context, id string) (*model.MergeRun, []*model.MergeRunItem, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.runs.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return run, items, nil
}

func (s *service) ResolveChannel(ctx context.Context, ref string) (int64, error) {
	if ref == "" {
		return 0, nil
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if id <= 0 {
			return 0, errors.New(errors.CodeInvalidArg, "channel id must be positive")
		}
		return id, nil
	}
	c, err := s.channels.GetBySlug(ctx, ref)
	if err != nil {
		if errors.HasCode(err, errors.CodeNotFound) {
			return 0, errors.Wrap(err, errors.CodeNotFound, "no merge history for channel: "+ref)
		}
		return 0, err
	}
	return c.ID, nil
}

func (s *service) ChannelLabels(ctx context.Context, ids ...int64) map[int64]string {
	labels := make(map[int64]string, len(ids))
	for _, id := range ids {
		if _, ok := labels[id]; ok {
			continue
		}
		labels[id] = strconv.FormatInt(id, 10)
		c, err := s.channels.GetByID(ctx, id)
		if err != nil {
			if !errors.HasCode(err, errors.CodeNotFound) {
				s.logger.Debug("channel label lookup failed", "channel_id", id, "error", err)
			}
			continue
		}
		if c.Slug != "" {
			labels[id] = c.Slug
		}
	}
	return labels
}

func (s *service) ListChannels(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.channels.List(ctx, limit, offset)
}
