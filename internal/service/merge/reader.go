package merge

import (
	"context"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// ChannelAPI is the subset of the Are.na API the merge engine needs
type ChannelAPI interface {
	GetChannel(ctx context.Context, identifier string, page, perPage int) (*model.Channel, error)
	CreateBlock(ctx context.Context, channelIdentifier, title, content string) (*model.Block, error)
	DeleteChannel(ctx context.Context, identifier string) error
}

// ChannelReader reads a channel together with its complete contents
type ChannelReader interface {
	ReadChannel(ctx context.Context, identifier string) (*model.Channel, error)
}

type reader struct {
	api     ChannelAPI
	perPage int
}

// NewReader creates a ChannelReader requesting perPage items per page
func NewReader(api ChannelAPI, perPage int) ChannelReader {
	if perPage <= 0 {
		perPage = 100
	}
	return &reader{
		api:     api,
		perPage: perPage,
	}
}

// ReadChannel fetches pages and concatenates them in server order. When the API
// announces a length, pages are requested until that many items arrived or a page
// comes back empty; otherwise until a page is shorter than perPage. Connected
// channels inside the contents are skipped.
func (r *reader) ReadChannel(ctx context.Context, identifier string) (*model.Channel, error) {
	page := 1
	first, err := r.api.GetChannel(ctx, identifier, page, r.perPage)
	if err != nil {
		return nil, readError(err, identifier)
	}

	channel := *first
	channel.Contents = appendBlocks(nil, first.Contents)
	fetched := len(first.Contents)
	last := len(first.Contents)

	for r.hasMore(channel.Length, fetched, last) {
		page++
		next, err := r.api.GetChannel(ctx, identifier, page, r.perPage)
		if err != nil {
			return nil, readError(err, identifier)
		}
		channel.Contents = appendBlocks(channel.Contents, next.Contents)
		last = len(next.Contents)
		fetched += last
	}

	if channel.Contents == nil {
		channel.Contents = []model.Block{}
	}
	return &channel, nil
}

// hasMore decides whether another page is needed. The server may cap the page size
// below perPage, so a short page only ends the read when no length is known.
func (r *reader) hasMore(length, fetched, last int) bool {
	if last == 0 {
		return false
	}
	if length > 0 {
		return fetched < length
	}
	return last >= r.perPage
}

func appendBlocks(dst, items []model.Block) []model.Block {
	for _, item := range items {
		if item.BaseClass == model.BaseClassChannel {
			continue
		}
		dst = append(dst, item)
	}
	return dst
}

// readError classifies a failed read as NOT_FOUND or UPSTREAM_ERROR
func readError(err error, identifier string) error {
	switch {
	case errors.HasCode(err, errors.CodeNotFound):
		return errors.Wrap(err, errors.CodeNotFound, "channel not found: "+identifier)
	case errors.HasCode(err, errors.CodeInvalidArg):
		return err
	default:
		return errors.Wrap(err, errors.CodeUpstream, "failed to read channel "+identifier)
	}
}
