package merge

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

// MockChannelAPI is a mock implementation of ChannelAPI
type MockChannelAPI struct {
	mock.Mock
}

func (m *MockChannelAPI) GetChannel(ctx context.Context, identifier string, page, perPage int) (*model.Channel, error) {
	args := m.Called(ctx, identifier, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Channel), args.Error(1)
}

func (m *MockChannelAPI) CreateBlock(ctx context.Context, channelIdentifier, title, content string) (*model.Block, error) {
	args := m.Called(ctx, channelIdentifier, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Block), args.Error(1)
}

func (m *MockChannelAPI) DeleteChannel(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func block(title, content string) model.Block {
	return model.Block{Title: title, Content: content, Class: "Text", BaseClass: model.BaseClassBlock}
}

// fakeArena is an in-memory Are.na keyed by channel slug
type fakeArena struct {
	mu         sync.Mutex
	channels   map[string]*model.Channel
	nextID     int64
	failTitles map[string]bool
	failDelete bool
	maxPerPage int
	creates    []string
	deletes    []string
}

func newFakeArena() *fakeArena {
	return &fakeArena{
		channels:   make(map[string]*model.Channel),
		nextID:     1000,
		failTitles: make(map[string]bool),
	}
}

func (f *fakeArena) addChannel(id int64, slug string, blocks ...model.Block) {
	f.mu.Lock()
	defer f.mu.Unlock()
	contents := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		f.nextID++
		b.ID = f.nextID
		b.ChannelID = id
		contents = append(contents, b)
	}
	f.channels[slug] = &model.Channel{ID: id, Slug: slug, Title: slug, Contents: contents}
}

func (f *fakeArena) contents(slug string) []model.Block {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Block(nil), f.channels[slug].Contents...)
}

func (f *fakeArena) lookup(identifier string) (*model.Channel, bool) {
	if c, ok := f.channels[identifier]; ok {
		return c, true
	}
	for _, c := range f.channels {
		if strconv.FormatInt(c.ID, 10) == identifier {
			return c, true
		}
	}
	return nil, false
}

func (f *fakeArena) GetChannel(ctx context.Context, identifier string, page, perPage int) (*model.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.lookup(identifier)
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "channel not found: "+identifier)
	}

	if f.maxPerPage > 0 && perPage > f.maxPerPage {
		perPage = f.maxPerPage
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > len(c.Contents) {
		start = len(c.Contents)
	}
	if end > len(c.Contents) {
		end = len(c.Contents)
	}

	out := *c
	out.Length = len(c.Contents)
	out.Contents = append([]model.Block(nil), c.Contents[start:end]...)
	return &out, nil
}

func (f *fakeArena) CreateBlock(ctx context.Context, channelIdentifier, title, content string) (*model.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates = append(f.creates, title)
	if f.failTitles[title] {
		return nil, errors.New(errors.CodeUpstream, fmt.Sprintf("POST /channels/%s/blocks returned 500", channelIdentifier))
	}
	c, ok := f.lookup(channelIdentifier)
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "channel not found: "+channelIdentifier)
	}

	f.nextID++
	created := model.Block{ID: f.nextID, Title: title, Content: content, Class: "Text", BaseClass: model.BaseClassBlock, ChannelID: c.ID}
	c.Contents = append(c.Contents, created)
	return &created, nil
}

func (f *fakeArena) DeleteChannel(ctx context.Context, identifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, identifier)
	if f.failDelete {
		return errors.New(errors.CodeUpstream, "DELETE /channels/"+identifier+" returned 500")
	}
	c, ok := f.lookup(identifier)
	if !ok {
		return errors.New(errors.CodeNotFound, "channel not found: "+identifier)
	}
	delete(f.channels, c.Slug)
	return nil
}
