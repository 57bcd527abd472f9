package merge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
)

func newTestService(api ChannelAPI, perPage int) Service {
	return NewService(api, Options{PerPage: perPage, Concurrency: 1, Logger: discardLogger()})
}

func titles(blocks []model.Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Title)
	}
	return out
}

func TestService_MergeChannels_Scenario(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("a", "1"))
	arena.addChannel(2, "source", block("a", "1"), block("b", "2"))

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", true)

	require.NoError(t, err)
	require.Len(t, outcome.Copied, 1)
	assert.Equal(t, "b", outcome.Copied[0].Block.Title)
	assert.True(t, outcome.Copied[0].Succeeded)
	assert.True(t, outcome.AllCopiesSucceeded)
	assert.True(t, outcome.DeleteRequested)
	assert.True(t, outcome.SourceDeleted)
	assert.Empty(t, outcome.DeleteError)
	assert.NoError(t, outcome.Err())

	assert.Equal(t, model.ChannelRef{ID: 1, Slug: "dest", Title: "dest"}, outcome.Destination)
	assert.Equal(t, model.ChannelRef{ID: 2, Slug: "source", Title: "source"}, outcome.Source)

	assert.Equal(t, []string{"a", "b"}, titles(arena.contents("dest")))
	assert.Equal(t, []string{"source"}, arena.deletes)
}

func TestService_MergeChannels_Idempotent(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("x", "0"))
	arena.addChannel(2, "source", block("a", "1"), block("b", "2"), block("x", "0"))

	s := newTestService(arena, 2)

	first, err := s.MergeChannels(context.Background(), "dest", "source", false)
	require.NoError(t, err)
	assert.Len(t, first.Copied, 2)

	second, err := s.MergeChannels(context.Background(), "dest", "source", false)
	require.NoError(t, err)
	assert.Empty(t, second.Copied)
	assert.True(t, second.AllCopiesSucceeded)
	assert.False(t, second.SourceDeleted)

	assert.Equal(t, []string{"x", "a", "b"}, titles(arena.contents("dest")))
	assert.Empty(t, arena.deletes)
}

func TestService_MergeChannels_NoDuplicates(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("shared", "same"), block("own", "dest"))
	arena.addChannel(2, "source", block("shared", "same"), block("shared", "same"), block("new", "src"))

	s := newTestService(arena, 100)
	_, err := s.MergeChannels(context.Background(), "dest", "source", false)
	require.NoError(t, err)

	counts := make(map[blockKey]int)
	for _, b := range arena.contents("dest") {
		counts[keyOf(b)]++
	}
	for key, n := range counts {
		assert.Equal(t, 1, n, "block %q duplicated", key.title)
	}
	assert.Equal(t, []string{"new"}, arena.creates)
}

func TestService_MergeChannels_ServerCapsPageSize(t *testing.T) {
	arena := newFakeArena()
	arena.maxPerPage = 2
	arena.addChannel(1, "dest", block("a", "1"), block("b", "2"), block("c", "3"), block("d", "4"), block("e", "5"))
	arena.addChannel(2, "source", block("e", "5"), block("d", "4"), block("f", "6"))

	s := newTestService(arena, 4)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", false)

	require.NoError(t, err)
	assert.Equal(t, []string{"f"}, arena.creates)
	require.Len(t, outcome.Copied, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, titles(arena.contents("dest")))
}

func TestService_MergeChannels_PreservesSourceOrder(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("b", "2"))
	arena.addChannel(2, "source", block("e", "5"), block("b", "2"), block("c", "3"), block("a", "1"), block("d", "4"))

	s := newTestService(arena, 2)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"e", "c", "a", "d"}, arena.creates)
	copied := make([]string, 0, len(outcome.Copied))
	for _, c := range outcome.Copied {
		copied = append(copied, c.Block.Title)
	}
	assert.Equal(t, []string{"e", "c", "a", "d"}, copied)
}

func TestService_MergeChannels_PartialFailureKeepsSource(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest")
	arena.addChannel(2, "source", block("a", "1"), block("b", "2"), block("c", "3"))
	arena.failTitles["b"] = true

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", true)

	require.NoError(t, err)
	require.Len(t, outcome.Copied, 3)
	assert.False(t, outcome.AllCopiesSucceeded)
	assert.True(t, outcome.Partial())
	assert.Equal(t, 1, outcome.Failed())
	assert.True(t, outcome.DeleteRequested)
	assert.False(t, outcome.SourceDeleted)
	assert.Empty(t, arena.deletes)

	assert.Equal(t, []string{"a", "b", "c"}, arena.creates)
	assert.Equal(t, []string{"a", "c"}, titles(arena.contents("dest")))

	require.Error(t, outcome.Err())
	assert.Equal(t, errors.CodePartialMerge, errors.CodeOf(outcome.Err()))
	assert.Contains(t, outcome.Err().Error(), "1 of 3 blocks failed to copy")
}

func TestService_MergeChannels_DeleteFailureIsRecorded(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest")
	arena.addChannel(2, "source", block("a", "1"))
	arena.failDelete = true

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", true)

	require.NoError(t, err)
	assert.True(t, outcome.AllCopiesSucceeded)
	assert.False(t, outcome.SourceDeleted)
	assert.Contains(t, outcome.DeleteError, "returned 500")
	assert.Equal(t, []string{"source"}, arena.deletes)
}

func TestService_MergeChannels_WithoutDelete(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest")
	arena.addChannel(2, "source", block("a", "1"))

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", false)

	require.NoError(t, err)
	assert.False(t, outcome.DeleteRequested)
	assert.False(t, outcome.SourceDeleted)
	assert.Empty(t, arena.deletes)
}

func TestService_MergeChannels_EmptySourceStillDeletes(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("a", "1"))
	arena.addChannel(2, "source")

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", true)

	require.NoError(t, err)
	assert.Empty(t, outcome.Copied)
	assert.True(t, outcome.AllCopiesSucceeded)
	assert.True(t, outcome.SourceDeleted)
}

func TestService_MergeChannels_ReadFailureWritesNothing(t *testing.T) {
	tests := []struct {
		name        string
		destination string
		source      string
		wantCode    string
	}{
		{name: "unknown source", destination: "dest", source: "missing", wantCode: errors.CodeNotFound},
		{name: "unknown destination", destination: "missing", source: "source", wantCode: errors.CodeNotFound},
		{name: "empty source identifier", destination: "dest", source: "", wantCode: errors.CodeInvalidArg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := newFakeArena()
			arena.addChannel(1, "dest")
			arena.addChannel(2, "source", block("a", "1"))

			s := newTestService(arena, 100)
			outcome, err := s.MergeChannels(context.Background(), tt.destination, tt.source, true)

			require.Error(t, err)
			assert.Nil(t, outcome)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
			assert.Empty(t, arena.creates)
			assert.Empty(t, arena.deletes)
		})
	}
}

func TestService_MergeChannels_UpstreamReadFailure(t *testing.T) {
	api := new(MockChannelAPI)
	api.On("GetChannel", mock.Anything, "dest", 1, 100).Return(channelPage(0), nil).Maybe()
	api.On("GetChannel", mock.Anything, "source", 1, 100).Return(nil, errors.New(errors.CodeUpstream, "returned 502")).Once()

	s := newTestService(api, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "source", true)

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, errors.CodeUpstream, errors.CodeOf(err))
	api.AssertNotCalled(t, "CreateBlock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "DeleteChannel", mock.Anything, mock.Anything)
}

func TestService_MergeChannels_SelfMerge(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("a", "1"))

	s := newTestService(arena, 100)
	outcome, err := s.MergeChannels(context.Background(), "dest", "1", true)

	require.Error(t, err)
	assert.Nil(t, outcome)
	assert.Equal(t, errors.CodeInvalidArg, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "into itself")
	assert.Empty(t, arena.creates)
	assert.Empty(t, arena.deletes)
}

func TestService_PlanMerge(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest", block("a", "1"))
	arena.addChannel(2, "source", block("a", "1"), block("b", "2"))

	s := newTestService(arena, 100)
	plan, err := s.PlanMerge(context.Background(), "dest", "source")

	require.NoError(t, err)
	assert.Equal(t, 1, plan.DestinationSize)
	assert.Equal(t, 2, plan.SourceSize)
	assert.Equal(t, []string{"b"}, titles(plan.Blocks))
	assert.Equal(t, int64(1), plan.Destination.ID)
	assert.Equal(t, int64(2), plan.Source.ID)

	assert.Empty(t, arena.creates)
	assert.Empty(t, arena.deletes)
	assert.Equal(t, []string{"a"}, titles(arena.contents("dest")))
}
