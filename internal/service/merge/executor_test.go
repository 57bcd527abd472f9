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

func TestExecutor_Execute_PreservesOrder(t *testing.T) {
	var order []string
	api := new(MockChannelAPI)
	for i, b := range []model.Block{block("c", "3"), block("a", "1"), block("b", "2")} {
		created := &model.Block{ID: int64(100 + i), Title: b.Title, Content: b.Content}
		api.On("CreateBlock", mock.Anything, "dest", b.Title, b.Content).
			Run(func(args mock.Arguments) { order = append(order, args.String(2)) }).
			Return(created, nil).Once()
	}

	e := NewExecutor(api, 1, discardLogger())
	results := e.Execute(context.Background(), "dest", []model.Block{block("c", "3"), block("a", "1"), block("b", "2")})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"c", "a", "b"}, order)
	for i, r := range results {
		assert.True(t, r.Succeeded)
		assert.Empty(t, r.Error)
		require.NotNil(t, r.Created)
		assert.Equal(t, int64(100+i), r.Created.ID)
	}
	api.AssertExpectations(t)
}

func TestExecutor_Execute_ContinuesAfterFailure(t *testing.T) {
	api := new(MockChannelAPI)
	api.On("CreateBlock", mock.Anything, "dest", "a", "1").Return(&model.Block{ID: 1, Title: "a", Content: "1"}, nil).Once()
	api.On("CreateBlock", mock.Anything, "dest", "b", "2").Return(nil, errors.New(errors.CodeUpstream, "returned 500")).Once()
	api.On("CreateBlock", mock.Anything, "dest", "c", "3").Return(&model.Block{ID: 3, Title: "c", Content: "3"}, nil).Once()

	e := NewExecutor(api, 1, discardLogger())
	results := e.Execute(context.Background(), "dest", []model.Block{block("a", "1"), block("b", "2"), block("c", "3")})

	require.Len(t, results, 3)
	assert.True(t, results[0].Succeeded)
	assert.False(t, results[1].Succeeded)
	assert.Nil(t, results[1].Created)
	assert.Contains(t, results[1].Error, "returned 500")
	assert.Equal(t, block("b", "2"), results[1].Block)
	assert.True(t, results[2].Succeeded)
	api.AssertExpectations(t)
}

func TestExecutor_Execute_Concurrent(t *testing.T) {
	arena := newFakeArena()
	arena.addChannel(1, "dest")

	plan := make([]model.Block, 0, 20)
	for i := 0; i < 20; i++ {
		plan = append(plan, block(string(rune('a'+i)), "x"))
	}

	e := NewExecutor(arena, 4, discardLogger())
	results := e.Execute(context.Background(), "dest", plan)

	require.Len(t, results, 20)
	for i, r := range results {
		assert.True(t, r.Succeeded)
		assert.Equal(t, plan[i], r.Block)
	}
	assert.Len(t, arena.creates, 20)
	assert.Len(t, arena.contents("dest"), 20)
}

func TestExecutor_Execute_EmptyPlan(t *testing.T) {
	api := new(MockChannelAPI)

	e := NewExecutor(api, 1, discardLogger())
	results := e.Execute(context.Background(), "dest", nil)

	assert.NotNil(t, results)
	assert.Empty(t, results)
	api.AssertNotCalled(t, "CreateBlock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecutor_DeleteSource(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		api := new(MockChannelAPI)
		api.On("DeleteChannel", mock.Anything, "source").Return(nil).Once()

		deleted, err := NewExecutor(api, 1, discardLogger()).DeleteSource(context.Background(), "source")

		require.NoError(t, err)
		assert.True(t, deleted)
		api.AssertExpectations(t)
	})

	t.Run("refused", func(t *testing.T) {
		api := new(MockChannelAPI)
		api.On("DeleteChannel", mock.Anything, "source").Return(errors.New(errors.CodeUpstream, "returned 401")).Once()

		deleted, err := NewExecutor(api, 1, discardLogger()).DeleteSource(context.Background(), "source")

		require.Error(t, err)
		assert.False(t, deleted)
	})
}
