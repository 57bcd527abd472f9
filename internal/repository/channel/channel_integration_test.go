//go:build integration

package channel

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/Taichi-iskw/arena-merge/internal/errors"
	"github.com/Taichi-iskw/arena-merge/internal/model"
	"github.com/Taichi-iskw/arena-merge/internal/repository/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChannelRepository_Integration tests the channel repository against real PostgreSQL
func TestChannelRepository_Integration(t *testing.T) {
	pool := common.SetupTestDB(t)
	repo := NewRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	channel := &model.Channel{
		ID:    275,
		Slug:  "arena-influences",
		Title: "Arena Influences",
	}

	t.Run("Upsert and GetByID", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, channel))

		retrieved, err := repo.GetByID(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, channel.Slug, retrieved.Slug)
		assert.Equal(t, channel.Title, retrieved.Title)
	})

	t.Run("Upsert refreshes metadata", func(t *testing.T) {
		channel.Title = "Arena Influences (renamed)"
		require.NoError(t, repo.Upsert(ctx, channel))

		retrieved, err := repo.GetBySlug(ctx, channel.Slug)
		require.NoError(t, err)
		assert.Equal(t, "Arena Influences (renamed)", retrieved.Title)
	})

	t.Run("Slug reused by a new channel", func(t *testing.T) {
		successor := &model.Channel{ID: 276, Slug: channel.Slug, Title: "Arena Influences II"}
		require.NoError(t, repo.Upsert(ctx, successor))

		retrieved, err := repo.GetBySlug(ctx, channel.Slug)
		require.NoError(t, err)
		assert.Equal(t, successor.ID, retrieved.ID)

		previous, err := repo.GetByID(ctx, channel.ID)
		require.NoError(t, err)
		assert.Equal(t, channel.Slug, previous.Slug)
	})

	t.Run("List", func(t *testing.T) {
		channels, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, channels, 2)
		assert.Equal(t, int64(275), channels[0].ID)
		assert.Equal(t, int64(276), channels[1].ID)
	})

	t.Run("Unknown channel", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})
}
