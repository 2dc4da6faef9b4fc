package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineforge/jobs/internal/domain"
)

func TestLedgerRepository_RoundTrip(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()
	player := uuid.New()

	got, err := repo.GetEntry(ctx, player, "miner")
	require.NoError(t, err)
	assert.Nil(t, got)

	entry := &domain.PlayerJobEntry{
		PlayerID:  player,
		JobKey:    "miner",
		CurrentXP: 42,
		Level:     1,
		JoinedAt:  time.Now().UTC(),
	}
	require.NoError(t, repo.UpsertEntry(ctx, entry))

	// The store keeps a copy, not the caller's pointer
	entry.CurrentXP = 9999

	got, err = repo.GetEntry(ctx, player, "miner")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42.0, got.CurrentXP)

	require.NoError(t, repo.DeleteEntry(ctx, player, "miner"))
	got, err = repo.GetEntry(ctx, player, "miner")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLedgerRepository_Listing(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()
	player := uuid.New()
	other := uuid.New()

	base := time.Now().UTC()
	for i, jobKey := range []string{"miner", "hunter"} {
		require.NoError(t, repo.UpsertEntry(ctx, &domain.PlayerJobEntry{
			PlayerID: player,
			JobKey:   jobKey,
			JoinedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.UpsertEntry(ctx, &domain.PlayerJobEntry{
		PlayerID: other,
		JobKey:   "miner",
		JoinedAt: base,
	}))

	entries, err := repo.GetPlayerEntries(ctx, player)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "miner", entries[0].JobKey) // join order

	all, err := repo.GetAllEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
