package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tournament-settlement-system/models"
)

func declaredDuo(t *testing.T, f *fixture) models.Tournament {
	t.Helper()
	cup := f.tournament("Duo Cup", 0)
	a1, a2, b1, b2 := f.player("A1"), f.player("A2"), f.player("B1"), f.player("B2")
	teamA := f.team(cup, "A", a1, a2)
	teamB := f.team(cup, "B", b1, b2)
	m := f.match(cup, 1)
	f.result(m, teamA, 1, a1, a2)
	f.result(m, teamB, 2, b1, b2)
	_, err := f.service().Declare(ctx, DeclareRequest{TournamentID: cup.ID, Actor: adminActor})
	require.NoError(t, err)
	return cup
}

func TestClaimCreditsLedger(t *testing.T) {
	f := newFixture(t)
	declaredDuo(t, f)
	rewards := NewRewardService(f.db)

	list, err := rewards.ListRewards(ctx, "p-a1", RewardFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	claimed, err := rewards.Claim(ctx, "p-a1", list[0].ID)
	require.NoError(t, err)
	assert.True(t, claimed.IsClaimed)

	var credit models.Transaction
	require.NoError(t, f.db.Where("player_id = ?", "p-a1").First(&credit).Error)
	assert.Equal(t, models.TransactionTypeCredit, credit.Type)
	assert.Equal(t, int64(170), credit.Amount)
	assert.Equal(t, "Prize from Duo Cup", credit.Description)

	_, err = rewards.Claim(ctx, "p-a1", list[0].ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	_, err = rewards.Claim(ctx, "p-b1", list[0].ID)
	assert.ErrorIs(t, err, ErrRewardNotFound)
	assert.Equal(t, int64(1), f.count(&models.Transaction{}, "player_id = ?", "p-a1"))

	losses, err := seasonLosses(f.db, f.season.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-170), losses["p-a1"], "claimed prizes offset season losses")
}

func TestListAndCountRewards(t *testing.T) {
	f := newFixture(t)
	declaredDuo(t, f)
	rewards := NewRewardService(f.db)

	list, err := rewards.ListRewards(ctx, "p-b1", RewardFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = rewards.Claim(ctx, "p-b1", list[0].ID)
	require.NoError(t, err)

	unclaimed := false
	list, err = rewards.ListRewards(ctx, "p-b1", RewardFilter{Claimed: &unclaimed})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = rewards.ListRewards(ctx, "p-a2", RewardFilter{Type: models.RewardTypeWinner, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	counts, err := rewards.Counts(ctx, "p-a2")
	require.NoError(t, err)
	assert.Equal(t, RewardCounts{Total: 1, Unclaimed: 1, UnclaimedAmount: 170}, counts)

	counts, err = rewards.Counts(ctx, "p-b1")
	require.NoError(t, err)
	assert.Equal(t, RewardCounts{Total: 1}, counts)
}

func TestRewardsSinceCursor(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		r := models.PendingReward{ID: id, PlayerID: "p-sol", Type: models.RewardTypeSoloSupport, Amount: 10, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		f.create(&r)
	}

	cursor, err := latestRewardAt(f.db, "p-sol")
	require.NoError(t, err)
	assert.True(t, cursor.Equal(base.Add(2*time.Minute)))

	fresh, err := rewardsSince(f.db, "p-sol", base)
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "r2", fresh[0].ID)

	none, err := latestRewardAt(f.db, "p-nobody")
	require.NoError(t, err)
	assert.True(t, none.IsZero())
}
