package settlement

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizePool(t *testing.T) {
	in := PoolInput{EntryFee: 50, TotalPlayers: 20, UCExemptCount: 2, TeamCount: 10, PlacementsTotal: 480}
	got := SizePool(in, RemainderDistributor{OrganizerShareBps: 5000})

	assert.Equal(t, PoolShares{
		PrizePool:     1000,
		TotalPlayers:  20,
		TeamSize:      2,
		ExemptionCost: 100,
		Organizer:     210,
		Fund:          210,
	}, got)
}

func TestSizePoolZeroEntryFee(t *testing.T) {
	got := SizePool(PoolInput{EntryFee: 0, TotalPlayers: 8, TeamCount: 4}, RemainderDistributor{OrganizerShareBps: 5000})
	assert.Zero(t, got.PrizePool)
	assert.Zero(t, got.Organizer)
	assert.Zero(t, got.Fund)
}

func TestSizePoolPlacementsExceedPool(t *testing.T) {
	got := SizePool(PoolInput{EntryFee: 10, TotalPlayers: 10, TeamCount: 5, PlacementsTotal: 480}, RemainderDistributor{OrganizerShareBps: 5000})
	assert.Equal(t, int64(100), got.PrizePool)
	assert.Zero(t, got.Organizer)
	assert.Zero(t, got.Fund)
}

func TestSizePoolTeamSizeRounds(t *testing.T) {
	assert.Equal(t, 4, SizePool(PoolInput{TotalPlayers: 7, TeamCount: 2}, nil).TeamSize)
	assert.Equal(t, 3, SizePool(PoolInput{TotalPlayers: 10, TeamCount: 4}, nil).TeamSize)
	assert.Equal(t, 0, SizePool(PoolInput{TotalPlayers: 3}, nil).TeamSize)
}

func TestSplitRepeatTax(t *testing.T) {
	org, fund := SplitRepeatTax(35, 5000)
	assert.Equal(t, int64(17), org)
	assert.Equal(t, int64(18), fund)
}

func TestApplyContributions(t *testing.T) {
	tests := []struct {
		name              string
		org, fund         int64
		orgTax, fundTax   int64
		wantOrg, wantFund int64
	}{
		{"fund catches up, organizer floor applies", 210, 210, 10, 10, 286, 154},
		{"organizer already ahead", 300, 100, 0, 0, 300, 100},
		{"zero organizer is left alone", 0, 100, 0, 0, 0, 100},
		{"tax alone creates both sides", 0, 0, 17, 18, 22, 13},
		{"nothing in, nothing out", 0, 0, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			org, fund := ApplyContributions(tt.org, tt.fund, tt.orgTax, tt.fundTax, 6500)
			assert.Equal(t, tt.wantOrg, org)
			assert.Equal(t, tt.wantFund, fund)
			assert.Equal(t, tt.org+tt.fund+tt.orgTax+tt.fundTax, org+fund, "re-split conserves the pot")
		})
	}
}

func TestCheckPoolInput(t *testing.T) {
	assert.NoError(t, CheckPoolInput(PoolInput{EntryFee: 100, TotalPlayers: 64}))
	assert.NoError(t, CheckPoolInput(PoolInput{EntryFee: MaxAmount / 4, TotalPlayers: 4}))
	assert.ErrorIs(t, CheckPoolInput(PoolInput{EntryFee: MaxAmount/4 + 1, TotalPlayers: 4}), ErrAmountOutOfRange)
	assert.ErrorIs(t, CheckPoolInput(PoolInput{EntryFee: -1, TotalPlayers: 4}), ErrAmountOutOfRange)
	assert.ErrorIs(t, CheckPoolInput(PoolInput{EntryFee: math.MaxInt64}), ErrAmountOutOfRange)
}
