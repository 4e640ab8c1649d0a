package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupLosses(t *testing.T) {
	losses := map[string]int64{"p1": 100, "p2": 300, "p3": 100, "p4": 50, "p5": 20, "p6": 0, "p7": -40}
	groups := GroupLosses(losses, 3)

	require.Len(t, groups, 3)
	assert.Equal(t, LossGroup{Loss: 300, PlayerIDs: []string{"p2"}}, groups[0])
	assert.Equal(t, LossGroup{Loss: 100, PlayerIDs: []string{"p1", "p3"}}, groups[1])
	assert.Equal(t, LossGroup{Loss: 50, PlayerIDs: []string{"p4"}}, groups[2])

	assert.Empty(t, GroupLosses(map[string]int64{"p1": 0, "p2": -5}, 3))
}

func TestPlanRedistributionSingleTier(t *testing.T) {
	plan := PlanRedistribution(68, []LossGroup{{Loss: 100, PlayerIDs: []string{"l1"}}}, DefaultPolicy())

	assert.Equal(t, int64(40), plan.LoserBudget)
	require.Len(t, plan.Tiers, 1)
	assert.Equal(t, int64(40), plan.Tiers[0].PerPlayer)
	assert.Equal(t, int64(40), plan.LoserPaid)
	assert.Equal(t, int64(28), plan.PoolCredit)
}

func TestPlanRedistributionThreeTiers(t *testing.T) {
	groups := []LossGroup{
		{Loss: 300, PlayerIDs: []string{"a"}},
		{Loss: 200, PlayerIDs: []string{"b", "c"}},
		{Loss: 100, PlayerIDs: []string{"d", "e", "f"}},
	}
	plan := PlanRedistribution(101, groups, DefaultPolicy())

	assert.Equal(t, int64(60), plan.LoserBudget)
	assert.Equal(t, []int64{30, 18, 12}, []int64{plan.Tiers[0].Share, plan.Tiers[1].Share, plan.Tiers[2].Share})
	assert.Equal(t, []int64{30, 9, 4}, []int64{plan.Tiers[0].PerPlayer, plan.Tiers[1].PerPlayer, plan.Tiers[2].PerPlayer})
	assert.Equal(t, int64(30+18+12), plan.LoserPaid)
	assert.Equal(t, plan.Total, plan.LoserPaid+plan.PoolCredit)
}

func TestPlanRedistributionRemaindersGoToPool(t *testing.T) {
	groups := []LossGroup{{Loss: 10, PlayerIDs: []string{"a", "b", "c"}}}
	plan := PlanRedistribution(10, groups, DefaultPolicy())

	assert.Equal(t, int64(6), plan.LoserBudget)
	assert.Equal(t, int64(2), plan.Tiers[0].PerPlayer)
	assert.Equal(t, int64(4), plan.PoolCredit)
}

func TestPlanRedistributionNoLosers(t *testing.T) {
	plan := PlanRedistribution(68, nil, DefaultPolicy())
	assert.Equal(t, int64(68), plan.PoolCredit)
	assert.Zero(t, plan.LoserPaid)
	assert.Empty(t, plan.Tiers)

	assert.Equal(t, RedistributionPlan{}, PlanRedistribution(0, []LossGroup{{Loss: 1, PlayerIDs: []string{"a"}}}, DefaultPolicy()))
}
