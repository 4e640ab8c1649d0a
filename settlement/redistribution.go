package settlement

import (
	"cmp"
	"slices"
)

// LossGroup is every player sharing one exact season loss.
type LossGroup struct {
	Loss      int64    `json:"loss"`
	PlayerIDs []string `json:"player_ids"`
}

// GroupLosses groups positive losses by value, biggest first, keeping at most limit groups.
func GroupLosses(losses map[string]int64, limit int) []LossGroup {
	byLoss := make(map[int64][]string)
	for id, loss := range losses {
		if loss > 0 {
			byLoss[loss] = append(byLoss[loss], id)
		}
	}
	groups := make([]LossGroup, 0, len(byLoss))
	for loss, ids := range byLoss {
		slices.Sort(ids)
		groups = append(groups, LossGroup{Loss: loss, PlayerIDs: ids})
	}
	slices.SortFunc(groups, func(a, b LossGroup) int { return cmp.Compare(b.Loss, a.Loss) })
	if limit >= 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// TierPayout is what one loss group receives.
type TierPayout struct {
	Loss      int64    `json:"loss"`
	PlayerIDs []string `json:"player_ids"`
	Share     int64    `json:"share"`
	PerPlayer int64    `json:"per_player"`
}

// RedistributionPlan splits collected solo tax between loser tiers and the season pool.
// LoserPaid + PoolCredit always equals Total.
type RedistributionPlan struct {
	Total       int64        `json:"total"`
	LoserBudget int64        `json:"loser_budget"`
	Tiers       []TierPayout `json:"tiers"`
	LoserPaid   int64        `json:"loser_paid"`
	PoolCredit  int64        `json:"pool_credit"`
}

// PlanRedistribution sends LoserShareBps of total to the loss groups, weighted by
// LoserTierWeightsBps renormalised over the groups present, split evenly inside a group.
// Everything not paid out, floor remainders included, is credited to the pool.
func PlanRedistribution(total int64, groups []LossGroup, p Policy) RedistributionPlan {
	plan := RedistributionPlan{Total: total}
	if total <= 0 {
		return plan
	}
	if len(groups) > len(p.LoserTierWeightsBps) {
		groups = groups[:len(p.LoserTierWeightsBps)]
	}

	var weightSum int64
	for i := range groups {
		weightSum += p.LoserTierWeightsBps[i]
	}
	if len(groups) == 0 || weightSum == 0 {
		plan.PoolCredit = total
		return plan
	}

	plan.LoserBudget = applyBps(total, p.LoserShareBps)
	for i, g := range groups {
		share := mulFloorDiv(weightSum, plan.LoserBudget, p.LoserTierWeightsBps[i])
		per := share / int64(len(g.PlayerIDs))
		plan.Tiers = append(plan.Tiers, TierPayout{
			Loss:      g.Loss,
			PlayerIDs: g.PlayerIDs,
			Share:     share,
			PerPlayer: per,
		})
		plan.LoserPaid += per * int64(len(g.PlayerIDs))
	}
	plan.PoolCredit = total - plan.LoserPaid
	return plan
}
