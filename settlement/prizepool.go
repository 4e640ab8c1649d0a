package settlement

// PoolInput describes the paying roster of a tournament.
type PoolInput struct {
	EntryFee        int64
	TotalPlayers    int // distinct players across all teams
	UCExemptCount   int
	TeamCount       int
	PlacementsTotal int64
}

// PoolShares is the prize pool and its organizer/fund split before tax contributions.
type PoolShares struct {
	PrizePool     int64 `json:"prize_pool"`
	TotalPlayers  int   `json:"total_players"`
	TeamSize      int   `json:"team_size"`
	ExemptionCost int64 `json:"exemption_cost"`
	Organizer     int64 `json:"organizer"`
	Fund          int64 `json:"fund"`
}

// Distributor splits a prize pool into base organizer and fund amounts.
type Distributor interface {
	Distribute(in PoolInput, prizePool, exemptionCost int64) (organizer, fund int64)
}

// RemainderDistributor splits whatever the placements and exemptions leave over.
type RemainderDistributor struct {
	OrganizerShareBps int64
}

func (d RemainderDistributor) Distribute(in PoolInput, prizePool, exemptionCost int64) (int64, int64) {
	remainder := prizePool - exemptionCost - in.PlacementsTotal
	if remainder <= 0 {
		return 0, 0
	}
	organizer := applyBps(remainder, d.OrganizerShareBps)
	return organizer, remainder - organizer
}

// SizePool computes the prize pool and base shares. A zero pool always yields zero shares.
func SizePool(in PoolInput, d Distributor) PoolShares {
	shares := PoolShares{
		PrizePool:     in.EntryFee * int64(in.TotalPlayers),
		TotalPlayers:  in.TotalPlayers,
		ExemptionCost: in.EntryFee * int64(in.UCExemptCount),
	}
	if in.TeamCount > 0 {
		shares.TeamSize = (2*in.TotalPlayers + in.TeamCount) / (2 * in.TeamCount)
	}
	if shares.PrizePool <= 0 || d == nil {
		return shares
	}
	shares.Organizer, shares.Fund = d.Distribute(in, shares.PrizePool, shares.ExemptionCost)
	return shares
}

// SplitRepeatTax divides collected repeat-winner tax between organizer and fund.
func SplitRepeatTax(total, organizerShareBps int64) (organizer, fund int64) {
	organizer = applyBps(total, organizerShareBps)
	return organizer, total - organizer
}

// ApplyContributions adds tax contributions to the base shares. When the fund ends up
// at least as large as a non-zero organizer share, the combined pot is re-split so the
// organizer receives floorBps of it.
func ApplyContributions(organizer, fund, organizerTax, fundTax, floorBps int64) (int64, int64) {
	organizer += organizerTax
	fund += fundTax
	if organizer != 0 && fund >= organizer {
		combined := organizer + fund
		organizer = applyBps(combined, floorBps)
		fund = combined - organizer
	}
	return organizer, fund
}
