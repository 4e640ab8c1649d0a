package settlement

import (
	"fmt"
	"log/slog"
	"slices"
)

// PlayerPrize carries every intermediate number of one player's prize.
type PlayerPrize struct {
	PlayerID          string `json:"player_id"`
	PlayerName        string `json:"player_name"`
	TeamID            string `json:"team_id"`
	Position          int    `json:"position"`
	TeamAmount        int64  `json:"team_amount"`
	MemberCount       int    `json:"member_count"`
	Base              int64  `json:"base"`
	Appearances       int    `json:"appearances"`
	TotalMatches      int    `json:"total_matches"`
	ParticipationAdj  int64  `json:"participation_adj"`
	Adjusted          int64  `json:"adjusted"`
	PriorWins         int    `json:"prior_wins"`
	RepeatTax         int64  `json:"repeat_tax"`
	RepeatTaxRateBps  int64  `json:"repeat_tax_rate_bps"`
	NetAfterRepeatTax int64  `json:"net_after_repeat_tax"`
	Solo              bool   `json:"solo"`
	SoloTax           int64  `json:"solo_tax"`
	SoloTaxRateBps    int64  `json:"solo_tax_rate_bps"`
	Final             int64  `json:"final"`
	Clamped           bool   `json:"clamped,omitempty"`
}

// TeamPrize is one placement and the players it pays.
type TeamPrize struct {
	TeamID   string        `json:"team_id"`
	TeamName string        `json:"team_name"`
	Position int           `json:"position"`
	Amount   int64         `json:"amount"`
	Players  []PlayerPrize `json:"players"`
}

// AllocationInput is everything the allocator needs beyond the policy.
type AllocationInput struct {
	Ranked       []TeamAggregate
	Placements   []Placement
	TotalMatches int
	Appearances  map[string]int
	PriorWins    map[string]int
	Solo         map[string]bool
}

// Totals sums an allocation for reconciliation.
type Totals struct {
	Base             int64 `json:"base"`
	ParticipationAdj int64 `json:"participation_adj"`
	RepeatTax        int64 `json:"repeat_tax"`
	SoloTax          int64 `json:"solo_tax"`
	Final            int64 `json:"final"`
	Placements       int64 `json:"placements"`
}

// NormalizePlacements returns placements sorted by position after checking they run
// 1..n without gaps and carry no negative amounts.
func NormalizePlacements(placements []Placement) ([]Placement, error) {
	if len(placements) == 0 {
		return nil, fmt.Errorf("%w: at least one placement is required", ErrInvalidPlacements)
	}
	sorted := slices.Clone(placements)
	slices.SortFunc(sorted, func(a, b Placement) int { return a.Position - b.Position })
	for i, p := range sorted {
		if p.Position != i+1 {
			return nil, fmt.Errorf("%w: positions must be contiguous from 1, got %d at index %d", ErrInvalidPlacements, p.Position, i)
		}
		if p.Amount < 0 {
			return nil, fmt.Errorf("%w: position %d has negative amount", ErrInvalidPlacements, p.Position)
		}
		if p.Amount > MaxAmount {
			return nil, fmt.Errorf("%w: position %d amount %d exceeds %d", ErrInvalidPlacements, p.Position, p.Amount, MaxAmount)
		}
	}
	return sorted, nil
}

// Allocate computes every winning player's prize. It has no side effects.
func Allocate(in AllocationInput, p Policy) ([]TeamPrize, error) {
	placements, err := NormalizePlacements(in.Placements)
	if err != nil {
		return nil, err
	}
	if len(placements) > len(in.Ranked) {
		return nil, fmt.Errorf("%w: %d placements, %d ranked teams", ErrInsufficientTeams, len(placements), len(in.Ranked))
	}

	prizes := make([]TeamPrize, 0, len(placements))
	for _, pl := range placements {
		team := in.Ranked[pl.Position-1]
		tp := TeamPrize{
			TeamID:   team.TeamID,
			TeamName: team.TeamName,
			Position: pl.Position,
			Amount:   pl.Amount,
		}

		n := int64(len(team.Members))
		if n == 0 {
			return nil, fmt.Errorf("%w: team %s at position %d", ErrEmptyRoster, team.TeamID, pl.Position)
		}
		base := pl.Amount / n

		var sumAppearances int64
		for _, m := range team.Members {
			sumAppearances += int64(in.Appearances[m.PlayerID])
		}

		for _, m := range team.Members {
			pp := PlayerPrize{
				PlayerID:     m.PlayerID,
				PlayerName:   m.Name,
				TeamID:       team.TeamID,
				Position:     pl.Position,
				TeamAmount:   pl.Amount,
				MemberCount:  int(n),
				Base:         base,
				Appearances:  in.Appearances[m.PlayerID],
				TotalMatches: in.TotalMatches,
				PriorWins:    in.PriorWins[m.PlayerID],
				Solo:         in.Solo[m.PlayerID],
			}
			pp.ParticipationAdj = participationAdjustment(
				int64(pp.Appearances), sumAppearances, n, int64(in.TotalMatches), base, p.ParticipationFactorBps,
			)
			pp.Adjusted = base + pp.ParticipationAdj

			repeat := RepeatWinnerTax(pp.Adjusted, pp.PriorWins, p.RepeatWinnerBrackets)
			pp.RepeatTax, pp.RepeatTaxRateBps, pp.NetAfterRepeatTax = repeat.TaxAmount, repeat.RateBps, repeat.NetAmount

			solo := SoloTax(pp.NetAfterRepeatTax, pp.Solo, p.SoloTaxTiers)
			pp.SoloTax, pp.SoloTaxRateBps, pp.Final = solo.TaxAmount, solo.RateBps, solo.NetAmount

			if pp.Final < 0 {
				if p.NegativeAmounts != NegativeAmountClamp {
					return nil, fmt.Errorf("%w: player %s at position %d computes to %d", ErrNegativeAmount, pp.PlayerID, pl.Position, pp.Final)
				}
				slog.Warn("[SETTLEMENT] clamping negative prize to zero",
					"player_id", pp.PlayerID, "position", pl.Position, "computed", pp.Final)
				pp.Final = 0
				pp.Clamped = true
			}
			tp.Players = append(tp.Players, pp)
		}
		prizes = append(prizes, tp)
	}
	return prizes, nil
}

// participationAdjustment is floor((a/M - avg) * base * factor) with avg = sum/(n*M),
// evaluated exactly as floor((n*a - sum) * base * factor / (n * M * 10000)).
func participationAdjustment(appearances, sumAppearances, n, totalMatches, base, factorBps int64) int64 {
	if totalMatches <= 0 || n <= 0 || base == 0 {
		return 0
	}
	return mulFloorDiv(n*totalMatches*BasisPoints, n*appearances-sumAppearances, base, factorBps)
}

// Sum totals an allocation.
func Sum(prizes []TeamPrize) Totals {
	var t Totals
	for _, tp := range prizes {
		t.Placements += tp.Amount
		for _, pp := range tp.Players {
			t.Base += pp.Base
			t.ParticipationAdj += pp.ParticipationAdj
			t.RepeatTax += pp.RepeatTax
			t.SoloTax += pp.SoloTax
			t.Final += pp.Final
		}
	}
	return t
}
