// Package settlement holds the pure tournament settlement math: aggregation, ranking,
// prize pool sizing, the tax chain and per-player allocation. Nothing here touches the
// database; the same functions drive both previews and commits.
package settlement

import (
	"errors"
	"fmt"
)

// BasisPoints is 100% expressed in basis points.
const BasisPoints int64 = 10000

var (
	ErrInvalidPolicy     = errors.New("invalid settlement policy")
	ErrInvalidPlacements = errors.New("invalid placements")
	ErrInsufficientTeams = errors.New("not enough ranked teams for the requested placements")
	ErrNegativeAmount    = errors.New("player prize would be negative")
	ErrAmountOutOfRange  = errors.New("amount out of range")
	ErrEmptyRoster       = errors.New("placed team has no rostered players")
)

// NegativeAmountPolicy decides what happens when a final prize drops below zero.
type NegativeAmountPolicy string

const (
	NegativeAmountReject NegativeAmountPolicy = "reject"
	NegativeAmountClamp  NegativeAmountPolicy = "clamp"
)

// WinBracket applies RateBps once a player has at least MinWins prior wins in the window.
type WinBracket struct {
	MinWins int   `yaml:"min_wins" json:"min_wins"`
	RateBps int64 `yaml:"rate_bps" json:"rate_bps"`
}

// AmountTier applies RateBps to the whole amount once it reaches MinAmount.
type AmountTier struct {
	MinAmount int64 `yaml:"min_amount" json:"min_amount"`
	RateBps   int64 `yaml:"rate_bps" json:"rate_bps"`
}

// Placement is how much the team finishing at Position earns.
type Placement struct {
	Position int   `yaml:"position" json:"position"`
	Amount   int64 `yaml:"amount" json:"amount"`
}

// Policy is every tunable number of the settlement pipeline.
type Policy struct {
	PlacementPoints            PointsTable          `yaml:"placement_points"`
	RepeatWinnerWindow         int                  `yaml:"repeat_winner_window"`
	RepeatWinnerBrackets       []WinBracket         `yaml:"repeat_winner_brackets"`
	SoloTaxTiers               []AmountTier         `yaml:"solo_tax_tiers"`
	ParticipationFactorBps     int64                `yaml:"participation_factor_bps"`
	OrganizerShareBps          int64                `yaml:"organizer_share_bps"`
	OrganizerFloorBps          int64                `yaml:"organizer_floor_bps"`
	RepeatTaxOrganizerShareBps int64                `yaml:"repeat_tax_organizer_share_bps"`
	LoserShareBps              int64                `yaml:"loser_share_bps"`
	LoserTierWeightsBps        []int64              `yaml:"loser_tier_weights_bps"`
	NegativeAmounts            NegativeAmountPolicy `yaml:"negative_amounts"`
	DefaultPlacements          []Placement          `yaml:"default_placements"`
}

// DefaultPolicy returns the production defaults.
func DefaultPolicy() Policy {
	return Policy{
		PlacementPoints:    PointsTable{10, 6, 5, 4, 3, 2, 1, 1},
		RepeatWinnerWindow: 6,
		RepeatWinnerBrackets: []WinBracket{
			{MinWins: 0, RateBps: 0},
			{MinWins: 1, RateBps: 1000},
			{MinWins: 2, RateBps: 2000},
			{MinWins: 3, RateBps: 3000},
			{MinWins: 4, RateBps: 4000},
		},
		SoloTaxTiers: []AmountTier{
			{MinAmount: 0, RateBps: 1500},
			{MinAmount: 200, RateBps: 2000},
			{MinAmount: 500, RateBps: 2500},
		},
		ParticipationFactorBps:     5000,
		OrganizerShareBps:          5000,
		OrganizerFloorBps:          6500,
		RepeatTaxOrganizerShareBps: 5000,
		LoserShareBps:              6000,
		LoserTierWeightsBps:        []int64{5000, 3000, 2000},
		NegativeAmounts:            NegativeAmountReject,
		DefaultPlacements: []Placement{
			{Position: 1, Amount: 340},
			{Position: 2, Amount: 140},
		},
	}
}

// LoserTierCount is the number of loss groups that receive compensation.
func (p Policy) LoserTierCount() int {
	return len(p.LoserTierWeightsBps)
}

// Validate rejects tables that are out of range or not monotone.
func (p Policy) Validate() error {
	if p.RepeatWinnerWindow < 0 {
		return fmt.Errorf("%w: repeat_winner_window must be >= 0", ErrInvalidPolicy)
	}
	for i, pts := range p.PlacementPoints {
		if pts < 0 {
			return fmt.Errorf("%w: placement_points[%d] is negative", ErrInvalidPolicy, i)
		}
		if i > 0 && pts > p.PlacementPoints[i-1] {
			return fmt.Errorf("%w: placement_points must not increase with position", ErrInvalidPolicy)
		}
	}
	for i, b := range p.RepeatWinnerBrackets {
		if err := checkBps("repeat_winner_brackets.rate_bps", b.RateBps); err != nil {
			return err
		}
		if b.MinWins < 0 {
			return fmt.Errorf("%w: repeat_winner_brackets[%d].min_wins is negative", ErrInvalidPolicy, i)
		}
		if i > 0 {
			prev := p.RepeatWinnerBrackets[i-1]
			if b.MinWins <= prev.MinWins || b.RateBps < prev.RateBps {
				return fmt.Errorf("%w: repeat_winner_brackets must be ascending in min_wins and rate", ErrInvalidPolicy)
			}
		}
	}
	for i, t := range p.SoloTaxTiers {
		if err := checkBps("solo_tax_tiers.rate_bps", t.RateBps); err != nil {
			return err
		}
		if t.MinAmount < 0 {
			return fmt.Errorf("%w: solo_tax_tiers[%d].min_amount is negative", ErrInvalidPolicy, i)
		}
		if i > 0 {
			prev := p.SoloTaxTiers[i-1]
			if t.MinAmount <= prev.MinAmount || t.RateBps < prev.RateBps {
				return fmt.Errorf("%w: solo_tax_tiers must be ascending in min_amount and rate", ErrInvalidPolicy)
			}
		}
	}
	for name, v := range map[string]int64{
		"participation_factor_bps":       p.ParticipationFactorBps,
		"organizer_share_bps":            p.OrganizerShareBps,
		"organizer_floor_bps":            p.OrganizerFloorBps,
		"repeat_tax_organizer_share_bps": p.RepeatTaxOrganizerShareBps,
		"loser_share_bps":                p.LoserShareBps,
	} {
		if err := checkBps(name, v); err != nil {
			return err
		}
	}
	var weightSum int64
	for _, w := range p.LoserTierWeightsBps {
		if w < 0 {
			return fmt.Errorf("%w: loser_tier_weights_bps must be >= 0", ErrInvalidPolicy)
		}
		weightSum += w
	}
	if len(p.LoserTierWeightsBps) > 0 && weightSum == 0 {
		return fmt.Errorf("%w: loser_tier_weights_bps must not all be zero", ErrInvalidPolicy)
	}
	switch p.NegativeAmounts {
	case NegativeAmountReject, NegativeAmountClamp:
	default:
		return fmt.Errorf("%w: negative_amounts must be %q or %q", ErrInvalidPolicy, NegativeAmountReject, NegativeAmountClamp)
	}
	if len(p.DefaultPlacements) > 0 {
		if _, err := NormalizePlacements(p.DefaultPlacements); err != nil {
			return fmt.Errorf("%w: default_placements: %v", ErrInvalidPolicy, err)
		}
	}
	return nil
}

func checkBps(name string, v int64) error {
	if v < 0 || v > BasisPoints {
		return fmt.Errorf("%w: %s must be within 0..%d, got %d", ErrInvalidPolicy, name, BasisPoints, v)
	}
	return nil
}
