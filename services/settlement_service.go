package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"tournament-settlement-system/metrics"
	"tournament-settlement-system/models"
	"tournament-settlement-system/settlement"
	"tournament-settlement-system/utils"
)

// SettlementService ranks a tournament, prices every prize and commits the result once.
type SettlementService struct {
	DB            *gorm.DB
	Policy        settlement.Policy
	Distributor   settlement.Distributor
	Redistributor *TaxRedistributor
	Archiver      utils.ReceiptArchiver // nil disables receipt archiving
	Metrics       *metrics.Metrics

	now func() time.Time
}

func NewSettlementService(db *gorm.DB, policy settlement.Policy, redistributor *TaxRedistributor, archiver utils.ReceiptArchiver, m *metrics.Metrics) *SettlementService {
	return &SettlementService{
		DB:            db,
		Policy:        policy,
		Distributor:   settlement.RemainderDistributor{OrganizerShareBps: policy.OrganizerShareBps},
		Redistributor: redistributor,
		Archiver:      archiver,
		Metrics:       m,
		now:           time.Now,
	}
}

// DeclareRequest asks for a preview (DryRun) or a commit of a tournament's winners.
type DeclareRequest struct {
	TournamentID string
	Placements   []settlement.Placement
	DryRun       bool
	Actor        Actor
}

// SettlementResult is returned by both previews and commits. The money fields are
// computed by the same code path in both modes.
type SettlementResult struct {
	TournamentID   string `json:"tournament_id"`
	TournamentName string `json:"tournament_name"`
	SeasonID       string `json:"season_id"`
	DryRun         bool   `json:"dry_run"`
	Declared       bool   `json:"declared"`

	Ranking    []settlement.TeamAggregate `json:"ranking"`
	Placements []settlement.Placement     `json:"placements"`
	Prizes     []settlement.TeamPrize     `json:"prizes"`
	Totals     settlement.Totals          `json:"totals"`
	Pool       settlement.PoolShares      `json:"pool"`

	RepeatTaxOrganizer int64                        `json:"repeat_tax_organizer"`
	RepeatTaxFund      int64                        `json:"repeat_tax_fund"`
	OrganizerAmount    int64                        `json:"organizer_amount"`
	FundAmount         int64                        `json:"fund_amount"`
	SoloTaxDonations   []models.SoloTaxContribution `json:"solo_tax_donations,omitempty"`

	Winners          []models.TournamentWinner `json:"winners,omitempty"`
	RedistributionID string                    `json:"redistribution_task_id,omitempty"`
	Redistribution   *RedistributionOutcome    `json:"redistribution,omitempty"`
	ReceiptKey       string                    `json:"receipt_key,omitempty"`
	Warnings         []string                  `json:"warnings,omitempty"`
}

// Declare previews or commits a settlement.
func (s *SettlementService) Declare(ctx context.Context, req DeclareRequest) (*SettlementResult, error) {
	start := time.Now()
	mode := "commit"
	if req.DryRun {
		mode = "preview"
	}
	result, err := s.declare(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.Metrics.ObserveSettlement(mode, outcome, time.Since(start).Seconds())
	return result, err
}

func (s *SettlementService) declare(ctx context.Context, req DeclareRequest) (*SettlementResult, error) {
	log := slog.With("tournament_id", req.TournamentID, "actor", req.Actor.ID, "dry_run", req.DryRun)

	if req.DryRun {
		result, err := s.compute(s.DB.WithContext(ctx), req)
		if err != nil {
			log.Info("[SETTLEMENT] preview rejected", "error", err)
			return nil, err
		}
		return result, nil
	}

	if !req.Actor.CanSettle() {
		log.Warn("[SETTLEMENT] commit refused", "roles", req.Actor.Roles)
		return nil, ErrForbidden
	}

	var result *SettlementResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.compute(tx, req)
		if err != nil {
			return err
		}
		if err := s.persist(tx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		log.Error("[SETTLEMENT] commit aborted", "error", err)
		return nil, err
	}
	result.Declared = true
	s.Metrics.AddTaxes(result.Totals.RepeatTax, result.Totals.SoloTax)
	log.Info("[SETTLEMENT] winners declared",
		"winners", len(result.Winners),
		"paid", result.Totals.Final,
		"repeat_tax", result.Totals.RepeatTax,
		"solo_tax", result.Totals.SoloTax,
		"organizer", result.OrganizerAmount,
		"fund", result.FundAmount,
	)

	s.afterCommit(ctx, result)
	return result, nil
}

// compute runs the whole pipeline against db without writing anything.
func (s *SettlementService) compute(db *gorm.DB, req DeclareRequest) (*SettlementResult, error) {
	t, err := loadTournament(db, req.TournamentID)
	if err != nil {
		return nil, err
	}
	if t.IsWinnerDeclared {
		return nil, ErrAlreadyDeclared
	}

	requested := req.Placements
	if len(requested) == 0 {
		requested = s.Policy.DefaultPlacements
	}
	placements, err := settlement.NormalizePlacements(requested)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(db, *t)
	if err != nil {
		return nil, err
	}

	ranked := settlement.Rank(settlement.Aggregate(snap.Results, snap.Rosters, s.Policy.PlacementPoints))
	if len(placements) > len(ranked) {
		return nil, fmt.Errorf("%w: %d placements, %d ranked teams", ErrInsufficientTeams, len(placements), len(ranked))
	}

	var winnerIDs []string
	for _, team := range ranked[:len(placements)] {
		for _, m := range team.Members {
			winnerIDs = append(winnerIDs, m.PlayerID)
		}
	}
	wins, err := priorWins(db, *t, s.Policy.RepeatWinnerWindow, winnerIDs)
	if err != nil {
		return nil, err
	}

	appearances, totalMatches := settlement.Participation(snap.Results)
	prizes, err := settlement.Allocate(settlement.AllocationInput{
		Ranked:       ranked,
		Placements:   placements,
		TotalMatches: totalMatches,
		Appearances:  appearances,
		PriorWins:    wins,
		Solo:         settlement.SoloPlayers(snap.Results),
	}, s.Policy)
	if err != nil {
		return nil, err
	}
	totals := settlement.Sum(prizes)

	poolInput := settlement.PoolInput{
		EntryFee:        t.EntryFee,
		TotalPlayers:    snap.TotalPlayers,
		UCExemptCount:   snap.UCExemptCount,
		TeamCount:       snap.TeamCount,
		PlacementsTotal: totals.Placements,
	}
	if err := settlement.CheckPoolInput(poolInput); err != nil {
		return nil, err
	}
	pool := settlement.SizePool(poolInput, s.Distributor)
	orgTax, fundTax := settlement.SplitRepeatTax(totals.RepeatTax, s.Policy.RepeatTaxOrganizerShareBps)
	organizer, fund := settlement.ApplyContributions(pool.Organizer, pool.Fund, orgTax, fundTax, s.Policy.OrganizerFloorBps)

	result := &SettlementResult{
		TournamentID:       t.ID,
		TournamentName:     t.Name,
		SeasonID:           t.SeasonID,
		DryRun:             req.DryRun,
		Ranking:            ranked,
		Placements:         placements,
		Prizes:             prizes,
		Totals:             totals,
		Pool:               pool,
		RepeatTaxOrganizer: orgTax,
		RepeatTaxFund:      fundTax,
		OrganizerAmount:    organizer,
		FundAmount:         fund,
	}
	for _, tp := range prizes {
		for _, pp := range tp.Players {
			if pp.SoloTax > 0 {
				result.SoloTaxDonations = append(result.SoloTaxDonations, models.SoloTaxContribution{
					PlayerID:   pp.PlayerID,
					PlayerName: pp.PlayerName,
					Amount:     pp.SoloTax,
				})
			}
		}
	}
	return result, nil
}

// afterCommit runs the best-effort follow-ups. Failures become warnings; the
// settlement itself stays committed.
func (s *SettlementService) afterCommit(ctx context.Context, result *SettlementResult) {
	log := slog.With("tournament_id", result.TournamentID)

	if result.RedistributionID != "" && s.Redistributor != nil {
		outcome, err := s.Redistributor.Run(ctx, result.RedistributionID)
		if err != nil {
			log.Warn("[SETTLEMENT] solo tax redistribution deferred", "task_id", result.RedistributionID, "error", err)
			result.Warnings = append(result.Warnings, fmt.Sprintf("solo tax redistribution deferred: %v", err))
		} else {
			result.Redistribution = outcome
		}
	}

	if s.Archiver == nil {
		return
	}
	key := utils.ReceiptKey(result.TournamentID, s.now())
	body, err := json.Marshal(result)
	if err == nil {
		err = s.Archiver.Archive(ctx, key, body)
	}
	if err == nil {
		err = s.DB.WithContext(ctx).Model(&models.Tournament{}).Where("id = ?", result.TournamentID).Update("receipt_key", key).Error
	}
	if err != nil {
		log.Warn("[SETTLEMENT] receipt not archived", "key", key, "error", err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("receipt not archived: %v", err))
		return
	}
	result.ReceiptKey = key
}

// Winners returns the declared placements of a tournament.
func (s *SettlementService) Winners(ctx context.Context, tournamentID string) ([]models.TournamentWinner, error) {
	if _, err := loadTournament(s.DB.WithContext(ctx), tournamentID); err != nil {
		return nil, err
	}
	var winners []models.TournamentWinner
	if err := s.DB.WithContext(ctx).Where("tournament_id = ?", tournamentID).Order("position ASC").Find(&winners).Error; err != nil {
		return nil, fmt.Errorf("load winners: %w", err)
	}
	return winners, nil
}
