package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tournament-settlement-system/metrics"
	"tournament-settlement-system/models"
	"tournament-settlement-system/settlement"
	"tournament-settlement-system/utils"
)

// MaxRedistributionAttempts is how often a task is retried before it is marked failed.
const MaxRedistributionAttempts = 5

// TaxRedistributor routes collected solo tax to the season's biggest losers and the
// season pool. Each task is applied in a single transaction, at most once.
type TaxRedistributor struct {
	DB      *gorm.DB
	Policy  settlement.Policy
	Metrics *metrics.Metrics

	now func() time.Time
}

func NewTaxRedistributor(db *gorm.DB, policy settlement.Policy, m *metrics.Metrics) *TaxRedistributor {
	return &TaxRedistributor{DB: db, Policy: policy, Metrics: m, now: time.Now}
}

// RedistributionOutcome reports what a task paid out.
type RedistributionOutcome struct {
	TaskID       string                        `json:"task_id"`
	TournamentID string                        `json:"tournament_id"`
	SeasonID     string                        `json:"season_id"`
	Plan         settlement.RedistributionPlan `json:"plan"`
	Donors       []string                      `json:"donors"`
	PoolAmount   int64                         `json:"pool_amount"`
}

// Run applies one task. A task that is already done returns a nil outcome.
func (r *TaxRedistributor) Run(ctx context.Context, taskID string) (*RedistributionOutcome, error) {
	var outcome *RedistributionOutcome
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.RedistributionTask
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return fmt.Errorf("load task: %w", err)
		}
		if task.Status == models.RedistributionStatusDone {
			return nil
		}

		var err error
		outcome, err = r.apply(tx, task)
		if err != nil {
			return err
		}

		done := tx.Model(&models.RedistributionTask{}).
			Where("id = ? AND status <> ?", task.ID, models.RedistributionStatusDone).
			Updates(map[string]interface{}{
				"status":       models.RedistributionStatusDone,
				"attempts":     task.Attempts + 1,
				"last_error":   "",
				"completed_at": r.now(),
			})
		if done.Error != nil {
			return fmt.Errorf("complete task: %w", done.Error)
		}
		if done.RowsAffected == 0 {
			return fmt.Errorf("task %s completed concurrently", task.ID)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			r.recordFailure(ctx, taskID, err)
		}
		return nil, err
	}
	if outcome != nil {
		r.Metrics.ObserveRedistribution("done", outcome.Plan.PoolCredit)
		slog.Info("[REDISTRIBUTOR] solo tax redistributed",
			"task_id", taskID,
			"tournament_id", outcome.TournamentID,
			"total", outcome.Plan.Total,
			"losers_paid", outcome.Plan.LoserPaid,
			"pool_credit", outcome.Plan.PoolCredit,
		)
	}
	return outcome, nil
}

func (r *TaxRedistributor) apply(tx *gorm.DB, task models.RedistributionTask) (*RedistributionOutcome, error) {
	var donations []models.SoloTaxContribution
	if err := json.Unmarshal(task.Payload, &donations); err != nil {
		return nil, fmt.Errorf("decode task payload: %w", err)
	}
	var total int64
	var donors []string
	for _, d := range donations {
		total += d.Amount
		donors = append(donors, d.PlayerName)
	}
	donorList := utils.MergeNames("", donors...)

	outcome := &RedistributionOutcome{
		TaskID:       task.ID,
		TournamentID: task.TournamentID,
		SeasonID:     task.SeasonID,
		Donors:       splitNames(donorList),
	}
	if total <= 0 {
		return outcome, nil
	}

	losses, err := seasonLosses(tx, task.SeasonID)
	if err != nil {
		return nil, err
	}
	plan := settlement.PlanRedistribution(total, settlement.GroupLosses(losses, r.Policy.LoserTierCount()), r.Policy)
	outcome.Plan = plan

	message := func(amount int64) string {
		return fmt.Sprintf("Solo support from %s: %s", donorList, utils.FormatAmount(amount))
	}
	link := utils.TournamentLink(task.TournamentID, task.TournamentName)

	var rewards []models.PendingReward
	var notifications []models.Notification
	for i, tier := range plan.Tiers {
		if tier.PerPlayer <= 0 {
			continue
		}
		for _, playerID := range tier.PlayerIDs {
			details, err := json.Marshal(map[string]interface{}{
				"task_id":     task.ID,
				"tier":        i + 1,
				"season_loss": tier.Loss,
				"donors":      outcome.Donors,
			})
			if err != nil {
				return nil, fmt.Errorf("encode solo support detail: %w", err)
			}
			rewards = append(rewards, models.PendingReward{
				ID:           uuid.NewString(),
				PlayerID:     playerID,
				TournamentID: task.TournamentID,
				Type:         models.RewardTypeSoloSupport,
				Amount:       tier.PerPlayer,
				Message:      message(tier.PerPlayer),
				Details:      datatypes.JSON(details),
			})
			notifications = append(notifications, models.Notification{
				ID:       uuid.NewString(),
				PlayerID: playerID,
				Title:    "🤝 Solo support received",
				Message:  message(tier.PerPlayer),
				Type:     models.NotificationTypeSoloSupport,
				Link:     link,
			})
		}
	}
	if len(rewards) > 0 {
		if err := tx.Create(&rewards).Error; err != nil {
			return nil, fmt.Errorf("create solo support rewards: %w", err)
		}
		if err := tx.Create(&notifications).Error; err != nil {
			return nil, fmt.Errorf("create solo support notifications: %w", err)
		}
	}

	if plan.PoolCredit > 0 {
		pool, err := incrementPool(tx, task.SeasonID, plan.PoolCredit, outcome.Donors)
		if err != nil {
			return nil, err
		}
		outcome.PoolAmount = pool.Amount
	}
	return outcome, nil
}

func (r *TaxRedistributor) recordFailure(ctx context.Context, taskID string, cause error) {
	r.Metrics.ObserveRedistribution("failed", 0)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.RedistributionTask
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			return err
		}
		if task.Status == models.RedistributionStatusDone {
			return nil
		}
		status := models.RedistributionStatusPending
		if task.Attempts+1 >= MaxRedistributionAttempts {
			status = models.RedistributionStatusFailed
		}
		return tx.Model(&task).Updates(map[string]interface{}{
			"status":     status,
			"attempts":   task.Attempts + 1,
			"last_error": cause.Error(),
		}).Error
	})
	if err != nil {
		slog.Error("[REDISTRIBUTOR] could not record failure", "task_id", taskID, "error", err, "cause", cause)
		return
	}
	slog.Warn("[REDISTRIBUTOR] task attempt failed", "task_id", taskID, "error", cause)
}

// RetryPending runs up to limit pending tasks, oldest first, and returns how many succeeded.
func (r *TaxRedistributor) RetryPending(ctx context.Context, limit int) (int, error) {
	var ids []string
	if err := r.DB.WithContext(ctx).Model(&models.RedistributionTask{}).
		Where("status = ?", models.RedistributionStatusPending).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("list pending redistribution tasks: %w", err)
	}

	var done int
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if _, err := r.Run(ctx, id); err != nil {
			continue
		}
		done++
	}
	return done, nil
}

// seasonLosses returns entry-fee debits minus prize credits per player, counting only
// ledger rows that name a tournament of the season.
func seasonLosses(tx *gorm.DB, seasonID string) (map[string]int64, error) {
	var names []string
	if err := tx.Model(&models.Tournament{}).Where("season_id = ?", seasonID).Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("load season tournaments: %w", err)
	}

	var playerIDs []string
	if err := tx.Table("team_players").
		Joins("JOIN teams ON teams.id = team_players.team_id").
		Joins("JOIN tournaments ON tournaments.id = teams.tournament_id").
		Where("tournaments.season_id = ?", seasonID).
		Distinct().
		Pluck("team_players.player_id", &playerIDs).Error; err != nil {
		return nil, fmt.Errorf("load season players: %w", err)
	}

	losses := make(map[string]int64)
	if len(playerIDs) == 0 || len(names) == 0 {
		return losses, nil
	}

	var ledger []models.Transaction
	if err := tx.Where("player_id IN ?", playerIDs).Find(&ledger).Error; err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	for _, row := range ledger {
		if !mentionsAny(row.Description, names) {
			continue
		}
		switch row.Type {
		case models.TransactionTypeDebit:
			losses[row.PlayerID] += row.Amount
		case models.TransactionTypeCredit:
			losses[row.PlayerID] -= row.Amount
		}
	}
	return losses, nil
}

func mentionsAny(description string, names []string) bool {
	for _, n := range names {
		if n != "" && strings.Contains(description, n) {
			return true
		}
	}
	return false
}

func splitNames(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ", ")
}
