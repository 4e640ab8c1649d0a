package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tournament-settlement-system/models"
)

var (
	ErrRewardNotFound = errors.New("reward not found or not owned by player")
	ErrAlreadyClaimed = errors.New("reward already claimed")
)

// RewardService exposes a player's pending rewards and books claims to the wallet ledger.
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// RewardFilter narrows ListRewards. Nil fields do not filter.
type RewardFilter struct {
	Claimed *bool
	Type    models.RewardType
	Limit   int
}

// RewardCounts summarises a player's rewards.
type RewardCounts struct {
	Total            int64 `json:"total_count"`
	Unclaimed        int64 `json:"unclaimed_count"`
	UnclaimedAmount  int64 `json:"unclaimed_amount"`
	SoloSupportCount int64 `json:"solo_support_count"`
}

// ListRewards returns a player's rewards, newest first.
func (s *RewardService) ListRewards(ctx context.Context, playerID string, f RewardFilter) ([]models.PendingReward, error) {
	q := s.DB.WithContext(ctx).Where("player_id = ?", playerID)
	if f.Claimed != nil {
		q = q.Where("is_claimed = ?", *f.Claimed)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	q = q.Order("created_at DESC, id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var rewards []models.PendingReward
	if err := q.Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return rewards, nil
}

// Counts returns totals the client can poll.
func (s *RewardService) Counts(ctx context.Context, playerID string) (RewardCounts, error) {
	var out RewardCounts
	base := func() *gorm.DB {
		return s.DB.WithContext(ctx).Model(&models.PendingReward{}).Where("player_id = ?", playerID)
	}
	if err := base().Count(&out.Total).Error; err != nil {
		return out, fmt.Errorf("count rewards: %w", err)
	}
	if err := base().Where("is_claimed = ?", false).Count(&out.Unclaimed).Error; err != nil {
		return out, fmt.Errorf("count unclaimed rewards: %w", err)
	}
	if err := base().Where("is_claimed = ?", false).Select("COALESCE(SUM(amount), 0)").Scan(&out.UnclaimedAmount).Error; err != nil {
		return out, fmt.Errorf("sum unclaimed rewards: %w", err)
	}
	if err := base().Where("type = ?", models.RewardTypeSoloSupport).Count(&out.SoloSupportCount).Error; err != nil {
		return out, fmt.Errorf("count solo support: %w", err)
	}
	return out, nil
}

// Claim marks a reward claimed and credits the player's ledger with it. The credit
// names the tournament so season loss tracking sees it.
func (s *RewardService) Claim(ctx context.Context, playerID, rewardID string) (*models.PendingReward, error) {
	var reward models.PendingReward
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND player_id = ?", rewardID, playerID).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRewardNotFound
			}
			return fmt.Errorf("load reward: %w", err)
		}

		claim := tx.Model(&models.PendingReward{}).
			Where("id = ? AND is_claimed = ?", reward.ID, false).
			Update("is_claimed", true)
		if claim.Error != nil {
			return fmt.Errorf("claim reward: %w", claim.Error)
		}
		if claim.RowsAffected == 0 {
			return ErrAlreadyClaimed
		}
		reward.IsClaimed = true

		if reward.Amount <= 0 {
			return nil
		}
		return tx.Create(&models.Transaction{
			ID:          uuid.NewString(),
			PlayerID:    playerID,
			Amount:      reward.Amount,
			Type:        models.TransactionTypeCredit,
			Description: ledgerDescription(tx, reward),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	slog.Info("[REWARDS] claimed", "player_id", playerID, "reward_id", reward.ID, "amount", reward.Amount)
	return &reward, nil
}

func ledgerDescription(tx *gorm.DB, r models.PendingReward) string {
	label := "Prize"
	if r.Type == models.RewardTypeSoloSupport {
		label = "Solo support"
	}
	if r.TournamentID == "" {
		return label
	}
	var t models.Tournament
	if err := tx.Select("name").First(&t, "id = ?", r.TournamentID).Error; err != nil || strings.TrimSpace(t.Name) == "" {
		return label
	}
	return fmt.Sprintf("%s from %s", label, t.Name)
}
