package services

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tournament-settlement-system/models"
)

const rewardStreamInterval = 2 * time.Second

// rewardsSince returns rewards created strictly after cursor, oldest first.
func rewardsSince(db *gorm.DB, playerID string, cursor time.Time) ([]models.PendingReward, error) {
	var rewards []models.PendingReward
	err := db.Where("player_id = ? AND created_at > ?", playerID, cursor).
		Order("created_at ASC, id ASC").
		Find(&rewards).Error
	return rewards, err
}

// latestRewardAt is the stream's starting cursor: only rewards created after connect are pushed.
func latestRewardAt(db *gorm.DB, playerID string) (time.Time, error) {
	var latest models.PendingReward
	err := db.Where("player_id = ?", playerID).Order("created_at DESC").Limit(1).Find(&latest).Error
	return latest.CreatedAt, err
}

// StreamRewards pushes new rewards for the caller as server-sent events.
func (s *RewardService) StreamRewards(c *fiber.Ctx) error {
	playerID := actorFrom(c).ID
	ctx := c.Context()

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ticker := time.NewTicker(rewardStreamInterval)
		defer ticker.Stop()

		db := s.DB.WithContext(context.Background())
		cursor, err := latestRewardAt(db, playerID)
		if err != nil {
			slog.Error("[REWARD_STREAM] init failed", "player_id", playerID, "error", err)
		}

		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-ticker.C:
				rewards, err := rewardsSince(db, playerID, cursor)
				if err != nil {
					slog.Warn("[REWARD_STREAM] poll failed", "player_id", playerID, "error", err)
					continue
				}
				if len(rewards) == 0 {
					w.WriteString(":\n\n")
				}
				for _, r := range rewards {
					payload, err := json.Marshal(r)
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "event: reward\ndata: %s\n\n", payload)
					cursor = r.CreatedAt
				}
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})
	return nil
}
