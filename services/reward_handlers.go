package services

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tournament-settlement-system/models"
)

// GetMyRewards handles GET /me/rewards?claimed=false&type=WINNER&limit=20.
func (s *RewardService) GetMyRewards(c *fiber.Ctx) error {
	var f RewardFilter
	switch strings.ToLower(c.Query("claimed")) {
	case "true":
		v := true
		f.Claimed = &v
	case "false":
		v := false
		f.Claimed = &v
	}
	if typ := strings.ToUpper(c.Query("type")); typ != "" {
		f.Type = models.RewardType(typ)
	}
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil || l <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid limit parameter"})
		}
		f.Limit = l
	}

	rewards, err := s.ListRewards(c.UserContext(), actorFrom(c).ID, f)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(rewards)
}

// GetMyRewardCounts handles GET /me/rewards/counts. Clients poll it.
func (s *RewardService) GetMyRewardCounts(c *fiber.Ctx) error {
	counts, err := s.Counts(c.UserContext(), actorFrom(c).ID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(counts)
}

// ClaimReward handles POST /me/rewards/:id/claim.
func (s *RewardService) ClaimReward(c *fiber.Ctx) error {
	reward, err := s.Claim(c.UserContext(), actorFrom(c).ID, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "Reward claimed successfully", "reward": reward})
}
