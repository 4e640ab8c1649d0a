package handlers

import (
	"tournament-settlement-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupRewardRoutes(secured fiber.Router, rewardService *services.RewardService) {
	me := secured.Group("/me/rewards")
	me.Get("/", rewardService.GetMyRewards)
	me.Get("/counts", rewardService.GetMyRewardCounts)
	me.Get("/stream", rewardService.StreamRewards)
	me.Post("/:id/claim", rewardService.ClaimReward)
}
