package handlers

import (
	"tournament-settlement-system/middleware"
	"tournament-settlement-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupSettlementRoutes expects secured to already carry UserContextMiddleware.
func SetupSettlementRoutes(secured fiber.Router, settlementService *services.SettlementService, poolService *services.SoloTaxPoolService, redistributor *services.TaxRedistributor) {
	admin := middleware.RequireRoles(services.RoleAdmin, services.RoleSuperAdmin)

	// Settlement: dry runs are open to any caller, commits are checked by role in the service
	secured.Post("/tournaments/:id/declare-winners", settlementService.DeclareWinners)
	secured.Get("/tournaments/:id/settlement-preview", settlementService.PreviewSettlement)
	secured.Get("/tournaments/:id/winners", settlementService.GetWinners)

	// Season solo tax pool
	secured.Get("/seasons/:id/solo-tax-pool", poolService.GetPool)
	secured.Post("/seasons/:id/solo-tax-pool/consume", admin, poolService.ConsumePool)

	// Post-commit redistribution retries
	secured.Post("/redistribution-tasks/retry", admin, redistributor.RetryTasks)
	secured.Post("/redistribution-tasks/:id/retry", admin, redistributor.RetryTask)
}
