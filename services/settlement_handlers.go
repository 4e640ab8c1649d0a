package services

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tournament-settlement-system/settlement"
)

func actorFrom(c *fiber.Ctx) Actor {
	a := Actor{}
	if id, ok := c.Locals("user_id").(string); ok {
		a.ID = id
	}
	if roles, ok := c.Locals("user_roles").([]string); ok {
		a.Roles = roles
	}
	return a
}

func errorBody(c *fiber.Ctx, err error) (int, fiber.Map) {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("[HTTP] request failed", "path", c.Path(), "error", err)
		return status, fiber.Map{"error": "internal error"}
	}
	return status, fiber.Map{"error": err.Error()}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status, body := errorBody(c, err)
	return c.Status(status).JSON(body)
}

// declareError is errorResponse for settlement calls; it always reports declared=false.
func declareError(c *fiber.Ctx, err error) error {
	status, body := errorBody(c, err)
	body["declared"] = false
	return c.Status(status).JSON(body)
}

// DeclareWinners handles POST /tournaments/:id/declare-winners.
func (s *SettlementService) DeclareWinners(c *fiber.Ctx) error {
	var req struct {
		Placements []settlement.Placement `json:"placements"`
		DryRun     bool                   `json:"dry_run"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	result, err := s.Declare(c.UserContext(), DeclareRequest{
		TournamentID: c.Params("id"),
		Placements:   req.Placements,
		DryRun:       req.DryRun,
		Actor:        actorFrom(c),
	})
	if err != nil {
		return declareError(c, err)
	}
	return c.JSON(result)
}

// PreviewSettlement handles GET /tournaments/:id/settlement-preview?placements=340,140.
func (s *SettlementService) PreviewSettlement(c *fiber.Ctx) error {
	var placements []settlement.Placement
	if raw := c.Query("placements"); raw != "" {
		for i, part := range splitCSV(raw) {
			amount, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "placements must be a comma separated list of amounts"})
			}
			placements = append(placements, settlement.Placement{Position: i + 1, Amount: amount})
		}
	}

	result, err := s.Declare(c.UserContext(), DeclareRequest{
		TournamentID: c.Params("id"),
		Placements:   placements,
		DryRun:       true,
		Actor:        actorFrom(c),
	})
	if err != nil {
		return declareError(c, err)
	}
	return c.JSON(result)
}

// GetWinners handles GET /tournaments/:id/winners.
func (s *SettlementService) GetWinners(c *fiber.Ctx) error {
	winners, err := s.Winners(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"winners": winners})
}

// GetPool handles GET /seasons/:id/solo-tax-pool.
func (s *SoloTaxPoolService) GetPool(c *fiber.Ctx) error {
	pool, err := s.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(pool)
}

// ConsumePool handles POST /seasons/:id/solo-tax-pool/consume (admin only).
func (s *SoloTaxPoolService) ConsumePool(c *fiber.Ctx) error {
	consumed, err := s.Consume(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"season_id": c.Params("id"), "consumed": consumed})
}

// RetryTasks handles POST /redistribution-tasks/retry (admin only).
func (r *TaxRedistributor) RetryTasks(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}
	done, err := r.RetryPending(c.UserContext(), limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"completed": done})
}

// RetryTask handles POST /redistribution-tasks/:id/retry (admin only).
func (r *TaxRedistributor) RetryTask(c *fiber.Ctx) error {
	outcome, err := r.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if outcome == nil {
		return c.JSON(fiber.Map{"task_id": c.Params("id"), "status": "already done"})
	}
	return c.JSON(outcome)
}

func splitCSV(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
