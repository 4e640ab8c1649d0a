package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tournament-settlement-system/settlement"
)

var (
	ErrForbidden          = errors.New("only ADMIN or SUPER_ADMIN may declare winners")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrAlreadyDeclared    = errors.New("winners have already been declared for this tournament")
	ErrTaskNotFound       = errors.New("redistribution task not found")
	ErrInvalidAmount      = errors.New("amount must not be negative")

	ErrInvalidPlacements = settlement.ErrInvalidPlacements
	ErrInsufficientTeams = settlement.ErrInsufficientTeams
	ErrNegativeAmount    = settlement.ErrNegativeAmount
	ErrAmountOutOfRange  = settlement.ErrAmountOutOfRange
	ErrEmptyRoster       = settlement.ErrEmptyRoster
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrTournamentNotFound), errors.Is(err, ErrTaskNotFound), errors.Is(err, ErrRewardNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAlreadyDeclared), errors.Is(err, ErrAlreadyClaimed):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidPlacements), errors.Is(err, ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrInsufficientTeams), errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrAmountOutOfRange), errors.Is(err, ErrEmptyRoster):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
