package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"tournament-settlement-system/models"
	"tournament-settlement-system/settlement"
	"tournament-settlement-system/utils"
)

// persist writes a computed settlement inside tx. The status flip runs first and
// only succeeds for a tournament that is still undeclared, so a concurrent second
// commit aborts before writing anything.
func (s *SettlementService) persist(tx *gorm.DB, r *SettlementResult) error {
	now := s.now()
	flip := tx.Model(&models.Tournament{}).
		Where("id = ? AND is_winner_declared = ?", r.TournamentID, false).
		Updates(map[string]interface{}{
			"is_winner_declared": true,
			"status":             models.TournamentStatusInactive,
			"winner_declared_at": now,
		})
	if flip.Error != nil {
		return fmt.Errorf("flag tournament declared: %w", flip.Error)
	}
	if flip.RowsAffected == 0 {
		return ErrAlreadyDeclared
	}

	link := utils.TournamentLink(r.TournamentID, r.TournamentName)
	var (
		winners       []models.TournamentWinner
		rewards       []models.PendingReward
		notifications []models.Notification
	)
	for _, tp := range r.Prizes {
		winners = append(winners, models.TournamentWinner{
			ID:            uuid.NewString(),
			TournamentID:  r.TournamentID,
			TeamID:        tp.TeamID,
			Position:      tp.Position,
			Amount:        tp.Amount,
			IsDistributed: len(tp.Players) > 0,
		})
		for _, pp := range tp.Players {
			details, err := json.Marshal(pp)
			if err != nil {
				return fmt.Errorf("encode prize detail: %w", err)
			}
			position := tp.Position
			message := winnerMessage(r.TournamentName, pp)
			rewards = append(rewards, models.PendingReward{
				ID:           uuid.NewString(),
				PlayerID:     pp.PlayerID,
				TournamentID: r.TournamentID,
				Type:         models.RewardTypeWinner,
				Amount:       pp.Final,
				Position:     &position,
				Message:      message,
				Details:      datatypes.JSON(details),
			})
			notifications = append(notifications, models.Notification{
				ID:       uuid.NewString(),
				PlayerID: pp.PlayerID,
				Title:    fmt.Sprintf("🏆 #%d in %s", tp.Position, r.TournamentName),
				Message:  message,
				Type:     models.NotificationTypeWinner,
				Link:     link,
			})
		}
	}

	if len(winners) > 0 {
		if err := tx.Create(&winners).Error; err != nil {
			return fmt.Errorf("create winners: %w", err)
		}
	}
	if len(rewards) > 0 {
		if err := tx.Create(&rewards).Error; err != nil {
			return fmt.Errorf("create rewards: %w", err)
		}
	}
	if len(notifications) > 0 {
		if err := tx.Create(&notifications).Error; err != nil {
			return fmt.Errorf("create notifications: %w", err)
		}
	}

	incomes := incomeRecords(r)
	if len(incomes) > 0 {
		if err := tx.Create(&incomes).Error; err != nil {
			return fmt.Errorf("create income: %w", err)
		}
	}

	if len(r.SoloTaxDonations) > 0 {
		payload, err := json.Marshal(r.SoloTaxDonations)
		if err != nil {
			return fmt.Errorf("encode solo tax donations: %w", err)
		}
		task := models.RedistributionTask{
			ID:             uuid.NewString(),
			TournamentID:   r.TournamentID,
			TournamentName: r.TournamentName,
			SeasonID:       r.SeasonID,
			Status:         models.RedistributionStatusPending,
			Payload:        datatypes.JSON(payload),
		}
		if err := tx.Create(&task).Error; err != nil {
			return fmt.Errorf("enqueue redistribution: %w", err)
		}
		r.RedistributionID = task.ID
	}

	r.Winners = winners
	return nil
}

func winnerMessage(tournament string, pp settlement.PlayerPrize) string {
	msg := fmt.Sprintf("You placed #%d in %s and won %s", pp.Position, tournament, utils.FormatAmount(pp.Final))
	var notes []string
	if pp.RepeatTax > 0 {
		notes = append(notes, fmt.Sprintf("repeat-winner tax %s", utils.FormatAmount(pp.RepeatTax)))
	}
	if pp.SoloTax > 0 {
		notes = append(notes, fmt.Sprintf("solo tax %s", utils.FormatAmount(pp.SoloTax)))
	}
	if len(notes) > 0 {
		msg += " (after " + strings.Join(notes, ", ") + ")"
	}
	return msg
}

func incomeRecords(r *SettlementResult) []models.Income {
	var incomes []models.Income
	add := func(side models.IncomeSide, amount, taxPart int64) {
		if amount == 0 {
			return
		}
		desc := fmt.Sprintf("%s share of %s", side, r.TournamentName)
		if taxPart > 0 {
			desc += fmt.Sprintf(" (includes %s repeat-winner tax)", utils.FormatAmount(taxPart))
		}
		incomes = append(incomes, models.Income{
			ID:             uuid.NewString(),
			Amount:         amount,
			Side:           side,
			Description:    desc,
			TournamentID:   r.TournamentID,
			TournamentName: r.TournamentName,
			Source:         models.IncomeSourceSystem,
		})
	}
	add(models.IncomeSideOrganizer, r.OrganizerAmount, r.RepeatTaxOrganizer)
	add(models.IncomeSideFund, r.FundAmount, r.RepeatTaxFund)
	return incomes
}
