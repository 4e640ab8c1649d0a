package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tournament-settlement-system/models"
	"tournament-settlement-system/utils"
)

// SoloTaxPoolService owns the per-season pool of undistributed solo tax.
type SoloTaxPoolService struct {
	DB *gorm.DB
}

func NewSoloTaxPoolService(db *gorm.DB) *SoloTaxPoolService {
	return &SoloTaxPoolService{DB: db}
}

// Get returns the season's pool; a season without one reads as an empty pool.
func (s *SoloTaxPoolService) Get(ctx context.Context, seasonID string) (*models.SoloTaxPool, error) {
	var pool models.SoloTaxPool
	err := s.DB.WithContext(ctx).Where("season_id = ?", seasonID).First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SoloTaxPool{SeasonID: seasonID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load solo tax pool: %w", err)
	}
	return &pool, nil
}

// Consume zeroes the season pool and returns what it held.
func (s *SoloTaxPoolService) Consume(ctx context.Context, seasonID string) (int64, error) {
	var consumed int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := lockPool(tx, seasonID)
		if err != nil {
			return err
		}
		consumed = pool.Amount
		if consumed == 0 {
			return nil
		}
		return tx.Model(pool).Update("amount", 0).Error
	})
	if err != nil {
		return 0, fmt.Errorf("consume solo tax pool: %w", err)
	}
	slog.Info("[SOLO_POOL] consumed", "season_id", seasonID, "amount", consumed)
	return consumed, nil
}

// lockPool makes sure the season row exists, then selects it FOR UPDATE.
func lockPool(tx *gorm.DB, seasonID string) (*models.SoloTaxPool, error) {
	seed := models.SoloTaxPool{ID: uuid.NewString(), SeasonID: seasonID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "season_id"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("ensure solo tax pool: %w", err)
	}

	var pool models.SoloTaxPool
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("season_id = ?", seasonID).
		First(&pool).Error; err != nil {
		return nil, fmt.Errorf("lock solo tax pool: %w", err)
	}
	return &pool, nil
}

// incrementPool adds amount to the season pool and records the donors. Callers own tx;
// the redistributor credits the pool in the same transaction as its loser payouts.
func incrementPool(tx *gorm.DB, seasonID string, amount int64, donors []string) (*models.SoloTaxPool, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}
	pool, err := lockPool(tx, seasonID)
	if err != nil {
		return nil, err
	}
	pool.Amount += amount
	pool.DonorNames = utils.MergeNames(pool.DonorNames, donors...)
	if err := tx.Model(pool).Updates(map[string]interface{}{
		"amount":      pool.Amount,
		"donor_names": pool.DonorNames,
	}).Error; err != nil {
		return nil, fmt.Errorf("increment solo tax pool: %w", err)
	}
	return pool, nil
}
