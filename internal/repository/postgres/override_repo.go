package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type statsOverrideRepository struct {
	db *gorm.DB
}

func NewStatsOverrideRepository(db *gorm.DB) *statsOverrideRepository {
	return &statsOverrideRepository{db: db}
}

func (r *statsOverrideRepository) Upsert(ctx context.Context, override *domain.ChallengeStatsOverride) error {
	existing, err := r.GetByPlayer(ctx, override.DivisionID, override.PlayerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(override).Error
		}
		return err
	}
	override.ID = existing.ID
	override.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(override).Error
}

func (r *statsOverrideRepository) GetByPlayer(ctx context.Context, divisionID uuid.UUID, playerName string) (*domain.ChallengeStatsOverride, error) {
	normalized := strings.Join(strings.Fields(playerName), " ")
	var override domain.ChallengeStatsOverride
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Where("LOWER(TRIM(player_name)) = LOWER(?)", normalized).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *statsOverrideRepository) ListByDivision(ctx context.Context, divisionID uuid.UUID) ([]*domain.ChallengeStatsOverride, error) {
	var overrides []*domain.ChallengeStatsOverride
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Find(&overrides).Error
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

func (r *statsOverrideRepository) DeleteByDivision(ctx context.Context, divisionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Delete(&domain.ChallengeStatsOverride{}).Error
}

type adminAuditRepository struct {
	db *gorm.DB
}

func NewAdminAuditRepository(db *gorm.DB) *adminAuditRepository {
	return &adminAuditRepository{db: db}
}

func (r *adminAuditRepository) Create(ctx context.Context, action *domain.AdminAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *adminAuditRepository) ListByDivision(ctx context.Context, divisionID uuid.UUID, limit int) ([]*domain.AdminAction, error) {
	var actions []*domain.AdminAction
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
