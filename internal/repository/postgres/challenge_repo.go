package postgres

import (
	"context"
	"strings"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type challengeRepository struct {
	db *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *challengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) Create(ctx context.Context, record *domain.ChallengeRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChallengeRecord, error) {
	var record domain.ChallengeRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *challengeRepository) Update(ctx context.Context, record *domain.ChallengeRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *challengeRepository) ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.ChallengeRecord, error) {
	var records []*domain.ChallengeRecord
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *challengeRepository) ListByPlayer(ctx context.Context, seasonID uuid.UUID, playerName string) ([]*domain.ChallengeRecord, error) {
	normalized := strings.Join(strings.Fields(playerName), " ")
	var records []*domain.ChallengeRecord
	err := r.db.WithContext(ctx).
		Where("season_id = ?", seasonID).
		Where("LOWER(TRIM(challenger_name)) = LOWER(?) OR LOWER(TRIM(defender_name)) = LOWER(?)", normalized, normalized).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *challengeRepository) DeleteByDivision(ctx context.Context, divisionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Delete(&domain.ChallengeRecord{}).Error
}
