package postgres

import (
	"context"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type divisionRepository struct {
	db *gorm.DB
}

func NewDivisionRepository(db *gorm.DB) *divisionRepository {
	return &divisionRepository{db: db}
}

func (r *divisionRepository) Create(ctx context.Context, division *domain.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

func (r *divisionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Division, error) {
	var division domain.Division
	err := r.db.WithContext(ctx).Preload("Season").First(&division, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepository) GetByName(ctx context.Context, name string) (*domain.Division, error) {
	var division domain.Division
	err := r.db.WithContext(ctx).Preload("Season").First(&division, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *seasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Create(ctx context.Context, season *domain.Season) error {
	return r.db.WithContext(ctx).Create(season).Error
}

func (r *seasonRepository) GetByDivisionID(ctx context.Context, divisionID uuid.UUID) (*domain.Season, error) {
	var season domain.Season
	err := r.db.WithContext(ctx).First(&season, "division_id = ?", divisionID).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

func (r *seasonRepository) Update(ctx context.Context, season *domain.Season) error {
	return r.db.WithContext(ctx).Save(season).Error
}
