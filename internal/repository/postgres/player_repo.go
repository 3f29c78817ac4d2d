package postgres

import (
	"context"
	"strings"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *playerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(ctx context.Context, player *domain.LadderPlayer) error {
	return r.db.WithContext(ctx).Create(player).Error
}

// nameCondition matches the league's trimmed, case-insensitive "First Last"
// identity rule in SQL.
func nameCondition(name string) (string, []interface{}) {
	normalized := strings.Join(strings.Fields(name), " ")
	return "LOWER(TRIM(first_name || ' ' || last_name)) = LOWER(?)", []interface{}{normalized}
}

func (r *playerRepository) GetByName(ctx context.Context, divisionID uuid.UUID, name string) (*domain.LadderPlayer, error) {
	cond, args := nameCondition(name)
	var player domain.LadderPlayer
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Where(cond, args...).
		First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) GetByNameForUpdate(ctx context.Context, divisionID uuid.UUID, name string) (*domain.LadderPlayer, error) {
	cond, args := nameCondition(name)
	var player domain.LadderPlayer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("division_id = ?", divisionID).
		Where(cond, args...).
		First(&player).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) ListByDivision(ctx context.Context, divisionID uuid.UUID) ([]*domain.LadderPlayer, error) {
	var players []*domain.LadderPlayer
	err := r.db.WithContext(ctx).
		Where("division_id = ?", divisionID).
		Order("rank ASC").
		Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) UpdateRank(ctx context.Context, divisionID uuid.UUID, name string, rank int) error {
	cond, args := nameCondition(name)
	result := r.db.WithContext(ctx).
		Model(&domain.LadderPlayer{}).
		Where("division_id = ?", divisionID).
		Where(cond, args...).
		Update("rank", rank)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
