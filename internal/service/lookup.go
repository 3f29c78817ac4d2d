package service

import (
	"context"
	"errors"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"gorm.io/gorm"
)

func findDivision(ctx context.Context, repos *repository.Repositories, name string) (*domain.Division, error) {
	division, err := repos.Division.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDivisionNotFound
		}
		return nil, err
	}
	return division, nil
}

func findSeason(ctx context.Context, repos *repository.Repositories, division *domain.Division) (*domain.Season, error) {
	season, err := repos.Season.GetByDivisionID(ctx, division.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

func findPlayer(ctx context.Context, repos *repository.Repositories, division *domain.Division, name string) (*domain.LadderPlayer, error) {
	player, err := repos.Player.GetByName(ctx, division.ID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func lockPlayer(ctx context.Context, repos *repository.Repositories, division *domain.Division, name string) (*domain.LadderPlayer, error) {
	player, err := repos.Player.GetByNameForUpdate(ctx, division.ID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

// lockPlayerPair takes FOR UPDATE locks on both parties in normalized-name
// order so concurrent lifecycle calls can never deadlock on each other.
func lockPlayerPair(ctx context.Context, repos *repository.Repositories, division *domain.Division, a, b string) (first, second *domain.LadderPlayer, err error) {
	names := []string{a, b}
	if domain.NormalizeName(b) < domain.NormalizeName(a) {
		names[0], names[1] = b, a
	}
	locked := make(map[string]*domain.LadderPlayer, 2)
	for _, name := range names {
		p, err := lockPlayer(ctx, repos, division, name)
		if err != nil {
			return nil, nil, err
		}
		locked[domain.NormalizeName(name)] = p
	}
	return locked[domain.NormalizeName(a)], locked[domain.NormalizeName(b)], nil
}
