package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"gorm.io/gorm"
)

// SeasonService is the phase gate: the single authority on whether a
// division's challenge phase is open. The phase flips only by explicit admin
// action, never by deadline expiry; the stored timestamps are display data.
type SeasonService struct {
	stats *StatsService
	repos *repository.Repositories
}

func NewSeasonService(repos *repository.Repositories, stats *StatsService) *SeasonService {
	return &SeasonService{repos: repos, stats: stats}
}

func (s *SeasonService) GetSeason(ctx context.Context, divisionName string) (*domain.Season, error) {
	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	return findSeason(ctx, s.repos, division)
}

// IsChallengePhaseActive answers the authoritative boolean gate for a
// division.
func (s *SeasonService) IsChallengePhaseActive(ctx context.Context, divisionName string) (bool, error) {
	season, err := s.GetSeason(ctx, divisionName)
	if err != nil {
		return false, err
	}
	return season.IsChallengePhase(), nil
}

type SetPhaseInput struct {
	Phase         domain.Phase
	Phase1EndAt   *time.Time
	Phase2StartAt *time.Time
}

// SetPhase flips a division's season phase. Reverting challenge -> scheduled
// is allowed as an administrative override.
func (s *SeasonService) SetPhase(ctx context.Context, auth domain.AuthContext, divisionName string, input SetPhaseInput) (*domain.Season, error) {
	if !auth.IsAdmin {
		return nil, ErrAdminRequired
	}
	if !input.Phase.IsValid() {
		return nil, fmt.Errorf("unknown phase %q", input.Phase)
	}

	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}

	var season *domain.Season
	err = s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		season, err = findSeason(ctx, repos, division)
		if err != nil {
			return err
		}
		if season.Phase == domain.PhaseChallenge && input.Phase == domain.PhaseScheduled {
			log.Printf("WARN [SeasonService.SetPhase] admin %s reverting %s to scheduled", auth.DisplayName, divisionName)
		}
		season.Phase = input.Phase
		if input.Phase1EndAt != nil {
			season.Phase1EndAt = input.Phase1EndAt
		}
		if input.Phase2StartAt != nil {
			season.Phase2StartAt = input.Phase2StartAt
		}
		if err := repos.Season.Update(ctx, season); err != nil {
			return err
		}
		return s.stats.audit(ctx, repos, auth, division.ID, domain.AdminActionSetPhase, map[string]interface{}{
			"phase": input.Phase,
		})
	})
	if err != nil {
		return nil, err
	}
	return season, nil
}

type RankEntry struct {
	PlayerName string `json:"playerName"`
	Rank       int    `json:"rank"`
}

// UpdateStandings bulk-writes ladder ranks. Standings are computed elsewhere
// (Phase 1 results); this engine only consumes them.
func (s *SeasonService) UpdateStandings(ctx context.Context, auth domain.AuthContext, divisionName string, entries []RankEntry) error {
	if !auth.IsAdmin {
		return ErrAdminRequired
	}

	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return err
	}

	return s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		for _, entry := range entries {
			if entry.Rank < 1 {
				return fmt.Errorf("rank for %s must be positive", entry.PlayerName)
			}
			if err := repos.Player.UpdateRank(ctx, division.ID, entry.PlayerName, entry.Rank); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrPlayerNotFound
				}
				return err
			}
		}
		return s.stats.audit(ctx, repos, auth, division.ID, domain.AdminActionSetRanks, map[string]interface{}{
			"entries": entries,
		})
	})
}
