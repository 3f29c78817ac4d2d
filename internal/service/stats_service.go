package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrAdminRequired = errors.New("admin privileges required")

// StatsService owns the single server-side projection of ChallengeRecord
// history into player stats, so every read path reports the same numbers.
type StatsService struct {
	repos *repository.Repositories
}

func NewStatsService(repos *repository.Repositories) *StatsService {
	return &StatsService{repos: repos}
}

// GetChallengeStats returns a player's derived stats with any admin override
// applied on top.
func (s *StatsService) GetChallengeStats(ctx context.Context, playerName, divisionName string) (*domain.PlayerChallengeStats, error) {
	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, s.repos, division)
	if err != nil {
		return nil, err
	}
	player, err := findPlayer(ctx, s.repos, division, playerName)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Challenge.ListByPlayer(ctx, season.ID, player.FullName())
	if err != nil {
		return nil, err
	}
	return s.statsWith(ctx, s.repos, division.ID, player.FullName(), records)
}

// statsWith builds stats from already-loaded records and merges the player's
// override row if one exists. Callers inside a transaction pass tx repos.
func (s *StatsService) statsWith(ctx context.Context, repos *repository.Repositories, divisionID uuid.UUID, playerName string, records []*domain.ChallengeRecord) (*domain.PlayerChallengeStats, error) {
	stats := domain.BuildPlayerStats(playerName, records)

	override, err := repos.StatsOverride.GetByPlayer(ctx, divisionID, playerName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, nil
		}
		return nil, err
	}
	override.ApplyTo(stats)
	return stats, nil
}

// GetChallengeLimits returns the limits-plus-weekly-status view for a player,
// derived from the same projection as GetChallengeStats.
func (s *StatsService) GetChallengeLimits(ctx context.Context, playerName, divisionName string) (*PlayerLimits, error) {
	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, s.repos, division)
	if err != nil {
		return nil, err
	}
	player, err := findPlayer(ctx, s.repos, division, playerName)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Challenge.ListByPlayer(ctx, season.ID, player.FullName())
	if err != nil {
		return nil, err
	}
	stats, err := s.statsWith(ctx, s.repos, division.ID, player.FullName(), records)
	if err != nil {
		return nil, err
	}

	year, week := domain.WeekOf(time.Now())
	slotUsed := domain.WeeklySlotConsumed(player.FullName(), year, week, records)
	return BuildLimits(division.Name, stats, year, week, slotUsed), nil
}

// GetDivisionChallengeStats returns every division member's stats, ordered by
// ladder rank. Admin-only.
func (s *StatsService) GetDivisionChallengeStats(ctx context.Context, auth domain.AuthContext, divisionName string) ([]*domain.PlayerChallengeStats, error) {
	if !auth.IsAdmin {
		return nil, ErrAdminRequired
	}

	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, s.repos, division)
	if err != nil {
		return nil, err
	}
	players, err := s.repos.Player.ListByDivision(ctx, division.ID)
	if err != nil {
		return nil, err
	}
	records, err := s.repos.Challenge.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	all := make([]*domain.PlayerChallengeStats, 0, len(players))
	for _, p := range players {
		stats, err := s.statsWith(ctx, s.repos, division.ID, p.FullName(), records)
		if err != nil {
			return nil, err
		}
		all = append(all, stats)
	}
	return all, nil
}

// StatsPatch is an admin override: nil fields are left to the derived value.
type StatsPatch struct {
	TimesChallenged     *int `json:"timesChallenged"`
	ChallengesIssued    *int `json:"challengesIssued"`
	RequiredDefenses    *int `json:"requiredDefenses"`
	VoluntaryDefenses   *int `json:"voluntaryDefenses"`
	MatchesAsChallenger *int `json:"matchesAsChallenger"`
	MatchesAsDefender   *int `json:"matchesAsDefender"`
}

// UpdateChallengeStats writes an override row for the player and audits the
// action. It deliberately bypasses rule validation; that is the point of the
// privileged path.
func (s *StatsService) UpdateChallengeStats(ctx context.Context, auth domain.AuthContext, playerName, divisionName string, patch StatsPatch) (*domain.PlayerChallengeStats, error) {
	if !auth.IsAdmin {
		return nil, ErrAdminRequired
	}

	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	player, err := findPlayer(ctx, s.repos, division, playerName)
	if err != nil {
		return nil, err
	}

	err = s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		override := &domain.ChallengeStatsOverride{
			ID:                  uuid.New(),
			DivisionID:          division.ID,
			PlayerName:          player.FullName(),
			TimesChallenged:     patch.TimesChallenged,
			ChallengesIssued:    patch.ChallengesIssued,
			RequiredDefenses:    patch.RequiredDefenses,
			VoluntaryDefenses:   patch.VoluntaryDefenses,
			MatchesAsChallenger: patch.MatchesAsChallenger,
			MatchesAsDefender:   patch.MatchesAsDefender,
		}
		if err := repos.StatsOverride.Upsert(ctx, override); err != nil {
			return err
		}
		return s.audit(ctx, repos, auth, division.ID, domain.AdminActionUpdateStats, map[string]interface{}{
			"player": player.FullName(),
			"patch":  patch,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.GetChallengeStats(ctx, player.FullName(), divisionName)
}

// ResetDivisionChallengeStats destroys the division's entire challenge
// history and overrides. Destructive and admin-only.
func (s *StatsService) ResetDivisionChallengeStats(ctx context.Context, auth domain.AuthContext, divisionName string) error {
	if !auth.IsAdmin {
		return ErrAdminRequired
	}

	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return err
	}

	log.Printf("WARN [StatsService.ResetDivisionChallengeStats] admin %s resetting division %s", auth.DisplayName, divisionName)

	return s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		if err := repos.Challenge.DeleteByDivision(ctx, division.ID); err != nil {
			return err
		}
		if err := repos.StatsOverride.DeleteByDivision(ctx, division.ID); err != nil {
			return err
		}
		return s.audit(ctx, repos, auth, division.ID, domain.AdminActionResetStats, nil)
	})
}

func (s *StatsService) audit(ctx context.Context, repos *repository.Repositories, auth domain.AuthContext, divisionID uuid.UUID, action string, payload interface{}) error {
	var blob datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		blob = datatypes.JSON(raw)
	}
	return repos.AdminAudit.Create(ctx, &domain.AdminAction{
		ID:         uuid.New(),
		UserID:     auth.UserID,
		DivisionID: divisionID,
		Action:     action,
		Payload:    blob,
		CreatedAt:  time.Now(),
	})
}
