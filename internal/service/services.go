package service

import (
	"github.com/frbcapl/pool-league-backend/internal/config"
	"github.com/frbcapl/pool-league-backend/internal/repository"
)

type Services struct {
	Auth        *AuthService
	Stats       *StatsService
	Season      *SeasonService
	Eligibility *EligibilityService
	Challenge   *ChallengeService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, events EventPublisher) *Services {
	stats := NewStatsService(repos)
	eligibility := NewEligibilityService(repos, stats)
	return &Services{
		Auth:        NewAuthService(repos.User, repos.Session, cfg),
		Stats:       stats,
		Season:      NewSeasonService(repos, stats),
		Eligibility: eligibility,
		Challenge:   NewChallengeService(repos, eligibility, stats, events),
	}
}
