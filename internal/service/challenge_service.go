package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeEvent is broadcast to division dashboard subscribers on every
// lifecycle transition.
type ChallengeEvent struct {
	Type        string                 `json:"type"`
	ChallengeID uuid.UUID              `json:"challengeId"`
	Division    string                 `json:"division"`
	Challenger  string                 `json:"challenger"`
	Defender    string                 `json:"defender"`
	Status      domain.ChallengeStatus `json:"status"`
}

type EventPublisher interface {
	PublishChallengeEvent(division string, event ChallengeEvent)
}

// ChallengeService drives a challenge through its lifecycle:
// issued -> accepted/declined -> completed, plus the rematch branch. Every
// transition revalidates against current stored state inside one transaction
// with both players' rows locked, so a failed validation leaves no partial
// state and concurrent calls cannot double-spend a quota or weekly slot.
type ChallengeService struct {
	repos       *repository.Repositories
	eligibility *EligibilityService
	stats       *StatsService
	events      EventPublisher
}

func NewChallengeService(repos *repository.Repositories, eligibility *EligibilityService, stats *StatsService, events EventPublisher) *ChallengeService {
	return &ChallengeService{
		repos:       repos,
		eligibility: eligibility,
		stats:       stats,
		events:      events,
	}
}

// Issue creates a new challenge (or rematch) after re-running the full
// eligibility gate under row locks. Issuing reserves the challenger's week
// only logically: the slot is not consumed until the defender accepts, so a
// decline never costs the challenger their week.
func (s *ChallengeService) Issue(ctx context.Context, input ChallengeInput) (*domain.ChallengeRecord, error) {
	var record *domain.ChallengeRecord
	var divisionName string

	err := s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		pc, err := s.eligibility.evaluatePair(ctx, repos, input, true)
		if err != nil {
			return err
		}
		divisionName = pc.division.Name

		// Defense priority: one pending challenge per defender per week, and
		// the lowest-ranked challenger wins the slot.
		superseded := domain.PendingChallengeFor(pc.defender.FullName(), pc.isoYear, pc.isoWeek, pc.records)
		if superseded != nil {
			holder, err := findPlayer(ctx, repos, pc.division, superseded.ChallengerName)
			if err != nil && !errors.Is(err, domain.ErrPlayerNotFound) {
				return err
			}
			if holder != nil && pc.challenger.Rank <= holder.Rank {
				return domain.ErrDefenderBusy
			}
		}

		status := domain.ChallengeStatusIssued
		if input.IsRematch {
			status = domain.ChallengeStatusRematchIssued
		}
		record = &domain.ChallengeRecord{
			ID:             uuid.New(),
			DivisionID:     pc.division.ID,
			SeasonID:       pc.season.ID,
			ChallengerName: pc.challenger.FullName(),
			DefenderName:   pc.defender.FullName(),
			ISOYear:        pc.isoYear,
			ISOWeek:        pc.isoWeek,
			Status:         status,
			IsRematch:      input.IsRematch,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}
		if input.IsRematch {
			originalID := pc.rematchOriginal.ID
			record.OriginalChallengeID = &originalID
		}
		if err := repos.Challenge.Create(ctx, record); err != nil {
			return err
		}

		if superseded != nil {
			superseded.Status = domain.ChallengeStatusDeclined
			superseded.SupersededByID = &record.ID
			superseded.UpdatedAt = time.Now()
			if err := repos.Challenge.Update(ctx, superseded); err != nil {
				return err
			}
			log.Printf("INFO [ChallengeService.Issue] challenge %s superseded by %s (defense priority)", superseded.ID, record.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(divisionName, "challenge_issued", record)
	return record, nil
}

// Accept commits both players' weekly slots for the challenge's week. The
// defender's acceptance is always voluntary once their two required defenses
// are satisfied; nothing beyond the ceiling and the weekly cap gates it.
func (s *ChallengeService) Accept(ctx context.Context, challengeID uuid.UUID) (*domain.ChallengeRecord, error) {
	var record *domain.ChallengeRecord
	var divisionName string

	err := s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		record, err = s.findRecord(ctx, repos, challengeID)
		if err != nil {
			return err
		}
		division, err := repos.Division.GetByID(ctx, record.DivisionID)
		if err != nil {
			return err
		}
		divisionName = division.Name

		if _, _, err := lockPlayerPair(ctx, repos, division, record.ChallengerName, record.DefenderName); err != nil {
			return err
		}
		if !record.Status.IsPending() {
			return domain.ErrInvalidTransition
		}

		season, err := findSeason(ctx, repos, division)
		if err != nil {
			return err
		}
		if !season.IsChallengePhase() {
			return domain.ErrPhaseNotActive
		}

		records, err := repos.Challenge.ListBySeason(ctx, record.SeasonID)
		if err != nil {
			return err
		}
		for _, name := range []string{record.DefenderName, record.ChallengerName} {
			stats, err := s.stats.statsWith(ctx, repos, division.ID, name, records)
			if err != nil {
				return err
			}
			if stats.HasReachedMatchCeiling() {
				return domain.ErrMatchCeilingReached
			}
			if domain.WeeklySlotConsumed(name, record.ISOYear, record.ISOWeek, records) {
				return domain.ErrWeeklyCapExceeded
			}
		}

		record.Status = domain.ChallengeStatusAccepted
		record.UpdatedAt = time.Now()
		return repos.Challenge.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publish(divisionName, "challenge_accepted", record)
	return record, nil
}

// Decline refuses a pending challenge. A defender who still owes required
// defenses forfeits one by declining; per league policy the forfeit spends a
// required defense so a player cannot stall out the phase.
func (s *ChallengeService) Decline(ctx context.Context, challengeID uuid.UUID) (*domain.ChallengeRecord, error) {
	var record *domain.ChallengeRecord
	var divisionName string

	err := s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		record, err = s.findRecord(ctx, repos, challengeID)
		if err != nil {
			return err
		}
		division, err := repos.Division.GetByID(ctx, record.DivisionID)
		if err != nil {
			return err
		}
		divisionName = division.Name

		if _, _, err := lockPlayerPair(ctx, repos, division, record.ChallengerName, record.DefenderName); err != nil {
			return err
		}
		if !record.Status.IsPending() {
			return domain.ErrInvalidTransition
		}

		records, err := repos.Challenge.ListBySeason(ctx, record.SeasonID)
		if err != nil {
			return err
		}
		defenderStats, err := s.stats.statsWith(ctx, repos, division.ID, record.DefenderName, records)
		if err != nil {
			return err
		}

		if !defenderStats.CanDeclineWithoutPenalty() {
			record.ForfeitedDefense = true
		}
		record.Status = domain.ChallengeStatusDeclined
		record.UpdatedAt = time.Now()
		return repos.Challenge.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publish(divisionName, "challenge_declined", record)
	return record, nil
}

// Complete records the winner of an accepted challenge. If the defender lost,
// their one-time rematch right against this challenger arms automatically.
func (s *ChallengeService) Complete(ctx context.Context, challengeID uuid.UUID, winnerName string) (*domain.ChallengeRecord, error) {
	var record *domain.ChallengeRecord
	var divisionName string

	err := s.repos.Tx.WithinTx(ctx, func(repos *repository.Repositories) error {
		var err error
		record, err = s.findRecord(ctx, repos, challengeID)
		if err != nil {
			return err
		}
		division, err := repos.Division.GetByID(ctx, record.DivisionID)
		if err != nil {
			return err
		}
		divisionName = division.Name

		if _, _, err := lockPlayerPair(ctx, repos, division, record.ChallengerName, record.DefenderName); err != nil {
			return err
		}
		if record.Status != domain.ChallengeStatusAccepted {
			return domain.ErrInvalidTransition
		}

		var winner string
		switch {
		case domain.SameName(winnerName, record.ChallengerName):
			winner = record.ChallengerName
		case domain.SameName(winnerName, record.DefenderName):
			winner = record.DefenderName
		default:
			return domain.ErrInvalidWinner
		}

		record.WinnerName = &winner
		record.Status = domain.ChallengeStatusCompleted
		record.UpdatedAt = time.Now()
		return repos.Challenge.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.publish(divisionName, "challenge_completed", record)
	return record, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, challengeID uuid.UUID) (*domain.ChallengeRecord, error) {
	record, err := s.repos.Challenge.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return record, nil
}

// ListPlayerChallenges returns a player's season history, oldest first.
func (s *ChallengeService) ListPlayerChallenges(ctx context.Context, playerName, divisionName string) ([]*domain.ChallengeRecord, error) {
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
	return s.repos.Challenge.ListByPlayer(ctx, season.ID, player.FullName())
}

func (s *ChallengeService) findRecord(ctx context.Context, repos *repository.Repositories, challengeID uuid.UUID) (*domain.ChallengeRecord, error) {
	record, err := repos.Challenge.GetByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *ChallengeService) publish(division, eventType string, record *domain.ChallengeRecord) {
	if s.events == nil || record == nil {
		return
	}
	s.events.PublishChallengeEvent(division, ChallengeEvent{
		Type:        eventType,
		ChallengeID: record.ID,
		Division:    division,
		Challenger:  record.ChallengerName,
		Defender:    record.DefenderName,
		Status:      record.Status,
	})
}
