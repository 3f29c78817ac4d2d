package service

import (
	"context"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"github.com/google/uuid"
)

// EligibilityService answers "can A challenge B right now?" and enumerates a
// player's eligible opponents. The lifecycle manager re-runs the same checks
// inside its transaction before committing anything.
type EligibilityService struct {
	repos *repository.Repositories
	stats *StatsService
}

func NewEligibilityService(repos *repository.Repositories, stats *StatsService) *EligibilityService {
	return &EligibilityService{repos: repos, stats: stats}
}

type ChallengeInput struct {
	ChallengerName      string
	DefenderName        string
	DivisionName        string
	IsRematch           bool
	OriginalChallengeID *uuid.UUID
}

// pairContext carries everything loaded while validating one pair so the
// lifecycle manager can reuse it without a second round of queries.
type pairContext struct {
	division        *domain.Division
	season          *domain.Season
	challenger      *domain.LadderPlayer
	defender        *domain.LadderPlayer
	records         []*domain.ChallengeRecord
	challengerStats *domain.PlayerChallengeStats
	defenderStats   *domain.PlayerChallengeStats
	rematchOriginal *domain.ChallengeRecord
	isoYear         int
	isoWeek         int
}

// CanChallenge runs the full pre-issuance rule check for a single pair. A nil
// error means the challenge may be issued right now.
func (s *EligibilityService) CanChallenge(ctx context.Context, input ChallengeInput) error {
	_, err := s.evaluatePair(ctx, s.repos, input, false)
	return err
}

// evaluatePair is the shared gate. When locked is true the caller has already
// taken row locks on both players inside a transaction and passes tx repos.
func (s *EligibilityService) evaluatePair(ctx context.Context, repos *repository.Repositories, input ChallengeInput, locked bool) (*pairContext, error) {
	division, err := findDivision(ctx, repos, input.DivisionName)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, repos, division)
	if err != nil {
		return nil, err
	}
	if !season.IsChallengePhase() {
		return nil, domain.ErrPhaseNotActive
	}

	if domain.SameName(input.ChallengerName, input.DefenderName) {
		return nil, domain.ErrSelfChallenge
	}

	var challenger, defender *domain.LadderPlayer
	if locked {
		challenger, defender, err = lockPlayerPair(ctx, repos, division, input.ChallengerName, input.DefenderName)
	} else {
		challenger, err = findPlayer(ctx, repos, division, input.ChallengerName)
		if err == nil {
			defender, err = findPlayer(ctx, repos, division, input.DefenderName)
		}
	}
	if err != nil {
		return nil, err
	}

	records, err := repos.Challenge.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	pc := &pairContext{
		division:   division,
		season:     season,
		challenger: challenger,
		defender:   defender,
		records:    records,
	}
	pc.isoYear, pc.isoWeek = domain.WeekOf(time.Now())

	pc.challengerStats, err = s.stats.statsWith(ctx, repos, division.ID, challenger.FullName(), records)
	if err != nil {
		return nil, err
	}
	pc.defenderStats, err = s.stats.statsWith(ctx, repos, division.ID, defender.FullName(), records)
	if err != nil {
		return nil, err
	}

	if pc.challengerStats.HasReachedMatchCeiling() {
		return nil, domain.ErrMatchCeilingReached
	}

	if input.IsRematch {
		// A rematch bypasses the rank window and the one-challenge-per-pair
		// rule; ranks may have moved since the lost defense.
		pc.rematchOriginal = findRematchRight(records, challenger.FullName(), defender.FullName(), input.OriginalChallengeID)
		if pc.rematchOriginal == nil {
			return nil, domain.ErrRematchNotAvailable
		}
	} else {
		diff := challenger.Rank - defender.Rank
		if diff < 1 || diff > domain.ChallengeRankWindow {
			return nil, domain.ErrRankOutOfRange
		}
		if pairAlreadyChallenged(records, challenger.FullName(), defender.FullName()) {
			return nil, domain.ErrAlreadyChallenged
		}
	}

	if pc.defenderStats.HasReachedMatchCeiling() {
		return nil, domain.ErrMatchCeilingReached
	}

	if ChallengesRemaining(pc.challengerStats) == 0 {
		return nil, domain.ErrChallengeLimitExceeded
	}

	if domain.WeeklySlotConsumed(challenger.FullName(), pc.isoYear, pc.isoWeek, records) {
		return nil, domain.ErrWeeklyCapExceeded
	}
	if domain.WeeklySlotConsumed(defender.FullName(), pc.isoYear, pc.isoWeek, records) {
		return nil, domain.ErrWeeklyCapExceeded
	}

	return pc, nil
}

// pairAlreadyChallenged reports whether a non-rematch record already exists
// between the unordered pair this season. Superseded challenges do not count;
// the displaced challenger may try again another week.
func pairAlreadyChallenged(records []*domain.ChallengeRecord, a, b string) bool {
	for _, r := range records {
		if r.IsRematch || r.SupersededByID != nil {
			continue
		}
		if r.Involves(a) && r.Involves(b) {
			return true
		}
	}
	return false
}

// findRematchRight locates a completed record that arms issuer's rematch
// against target: issuer was the defender and lost, and no rematch has been
// issued off that record yet. A nil originalID means any qualifying record.
func findRematchRight(records []*domain.ChallengeRecord, issuer, target string, originalID *uuid.UUID) *domain.ChallengeRecord {
	for _, r := range records {
		if originalID != nil && r.ID != *originalID {
			continue
		}
		if !r.DefenderLost() {
			continue
		}
		if !domain.SameName(r.DefenderName, issuer) || !domain.SameName(r.ChallengerName, target) {
			continue
		}
		if rematchIssuedFor(records, r.ID) {
			continue
		}
		return r
	}
	return nil
}

func rematchIssuedFor(records []*domain.ChallengeRecord, originalID uuid.UUID) bool {
	for _, r := range records {
		if r.OriginalChallengeID != nil && *r.OriginalChallengeID == originalID {
			return true
		}
	}
	return false
}

// Opponent is one row of the eligible-opponents list. MustDefend is advisory:
// it tells the UI whether the candidate is obligated to accept, and never
// gates inclusion.
type Opponent struct {
	Name               string                       `json:"name"`
	Rank               int                          `json:"rank"`
	PositionDifference int                          `json:"positionDifference"`
	MustDefend         bool                         `json:"mustDefend"`
	Stats              *domain.PlayerChallengeStats `json:"stats"`
}

// ListEligibleOpponents enumerates who the player may challenge right now,
// ordered by ladder rank. A player at the match ceiling gets an empty list,
// not an error; there is simply nothing left for them to do.
func (s *EligibilityService) ListEligibleOpponents(ctx context.Context, playerName, divisionName string) ([]*Opponent, error) {
	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return nil, err
	}
	season, err := findSeason(ctx, s.repos, division)
	if err != nil {
		return nil, err
	}
	if !season.IsChallengePhase() {
		return nil, domain.ErrPhaseNotActive
	}
	player, err := findPlayer(ctx, s.repos, division, playerName)
	if err != nil {
		return nil, err
	}

	records, err := s.repos.Challenge.ListBySeason(ctx, season.ID)
	if err != nil {
		return nil, err
	}

	playerStats, err := s.stats.statsWith(ctx, s.repos, division.ID, player.FullName(), records)
	if err != nil {
		return nil, err
	}
	if playerStats.HasReachedMatchCeiling() {
		return []*Opponent{}, nil
	}

	members, err := s.repos.Player.ListByDivision(ctx, division.ID)
	if err != nil {
		return nil, err
	}

	year, week := domain.WeekOf(time.Now())
	opponents := []*Opponent{}
	for _, candidate := range members {
		diff := player.Rank - candidate.Rank
		if diff < 1 || diff > domain.ChallengeRankWindow {
			continue
		}
		if pairAlreadyChallenged(records, player.FullName(), candidate.FullName()) &&
			findRematchRight(records, player.FullName(), candidate.FullName(), nil) == nil {
			continue
		}

		candidateStats, err := s.stats.statsWith(ctx, s.repos, division.ID, candidate.FullName(), records)
		if err != nil {
			return nil, err
		}
		if candidateStats.HasReachedMatchCeiling() {
			continue
		}

		mustDefend := !domain.WeeklySlotConsumed(candidate.FullName(), year, week, records) &&
			candidateStats.RequiredDefenses < domain.RequiredDefenseLimit

		opponents = append(opponents, &Opponent{
			Name:               candidate.FullName(),
			Rank:               candidate.Rank,
			PositionDifference: diff,
			MustDefend:         mustDefend,
			Stats:              candidateStats,
		})
	}
	return opponents, nil
}

// ValidateDefenseAcceptance checks whether the defender may accept their
// pending challenge from the named challenger. A nil error means acceptance
// would commit cleanly right now.
func (s *EligibilityService) ValidateDefenseAcceptance(ctx context.Context, defenderName, challengerName, divisionName string) error {
	division, err := findDivision(ctx, s.repos, divisionName)
	if err != nil {
		return err
	}
	season, err := findSeason(ctx, s.repos, division)
	if err != nil {
		return err
	}
	if !season.IsChallengePhase() {
		return domain.ErrPhaseNotActive
	}
	defender, err := findPlayer(ctx, s.repos, division, defenderName)
	if err != nil {
		return err
	}
	challenger, err := findPlayer(ctx, s.repos, division, challengerName)
	if err != nil {
		return err
	}

	records, err := s.repos.Challenge.ListBySeason(ctx, season.ID)
	if err != nil {
		return err
	}

	pending := pendingBetween(records, challenger.FullName(), defender.FullName())
	if pending == nil {
		return domain.ErrChallengeNotFound
	}

	defenderStats, err := s.stats.statsWith(ctx, s.repos, division.ID, defender.FullName(), records)
	if err != nil {
		return err
	}
	if defenderStats.HasReachedMatchCeiling() {
		return domain.ErrMatchCeilingReached
	}

	if domain.WeeklySlotConsumed(defender.FullName(), pending.ISOYear, pending.ISOWeek, records) {
		return domain.ErrWeeklyCapExceeded
	}
	if domain.WeeklySlotConsumed(challenger.FullName(), pending.ISOYear, pending.ISOWeek, records) {
		return domain.ErrWeeklyCapExceeded
	}
	return nil
}

func pendingBetween(records []*domain.ChallengeRecord, challengerName, defenderName string) *domain.ChallengeRecord {
	for _, r := range records {
		if r.Status.IsPending() &&
			domain.SameName(r.ChallengerName, challengerName) &&
			domain.SameName(r.DefenderName, defenderName) {
			return r
		}
	}
	return nil
}
