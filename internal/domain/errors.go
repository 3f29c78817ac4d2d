package domain

import "errors"

// Challenge rule violations. Every validation failure surfaces as one of
// these so the API layer can hand the client a stable reason string.
var (
	ErrPhaseNotActive         = errors.New("division is not in the challenge phase")
	ErrRankOutOfRange         = errors.New("opponent is not within the 4-position challenge window")
	ErrChallengeLimitExceeded = errors.New("no challenges remaining")
	ErrMatchCeilingReached    = errors.New("4-match season ceiling reached")
	ErrAlreadyChallenged      = errors.New("this pair has already played a challenge this season")
	ErrWeeklyCapExceeded      = errors.New("weekly challenge slot already used")
	ErrInvalidTransition      = errors.New("challenge is not in a state that permits this action")
	ErrDefenderBusy           = errors.New("defender already has a pending challenge this week")
	ErrRematchNotAvailable    = errors.New("no rematch right exists for this pair")
)

// Lookup and input failures
var (
	ErrPlayerNotFound    = errors.New("player not found in division")
	ErrDivisionNotFound  = errors.New("division not found")
	ErrSeasonNotFound    = errors.New("division has no season")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrSelfChallenge     = errors.New("players cannot challenge themselves")
	ErrInvalidWinner     = errors.New("winner must be one of the two players")
)

// ReasonCode maps a rule violation to the short code the client surfaces.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrPhaseNotActive):
		return "PhaseNotActive"
	case errors.Is(err, ErrRankOutOfRange):
		return "RankOutOfRange"
	case errors.Is(err, ErrChallengeLimitExceeded):
		return "ChallengeLimitExceeded"
	case errors.Is(err, ErrMatchCeilingReached):
		return "MatchCeilingReached"
	case errors.Is(err, ErrAlreadyChallenged):
		return "AlreadyChallenged"
	case errors.Is(err, ErrWeeklyCapExceeded):
		return "WeeklyCapExceeded"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrDefenderBusy):
		return "DefenderBusy"
	case errors.Is(err, ErrRematchNotAvailable):
		return "RematchNotAvailable"
	case errors.Is(err, ErrPlayerNotFound):
		return "PlayerNotFound"
	case errors.Is(err, ErrDivisionNotFound):
		return "DivisionNotFound"
	case errors.Is(err, ErrSeasonNotFound):
		return "SeasonNotFound"
	case errors.Is(err, ErrChallengeNotFound):
		return "ChallengeNotFound"
	case errors.Is(err, ErrSelfChallenge):
		return "SelfChallenge"
	case errors.Is(err, ErrInvalidWinner):
		return "InvalidWinner"
	default:
		return "InternalError"
	}
}

// IsRuleViolation reports whether an error is an expected challenge rule
// failure rather than an infrastructure problem.
func IsRuleViolation(err error) bool {
	for _, rule := range []error{
		ErrPhaseNotActive, ErrRankOutOfRange, ErrChallengeLimitExceeded,
		ErrMatchCeilingReached, ErrAlreadyChallenged, ErrWeeklyCapExceeded,
		ErrInvalidTransition, ErrDefenderBusy, ErrRematchNotAvailable,
		ErrSelfChallenge, ErrInvalidWinner,
	} {
		if errors.Is(err, rule) {
			return true
		}
	}
	return false
}
