package service

import "github.com/frbcapl/pool-league-backend/internal/domain"

// ChallengeIssueLimit is the league's throttle on offense: the more often a
// player has been challenged, the fewer challenges they may issue.
// 0 -> 4, 1 -> 3, 2 -> 2, 3+ -> 0.
func ChallengeIssueLimit(timesChallenged int) int {
	switch timesChallenged {
	case 0:
		return 4
	case 1:
		return 3
	case 2:
		return 2
	default:
		return 0
	}
}

// ChallengesRemaining returns how many challenges the player may still issue,
// floored at zero.
func ChallengesRemaining(stats *domain.PlayerChallengeStats) int {
	remaining := ChallengeIssueLimit(stats.TimesChallenged) - stats.ChallengesIssued
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PlayerLimits is the limits-plus-weekly-status view served to the client.
type PlayerLimits struct {
	PlayerName string `json:"playerName"`
	Division   string `json:"division"`

	TimesChallenged     int `json:"timesChallenged"`
	ChallengeLimit      int `json:"challengeLimit"`
	ChallengesIssued    int `json:"challengesIssued"`
	ChallengesRemaining int `json:"challengesRemaining"`

	RequiredDefenses          int  `json:"requiredDefenses"`
	RequiredDefenseLimit      int  `json:"requiredDefenseLimit"`
	RequiredDefensesRemaining int  `json:"requiredDefensesRemaining"`
	VoluntaryDefenses         int  `json:"voluntaryDefenses"`
	CanDeclineWithoutPenalty  bool `json:"canDeclineWithoutPenalty"`

	TotalMatches           int  `json:"totalMatches"`
	MatchCeiling           int  `json:"matchCeiling"`
	MatchesRemaining       int  `json:"matchesRemaining"`
	HasReachedMatchCeiling bool `json:"hasReachedMatchCeiling"`
	HasMetSeasonMinimum    bool `json:"hasMetSeasonMinimum"`

	ISOYear           int  `json:"isoYear"`
	ISOWeek           int  `json:"isoWeek"`
	WeeklySlotUsed    bool `json:"weeklySlotUsed"`
	HasFreeWeeklySlot bool `json:"hasFreeWeeklySlot"`
}

// BuildLimits derives the full limits view from a player's stats and their
// weekly-window state.
func BuildLimits(division string, stats *domain.PlayerChallengeStats, year, week int, slotUsed bool) *PlayerLimits {
	requiredRemaining := domain.RequiredDefenseLimit - stats.RequiredDefenses
	if requiredRemaining < 0 {
		requiredRemaining = 0
	}
	matchesRemaining := domain.MatchCeiling - stats.TotalMatches()
	if matchesRemaining < 0 {
		matchesRemaining = 0
	}
	return &PlayerLimits{
		PlayerName:                stats.PlayerName,
		Division:                  division,
		TimesChallenged:           stats.TimesChallenged,
		ChallengeLimit:            ChallengeIssueLimit(stats.TimesChallenged),
		ChallengesIssued:          stats.ChallengesIssued,
		ChallengesRemaining:       ChallengesRemaining(stats),
		RequiredDefenses:          stats.RequiredDefenses,
		RequiredDefenseLimit:      domain.RequiredDefenseLimit,
		RequiredDefensesRemaining: requiredRemaining,
		VoluntaryDefenses:         stats.VoluntaryDefenses,
		CanDeclineWithoutPenalty:  stats.CanDeclineWithoutPenalty(),
		TotalMatches:              stats.TotalMatches(),
		MatchCeiling:              domain.MatchCeiling,
		MatchesRemaining:          matchesRemaining,
		HasReachedMatchCeiling:    stats.HasReachedMatchCeiling(),
		HasMetSeasonMinimum:       stats.HasMetSeasonMinimum(),
		ISOYear:                   year,
		ISOWeek:                   week,
		WeeklySlotUsed:            slotUsed,
		HasFreeWeeklySlot:         !slotUsed,
	}
}
