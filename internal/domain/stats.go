package domain

import "sort"

const (
	// RequiredDefenseLimit is how many defenses a player must accept per season.
	RequiredDefenseLimit = 2
	// MatchCeiling is the hard cap on total challenge-phase matches per season.
	MatchCeiling = 4
	// SeasonMatchMinimum is the fewest matches a player must play to complete
	// the challenge phase.
	SeasonMatchMinimum = 2
	// ChallengeRankWindow is how many spots above their own rank a player may
	// challenge.
	ChallengeRankWindow = 4
)

// PlayerChallengeStats is the projection of one player's ChallengeRecord
// history. It is always rebuilt from the records, never stored as truth.
type PlayerChallengeStats struct {
	PlayerName          string `json:"playerName"`
	TimesChallenged     int    `json:"timesChallenged"`
	ChallengesIssued    int    `json:"challengesIssued"`
	RequiredDefenses    int    `json:"requiredDefenses"`
	VoluntaryDefenses   int    `json:"voluntaryDefenses"`
	MatchesAsChallenger int    `json:"matchesAsChallenger"`
	MatchesAsDefender   int    `json:"matchesAsDefender"`
}

// TotalMatches counts everything that spends the player's 2-4 season target,
// including required defenses forfeited by an obligated decline.
func (s *PlayerChallengeStats) TotalMatches() int {
	return s.MatchesAsChallenger + s.RequiredDefenses + s.VoluntaryDefenses
}

func (s *PlayerChallengeStats) HasReachedMatchCeiling() bool {
	return s.TotalMatches() >= MatchCeiling
}

func (s *PlayerChallengeStats) HasMetSeasonMinimum() bool {
	return s.TotalMatches() >= SeasonMatchMinimum
}

func (s *PlayerChallengeStats) CanDeclineWithoutPenalty() bool {
	return s.RequiredDefenses >= RequiredDefenseLimit
}

// BuildPlayerStats folds a player's records, oldest first, into their stats.
// Records where the player is neither party are ignored, so callers may pass
// an entire season's history.
func BuildPlayerStats(playerName string, records []*ChallengeRecord) *PlayerChallengeStats {
	ordered := make([]*ChallengeRecord, 0, len(records))
	for _, r := range records {
		if r.Involves(playerName) {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	stats := &PlayerChallengeStats{PlayerName: playerName}
	for _, r := range ordered {
		if SameName(r.ChallengerName, playerName) {
			// Declined challenges never count against the challenger's quota.
			if r.Status != ChallengeStatusDeclined {
				stats.ChallengesIssued++
			}
			if r.Status == ChallengeStatusAccepted || r.Status == ChallengeStatusCompleted {
				stats.MatchesAsChallenger++
			}
			continue
		}

		// A superseded challenge was displaced by a higher-priority one in the
		// same week; the superseding record already counts.
		if r.SupersededByID == nil {
			stats.TimesChallenged++
		}
		switch r.Status {
		case ChallengeStatusAccepted, ChallengeStatusCompleted:
			stats.MatchesAsDefender++
			if stats.RequiredDefenses < RequiredDefenseLimit {
				stats.RequiredDefenses++
			} else {
				stats.VoluntaryDefenses++
			}
		case ChallengeStatusDeclined:
			// An obligated decline forfeits one of the two required defenses.
			if r.ForfeitedDefense {
				stats.RequiredDefenses++
			}
		}
	}
	return stats
}
