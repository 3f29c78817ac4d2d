package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChallengeStatsOverride lets an admin shadow a player's derived stats. Only
// non-nil fields take effect; the record history stays untouched underneath.
type ChallengeStatsOverride struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DivisionID          uuid.UUID `json:"divisionId" gorm:"type:uuid;not null;index:idx_override_division_player,unique"`
	PlayerName          string    `json:"playerName" gorm:"type:varchar(200);not null;index:idx_override_division_player,unique"`
	TimesChallenged     *int      `json:"timesChallenged"`
	ChallengesIssued    *int      `json:"challengesIssued"`
	RequiredDefenses    *int      `json:"requiredDefenses"`
	VoluntaryDefenses   *int      `json:"voluntaryDefenses"`
	MatchesAsChallenger *int      `json:"matchesAsChallenger"`
	MatchesAsDefender   *int      `json:"matchesAsDefender"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func (ChallengeStatsOverride) TableName() string {
	return "challenge_stats_overrides"
}

// ApplyTo lays the override's non-nil fields over derived stats.
func (o *ChallengeStatsOverride) ApplyTo(stats *PlayerChallengeStats) {
	if o.TimesChallenged != nil {
		stats.TimesChallenged = *o.TimesChallenged
	}
	if o.ChallengesIssued != nil {
		stats.ChallengesIssued = *o.ChallengesIssued
	}
	if o.RequiredDefenses != nil {
		stats.RequiredDefenses = *o.RequiredDefenses
	}
	if o.VoluntaryDefenses != nil {
		stats.VoluntaryDefenses = *o.VoluntaryDefenses
	}
	if o.MatchesAsChallenger != nil {
		stats.MatchesAsChallenger = *o.MatchesAsChallenger
	}
	if o.MatchesAsDefender != nil {
		stats.MatchesAsDefender = *o.MatchesAsDefender
	}
}

// AdminAction is the audit trail for the privileged path. Every override,
// reset and phase flip writes one row.
type AdminAction struct {
	ID         uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID     uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	DivisionID uuid.UUID      `json:"divisionId" gorm:"type:uuid;not null;index"`
	Action     string         `json:"action" gorm:"type:varchar(50);not null"`
	Payload    datatypes.JSON `json:"payload"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

const (
	AdminActionUpdateStats = "update_challenge_stats"
	AdminActionResetStats  = "reset_division_challenge_stats"
	AdminActionSetPhase    = "set_season_phase"
	AdminActionSetRanks    = "update_standings"
)
