package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase identifies which stage of a season a division is in.
type Phase string

const (
	// PhaseScheduled is the assigned-opponent round at the start of a season.
	PhaseScheduled Phase = "scheduled"
	// PhaseChallenge is the standings-based round where players challenge upward.
	PhaseChallenge Phase = "challenge"
)

func (p Phase) IsValid() bool {
	return p == PhaseScheduled || p == PhaseChallenge
}

type Division struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Season *Season `json:"season,omitempty" gorm:"foreignKey:DivisionID"`
}

func (Division) TableName() string {
	return "divisions"
}

// Season holds the phase gate for a division. The phase is flipped by an
// explicit admin action; the deadline timestamps are display data only.
type Season struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DivisionID    uuid.UUID  `json:"divisionId" gorm:"type:uuid;not null;uniqueIndex"`
	Phase         Phase      `json:"phase" gorm:"type:varchar(20);not null;default:'scheduled'"`
	Phase1EndAt   *time.Time `json:"phase1EndAt"`
	Phase2StartAt *time.Time `json:"phase2StartAt"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func (Season) TableName() string {
	return "seasons"
}

func (s *Season) IsChallengePhase() bool {
	return s.Phase == PhaseChallenge
}
