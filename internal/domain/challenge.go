package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChallengeStatus string

const (
	ChallengeStatusIssued        ChallengeStatus = "issued"
	ChallengeStatusRematchIssued ChallengeStatus = "rematch-issued"
	ChallengeStatusAccepted      ChallengeStatus = "accepted"
	ChallengeStatusDeclined      ChallengeStatus = "declined"
	ChallengeStatusCompleted     ChallengeStatus = "completed"
)

// IsPending reports whether the record is still waiting on the defender.
func (s ChallengeStatus) IsPending() bool {
	return s == ChallengeStatusIssued || s == ChallengeStatusRematchIssued
}

// ChallengeRecord is the authoritative trail of one challenge. Immutable after
// creation except for the status, result and decline bookkeeping fields.
type ChallengeRecord struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DivisionID     uuid.UUID       `json:"divisionId" gorm:"type:uuid;not null;index"`
	SeasonID       uuid.UUID       `json:"seasonId" gorm:"type:uuid;not null;index"`
	ChallengerName string          `json:"challengerName" gorm:"type:varchar(200);not null"`
	DefenderName   string          `json:"defenderName" gorm:"type:varchar(200);not null"`
	ISOYear        int             `json:"isoYear" gorm:"not null"`
	ISOWeek        int             `json:"isoWeek" gorm:"not null"`
	Status         ChallengeStatus `json:"status" gorm:"type:varchar(20);not null"`
	WinnerName     *string         `json:"winnerName" gorm:"type:varchar(200)"`

	IsRematch           bool       `json:"isRematch" gorm:"not null;default:false"`
	OriginalChallengeID *uuid.UUID `json:"originalChallengeId" gorm:"type:uuid"`

	// ForfeitedDefense is set at decline time when the defender still owed a
	// required defense, so the stats projection never depends on replay order.
	ForfeitedDefense bool `json:"forfeitedDefense" gorm:"not null;default:false"`

	// SupersededByID is set when a lower-ranked challenger took same-week
	// priority over this pending challenge.
	SupersededByID *uuid.UUID `json:"supersededById" gorm:"type:uuid"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Division *Division `json:"-" gorm:"foreignKey:DivisionID"`
	Season   *Season   `json:"-" gorm:"foreignKey:SeasonID"`
}

func (ChallengeRecord) TableName() string {
	return "challenge_records"
}

// Involves reports whether the named player is a party to this record.
func (c *ChallengeRecord) Involves(name string) bool {
	return SameName(c.ChallengerName, name) || SameName(c.DefenderName, name)
}

// OpponentOf returns the other party's stored name, or "" if the player is not
// a party to the record.
func (c *ChallengeRecord) OpponentOf(name string) string {
	switch {
	case SameName(c.ChallengerName, name):
		return c.DefenderName
	case SameName(c.DefenderName, name):
		return c.ChallengerName
	default:
		return ""
	}
}

// DefenderLost reports whether the record completed with the defender losing,
// which is what arms the defender's one-time rematch right.
func (c *ChallengeRecord) DefenderLost() bool {
	return c.Status == ChallengeStatusCompleted &&
		c.WinnerName != nil &&
		SameName(*c.WinnerName, c.ChallengerName)
}

// ConsumesWeeklySlot reports whether this record spends both parties' weekly
// window. Pending and declined challenges never consume a slot.
func (c *ChallengeRecord) ConsumesWeeklySlot() bool {
	return c.Status == ChallengeStatusAccepted || c.Status == ChallengeStatusCompleted
}
