package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LadderPlayer is a league member within one division. The source system keys
// players by "First Last" string matching, so identity here is the trimmed,
// case-insensitive full name within a division; the uuid exists so a stable-ID
// migration stays possible.
type LadderPlayer struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DivisionID uuid.UUID `json:"divisionId" gorm:"type:uuid;not null;index"`
	FirstName  string    `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName   string    `json:"lastName" gorm:"type:varchar(100);not null"`
	Rank       int       `json:"rank" gorm:"not null"` // 1 = top of the ladder
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Relations
	Division *Division `json:"-" gorm:"foreignKey:DivisionID"`
}

func (LadderPlayer) TableName() string {
	return "ladder_players"
}

func (p *LadderPlayer) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// NormalizeName canonicalizes a player name for matching: trimmed, lowercased,
// inner whitespace collapsed.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SameName reports whether two player names refer to the same player under the
// league's name-matching rules.
func SameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
