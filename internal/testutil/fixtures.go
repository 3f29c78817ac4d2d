package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	isAdmin     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.isAdmin = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		IsAdmin:      b.isAdmin,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// DivisionBuilder creates a division with its season
type DivisionBuilder struct {
	name  string
	phase domain.Phase
}

func NewDivisionBuilder() *DivisionBuilder {
	return &DivisionBuilder{
		name:  fmt.Sprintf("Division %s", uuid.New().String()[:8]),
		phase: domain.PhaseChallenge,
	}
}

func (b *DivisionBuilder) WithName(name string) *DivisionBuilder {
	b.name = name
	return b
}

func (b *DivisionBuilder) InPhase(phase domain.Phase) *DivisionBuilder {
	b.phase = phase
	return b
}

func (b *DivisionBuilder) Build(t *testing.T, db *gorm.DB) (*domain.Division, *domain.Season) {
	t.Helper()

	division := &domain.Division{
		ID:        uuid.New(),
		Name:      b.name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(division).Error; err != nil {
		t.Fatalf("failed to create division: %v", err)
	}

	season := &domain.Season{
		ID:         uuid.New(),
		DivisionID: division.ID,
		Phase:      b.phase,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(season).Error; err != nil {
		t.Fatalf("failed to create season: %v", err)
	}

	return division, season
}

// PlayerBuilder creates ladder players
type PlayerBuilder struct {
	firstName  string
	lastName   string
	rank       int
	divisionID uuid.UUID
}

func NewPlayerBuilder(divisionID uuid.UUID) *PlayerBuilder {
	return &PlayerBuilder{
		firstName:  "Test",
		lastName:   fmt.Sprintf("Player%s", uuid.New().String()[:4]),
		rank:       1,
		divisionID: divisionID,
	}
}

func (b *PlayerBuilder) WithName(first, last string) *PlayerBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

func (b *PlayerBuilder) WithRank(rank int) *PlayerBuilder {
	b.rank = rank
	return b
}

func (b *PlayerBuilder) Build(t *testing.T, db *gorm.DB) *domain.LadderPlayer {
	t.Helper()

	player := &domain.LadderPlayer{
		ID:         uuid.New(),
		DivisionID: b.divisionID,
		FirstName:  b.firstName,
		LastName:   b.lastName,
		Rank:       b.rank,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("failed to create player: %v", err)
	}
	return player
}

// ChallengeBuilder creates challenge records directly, for seeding history
type ChallengeBuilder struct {
	divisionID       uuid.UUID
	seasonID         uuid.UUID
	challengerName   string
	defenderName     string
	status           domain.ChallengeStatus
	winnerName       *string
	isRematch        bool
	originalID       *uuid.UUID
	forfeitedDefense bool
	isoYear          int
	isoWeek          int
	createdAt        time.Time
}

func NewChallengeBuilder(divisionID, seasonID uuid.UUID, challenger, defender string) *ChallengeBuilder {
	year, week := domain.WeekOf(time.Now())
	return &ChallengeBuilder{
		divisionID:     divisionID,
		seasonID:       seasonID,
		challengerName: challenger,
		defenderName:   defender,
		status:         domain.ChallengeStatusIssued,
		isoYear:        year,
		isoWeek:        week,
		createdAt:      time.Now(),
	}
}

func (b *ChallengeBuilder) WithStatus(status domain.ChallengeStatus) *ChallengeBuilder {
	b.status = status
	return b
}

func (b *ChallengeBuilder) WonBy(name string) *ChallengeBuilder {
	b.status = domain.ChallengeStatusCompleted
	b.winnerName = &name
	return b
}

func (b *ChallengeBuilder) AsRematchOf(originalID uuid.UUID) *ChallengeBuilder {
	b.isRematch = true
	b.originalID = &originalID
	return b
}

func (b *ChallengeBuilder) WithForfeitedDefense() *ChallengeBuilder {
	b.forfeitedDefense = true
	return b
}

func (b *ChallengeBuilder) InWeek(year, week int) *ChallengeBuilder {
	b.isoYear = year
	b.isoWeek = week
	return b
}

func (b *ChallengeBuilder) CreatedAt(ts time.Time) *ChallengeBuilder {
	b.createdAt = ts
	return b
}

func (b *ChallengeBuilder) Build(t *testing.T, db *gorm.DB) *domain.ChallengeRecord {
	t.Helper()

	record := &domain.ChallengeRecord{
		ID:                  uuid.New(),
		DivisionID:          b.divisionID,
		SeasonID:            b.seasonID,
		ChallengerName:      b.challengerName,
		DefenderName:        b.defenderName,
		ISOYear:             b.isoYear,
		ISOWeek:             b.isoWeek,
		Status:              b.status,
		WinnerName:          b.winnerName,
		IsRematch:           b.isRematch,
		OriginalChallengeID: b.originalID,
		ForfeitedDefense:    b.forfeitedDefense,
		CreatedAt:           b.createdAt,
		UpdatedAt:           b.createdAt,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create challenge record: %v", err)
	}
	return record
}
