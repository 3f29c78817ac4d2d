package repository

import (
	"context"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type DivisionRepository interface {
	Create(ctx context.Context, division *domain.Division) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Division, error)
	GetByName(ctx context.Context, name string) (*domain.Division, error)
}

type SeasonRepository interface {
	Create(ctx context.Context, season *domain.Season) error
	GetByDivisionID(ctx context.Context, divisionID uuid.UUID) (*domain.Season, error)
	Update(ctx context.Context, season *domain.Season) error
}

// PlayerRepository is both the division directory and the standings index:
// ranks live on the player rows and are written only by the admin standings
// endpoint. Name lookups follow the league's trimmed case-insensitive rule.
type PlayerRepository interface {
	Create(ctx context.Context, player *domain.LadderPlayer) error
	GetByName(ctx context.Context, divisionID uuid.UUID, name string) (*domain.LadderPlayer, error)
	// GetByNameForUpdate takes a FOR UPDATE row lock; only valid inside a
	// transaction. Lifecycle mutations lock both parties through this.
	GetByNameForUpdate(ctx context.Context, divisionID uuid.UUID, name string) (*domain.LadderPlayer, error)
	ListByDivision(ctx context.Context, divisionID uuid.UUID) ([]*domain.LadderPlayer, error)
	UpdateRank(ctx context.Context, divisionID uuid.UUID, name string, rank int) error
}

type ChallengeRepository interface {
	Create(ctx context.Context, record *domain.ChallengeRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChallengeRecord, error)
	Update(ctx context.Context, record *domain.ChallengeRecord) error
	ListBySeason(ctx context.Context, seasonID uuid.UUID) ([]*domain.ChallengeRecord, error)
	ListByPlayer(ctx context.Context, seasonID uuid.UUID, playerName string) ([]*domain.ChallengeRecord, error)
	DeleteByDivision(ctx context.Context, divisionID uuid.UUID) error
}

type StatsOverrideRepository interface {
	Upsert(ctx context.Context, override *domain.ChallengeStatsOverride) error
	GetByPlayer(ctx context.Context, divisionID uuid.UUID, playerName string) (*domain.ChallengeStatsOverride, error)
	ListByDivision(ctx context.Context, divisionID uuid.UUID) ([]*domain.ChallengeStatsOverride, error)
	DeleteByDivision(ctx context.Context, divisionID uuid.UUID) error
}

type AdminAuditRepository interface {
	Create(ctx context.Context, action *domain.AdminAction) error
	ListByDivision(ctx context.Context, divisionID uuid.UUID, limit int) ([]*domain.AdminAction, error)
}

// Transactor runs fn against transaction-scoped repositories. Every lifecycle
// mutation goes through this so validation and writes commit atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Division      DivisionRepository
	Season        SeasonRepository
	Player        PlayerRepository
	Challenge     ChallengeRepository
	StatsOverride StatsOverrideRepository
	AdminAudit    AdminAuditRepository
	Tx            Transactor
}
