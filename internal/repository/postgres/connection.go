package postgres

import (
	"context"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Division{},
		&domain.Season{},
		&domain.LadderPlayer{},
		&domain.ChallengeRecord{},
		&domain.ChallengeStatsOverride{},
		&domain.AdminAction{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Division:      NewDivisionRepository(db),
		Season:        NewSeasonRepository(db),
		Player:        NewPlayerRepository(db),
		Challenge:     NewChallengeRepository(db),
		StatsOverride: NewStatsOverrideRepository(db),
		AdminAudit:    NewAdminAuditRepository(db),
		Tx:            NewTransactor(db),
	}
}

type transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *transactor {
	return &transactor{db: db}
}

// WithinTx builds a fresh set of repositories bound to one transaction and
// hands them to fn. A non-nil error rolls everything back.
func (t *transactor) WithinTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
