package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/repository"
	"github.com/frbcapl/pool-league-backend/internal/repository/postgres"
	"github.com/frbcapl/pool-league-backend/internal/service"
	"github.com/frbcapl/pool-league-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// serviceEnv wires the full service stack against a throwaway database.
// Tests that need isolation from each other seed separate divisions.
type serviceEnv struct {
	db       *testutil.TestDB
	repos    *repository.Repositories
	services *service.Services
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return &serviceEnv{
		db:       testDB,
		repos:    repos,
		services: service.NewServices(repos, testutil.TestConfig(), nil),
	}
}

// seedLadder creates players ranked by argument order, rank 1 first.
func seedLadder(t *testing.T, db *gorm.DB, divisionID uuid.UUID, names ...string) map[string]*domain.LadderPlayer {
	t.Helper()
	players := make(map[string]*domain.LadderPlayer, len(names))
	for i, full := range names {
		parts := strings.SplitN(full, " ", 2)
		players[full] = testutil.NewPlayerBuilder(divisionID).
			WithName(parts[0], parts[1]).
			WithRank(i + 1).
			Build(t, db)
	}
	return players
}

func pastWeek(weeksAgo int) (year, week int) {
	return domain.WeekOf(time.Now().AddDate(0, 0, -7*weeksAgo))
}

func intPtr(v int) *int {
	return &v
}
