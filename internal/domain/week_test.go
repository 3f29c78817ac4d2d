package domain_test

import (
	"testing"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWeekOf(t *testing.T) {
	// Sunday Jan 4 2026 and Monday Jan 5 2026 fall in different ISO weeks.
	sunYear, sunWeek := domain.WeekOf(time.Date(2026, 1, 4, 23, 0, 0, 0, time.UTC))
	monYear, monWeek := domain.WeekOf(time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC))

	assert.Equal(t, 2026, sunYear)
	assert.Equal(t, 1, sunWeek)
	assert.Equal(t, 2026, monYear)
	assert.Equal(t, 2, monWeek)
}

func TestWeeklySlotConsumed(t *testing.T) {
	year, week := domain.WeekOf(statsBase)

	pending := record("Ben Baker", "Alice Adams", domain.ChallengeStatusIssued, 0)
	declined := record("Cara Cole", "Alice Adams", domain.ChallengeStatusDeclined, 1)
	accepted := record("Dan Drake", "Eve Evans", domain.ChallengeStatusAccepted, 2)
	lastWeek := record("Finn Ford", "Gus Grant", domain.ChallengeStatusCompleted, 3)
	lastWeek.ISOWeek = week - 1

	records := []*domain.ChallengeRecord{pending, declined, accepted, lastWeek}

	assert.False(t, domain.WeeklySlotConsumed("Alice Adams", year, week, records),
		"pending and declined challenges must not spend the week")
	assert.True(t, domain.WeeklySlotConsumed("Dan Drake", year, week, records))
	assert.True(t, domain.WeeklySlotConsumed("Eve Evans", year, week, records))
	assert.False(t, domain.WeeklySlotConsumed("Finn Ford", year, week, records))
	assert.True(t, domain.WeeklySlotConsumed("Finn Ford", year, week-1, records))
}

func TestPendingChallengeFor(t *testing.T) {
	year, week := domain.WeekOf(statsBase)

	older := record("Ben Baker", "Alice Adams", domain.ChallengeStatusIssued, 0)
	newer := record("Cara Cole", "Alice Adams", domain.ChallengeStatusRematchIssued, 5)
	settled := record("Dan Drake", "Alice Adams", domain.ChallengeStatusDeclined, 1)

	records := []*domain.ChallengeRecord{newer, settled, older}

	pending := domain.PendingChallengeFor("Alice Adams", year, week, records)
	assert.NotNil(t, pending)
	assert.Equal(t, older.ID, pending.ID, "the oldest pending challenge wins")

	assert.Nil(t, domain.PendingChallengeFor("Eve Evans", year, week, records))
	assert.Nil(t, domain.PendingChallengeFor("Alice Adams", year, week+1, records))
}

func TestChallengeRecord_DefenderLost(t *testing.T) {
	won := record("Ben Baker", "Alice Adams", domain.ChallengeStatusCompleted, 0)
	winner := "ben baker"
	won.WinnerName = &winner
	assert.True(t, won.DefenderLost())

	held := record("Ben Baker", "Alice Adams", domain.ChallengeStatusCompleted, 1)
	defender := "Alice Adams"
	held.WinnerName = &defender
	assert.False(t, held.DefenderLost())

	open := record("Ben Baker", "Alice Adams", domain.ChallengeStatusAccepted, 2)
	assert.False(t, open.DefenderLost())
}
