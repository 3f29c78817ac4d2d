package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/service"
	"github.com/frbcapl/pool-league-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeService_Lifecycle(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, _ := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	// Input names are normalized against the ladder before storage.
	record, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "  eve   EVANS ",
		DefenderName:   "alice adams",
		DivisionName:   division.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusIssued, record.Status)
	assert.Equal(t, "Eve Evans", record.ChallengerName)
	assert.Equal(t, "Alice Adams", record.DefenderName)
	assert.False(t, record.IsRematch)

	year, week := domain.WeekOf(time.Now())
	assert.Equal(t, year, record.ISOYear)
	assert.Equal(t, week, record.ISOWeek)

	limits, err := env.services.Stats.GetChallengeLimits(ctx, "Eve Evans", division.Name)
	require.NoError(t, err)
	assert.Equal(t, 4, limits.ChallengeLimit)
	assert.Equal(t, 1, limits.ChallengesIssued)
	assert.Equal(t, 3, limits.ChallengesRemaining)
	assert.True(t, limits.HasFreeWeeklySlot, "a pending challenge does not spend the week")

	accepted, err := env.services.Challenge.Accept(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusAccepted, accepted.Status)

	aliceStats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
	require.NoError(t, err)
	assert.Equal(t, 1, aliceStats.TimesChallenged)
	assert.Equal(t, 1, aliceStats.RequiredDefenses)
	assert.Equal(t, 1, aliceStats.MatchesAsDefender)

	// Acceptance spends both weekly slots.
	_, err = env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Eve Evans",
		DefenderName:   "Ben Baker",
		DivisionName:   division.Name,
	})
	assert.ErrorIs(t, err, domain.ErrWeeklyCapExceeded)

	_, err = env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Cara Cole",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	assert.ErrorIs(t, err, domain.ErrWeeklyCapExceeded)

	completed, err := env.services.Challenge.Complete(ctx, record.ID, "eve evans")
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusCompleted, completed.Status)
	require.NotNil(t, completed.WinnerName)
	assert.Equal(t, "Eve Evans", *completed.WinnerName)

	fetched, err := env.services.Challenge.GetChallenge(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusCompleted, fetched.Status)

	history, err := env.services.Challenge.ListPlayerChallenges(ctx, "Eve Evans", division.Name)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, record.ID, history[0].ID)
}

func TestChallengeService_InvalidTransitions(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, _ := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	record, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Eve Evans",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	require.NoError(t, err)

	_, err = env.services.Challenge.Complete(ctx, record.ID, "Eve Evans")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "only accepted challenges complete")

	_, err = env.services.Challenge.Accept(ctx, record.ID)
	require.NoError(t, err)

	_, err = env.services.Challenge.Accept(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.services.Challenge.Decline(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.services.Challenge.Complete(ctx, record.ID, "Nobody Known")
	assert.ErrorIs(t, err, domain.ErrInvalidWinner)

	_, err = env.services.Challenge.Complete(ctx, record.ID, "Alice Adams")
	require.NoError(t, err)

	_, err = env.services.Challenge.Complete(ctx, record.ID, "Alice Adams")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = env.services.Challenge.Accept(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
}

func TestChallengeService_Decline(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	t.Run("obligated defender forfeits a required defense", func(t *testing.T) {
		division, _ := testutil.NewDivisionBuilder().Build(t, env.db.DB)
		seedLadder(t, env.db.DB, division.ID, ladderNames...)

		record, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
			ChallengerName: "Eve Evans",
			DefenderName:   "Alice Adams",
			DivisionName:   division.Name,
		})
		require.NoError(t, err)

		declined, err := env.services.Challenge.Decline(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.ChallengeStatusDeclined, declined.Status)
		assert.True(t, declined.ForfeitedDefense)

		aliceStats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
		require.NoError(t, err)
		assert.Equal(t, 1, aliceStats.RequiredDefenses)
		assert.Equal(t, 0, aliceStats.MatchesAsDefender)
		assert.Equal(t, 1, aliceStats.TotalMatches())

		// The decline refunds the challenger's quota...
		eveStats, err := env.services.Stats.GetChallengeStats(ctx, "Eve Evans", division.Name)
		require.NoError(t, err)
		assert.Equal(t, 0, eveStats.ChallengesIssued)

		// ...but the pair stays closed for the season.
		_, err = env.services.Challenge.Issue(ctx, service.ChallengeInput{
			ChallengerName: "Eve Evans",
			DefenderName:   "Alice Adams",
			DivisionName:   division.Name,
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyChallenged)
	})

	t.Run("satisfied defender declines without penalty", func(t *testing.T) {
		division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
		seedLadder(t, env.db.DB, division.ID, ladderNames...)

		for i, challenger := range []string{"Ben Baker", "Cara Cole"} {
			year, week := pastWeek(i + 1)
			testutil.NewChallengeBuilder(division.ID, season.ID, challenger, "Alice Adams").
				WithStatus(domain.ChallengeStatusAccepted).
				InWeek(year, week).
				Build(t, env.db.DB)
		}

		record, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
			ChallengerName: "Eve Evans",
			DefenderName:   "Alice Adams",
			DivisionName:   division.Name,
		})
		require.NoError(t, err)

		declined, err := env.services.Challenge.Decline(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, declined.ForfeitedDefense)

		aliceStats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
		require.NoError(t, err)
		assert.Equal(t, 2, aliceStats.RequiredDefenses)
		assert.Equal(t, 0, aliceStats.VoluntaryDefenses)
	})
}

func TestChallengeService_DefensePriority(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, _ := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	first, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Cara Cole",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	require.NoError(t, err)

	// A lower-ranked challenger takes the defender's week from a pending
	// higher-ranked one.
	second, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Eve Evans",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusIssued, second.Status)

	displaced, err := env.services.Challenge.GetChallenge(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusDeclined, displaced.Status)
	require.NotNil(t, displaced.SupersededByID)
	assert.Equal(t, second.ID, *displaced.SupersededByID)
	assert.False(t, displaced.ForfeitedDefense, "a superseded challenge is no forfeit")

	// A better-ranked challenger cannot displace the pending one.
	_, err = env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Ben Baker",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	assert.ErrorIs(t, err, domain.ErrDefenderBusy)

	aliceStats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
	require.NoError(t, err)
	assert.Equal(t, 1, aliceStats.TimesChallenged, "only the live challenge counts")

	caraStats, err := env.services.Stats.GetChallengeStats(ctx, "Cara Cole", division.Name)
	require.NoError(t, err)
	assert.Equal(t, 0, caraStats.ChallengesIssued, "the displaced challenger keeps their quota")
}

func TestChallengeService_Rematch(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	year, week := pastWeek(1)
	original := testutil.NewChallengeBuilder(division.ID, season.ID, "Eve Evans", "Alice Adams").
		WonBy("Eve Evans").
		InWeek(year, week).
		Build(t, env.db.DB)

	rematch, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Alice Adams",
		DefenderName:   "Eve Evans",
		DivisionName:   division.Name,
		IsRematch:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusRematchIssued, rematch.Status)
	assert.True(t, rematch.IsRematch)
	require.NotNil(t, rematch.OriginalChallengeID)
	assert.Equal(t, original.ID, *rematch.OriginalChallengeID)

	accepted, err := env.services.Challenge.Accept(ctx, rematch.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeStatusAccepted, accepted.Status)

	_, err = env.services.Challenge.Complete(ctx, rematch.ID, "Alice Adams")
	require.NoError(t, err)

	// The rematch right is single-use.
	_, err = env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Alice Adams",
		DefenderName:   "Eve Evans",
		DivisionName:   division.Name,
		IsRematch:      true,
	})
	assert.ErrorIs(t, err, domain.ErrRematchNotAvailable)
}

func TestChallengeService_PhaseGate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().InPhase(domain.PhaseScheduled).Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	_, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Eve Evans",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	assert.ErrorIs(t, err, domain.ErrPhaseNotActive)

	// A challenge issued while the phase was open cannot be accepted after an
	// admin closes it.
	season.Phase = domain.PhaseChallenge
	require.NoError(t, env.repos.Season.Update(ctx, season))

	record, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
		ChallengerName: "Eve Evans",
		DefenderName:   "Alice Adams",
		DivisionName:   division.Name,
	})
	require.NoError(t, err)

	season.Phase = domain.PhaseScheduled
	require.NoError(t, env.repos.Season.Update(ctx, season))

	_, err = env.services.Challenge.Accept(ctx, record.ID)
	assert.ErrorIs(t, err, domain.ErrPhaseNotActive)
}

func TestChallengeService_ConcurrentIssues(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	t.Run("quota is never double-spent by parallel issuers", func(t *testing.T) {
		division, _ := testutil.NewDivisionBuilder().WithName("Quota Race").Build(t, env.db.DB)
		seedLadder(t, env.db.DB, division.ID, ladderNames...)

		// Two prior incoming challenges leave Eve a quota of exactly two.
		require.NoError(t, env.repos.StatsOverride.Upsert(ctx, &domain.ChallengeStatsOverride{
			ID:              uuid.New(),
			DivisionID:      division.ID,
			PlayerName:      "Eve Evans",
			TimesChallenged: intPtr(2),
		}))

		defenders := []string{"Alice Adams", "Ben Baker", "Cara Cole", "Dan Drake"}
		errs := make(chan error, len(defenders))
		var wg sync.WaitGroup
		for _, defender := range defenders {
			wg.Add(1)
			go func(defender string) {
				defer wg.Done()
				_, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
					ChallengerName: "Eve Evans",
					DefenderName:   defender,
					DivisionName:   division.Name,
				})
				errs <- err
			}(defender)
		}
		wg.Wait()
		close(errs)

		var issued, rejected int
		for err := range errs {
			if err == nil {
				issued++
				continue
			}
			assert.ErrorIs(t, err, domain.ErrChallengeLimitExceeded)
			rejected++
		}
		assert.Equal(t, 2, issued)
		assert.Equal(t, 2, rejected)

		stats, err := env.services.Stats.GetChallengeStats(ctx, "Eve Evans", division.Name)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.ChallengesIssued)
	})

	t.Run("parallel challengers leave one pending defense", func(t *testing.T) {
		division, season := testutil.NewDivisionBuilder().WithName("Defense Race").Build(t, env.db.DB)
		seedLadder(t, env.db.DB, division.ID, ladderNames...)

		challengers := []string{"Ben Baker", "Cara Cole", "Dan Drake", "Eve Evans"}
		errs := make(chan error, len(challengers))
		var wg sync.WaitGroup
		for _, challenger := range challengers {
			wg.Add(1)
			go func(challenger string) {
				defer wg.Done()
				_, err := env.services.Challenge.Issue(ctx, service.ChallengeInput{
					ChallengerName: challenger,
					DefenderName:   "Alice Adams",
					DivisionName:   division.Name,
				})
				errs <- err
			}(challenger)
		}
		wg.Wait()
		close(errs)

		// A challenger either lands, is later displaced, or finds the week's
		// slot held by someone ranked below them. Nothing else may happen.
		for err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrDefenderBusy)
			}
		}

		records, err := env.repos.Challenge.ListBySeason(ctx, season.ID)
		require.NoError(t, err)
		require.NotEmpty(t, records)

		var pending *domain.ChallengeRecord
		for _, record := range records {
			switch record.Status {
			case domain.ChallengeStatusIssued:
				require.Nil(t, pending, "two live challenges landed on the same defender")
				pending = record
			case domain.ChallengeStatusDeclined:
				assert.NotNil(t, record.SupersededByID)
			default:
				t.Fatalf("unexpected record status %q", record.Status)
			}
		}
		require.NotNil(t, pending)

		// Displaced records count against nobody: Alice owes exactly one
		// defense and the displaced challengers keep their full quota.
		stats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TimesChallenged)

		for _, record := range records {
			if record.Status != domain.ChallengeStatusDeclined {
				continue
			}
			challengerStats, err := env.services.Stats.GetChallengeStats(ctx, record.ChallengerName, division.Name)
			require.NoError(t, err)
			assert.Zero(t, challengerStats.ChallengesIssued)
		}
	})
}
