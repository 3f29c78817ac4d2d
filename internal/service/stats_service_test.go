package service_test

import (
	"context"
	"testing"

	"github.com/frbcapl/pool-league-backend/internal/domain"
	"github.com/frbcapl/pool-league-backend/internal/service"
	"github.com/frbcapl/pool-league-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminAuth(t *testing.T, env *serviceEnv) domain.AuthContext {
	t.Helper()
	user, _ := testutil.NewUserBuilder().AsAdmin().Build(t, env.db.DB)
	return domain.AuthContext{UserID: user.ID, DisplayName: user.DisplayName, IsAdmin: true}
}

func memberAuth(t *testing.T, env *serviceEnv) domain.AuthContext {
	t.Helper()
	user, _ := testutil.NewUserBuilder().Build(t, env.db.DB)
	return domain.AuthContext{UserID: user.ID, DisplayName: user.DisplayName}
}

func TestStatsService_GetChallengeStats(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)

	y1, w1 := pastWeek(1)
	testutil.NewChallengeBuilder(division.ID, season.ID, "Eve Evans", "Alice Adams").
		WonBy("Eve Evans").
		InWeek(y1, w1).
		Build(t, env.db.DB)

	y2, w2 := pastWeek(2)
	testutil.NewChallengeBuilder(division.ID, season.ID, "Finn Ford", "Eve Evans").
		WithStatus(domain.ChallengeStatusDeclined).
		WithForfeitedDefense().
		InWeek(y2, w2).
		Build(t, env.db.DB)

	stats, err := env.services.Stats.GetChallengeStats(ctx, "eve evans", division.Name)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ChallengesIssued)
	assert.Equal(t, 1, stats.MatchesAsChallenger)
	assert.Equal(t, 1, stats.TimesChallenged)
	assert.Equal(t, 1, stats.RequiredDefenses)
	assert.Equal(t, 2, stats.TotalMatches())

	_, err = env.services.Stats.GetChallengeStats(ctx, "Nobody Known", division.Name)
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestStatsService_AdminGate(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, _ := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)
	member := memberAuth(t, env)

	_, err := env.services.Stats.GetDivisionChallengeStats(ctx, member, division.Name)
	assert.ErrorIs(t, err, service.ErrAdminRequired)

	_, err = env.services.Stats.UpdateChallengeStats(ctx, member, "Eve Evans", division.Name, service.StatsPatch{
		RequiredDefenses: intPtr(2),
	})
	assert.ErrorIs(t, err, service.ErrAdminRequired)

	err = env.services.Stats.ResetDivisionChallengeStats(ctx, member, division.Name)
	assert.ErrorIs(t, err, service.ErrAdminRequired)
}

func TestStatsService_UpdateChallengeStats(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)
	admin := adminAuth(t, env)

	y, w := pastWeek(1)
	testutil.NewChallengeBuilder(division.ID, season.ID, "Eve Evans", "Alice Adams").
		WonBy("Eve Evans").
		InWeek(y, w).
		Build(t, env.db.DB)

	stats, err := env.services.Stats.UpdateChallengeStats(ctx, admin, "Alice Adams", division.Name, service.StatsPatch{
		RequiredDefenses: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RequiredDefenses, "overridden field wins")
	assert.Equal(t, 1, stats.TimesChallenged, "untouched fields stay derived")

	// The override also feeds the rule engine: Alice may now decline freely.
	limits, err := env.services.Stats.GetChallengeLimits(ctx, "Alice Adams", division.Name)
	require.NoError(t, err)
	assert.True(t, limits.CanDeclineWithoutPenalty)
	assert.Equal(t, 0, limits.RequiredDefensesRemaining)

	var audits int64
	require.NoError(t, env.db.DB.Model(&domain.AdminAction{}).
		Where("division_id = ? AND action = ?", division.ID, domain.AdminActionUpdateStats).
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestStatsService_ResetDivisionChallengeStats(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)
	admin := adminAuth(t, env)

	y, w := pastWeek(1)
	testutil.NewChallengeBuilder(division.ID, season.ID, "Eve Evans", "Alice Adams").
		WonBy("Eve Evans").
		InWeek(y, w).
		Build(t, env.db.DB)
	_, err := env.services.Stats.UpdateChallengeStats(ctx, admin, "Alice Adams", division.Name, service.StatsPatch{
		VoluntaryDefenses: intPtr(1),
	})
	require.NoError(t, err)

	require.NoError(t, env.services.Stats.ResetDivisionChallengeStats(ctx, admin, division.Name))

	stats, err := env.services.Stats.GetChallengeStats(ctx, "Alice Adams", division.Name)
	require.NoError(t, err)
	assert.Equal(t, &domain.PlayerChallengeStats{PlayerName: "Alice Adams"}, stats,
		"history and overrides are both gone")

	var remaining int64
	require.NoError(t, env.db.DB.Model(&domain.ChallengeRecord{}).
		Where("division_id = ?", division.ID).
		Count(&remaining).Error)
	assert.Zero(t, remaining)

	var audits int64
	require.NoError(t, env.db.DB.Model(&domain.AdminAction{}).
		Where("division_id = ? AND action = ?", division.ID, domain.AdminActionResetStats).
		Count(&audits).Error)
	assert.EqualValues(t, 1, audits)
}

func TestStatsService_GetDivisionChallengeStats(t *testing.T) {
	env := newServiceEnv(t)
	ctx := context.Background()

	division, season := testutil.NewDivisionBuilder().Build(t, env.db.DB)
	seedLadder(t, env.db.DB, division.ID, ladderNames...)
	admin := adminAuth(t, env)

	y, w := pastWeek(1)
	testutil.NewChallengeBuilder(division.ID, season.ID, "Eve Evans", "Alice Adams").
		WonBy("Eve Evans").
		InWeek(y, w).
		Build(t, env.db.DB)

	all, err := env.services.Stats.GetDivisionChallengeStats(ctx, admin, division.Name)
	require.NoError(t, err)
	require.Len(t, all, len(ladderNames))

	assert.Equal(t, "Alice Adams", all[0].PlayerName, "ladder rank order")
	assert.Equal(t, 1, all[0].TimesChallenged)
	assert.Equal(t, "Eve Evans", all[4].PlayerName)
	assert.Equal(t, 1, all[4].MatchesAsChallenger)
}
