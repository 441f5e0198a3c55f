package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
	"github.com/shrimpsizemoose/semla/migrations"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, kind, round string, limit int, dst any) bool {
	args := m.Called(ctx, kind, round, limit, dst)
	return args.Bool(0)
}

func (m *MockCache) Set(ctx context.Context, kind, round string, limit int, value any) error {
	args := m.Called(ctx, kind, round, limit, value)
	return args.Error(0)
}

func (m *MockCache) Invalidate(ctx context.Context, kind, round string) error {
	args := m.Called(ctx, kind, round)
	return args.Error(0)
}

type fixture struct {
	ctx     context.Context
	store   *store.BaseStore
	teams   []*models.Team
	members []*models.TeamMember
	judges  []*models.Judge
}

func setup(t *testing.T) *fixture {
	s, err := sqlite.NewSQLiteStore(":memory:", migrations.FS)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	fx := &fixture{ctx: context.Background(), store: &s.BaseStore}

	for _, name := range []string{"alpha", "bravo", "charlie"} {
		team, err := s.Teams.Create(fx.ctx, store.Fields{"team_name": name, "username": name, "password_hash": "x"})
		require.NoError(t, err)
		fx.teams = append(fx.teams, team)

		member, err := s.TeamMembers.Create(fx.ctx, store.Fields{
			"team_id":      team.ID,
			"full_name":    name + " lead",
			"student_code": "SC-" + name,
			"email":        name + "@uni.test",
		})
		require.NoError(t, err)
		fx.members = append(fx.members, member)
	}

	for _, name := range []string{"ada", "bob"} {
		judge, err := s.Judges.Create(fx.ctx, store.Fields{
			"full_name":     name,
			"email":         name + "@jury.test",
			"username":      name,
			"password_hash": "x",
		})
		require.NoError(t, err)
		fx.judges = append(fx.judges, judge)
	}
	return fx
}

func f(v float64) *float64 { return &v }

func teamScore(teamID, judgeID int64, round string, c, fe, ai, p, si float64) *models.TeamScoreCreate {
	return &models.TeamScoreCreate{
		TeamID:          teamID,
		JudgeID:         judgeID,
		Round:           round,
		Creativity:      f(c),
		Feasibility:     f(fe),
		AIEffectiveness: f(ai),
		Presentation:    f(p),
		SocialImpact:    f(si),
	}
}

func TestTeamScoreCreate(t *testing.T) {
	fx := setup(t)
	cache := new(MockCache)
	cache.On("Invalidate", mock.Anything, KindTeam, "final").Return(nil)
	svc := NewTeamScoreService(fx.store, cache)

	t.Run("total is the sum of criteria", func(t *testing.T) {
		score, err := svc.Create(fx.ctx, teamScore(fx.teams[0].ID, fx.judges[0].ID, "final", 20, 18.5, 15, 10, 12))
		require.NoError(t, err)
		assert.Equal(t, 75.5, score.TotalScore)
		cache.AssertCalled(t, "Invalidate", mock.Anything, KindTeam, "final")
	})

	t.Run("criteria are stored with two decimals", func(t *testing.T) {
		score, err := svc.Create(fx.ctx, teamScore(fx.teams[2].ID, fx.judges[1].ID, "final", 10.004, 10.004, 0, 0, 0))
		require.NoError(t, err)

		stored, err := fx.store.TeamScores.Get(fx.ctx, score.ID)
		require.NoError(t, err)
		assert.Equal(t, 10.0, stored.Creativity)
		assert.Equal(t, 10.0, stored.Feasibility)

		var sum float64
		for _, v := range stored.Components() {
			sum += v
		}
		assert.InDelta(t, sum, stored.TotalScore, 1e-9)
	})

	t.Run("supplied total is kept", func(t *testing.T) {
		req := teamScore(fx.teams[1].ID, fx.judges[0].ID, "final", 10, 10, 10, 10, 10)
		req.TotalScore = f(42)
		score, err := svc.Create(fx.ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 42.0, score.TotalScore)
	})

	t.Run("out of range criterion writes nothing", func(t *testing.T) {
		before, err := fx.store.TeamScores.Count(fx.ctx, nil)
		require.NoError(t, err)

		_, err = svc.Create(fx.ctx, teamScore(fx.teams[2].ID, fx.judges[0].ID, "final", 26, 0, 0, 0, 0))
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		_, err = svc.Create(fx.ctx, teamScore(fx.teams[2].ID, fx.judges[0].ID, "final", 0, 0, 0, -0.5, 0))
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))

		after, err := fx.store.TeamScores.Count(fx.ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing criterion", func(t *testing.T) {
		req := teamScore(fx.teams[2].ID, fx.judges[0].ID, "final", 1, 1, 1, 1, 1)
		req.Creativity = nil
		_, err := svc.Create(fx.ctx, req)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("unknown team or judge", func(t *testing.T) {
		_, err := svc.Create(fx.ctx, teamScore(999, fx.judges[0].ID, "final", 1, 1, 1, 1, 1))
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
		_, err = svc.Create(fx.ctx, teamScore(fx.teams[2].ID, 999, "final", 1, 1, 1, 1, 1))
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})

	t.Run("same judge team and round twice", func(t *testing.T) {
		_, err := svc.Create(fx.ctx, teamScore(fx.teams[0].ID, fx.judges[0].ID, "final", 1, 1, 1, 1, 1))
		assert.Equal(t, apperr.AlreadyExists, apperr.KindOf(err))
	})
}

func TestTeamScoreUpdate(t *testing.T) {
	fx := setup(t)
	cache := new(MockCache)
	cache.On("Invalidate", mock.Anything, KindTeam, "semifinal").Return(nil)
	svc := NewTeamScoreService(fx.store, cache)

	score, err := svc.Create(fx.ctx, teamScore(fx.teams[0].ID, fx.judges[0].ID, "semifinal", 10, 10, 10, 10, 10))
	require.NoError(t, err)

	updated, err := svc.Update(fx.ctx, score.ID, &models.TeamScoreUpdate{Creativity: f(25)})
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Creativity)
	assert.Equal(t, 65.0, updated.TotalScore)

	comment := "great demo"
	updated, err = svc.Update(fx.ctx, score.ID, &models.TeamScoreUpdate{Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, 65.0, updated.TotalScore)
	assert.Equal(t, "great demo", updated.Comment)

	_, err = svc.Update(fx.ctx, score.ID, &models.TeamScoreUpdate{SocialImpact: f(16)})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Update(fx.ctx, 999, &models.TeamScoreUpdate{Creativity: f(1)})
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestMemberScoreUpdateRecomputesTotal(t *testing.T) {
	fx := setup(t)
	svc := NewMemberScoreService(fx.store, nil)

	score, err := svc.Create(fx.ctx, &models.MemberScoreCreate{
		TeamMemberID:   fx.members[0].ID,
		JudgeID:        fx.judges[0].ID,
		Round:          "final",
		SkillsLearning: f(30),
		Inspiration:    f(20),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, score.TotalScore)

	updated, err := svc.Update(fx.ctx, score.ID, &models.MemberScoreUpdate{Inspiration: f(45)})
	require.NoError(t, err)
	assert.Equal(t, 75.0, updated.TotalScore)

	updated, err = svc.Update(fx.ctx, score.ID, &models.MemberScoreUpdate{SkillsLearning: f(10), Inspiration: f(5)})
	require.NoError(t, err)
	assert.Equal(t, 15.0, updated.TotalScore)

	updated, err = svc.Update(fx.ctx, score.ID, &models.MemberScoreUpdate{SkillsLearning: f(12.344)})
	require.NoError(t, err)
	assert.Equal(t, 12.34, updated.SkillsLearning)
	assert.InDelta(t, updated.SkillsLearning+updated.Inspiration, updated.TotalScore, 1e-9)

	_, err = svc.Update(fx.ctx, score.ID, &models.MemberScoreUpdate{SkillsLearning: f(50.5)})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestTeamRankings(t *testing.T) {
	fx := setup(t)
	cache := new(MockCache)
	cache.On("Invalidate", mock.Anything, KindTeam, "final").Return(nil)
	cache.On("Get", mock.Anything, KindTeam, "final", DefaultRankingLimit, mock.Anything).Return(false)
	cache.On("Set", mock.Anything, KindTeam, "final", DefaultRankingLimit, mock.Anything).Return(nil)
	svc := NewTeamScoreService(fx.store, cache)

	a, b, c := fx.teams[0].ID, fx.teams[1].ID, fx.teams[2].ID
	for _, req := range []*models.TeamScoreCreate{
		teamScore(a, fx.judges[0].ID, "final", 25, 25, 20, 10, 10), // 90
		teamScore(a, fx.judges[1].ID, "final", 25, 25, 20, 10, 10), // 90
		teamScore(b, fx.judges[0].ID, "final", 20, 20, 15, 15, 10), // 80
		teamScore(c, fx.judges[0].ID, "final", 25, 25, 20, 15, 15), // 100
		teamScore(c, fx.judges[1].ID, "final", 25, 25, 20, 10, 10), // 90
	} {
		_, err := svc.Create(fx.ctx, req)
		require.NoError(t, err)
	}

	rankings, err := svc.Rankings(fx.ctx, "final", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.TeamRanking{
		{Rank: 1, TeamID: c, AverageScore: 95},
		{Rank: 2, TeamID: a, AverageScore: 90},
		{Rank: 3, TeamID: b, AverageScore: 80},
	}, rankings)
	cache.AssertCalled(t, "Set", mock.Anything, KindTeam, "final", DefaultRankingLimit, rankings)

	again, err := svc.Rankings(fx.ctx, "final", DefaultRankingLimit)
	require.NoError(t, err)
	assert.Equal(t, rankings, again)

	avg, err := svc.Average(fx.ctx, c, "final")
	require.NoError(t, err)
	assert.Equal(t, int64(2), avg.JudgeCount)
	assert.Equal(t, 95.0, avg.TotalScore)
	assert.Equal(t, 12.5, avg.Presentation)
}

func TestRankingsServedFromCache(t *testing.T) {
	fx := setup(t)
	cache := new(MockCache)
	cached := []models.MemberRanking{{Rank: 1, TeamMemberID: 7, AverageScore: 88}}
	cache.On("Get", mock.Anything, KindMember, "final", 3, mock.Anything).
		Run(func(args mock.Arguments) {
			*args.Get(4).(*[]models.MemberRanking) = cached
		}).
		Return(true)
	svc := NewMemberScoreService(fx.store, cache)

	rankings, err := svc.Rankings(fx.ctx, "final", 3)
	require.NoError(t, err)
	assert.Equal(t, cached, rankings)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAverageWithoutScores(t *testing.T) {
	fx := setup(t)
	svc := NewTeamScoreService(fx.store, nil)

	avg, err := svc.Average(fx.ctx, fx.teams[0].ID, "final")
	require.NoError(t, err)
	assert.Equal(t, models.TeamScoreAverage{TeamID: fx.teams[0].ID, Round: "final"}, *avg)

	_, err = svc.Average(fx.ctx, 999, "final")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestScoreListings(t *testing.T) {
	fx := setup(t)
	svc := NewMemberScoreService(fx.store, nil)

	for _, m := range fx.members {
		for _, round := range []string{"semifinal", "final"} {
			_, err := svc.Create(fx.ctx, &models.MemberScoreCreate{
				TeamMemberID:   m.ID,
				JudgeID:        fx.judges[1].ID,
				Round:          round,
				SkillsLearning: f(10),
				Inspiration:    f(10),
			})
			require.NoError(t, err)
		}
	}

	byJudge, err := svc.ListByJudge(fx.ctx, fx.judges[1].ID, "final")
	require.NoError(t, err)
	assert.Len(t, byJudge, 3)

	byMember, err := svc.ListByMember(fx.ctx, fx.members[0].ID, "")
	require.NoError(t, err)
	assert.Len(t, byMember, 2)

	page, meta, err := svc.List(fx.ctx, Query{Round: "semifinal"}, models.Page{Size: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, int64(3), meta.Total)

	err = svc.Delete(fx.ctx, byMember[0].ID)
	require.NoError(t, err)
	err = svc.Delete(fx.ctx, byMember[0].ID)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}
