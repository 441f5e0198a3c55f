// internal/scoring/team.go
package scoring

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

// Query narrows score listings. Zero values are ignored.
type Query struct {
	SubjectID int64
	JudgeID   int64
	Round     string
}

type TeamScoreService struct {
	store  *store.BaseStore
	cache  RankingCache
	rubric Rubric
}

func NewTeamScoreService(s *store.BaseStore, cache RankingCache) *TeamScoreService {
	return &TeamScoreService{store: s, cache: orNoCache(cache), rubric: TeamRubric}
}

func (s *TeamScoreService) Create(ctx context.Context, req *models.TeamScoreCreate) (*models.TeamScore, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Teams.Get(ctx, req.TeamID); err != nil {
		return nil, err
	}
	if _, err := s.store.Judges.Get(ctx, req.JudgeID); err != nil {
		return nil, err
	}

	components := Cents(req.Components())
	if err := s.rubric.Validate(components); err != nil {
		return nil, err
	}
	if err := validateTotal(req.TotalScore, s.rubric); err != nil {
		return nil, err
	}

	total := s.rubric.Total(components)
	if req.TotalScore != nil && *req.TotalScore != 0 {
		total = roundCents(*req.TotalScore)
	}

	fields := store.Fields{
		"team_id":     req.TeamID,
		"judge_id":    req.JudgeID,
		"round":       req.Round,
		"total_score": total,
		"comment":     req.Comment,
	}
	for name, v := range components {
		fields[name] = v
	}

	score, err := s.store.TeamScores.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Judge %d scored team %d in round %s: %.2f", score.JudgeID, score.TeamID, score.Round, score.TotalScore)
	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "create", score.TotalScore)
	return score, nil
}

// Update validates only the supplied criteria. When any criterion changes the total is recomputed
// from the patched and stored values together.
func (s *TeamScoreService) Update(ctx context.Context, id int64, req *models.TeamScoreUpdate) (*models.TeamScore, error) {
	current, err := s.store.TeamScores.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := Cents(req.Components())
	if err := s.rubric.Validate(changed); err != nil {
		return nil, err
	}
	if err := validateTotal(req.TotalScore, s.rubric); err != nil {
		return nil, err
	}

	fields := store.Fields{}
	for name, v := range changed {
		fields[name] = v
	}
	if len(changed) > 0 {
		fields["total_score"] = s.rubric.Total(Merge(current.Components(), changed))
	} else if req.TotalScore != nil {
		fields["total_score"] = roundCents(*req.TotalScore)
	}
	if req.Comment != nil {
		fields["comment"] = *req.Comment
	}

	score, err := s.store.TeamScores.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "update", score.TotalScore)
	return score, nil
}

func (s *TeamScoreService) Delete(ctx context.Context, id int64) error {
	score, err := s.store.TeamScores.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.TeamScores.Delete(ctx, id); err != nil {
		return err
	}
	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "delete", 0)
	return nil
}

func (s *TeamScoreService) Get(ctx context.Context, id int64) (*models.TeamScore, error) {
	return s.store.TeamScores.Get(ctx, id)
}

func (s *TeamScoreService) List(ctx context.Context, q Query, page models.Page) ([]models.TeamScore, models.Metadata, error) {
	f := store.NewFilter().
		EqIf(q.SubjectID > 0, "team_id", q.SubjectID).
		EqIf(q.JudgeID > 0, "judge_id", q.JudgeID).
		EqIf(q.Round != "", "round", q.Round)
	return s.store.TeamScores.List(ctx, f, page)
}

func (s *TeamScoreService) ListByTeam(ctx context.Context, teamID int64, round string) ([]models.TeamScore, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	f := store.NewFilter().Eq("team_id", teamID).EqIf(round != "", "round", round)
	return s.store.TeamScores.Find(ctx, f, "id ASC")
}

func (s *TeamScoreService) ListByJudge(ctx context.Context, judgeID int64, round string) ([]models.TeamScore, error) {
	if _, err := s.store.Judges.Get(ctx, judgeID); err != nil {
		return nil, err
	}
	f := store.NewFilter().Eq("judge_id", judgeID).EqIf(round != "", "round", round)
	return s.store.TeamScores.Find(ctx, f, "id ASC")
}

func (s *TeamScoreService) Average(ctx context.Context, teamID int64, round string) (*models.TeamScoreAverage, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.TeamScoreAverage(ctx, teamID, round)
}

// Rankings orders teams by average total score in round, best first, with 1-based ranks.
func (s *TeamScoreService) Rankings(ctx context.Context, round string, limit int) ([]models.TeamRanking, error) {
	return ranked(ctx, s.cache, s.rubric.Kind, round, limit, s.store.TeamRankings,
		func(rank int, row models.RankedSubject) models.TeamRanking {
			return models.TeamRanking{Rank: rank, TeamID: row.SubjectID, AverageScore: row.AverageScore}
		})
}
