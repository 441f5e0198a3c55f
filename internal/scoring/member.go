// internal/scoring/member.go
package scoring

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type MemberScoreService struct {
	store  *store.BaseStore
	cache  RankingCache
	rubric Rubric
}

func NewMemberScoreService(s *store.BaseStore, cache RankingCache) *MemberScoreService {
	return &MemberScoreService{store: s, cache: orNoCache(cache), rubric: MemberRubric}
}

func (s *MemberScoreService) Create(ctx context.Context, req *models.MemberScoreCreate) (*models.MemberScore, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.TeamMembers.Get(ctx, req.TeamMemberID); err != nil {
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
		"team_member_id": req.TeamMemberID,
		"judge_id":       req.JudgeID,
		"round":          req.Round,
		"total_score":    total,
		"comment":        req.Comment,
	}
	for name, v := range components {
		fields[name] = v
	}

	score, err := s.store.MemberScores.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Judge %d scored member %d in round %s: %.2f", score.JudgeID, score.TeamMemberID, score.Round, score.TotalScore)
	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "create", score.TotalScore)
	return score, nil
}

func (s *MemberScoreService) Update(ctx context.Context, id int64, req *models.MemberScoreUpdate) (*models.MemberScore, error) {
	current, err := s.store.MemberScores.Get(ctx, id)
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

	score, err := s.store.MemberScores.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "update", score.TotalScore)
	return score, nil
}

func (s *MemberScoreService) Delete(ctx context.Context, id int64) error {
	score, err := s.store.MemberScores.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.MemberScores.Delete(ctx, id); err != nil {
		return err
	}
	scoreWritten(ctx, s.cache, s.rubric.Kind, score.Round, "delete", 0)
	return nil
}

func (s *MemberScoreService) Get(ctx context.Context, id int64) (*models.MemberScore, error) {
	return s.store.MemberScores.Get(ctx, id)
}

func (s *MemberScoreService) List(ctx context.Context, q Query, page models.Page) ([]models.MemberScore, models.Metadata, error) {
	f := store.NewFilter().
		EqIf(q.SubjectID > 0, "team_member_id", q.SubjectID).
		EqIf(q.JudgeID > 0, "judge_id", q.JudgeID).
		EqIf(q.Round != "", "round", q.Round)
	return s.store.MemberScores.List(ctx, f, page)
}

func (s *MemberScoreService) ListByMember(ctx context.Context, memberID int64, round string) ([]models.MemberScore, error) {
	if _, err := s.store.TeamMembers.Get(ctx, memberID); err != nil {
		return nil, err
	}
	f := store.NewFilter().Eq("team_member_id", memberID).EqIf(round != "", "round", round)
	return s.store.MemberScores.Find(ctx, f, "id ASC")
}

func (s *MemberScoreService) ListByJudge(ctx context.Context, judgeID int64, round string) ([]models.MemberScore, error) {
	if _, err := s.store.Judges.Get(ctx, judgeID); err != nil {
		return nil, err
	}
	f := store.NewFilter().Eq("judge_id", judgeID).EqIf(round != "", "round", round)
	return s.store.MemberScores.Find(ctx, f, "id ASC")
}

func (s *MemberScoreService) Average(ctx context.Context, memberID int64, round string) (*models.MemberScoreAverage, error) {
	if _, err := s.store.TeamMembers.Get(ctx, memberID); err != nil {
		return nil, err
	}
	return s.store.MemberScoreAverage(ctx, memberID, round)
}

// Rankings orders members by average total score in round, best first, with 1-based ranks.
func (s *MemberScoreService) Rankings(ctx context.Context, round string, limit int) ([]models.MemberRanking, error) {
	return ranked(ctx, s.cache, s.rubric.Kind, round, limit, s.store.MemberRankings,
		func(rank int, row models.RankedSubject) models.MemberRanking {
			return models.MemberRanking{Rank: rank, TeamMemberID: row.SubjectID, AverageScore: row.AverageScore}
		})
}
