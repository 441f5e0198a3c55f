package app

import (
	"context"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type AssignmentQuery struct {
	JudgeID int64
	TeamID  int64
	Round   string
}

type AssignmentService struct {
	store *store.BaseStore
}

func NewAssignmentService(s *store.BaseStore) *AssignmentService {
	return &AssignmentService{store: s}
}

func (s *AssignmentService) Create(ctx context.Context, req *models.JudgeAssignmentCreate) (*models.JudgeAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Judges.Get(ctx, req.JudgeID); err != nil {
		return nil, err
	}
	if _, err := s.store.Teams.Get(ctx, req.TeamID); err != nil {
		return nil, err
	}

	return s.store.Assignments.Create(ctx, store.Fields{
		"judge_id": req.JudgeID,
		"team_id":  req.TeamID,
		"round":    req.Round,
	})
}

// Update only moves an assignment to another round. An unchanged round writes nothing.
func (s *AssignmentService) Update(ctx context.Context, id int64, req *models.JudgeAssignmentUpdate) (*models.JudgeAssignment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.Assignments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Round == nil || *req.Round == current.Round {
		return current, nil
	}

	return s.store.Assignments.Update(ctx, id, store.Fields{"round": *req.Round})
}

func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	return s.store.Assignments.Delete(ctx, id)
}

func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.JudgeAssignment, error) {
	return s.store.Assignments.Get(ctx, id)
}

func (s *AssignmentService) List(ctx context.Context, q AssignmentQuery, page models.Page) ([]models.JudgeAssignment, models.Metadata, error) {
	return s.store.Assignments.List(ctx, q.filter(), page)
}

func (s *AssignmentService) ListByJudge(ctx context.Context, judgeID int64, round string) ([]models.JudgeAssignment, error) {
	if _, err := s.store.Judges.Get(ctx, judgeID); err != nil {
		return nil, err
	}
	return s.store.Assignments.Find(ctx, AssignmentQuery{JudgeID: judgeID, Round: round}.filter(), "id ASC")
}

func (s *AssignmentService) ListByTeam(ctx context.Context, teamID int64, round string) ([]models.JudgeAssignment, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.Assignments.Find(ctx, AssignmentQuery{TeamID: teamID, Round: round}.filter(), "id ASC")
}

func (s *AssignmentService) ListByRound(ctx context.Context, round string) ([]models.JudgeAssignment, error) {
	return s.store.Assignments.Find(ctx, AssignmentQuery{Round: round}.filter(), "judge_id ASC, team_id ASC")
}

func (q AssignmentQuery) filter() *store.Filter {
	return store.NewFilter().
		EqIf(q.JudgeID > 0, "judge_id", q.JudgeID).
		EqIf(q.TeamID > 0, "team_id", q.TeamID).
		EqIf(q.Round != "", "round", q.Round)
}
