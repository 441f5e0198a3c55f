package app

import (
	"context"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type MemberService struct {
	store *store.BaseStore
	cache scoring.RankingCache
}

func NewMemberService(s *store.BaseStore, cache scoring.RankingCache) *MemberService {
	return &MemberService{store: s, cache: cache}
}

// Create relies on unique indexes for student code, email and the single leader per team.
func (s *MemberService) Create(ctx context.Context, req *models.TeamMemberCreate) (*models.TeamMember, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Teams.Get(ctx, req.TeamID); err != nil {
		return nil, err
	}
	return s.store.TeamMembers.Create(ctx, req.Fields())
}

func (s *MemberService) Update(ctx context.Context, id int64, req *models.TeamMemberUpdate) (*models.TeamMember, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.TeamMembers.Update(ctx, id, req.Fields())
}

func (s *MemberService) Delete(ctx context.Context, id int64) error {
	rounds := scoreRounds(ctx, s.store, store.MemberScoresTable.Name, "team_member_id = ?", id)
	if err := s.store.TeamMembers.Delete(ctx, id); err != nil {
		return err
	}
	forgetRankings(ctx, s.cache, scoring.KindMember, rounds)
	return nil
}

func (s *MemberService) Get(ctx context.Context, id int64) (*models.TeamMember, error) {
	return s.store.TeamMembers.Get(ctx, id)
}

func (s *MemberService) Search(ctx context.Context, term string, teamID int64, page models.Page) ([]models.TeamMember, models.Metadata, error) {
	f := store.NewFilter().
		Search(term, "full_name", "student_code", "student_batch", "class_code", "email", "phone").
		EqIf(teamID > 0, "team_id", teamID)
	return s.store.TeamMembers.List(ctx, f, page)
}

// ListByTeam returns the team's members, leader first.
func (s *MemberService) ListByTeam(ctx context.Context, teamID int64) ([]models.TeamMember, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.TeamMembers.Find(ctx, store.NewFilter().Eq("team_id", teamID), "is_leader DESC, id ASC")
}
