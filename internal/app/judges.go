package app

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type JudgeService struct {
	store *store.BaseStore
	cache scoring.RankingCache
}

func NewJudgeService(s *store.BaseStore, cache scoring.RankingCache) *JudgeService {
	return &JudgeService{store: s, cache: cache}
}

func (s *JudgeService) Create(ctx context.Context, req *models.JudgeCreate) (*models.Judge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleJudge
	}

	judge, err := s.store.Judges.Create(ctx, store.Fields{
		"full_name":     req.FullName,
		"phone":         req.Phone,
		"email":         req.Email,
		"username":      req.Username,
		"password_hash": hash,
		"role":          role,
	})
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Registered %s %d (%s)", judge.Role, judge.ID, judge.Username)
	return judge, nil
}

func (s *JudgeService) Update(ctx context.Context, id int64, req *models.JudgeUpdate) (*models.Judge, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fields := req.Fields()
	if req.Password != nil {
		hash, err := hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = hash
	}
	return s.store.Judges.Update(ctx, id, fields)
}

func (s *JudgeService) Delete(ctx context.Context, id int64) error {
	teamRounds := scoreRounds(ctx, s.store, store.TeamScoresTable.Name, "judge_id = ?", id)
	memberRounds := scoreRounds(ctx, s.store, store.MemberScoresTable.Name, "judge_id = ?", id)

	if err := s.store.Judges.Delete(ctx, id); err != nil {
		return err
	}

	forgetRankings(ctx, s.cache, scoring.KindTeam, teamRounds)
	forgetRankings(ctx, s.cache, scoring.KindMember, memberRounds)
	return nil
}

func (s *JudgeService) Get(ctx context.Context, id int64) (*models.Judge, error) {
	return s.store.Judges.Get(ctx, id)
}

func (s *JudgeService) Search(ctx context.Context, term string, page models.Page) ([]models.Judge, models.Metadata, error) {
	f := store.NewFilter().Search(term, "full_name", "email", "phone", "username")
	return s.store.Judges.List(ctx, f, page)
}

// ListByRole lists admins when admins is set, regular judges otherwise.
func (s *JudgeService) ListByRole(ctx context.Context, admins bool, page models.Page) ([]models.Judge, models.Metadata, error) {
	f := store.NewFilter()
	if admins {
		f.Eq("role", models.RoleAdmin)
	} else {
		f.NotEq("role", models.RoleAdmin)
	}
	return s.store.Judges.List(ctx, f, page)
}

func (s *JudgeService) Authenticate(ctx context.Context, creds *models.Credentials) (*models.Judge, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	judge, err := s.store.Judges.FindOne(ctx, store.NewFilter().Eq("username", creds.Username))
	if err != nil {
		return nil, err
	}

	var hash *string
	if judge != nil {
		hash = &judge.PasswordHash
	}
	if err := checkPassword(hash, creds.Password); err != nil {
		logger.Debug.Printf("Failed judge login for %q", creds.Username)
		return nil, err
	}
	return judge, nil
}
