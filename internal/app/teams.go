package app

import (
	"context"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type TeamService struct {
	store *store.BaseStore
	files *files.Store
	cache scoring.RankingCache
}

func NewTeamService(s *store.BaseStore, fileStore *files.Store, cache scoring.RankingCache) *TeamService {
	return &TeamService{store: s, files: fileStore, cache: cache}
}

func (s *TeamService) Create(ctx context.Context, req *models.TeamCreate) (*models.Team, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	team, err := s.store.Teams.Create(ctx, store.Fields{
		"team_name":     req.TeamName,
		"slogan":        req.Slogan,
		"logo_url":      req.LogoURL,
		"member_count":  req.MemberCount,
		"username":      req.Username,
		"password_hash": hash,
	})
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Registered team %d (%s)", team.ID, team.Username)
	return team, nil
}

func (s *TeamService) Update(ctx context.Context, id int64, req *models.TeamUpdate) (*models.Team, error) {
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
	return s.store.Teams.Update(ctx, id, fields)
}

// Delete removes the team with everything that cascades from it, then its submission files.
func (s *TeamService) Delete(ctx context.Context, id int64) error {
	submission, err := s.store.Submissions.FindOne(ctx, store.NewFilter().Eq("team_id", id))
	if err != nil {
		return err
	}
	teamRounds := scoreRounds(ctx, s.store, store.TeamScoresTable.Name, "team_id = ?", id)
	memberRounds := scoreRounds(ctx, s.store, store.MemberScoresTable.Name,
		"team_member_id IN (SELECT id FROM team_members WHERE team_id = ?)", id)

	if err := s.store.Teams.Delete(ctx, id); err != nil {
		return err
	}

	if submission != nil && s.files != nil {
		for _, path := range submission.Files() {
			s.files.Delete(path)
		}
	}
	forgetRankings(ctx, s.cache, scoring.KindTeam, teamRounds)
	forgetRankings(ctx, s.cache, scoring.KindMember, memberRounds)

	logger.Info.Printf("Deleted team %d", id)
	return nil
}

func (s *TeamService) Get(ctx context.Context, id int64) (*models.Team, error) {
	return s.store.Teams.Get(ctx, id)
}

func (s *TeamService) Search(ctx context.Context, term string, page models.Page) ([]models.Team, models.Metadata, error) {
	f := store.NewFilter().Search(term, "team_name", "slogan", "username")
	return s.store.Teams.List(ctx, f, page)
}

// Authenticate never tells an unknown username apart from a wrong password.
func (s *TeamService) Authenticate(ctx context.Context, creds *models.Credentials) (*models.Team, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	team, err := s.store.Teams.FindOne(ctx, store.NewFilter().Eq("username", creds.Username))
	if err != nil {
		return nil, err
	}

	var hash *string
	if team != nil {
		hash = &team.PasswordHash
	}
	if err := checkPassword(hash, creds.Password); err != nil {
		logger.Debug.Printf("Failed team login for %q", creds.Username)
		return nil, err
	}
	return team, nil
}
