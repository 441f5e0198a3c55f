package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/cache"
	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/scoring"
	"github.com/shrimpsizemoose/semla/internal/store"
)

type Service struct {
	Config *Config
	Store  *store.BaseStore
	Files  *files.Store
	Cache  *cache.Rankings

	Teams        *TeamService
	Judges       *JudgeService
	Members      *MemberService
	Submissions  *SubmissionService
	Assignments  *AssignmentService
	Schedules    *ScheduleService
	TeamScores   *scoring.TeamScoreService
	MemberScores *scoring.MemberScoreService
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	ttl, err := config.CacheTTL()
	if err != nil {
		store.Close()
		return nil, err
	}
	rankings, err := cache.New(config.Cache.RedisURL, ttl)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init rankings cache: %w", err)
	}

	fileStore, err := files.New(config.Storage.DataDir, files.Options{
		MaxSize:           config.Storage.MaxFileSizeMB * 1024 * 1024,
		AllowedExtensions: config.Storage.AllowedExtensions,
		EnforceExtensions: config.Storage.EnforceExtensions,
	})
	if err != nil {
		store.Close()
		rankings.Close()
		return nil, fmt.Errorf("failed to init file storage: %w", err)
	}

	logger.Info.Printf("Storing submission files in %s, rankings cache enabled: %v", fileStore.Root(), rankings.Enabled())

	return New(config, store, fileStore, rankings), nil
}

// New wires the entity services around already opened dependencies.
func New(config *Config, s *store.BaseStore, fileStore *files.Store, rankings *cache.Rankings) *Service {
	return &Service{
		Config: config,
		Store:  s,
		Files:  fileStore,
		Cache:  rankings,

		Teams:        NewTeamService(s, fileStore, rankings),
		Judges:       NewJudgeService(s, rankings),
		Members:      NewMemberService(s, rankings),
		Submissions:  NewSubmissionService(s, fileStore),
		Assignments:  NewAssignmentService(s),
		Schedules:    NewScheduleService(s, config.SlotSeconds()),
		TeamScores:   scoring.NewTeamScoreService(s, rankings),
		MemberScores: scoring.NewMemberScoreService(s, rankings),
	}
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Cache.Close(); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}

// scoreRounds lists the distinct rounds of the score rows matching where, so cascaded
// deletes can drop the affected cached rankings.
func scoreRounds(ctx context.Context, s *store.BaseStore, table, where string, args ...any) []string {
	query := s.Converter(fmt.Sprintf(`SELECT DISTINCT round FROM %s WHERE %s`, table, where))

	var rounds []string
	if err := s.DB.SelectContext(ctx, &rounds, query, args...); err != nil {
		logger.Error.Printf("Failed to read rounds from %s: %v", table, err)
		return nil
	}
	return rounds
}

func forgetRankings(ctx context.Context, c scoring.RankingCache, kind string, rounds []string) {
	if c == nil {
		return
	}
	for _, round := range rounds {
		if err := c.Invalidate(ctx, kind, round); err != nil {
			logger.Error.Printf("Failed to invalidate %s rankings for round %s: %v", kind, round, err)
		}
	}
}
