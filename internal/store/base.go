package store

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
	Classify  func(error) Violation
	// SlotLock takes a transaction-scoped lock on a schedule location, bound to one placeholder.
	SlotLock string

	Teams        *Repository[models.Team]
	TeamMembers  *Repository[models.TeamMember]
	Judges       *Repository[models.Judge]
	Submissions  *Repository[models.Submission]
	TeamScores   *Repository[models.TeamScore]
	MemberScores *Repository[models.MemberScore]
	Assignments  *Repository[models.JudgeAssignment]
	Schedules    *Repository[models.Schedule]
}

func NewBaseStore(db *sqlx.DB, converter func(string) string, classify func(error) Violation) BaseStore {
	s := BaseStore{
		DB:        db,
		Converter: converter,
		Classify:  classify,
	}

	ex := s.executor()
	s.Teams = newRepository[models.Team](ex, TeamsTable)
	s.TeamMembers = newRepository[models.TeamMember](ex, TeamMembersTable)
	s.Judges = newRepository[models.Judge](ex, JudgesTable)
	s.Submissions = newRepository[models.Submission](ex, SubmissionsTable)
	s.TeamScores = newRepository[models.TeamScore](ex, TeamScoresTable)
	s.MemberScores = newRepository[models.MemberScore](ex, MemberScoresTable)
	s.Assignments = newRepository[models.JudgeAssignment](ex, JudgeAssignmentsTable)
	s.Schedules = newRepository[models.Schedule](ex, SchedulesTable)

	return s
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from fsys in name order, translating dialect if needed
func (s *BaseStore) ApplyMigrations(fsys fs.FS, translateSQL func(string) string) error {
	files, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := fs.ReadFile(fsys, file.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		logger.Debug.Printf("Applying migration: %s", file.Name())
		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) executor() executor {
	return executor{db: s.DB, rebind: s.Converter, classify: s.Classify}
}

type executor struct {
	db       *sqlx.DB
	rebind   func(string) string
	classify func(error) Violation
}

// mapError turns constraint violations into typed errors and wraps everything else.
func (e executor) mapError(t Table, err error, action string) error {
	v := Violation{}
	if e.classify != nil {
		v = e.classify(err)
	}

	switch v.Kind {
	case UniqueViolation:
		for _, key := range t.Unique {
			if key.matches(t.Name, v.Constraint) {
				return apperr.Wrap(key.Kind, err, "%s", key.Message)
			}
		}
		return apperr.Wrap(apperr.AlreadyExists, err, "%s already exists", t.Label)
	case ForeignKeyViolation:
		return apperr.Wrap(apperr.NotFound, err, "Referenced record for %s not found", strings.ToLower(t.Label))
	}

	return fmt.Errorf("failed to %s %s: %w", action, t.Name, err)
}
