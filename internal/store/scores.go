package store

import (
	"context"
	"fmt"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// TeamScoreAverage averages every criterion over the judges that scored the team in round.
// A team without scores gets all-zero averages and JudgeCount 0.
func (s *BaseStore) TeamScoreAverage(ctx context.Context, teamID int64, round string) (*models.TeamScoreAverage, error) {
	query := s.Converter(`
		SELECT
			COUNT(id) AS judge_count,
			COALESCE(AVG(creativity), 0) AS avg_creativity,
			COALESCE(AVG(feasibility), 0) AS avg_feasibility,
			COALESCE(AVG(ai_effectiveness), 0) AS avg_ai_effectiveness,
			COALESCE(AVG(presentation), 0) AS avg_presentation,
			COALESCE(AVG(social_impact), 0) AS avg_social_impact,
			COALESCE(AVG(total_score), 0) AS avg_total_score
		FROM team_scores
		WHERE team_id = ?
		AND round = ?
	`)

	var avg models.TeamScoreAverage
	if err := s.DB.GetContext(ctx, &avg, query, teamID, round); err != nil {
		return nil, fmt.Errorf("failed to average team scores: %w", err)
	}
	if avg.JudgeCount == 0 {
		avg = models.TeamScoreAverage{}
	}
	avg.TeamID = teamID
	avg.Round = round
	return &avg, nil
}

func (s *BaseStore) MemberScoreAverage(ctx context.Context, memberID int64, round string) (*models.MemberScoreAverage, error) {
	query := s.Converter(`
		SELECT
			COUNT(id) AS judge_count,
			COALESCE(AVG(skills_learning), 0) AS avg_skills_learning,
			COALESCE(AVG(inspiration), 0) AS avg_inspiration,
			COALESCE(AVG(total_score), 0) AS avg_total_score
		FROM member_scores
		WHERE team_member_id = ?
		AND round = ?
	`)

	var avg models.MemberScoreAverage
	if err := s.DB.GetContext(ctx, &avg, query, memberID, round); err != nil {
		return nil, fmt.Errorf("failed to average member scores: %w", err)
	}
	if avg.JudgeCount == 0 {
		avg = models.MemberScoreAverage{}
	}
	avg.TeamMemberID = memberID
	avg.Round = round
	return &avg, nil
}

// TeamRankings returns teams ordered by their average total score in round, best first.
func (s *BaseStore) TeamRankings(ctx context.Context, round string, limit int) ([]models.RankedSubject, error) {
	return s.rankings(ctx, TeamScoresTable.Name, "team_id", round, limit)
}

func (s *BaseStore) MemberRankings(ctx context.Context, round string, limit int) ([]models.RankedSubject, error) {
	return s.rankings(ctx, MemberScoresTable.Name, "team_member_id", round, limit)
}

func (s *BaseStore) rankings(ctx context.Context, table, subject, round string, limit int) ([]models.RankedSubject, error) {
	query := s.Converter(fmt.Sprintf(`
		SELECT
			%[2]s AS subject_id,
			AVG(total_score) AS average_score
		FROM %[1]s
		WHERE round = ?
		GROUP BY %[2]s
		ORDER BY average_score DESC
		LIMIT ?
	`, table, subject))

	rows := []models.RankedSubject{}
	if err := s.DB.SelectContext(ctx, &rows, query, round, limit); err != nil {
		return nil, fmt.Errorf("failed to rank %s: %w", table, err)
	}
	return rows, nil
}
