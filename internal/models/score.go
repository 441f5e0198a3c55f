package models

type TeamScore struct {
	Record
	TeamID          int64   `db:"team_id" json:"team_id"`
	JudgeID         int64   `db:"judge_id" json:"judge_id"`
	Round           string  `db:"round" json:"round"`
	Creativity      float64 `db:"creativity" json:"creativity"`
	Feasibility     float64 `db:"feasibility" json:"feasibility"`
	AIEffectiveness float64 `db:"ai_effectiveness" json:"ai_effectiveness"`
	Presentation    float64 `db:"presentation" json:"presentation"`
	SocialImpact    float64 `db:"social_impact" json:"social_impact"`
	TotalScore      float64 `db:"total_score" json:"total_score"`
	Comment         string  `db:"comment" json:"comment"`
}

func (TeamScore) TableName() string { return "team_scores" }

func (s *TeamScore) Components() map[string]float64 {
	return map[string]float64{
		"creativity":       s.Creativity,
		"feasibility":      s.Feasibility,
		"ai_effectiveness": s.AIEffectiveness,
		"presentation":     s.Presentation,
		"social_impact":    s.SocialImpact,
	}
}

type TeamScoreCreate struct {
	TeamID          int64    `json:"team_id" validate:"required,gt=0"`
	JudgeID         int64    `json:"judge_id" validate:"required,gt=0"`
	Round           string   `json:"round" validate:"required,max=50"`
	Creativity      *float64 `json:"creativity" validate:"required"`
	Feasibility     *float64 `json:"feasibility" validate:"required"`
	AIEffectiveness *float64 `json:"ai_effectiveness" validate:"required"`
	Presentation    *float64 `json:"presentation" validate:"required"`
	SocialImpact    *float64 `json:"social_impact" validate:"required"`
	TotalScore      *float64 `json:"total_score"`
	Comment         string   `json:"comment"`
}

func (s *TeamScoreCreate) Validate() error {
	return check(s)
}

// Components must only be called after Validate succeeded.
func (s *TeamScoreCreate) Components() map[string]float64 {
	return map[string]float64{
		"creativity":       *s.Creativity,
		"feasibility":      *s.Feasibility,
		"ai_effectiveness": *s.AIEffectiveness,
		"presentation":     *s.Presentation,
		"social_impact":    *s.SocialImpact,
	}
}

type TeamScoreUpdate struct {
	Creativity      *float64 `json:"creativity"`
	Feasibility     *float64 `json:"feasibility"`
	AIEffectiveness *float64 `json:"ai_effectiveness"`
	Presentation    *float64 `json:"presentation"`
	SocialImpact    *float64 `json:"social_impact"`
	TotalScore      *float64 `json:"total_score"`
	Comment         *string  `json:"comment"`
}

// Components returns only the rubric criteria present in the update.
func (s *TeamScoreUpdate) Components() map[string]float64 {
	out := map[string]float64{}
	for name, v := range map[string]*float64{
		"creativity":       s.Creativity,
		"feasibility":      s.Feasibility,
		"ai_effectiveness": s.AIEffectiveness,
		"presentation":     s.Presentation,
		"social_impact":    s.SocialImpact,
	} {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}

type MemberScore struct {
	Record
	TeamMemberID   int64   `db:"team_member_id" json:"team_member_id"`
	JudgeID        int64   `db:"judge_id" json:"judge_id"`
	Round          string  `db:"round" json:"round"`
	SkillsLearning float64 `db:"skills_learning" json:"skills_learning"`
	Inspiration    float64 `db:"inspiration" json:"inspiration"`
	TotalScore     float64 `db:"total_score" json:"total_score"`
	Comment        string  `db:"comment" json:"comment"`
}

func (MemberScore) TableName() string { return "member_scores" }

func (s *MemberScore) Components() map[string]float64 {
	return map[string]float64{
		"skills_learning": s.SkillsLearning,
		"inspiration":     s.Inspiration,
	}
}

type MemberScoreCreate struct {
	TeamMemberID   int64    `json:"team_member_id" validate:"required,gt=0"`
	JudgeID        int64    `json:"judge_id" validate:"required,gt=0"`
	Round          string   `json:"round" validate:"required,max=50"`
	SkillsLearning *float64 `json:"skills_learning" validate:"required"`
	Inspiration    *float64 `json:"inspiration" validate:"required"`
	TotalScore     *float64 `json:"total_score"`
	Comment        string   `json:"comment"`
}

func (s *MemberScoreCreate) Validate() error {
	return check(s)
}

func (s *MemberScoreCreate) Components() map[string]float64 {
	return map[string]float64{
		"skills_learning": *s.SkillsLearning,
		"inspiration":     *s.Inspiration,
	}
}

type MemberScoreUpdate struct {
	SkillsLearning *float64 `json:"skills_learning"`
	Inspiration    *float64 `json:"inspiration"`
	TotalScore     *float64 `json:"total_score"`
	Comment        *string  `json:"comment"`
}

func (s *MemberScoreUpdate) Components() map[string]float64 {
	out := map[string]float64{}
	if s.SkillsLearning != nil {
		out["skills_learning"] = *s.SkillsLearning
	}
	if s.Inspiration != nil {
		out["inspiration"] = *s.Inspiration
	}
	return out
}

type TeamScoreAverage struct {
	TeamID          int64   `db:"-" json:"team_id"`
	Round           string  `db:"-" json:"round"`
	Creativity      float64 `db:"avg_creativity" json:"avg_creativity"`
	Feasibility     float64 `db:"avg_feasibility" json:"avg_feasibility"`
	AIEffectiveness float64 `db:"avg_ai_effectiveness" json:"avg_ai_effectiveness"`
	Presentation    float64 `db:"avg_presentation" json:"avg_presentation"`
	SocialImpact    float64 `db:"avg_social_impact" json:"avg_social_impact"`
	TotalScore      float64 `db:"avg_total_score" json:"avg_total_score"`
	JudgeCount      int64   `db:"judge_count" json:"judge_count"`
}

type MemberScoreAverage struct {
	TeamMemberID   int64   `db:"-" json:"team_member_id"`
	Round          string  `db:"-" json:"round"`
	SkillsLearning float64 `db:"avg_skills_learning" json:"avg_skills_learning"`
	Inspiration    float64 `db:"avg_inspiration" json:"avg_inspiration"`
	TotalScore     float64 `db:"avg_total_score" json:"avg_total_score"`
	JudgeCount     int64   `db:"judge_count" json:"judge_count"`
}

type TeamRanking struct {
	Rank         int     `json:"rank"`
	TeamID       int64   `json:"team_id"`
	AverageScore float64 `json:"average_score"`
}

type MemberRanking struct {
	Rank         int     `json:"rank"`
	TeamMemberID int64   `json:"team_member_id"`
	AverageScore float64 `json:"average_score"`
}

// RankedSubject is a raw ranking row before ranks are assigned.
type RankedSubject struct {
	SubjectID    int64   `db:"subject_id"`
	AverageScore float64 `db:"average_score"`
}
