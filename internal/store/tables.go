package store

import "github.com/shrimpsizemoose/semla/internal/apperr"

var timestamps = []string{"id", "created_at", "updated_at"}

func sortable(cols ...string) []string {
	return append(append([]string{}, timestamps...), cols...)
}

var TeamsTable = Table{
	Name:     "teams",
	Label:    "Team",
	Columns:  []string{"team_name", "slogan", "logo_url", "member_count", "username", "password_hash"},
	Sortable: sortable("team_name", "member_count", "username"),
	Unique: []UniqueKey{
		{Name: "teams_username_key", Columns: []string{"username"}, Kind: apperr.AlreadyExists, Message: "Username already exists"},
	},
}

var TeamMembersTable = Table{
	Name:  "team_members",
	Label: "Team member",
	Columns: []string{
		"team_id", "full_name", "student_code", "student_batch", "class_code",
		"email", "phone", "is_leader", "avatar_url",
	},
	Sortable: sortable("team_id", "full_name", "student_code", "student_batch", "class_code", "email", "is_leader"),
	Unique: []UniqueKey{
		{Name: "team_members_student_code_key", Columns: []string{"student_code"}, Kind: apperr.AlreadyExists, Message: "Student code already exists"},
		{Name: "team_members_email_key", Columns: []string{"email"}, Kind: apperr.AlreadyExists, Message: "Email already exists"},
		{Name: "team_members_leader_key", Columns: []string{"team_id"}, Kind: apperr.Validation, Message: "Team already has a leader"},
	},
}

var JudgesTable = Table{
	Name:     "judges",
	Label:    "Judge",
	Columns:  []string{"full_name", "phone", "email", "username", "password_hash", "role"},
	Sortable: sortable("full_name", "email", "username", "role"),
	Unique: []UniqueKey{
		{Name: "judges_username_key", Columns: []string{"username"}, Kind: apperr.AlreadyExists, Message: "Username already exists"},
		{Name: "judges_email_key", Columns: []string{"email"}, Kind: apperr.AlreadyExists, Message: "Email already exists"},
	},
}

var SubmissionsTable = Table{
	Name:  "submissions",
	Label: "Submission",
	Columns: []string{
		"team_id", "project_title", "description", "technology", "report_file",
		"slide_file", "video_url", "source_code_url", "status", "submitted_at",
	},
	Sortable: sortable("team_id", "project_title", "status", "submitted_at"),
	Unique: []UniqueKey{
		{Name: "submissions_team_key", Columns: []string{"team_id"}, Kind: apperr.AlreadyExists, Message: "Team already has a submission"},
	},
}

var TeamScoresTable = Table{
	Name:  "team_scores",
	Label: "Team score",
	Columns: []string{
		"team_id", "judge_id", "round", "creativity", "feasibility", "ai_effectiveness",
		"presentation", "social_impact", "total_score", "comment",
	},
	Sortable: sortable("team_id", "judge_id", "round", "total_score"),
	Unique: []UniqueKey{
		{
			Name:    "team_scores_team_judge_round_key",
			Columns: []string{"team_id", "judge_id", "round"},
			Kind:    apperr.AlreadyExists,
			Message: "Judge has already scored this team in this round",
		},
	},
}

var MemberScoresTable = Table{
	Name:  "member_scores",
	Label: "Member score",
	Columns: []string{
		"team_member_id", "judge_id", "round", "skills_learning", "inspiration", "total_score", "comment",
	},
	Sortable: sortable("team_member_id", "judge_id", "round", "total_score"),
	Unique: []UniqueKey{
		{
			Name:    "member_scores_member_judge_round_key",
			Columns: []string{"team_member_id", "judge_id", "round"},
			Kind:    apperr.AlreadyExists,
			Message: "Judge has already scored this member in this round",
		},
	},
}

var JudgeAssignmentsTable = Table{
	Name:     "judge_assignments",
	Label:    "Judge assignment",
	Columns:  []string{"judge_id", "team_id", "round"},
	Sortable: sortable("judge_id", "team_id", "round"),
	Unique: []UniqueKey{
		{
			Name:    "judge_assignments_judge_team_round_key",
			Columns: []string{"judge_id", "team_id", "round"},
			Kind:    apperr.AlreadyExists,
			Message: "Judge is already assigned to this team in this round",
		},
	},
}

var SchedulesTable = Table{
	Name:     "schedules",
	Label:    "Schedule",
	Columns:  []string{"team_id", "round", "date_time", "location", "note"},
	Sortable: sortable("team_id", "round", "date_time", "location"),
	Unique: []UniqueKey{
		{Name: "schedules_team_round_key", Columns: []string{"team_id", "round"}, Kind: apperr.AlreadyExists, Message: "Team already has a schedule for this round"},
	},
}
