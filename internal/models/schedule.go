package models

type JudgeAssignment struct {
	Record
	JudgeID int64  `db:"judge_id" json:"judge_id"`
	TeamID  int64  `db:"team_id" json:"team_id"`
	Round   string `db:"round" json:"round"`
}

func (JudgeAssignment) TableName() string { return "judge_assignments" }

type JudgeAssignmentCreate struct {
	JudgeID int64  `json:"judge_id" validate:"required,gt=0"`
	TeamID  int64  `json:"team_id" validate:"required,gt=0"`
	Round   string `json:"round" validate:"required,max=50"`
}

func (a *JudgeAssignmentCreate) Validate() error {
	return check(a)
}

type JudgeAssignmentUpdate struct {
	Round *string `json:"round" validate:"omitnil,min=1,max=50"`
}

func (a *JudgeAssignmentUpdate) Validate() error {
	return check(a)
}

// Schedule.DateTime is a unix timestamp in seconds.
type Schedule struct {
	Record
	TeamID   *int64  `db:"team_id" json:"team_id"`
	Round    string  `db:"round" json:"round"`
	DateTime float64 `db:"date_time" json:"date_time"`
	Location string  `db:"location" json:"location"`
	Note     string  `db:"note" json:"note"`
}

func (Schedule) TableName() string { return "schedules" }

type ScheduleCreate struct {
	TeamID   *int64  `json:"team_id" validate:"omitnil,gt=0"`
	Round    string  `json:"round" validate:"required,max=50"`
	DateTime float64 `json:"date_time" validate:"required,gt=0"`
	Location string  `json:"location" validate:"required,max=255"`
	Note     string  `json:"note"`
}

func (s *ScheduleCreate) Validate() error {
	return check(s)
}

type ScheduleUpdate struct {
	TeamID   *int64   `json:"team_id" validate:"omitnil,gt=0"`
	Round    *string  `json:"round" validate:"omitnil,min=1,max=50"`
	DateTime *float64 `json:"date_time" validate:"omitnil,gt=0"`
	Location *string  `json:"location" validate:"omitnil,min=1,max=255"`
	Note     *string  `json:"note"`
}

func (s *ScheduleUpdate) Validate() error {
	return check(s)
}

func (s *ScheduleUpdate) Fields() map[string]any {
	p := patch{}
	p.set("team_id", s.TeamID)
	p.set("round", s.Round)
	p.set("date_time", s.DateTime)
	p.set("location", s.Location)
	p.set("note", s.Note)
	return p
}
