package models

type TeamMember struct {
	Record
	TeamID       int64  `db:"team_id" json:"team_id"`
	FullName     string `db:"full_name" json:"full_name"`
	StudentCode  string `db:"student_code" json:"student_code"`
	StudentBatch string `db:"student_batch" json:"student_batch"`
	ClassCode    string `db:"class_code" json:"class_code"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone"`
	IsLeader     bool   `db:"is_leader" json:"is_leader"`
	AvatarURL    string `db:"avatar_url" json:"avatar_url"`
}

func (TeamMember) TableName() string { return "team_members" }

type TeamMemberCreate struct {
	TeamID       int64  `json:"team_id" validate:"required,gt=0"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	StudentCode  string `json:"student_code" validate:"required,max=50"`
	StudentBatch string `json:"student_batch" validate:"required,max=20"`
	ClassCode    string `json:"class_code" validate:"required,max=20"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=30"`
	IsLeader     bool   `json:"is_leader"`
	AvatarURL    string `json:"avatar_url" validate:"max=1024"`
}

func (m *TeamMemberCreate) Validate() error {
	return check(m)
}

func (m *TeamMemberCreate) Fields() map[string]any {
	return map[string]any{
		"team_id":       m.TeamID,
		"full_name":     m.FullName,
		"student_code":  m.StudentCode,
		"student_batch": m.StudentBatch,
		"class_code":    m.ClassCode,
		"email":         m.Email,
		"phone":         m.Phone,
		"is_leader":     m.IsLeader,
		"avatar_url":    m.AvatarURL,
	}
}

type TeamMemberUpdate struct {
	FullName     *string `json:"full_name" validate:"omitnil,min=1,max=255"`
	StudentCode  *string `json:"student_code" validate:"omitnil,min=1,max=50"`
	StudentBatch *string `json:"student_batch" validate:"omitnil,min=1,max=20"`
	ClassCode    *string `json:"class_code" validate:"omitnil,min=1,max=20"`
	Email        *string `json:"email" validate:"omitnil,email"`
	Phone        *string `json:"phone" validate:"omitnil,max=30"`
	IsLeader     *bool   `json:"is_leader"`
	AvatarURL    *string `json:"avatar_url" validate:"omitnil,max=1024"`
}

func (m *TeamMemberUpdate) Validate() error {
	return check(m)
}

func (m *TeamMemberUpdate) Fields() map[string]any {
	p := patch{}
	p.set("full_name", m.FullName)
	p.set("student_code", m.StudentCode)
	p.set("student_batch", m.StudentBatch)
	p.set("class_code", m.ClassCode)
	p.set("email", m.Email)
	p.set("phone", m.Phone)
	p.set("is_leader", m.IsLeader)
	p.set("avatar_url", m.AvatarURL)
	return p
}
