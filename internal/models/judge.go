package models

const (
	RoleAdmin = "admin"
	RoleJudge = "judge"
)

type Judge struct {
	Record
	FullName     string `db:"full_name" json:"full_name"`
	Phone        string `db:"phone" json:"phone"`
	Email        string `db:"email" json:"email"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
}

func (Judge) TableName() string { return "judges" }

func (j *Judge) IsAdmin() bool {
	return j.Role == RoleAdmin
}

type JudgeCreate struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"max=30"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin judge"`
}

func (j *JudgeCreate) Validate() error {
	return check(j)
}

type JudgeUpdate struct {
	FullName *string `json:"full_name" validate:"omitnil,min=1,max=255"`
	Phone    *string `json:"phone" validate:"omitnil,max=30"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Username *string `json:"username" validate:"omitnil,min=3,max=100"`
	Password *string `json:"password" validate:"omitnil,min=6,max=72"`
	Role     *string `json:"role" validate:"omitnil,oneof=admin judge"`
}

func (j *JudgeUpdate) Validate() error {
	return check(j)
}

// Fields returns the columns present in the update. Password is hashed by the caller.
func (j *JudgeUpdate) Fields() map[string]any {
	p := patch{}
	p.set("full_name", j.FullName)
	p.set("phone", j.Phone)
	p.set("email", j.Email)
	p.set("username", j.Username)
	p.set("role", j.Role)
	return p
}
