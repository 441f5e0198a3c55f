package models

type Team struct {
	Record
	TeamName     string `db:"team_name" json:"team_name"`
	Slogan       string `db:"slogan" json:"slogan"`
	LogoURL      string `db:"logo_url" json:"logo_url"`
	MemberCount  int    `db:"member_count" json:"member_count"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

func (Team) TableName() string { return "teams" }

type TeamCreate struct {
	TeamName    string `json:"team_name" validate:"required,max=255"`
	Slogan      string `json:"slogan" validate:"max=500"`
	LogoURL     string `json:"logo_url" validate:"max=1024"`
	MemberCount int    `json:"member_count" validate:"gte=0"`
	Username    string `json:"username" validate:"required,min=3,max=100"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
}

func (t *TeamCreate) Validate() error {
	return check(t)
}

type TeamUpdate struct {
	TeamName    *string `json:"team_name" validate:"omitnil,min=1,max=255"`
	Slogan      *string `json:"slogan" validate:"omitnil,max=500"`
	LogoURL     *string `json:"logo_url" validate:"omitnil,max=1024"`
	MemberCount *int    `json:"member_count" validate:"omitnil,gte=0"`
	Username    *string `json:"username" validate:"omitnil,min=3,max=100"`
	Password    *string `json:"password" validate:"omitnil,min=6,max=72"`
}

func (t *TeamUpdate) Validate() error {
	return check(t)
}

// Fields returns the columns present in the update. Password is hashed by the caller.
func (t *TeamUpdate) Fields() map[string]any {
	p := patch{}
	p.set("team_name", t.TeamName)
	p.set("slogan", t.Slogan)
	p.set("logo_url", t.LogoURL)
	p.set("member_count", t.MemberCount)
	p.set("username", t.Username)
	return p
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate() error {
	return check(c)
}
