package models

import "time"

const StatusSubmitted = "submitted"

type Submission struct {
	Record
	TeamID        int64     `db:"team_id" json:"team_id"`
	ProjectTitle  string    `db:"project_title" json:"project_title"`
	Description   string    `db:"description" json:"description"`
	Technology    string    `db:"technology" json:"technology"`
	ReportFile    string    `db:"report_file" json:"report_file"`
	SlideFile     string    `db:"slide_file" json:"slide_file"`
	VideoURL      string    `db:"video_url" json:"video_url"`
	SourceCodeURL string    `db:"source_code_url" json:"source_code_url"`
	Status        string    `db:"status" json:"status"`
	SubmittedAt   time.Time `db:"submitted_at" json:"submitted_at"`
}

func (Submission) TableName() string { return "submissions" }

// Files lists the stored file paths referenced by the submission.
func (s *Submission) Files() []string {
	var out []string
	for _, f := range []string{s.ReportFile, s.SlideFile} {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SubmissionCreate never decodes file paths from JSON. Only stored uploads set them.
type SubmissionCreate struct {
	TeamID        int64      `json:"team_id" validate:"required,gt=0"`
	ProjectTitle  string     `json:"project_title" validate:"max=255"`
	Description   string     `json:"description"`
	Technology    string     `json:"technology" validate:"max=255"`
	ReportFile    string     `json:"-" validate:"max=1024"`
	SlideFile     string     `json:"-" validate:"max=1024"`
	VideoURL      string     `json:"video_url" validate:"omitempty,url"`
	SourceCodeURL string     `json:"source_code_url" validate:"omitempty,url"`
	Status        string     `json:"status" validate:"max=50"`
	SubmittedAt   *time.Time `json:"submitted_at"`
}

func (s *SubmissionCreate) Validate() error {
	return check(s)
}

type SubmissionUpdate struct {
	ProjectTitle  *string    `json:"project_title" validate:"omitnil,max=255"`
	Description   *string    `json:"description"`
	Technology    *string    `json:"technology" validate:"omitnil,max=255"`
	ReportFile    *string    `json:"-" validate:"omitnil,max=1024"`
	SlideFile     *string    `json:"-" validate:"omitnil,max=1024"`
	VideoURL      *string    `json:"video_url" validate:"omitnil,omitempty,url"`
	SourceCodeURL *string    `json:"source_code_url" validate:"omitnil,omitempty,url"`
	Status        *string    `json:"status" validate:"omitnil,min=1,max=50"`
	SubmittedAt   *time.Time `json:"submitted_at"`
}

func (s *SubmissionUpdate) Validate() error {
	return check(s)
}

func (s *SubmissionUpdate) Fields() map[string]any {
	p := patch{}
	p.set("project_title", s.ProjectTitle)
	p.set("description", s.Description)
	p.set("technology", s.Technology)
	p.set("report_file", s.ReportFile)
	p.set("slide_file", s.SlideFile)
	p.set("video_url", s.VideoURL)
	p.set("source_code_url", s.SourceCodeURL)
	p.set("status", s.Status)
	p.set("submitted_at", s.SubmittedAt)
	return p
}

// TouchesArtifacts reports whether the update replaces any file or link.
func (s *SubmissionUpdate) TouchesArtifacts() bool {
	return s.ReportFile != nil || s.SlideFile != nil || s.VideoURL != nil || s.SourceCodeURL != nil
}
