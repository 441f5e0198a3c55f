package app

import (
	"context"
	"io"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

// Upload is one file part of a multipart submission.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Uploads holds the optional report and slide files of a submission request.
type Uploads struct {
	Report *Upload
	Slide  *Upload
}

type SubmissionQuery struct {
	Term   string
	TeamID int64
	Status string
}

type SubmissionService struct {
	store *store.BaseStore
	files *files.Store
	now   func() time.Time
}

func NewSubmissionService(s *store.BaseStore, fileStore *files.Store) *SubmissionService {
	return &SubmissionService{
		store: s,
		files: fileStore,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (s *SubmissionService) Create(ctx context.Context, req *models.SubmissionCreate) (*models.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Teams.Get(ctx, req.TeamID); err != nil {
		return nil, err
	}
	return s.insert(ctx, req)
}

func (s *SubmissionService) insert(ctx context.Context, req *models.SubmissionCreate) (*models.Submission, error) {
	status := req.Status
	if status == "" {
		status = models.StatusSubmitted
	}
	submittedAt := s.now()
	if req.SubmittedAt != nil {
		submittedAt = req.SubmittedAt.UTC()
	}

	submission, err := s.store.Submissions.Create(ctx, store.Fields{
		"team_id":         req.TeamID,
		"project_title":   req.ProjectTitle,
		"description":     req.Description,
		"technology":      req.Technology,
		"report_file":     req.ReportFile,
		"slide_file":      req.SlideFile,
		"video_url":       req.VideoURL,
		"source_code_url": req.SourceCodeURL,
		"status":          status,
		"submitted_at":    submittedAt,
	})
	if err != nil {
		return nil, err
	}

	logger.Info.Printf("Team %d submitted %q", submission.TeamID, submission.ProjectTitle)
	return submission, nil
}

// Update refreshes submitted_at whenever a file or link changes, unless the caller sets it.
func (s *SubmissionService) Update(ctx context.Context, id int64, req *models.SubmissionUpdate) (*models.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.store.Submissions.Update(ctx, id, s.updateFields(req))
}

func (s *SubmissionService) updateFields(req *models.SubmissionUpdate) store.Fields {
	fields := req.Fields()
	if req.TouchesArtifacts() && req.SubmittedAt == nil {
		fields["submitted_at"] = s.now()
	}
	return fields
}

// CreateWithFiles stores the uploads and creates the submission. A team that already
// submitted gets its submission updated instead.
func (s *SubmissionService) CreateWithFiles(ctx context.Context, req *models.SubmissionCreate, uploads Uploads) (*models.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Teams.Get(ctx, req.TeamID); err != nil {
		return nil, err
	}

	existing, err := s.store.Submissions.FindOne(ctx, store.NewFilter().Eq("team_id", req.TeamID))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Debug.Printf("Team %d already has submission %d, updating it", req.TeamID, existing.ID)
		return s.UpdateWithFiles(ctx, existing.ID, createAsUpdate(req), uploads)
	}

	saved, err := s.save(req.TeamID, uploads)
	if err != nil {
		return nil, err
	}
	if saved.report != "" {
		req.ReportFile = saved.report
	}
	if saved.slide != "" {
		req.SlideFile = saved.slide
	}

	submission, err := s.insert(ctx, req)
	if err != nil {
		saved.discard(s.files)
		return nil, err
	}
	return submission, nil
}

// UpdateWithFiles stores the uploads, updates the row and only then removes the files it replaced.
// If the update fails the new files are removed and the old ones stay referenced.
func (s *SubmissionService) UpdateWithFiles(ctx context.Context, id int64, req *models.SubmissionUpdate, uploads Uploads) (*models.Submission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.store.Submissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	saved, err := s.save(current.TeamID, uploads)
	if err != nil {
		return nil, err
	}
	if saved.report != "" {
		req.ReportFile = &saved.report
	}
	if saved.slide != "" {
		req.SlideFile = &saved.slide
	}

	updated, err := s.store.Submissions.Update(ctx, id, s.updateFields(req))
	if err != nil {
		saved.discard(s.files)
		return nil, err
	}

	for _, old := range []string{current.ReportFile, current.SlideFile} {
		if old != "" && old != updated.ReportFile && old != updated.SlideFile {
			s.files.Delete(old)
		}
	}
	return updated, nil
}

// Delete removes the row first and its files after.
func (s *SubmissionService) Delete(ctx context.Context, id int64) error {
	submission, err := s.store.Submissions.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Submissions.Delete(ctx, id); err != nil {
		return err
	}
	for _, path := range submission.Files() {
		s.files.Delete(path)
	}
	return nil
}

func (s *SubmissionService) Get(ctx context.Context, id int64) (*models.Submission, error) {
	return s.store.Submissions.Get(ctx, id)
}

func (s *SubmissionService) Search(ctx context.Context, q SubmissionQuery, page models.Page) ([]models.Submission, models.Metadata, error) {
	f := store.NewFilter().
		Search(q.Term, "project_title", "technology", "report_file", "slide_file", "video_url", "source_code_url", "status").
		EqIf(q.TeamID > 0, "team_id", q.TeamID).
		EqIf(q.Status != "", "status", q.Status)
	return s.store.Submissions.List(ctx, f, page)
}

func (s *SubmissionService) ListByTeam(ctx context.Context, teamID int64) ([]models.Submission, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.Submissions.Find(ctx, store.NewFilter().Eq("team_id", teamID), "submitted_at DESC")
}

type savedFiles struct {
	report string
	slide  string
}

func (f savedFiles) discard(fileStore *files.Store) {
	for _, path := range []string{f.report, f.slide} {
		if path != "" {
			fileStore.Delete(path)
		}
	}
}

func (s *SubmissionService) save(teamID int64, uploads Uploads) (savedFiles, error) {
	var saved savedFiles

	if uploads.Report != nil {
		path, err := s.files.Save(teamID, files.KindReport, uploads.Report.Filename, uploads.Report.Content)
		if err != nil {
			return saved, err
		}
		saved.report = path
	}

	if uploads.Slide != nil {
		path, err := s.files.Save(teamID, files.KindSlide, uploads.Slide.Filename, uploads.Slide.Content)
		if err != nil {
			saved.discard(s.files)
			return savedFiles{}, err
		}
		saved.slide = path
	}

	return saved, nil
}

// createAsUpdate keeps the non-empty fields of a create request.
func createAsUpdate(req *models.SubmissionCreate) *models.SubmissionUpdate {
	nonEmpty := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	return &models.SubmissionUpdate{
		ProjectTitle:  nonEmpty(req.ProjectTitle),
		Description:   nonEmpty(req.Description),
		Technology:    nonEmpty(req.Technology),
		ReportFile:    nonEmpty(req.ReportFile),
		SlideFile:     nonEmpty(req.SlideFile),
		VideoURL:      nonEmpty(req.VideoURL),
		SourceCodeURL: nonEmpty(req.SourceCodeURL),
		Status:        nonEmpty(req.Status),
		SubmittedAt:   req.SubmittedAt,
	}
}
