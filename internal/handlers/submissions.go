package handlers

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

const maxMultipartMemory = 32 << 20

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// multipartUploads opens the report_file and slide_file parts. The caller closes the returned files.
func multipartUploads(r *http.Request) (app.Uploads, []multipart.File, error) {
	var uploads app.Uploads
	var opened []multipart.File

	for _, part := range []struct {
		name string
		dst  **app.Upload
	}{
		{"report_file", &uploads.Report},
		{"slide_file", &uploads.Slide},
	} {
		file, header, err := r.FormFile(part.name)
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			closeAll(opened)
			return app.Uploads{}, nil, apperr.Wrap(apperr.Validation, err, "Invalid %s", part.name)
		}
		opened = append(opened, file)
		*part.dst = &app.Upload{Filename: header.Filename, Content: file}
	}
	return uploads, opened, nil
}

func closeAll(files []multipart.File) {
	for _, f := range files {
		f.Close()
	}
}

func parseForm(r *http.Request) error {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return apperr.Wrap(apperr.Validation, err, "Invalid multipart form")
	}
	return nil
}

// formValue reports whether the text field was sent at all.
func formValue(r *http.Request, name string) (string, bool) {
	values, present := r.MultipartForm.Value[name]
	if !present || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// optionalFormValue is nil when the text field was not sent.
func optionalFormValue(r *http.Request, name string) *string {
	v, present := formValue(r, name)
	if !present {
		return nil
	}
	return &v
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	q := app.SubmissionQuery{
		Term:   r.URL.Query().Get("search_term"),
		TeamID: teamID,
		Status: r.URL.Query().Get("status"),
	}
	submissions, meta, err := h.service.Submissions.Search(r.Context(), q, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, submissions, meta)
}

func (h *Handler) ListTeamSubmissions(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	submissions, err := h.service.Submissions.ListByTeam(r.Context(), teamID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, submissions)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	submission, err := h.service.Submissions.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, submission)
}

// CreateSubmission accepts JSON or a multipart form with optional report_file and slide_file parts.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	if !isMultipart(r) {
		var req models.SubmissionCreate
		if err := decode(r, &req); err != nil {
			fail(w, r, err)
			return
		}
		submission, err := h.service.Submissions.Create(r.Context(), &req)
		if err != nil {
			fail(w, r, err)
			return
		}
		created(w, submission)
		return
	}

	if err := parseForm(r); err != nil {
		fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	teamID, err := strconv.ParseInt(r.FormValue("team_id"), 10, 64)
	if err != nil {
		fail(w, r, apperr.Validationf("team_id is required"))
		return
	}

	req := models.SubmissionCreate{TeamID: teamID}
	req.ProjectTitle, _ = formValue(r, "project_title")
	req.Description, _ = formValue(r, "description")
	req.Technology, _ = formValue(r, "technology")
	req.VideoURL, _ = formValue(r, "video_url")
	req.SourceCodeURL, _ = formValue(r, "source_code_url")
	req.Status, _ = formValue(r, "status")

	uploads, opened, err := multipartUploads(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer closeAll(opened)

	submission, err := h.service.Submissions.CreateWithFiles(r.Context(), &req, uploads)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, submission)
}

func (h *Handler) UpdateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if !isMultipart(r) {
		var req models.SubmissionUpdate
		if err := decode(r, &req); err != nil {
			fail(w, r, err)
			return
		}
		submission, err := h.service.Submissions.Update(r.Context(), id, &req)
		if err != nil {
			fail(w, r, err)
			return
		}
		ok(w, submission)
		return
	}

	if err := parseForm(r); err != nil {
		fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	req := models.SubmissionUpdate{
		ProjectTitle:  optionalFormValue(r, "project_title"),
		Description:   optionalFormValue(r, "description"),
		Technology:    optionalFormValue(r, "technology"),
		VideoURL:      optionalFormValue(r, "video_url"),
		SourceCodeURL: optionalFormValue(r, "source_code_url"),
		Status:        optionalFormValue(r, "status"),
	}

	uploads, opened, err := multipartUploads(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer closeAll(opened)

	submission, err := h.service.Submissions.UpdateWithFiles(r.Context(), id, &req, uploads)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, submission)
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Submissions.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}
