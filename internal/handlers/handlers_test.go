package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
	"github.com/shrimpsizemoose/semla/migrations"
)

type response struct {
	HTTPCode int             `json:"http_code"`
	Data     json.RawMessage `json:"data"`
	Metadata *struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Size  int   `json:"size"`
	} `json:"metadata"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	service *app.Service
	headers map[string]string
}

func newTestServer(t *testing.T, configure func(*app.Config)) *testServer {
	s, err := sqlite.NewSQLiteStore(":memory:", migrations.FS)
	require.NoError(t, err)

	fileStore, err := files.New(t.TempDir(), files.Options{})
	require.NoError(t, err)

	config := &app.Config{}
	config.Server.Port = ":0"
	if configure != nil {
		configure(config)
	}

	service := app.New(config, &s.BaseStore, fileStore, nil)
	t.Cleanup(func() { service.Close() })

	return &testServer{
		t:       t,
		handler: NewHandler(service).Routes(),
		service: service,
		headers: map[string]string{},
	}
}

func (ts *testServer) do(method, path string, body io.Reader, contentType string) (*httptest.ResponseRecorder, response) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range ts.headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp response
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(ts.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func (ts *testServer) json(method, path string, body any) (*httptest.ResponseRecorder, response) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	}
	return ts.do(method, path, reader, "application/json")
}

func (ts *testServer) createID(path string, body any) int64 {
	rec, resp := ts.json(http.MethodPost, path, body)
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	var row struct {
		ID int64 `json:"id"`
	}
	require.NoError(ts.t, json.Unmarshal(resp.Data, &row))
	return row.ID
}

func TestTeamRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	team := map[string]any{"team_name": "Rockets", "username": "rockets", "password": "hunter22"}

	rec, resp := ts.json(http.MethodPost, "/api/v1/teams", team)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, http.StatusCreated, resp.HTTPCode)
	assert.NotContains(t, string(resp.Data), "password")

	rec, resp = ts.json(http.MethodPost, "/api/v1/teams", team)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", resp.Kind)
	assert.Equal(t, "Username already exists", resp.Detail)

	rec, resp = ts.json(http.MethodPost, "/api/v1/teams", map[string]any{"team_name": "No login"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Kind)

	rec, resp = ts.json(http.MethodGet, "/api/v1/teams?search_term=rock&page=1&size=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Metadata)
	assert.Equal(t, int64(1), resp.Metadata.Total)
	assert.Equal(t, 5, resp.Metadata.Size)

	rec, resp = ts.json(http.MethodGet, "/api/v1/teams?sort_by=password_hash", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Kind)

	rec, _ = ts.json(http.MethodPost, "/api/v1/teams/authenticate", map[string]string{"username": "rockets", "password": "hunter22"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, resp = ts.json(http.MethodPost, "/api/v1/teams/authenticate", map[string]string{"username": "rockets", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Kind)

	rec, _ = ts.json(http.MethodGet, "/api/v1/teams/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.json(http.MethodDelete, "/api/v1/teams/1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec, resp = ts.json(http.MethodDelete, "/api/v1/teams/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Kind)
}

func TestRequiredHeaders(t *testing.T) {
	ts := newTestServer(t, func(c *app.Config) {
		c.API.RequiredHeaders = []app.HeaderConfig{{Name: "X-Hackathon", Value: "semla"}}
	})

	rec, resp := ts.json(http.MethodGet, "/api/v1/teams", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Kind)

	rec, _ = ts.json(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "health checks skip the header gate")

	ts.headers["X-Hackathon"] = "semla"
	rec, _ = ts.json(http.MethodGet, "/api/v1/teams", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScoreRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	var teams []int64
	for _, name := range []string{"alpha", "bravo", "charlie"} {
		teams = append(teams, ts.createID("/api/v1/teams", map[string]any{"team_name": name, "username": name, "password": "secret1"}))
	}
	judge := ts.createID("/api/v1/judges", map[string]any{
		"full_name": "Ada", "email": "ada@jury.test", "username": "ada", "password": "secret1",
	})

	score := func(team int64, c, f, a, p, s float64) map[string]any {
		return map[string]any{
			"team_id": team, "judge_id": judge, "round": "final",
			"creativity": c, "feasibility": f, "ai_effectiveness": a, "presentation": p, "social_impact": s,
		}
	}

	rec, resp := ts.json(http.MethodPost, "/api/v1/team-scores", score(teams[0], 30, 0, 0, 0, 0))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "creativity must be between 0 and 25", resp.Detail)

	first := ts.createID("/api/v1/team-scores", score(teams[0], 25, 25, 20, 10, 10))
	ts.createID("/api/v1/team-scores", score(teams[1], 20, 20, 15, 15, 10))
	ts.createID("/api/v1/team-scores", score(teams[2], 25, 25, 20, 15, 10))

	rec, resp = ts.json(http.MethodGet, "/api/v1/team-scores/rankings/final", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rankings []struct {
		Rank         int     `json:"rank"`
		TeamID       int64   `json:"team_id"`
		AverageScore float64 `json:"average_score"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &rankings))
	require.Len(t, rankings, 3)
	assert.Equal(t, []int64{teams[2], teams[0], teams[1]}, []int64{rankings[0].TeamID, rankings[1].TeamID, rankings[2].TeamID})
	assert.Equal(t, 1, rankings[0].Rank)

	rec, resp = ts.json(http.MethodPut, fmt.Sprintf("/api/v1/team-scores/%d", first), map[string]any{"presentation": 15})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated struct {
		TotalScore float64 `json:"total_score"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, 95.0, updated.TotalScore)

	rec, resp = ts.json(http.MethodGet, fmt.Sprintf("/api/v1/team-scores/team/%d/average/semifinal", teams[0]), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(resp.Data), `"judge_count":0`)

	rec, _ = ts.json(http.MethodGet, fmt.Sprintf("/api/v1/team-scores/judge/%d?round=final", judge), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	const start = 1717232400.0
	ts.createID("/api/v1/schedules", map[string]any{"round": "final", "date_time": start, "location": "Hall A"})

	rec, resp := ts.json(http.MethodPost, "/api/v1/schedules", map[string]any{"round": "final", "date_time": start + 15*60, "location": "Hall A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Kind)

	ts.createID("/api/v1/schedules", map[string]any{"round": "final", "date_time": start + 45*60, "location": "Hall A"})

	rec, resp = ts.json(http.MethodGet, "/api/v1/schedules/location/Hall%20A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var schedules []map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &schedules))
	assert.Len(t, schedules, 2)
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][2]string) (io.Reader, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, file := range files {
		part, err := mw.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSubmissionUploads(t *testing.T) {
	ts := newTestServer(t, nil)
	team := ts.createID("/api/v1/teams", map[string]any{"team_name": "alpha", "username": "alpha", "password": "secret1"})

	body, contentType := multipartBody(t,
		map[string]string{"team_id": fmt.Sprint(team), "project_title": "Semla"},
		map[string][2]string{"report_file": {"report.pdf", "v1"}})
	rec, resp := ts.do(http.MethodPost, "/api/v1/submissions", body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub struct {
		ID         int64  `json:"id"`
		ReportFile string `json:"report_file"`
		Status     string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sub))
	assert.Equal(t, "submitted", sub.Status)

	rec, _ = ts.do(http.MethodGet, "/api/v1/files/"+sub.ReportFile, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())

	body, contentType = multipartBody(t,
		map[string]string{"status": "reviewed", "technology": "Go"},
		map[string][2]string{"report_file": {"report.pdf", "v2"}})
	rec, resp = ts.do(http.MethodPut, fmt.Sprintf("/api/v1/submissions/%d", sub.ID), body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated struct {
		ReportFile   string `json:"report_file"`
		ProjectTitle string `json:"project_title"`
		Technology   string `json:"technology"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &updated))
	assert.Equal(t, "Semla", updated.ProjectTitle, "fields left out of the form are kept")
	assert.Equal(t, "Go", updated.Technology)
	assert.Equal(t, "reviewed", updated.Status)

	rec, _ = ts.do(http.MethodGet, "/api/v1/files/"+sub.ReportFile, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "replaced file is gone")
	rec, _ = ts.do(http.MethodGet, "/api/v1/files/"+updated.ReportFile, nil, "")
	assert.Equal(t, "v2", rec.Body.String())

	rec, _ = ts.do(http.MethodGet, "/api/v1/files/../../etc/passwd", nil, "")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestSubmissionJSONCannotSetFilePaths(t *testing.T) {
	ts := newTestServer(t, nil)
	owner := ts.createID("/api/v1/teams", map[string]any{"team_name": "owner", "username": "owner", "password": "secret1"})
	other := ts.createID("/api/v1/teams", map[string]any{"team_name": "other", "username": "other", "password": "secret1"})

	victim, err := ts.service.Files.Save(owner, files.KindReport, "report.pdf", strings.NewReader("keep me"))
	require.NoError(t, err)

	rec, resp := ts.json(http.MethodPost, "/api/v1/submissions", map[string]any{
		"team_id":       other,
		"project_title": "Borrowed",
		"report_file":   victim,
		"slide_file":    victim,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sub struct {
		ID         int64  `json:"id"`
		ReportFile string `json:"report_file"`
		SlideFile  string `json:"slide_file"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &sub))
	assert.Empty(t, sub.ReportFile)
	assert.Empty(t, sub.SlideFile)

	rec, resp = ts.json(http.MethodPut, fmt.Sprintf("/api/v1/submissions/%d", sub.ID), map[string]any{"report_file": victim})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, &sub))
	assert.Empty(t, sub.ReportFile)

	rec, _ = ts.json(http.MethodDelete, fmt.Sprintf("/api/v1/submissions/%d", sub.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, ts.service.Files.Exists(victim), "another team's file survives")
}

func TestUnknownRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, resp := ts.json(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "NOT_FOUND", resp.Kind)
	assert.Equal(t, "No route for GET /api/v1/nope", resp.Detail)

	rec, resp = ts.json(http.MethodPatch, "/api/v1/teams/1", map[string]any{"slogan": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", resp.Kind)
	assert.Equal(t, "No route for PATCH /api/v1/teams/1", resp.Detail)

	rec, _ = ts.json(http.MethodGet, "/api/v1/teams", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "known routes still win")
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, func(c *app.Config) {
		c.Server.CORSOrigins = []string{"https://judge.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://judge.example")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://judge.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
