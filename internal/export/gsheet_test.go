package export

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/files"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
	"github.com/shrimpsizemoose/semla/migrations"
)

type recordingWriter struct {
	spreadsheetID string
	writeRange    string
	rows          [][]interface{}
	err           error
}

func (w *recordingWriter) Write(_ context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	w.spreadsheetID = spreadsheetID
	w.writeRange = writeRange
	w.rows = rows
	return w.err
}

func setupService(t *testing.T, exports ...app.SheetExport) *app.Service {
	s, err := sqlite.NewSQLiteStore(":memory:", migrations.FS)
	require.NoError(t, err)

	fileStore, err := files.New(t.TempDir(), files.Options{})
	require.NoError(t, err)

	config := &app.Config{}
	config.GSheet.Exports = exports

	service := app.New(config, &s.BaseStore, fileStore, nil)
	t.Cleanup(func() { service.Close() })
	return service
}

func ptr[T any](v T) *T { return &v }

func TestRankingRows(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	rows := rankingRows(
		[]models.TeamRanking{{Rank: 1, TeamID: 7, AverageScore: 91.5}, {Rank: 2, TeamID: 3, AverageScore: 80}},
		map[int64]string{7: "Rockets", 3: "Otters"},
		at,
	)

	assert.Equal(t, [][]interface{}{
		{"Rank", "Team", "Average score"},
		{1, "Rockets", 91.5},
		{2, "Otters", 80.0},
		{"UPD: 1 June 12:30 UTC", "", ""},
	}, rows)
}

func TestExport(t *testing.T) {
	exp := app.SheetExport{SpreadsheetID: "sheet-1", Range: "Final!A1:C20", Round: "final", Cron: "*/5 * * * *"}
	service := setupService(t, exp)
	ctx := context.Background()

	team, err := service.Teams.Create(ctx, &models.TeamCreate{TeamName: "Rockets", Username: "rockets", Password: "secret1"})
	require.NoError(t, err)
	judge, err := service.Judges.Create(ctx, &models.JudgeCreate{FullName: "Ada", Email: "ada@jury.test", Username: "ada", Password: "secret1"})
	require.NoError(t, err)
	_, err = service.TeamScores.Create(ctx, &models.TeamScoreCreate{
		TeamID: team.ID, JudgeID: judge.ID, Round: "final",
		Creativity: ptr(20.0), Feasibility: ptr(20.0), AIEffectiveness: ptr(20.0), Presentation: ptr(10.0), SocialImpact: ptr(10.0),
	})
	require.NoError(t, err)

	writer := &recordingWriter{}
	e, err := newExporter(service, writer)
	require.NoError(t, err)
	assert.Len(t, e.scheduler.Jobs(), 1)

	require.NoError(t, e.Export(ctx, exp))
	assert.Equal(t, "sheet-1", writer.spreadsheetID)
	assert.Equal(t, "Final!A1:C20", writer.writeRange)
	require.Len(t, writer.rows, 3)
	assert.Equal(t, []interface{}{1, "Rockets", 80.0}, writer.rows[1])

	writer.err = errors.New("quota exceeded")
	assert.ErrorContains(t, e.Export(ctx, exp), "quota exceeded")
}

func TestNewExporterRejectsBadExports(t *testing.T) {
	service := setupService(t, app.SheetExport{SpreadsheetID: "sheet-1", Range: "A1", Round: "final", Cron: "not a cron"})
	_, err := newExporter(service, &recordingWriter{})
	assert.Error(t, err)

	service = setupService(t, app.SheetExport{Range: "A1", Round: "final", Cron: "0 * * * *"})
	_, err = newExporter(service, &recordingWriter{})
	assert.Error(t, err)
}
