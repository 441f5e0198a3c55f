package export

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/models"
)

const exportTimeout = time.Minute

// sheetWriter replaces the values of a spreadsheet range.
type sheetWriter interface {
	Write(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
}

type sheetsWriter struct {
	svc *sheets.Service
}

func (w sheetsWriter) Write(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := w.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// GSheetExporter publishes team rankings to Google Sheets on a cron schedule.
type GSheetExporter struct {
	service   *app.Service
	writer    sheetWriter
	scheduler *gocron.Scheduler
	now       func() time.Time
}

func NewGSheetExporter(ctx context.Context, service *app.Service) (*GSheetExporter, error) {
	creds := service.Config.GSheet.CredentialsFile
	if creds == "" {
		return nil, fmt.Errorf("gsheet credentials_file is not specified in config")
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newExporter(service, sheetsWriter{svc: svc})
}

func newExporter(service *app.Service, writer sheetWriter) (*GSheetExporter, error) {
	e := &GSheetExporter{
		service:   service,
		writer:    writer,
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
	e.scheduler.SingletonModeAll()

	for _, exp := range service.Config.GSheet.Exports {
		if exp.SpreadsheetID == "" || exp.Range == "" || exp.Round == "" {
			return nil, fmt.Errorf("export %+v needs spreadsheet_id, range and round", exp)
		}

		_, err := e.scheduler.Cron(exp.Cron).Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
			defer cancel()
			if err := e.Export(ctx, exp); err != nil {
				logger.Error.Printf("Export of round %s to %s failed: %v", exp.Round, exp.SpreadsheetID, err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to schedule export of round %s: %w", exp.Round, err)
		}
	}

	return e, nil
}

func (e *GSheetExporter) Start() {
	logger.Info.Printf("Scheduled %d rankings exports", len(e.scheduler.Jobs()))
	e.scheduler.StartAsync()
}

func (e *GSheetExporter) Stop() {
	e.scheduler.Stop()
}

// Export writes the current rankings of one round into its configured range.
func (e *GSheetExporter) Export(ctx context.Context, exp app.SheetExport) error {
	rankings, err := e.service.TeamScores.Rankings(ctx, exp.Round, exp.Limit)
	if err != nil {
		return fmt.Errorf("failed to compute rankings: %w", err)
	}

	names := make(map[int64]string, len(rankings))
	for _, r := range rankings {
		team, err := e.service.Teams.Get(ctx, r.TeamID)
		if err != nil {
			names[r.TeamID] = fmt.Sprintf("team #%d", r.TeamID)
			continue
		}
		names[r.TeamID] = team.TeamName
	}

	rows := rankingRows(rankings, names, e.now())
	if err := e.writer.Write(ctx, exp.SpreadsheetID, exp.Range, rows); err != nil {
		return fmt.Errorf("failed to update %s: %w", exp.Range, err)
	}

	logger.Debug.Printf("Exported %d rankings of round %s to %s!%s", len(rankings), exp.Round, exp.SpreadsheetID, exp.Range)
	return nil
}

// rankingRows lays out a header, one row per team and a trailing update stamp.
func rankingRows(rankings []models.TeamRanking, names map[int64]string, at time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(rankings)+2)
	rows = append(rows, []interface{}{"Rank", "Team", "Average score"})
	for _, r := range rankings {
		rows = append(rows, []interface{}{r.Rank, names[r.TeamID], r.AverageScore})
	}
	rows = append(rows, []interface{}{"UPD: " + at.UTC().Format("2 January 15:04 MST"), "", ""})
	return rows
}
