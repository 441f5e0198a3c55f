package app

import (
	"context"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/store"
)

const DefaultSlotSeconds = 30 * 60

type ScheduleQuery struct {
	TeamID   int64
	Round    string
	Location string
}

type ScheduleService struct {
	store       *store.BaseStore
	slotSeconds float64
	now         func() time.Time
}

func NewScheduleService(s *store.BaseStore, slotSeconds float64) *ScheduleService {
	if slotSeconds <= 0 {
		slotSeconds = DefaultSlotSeconds
	}
	return &ScheduleService{store: s, slotSeconds: slotSeconds, now: time.Now}
}

func conflict() error {
	return apperr.Validationf("Schedule conflicts with existing schedule(s) at the same location")
}

// Create inserts the schedule only if no other schedule at its location overlaps its slot.
func (s *ScheduleService) Create(ctx context.Context, req *models.ScheduleCreate) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}

	sched, err := s.store.InsertScheduleIfFree(ctx, models.Schedule{
		TeamID:   req.TeamID,
		Round:    req.Round,
		DateTime: req.DateTime,
		Location: req.Location,
		Note:     req.Note,
	}, s.slotSeconds)
	if err != nil {
		return nil, err
	}
	if sched == nil {
		logger.Debug.Printf("Rejected schedule at %s for %.0f: slot taken", req.Location, req.DateTime)
		return nil, conflict()
	}
	return sched, nil
}

func (s *ScheduleService) Update(ctx context.Context, id int64, req *models.ScheduleUpdate) (*models.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.Schedules.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}

	fields := req.Fields()
	if len(fields) == 0 {
		return current, nil
	}

	location, start := current.Location, current.DateTime
	if req.Location != nil {
		location = *req.Location
	}
	if req.DateTime != nil {
		start = *req.DateTime
	}

	sched, ok, err := s.store.UpdateScheduleIfFree(ctx, id, fields, location, start, s.slotSeconds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, conflict()
	}
	return sched, nil
}

func (s *ScheduleService) checkTeam(ctx context.Context, teamID *int64) error {
	if teamID == nil {
		return nil
	}
	_, err := s.store.Teams.Get(ctx, *teamID)
	return err
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	return s.store.Schedules.Delete(ctx, id)
}

func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	return s.store.Schedules.Get(ctx, id)
}

func (s *ScheduleService) List(ctx context.Context, q ScheduleQuery, page models.Page) ([]models.Schedule, models.Metadata, error) {
	return s.store.Schedules.List(ctx, q.filter(), page)
}

func (s *ScheduleService) ListByTeam(ctx context.Context, teamID int64) ([]models.Schedule, error) {
	if _, err := s.store.Teams.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.Schedules.Find(ctx, ScheduleQuery{TeamID: teamID}.filter(), "date_time ASC")
}

func (s *ScheduleService) ListByRound(ctx context.Context, round string) ([]models.Schedule, error) {
	return s.store.Schedules.Find(ctx, ScheduleQuery{Round: round}.filter(), "date_time ASC")
}

func (s *ScheduleService) ListByLocation(ctx context.Context, location string) ([]models.Schedule, error) {
	return s.store.Schedules.Find(ctx, ScheduleQuery{Location: location}.filter(), "date_time ASC")
}

// Upcoming lists schedules starting between now and now plus days.
func (s *ScheduleService) Upcoming(ctx context.Context, days int) ([]models.Schedule, error) {
	if days <= 0 {
		days = defaultUpcomingDays
	}
	from := float64(s.now().Unix())
	to := from + float64(days*24*60*60)

	f := store.NewFilter().Range("date_time", from, to)
	return s.store.Schedules.Find(ctx, f, "date_time ASC")
}

func (q ScheduleQuery) filter() *store.Filter {
	return store.NewFilter().
		EqIf(q.TeamID > 0, "team_id", q.TeamID).
		EqIf(q.Round != "", "round", q.Round).
		EqIf(q.Location != "", "location", q.Location)
}
