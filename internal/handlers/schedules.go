package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
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

	q := app.ScheduleQuery{
		TeamID:   teamID,
		Round:    r.URL.Query().Get("round"),
		Location: r.URL.Query().Get("location"),
	}
	schedules, meta, err := h.service.Schedules.List(r.Context(), q, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, schedules, meta)
}

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	schedule, err := h.service.Schedules.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, schedule)
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	schedule, err := h.service.Schedules.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedule)
}

func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.ScheduleUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	schedule, err := h.service.Schedules.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedule)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Schedules.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) ListTeamSchedules(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	schedules, err := h.service.Schedules.ListByTeam(r.Context(), teamID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedules)
}

func (h *Handler) ListRoundSchedules(w http.ResponseWriter, r *http.Request) {
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	schedules, err := h.service.Schedules.ListByRound(r.Context(), round)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedules)
}

func (h *Handler) ListLocationSchedules(w http.ResponseWriter, r *http.Request) {
	location := r.PathValue("location")
	if location == "" {
		fail(w, r, apperr.Validationf("location is required"))
		return
	}

	schedules, err := h.service.Schedules.ListByLocation(r.Context(), location)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedules)
}

func (h *Handler) UpcomingSchedules(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		fail(w, r, err)
		return
	}
	if days == 0 {
		days = int64(h.service.Config.Schedules.UpcomingDays)
	}

	schedules, err := h.service.Schedules.Upcoming(r.Context(), int(days))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, schedules)
}
