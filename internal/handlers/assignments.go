package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	judgeID, err := queryInt(r, "judge_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	teamID, err := queryInt(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	q := app.AssignmentQuery{JudgeID: judgeID, TeamID: teamID, Round: r.URL.Query().Get("round")}
	assignments, meta, err := h.service.Assignments.List(r.Context(), q, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, assignments, meta)
}

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.JudgeAssignmentCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	assignment, err := h.service.Assignments.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, assignment)
}

func (h *Handler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	assignment, err := h.service.Assignments.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, assignment)
}

func (h *Handler) UpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.JudgeAssignmentUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	assignment, err := h.service.Assignments.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Assignments.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) ListJudgeAssignments(w http.ResponseWriter, r *http.Request) {
	judgeID, err := pathID(r, "judge_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	assignments, err := h.service.Assignments.ListByJudge(r.Context(), judgeID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, assignments)
}

func (h *Handler) ListTeamAssignments(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	assignments, err := h.service.Assignments.ListByTeam(r.Context(), teamID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, assignments)
}

func (h *Handler) ListRoundAssignments(w http.ResponseWriter, r *http.Request) {
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	assignments, err := h.service.Assignments.ListByRound(r.Context(), round)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, assignments)
}
