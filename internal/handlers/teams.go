package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	teams, meta, err := h.service.Teams.Search(r.Context(), r.URL.Query().Get("search_term"), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, teams, meta)
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req models.TeamCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	team, err := h.service.Teams.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, team)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	team, err := h.service.Teams.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, team)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.TeamUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	team, err := h.service.Teams.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, team)
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Teams.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) AuthenticateTeam(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil {
		fail(w, r, err)
		return
	}

	team, err := h.service.Teams.Authenticate(r.Context(), &creds)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, team)
}
