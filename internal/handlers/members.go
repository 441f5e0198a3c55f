package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, meta, err := h.service.Members.Search(r.Context(), r.URL.Query().Get("search_term"), teamID, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, members, meta)
}

func (h *Handler) ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	members, err := h.service.Members.ListByTeam(r.Context(), teamID)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, members)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req models.TeamMemberCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	member, err := h.service.Members.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, member)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	member, err := h.service.Members.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, member)
}

func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.TeamMemberUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	member, err := h.service.Members.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, member)
}

func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Members.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}
