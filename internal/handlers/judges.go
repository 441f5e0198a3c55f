package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func (h *Handler) ListJudges(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	judges, meta, err := h.service.Judges.Search(r.Context(), r.URL.Query().Get("search_term"), p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, judges, meta)
}

func (h *Handler) listJudgesByRole(admins bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := parsePage(r)
		if err != nil {
			fail(w, r, err)
			return
		}

		judges, meta, err := h.service.Judges.ListByRole(r.Context(), admins, p)
		if err != nil {
			fail(w, r, err)
			return
		}
		paged(w, judges, meta)
	}
}

func (h *Handler) CreateJudge(w http.ResponseWriter, r *http.Request) {
	var req models.JudgeCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	judge, err := h.service.Judges.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, judge)
}

func (h *Handler) GetJudge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	judge, err := h.service.Judges.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, judge)
}

func (h *Handler) UpdateJudge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.JudgeUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	judge, err := h.service.Judges.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, judge)
}

func (h *Handler) DeleteJudge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.Judges.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) AuthenticateJudge(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil {
		fail(w, r, err)
		return
	}

	judge, err := h.service.Judges.Authenticate(r.Context(), &creds)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, judge)
}
