package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/models"
	"github.com/shrimpsizemoose/semla/internal/scoring"
)

func scoreQuery(r *http.Request, subjectParam string) (scoring.Query, error) {
	subjectID, err := queryInt(r, subjectParam)
	if err != nil {
		return scoring.Query{}, err
	}
	judgeID, err := queryInt(r, "judge_id")
	if err != nil {
		return scoring.Query{}, err
	}
	return scoring.Query{SubjectID: subjectID, JudgeID: judgeID, Round: r.URL.Query().Get("round")}, nil
}

func pathRound(r *http.Request) (string, error) {
	round := r.PathValue("round")
	if round == "" {
		return "", apperr.Validationf("round is required")
	}
	return round, nil
}

func (h *Handler) ListTeamScores(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := scoreQuery(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, meta, err := h.service.TeamScores.List(r.Context(), q, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, scores, meta)
}

func (h *Handler) CreateTeamScore(w http.ResponseWriter, r *http.Request) {
	var req models.TeamScoreCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.TeamScores.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, score)
}

func (h *Handler) GetTeamScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.TeamScores.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, score)
}

func (h *Handler) UpdateTeamScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.TeamScoreUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.TeamScores.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, score)
}

func (h *Handler) DeleteTeamScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.TeamScores.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) ListScoresOfTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, err := h.service.TeamScores.ListByTeam(r.Context(), teamID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, scores)
}

func (h *Handler) ListTeamScoresByJudge(w http.ResponseWriter, r *http.Request) {
	judgeID, err := pathID(r, "judge_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, err := h.service.TeamScores.ListByJudge(r.Context(), judgeID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, scores)
}

func (h *Handler) TeamAverage(w http.ResponseWriter, r *http.Request) {
	teamID, err := pathID(r, "team_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	avg, err := h.service.TeamScores.Average(r.Context(), teamID, round)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, avg)
}

func (h *Handler) TeamRankings(w http.ResponseWriter, r *http.Request) {
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		fail(w, r, err)
		return
	}

	rankings, err := h.service.TeamScores.Rankings(r.Context(), round, int(limit))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, rankings)
}

func (h *Handler) ListMemberScores(w http.ResponseWriter, r *http.Request) {
	p, err := parsePage(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	q, err := scoreQuery(r, "team_member_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, meta, err := h.service.MemberScores.List(r.Context(), q, p)
	if err != nil {
		fail(w, r, err)
		return
	}
	paged(w, scores, meta)
}

func (h *Handler) CreateMemberScore(w http.ResponseWriter, r *http.Request) {
	var req models.MemberScoreCreate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.MemberScores.Create(r.Context(), &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	created(w, score)
}

func (h *Handler) GetMemberScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.MemberScores.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, score)
}

func (h *Handler) UpdateMemberScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	var req models.MemberScoreUpdate
	if err := decode(r, &req); err != nil {
		fail(w, r, err)
		return
	}

	score, err := h.service.MemberScores.Update(r.Context(), id, &req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, score)
}

func (h *Handler) DeleteMemberScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		fail(w, r, err)
		return
	}

	if err := h.service.MemberScores.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	noContent(w)
}

func (h *Handler) ListScoresOfMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "team_member_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, err := h.service.MemberScores.ListByMember(r.Context(), memberID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, scores)
}

func (h *Handler) ListMemberScoresByJudge(w http.ResponseWriter, r *http.Request) {
	judgeID, err := pathID(r, "judge_id")
	if err != nil {
		fail(w, r, err)
		return
	}

	scores, err := h.service.MemberScores.ListByJudge(r.Context(), judgeID, r.URL.Query().Get("round"))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, scores)
}

func (h *Handler) MemberAverage(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "team_member_id")
	if err != nil {
		fail(w, r, err)
		return
	}
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	avg, err := h.service.MemberScores.Average(r.Context(), memberID, round)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, avg)
}

func (h *Handler) MemberRankings(w http.ResponseWriter, r *http.Request) {
	round, err := pathRound(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		fail(w, r, err)
		return
	}

	rankings, err := h.service.MemberScores.Rankings(r.Context(), round, int(limit))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, rankings)
}
