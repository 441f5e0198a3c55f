package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/apperr"
	"github.com/shrimpsizemoose/semla/internal/metrics"
)

const apiPrefix = "/api/v1"

// Routes returns the complete HTTP handler: the API behind its middleware plus /metrics and /healthz.
func (h *Handler) Routes() http.Handler {
	api := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		method, path, _ := strings.Cut(pattern, " ")
		api.HandleFunc(method+" "+apiPrefix+path, fn)
	}

	route("GET /teams", h.ListTeams)
	route("POST /teams", h.CreateTeam)
	route("POST /teams/authenticate", h.AuthenticateTeam)
	route("GET /teams/{id}", h.GetTeam)
	route("PUT /teams/{id}", h.UpdateTeam)
	route("DELETE /teams/{id}", h.DeleteTeam)

	route("GET /judges", h.ListJudges)
	route("POST /judges", h.CreateJudge)
	route("POST /judges/authenticate", h.AuthenticateJudge)
	route("GET /judges/admins", h.listJudgesByRole(true))
	route("GET /judges/regular", h.listJudgesByRole(false))
	route("GET /judges/{id}", h.GetJudge)
	route("PUT /judges/{id}", h.UpdateJudge)
	route("DELETE /judges/{id}", h.DeleteJudge)

	route("GET /team-members", h.ListMembers)
	route("POST /team-members", h.CreateMember)
	route("GET /team-members/team/{team_id}", h.ListTeamMembers)
	route("GET /team-members/{id}", h.GetMember)
	route("PUT /team-members/{id}", h.UpdateMember)
	route("DELETE /team-members/{id}", h.DeleteMember)

	route("GET /submissions", h.ListSubmissions)
	route("POST /submissions", h.CreateSubmission)
	route("GET /submissions/team/{team_id}", h.ListTeamSubmissions)
	route("GET /submissions/{id}", h.GetSubmission)
	route("PUT /submissions/{id}", h.UpdateSubmission)
	route("DELETE /submissions/{id}", h.DeleteSubmission)

	route("GET /team-scores", h.ListTeamScores)
	route("POST /team-scores", h.CreateTeamScore)
	route("GET /team-scores/team/{team_id}", h.ListScoresOfTeam)
	route("GET /team-scores/team/{team_id}/average/{round}", h.TeamAverage)
	route("GET /team-scores/average/{team_id}/{round}", h.TeamAverage)
	route("GET /team-scores/judge/{judge_id}", h.ListTeamScoresByJudge)
	route("GET /team-scores/rankings/{round}", h.TeamRankings)
	route("GET /team-scores/{id}", h.GetTeamScore)
	route("PUT /team-scores/{id}", h.UpdateTeamScore)
	route("DELETE /team-scores/{id}", h.DeleteTeamScore)

	route("GET /member-scores", h.ListMemberScores)
	route("POST /member-scores", h.CreateMemberScore)
	route("GET /member-scores/member/{team_member_id}", h.ListScoresOfMember)
	route("GET /member-scores/member/{team_member_id}/average/{round}", h.MemberAverage)
	route("GET /member-scores/average/{team_member_id}/{round}", h.MemberAverage)
	route("GET /member-scores/judge/{judge_id}", h.ListMemberScoresByJudge)
	route("GET /member-scores/rankings/{round}", h.MemberRankings)
	route("GET /member-scores/{id}", h.GetMemberScore)
	route("PUT /member-scores/{id}", h.UpdateMemberScore)
	route("DELETE /member-scores/{id}", h.DeleteMemberScore)

	route("GET /judge-assignments", h.ListAssignments)
	route("POST /judge-assignments", h.CreateAssignment)
	route("GET /judge-assignments/judge/{judge_id}", h.ListJudgeAssignments)
	route("GET /judge-assignments/team/{team_id}", h.ListTeamAssignments)
	route("GET /judge-assignments/round/{round}", h.ListRoundAssignments)
	route("GET /judge-assignments/{id}", h.GetAssignment)
	route("PUT /judge-assignments/{id}", h.UpdateAssignment)
	route("DELETE /judge-assignments/{id}", h.DeleteAssignment)

	route("GET /schedules", h.ListSchedules)
	route("POST /schedules", h.CreateSchedule)
	route("GET /schedules/upcoming", h.UpcomingSchedules)
	route("GET /schedules/team/{team_id}", h.ListTeamSchedules)
	route("GET /schedules/round/{round}", h.ListRoundSchedules)
	route("GET /schedules/location/{location}", h.ListLocationSchedules)
	route("GET /schedules/{id}", h.GetSchedule)
	route("PUT /schedules/{id}", h.UpdateSchedule)
	route("DELETE /schedules/{id}", h.DeleteSchedule)

	route("GET /files/{path...}", h.ServeFile)

	// Unknown paths and methods answer with the JSON envelope instead of the mux's plain text.
	api.HandleFunc(apiPrefix+"/", func(w http.ResponseWriter, r *http.Request) {
		fail(w, r, apperr.NotFoundf("No route for %s %s", r.Method, r.URL.Path))
	})

	mux := http.NewServeMux()
	mux.Handle(apiPrefix+"/", h.withCORS(h.withRequiredHeaders(api)))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", h.Health)

	return withMetrics(withRecovery(mux))
}

func (h *Handler) ServeFile(w http.ResponseWriter, r *http.Request) {
	rel := r.PathValue("path")
	full, err := h.service.Files.Path(rel)
	if err != nil || !h.service.Files.Exists(rel) {
		fail(w, r, apperr.NotFoundf("File not found"))
		return
	}
	http.ServeFile(w, r, full)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Store.DB.PingContext(r.Context()); err != nil {
		fail(w, r, apperr.Wrap(apperr.Internal, err, "database unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) withRequiredHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.service.ValidateHeaders(r.Header) {
			fail(w, r, apperr.New(apperr.Unauthorized, "Missing or invalid required headers"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) withCORS(next http.Handler) http.Handler {
	allowed := h.service.Config.Server.CORSOrigins

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			if allowOrigin(allowed, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "*")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowOrigin accepts any origin when none are configured.
func allowOrigin(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || strings.EqualFold(a, origin) {
			return true
		}
	}
	return false
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				fail(w, r, fmt.Errorf("panic: %v", p))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withMetrics labels requests by route pattern so path parameters do not explode cardinality.
func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		duration := time.Since(start)
		metrics.APIRequestDuration.WithLabelValues(
			pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(duration.Seconds())
		logger.Debug.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, duration)
	})
}
