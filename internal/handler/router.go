package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eventful/internal/auth"
	"eventful/internal/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth      *AuthHandler
	Groups    *GroupHandler
	Events    *EventHandler
	Schedules *ScheduleHandler
	Votes     *VoteHandler
}

// NewRouter builds the full route table. Auth endpoints, the health check,
// and the metrics endpoint are open; everything else sits behind RequireAuth.
func NewRouter(h Handlers, jwtManager *auth.JWTManager) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	api := http.NewServeMux()

	api.HandleFunc("POST /api/groups", h.Groups.Create)
	api.HandleFunc("GET /api/groups/{groupID}", h.Groups.Get)
	api.HandleFunc("PATCH /api/groups/{groupID}", h.Groups.Update)
	api.HandleFunc("POST /api/groups/{groupID}/join", h.Groups.Join)
	api.HandleFunc("POST /api/groups/{groupID}/leave", h.Groups.Leave)
	api.HandleFunc("DELETE /api/groups/{groupID}/members/{memberID}", h.Groups.RemoveMember)
	api.HandleFunc("POST /api/groups/{groupID}/leader", h.Groups.TransferLeader)
	api.HandleFunc("GET /api/join-codes/{code}", h.Groups.VerifyJoinCode)

	api.HandleFunc("POST /api/groups/{groupID}/events", h.Events.Create)
	api.HandleFunc("GET /api/groups/{groupID}/events", h.Events.List)
	api.HandleFunc("GET /api/events/{eventID}", h.Events.Get)
	api.HandleFunc("POST /api/events/{eventID}/join", h.Events.Join)
	api.HandleFunc("POST /api/events/{eventID}/leave", h.Events.Leave)

	api.HandleFunc("POST /api/events/{eventID}/schedules", h.Schedules.Create)
	api.HandleFunc("GET /api/events/{eventID}/schedules", h.Schedules.List)
	api.HandleFunc("GET /api/schedules/{scheduleID}", h.Schedules.Get)
	api.HandleFunc("PUT /api/schedules/{scheduleID}/amount", h.Schedules.SetAmount)
	api.HandleFunc("PUT /api/schedules/{scheduleID}/receipt", h.Schedules.SetReceipt)
	api.HandleFunc("DELETE /api/schedules/{scheduleID}", h.Schedules.Delete)

	api.HandleFunc("POST /api/events/{eventID}/votes", h.Votes.Create)
	api.HandleFunc("GET /api/events/{eventID}/votes", h.Votes.List)
	api.HandleFunc("GET /api/votes/{voteID}", h.Votes.Get)
	api.HandleFunc("POST /api/votes/{voteID}/options", h.Votes.AddOption)
	api.HandleFunc("DELETE /api/votes/{voteID}/options/{optionID}", h.Votes.RemoveOption)
	api.HandleFunc("POST /api/votes/{voteID}/ballots", h.Votes.Cast)
	api.HandleFunc("POST /api/votes/{voteID}/close", h.Votes.Close)
	api.HandleFunc("DELETE /api/votes/{voteID}", h.Votes.Delete)

	mux.Handle("/api/", middleware.RequireAuth(jwtManager)(api))

	return middleware.Logging(middleware.Metrics(mux))
}
