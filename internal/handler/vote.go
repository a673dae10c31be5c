package handler

import (
	"net/http"

	"eventful/internal/middleware"
	"eventful/internal/models"
	"eventful/internal/service"
)

// VoteHandler serves location poll endpoints.
type VoteHandler struct {
	votes *service.VoteService
}

// NewVoteHandler creates a VoteHandler.
func NewVoteHandler(votes *service.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

type createVoteRequest struct {
	Name            string   `json:"name"`
	Memo            string   `json:"memo"`
	StartTime       string   `json:"start_time"` // HH:MM
	EndTime         string   `json:"end_time"`   // HH:MM
	LocationOptions []string `json:"location_options"`
}

type voteOptionResponse struct {
	ID           string `json:"id"`
	LocationName string `json:"location_name"`
	Count        int    `json:"count"`
}

type voteResponse struct {
	ID        string               `json:"id"`
	EventID   string               `json:"event_id"`
	CreatorID string               `json:"creator_id"`
	Name      string               `json:"name"`
	Memo      string               `json:"memo"`
	StartTime string               `json:"start_time"`
	EndTime   string               `json:"end_time"`
	Status    string               `json:"status"`
	Options   []voteOptionResponse `json:"options"`
}

func toVoteResponse(vote *models.Vote) voteResponse {
	options := make([]voteOptionResponse, len(vote.Options))
	for i := range vote.Options {
		options[i] = voteOptionResponse{
			ID:           string(vote.Options[i].ID),
			LocationName: vote.Options[i].LocationName,
			Count:        vote.Options[i].Count(),
		}
	}
	return voteResponse{
		ID:        string(vote.ID),
		EventID:   string(vote.EventID),
		CreatorID: string(vote.CreatorID),
		Name:      vote.Name,
		Memo:      vote.Memo,
		StartTime: vote.Start.String(),
		EndTime:   vote.End.String(),
		Status:    string(vote.Status),
		Options:   options,
	}
}

// Create handles POST /api/events/{eventID}/votes.
func (h *VoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	start, end, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	vote, err := h.votes.CreateVote(r.Context(), requester, models.EventID(r.PathValue("eventID")),
		req.Name, req.Memo, start, end, req.LocationOptions)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVoteResponse(vote))
}

// List handles GET /api/events/{eventID}/votes. The in_progress=true query
// filters to polls still accepting ballots.
func (h *VoteHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	eventID := models.EventID(r.PathValue("eventID"))

	var votes []*models.Vote
	var err error
	if r.URL.Query().Get("in_progress") == "true" {
		votes, err = h.votes.ListInProgressVotes(r.Context(), requester, eventID)
	} else {
		votes, err = h.votes.ListVotesByEvent(r.Context(), requester, eventID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]voteResponse, len(votes))
	for i, vote := range votes {
		resp[i] = toVoteResponse(vote)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/votes/{voteID}.
func (h *VoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	vote, err := h.votes.GetVote(r.Context(), requester, models.VoteID(r.PathValue("voteID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoteResponse(vote))
}

type addOptionRequest struct {
	LocationName string `json:"location_name"`
}

// AddOption handles POST /api/votes/{voteID}/options.
func (h *VoteHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	var req addOptionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	if err := h.votes.AddOption(r.Context(), requester, models.VoteID(r.PathValue("voteID")), req.LocationName); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RemoveOption handles DELETE /api/votes/{voteID}/options/{optionID}.
func (h *VoteHandler) RemoveOption(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	err := h.votes.RemoveOption(r.Context(), requester,
		models.VoteID(r.PathValue("voteID")), models.OptionID(r.PathValue("optionID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type castVoteRequest struct {
	OptionID string `json:"option_id"`
}

// Cast handles POST /api/votes/{voteID}/ballots.
func (h *VoteHandler) Cast(w http.ResponseWriter, r *http.Request) {
	var req castVoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	err := h.votes.CastVote(r.Context(), requester,
		models.VoteID(r.PathValue("voteID")), models.OptionID(req.OptionID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Close handles POST /api/votes/{voteID}/close. It closes the poll and
// responds with the schedule created from the winning location.
func (h *VoteHandler) Close(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	schedule, err := h.votes.CloseVoteAndCreateSchedule(r.Context(), requester, models.VoteID(r.PathValue("voteID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleResponse(schedule))
}

// Delete handles DELETE /api/votes/{voteID}.
func (h *VoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	if err := h.votes.DeleteVote(r.Context(), requester, models.VoteID(r.PathValue("voteID"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
