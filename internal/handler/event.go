package handler

import (
	"fmt"
	"net/http"
	"time"

	"eventful/internal/middleware"
	"eventful/internal/models"
	"eventful/internal/service"
)

const eventDateLayout = "2006-01-02"

// EventHandler serves event and participation endpoints.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type createEventRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	MaxParticipants *int   `json:"max_participants"`
	Date            string `json:"date"` // YYYY-MM-DD
	PlaceID         string `json:"place_id"`
}

type participantResponse struct {
	MemberID string `json:"member_id"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
}

type eventResponse struct {
	ID              string                `json:"id"`
	GroupID         string                `json:"group_id"`
	CreatorID       string                `json:"creator_id"`
	Name            string                `json:"name"`
	Description     string                `json:"description"`
	MaxParticipants *int                  `json:"max_participants"`
	Date            string                `json:"date"`
	PlaceID         string                `json:"place_id"`
	Participants    []participantResponse `json:"participants"`
	Full            bool                  `json:"full"`
}

func toEventResponse(event *models.Event) eventResponse {
	participants := make([]participantResponse, len(event.Participants))
	for i, p := range event.Participants {
		participants[i] = participantResponse{
			MemberID: string(p.MemberID),
			Role:     string(p.Role),
			JoinedAt: p.JoinedAt.Unix(),
		}
	}
	return eventResponse{
		ID:              string(event.ID),
		GroupID:         string(event.GroupID),
		CreatorID:       string(event.CreatorID),
		Name:            event.Name,
		Description:     event.Description,
		MaxParticipants: event.MaxParticipants,
		Date:            event.Date.Format(eventDateLayout),
		PlaceID:         event.PlaceID,
		Participants:    participants,
		Full:            event.IsFull(),
	}
}

// Create handles POST /api/groups/{groupID}/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	date, err := time.Parse(eventDateLayout, req.Date)
	if err != nil {
		writeError(w, fmt.Errorf("%w: date must be YYYY-MM-DD", models.ErrValidation))
		return
	}

	requester := middleware.GetMemberID(r.Context())
	event, err := h.events.CreateEvent(r.Context(), requester, models.GroupID(r.PathValue("groupID")),
		req.Name, req.Description, req.MaxParticipants, date, req.PlaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// List handles GET /api/groups/{groupID}/events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	events, err := h.events.ListEventsByGroup(r.Context(), requester, models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]eventResponse, len(events))
	for i, event := range events {
		resp[i] = toEventResponse(event)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/events/{eventID}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	event, err := h.events.GetEvent(r.Context(), requester, models.EventID(r.PathValue("eventID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// Join handles POST /api/events/{eventID}/join.
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	if err := h.events.JoinEvent(r.Context(), requester, models.EventID(r.PathValue("eventID"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Leave handles POST /api/events/{eventID}/leave.
func (h *EventHandler) Leave(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	if err := h.events.LeaveEvent(r.Context(), requester, models.EventID(r.PathValue("eventID"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
