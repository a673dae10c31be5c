package handler

import (
	"net/http"

	"eventful/internal/middleware"
	"eventful/internal/models"
	"eventful/internal/service"
)

// ScheduleHandler serves confirmed time-block endpoints.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

type createScheduleRequest struct {
	Name      string `json:"name"`
	Memo      string `json:"memo"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Location  string `json:"location"`
}

type scheduleResponse struct {
	ID              string   `json:"id"`
	EventID         string   `json:"event_id"`
	CreatorID       string   `json:"creator_id"`
	Name            string   `json:"name"`
	Memo            string   `json:"memo"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Location        string   `json:"location"`
	Amount          *float64 `json:"amount"`
	ReceiptFilePath string   `json:"receipt_file_path,omitempty"`
}

func toScheduleResponse(schedule *models.Schedule) scheduleResponse {
	return scheduleResponse{
		ID:              string(schedule.ID),
		EventID:         string(schedule.EventID),
		CreatorID:       string(schedule.CreatorID),
		Name:            schedule.Name,
		Memo:            schedule.Memo,
		StartTime:       schedule.Start.String(),
		EndTime:         schedule.End.String(),
		Location:        schedule.Location,
		Amount:          schedule.Amount,
		ReceiptFilePath: schedule.ReceiptFilePath,
	}
}

// Create handles POST /api/events/{eventID}/schedules.
func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
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
	schedule, err := h.schedules.CreateSchedule(r.Context(), requester, models.EventID(r.PathValue("eventID")),
		req.Name, req.Memo, start, end, req.Location)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleResponse(schedule))
}

// List handles GET /api/events/{eventID}/schedules.
func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	schedules, err := h.schedules.ListSchedulesByEvent(r.Context(), requester, models.EventID(r.PathValue("eventID")))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]scheduleResponse, len(schedules))
	for i, schedule := range schedules {
		resp[i] = toScheduleResponse(schedule)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /api/schedules/{scheduleID}.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	schedule, err := h.schedules.GetSchedule(r.Context(), requester, models.ScheduleID(r.PathValue("scheduleID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleResponse(schedule))
}

type setAmountRequest struct {
	Amount *float64 `json:"amount"` // null clears
}

// SetAmount handles PUT /api/schedules/{scheduleID}/amount.
func (h *ScheduleHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req setAmountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	if err := h.schedules.SetAmount(r.Context(), requester, models.ScheduleID(r.PathValue("scheduleID")), req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type setReceiptRequest struct {
	FilePath string `json:"file_path"`
}

// SetReceipt handles PUT /api/schedules/{scheduleID}/receipt.
func (h *ScheduleHandler) SetReceipt(w http.ResponseWriter, r *http.Request) {
	var req setReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	if err := h.schedules.SetReceiptFile(r.Context(), requester, models.ScheduleID(r.PathValue("scheduleID")), req.FilePath); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/schedules/{scheduleID}.
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	if err := h.schedules.DeleteSchedule(r.Context(), requester, models.ScheduleID(r.PathValue("scheduleID"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
