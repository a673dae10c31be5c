package handler

import (
	"net/http"

	"eventful/internal/middleware"
	"eventful/internal/models"
	"eventful/internal/service"
)

// GroupHandler serves group management endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type groupResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url"`
	JoinCode     string   `json:"join_code"`
	LeaderID     string   `json:"leader_id"`
	MemberIDs    []string `json:"member_ids"`
	JoinPassword string   `json:"join_password,omitempty"` // only on create
}

func toGroupResponse(group *models.EventGroup, joinPassword string) groupResponse {
	members := make([]string, len(group.MemberIDs))
	for i, id := range group.MemberIDs {
		members[i] = string(id)
	}
	return groupResponse{
		ID:           string(group.ID),
		Name:         group.Name,
		Description:  group.Description,
		ImageURL:     group.ImageURL,
		JoinCode:     group.JoinCode,
		LeaderID:     string(group.LeaderID),
		MemberIDs:    members,
		JoinPassword: joinPassword,
	}
}

// Create handles POST /api/groups.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	group, password, err := h.groups.CreateGroup(r.Context(), requester, req.Name, req.Description, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(group, password))
}

// Get handles GET /api/groups/{groupID}.
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	group, err := h.groups.GetGroup(r.Context(), requester, models.GroupID(r.PathValue("groupID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group, ""))
}

// Update handles PATCH /api/groups/{groupID}.
func (h *GroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	err := h.groups.UpdateGroup(r.Context(), requester, models.GroupID(r.PathValue("groupID")),
		req.Name, req.Description, req.ImageURL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type joinGroupRequest struct {
	Password string `json:"password"`
}

// Join handles POST /api/groups/{groupID}/join.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	if err := h.groups.JoinGroup(r.Context(), requester, models.GroupID(r.PathValue("groupID")), req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// Leave handles POST /api/groups/{groupID}/leave.
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	if err := h.groups.LeaveGroup(r.Context(), requester, models.GroupID(r.PathValue("groupID"))); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RemoveMember handles DELETE /api/groups/{groupID}/members/{memberID}.
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetMemberID(r.Context())
	err := h.groups.RemoveMember(r.Context(), requester,
		models.GroupID(r.PathValue("groupID")), models.MemberID(r.PathValue("memberID")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type transferLeaderRequest struct {
	NewLeaderID string `json:"new_leader_id"`
}

// TransferLeader handles POST /api/groups/{groupID}/leader.
func (h *GroupHandler) TransferLeader(w http.ResponseWriter, r *http.Request) {
	var req transferLeaderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	requester := middleware.GetMemberID(r.Context())
	err := h.groups.TransferLeader(r.Context(), requester,
		models.GroupID(r.PathValue("groupID")), models.MemberID(req.NewLeaderID))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// VerifyJoinCode handles GET /api/join-codes/{code}.
func (h *GroupHandler) VerifyJoinCode(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.VerifyJoinCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"group_id":    string(group.ID),
		"name":        group.Name,
		"description": group.Description,
	})
}
