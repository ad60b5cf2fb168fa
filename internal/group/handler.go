package group

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
)

// Handler exposes the group directory and membership operations over
// HTTP.
type Handler struct {
	groupService GroupService
}

func NewHandler(groupService GroupService) *Handler {
	return &Handler{groupService: groupService}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/groups", h.ListGroups).Methods("GET")
	r.HandleFunc("/groups", h.CreateGroup).Methods("POST")
	r.HandleFunc("/groups/{id}", h.GetGroup).Methods("GET")
	r.HandleFunc("/groups/{id}/join", h.JoinGroup).Methods("POST")
	r.HandleFunc("/groups/{id}/leave", h.LeaveGroup).Methods("POST")
	r.HandleFunc("/groups/{id}/members", h.ListMembers).Methods("GET")
	r.HandleFunc("/groups/{id}/members/{userID}/role", h.SetRole).Methods("PUT")
}

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	groups, next, err := h.groupService.List(r.Context(), q.Get("search"), q.Get("topic"), q.Get("cursor"), limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"groups":      groups,
		"next_cursor": next,
	})
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Topic       string `json:"topic"`
	IsPrivate   bool   `json:"is_private"`
	MaxMembers  int    `json:"max_members"`
	BannerRef   string `json:"banner_ref"`
	IconRef     string `json:"icon_ref"`
}

type createGroupResponse struct {
	Group      interface{} `json:"group"`
	AccessCode string      `json:"access_code,omitempty"`
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req createGroupRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	grp, err := h.groupService.Create(r.Context(), userID, CreateParams{
		Name:        req.Name,
		Description: req.Description,
		Topic:       req.Topic,
		IsPrivate:   req.IsPrivate,
		MaxMembers:  req.MaxMembers,
		BannerRef:   req.BannerRef,
		IconRef:     req.IconRef,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}

	// The access code is only ever shown here, to the creator.
	common.WriteJSON(w, http.StatusCreated, createGroupResponse{
		Group:      grp,
		AccessCode: grp.AccessCode,
	})
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	grp, err := h.groupService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, grp)
}

type joinGroupRequest struct {
	AccessCode string `json:"access_code"`
}

func (h *Handler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req joinGroupRequest
	if r.ContentLength > 0 {
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteError(w, err)
			return
		}
	}

	membership, err := h.groupService.Join(r.Context(), mux.Vars(r)["id"], userID, req.AccessCode)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, membership)
}

func (h *Handler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	if err := h.groupService.Leave(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "left group"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	members, err := h.groupService.ListMembers(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"members": members})
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	targetID, err := strconv.ParseUint(vars["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "invalid user ID"))
		return
	}

	var req setRoleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	if err := h.groupService.SetRole(r.Context(), vars["id"], actorID, targetID, req.Role); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}
