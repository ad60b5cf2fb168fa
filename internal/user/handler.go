package user

import (
	"net/http"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
)

// Handler wires HTTP requests to the user service.
type Handler struct {
	userService UserService
}

func NewHandler(userService UserService) *Handler {
	return &Handler{userService: userService}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.Register).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/users/me", h.GetProfile).Methods("GET")
	r.HandleFunc("/users/me", h.UpdateProfile).Methods("PATCH")
	r.HandleFunc("/users/search", h.SearchUsers).Methods("GET")
}

type registerRequest struct {
	Handle      string             `json:"handle"`
	DisplayName string             `json:"display_name"`
	Password    string             `json:"password"`
	Kind        common.AccountKind `json:"kind"`
}

type authResponse struct {
	Token  string `json:"token"`
	UserID uint64 `json:"user_id"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	user, token, err := h.userService.RegisterUser(r.Context(), req.Handle, req.DisplayName, req.Password, req.Kind)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusCreated, authResponse{Token: token, UserID: user.UserID})
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	user, token, err := h.userService.LoginUser(r.Context(), req.Handle, req.Password)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, authResponse{Token: token, UserID: user.UserID})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	AvatarRef   string `json:"avatar_ref"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	if err := h.userService.UpdateProfile(r.Context(), userID, req.DisplayName, req.AvatarRef); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := common.UserIDFromContext(r.Context()); !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	refs, err := h.userService.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"users": refs})
}
