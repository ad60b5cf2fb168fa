package reaction

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
)

type Handler struct {
	reactionService ReactionService
}

func NewHandler(reactionService ReactionService) *Handler {
	return &Handler{reactionService: reactionService}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/messages/{id}/reactions", h.React).Methods("POST")
	r.HandleFunc("/messages/{id}/pin", h.Pin).Methods("PUT")
	r.HandleFunc("/groups/{id}/pinned", h.ListPinned).Methods("GET")
}

type reactRequest struct {
	Type string `json:"type"`
}

// React toggles the caller's reaction and returns the message's fresh
// per-type counts.
func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	messageID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "invalid message ID"))
		return
	}

	var req reactRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	counts, err := h.reactionService.React(r.Context(), messageID, userID, req.Type)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"reactions": counts})
}

type pinRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *Handler) Pin(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	messageID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "invalid message ID"))
		return
	}

	var req pinRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	if err := h.reactionService.Pin(r.Context(), messageID, userID, req.Pinned); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]bool{"pinned": req.Pinned})
}

func (h *Handler) ListPinned(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	messages, err := h.reactionService.ListPinned(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"pinned": messages})
}
