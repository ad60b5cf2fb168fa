package conversation

import (
	"net/http"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
)

// Handler wires HTTP requests to the conversation directory.
type Handler struct {
	conversationService ConversationService
}

func NewHandler(conversationService ConversationService) *Handler {
	return &Handler{conversationService: conversationService}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/conversations", h.ListConversations).Methods("GET")
	r.HandleFunc("/conversations", h.StartConversation).Methods("POST")
	r.HandleFunc("/conversations/{id}/read", h.MarkRead).Methods("POST")
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	summaries, err := h.conversationService.ListForUser(r.Context(), userID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"conversations": summaries})
}

type startConversationRequest struct {
	OtherUserID uint64 `json:"other_user_id"`
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req startConversationRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	conv, err := h.conversationService.GetOrCreate(r.Context(), userID, req.OtherUserID)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, conv)
}

type markReadRequest struct {
	MessageID uint64 `json:"message_id"`
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req markReadRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	conversationID := mux.Vars(r)["id"]
	if err := h.conversationService.MarkRead(r.Context(), conversationID, userID, req.MessageID); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "read marker advanced"})
}
