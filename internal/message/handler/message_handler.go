package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
	"campuslink/internal/message/service"
)

// ConversationStarter resolves a recipient into a conversation, so a
// first message can be sent without a prior start-conversation call.
type ConversationStarter interface {
	GetOrCreate(ctx context.Context, userA, userB uint64) (*dbmysql.Conversation, error)
}

// MessageHandler exposes the message store over HTTP.
type MessageHandler struct {
	messageService service.MessageService
	conversations  ConversationStarter
}

func NewMessageHandler(messageService service.MessageService, conversations ConversationStarter) *MessageHandler {
	return &MessageHandler{messageService: messageService, conversations: conversations}
}

func (h *MessageHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/messages", h.SendMessage).Methods("POST")
	r.HandleFunc("/messages/{id}", h.EditMessage).Methods("PATCH")
	r.HandleFunc("/messages/{id}", h.DeleteMessage).Methods("DELETE")
	r.HandleFunc("/conversations/{id}/messages", h.ConversationMessages).Methods("GET")
	r.HandleFunc("/groups/{id}/messages", h.GroupMessages).Methods("GET")
}

// sendMessageRequest targets exactly one of a conversation, a group, or
// a recipient. A recipient target creates the conversation on first
// contact.
type sendMessageRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
	RecipientID    uint64 `json:"recipient_id,omitempty"`
	Content        string `json:"content"`
	AttachmentRef  string `json:"attachment_ref,omitempty"`
	ClientToken    string `json:"client_token"`
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	targets := 0
	if req.ConversationID != "" {
		targets++
	}
	if req.GroupID != "" {
		targets++
	}
	if req.RecipientID != 0 {
		targets++
	}
	if targets != 1 {
		common.WriteError(w, common.Wrap(common.ErrInvalid, "exactly one of conversation_id, group_id or recipient_id is required"))
		return
	}

	var (
		msg *dbmysql.Message
		err error
	)
	switch {
	case req.GroupID != "":
		msg, err = h.messageService.SendGroup(r.Context(), req.GroupID, userID, req.Content, req.AttachmentRef, req.ClientToken)
	case req.RecipientID != 0:
		var conv *dbmysql.Conversation
		conv, err = h.conversations.GetOrCreate(r.Context(), userID, req.RecipientID)
		if err == nil {
			msg, err = h.messageService.SendDirect(r.Context(), conv.ID, userID, req.Content, req.AttachmentRef, req.ClientToken)
		}
	default:
		msg, err = h.messageService.SendDirect(r.Context(), req.ConversationID, userID, req.Content, req.AttachmentRef, req.ClientToken)
	}
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) ConversationMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	messages, next, err := h.messageService.PageConversation(r.Context(), mux.Vars(r)["id"], userID, q.Get("cursor"), limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages":    messages,
		"next_cursor": next,
	})
}

func (h *MessageHandler) GroupMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	messages, next, err := h.messageService.PageGroup(r.Context(), mux.Vars(r)["id"], userID, q.Get("cursor"), limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages":    messages,
		"next_cursor": next,
	})
}

type editMessageRequest struct {
	Content string `json:"content"`
}

func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
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

	var req editMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	msg, err := h.messageService.Edit(r.Context(), messageID, userID, req.Content)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, msg)
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
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

	if err := h.messageService.Delete(r.Context(), messageID, userID); err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}
