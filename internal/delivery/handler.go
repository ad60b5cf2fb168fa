package delivery

import (
	"net/http"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
)

// Handler exposes the outbox for clients that want fire-and-forget
// sends with server-side retry instead of the synchronous message
// endpoint.
type Handler struct {
	outbox  *Outbox
	tracker *UnreadTracker
}

func NewHandler(outbox *Outbox) *Handler {
	tracker := NewUnreadTracker()
	outbox.Subscribe(tracker)
	return &Handler{outbox: outbox, tracker: tracker}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/outbox", h.Enqueue).Methods("POST")
	r.HandleFunc("/outbox", h.ListPending).Methods("GET")
	r.HandleFunc("/outbox/stats", h.Stats).Methods("GET")
	r.HandleFunc("/outbox/{token}", h.GetEntry).Methods("GET")
	r.HandleFunc("/outbox/{token}", h.Forget).Methods("DELETE")
	r.HandleFunc("/outbox/{token}/resubmit", h.Resubmit).Methods("POST")
}

type enqueueRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	GroupID        string `json:"group_id,omitempty"`
	Content        string `json:"content"`
	AttachmentRef  string `json:"attachment_ref,omitempty"`
	ClientToken    string `json:"client_token"`
}

func (h *Handler) Enqueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	var req enqueueRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}

	entry, err := h.outbox.Enqueue(SendRequest{
		ConversationID: req.ConversationID,
		GroupID:        req.GroupID,
		SenderID:       userID,
		Content:        req.Content,
		AttachmentRef:  req.AttachmentRef,
		ClientToken:    req.ClientToken,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusAccepted, entry)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	entries := h.outbox.Pending()
	mine := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Request.SenderID == userID {
			mine = append(mine, e)
		}
	}

	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"pending": mine})
}

// Stats reports how many sends have been confirmed for a container
// since the service started.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if _, ok := common.UserIDFromContext(r.Context()); !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	container := r.URL.Query().Get("container")
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"container": container,
		"confirmed": h.tracker.Confirmed(container),
	})
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	entry, found := h.outbox.Entry(userID, mux.Vars(r)["token"])
	if !found {
		common.WriteError(w, common.Wrap(common.ErrNotFound, "outbox entry not found"))
		return
	}

	common.WriteJSON(w, http.StatusOK, entry)
}

func (h *Handler) Resubmit(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	entry, err := h.outbox.Resubmit(userID, mux.Vars(r)["token"])
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusAccepted, entry)
}

func (h *Handler) Forget(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	token := mux.Vars(r)["token"]
	if _, found := h.outbox.Entry(userID, token); !found {
		common.WriteError(w, common.Wrap(common.ErrNotFound, "outbox entry not found"))
		return
	}

	if !h.outbox.Forget(userID, token) {
		common.WriteError(w, common.Wrap(common.ErrConflict, "entry is still pending"))
		return
	}

	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "entry removed"})
}
