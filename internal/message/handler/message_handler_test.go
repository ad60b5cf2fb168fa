package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

// fakeMessageService records the last call and returns scripted
// results.
type fakeMessageService struct {
	lastConversationID string
	lastGroupID        string
	lastToken          string
	sendResult         *dbmysql.Message
	sendErr            error
	pageResult         []*dbmysql.Message
	pageNext           string
}

func (f *fakeMessageService) SendDirect(ctx context.Context, conversationID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error) {
	f.lastConversationID = conversationID
	f.lastToken = clientToken
	return f.sendResult, f.sendErr
}

func (f *fakeMessageService) SendGroup(ctx context.Context, groupID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error) {
	f.lastGroupID = groupID
	f.lastToken = clientToken
	return f.sendResult, f.sendErr
}

func (f *fakeMessageService) PageConversation(ctx context.Context, conversationID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error) {
	return f.pageResult, f.pageNext, nil
}

func (f *fakeMessageService) PageGroup(ctx context.Context, groupID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error) {
	return f.pageResult, f.pageNext, nil
}

func (f *fakeMessageService) Edit(ctx context.Context, messageID uint64, editorID uint64, content string) (*dbmysql.Message, error) {
	return f.sendResult, f.sendErr
}

func (f *fakeMessageService) Delete(ctx context.Context, messageID uint64, actorID uint64) error {
	return f.sendErr
}

type fakeStarter struct {
	conv *dbmysql.Conversation
}

func (f *fakeStarter) GetOrCreate(ctx context.Context, userA, userB uint64) (*dbmysql.Conversation, error) {
	return f.conv, nil
}

func newTestRouter(svc *fakeMessageService, starter *fakeStarter) *mux.Router {
	h := NewMessageHandler(svc, starter)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func authedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := context.WithValue(req.Context(), common.ContextUserID, uint64(42))
	ctx = context.WithValue(ctx, common.ContextHandle, "alice")
	return req.WithContext(ctx)
}

func TestSendMessage_ToConversation(t *testing.T) {
	svc := &fakeMessageService{sendResult: &dbmysql.Message{ID: 11, Content: "hi"}}
	router := newTestRouter(svc, &fakeStarter{})

	body, _ := json.Marshal(map[string]interface{}{
		"conversation_id": "conv-1",
		"content":         "hi",
		"client_token":    "tok-1",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/messages", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "conv-1", svc.lastConversationID)
	assert.Equal(t, "tok-1", svc.lastToken)

	var got dbmysql.Message
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(11), got.ID)
}

func TestSendMessage_ToRecipientCreatesConversation(t *testing.T) {
	svc := &fakeMessageService{sendResult: &dbmysql.Message{ID: 12}}
	starter := &fakeStarter{conv: &dbmysql.Conversation{ID: "fresh-conv", UserLo: 7, UserHi: 42}}
	router := newTestRouter(svc, starter)

	body, _ := json.Marshal(map[string]interface{}{
		"recipient_id": 7,
		"content":      "first contact",
		"client_token": "tok-2",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/messages", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "fresh-conv", svc.lastConversationID)
}

func TestSendMessage_TargetValidation(t *testing.T) {
	svc := &fakeMessageService{}
	router := newTestRouter(svc, &fakeStarter{})

	// no target at all
	body, _ := json.Marshal(map[string]interface{}{"content": "hi", "client_token": "t"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/messages", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// two targets
	body, _ = json.Marshal(map[string]interface{}{
		"conversation_id": "c1", "group_id": "g1", "content": "hi", "client_token": "t",
	})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/messages", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage_RequiresAuth(t *testing.T) {
	router := newTestRouter(&fakeMessageService{}, &fakeStarter{})

	body, _ := json.Marshal(map[string]interface{}{"conversation_id": "c1", "content": "hi", "client_token": "t"})
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSendMessage_ServiceErrorsMapToStatus(t *testing.T) {
	svc := &fakeMessageService{sendErr: common.Wrap(common.ErrForbidden, "not a participant")}
	router := newTestRouter(svc, &fakeStarter{})

	body, _ := json.Marshal(map[string]interface{}{"conversation_id": "c1", "content": "hi", "client_token": "t"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/messages", body))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestConversationMessages(t *testing.T) {
	svc := &fakeMessageService{
		pageResult: []*dbmysql.Message{{ID: 2, Content: "b"}, {ID: 1, Content: "a"}},
		pageNext:   "opaque-token",
	}
	router := newTestRouter(svc, &fakeStarter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/conversations/conv-1/messages?limit=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Messages   []dbmysql.Message `json:"messages"`
		NextCursor string            `json:"next_cursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, "opaque-token", got.NextCursor)
}

func TestDeleteMessage_InvalidID(t *testing.T) {
	router := newTestRouter(&fakeMessageService{}, &fakeStarter{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/messages/not-a-number", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
