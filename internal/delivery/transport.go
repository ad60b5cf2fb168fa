package delivery

import (
	"context"

	"campuslink/internal/dbmysql"
	"campuslink/internal/message/service"
)

// StoreTransport submits outbox entries straight to the message
// service. Deduplication lives in the store, so resubmitting after a
// timeout whose append actually landed returns the original message.
type StoreTransport struct {
	messages service.MessageService
}

func NewStoreTransport(messages service.MessageService) *StoreTransport {
	return &StoreTransport{messages: messages}
}

func (t *StoreTransport) Submit(ctx context.Context, req SendRequest) (*dbmysql.Message, error) {
	if req.GroupID != "" {
		return t.messages.SendGroup(ctx, req.GroupID, req.SenderID, req.Content, req.AttachmentRef, req.ClientToken)
	}
	return t.messages.SendDirect(ctx, req.ConversationID, req.SenderID, req.Content, req.AttachmentRef, req.ClientToken)
}
