package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
	"campuslink/internal/message/repository"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100

	previewLength = 255
)

// ConversationDirectory is the slice of the conversation layer the
// message store needs: participant checks and summary updates.
type ConversationDirectory interface {
	ByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
	Touch(ctx context.Context, id string, at time.Time, preview string) error
}

// GroupDirectory is the slice of the group layer the message store
// needs: existence and membership lookups.
type GroupDirectory interface {
	GroupByID(ctx context.Context, id string) (*dbmysql.Group, error)
	Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error)
}

// MessageService defines the interface exposed to the handler layer
type MessageService interface {
	SendDirect(ctx context.Context, conversationID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error)
	SendGroup(ctx context.Context, groupID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error)
	PageConversation(ctx context.Context, conversationID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error)
	PageGroup(ctx context.Context, groupID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error)
	Edit(ctx context.Context, messageID uint64, editorID uint64, content string) (*dbmysql.Message, error)
	Delete(ctx context.Context, messageID uint64, actorID uint64) error
}

type messageService struct {
	repo          repository.MessageRepository
	conversations ConversationDirectory
	groups        GroupDirectory
}

// Constructor used in DI/wire
func NewMessageService(r repository.MessageRepository, conversations ConversationDirectory, groups GroupDirectory) MessageService {
	return &messageService{repo: r, conversations: conversations, groups: groups}
}

// SendDirect appends to a 1:1 conversation. A repeated client token
// returns the original message, which is what makes client retries on
// network failure safe.
func (s *messageService) SendDirect(ctx context.Context, conversationID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error) {
	if err := validateSend(conversationID, senderID, content, clientToken); err != nil {
		return nil, err
	}

	conv, err := s.conversations.ByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "conversation %s", conversationID)
		}
		return nil, common.Wrap(common.ErrTransient, "load conversation: %v", err)
	}
	if !conv.HasParticipant(senderID) {
		return nil, common.Wrap(common.ErrForbidden, "sender is not a participant")
	}

	msg := &dbmysql.Message{
		ConversationID: &conversationID,
		SenderID:       senderID,
		Content:        content,
		AttachmentRef:  attachmentRef,
		ClientToken:    clientToken,
		CreatedAt:      time.Now().UTC(),
	}

	saved, fresh, err := s.save(ctx, msg)
	if err != nil {
		return nil, err
	}

	// A deduplicated retry must not bump the summary again.
	if fresh {
		if err := s.conversations.Touch(ctx, conversationID, saved.CreatedAt, preview(saved.Content)); err != nil {
			return nil, common.Wrap(common.ErrTransient, "update conversation summary: %v", err)
		}
	}

	return saved, nil
}

// SendGroup appends to a discussion group the sender belongs to.
func (s *messageService) SendGroup(ctx context.Context, groupID string, senderID uint64, content, attachmentRef, clientToken string) (*dbmysql.Message, error) {
	if err := validateSend(groupID, senderID, content, clientToken); err != nil {
		return nil, err
	}

	if _, err := s.groups.GroupByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "group %s", groupID)
		}
		return nil, common.Wrap(common.ErrTransient, "load group: %v", err)
	}
	if _, err := s.groups.Membership(ctx, groupID, senderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrForbidden, "sender is not a member")
		}
		return nil, common.Wrap(common.ErrTransient, "load membership: %v", err)
	}

	msg := &dbmysql.Message{
		GroupID:       &groupID,
		SenderID:      senderID,
		Content:       content,
		AttachmentRef: attachmentRef,
		ClientToken:   clientToken,
		CreatedAt:     time.Now().UTC(),
	}

	saved, _, err := s.save(ctx, msg)
	return saved, err
}

// save appends, resolving a duplicate client token to the original row.
// fresh is false when the message was deduplicated.
func (s *messageService) save(ctx context.Context, msg *dbmysql.Message) (saved *dbmysql.Message, fresh bool, err error) {
	err = s.repo.Save(ctx, msg)
	if err == nil {
		return msg, true, nil
	}
	if !errors.Is(err, repository.ErrDuplicateToken) {
		return nil, false, common.Wrap(common.ErrTransient, "append message: %v", err)
	}

	original, err := s.repo.ByClientToken(ctx, msg)
	if err != nil {
		return nil, false, common.Wrap(common.ErrTransient, "resolve duplicate token: %v", err)
	}
	return original, false, nil
}

func (s *messageService) PageConversation(ctx context.Context, conversationID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error) {
	conv, err := s.conversations.ByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.Wrap(common.ErrNotFound, "conversation %s", conversationID)
		}
		return nil, "", common.Wrap(common.ErrTransient, "load conversation: %v", err)
	}
	if !conv.HasParticipant(requesterID) {
		return nil, "", common.Wrap(common.ErrForbidden, "requester is not a participant")
	}

	cursor, err := common.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", err
	}

	messages, err := s.repo.PageConversation(ctx, conversationID, cursor, clampLimit(limit))
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "page conversation: %v", err)
	}
	return messages, nextCursor(messages, clampLimit(limit)), nil
}

func (s *messageService) PageGroup(ctx context.Context, groupID string, requesterID uint64, cursorToken string, limit int) ([]*dbmysql.Message, string, error) {
	if _, err := s.groups.GroupByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.Wrap(common.ErrNotFound, "group %s", groupID)
		}
		return nil, "", common.Wrap(common.ErrTransient, "load group: %v", err)
	}
	if _, err := s.groups.Membership(ctx, groupID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", common.Wrap(common.ErrForbidden, "requester is not a member")
		}
		return nil, "", common.Wrap(common.ErrTransient, "load membership: %v", err)
	}

	cursor, err := common.DecodeCursor(cursorToken)
	if err != nil {
		return nil, "", err
	}

	messages, err := s.repo.PageGroup(ctx, groupID, cursor, clampLimit(limit))
	if err != nil {
		return nil, "", common.Wrap(common.ErrTransient, "page group: %v", err)
	}
	return messages, nextCursor(messages, clampLimit(limit)), nil
}

// Edit changes the content of the editor's own message. The ordering
// key (created_at, id) never changes, only edited_at is set.
func (s *messageService) Edit(ctx context.Context, messageID uint64, editorID uint64, content string) (*dbmysql.Message, error) {
	if err := common.ValidateMessageContent(content); err != nil {
		return nil, err
	}

	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "message %d", messageID)
		}
		return nil, common.Wrap(common.ErrTransient, "load message: %v", err)
	}
	if msg.Deleted {
		return nil, common.Wrap(common.ErrNotFound, "message %d is deleted", messageID)
	}
	if msg.SenderID != editorID {
		return nil, common.Wrap(common.ErrForbidden, "only the sender may edit a message")
	}

	editedAt := time.Now().UTC()
	if err := s.repo.UpdateContent(ctx, messageID, content, editedAt); err != nil {
		return nil, common.Wrap(common.ErrTransient, "edit message: %v", err)
	}

	msg.Content = content
	msg.EditedAt = &editedAt
	return msg, nil
}

// Delete tombstones a message. Allowed for the sender, or for a group
// admin when the message lives in a group.
func (s *messageService) Delete(ctx context.Context, messageID uint64, actorID uint64) error {
	msg, err := s.repo.ByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Wrap(common.ErrNotFound, "message %d", messageID)
		}
		return common.Wrap(common.ErrTransient, "load message: %v", err)
	}
	if msg.Deleted {
		return nil // already a tombstone, idempotent
	}

	if msg.SenderID != actorID {
		if !msg.InGroup() {
			return common.Wrap(common.ErrForbidden, "only the sender may delete a direct message")
		}
		membership, err := s.groups.Membership(ctx, *msg.GroupID, actorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.Wrap(common.ErrForbidden, "actor is not a member")
			}
			return common.Wrap(common.ErrTransient, "load membership: %v", err)
		}
		if !membership.IsAdmin() {
			return common.Wrap(common.ErrForbidden, "only an admin may delete another member's message")
		}
	}

	if err := s.repo.Tombstone(ctx, messageID); err != nil {
		return common.Wrap(common.ErrTransient, "delete message: %v", err)
	}
	return nil
}

func validateSend(containerID string, senderID uint64, content, clientToken string) error {
	if containerID == "" {
		return common.Wrap(common.ErrInvalid, "container ID cannot be empty")
	}
	if senderID == 0 {
		return common.Wrap(common.ErrInvalid, "sender ID cannot be empty")
	}
	if clientToken == "" || len(clientToken) > 64 {
		return common.Wrap(common.ErrInvalid, "client token must be 1-64 characters")
	}
	return common.ValidateMessageContent(content)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// nextCursor derives the opaque token for the following page, or ""
// when this page was not full.
func nextCursor(messages []*dbmysql.Message, limit int) string {
	if len(messages) < limit {
		return ""
	}
	last := messages[len(messages)-1]
	return common.EncodeCursor(last.CreatedAt, last.ID)
}

func preview(content string) string {
	if len(content) <= previewLength {
		return content
	}
	// back up to a rune boundary so the cut never splits a character
	cut := previewLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
