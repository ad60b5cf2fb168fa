package reaction

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

// Reaction types accepted by the engine.
var allowedTypes = map[string]bool{
	"like":       true,
	"love":       true,
	"laugh":      true,
	"celebrate":  true,
	"insightful": true,
	"sad":        true,
}

// MessageStore is the slice of the message layer the moderation
// operations need.
type MessageStore interface {
	ByID(ctx context.Context, id uint64) (*dbmysql.Message, error)
	SetPinned(ctx context.Context, id uint64, pinned bool) error
	PinnedByGroup(ctx context.Context, groupID string) ([]*dbmysql.Message, error)
}

// GroupDirectory provides membership lookups for authorization.
type GroupDirectory interface {
	Membership(ctx context.Context, groupID string, userID uint64) (*dbmysql.Membership, error)
}

// ConversationDirectory provides participant checks for direct
// messages.
type ConversationDirectory interface {
	ByID(ctx context.Context, id string) (*dbmysql.Conversation, error)
}

type ReactionService interface {
	React(ctx context.Context, messageID, userID uint64, reactionType string) (map[string]int64, error)
	Pin(ctx context.Context, messageID, actorID uint64, pinned bool) error
	ListPinned(ctx context.Context, groupID string, requesterID uint64) ([]*dbmysql.Message, error)
}

type reactionService struct {
	repo          ReactionRepository
	messages      MessageStore
	groups        GroupDirectory
	conversations ConversationDirectory
}

func NewReactionService(repo ReactionRepository, messages MessageStore, groups GroupDirectory, conversations ConversationDirectory) ReactionService {
	return &reactionService{repo: repo, messages: messages, groups: groups, conversations: conversations}
}

// React toggles the user's reaction: same type removes it, a different
// type replaces it. Always returns the fresh aggregate.
func (s *reactionService) React(ctx context.Context, messageID, userID uint64, reactionType string) (map[string]int64, error) {
	if !allowedTypes[reactionType] {
		return nil, common.Wrap(common.ErrInvalid, "unknown reaction type %q", reactionType)
	}

	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeContainerAccess(ctx, msg, userID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, messageID, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.Wrap(common.ErrTransient, "load reaction: %v", err)
	}

	if existing != nil && existing.Type == reactionType {
		if err := s.repo.Delete(ctx, messageID, userID); err != nil {
			return nil, common.Wrap(common.ErrTransient, "remove reaction: %v", err)
		}
	} else {
		reaction := &dbmysql.Reaction{
			MessageID: messageID,
			UserID:    userID,
			Type:      reactionType,
		}
		if err := s.repo.Upsert(ctx, reaction); err != nil {
			return nil, common.Wrap(common.ErrTransient, "save reaction: %v", err)
		}
	}

	counts, err := s.repo.Aggregate(ctx, messageID)
	if err != nil {
		return nil, common.Wrap(common.ErrTransient, "aggregate reactions: %v", err)
	}
	return counts, nil
}

// Pin toggles the pinned flag on a group message. Only group admins;
// direct messages have no pinning.
func (s *reactionService) Pin(ctx context.Context, messageID, actorID uint64, pinned bool) error {
	msg, err := s.loadMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if !msg.InGroup() {
		return common.Wrap(common.ErrInvalid, "direct messages cannot be pinned")
	}

	membership, err := s.groups.Membership(ctx, *msg.GroupID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Wrap(common.ErrForbidden, "not a member")
		}
		return common.Wrap(common.ErrTransient, "load membership: %v", err)
	}
	if !membership.IsAdmin() {
		return common.Wrap(common.ErrForbidden, "only an admin may pin messages")
	}

	if err := s.messages.SetPinned(ctx, messageID, pinned); err != nil {
		return common.Wrap(common.ErrTransient, "update pin: %v", err)
	}
	return nil
}

func (s *reactionService) ListPinned(ctx context.Context, groupID string, requesterID uint64) ([]*dbmysql.Message, error) {
	if _, err := s.groups.Membership(ctx, groupID, requesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrForbidden, "not a member")
		}
		return nil, common.Wrap(common.ErrTransient, "load membership: %v", err)
	}

	messages, err := s.messages.PinnedByGroup(ctx, groupID)
	if err != nil {
		return nil, common.Wrap(common.ErrTransient, "list pinned: %v", err)
	}
	return messages, nil
}

func (s *reactionService) loadMessage(ctx context.Context, messageID uint64) (*dbmysql.Message, error) {
	msg, err := s.messages.ByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "message %d", messageID)
		}
		return nil, common.Wrap(common.ErrTransient, "load message: %v", err)
	}
	if msg.Deleted {
		return nil, common.Wrap(common.ErrNotFound, "message %d is deleted", messageID)
	}
	return msg, nil
}

// authorizeContainerAccess requires the user to belong to the message's
// container before reacting.
func (s *reactionService) authorizeContainerAccess(ctx context.Context, msg *dbmysql.Message, userID uint64) error {
	if msg.InGroup() {
		if _, err := s.groups.Membership(ctx, *msg.GroupID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return common.Wrap(common.ErrForbidden, "not a member")
			}
			return common.Wrap(common.ErrTransient, "load membership: %v", err)
		}
		return nil
	}

	conv, err := s.conversations.ByID(ctx, *msg.ConversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Wrap(common.ErrNotFound, "conversation %s", *msg.ConversationID)
		}
		return common.Wrap(common.ErrTransient, "load conversation: %v", err)
	}
	if !conv.HasParticipant(userID) {
		return common.Wrap(common.ErrForbidden, "not a participant")
	}
	return nil
}
