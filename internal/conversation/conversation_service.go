package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
)

// UserDirectory resolves identity references for conversation summaries.
type UserDirectory interface {
	GetUserByID(ctx context.Context, userID uint64) (*dbmysql.User, error)
}

// UnreadCounter counts messages past a read marker; satisfied by the
// message repository.
type UnreadCounter interface {
	CountUnread(ctx context.Context, conversationID string, userID uint64, afterID uint64) (int64, error)
}

// Summary is one row of a user's conversation list: enough to render
// the list without loading history.
type Summary struct {
	ConversationID     string         `json:"conversation_id"`
	OtherUser          common.UserRef `json:"other_user"`
	LastMessagePreview string         `json:"last_message_preview"`
	LastMessageAt      time.Time      `json:"last_message_at"`
	UnreadCount        int64          `json:"unread_count"`
}

type ConversationService interface {
	GetOrCreate(ctx context.Context, userA, userB uint64) (*dbmysql.Conversation, error)
	ListForUser(ctx context.Context, userID uint64) ([]Summary, error)
	MarkRead(ctx context.Context, conversationID string, userID uint64, upTo uint64) error
}

type conversationService struct {
	repo   ConversationRepository
	users  UserDirectory
	unread UnreadCounter
}

func NewConversationService(repo ConversationRepository, users UserDirectory, unread UnreadCounter) ConversationService {
	return &conversationService{repo: repo, users: users, unread: unread}
}

// GetOrCreate returns the single conversation for an unordered pair,
// creating it on first contact. Safe under concurrent calls from both
// participants: the loser of the insert race adopts the winner's row.
func (s *conversationService) GetOrCreate(ctx context.Context, userA, userB uint64) (*dbmysql.Conversation, error) {
	if userA == 0 || userB == 0 {
		return nil, common.Wrap(common.ErrInvalid, "user ID cannot be empty")
	}
	if userA == userB {
		return nil, common.Wrap(common.ErrInvalid, "cannot start a conversation with yourself")
	}

	if _, err := s.users.GetUserByID(ctx, userB); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrNotFound, "user %d", userB)
		}
		return nil, common.Wrap(common.ErrTransient, "load user: %v", err)
	}

	lo, hi := dbmysql.OrderPair(userA, userB)

	conv, err := s.repo.ByPair(ctx, lo, hi)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.Wrap(common.ErrTransient, "load conversation: %v", err)
	}

	conv = &dbmysql.Conversation{
		ID:     uuid.NewString(),
		UserLo: lo,
		UserHi: hi,
	}
	err = s.repo.Create(ctx, conv)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, ErrDuplicatePair) {
		winner, err := s.repo.ByPair(ctx, lo, hi)
		if err != nil {
			return nil, common.Wrap(common.ErrTransient, "resolve conversation race: %v", err)
		}
		return winner, nil
	}
	return nil, common.Wrap(common.ErrTransient, "create conversation: %v", err)
}

// ListForUser returns conversation summaries sorted by recency, with
// unread counts recomputed from the store rather than trusted from a
// counter column.
func (s *conversationService) ListForUser(ctx context.Context, userID uint64) ([]Summary, error) {
	if userID == 0 {
		return nil, common.Wrap(common.ErrInvalid, "user ID cannot be empty")
	}

	convs, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, common.Wrap(common.ErrTransient, "list conversations: %v", err)
	}

	summaries := make([]Summary, 0, len(convs))
	for _, conv := range convs {
		otherID := conv.OtherParticipant(userID)

		other, err := s.users.GetUserByID(ctx, otherID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrTransient, "load user %d: %v", otherID, err)
		}

		var lastRead uint64
		marker, err := s.repo.Marker(ctx, conv.ID, userID)
		if err == nil {
			lastRead = marker.LastReadMessageID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.Wrap(common.ErrTransient, "load read marker: %v", err)
		}

		unread, err := s.unread.CountUnread(ctx, conv.ID, userID, lastRead)
		if err != nil {
			return nil, common.Wrap(common.ErrTransient, "count unread: %v", err)
		}

		summary := Summary{
			ConversationID:     conv.ID,
			LastMessagePreview: conv.LastMessagePreview,
			LastMessageAt:      conv.LastMessageAt,
			UnreadCount:        unread,
		}
		if other != nil {
			summary.OtherUser = other.Ref()
		} else {
			summary.OtherUser = common.UserRef{UserID: otherID}
		}

		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// MarkRead advances the caller's read marker. Calls with a message id
// at or below the current marker are no-ops.
func (s *conversationService) MarkRead(ctx context.Context, conversationID string, userID uint64, upTo uint64) error {
	if upTo == 0 {
		return common.Wrap(common.ErrInvalid, "message ID cannot be empty")
	}

	conv, err := s.repo.ByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Wrap(common.ErrNotFound, "conversation %s", conversationID)
		}
		return common.Wrap(common.ErrTransient, "load conversation: %v", err)
	}
	if !conv.HasParticipant(userID) {
		return common.Wrap(common.ErrForbidden, "not a participant")
	}

	if err := s.repo.AdvanceMarker(ctx, conversationID, userID, upTo); err != nil {
		return common.Wrap(common.ErrTransient, "advance read marker: %v", err)
	}
	return nil
}
