//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"campuslink/internal/config"
	"campuslink/internal/conversation"
	"campuslink/internal/delivery"
	"campuslink/internal/group"
	"campuslink/internal/message/handler"
	"campuslink/internal/message/repository"
	"campuslink/internal/message/service"
	"campuslink/internal/reaction"
	"campuslink/internal/user"
)

func InitializeMessagingService() (*Application, func(), error) {
	wire.Build(
		config.LoadConfig,
		provideDatabase,

		user.NewUserRepository,
		user.NewUserService,
		user.NewHandler,

		conversation.NewConversationRepository,
		conversation.NewConversationService,
		conversation.NewHandler,

		group.NewGroupRepository,
		group.NewGroupService,
		group.NewHandler,

		repository.NewMessageRepository,
		service.NewMessageService,
		handler.NewMessageHandler,

		reaction.NewReactionRepository,
		reaction.NewReactionService,
		reaction.NewHandler,

		delivery.NewStoreTransport,
		delivery.NewOutbox,
		delivery.NewHandler,

		wire.Bind(new(conversation.UserDirectory), new(user.UserRepository)),
		wire.Bind(new(conversation.UnreadCounter), new(repository.MessageRepository)),
		wire.Bind(new(group.UserDirectory), new(user.UserRepository)),
		wire.Bind(new(service.ConversationDirectory), new(conversation.ConversationRepository)),
		wire.Bind(new(service.GroupDirectory), new(group.GroupService)),
		wire.Bind(new(handler.ConversationStarter), new(conversation.ConversationService)),
		wire.Bind(new(reaction.MessageStore), new(repository.MessageRepository)),
		wire.Bind(new(reaction.GroupDirectory), new(group.GroupService)),
		wire.Bind(new(reaction.ConversationDirectory), new(conversation.ConversationRepository)),
		wire.Bind(new(delivery.Transport), new(*delivery.StoreTransport)),

		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil, nil
}
