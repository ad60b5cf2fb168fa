package di

import (
	"log"

	"gorm.io/gorm"

	"campuslink/internal/config"
	"campuslink/internal/conversation"
	"campuslink/internal/dbmysql"
	"campuslink/internal/delivery"
	"campuslink/internal/group"
	"campuslink/internal/message/handler"
	"campuslink/internal/reaction"
	"campuslink/internal/user"
)

// Application bundles everything the messaging service binary needs.
type Application struct {
	Config              *config.Config
	DB                  *gorm.DB
	UserHandler         *user.Handler
	ConversationHandler *conversation.Handler
	GroupHandler        *group.Handler
	MessageHandler      *handler.MessageHandler
	ReactionHandler     *reaction.Handler
	DeliveryHandler     *delivery.Handler
	Outbox              *delivery.Outbox
}

func provideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Printf("closing database: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("closing database: %v", err)
		}
	}
	return db, cleanup, nil
}
