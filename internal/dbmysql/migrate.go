package dbmysql

import (
	"gorm.io/gorm"
)

// Migrate runs schema migration for every table the messaging engine
// owns. Called from main, not from repositories.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Conversation{},
		&ReadMarker{},
		&Message{},
		&Group{},
		&Membership{},
		&Reaction{},
		&MediaRef{},
	)
}
