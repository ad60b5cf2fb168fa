package main

import (
	"context"
	"log"
	"net/http"

	"campuslink/internal/common"
	"campuslink/internal/config"
	"campuslink/internal/dbmongo"
	"campuslink/internal/dbmysql"
	"campuslink/internal/media"
)

func main() {
	cfg := config.LoadConfig()

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Close(context.Background())

	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MySQL:", err)
	}

	mediaServer := media.NewHTTPServer(mongoClient, db)

	log.Printf("Media server starting on port %s", cfg.Server.MediaServicePort)
	log.Printf("Serving files at: http://localhost:%s/media/{fileId}", cfg.Server.MediaServicePort)

	if err := http.ListenAndServe(":"+cfg.Server.MediaServicePort, common.AuthMiddleware(mediaServer)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
