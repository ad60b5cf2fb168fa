package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"campuslink/internal/common"
	"campuslink/internal/dbmysql"
	"campuslink/internal/delivery"
	"campuslink/internal/di"
)

func main() {
	log.Println("Starting Messaging Service...")

	app, cleanup, err := di.InitializeMessagingService()
	if err != nil {
		log.Fatalf("Failed to initialize messaging service: %v", err)
	}
	defer cleanup()

	if err := dbmysql.Migrate(app.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	app.Outbox.Subscribe(delivery.NewLogObserver())

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("messaging service is healthy"))
	}).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	app.UserHandler.RegisterRoutes(api)
	app.ConversationHandler.RegisterRoutes(api)
	app.GroupHandler.RegisterRoutes(api)
	app.MessageHandler.RegisterRoutes(api)
	app.ReactionHandler.RegisterRoutes(api)
	app.DeliveryHandler.RegisterRoutes(api)

	server := &http.Server{
		Addr:         ":" + app.Config.Server.MessagingServicePort,
		Handler:      loggingMiddleware(common.AuthMiddleware(router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Messaging Service running on port %s", app.Config.Server.MessagingServicePort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down Messaging Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	app.Outbox.Shutdown()
	log.Println("Messaging Service stopped")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s completed (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}
