package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dileepkumar18311/ChatApp/internal/auth"
	"github.com/Dileepkumar18311/ChatApp/internal/config"
	"github.com/Dileepkumar18311/ChatApp/internal/database"
	"github.com/Dileepkumar18311/ChatApp/internal/handlers"
	"github.com/Dileepkumar18311/ChatApp/internal/presence"
	"github.com/Dileepkumar18311/ChatApp/internal/services"
	"github.com/Dileepkumar18311/ChatApp/internal/websocket"
	"github.com/Dileepkumar18311/ChatApp/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens.
func run() int {
	// Load configuration
	cfg := config.Load()
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))

	// Initialize database
	ctx := context.Background()
	db, err := database.NewPostgresDB(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		return 1
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(); err != nil {
			logger.Error("Failed to run migrations: %v", err)
			return 1
		}
	}

	// Initialize services
	authService := auth.NewService(db, cfg.JWT)
	userService := services.NewUserService(db)
	messageService := services.NewMessageService(db, cfg.History)

	// Initialize realtime hub
	hub := websocket.NewHub(authService, messageService, presence.NewRegistry(), cfg.Realtime)

	router := handlers.NewRouter(handlers.Routes{
		Auth:           handlers.NewAuthHandlers(authService),
		Users:          handlers.NewUserHandlers(userService),
		Messages:       handlers.NewMessageHandlers(messageService, hub),
		WebSocket:      handlers.NewWebSocketHandlers(hub, cfg.Server.AllowedOrigins),
		Health:         handlers.NewHealthHandlers(hub),
		Verifier:       authService,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)
	printAPIEndpoints()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a listener failure to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	code := 0
	select {
	case <-quit:
		logger.Info("Server shutting down...")
	case err := <-serverErr:
		logger.Error("Server error: %v", err)
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop accepting upgrades first; hijacked websockets are not tracked by
	// Shutdown, so the hub closes them afterwards.
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	if err := hub.Close(shutdownCtx); err != nil {
		logger.Error("Closing websocket connections: %v", err)
	}
	logger.Info("Server stopped")
	return code
}

func printAPIEndpoints() {
	logger.Info("API endpoints:")
	logger.Info("   GET  /health")
	logger.Info("   POST /signup")
	logger.Info("   POST /login")
	logger.Info("   GET  /profile")
	logger.Info("   PUT  /profile")
	logger.Info("   PUT  /profile/password")
	logger.Info("   GET  /users")
	logger.Info("   GET  /conversations")
	logger.Info("   GET  /messages/{receiverId}")
	logger.Info("   POST /messages")
}
