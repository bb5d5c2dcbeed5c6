package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moeinovic/bassuli/internal/config"
	"github.com/moeinovic/bassuli/internal/database"
	"github.com/moeinovic/bassuli/internal/duel"
	"github.com/moeinovic/bassuli/internal/handlers"
	"github.com/moeinovic/bassuli/internal/middleware"
	"github.com/moeinovic/bassuli/internal/services"
	"github.com/moeinovic/bassuli/internal/telegram"
	"github.com/moeinovic/bassuli/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           Duel Arena API
// @version         1.0
// @description     Duels between chat members and per-chat leaderboards
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("database", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("database", "error", err)
		os.Exit(1)
	}

	ordering, direction, err := services.ParseVariant(cfg.Ledger.Variant)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	hub := ws.NewHub(logger)

	ledger := services.NewStakeLedger(db, services.LedgerConfig{
		InitialValue:   cfg.Ledger.InitialValue,
		Ordering:       ordering,
		RankingEnabled: cfg.Features.RankDisplay,
	})
	ranking := services.NewRankingService(db, services.RankingConfig{
		Ordering:          ordering,
		PaginationEnabled: cfg.Features.TopUnlimited,
	})
	statsService := services.NewBattleStatsService(db)
	participantService := services.NewParticipantService(db)
	authService := services.NewAuthService(cfg.JWTSecret)
	arbiter := duel.NewArbiter(ledger, statsService, participantService, duel.WithLogger(logger))
	rules := duel.Rules{CheckAcceptor: cfg.Features.CheckAcceptor, Direction: direction}

	authHandler := handlers.NewAuthHandler(authService)
	duelHandler := handlers.NewDuelHandler(arbiter, rules, hub, logger)
	leaderboardHandler := handlers.NewLeaderboardHandler(ranking, ledger, statsService, cfg.TopLimit, logger)
	ledgerHandler := handlers.NewLedgerHandler(ledger, hub, logger)
	wsHandler := handlers.NewWSHandler(hub, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Bot-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/ws/scope/:scope", wsHandler.HandleWebSocket)

	var bot *telegram.Bot
	if cfg.BotToken != "" && cfg.WebhookBaseURL != "" {
		client := telegram.NewClient(cfg.BotToken)
		updates := telegram.NewUpdateHandler(client, arbiter, ledger, ranking, participantService, hub, telegram.Options{
			Features:  cfg.Features,
			Direction: direction,
			TopLimit:  cfg.TopLimit,
		}, logger)
		bot = telegram.NewBot(cfg.BotToken, client, updates, cfg.WebhookBaseURL, cfg.WebhookSecret, logger)
		r.POST("/webhook/bot/:secret", bot.HandleWebhook)
	} else {
		logger.Info("BOT_TOKEN or WEBHOOK_BASE_URL not set, bot disabled")
	}

	api := r.Group("/api/v1")
	{
		botAPI := api.Group("")
		botAPI.Use(middleware.BotAuth(cfg.BotAPIKey))
		{
			botAPI.POST("/auth/operator-token", authHandler.IssueOperatorToken)
			botAPI.POST("/duels", duelHandler.CreateDuel)
			botAPI.POST("/duels/accept", duelHandler.AcceptDuel)
		}

		scopes := api.Group("/scopes/:scope")
		{
			scopes.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
			scopes.GET("/participants/:id", leaderboardHandler.GetParticipant)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.OperatorAuth(authService))
		{
			admin.POST("/scopes/:scope/adjust", ledgerHandler.Adjust)
		}
	}

	srv := &http.Server{Addr: ":" + cfg.ServerPort, Handler: r}
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	if bot != nil {
		if err := bot.Start(); err != nil {
			logger.Error("bot", "error", err)
		} else {
			defer bot.Stop()
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
