package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabao-quiz-service/internal/app"
	"cabao-quiz-service/internal/config"
	geminihints "cabao-quiz-service/internal/infra/gemini"
	"cabao-quiz-service/internal/infra/memory"
	"cabao-quiz-service/internal/infra/postgres"
	redisinfra "cabao-quiz-service/internal/infra/redis"
	transport "cabao-quiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var questions app.QuestionRepository = memory.NewQuestionRepository(SeedQuestions())
	if pool != nil {
		questions = postgres.NewQuestionRepository(pool)
	}
	questionTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	if redisClient != nil {
		questions = redisinfra.NewQuestionCache(redisClient, questions, questionTTL)
	}

	var leaderboard app.LeaderboardRepository = memory.NewLeaderboardRepository()
	switch {
	case pool != nil:
		leaderboard = postgres.NewLeaderboardRepository(pool)
	case redisClient != nil:
		leaderboard = redisinfra.NewLeaderboardRepository(redisClient)
	}

	var players app.PlayerStore = memory.NewPlayerStore()
	if redisClient != nil {
		players = redisinfra.NewPlayerStore(redisClient, redisTTL)
	}

	var hints app.HintProvider = memory.NewStaticHintProvider()
	if cfg.Gemini.APIKey != "" {
		gemini, err := geminihints.NewHintProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return err
		}
		hints = gemini
	} else {
		log.Printf("no gemini api key configured, serving canned hints")
	}

	service := app.NewGameService(
		leaderboard,
		questions,
		memory.NewMatchStore(),
		players,
		hints,
		app.NewSecretAuthorizer(cfg.Admin.Secret),
	)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting cabao quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
