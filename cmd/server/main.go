package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lalith-99/clubhub/internal/api"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/chatbot"
	"github.com/lalith-99/clubhub/internal/config"
	"github.com/lalith-99/clubhub/internal/db"
	"github.com/lalith-99/clubhub/internal/filestore"
	"github.com/lalith-99/clubhub/internal/fixtures"
	"github.com/lalith-99/clubhub/internal/observ"
	"github.com/lalith-99/clubhub/internal/realtime"
	"github.com/lalith-99/clubhub/internal/repository"
	"github.com/lalith-99/clubhub/internal/repository/postgres"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	reapInterval    = time.Minute
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "clubhub",
	Short:        "Campus club community server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures [path]",
	Short: "Check a seed file and print what it contains",
	Long:  "Loads the seed at path, or the built-in seed when no path is given, and reports how many of each entity it resolves to.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		fx, err := loadFixtures(path, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Users:           %d\n", len(fx.Users))
		fmt.Fprintf(out, "Clubs:           %d\n", len(fx.Clubs))
		fmt.Fprintf(out, "Channels:        %d\n", len(fx.Channels))
		fmt.Fprintf(out, "Messages:        %d\n", len(fx.Messages))
		fmt.Fprintf(out, "Sessions:        %d\n", len(fx.Sessions))
		fmt.Fprintf(out, "Resources:       %d\n", len(fx.Resources))
		fmt.Fprintf(out, "Direct messages: %d\n", len(fx.DirectMessages))
		fmt.Fprintf(out, "Demo login:      %s (user %s)\n", fx.Demo.Email, fx.Demo.UserID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, fixturesCmd)
}

func loadFixtures(path string, now time.Time) (*fixtures.Fixtures, error) {
	if path == "" {
		return fixtures.Default(now)
	}
	return fixtures.LoadFile(path, now)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---------------------------------------------------------------
	// 1. Config and logger
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 2. Seed data and file storage
	// ---------------------------------------------------------------
	fx, err := loadFixtures(cfg.FixturesPath, time.Now())
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}
	files, err := filestore.New(ctx, filestore.Config{
		Type:      cfg.StorageType,
		LocalRoot: cfg.StorageLocalRoot,
		PublicURL: cfg.StoragePublicURL,
		S3: filestore.S3Config{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		},
	})
	if err != nil {
		return fmt.Errorf("create file store: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	// ---------------------------------------------------------------
	// 3. Realtime fan-out. With REDIS_URL every instance's clients see
	//    every instance's events; without it events stay local.
	// ---------------------------------------------------------------
	hub := realtime.NewHub(logger)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	var publisher app.Publisher = hub
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		bridge := realtime.NewRedisBridge(rdb, realtime.DefaultRedisChannel, hub, logger)
		g.Go(func() error { return bridge.Run(gctx) })
		publisher = bridge
	}

	// ---------------------------------------------------------------
	// 4. Application state
	// ---------------------------------------------------------------
	authn, err := app.NewDemoAuthenticator(fx.Demo, cfg.AuthLatency)
	if err != nil {
		return fmt.Errorf("create authenticator: %w", err)
	}
	state, err := app.New(fx, app.Options{
		Authenticator: authn,
		Publisher:     publisher,
		Blobs:         files,
		Logger:        logger,
		AuthLatency:   cfg.AuthLatency,
	})
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}

	// ---------------------------------------------------------------
	// 5. Optional persistence: resume from the last snapshot, then save
	//    periodically and once more on shutdown.
	// ---------------------------------------------------------------
	var pinger api.Pinger
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()
		pinger = database

		snapshots := postgres.NewSnapshotStore(database.Pool())
		if err := snapshots.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		resumed, err := repository.Resume(ctx, snapshots, state)
		if err != nil {
			return err
		}
		logger.Info("state loaded", zap.Bool("resumed_from_snapshot", resumed))

		g.Go(func() error {
			return repository.Autosave(gctx, snapshots, state, cfg.SnapshotInterval, shutdownTimeout, logger)
		})
	}

	// ---------------------------------------------------------------
	// 6. Chatbot. Without a key every prompt gets the missing-key banner.
	// ---------------------------------------------------------------
	var gen chatbot.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := chatbot.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return fmt.Errorf("create gemini client: %w", err)
		}
		gen = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, chatbot disabled")
	}
	bot := chatbot.New(gen, chatbot.Options{
		Timeout:    cfg.ChatbotTimeout,
		MaxRetries: cfg.ChatbotMaxRetries,
	}, logger)

	// Workspaces whose token has expired are closed along with their
	// chatbot transcript.
	g.Go(func() error {
		state.RunReaper(gctx, reapInterval, bot.Clear)
		return nil
	})

	// ---------------------------------------------------------------
	// 7. HTTP server
	// ---------------------------------------------------------------
	router := api.NewRouter(api.Deps{
		State:     state,
		Files:     files,
		Bot:       bot,
		Hub:       hub,
		DB:        pinger,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		Logger:    logger,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("starting ClubHub",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.StorageType),
			zap.Bool("redis", cfg.RedisURL != ""),
			zap.Bool("persistence", cfg.DatabaseURL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
