package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/api"
	"github.com/tahcohcat/studyquest/internal/auth"
	"github.com/tahcohcat/studyquest/internal/coach"
	"github.com/tahcohcat/studyquest/internal/database"
	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/llm/provider"
	"github.com/tahcohcat/studyquest/internal/logger"
	"github.com/tahcohcat/studyquest/internal/models"
	"github.com/tahcohcat/studyquest/internal/progression"
	"github.com/tahcohcat/studyquest/internal/services"
	"github.com/tahcohcat/studyquest/internal/tts"
	"github.com/tahcohcat/studyquest/internal/websocket"
)

var (
	cfg *config.Config

	grantUser   string
	grantRarity string
)

func main() {
	root := &cobra.Command{
		Use:           "studyquest",
		Short:         "Gamified learning-habit tracker API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return logger.Init(cfg.Log)
		},
		RunE: runServe,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server (default)",
		RunE:  runServe,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			logger.New().With("path", cfg.Database.Path).Info("Schema is up to date")
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the default achievements and daily quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return db.Seed(cmd.Context())
		},
	}

	grantCmd := &cobra.Command{
		Use:   "grant-box",
		Short: "Give a user an unopened mystery box",
		RunE:  runGrantBox,
	}
	grantCmd.Flags().StringVar(&grantUser, "user", "", "user ID to receive the box")
	grantCmd.Flags().StringVar(&grantRarity, "rarity", string(models.RarityCommon), "common, rare, epic or legendary")
	_ = grantCmd.MarkFlagRequired("user")

	root.AddCommand(serveCmd, migrateCmd, seedCmd, grantCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func openDB() (*database.DB, error) {
	db, err := database.NewDB(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func location() *time.Location {
	tz := cfg.Progression.Timezone
	if tz == "" || tz == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		logger.New().With("timezone", tz).WithError(err).Warn("Unknown timezone, using local time")
		return time.Local
	}
	return loc
}

func serviceOptions(notifier services.Notifier) services.Options {
	return services.Options{
		Engine:   progression.NewEngine(progression.ThresholdLevels(cfg.Progression.LevelThresholds)),
		Notifier: notifier,
		Roller:   progression.NewRandomRoller(nil),
		Location: location(),
	}
}

func runGrantBox(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	boxes := services.NewMysteryBoxService(db, serviceOptions(nil))
	box, err := boxes.Grant(cmd.Context(), grantUser, models.BoxRarity(grantRarity))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "granted %s box %s to %s\n", box.Rarity, box.ID, box.UserID)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Seed(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	hub := websocket.NewHub(originChecker(cfg.Server.AllowedOrigins))
	go hub.Run()
	defer hub.Stop()

	opts := serviceOptions(hub)
	users := services.NewUserService(db, opts)
	posts := services.NewPostService(db, opts)
	achievements := services.NewAchievementService(db, opts)
	motivation := services.NewMotivationService(db, opts)
	goals := services.NewGoalService(db, opts)

	model, err := provider.New(cfg)
	if err != nil {
		log.WithError(err).Warn("LLM provider not configured, coach requests will fail")
		model = llm.Unavailable{Err: err}
	} else {
		go checkModel(model)
	}

	var cache coach.Cache = coach.NopCache{}
	if cfg.Redis.Addr != "" {
		rc := coach.NewRedisCache(cfg.Redis)
		defer rc.Close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.With("addr", cfg.Redis.Addr).WithError(err).Warn("Redis not reachable, briefings will be regenerated until it is")
		}
		cancel()
		cache = rc
	}

	coachSvc := coach.New(model, users, motivation, goals, coach.Options{
		Locale:            coach.Locale(cfg.Coach.Locale),
		RequestsPerMinute: cfg.Coach.RequestsPerMinute,
		BriefingTTL:       time.Duration(cfg.Coach.BriefingCacheTTL) * time.Minute,
		Cache:             cache,
		Location:          opts.Location,
	})

	var speaker tts.Speaker = tts.NewDummyTts()
	if cfg.Tts.Enabled {
		g, err := tts.NewGoogleTTS(cmd.Context(), cfg.Tts)
		if err != nil {
			log.WithError(err).Warn("Google TTS unavailable, briefing audio disabled")
		} else {
			defer g.Close()
			speaker = g
		}
	}

	router := api.NewRouter(api.Deps{
		Auth:         auth.NewManager(cfg.Auth),
		Users:        users,
		Posts:        posts,
		Quests:       services.NewQuestService(db, opts),
		Achievements: achievements,
		Boxes:        services.NewMysteryBoxService(db, opts),
		Goals:        goals,
		Motivation:   motivation,
		Dashboard:    services.NewDashboardService(users, achievements, posts, motivation),
		Coach:        coachSvc,
		Speaker:      speaker,
		Hub:          hub,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.With("port", cfg.Server.Port).With("database", cfg.Database.Path).With("llm", cfg.LLM.Provider).Info("StudyQuest server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

func checkModel(model llm.LLM) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := model.IsModelAvailable(ctx); err != nil {
		logger.New().WithError(err).Warn("Configured model is not available")
	}
}

// originChecker accepts websocket upgrades from the CORS origins and from
// clients that send no Origin header.
func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin) || slices.Contains(allowed, "*")
	}
}
