package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/fmckeffi/healthdesk/backend/internal/analysis/medical"
	"github.com/fmckeffi/healthdesk/backend/internal/config"
	"github.com/fmckeffi/healthdesk/backend/internal/handler"
	"github.com/fmckeffi/healthdesk/backend/internal/model/admin"
	"github.com/fmckeffi/healthdesk/backend/internal/model/professional"
	"github.com/fmckeffi/healthdesk/backend/internal/observability"
	"github.com/fmckeffi/healthdesk/backend/internal/service/auth"
	"github.com/fmckeffi/healthdesk/backend/internal/service/chat"
	"github.com/fmckeffi/healthdesk/backend/internal/service/completion"
	"github.com/fmckeffi/healthdesk/backend/internal/service/referral"
	"github.com/fmckeffi/healthdesk/backend/internal/service/session"
	"github.com/fmckeffi/healthdesk/backend/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("healthdesk-api", cfg.Server.Env)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded, using system environment only")
	}

	lexicon, err := medical.LoadLexicon(cfg.Lexicon.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Lexicon.Path).Msg("failed to load medical lexicon")
	}

	var (
		professionals professional.Store = professional.NewMemoryStore(nil)
		admins        admin.Store        = admin.NewMemoryStore()
		dbChecker     handler.HealthChecker
	)
	if cfg.Database.Enabled {
		pool, err := connectDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize database")
		}
		defer pool.Close()

		professionals = postgres.NewProfessionalStore(pool)
		admins = postgres.NewAdminStore(pool)
		dbChecker = pool
		log.Info().Msg("database connected")
	} else {
		log.Warn().Msg("database disabled, medical directory and admins are kept in memory")
	}

	var sessions session.Store = session.NewMemoryStore()
	if cfg.Session.UseRedis() {
		client, err := session.NewRedisClient(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Session.RedisAddr).Msg("failed to initialize session store")
		}
		defer client.Close()

		sessions = session.NewRedisStore(client)
		log.Info().Str("addr", cfg.Session.RedisAddr).Msg("sessions stored in redis")
	}

	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", string(cfg.LLM.Provider)).Msg("failed to initialize completion client")
	}

	authService := auth.NewService(admins, sessions, cfg.Session.TTL)
	if cfg.Admin.Bootstrap() {
		bootstrapAdmin(ctx, authService, admins, cfg.Admin)
	}

	chatService := chat.NewService(lexicon, completer, referral.NewService(professionals))

	router := handler.NewRouter(handler.Dependencies{
		Chat:           chatService,
		Auth:           authService,
		Professionals:  professionals,
		DB:             dbChecker,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		SessionCookie:  cfg.Session.CookieName,
		SecureCookie:   cfg.Server.Production(),
	})

	startServer(ctx, cfg.Server, router)
}

func connectDatabase(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := postgres.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newCompleter(ctx context.Context, cfg *config.Config) (completion.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", cfg.AI.Model).Msg("ark completion client initialized")
		return completion.NewEinoClient(chatModel)
	default:
		if !cfg.LLM.Enabled() {
			log.Warn().Msg("GROQ_API_KEY is empty, replies will fall back to the generic answer")
		}
		chatModel, err := cfg.LLM.NewChatModel(ctx)
		if err != nil {
			return nil, err
		}
		log.Info().Str("model", cfg.LLM.Model).Msg("groq completion client initialized")
		return completion.NewEinoClient(chatModel)
	}
}

func bootstrapAdmin(ctx context.Context, authService *auth.Service, admins admin.Store, cfg config.AdminConfig) {
	if _, err := admins.FindByEmail(ctx, cfg.Email); err == nil {
		return
	} else if !errors.Is(err, admin.ErrNotFound) {
		log.Error().Err(err).Msg("failed to look up bootstrap admin")
		return
	}

	created, err := authService.CreateAdmin(ctx, cfg.Email, cfg.Password)
	if err != nil {
		log.Error().Err(err).Str("email", cfg.Email).Msg("failed to create bootstrap admin")
		return
	}
	log.Info().Str("admin_id", created.AdminID).Msg("bootstrap admin created")
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", serverCfg.Addr).Str("env", serverCfg.Env).Msg("health portal backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
