package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/iris/internal/application/account"
	"github.com/amirhosseinghanipour/iris/internal/application/auth"
	"github.com/amirhosseinghanipour/iris/internal/application/membership"
	"github.com/amirhosseinghanipour/iris/internal/application/ports"
	"github.com/amirhosseinghanipour/iris/internal/application/project"
	"github.com/amirhosseinghanipour/iris/internal/config"
	infraauth "github.com/amirhosseinghanipour/iris/internal/infrastructure/auth"
	httprouter "github.com/amirhosseinghanipour/iris/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/lockout"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/oauth"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/persistence/memory"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/security"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/webhook"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

type repositories struct {
	accounts ports.AccountRepository
	projects ports.ProjectRepository
	requests ports.JoinRequestRepository
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.IsProduction() {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}
	log := newLogger(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.EphemeralSecret {
		log.Warn().Msg("JWT_SECRET not set; using an ephemeral secret, sessions will not survive a restart")
	}

	ctx := context.Background()
	checks := map[string]handlers.Pinger{}

	var repos repositories
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if err := postgres.Migrate(ctx, cfg.Store.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		pool, err := pgxpool.New(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			log.Fatal().Err(err).Msg("ping database")
		}
		checks["database"] = pool
		repos = repositories{
			accounts: postgres.NewAccountRepository(pool),
			projects: postgres.NewProjectRepository(pool),
			requests: postgres.NewJoinRequestRepository(pool),
		}
	default:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		repos = repositories{
			accounts: store.Accounts(),
			projects: store.Projects(),
			requests: store.JoinRequests(),
		}
	}

	var emitter ports.WebhookEmitter = webhook.NewNoopEmitter()
	if cfg.Webhook.URL != "" {
		emitter = webhook.NewHTTPEmitter(cfg.Webhook.URL, webhook.WithSecret(cfg.Webhook.Secret))
	}

	var taskEnqueuer ports.TaskEnqueuer = queue.NewNoopEnqueuer()
	var auditEmitter = emitter
	var asynqWorker *queue.Worker
	if cfg.Redis.URL != "" {
		redisOpt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient := redis.NewClient(redisOpt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without background jobs")
		} else {
			checks["redis"] = handlers.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			})
			asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
			asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
			defer asynqEnq.Close()
			taskEnqueuer = asynqEnq
			if cfg.Webhook.URL != "" {
				auditEmitter = queue.NewAsyncEmitter(asynqEnq)
			}
			asynqWorker = queue.NewWorker(asynqOpt, emitter, log)
			go func() {
				if err := asynqWorker.Run(); err != nil {
					log.Warn().Err(err).Msg("asynq worker stopped")
				}
			}()
		}
	}
	audit := handlers.NewAuditor(log, auditEmitter)

	hasher := security.NewArgon2Hasher(security.Argon2Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	codec, err := infraauth.NewSessionCodec([]byte(cfg.JWT.Secret), cfg.JWT.Issuer, infraauth.WithTTL(cfg.JWT.SessionTTL))
	if err != nil {
		log.Fatal().Err(err).Msg("create session codec")
	}
	loginLockout := lockout.NewMemoryStore(cfg.Lockout.MaxAttempts, cfg.Lockout.CooldownSeconds)
	github := oauth.NewGitHub(oauth.GitHubConfig{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		CallbackURL:  cfg.GitHub.RedirectURL,
		Scopes:       cfg.GitHub.Scopes,
	})

	resolveIdentity := auth.NewResolveIdentity(codec, repos.accounts)
	signInUC := auth.NewSignIn(repos.accounts, hasher, codec, loginLockout)
	federatedLoginUC := auth.NewFederatedLogin(github, repos.accounts, codec)
	var devLoginUC *auth.DevLogin
	if cfg.Server.DevLogin {
		devLoginUC = auth.NewDevLogin(repos.accounts, codec)
		log.Warn().Msg("development login enabled at POST /auth/test-login")
	}

	authHandler := handlers.NewAuthHandler(signInUC, devLoginUC, audit)
	oauthHandler := handlers.NewOAuthHandler(federatedLoginUC,
		handlers.NewOAuthStateStore(cfg.GitHub.StateSecret, cfg.IsProduction()), audit)
	usersHandler := handlers.NewUsersHandler(account.NewMe(repos.accounts))
	projectsHandler := handlers.NewProjectsHandler(handlers.ProjectsDeps{
		CreateRequest: membership.NewCreateJoinRequest(repos.projects, repos.requests, repos.accounts, taskEnqueuer),
		ListRequests:  membership.NewListJoinRequests(repos.projects, repos.requests, repos.accounts),
		Decide: membership.NewDecideJoinRequest(repos.projects, repos.requests, repos.accounts, taskEnqueuer,
			membership.DecideOptions{AllowRedecide: cfg.Membership.AllowRedecide}),
		Get:          project.NewGetProject(repos.projects),
		Mine:         project.NewListMemberProjects(repos.projects),
		RemoveMember: project.NewRemoveMember(repos.projects, repos.accounts),
	}, audit)
	adminHandler := handlers.NewAdminHandler(handlers.AdminDeps{
		CreateAccount: account.NewCreateAccount(repos.accounts, hasher),
		UpdateRole:    account.NewUpdateRole(repos.accounts),
		DeleteAccount: account.NewDeleteAccount(repos.accounts, repos.projects, repos.requests),
		CreateProject: project.NewCreateProject(repos.projects, repos.accounts),
		SetLead:       project.NewSetLead(repos.projects, repos.accounts),
		AssignMember:  project.NewAssignMember(repos.projects, repos.accounts),
		RemoveMember:  project.NewRemoveMember(repos.projects, repos.accounts),
		DeleteProject: project.NewDeleteProject(repos.projects, repos.accounts, repos.requests),
	}, audit)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.Server.RateLimitIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	accountLimit, err := middleware.NewAccountRateLimiter(cfg.Server.RateLimitAccount)
	if err != nil {
		log.Fatal().Err(err).Msg("create account rate limiter")
	}

	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:     authHandler,
		OAuthHandler:    oauthHandler,
		UsersHandler:    usersHandler,
		ProjectsHandler: projectsHandler,
		AdminHandler:    adminHandler,
		HealthHandler:   handlers.NewHealthHandler(checks),
		Resolver:        resolveIdentity,
		Log:             log,
		Version:         version,
		Secure:          middleware.NewSecure(middleware.SecureOptions(!cfg.IsProduction())),
		CORS:            middleware.CORS(cfg.Server.CORSOrigins, nil, nil),
		IPRateLimit:     ipLimit,
		AccountLimit:    accountLimit,
		Metrics:         true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
