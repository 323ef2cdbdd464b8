package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quizroom/auth"
	"quizroom/chat"
	"quizroom/config"
	"quizroom/crypto"
	"quizroom/game"
	"quizroom/migrations"
	"quizroom/profile"
	"quizroom/storage"
)

func NewLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Logger()
	if debug {
		return logger.Level(zerolog.DebugLevel)
	}
	return logger.Level(zerolog.InfoLevel)
}

func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		log.Info().
			Str("method", ctx.Request.Method).
			Str("path", ctx.Request.URL.Path).
			Int("status", ctx.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies([]string{"127.0.0.1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"})
	r.GET("/health", func(ctx *gin.Context) { ctx.String(200, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")

		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
	}))

	return r
}

// NewRouter assembles the full application on top of the given store.
// Tests drive it against a memory store.
func NewRouter(cfg config.Config, store storage.KeyValueStore, log zerolog.Logger) *gin.Engine {
	serializer := storage.NewKeyedSerializer()

	passwordHasher := crypto.NewArgon2idHasher(3, 1024*64, 32, 16, 1)
	tokenManager := crypto.NewJWTManager(cfg.JWTKey, cfg.TokenAge)

	profileService := profile.NewService(store, serializer, log)
	authService := auth.NewService(store, serializer, profileService, passwordHasher, tokenManager)
	gameService := game.NewService(store, serializer, game.NewQuestionBank(), profileService, game.UUIDGenerator{}, cfg.AnswerWindow, log)
	chatService := chat.NewService(store, serializer)

	authHandler := auth.NewHandler(authService, log)
	gameHandler := game.NewHandler(gameService, log)
	chatHandler := chat.NewHandler(chatService, log)
	profileHandler := profile.NewHandler(profileService, log)

	r := CreateServer(cfg.AllowedOrigins)
	r.Use(RequestLogger(log))

	r.POST("/signup", authHandler.SignupHandler)
	r.POST("/login", authHandler.LoginHandler)

	requireAuth := authHandler.RequireAuth()

	{
		rooms := r.Group("/rooms")
		rooms.POST("/create", requireAuth, gameHandler.CreateRoomHandler)
		rooms.POST("/:roomid/join", requireAuth, gameHandler.JoinRoomHandler)
		rooms.POST("/:roomid/start", requireAuth, gameHandler.StartGameHandler)
		rooms.POST("/:roomid/answer", requireAuth, gameHandler.SubmitAnswerHandler)
		rooms.POST("/:roomid/next", requireAuth, gameHandler.AdvanceQuestionHandler)
		rooms.GET("/:roomid", gameHandler.GetRoomHandler)

		rooms.POST("/:roomid/chat", requireAuth, chatHandler.SendChatHandler)
		rooms.GET("/:roomid/chat", chatHandler.ListChatHandler)
	}

	r.GET("/profile", requireAuth, profileHandler.GetProfileHandler)
	r.GET("/rankings", profileHandler.GetRankingsHandler)

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log := NewLogger(true)
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log := NewLogger(cfg.Debug)
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	var store storage.KeyValueStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if err := migrations.Migrate(cfg.PostgresURL); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		pgStore, err := storage.NewPostgresStore(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres connection failed")
		}
		defer pgStore.Close()
		store = pgStore
	case config.BackendRedis:
		store = storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		log.Warn().Msg("using the in-memory store, all state is lost on restart")
		store = storage.NewMemoryStore()
	}

	r := NewRouter(cfg, store, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreBackend).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, os.Interrupt)
	<-sigCh

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
