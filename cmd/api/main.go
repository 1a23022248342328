package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/describo/describo-backend/internal/config"
	"github.com/describo/describo-backend/internal/gemini"
	"github.com/describo/describo-backend/internal/logging"
	miniorepo "github.com/describo/describo-backend/internal/repository/minio"
	"github.com/describo/describo-backend/internal/repository/ports"
	"github.com/describo/describo-backend/internal/repository/postgres"
	"github.com/describo/describo-backend/internal/service"
	transporthttp "github.com/describo/describo-backend/internal/transport/http"
	"github.com/describo/describo-backend/internal/transport/mail"
	"github.com/describo/describo-backend/internal/util"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepo(db)
	resetRepo := postgres.NewResetTokenRepo(db)
	descriptionRepo := postgres.NewDescriptionRepo(db)

	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		client, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to object storage")
		}
		storage = miniorepo.NewStorage(client, cfg.MinIOPublicURL, cfg.MinIOUseSSL)
	} else {
		logger.Warn().Msg("object storage not configured, description images will not be stored")
	}

	mailer := mail.NewPasswordResetMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	generator := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)

	authService := service.NewAuthService(accountRepo, resetRepo, mailer, jwtManager, logger, cfg.PasswordResetTTL, cfg.PasswordResetOTPLength)
	contentService := service.NewContentService(descriptionRepo, storage, generator, logger, cfg.MinIOBucketImages)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedAccount(seedCtx, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		logger.Warn().Err(err).Msg("seed admin account")
	}
	cancel()

	e := transporthttp.NewRouter(cfg.AllowOrigins, logger)
	transporthttp.NewAuthHandler(authService).Register(e)
	transporthttp.NewContentHandler(contentService, authService).Register(e)
	transporthttp.RegisterSwagger(e)

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	var out io.Writer = os.Stdout
	if cfg.LogstashTCPAddr != "" {
		if mirror, err := logging.NewWriter(cfg.LogstashTCPAddr); err == nil {
			out = zerolog.MultiLevelWriter(os.Stdout, mirror)
		}
	}
	return zerolog.New(out).With().Timestamp().Str("service", "describo-api").Logger()
}
