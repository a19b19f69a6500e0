package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"spotcu/internal/auth"
	"spotcu/internal/db"
	"spotcu/internal/store"
	"spotcu/internal/uploads"
	"spotcu/internal/webhook"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

const tokenIssuer = "spotcu"

func envString(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
		fmt.Println("Invalid", key+", defaulting to", fallback)
	}
	return fallback
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func main() {
	// .env is optional; container deployments inject real env vars
	_ = godotenv.Load()

	cfg := config{
		port: envInt("PORT", 3000),
		env:  envString("ENV", "development"),
		db: dbConfig{
			addr:         os.Getenv("DATABASE_URL"),
			maxOpenConns: envInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleConns: envInt("DB_MAX_IDLE_CONNS", 30),
			maxIdleTime:  envString("DB_MAX_IDLE_TIME", "15m"),
		},
		admin: adminConfig{
			// Fallbacks exist so a fresh checkout boots; any real
			// deployment overrides all three.
			password:   envString("ADMIN_PASSWORD", "spotcu2024"),
			secret:     envString("JWT_SECRET", "spotcu-admin-secret-key-2024"),
			blogAPIKey: envString("BLOG_API_KEY", "spotcu-blog-api-key-2024"),
		},
		webhookURL: os.Getenv("WEBHOOK_URL"),
		uploadDir:  envString("UPLOAD_DIR", "public/uploads"),
	}

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database is optional: the site serves a degraded catalog (empty
	// reads, refused writes) rather than crash when misconfigured.
	storage := store.NewStorage(nil)
	if cfg.db.addr == "" {
		logger.Warn("no DATABASE_URL configured, running without a database")
	} else {
		conn, err := db.New(cfg.db.addr, cfg.db.maxOpenConns, cfg.db.maxIdleConns, cfg.db.maxIdleTime)
		if err != nil {
			logger.Warnw("database connection failed, running without a database", "error", err)
		} else {
			defer conn.Close()
			logger.Info("database connection pool established")
			storage = store.NewStorage(conn)

			if err := storage.Categories.SeedDefaults(context.Background(), store.DefaultCategories()); err != nil {
				logger.Warnw("failed to seed default categories", "error", err)
			}
		}
	}

	uploadStore, err := uploads.NewStore(cfg.uploadDir, logger)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infow("upload directory ready", "dir", uploadStore.Root())

	notifier := webhook.NewNotifier(cfg.webhookURL, logger)

	jwtAuthenticator := auth.NewJWTAuthenticator(cfg.admin.secret, tokenIssuer)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         storage,
		uploads:       uploadStore,
		webhook:       notifier,
		authenticator: jwtAuthenticator,
	}

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
