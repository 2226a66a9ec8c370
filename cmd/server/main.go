package main

import (
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/reelcut/reelcut/internal/api"
	"github.com/reelcut/reelcut/internal/database"
	"github.com/reelcut/reelcut/internal/logging"
	"github.com/reelcut/reelcut/internal/media"
	"github.com/reelcut/reelcut/internal/reels"
	"github.com/reelcut/reelcut/internal/sentiment"
	"github.com/reelcut/reelcut/internal/session"
	"github.com/reelcut/reelcut/internal/storage"
	"github.com/reelcut/reelcut/internal/transcribe"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	logging.Init(os.Getenv("LOG_VERBOSE") == "1")
	log := logging.WithComponent("server")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	maxUploadSize := os.Getenv("MAX_UPLOAD_SIZE")
	if maxUploadSize == "" {
		maxUploadSize = "524288000"
	}
	maxSize, err := strconv.ParseInt(maxUploadSize, 10, 64)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid MAX_UPLOAD_SIZE")
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	workDir := os.Getenv("WORK_DIR")
	if workDir == "" {
		workDir = "./work"
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal().Msg("SESSION_SECRET is required")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal().Msg("OPENAI_API_KEY is required")
	}

	topN := reels.DefaultTopN
	if topNStr := os.Getenv("SEGMENTS_PER_REEL"); topNStr != "" {
		if n, err := strconv.Atoi(topNStr); err == nil && n > 0 {
			topN = n
		}
	}

	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var dbConfig database.Config
	dbConfig.Type = dbType

	if dbType == "postgres" {
		dbConfig.Host = os.Getenv("DB_HOST")
		if dbConfig.Host == "" {
			dbConfig.Host = "localhost"
		}

		dbPortStr := os.Getenv("DB_PORT")
		if dbPortStr == "" {
			dbPortStr = "5432"
		}
		dbPort, err := strconv.Atoi(dbPortStr)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid DB_PORT")
		}
		dbConfig.Port = dbPort

		dbConfig.User = os.Getenv("DB_USER")
		if dbConfig.User == "" {
			dbConfig.User = "reelcut"
		}

		dbConfig.Password = os.Getenv("DB_PASSWORD")
		if dbConfig.Password == "" {
			dbConfig.Password = "reelcut_dev"
		}

		dbConfig.Name = os.Getenv("DB_NAME")
		if dbConfig.Name == "" {
			dbConfig.Name = "reelcut"
		}
	} else {
		dbConfig.SQLitePath = os.Getenv("DB_PATH")
		if dbConfig.SQLitePath == "" {
			dbConfig.SQLitePath = "./reelcut.db"
		}
	}

	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	db, err := database.NewDB(dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}
	if err := db.RunMigrations(migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	videoTool, err := media.NewTool()
	if err != nil {
		log.Fatal().Err(err).Msg("ffmpeg and ffprobe are required")
	}

	generator := reels.NewGenerator(
		videoTool,
		transcribe.NewClient(apiKey),
		sentiment.NewOpenAIClassifier(apiKey),
		topN,
		workDir,
	)

	app := &api.App{
		Storage:       localStorage,
		DB:            db,
		UserRepo:      database.NewUserRepository(db),
		ReelRepo:      database.NewReelRepository(db),
		Sessions:      session.NewManager(sessionSecret),
		Generator:     generator,
		MaxUploadSize: maxSize,
		Logger:        logging.WithComponent("api"),
	}

	router := api.NewRouter(app)

	log.Info().
		Str("port", port).
		Str("upload_dir", uploadDir).
		Str("db_type", dbType).
		Int64("max_upload_size", maxSize).
		Msg("server starting")

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
