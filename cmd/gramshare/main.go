package main

import (
	"net/http"
	"time"

	"github.com/you/gramshare/internal/config"
	"github.com/you/gramshare/internal/db"
	"github.com/you/gramshare/internal/events"
	"github.com/you/gramshare/internal/filestore"
	"github.com/you/gramshare/internal/handlers"
	"github.com/you/gramshare/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load(".env")
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config failed")
	}

	var store storage.Storage
	if cfg.StorageType == "postgres" {
		if cfg.DatabaseURL == "" {
			log.Fatal("DATABASE_URL is not set")
		}
		dbConn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to DB")
		}
		if err := db.Migrate(dbConn, cfg.MigrationsDir); err != nil {
			log.WithError(err).Fatal("failed to run migrations")
		}
		store = storage.NewPostgresStorage(dbConn, cfg.DatabaseURL)
	} else {
		store = storage.NewMemoryStorage()
	}

	files, err := filestore.NewLocal(cfg.UploadDir)
	if err != nil {
		log.WithError(err).Fatal("init upload dir failed")
	}

	var sink events.Sink = events.Nop{}
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.WithError(err).Fatal("connect rabbitmq failed")
		}
		defer pub.Close()
		sink = pub
	}

	r := handlers.NewRouter(handlers.Config{
		Store:         store,
		Files:         files,
		Events:        sink,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    time.Duration(cfg.SessionTTLMin) * time.Minute,
		UploadDir:     cfg.UploadDir,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
	})

	log.WithField("addr", cfg.HTTPAddr).Info("server is running")
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, c.Handler(r)))
}
