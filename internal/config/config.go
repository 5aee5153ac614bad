package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Storage
	StorageType   string `envconfig:"STORAGE_TYPE" default:"in-memory"`
	DatabaseURL   string `envconfig:"DATABASE_URL"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"internal/db/migrations"`

	// Sessions
	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTLMin int    `envconfig:"SESSION_TTL_MIN" default:"1440"`

	// Uploaded pictures
	UploadDir string `envconfig:"UPLOAD_DIR" default:"uploads"`

	// Events (optional; disabled when AMQP_URL is empty)
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"gramshare.exchange"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
