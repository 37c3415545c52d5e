package config

import (
	"time"

	"github.com/Skotchmaster/artshop/pkg/config"
)

type S3 struct {
	Bucket    string
	Region    string
	Endpoint  string
	Prefix    string
	PublicURL string
	AccessKey string
	SecretKey string
}

type Elastic struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Config struct {
	Port     string
	LogLevel string

	DBDriver      string
	DatabaseURL   string
	MongoDatabase string

	JWTSecret []byte
	TokenTTL  time.Duration

	UploadDir     string
	UploadURL     string
	MaxUploadSize int64

	S3      S3
	Elastic Elastic

	KafkaBrokers []string

	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration
}

func Load() Config {
	cfg := Config{
		Port:     config.EnvDefault("PORT", "4000"),
		LogLevel: config.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:      config.EnvDefault("DB_DRIVER", "mongo"),
		DatabaseURL:   config.EnvDefault("DATABASE_URL", ""),
		MongoDatabase: config.EnvDefault("MONGO_DATABASE", "artshop"),

		JWTSecret: []byte(config.EnvDefault("JWT_SECRET", "")),
		TokenTTL:  config.EnvDurationDefault("TOKEN_TTL", 7*24*time.Hour),

		UploadDir:     config.EnvDefault("UPLOAD_DIR", "uploads"),
		UploadURL:     config.EnvDefault("UPLOAD_URL", "/uploads"),
		MaxUploadSize: int64(config.EnvIntDefault("MAX_UPLOAD_MB", 1)) << 20,

		S3: S3{
			Bucket:    config.EnvDefault("S3_BUCKET", ""),
			Region:    config.EnvDefault("S3_REGION", "us-east-1"),
			Endpoint:  config.EnvDefault("S3_ENDPOINT", ""),
			Prefix:    config.EnvDefault("S3_PREFIX", "images"),
			PublicURL: config.EnvDefault("S3_PUBLIC_URL", ""),
			AccessKey: config.EnvDefault("S3_ACCESS_KEY", ""),
			SecretKey: config.EnvDefault("S3_SECRET_KEY", ""),
		},
		Elastic: Elastic{
			URL:      config.EnvDefault("ES_URL", ""),
			User:     config.EnvDefault("ES_USER", ""),
			Password: config.EnvDefault("ES_PASSWORD", ""),
			Index:    config.EnvDefault("ES_INDEX", "products"),
		},

		KafkaBrokers: config.CSV(config.EnvDefault("KAFKA_BROKERS", "")),

		CORSOrigins: config.CSV(config.EnvDefault("CORS_ORIGINS", "github,localhost")),
		RateLimit:   config.EnvIntDefault("RATE_LIMIT", 100),
		RateWindow:  config.EnvDurationDefault("RATE_WINDOW", 15*time.Minute),
	}

	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", "mongo", "postgres")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	return cfg
}
