package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// MaxUploadSize caps video uploads, in bytes. Defaults to 500MB.
	MaxUploadSize int64 `env:"MAX_FILE_SIZE, default=524288000"`

	// Default bootstrap access codes, upserted at startup.
	DefaultUserCode  string `env:"DEFAULT_USER_CODE,  default=user123"`
	DefaultAdminCode string `env:"DEFAULT_ADMIN_CODE, default=admin456"`

	Mongo MongoConfig
	Redis RedisConfig
	Blob  BlobConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=video_vault"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type BlobConfig struct {
	Endpoint        string `env:"BLOB_ENDPOINT,   default=localhost:9000"`
	AccessKeyID     string `env:"BLOB_ACCESS_KEY"`
	SecretAccessKey string `env:"BLOB_SECRET_KEY"`
	Bucket          string `env:"BLOB_BUCKET,     default=videos"`
	Region          string `env:"BLOB_REGION"`
	UseSSL          bool   `env:"BLOB_USE_SSL,    default=false"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
