// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// prefix namespaces every variable, e.g. ETHCRAWLER_HTTP_ADDR.
const prefix = "ethcrawler"

// Config holds every runtime setting.
type Config struct {
	// HTTPProvider is the JSON-RPC endpoint of the Ethereum node. The bare
	// HTTP_PROVIDER variable is accepted as well.
	HTTPProvider string `envconfig:"HTTP_PROVIDER" required:"true"`
	HTTPAddr     string `split_words:"true" default:"127.0.0.1:8000"`
	LogLevel     string `split_words:"true" default:"info"`

	Concurrency   int    `default:"100"`
	MaxBlockRange uint64 `split_words:"true" default:"1000000"` // widest range a single crawl may cover

	RPCTimeout      time.Duration `envconfig:"RPC_TIMEOUT" default:"5s"`
	RPCRetryMax     int           `envconfig:"RPC_RETRY_MAX" default:"0"`
	RPCRetryWaitMin time.Duration `envconfig:"RPC_RETRY_WAIT_MIN" default:"1s"`
	RPCRetryWaitMax time.Duration `envconfig:"RPC_RETRY_WAIT_MAX" default:"5s"`
	RPCRateLimit    float64       `envconfig:"RPC_RATE_LIMIT" default:"0"` // requests per second, 0 disables limiting
	RPCRateBurst    int           `envconfig:"RPC_RATE_BURST" default:"1"`

	// RedisAddr enables the distributed admission lock when set.
	RedisAddr     string        `split_words:"true"`
	RedisUsername string        `split_words:"true"`
	RedisPassword string        `split_words:"true"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	AdmissionTTL  time.Duration `split_words:"true" default:"10m"`

	// Start-up connection attempts against Redis, with exponential backoff
	// from RedisConnectDelay up to RedisConnectMaxDelay.
	RedisConnectAttempts uint          `split_words:"true" default:"5"`
	RedisConnectDelay    time.Duration `split_words:"true" default:"1s"`
	RedisConnectMaxDelay time.Duration `split_words:"true" default:"5s"`

	TelemetryEnabled bool   `split_words:"true" default:"false"`
	ServiceName      string `split_words:"true" default:"ethcrawler"`
}

// loadDotEnv loads variables from path when the file exists. Variables already
// set in the environment take precedence.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// Load reads the configuration from the environment, after loading a .env file
// from the working directory if there is one.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
