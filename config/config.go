package config

import (
	"flag"
	"os"
	"sync"
	"time"
)

const (
	defaultServerAddress   = ":8080"
	defaultDatabaseDSN     = ""
	defaultAssetStoreAddr  = "http://localhost:8090"
	defaultAssetBucket     = "photos"
	defaultKafkaTopic      = "payment-events"
	defaultPollInterval    = 3 * time.Second
	defaultPollTimeout     = 5 * time.Minute
	defaultConfirmDelay    = 1500 * time.Millisecond
	defaultPendingOrderTTL = 24 * time.Hour
	defaultWorkerInterval  = time.Minute
	defaultLogLevel        = "debug"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	AssetStoreAddr    string
	AssetBucket       string
	WebhookSecret     string
	OperatorTokenHash string
	KafkaBroker       string
	KafkaTopic        string
	PollInterval      time.Duration
	PollTimeout       time.Duration
	ConfirmDelay      time.Duration
	PendingOrderTTL   time.Duration
	WorkerInterval    time.Duration
	LogLevel          string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "checkout server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "order database DSN")
		flag.StringVar(&cfg.AssetStoreAddr, "s", defaultAssetStoreAddr, "asset store address")
		flag.StringVar(&cfg.AssetBucket, "b", defaultAssetBucket, "asset store bucket")
		flag.StringVar(&cfg.WebhookSecret, "w", "", "payment webhook shared secret")
		flag.StringVar(&cfg.OperatorTokenHash, "o", "", "bcrypt hash of the operator token")
		flag.StringVar(&cfg.KafkaBroker, "k", "", "kafka broker address")
		flag.StringVar(&cfg.KafkaTopic, "t", defaultKafkaTopic, "payment events topic")
		flag.DurationVar(&cfg.PollInterval, "pi", defaultPollInterval, "payment status poll interval")
		flag.DurationVar(&cfg.PollTimeout, "pt", defaultPollTimeout, "payment status poll timeout")
		flag.DurationVar(&cfg.ConfirmDelay, "cd", defaultConfirmDelay, "delay before success redirect")
		flag.DurationVar(&cfg.PendingOrderTTL, "ttl", defaultPendingOrderTTL, "pending order time to live")
		flag.DurationVar(&cfg.WorkerInterval, "wi", defaultWorkerInterval, "reconcile worker interval")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if assetStoreEnv := os.Getenv("ASSET_STORE_ADDRESS"); assetStoreEnv != "" {
			cfg.AssetStoreAddr = assetStoreEnv
		}
		if assetBucketEnv := os.Getenv("ASSET_STORE_BUCKET"); assetBucketEnv != "" {
			cfg.AssetBucket = assetBucketEnv
		}
		if webhookSecretEnv := os.Getenv("PAYMENT_WEBHOOK_SECRET"); webhookSecretEnv != "" {
			cfg.WebhookSecret = webhookSecretEnv
		}
		if operatorTokenEnv := os.Getenv("OPERATOR_TOKEN_HASH"); operatorTokenEnv != "" {
			cfg.OperatorTokenHash = operatorTokenEnv
		}
		if kafkaBrokerEnv := os.Getenv("KAFKA_BROKER"); kafkaBrokerEnv != "" {
			cfg.KafkaBroker = kafkaBrokerEnv
		}
		if kafkaTopicEnv := os.Getenv("KAFKA_TOPIC"); kafkaTopicEnv != "" {
			cfg.KafkaTopic = kafkaTopicEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
