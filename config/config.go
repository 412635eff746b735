package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort   string
	MetricsPort   string
	MongoDBConfig MongoDBConfig
	UploadConfig  UploadConfig
	KafkaConfig   KafkaConfig
	TracingConfig TracingConfig
	LogConfig     LogConfig
}

type MongoDBConfig struct {
	URI    string
	DBHost string
	DBPort string
	DBName string
}

type UploadConfig struct {
	Directory            string
	MaxBodySize          string
	CleanupOrphanedBlobs bool
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
	SampleRatio   float64
}

type LogConfig struct {
	Level  string
	Format string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		MongoDBConfig: MongoDBConfig{
			URI:    os.Getenv("DB_URI"),
			DBHost: getEnv("DB_HOST", "localhost"),
			DBPort: getEnv("DB_PORT", "27017"),
			DBName: getEnv("DB_NAME", "storefront"),
		},
		UploadConfig: UploadConfig{
			Directory:   getEnv("UPLOAD_DIR", "uploads"),
			MaxBodySize: getEnv("MAX_BODY_SIZE", "50M"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "storefront-events"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		LogConfig: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	cleanup, err := strconv.ParseBool(getEnv("CLEANUP_ORPHANED_BLOBS", "true"))
	if err != nil {
		cleanup = true
	}

	conf.UploadConfig.CleanupOrphanedBlobs = cleanup

	ratio, err := strconv.ParseFloat(getEnv("TRACE_SAMPLE_RATIO", "1"), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		ratio = 1
	}

	conf.TracingConfig.SampleRatio = ratio

	return &conf
}

// MongoDBURI prefers DB_URI and falls back to a plain host:port connection string.
func (c MongoDBConfig) MongoDBURI() string {
	if c.URI != "" {
		return c.URI
	}

	return "mongodb://" + c.DBHost + ":" + c.DBPort
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}
