package environment

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	LogLevel  string
	LogFormat string

	// WorkspaceRoot is the directory holding the problem/ scratch tree.
	WorkspaceRoot string

	NatsURL     string
	NatsSubject string

	SqsQueueURL string
	AwsRegion   string
}

// ReadEnvConfig loads .env files (when present) into the process environment
// and reads the judger variables from it.
func ReadEnvConfig(files ...string) (*EnvConfig, error) {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	return &EnvConfig{
		LogLevel:      getenv("JUDGER_LOG_LEVEL", "info"),
		LogFormat:     getenv("JUDGER_LOG_FORMAT", "text"),
		WorkspaceRoot: getenv("JUDGER_WORKSPACE", "."),
		NatsURL:       os.Getenv("JUDGER_NATS_URL"),
		NatsSubject:   getenv("JUDGER_NATS_SUBJECT", "judger.jobs"),
		SqsQueueURL:   os.Getenv("JUDGER_SQS_QUEUE_URL"),
		AwsRegion:     getenv("JUDGER_AWS_REGION", "eu-central-1"),
	}, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
