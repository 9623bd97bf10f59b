package environment_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/programme-lv/judger/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEnvConfigDefaults(t *testing.T) {
	t.Setenv("JUDGER_LOG_LEVEL", "")
	t.Setenv("JUDGER_WORKSPACE", "")

	cfg, err := environment.ReadEnvConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ".", cfg.WorkspaceRoot)
	assert.Equal(t, "judger.jobs", cfg.NatsSubject)
}

func TestReadEnvConfigFromFile(t *testing.T) {
	t.Setenv("JUDGER_LOG_FORMAT", "")
	t.Setenv("JUDGER_SQS_QUEUE_URL", "")
	os.Unsetenv("JUDGER_LOG_FORMAT")
	os.Unsetenv("JUDGER_SQS_QUEUE_URL")

	path := filepath.Join(t.TempDir(), ".env")
	content := "JUDGER_LOG_FORMAT=json\nJUDGER_SQS_QUEUE_URL=https://sqs.example/queue\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := environment.ReadEnvConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "https://sqs.example/queue", cfg.SqsQueueURL)
}
